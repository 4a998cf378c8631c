package routes

import (
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/janhq/task-api/internal/infrastructure/openapispec"
	"github.com/janhq/task-api/internal/interfaces/httpserver/handlers"
)

// Provider registers every API route on the engine and in the OpenAPI catalog.
type Provider struct {
	handlers *handlers.Provider
	catalog  *openapispec.Builder
}

// NewProvider builds the route registrar.
func NewProvider(handlerProvider *handlers.Provider, catalog *openapispec.Builder) *Provider {
	return &Provider{
		handlers: handlerProvider,
		catalog:  catalog,
	}
}

// Register attaches the user, task and chatbot routes. Registration order is the
// order tools are offered to the model.
func (p *Provider) Register(engine *gin.Engine) {
	r := NewRegistrar(engine, p.catalog)
	registerUserRoutes(r, p.handlers.User)
	registerTaskRoutes(r, p.handlers.Task)
	registerChatbotRoutes(r, p.handlers.Chatbot)
}

// Registrar adds a route to gin and describes it in the catalog in one step, so
// the published document never drifts from the served routes.
type Registrar struct {
	router  gin.IRoutes
	catalog *openapispec.Builder
}

func NewRegistrar(router gin.IRoutes, catalog *openapispec.Builder) *Registrar {
	return &Registrar{router: router, catalog: catalog}
}

// Handle registers route. route.Path uses {name} placeholders.
func (r *Registrar) Handle(route openapispec.Route, handler gin.HandlerFunc) {
	if r.catalog != nil {
		r.catalog.Add(route)
	}
	r.router.Handle(route.Method, GinPath(route.Path), handler)
}

var pathParamPattern = regexp.MustCompile(`\{([^/{}]+)\}`)

// GinPath converts {name} placeholders to gin's :name form.
func GinPath(template string) string {
	return pathParamPattern.ReplaceAllString(template, ":$1")
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
