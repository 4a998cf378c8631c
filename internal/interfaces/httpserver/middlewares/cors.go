package middlewares

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the configured origins. A "*" entry opens the API to every origin.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        time.Hour,
	}

	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			origins = nil
			break
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}
