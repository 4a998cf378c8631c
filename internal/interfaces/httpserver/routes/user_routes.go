package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/task-api/internal/domain/apispec"
	"github.com/janhq/task-api/internal/infrastructure/openapispec"
	"github.com/janhq/task-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/task-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/task-api/internal/interfaces/httpserver/responses"
)

var userIDParam = openapispec.PathParam("user_id", "integer", "The unique ID of the user.")

func registerUserRoutes(r *Registrar, handler *handlers.UserHandler) {
	r.Handle(openapispec.Route{
		Method:      http.MethodPost,
		Path:        "/users/",
		OperationID: "create_user",
		Summary:     "Create a new user",
		Description: "Register a new user in the system. Provide essential user information including email and phone number.",
		Tags:        []string{"users"},
		Body:        requests.CreateUserRequest{},
		Responses: map[int]string{
			http.StatusCreated:             "Successful Response",
			http.StatusBadRequest:          "Username or email already exists",
			http.StatusUnprocessableEntity: "Validation Error",
		},
	}, createUser(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodGet,
		Path:        "/users",
		OperationID: "list_users",
		Summary:     "Get all users",
		Description: "Retrieve the details of all users. You can also filter by username using the 'name' query parameter.",
		Tags:        []string{"users"},
		Params: []apispec.Parameter{
			openapispec.QueryParam("name", "string", "Filter or get users by username."),
			openapispec.QueryParam("email_add", "string", "Filter or get users details by their email."),
			openapispec.QueryParam("phone_num", "string", "Filter or get users details by their phone number."),
		},
	}, listUsers(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodGet,
		Path:        "/users/{user_id}",
		OperationID: "get_user",
		Summary:     "Get a user by ID",
		Description: "Retrieve the user details using their unique ID. Returns 404 if not found.",
		Tags:        []string{"users"},
		Params:      []apispec.Parameter{userIDParam},
		Responses:   map[int]string{http.StatusOK: "Successful Response", http.StatusNotFound: "User not found"},
	}, getUser(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodPut,
		Path:        "/users/{user_id}",
		OperationID: "update_user",
		Summary:     "Update user info",
		Description: "Modify existing user information like name, email, or phone number.",
		Tags:        []string{"users"},
		Params:      []apispec.Parameter{userIDParam},
		Body:        requests.UpdateUserRequest{},
		Responses:   map[int]string{http.StatusOK: "Successful Response", http.StatusNotFound: "User not found"},
	}, updateUser(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodDelete,
		Path:        "/users/{user_id}",
		OperationID: "delete_user",
		Summary:     "Delete a user",
		Description: "Remove a user permanently using their ID. All tasks associated will be affected.",
		Tags:        []string{"users"},
		Params:      []apispec.Parameter{userIDParam},
		Responses:   map[int]string{http.StatusOK: "Successful Response", http.StatusNotFound: "User not found"},
	}, deleteUser(handler))
}

func createUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		created, err := handler.Create(c.Request.Context(), req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, responses.NewUser(created))
	}
}

func listUsers(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query requests.ListUsersQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		result, err := handler.List(c.Request.Context(), query)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewUserList(result))
	}
}

func getUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "user_id")
		if err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		found, err := handler.Get(c.Request.Context(), id)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewUser(found))
	}
}

func updateUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "user_id")
		if err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		var req requests.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		updated, err := handler.Update(c.Request.Context(), id, req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewUser(updated))
	}
}

func deleteUser(handler *handlers.UserHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "user_id")
		if err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		if err := handler.Delete(c.Request.Context(), id); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.DetailResponse{Detail: "User deleted successfully."})
	}
}
