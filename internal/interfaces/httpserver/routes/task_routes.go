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

var taskIDParam = openapispec.PathParam("task_id", "integer", "The unique ID of the task.")

func registerTaskRoutes(r *Registrar, handler *handlers.TaskHandler) {
	r.Handle(openapispec.Route{
		Method:      http.MethodPost,
		Path:        "/tasks/",
		OperationID: "create_task",
		Summary:     "Create a new task",
		Description: "Assign a new task to a user. Provide a title, content, and the user ID.",
		Tags:        []string{"tasks"},
		Body:        requests.CreateTaskRequest{},
		Responses: map[int]string{
			http.StatusCreated:             "Successful Response",
			http.StatusNotFound:            "User (owner) not found for given user_id",
			http.StatusUnprocessableEntity: "Validation Error",
		},
	}, createTask(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodGet,
		Path:        "/tasks",
		OperationID: "list_tasks",
		Summary:     "Get all tasks",
		Description: "Retrieve the details of all tasks. You can filter tasks by title, content, completion status, and the username of the user who created them.",
		Tags:        []string{"tasks"},
		Params: []apispec.Parameter{
			openapispec.QueryParam("name", "string", "Filter tasks by the username of the user who created them."),
			openapispec.QueryParam("task_title", "string", "Filter tasks by title."),
			openapispec.QueryParam("task_content", "string", "Filter tasks by content."),
			openapispec.QueryParam("is_completed", "boolean", "Filter tasks by completion status."),
			openapispec.QueryParam("user_id", "integer", "Filter tasks by user ID."),
		},
	}, listTasks(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}",
		OperationID: "get_task",
		Summary:     "Get task by ID",
		Description: "Fetch details of a specific task using its ID. Returns task information including user ID.",
		Tags:        []string{"tasks"},
		Params:      []apispec.Parameter{taskIDParam},
		Responses:   map[int]string{http.StatusOK: "Successful Response", http.StatusNotFound: "Task not found"},
	}, getTask(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodPut,
		Path:        "/tasks/{task_id}",
		OperationID: "update_task",
		Summary:     "Update a task",
		Description: "Edit the details of an existing task such as title, content, or completion status.",
		Tags:        []string{"tasks"},
		Params:      []apispec.Parameter{taskIDParam},
		Body:        requests.UpdateTaskRequest{},
		Responses:   map[int]string{http.StatusOK: "Successful Response", http.StatusNotFound: "Task not found"},
	}, updateTask(handler))

	r.Handle(openapispec.Route{
		Method:      http.MethodDelete,
		Path:        "/tasks/{task_id}",
		OperationID: "delete_task",
		Summary:     "Delete a task",
		Description: "Delete a task permanently by providing its ID. Useful for cleaning up old or completed tasks.",
		Tags:        []string{"tasks"},
		Params:      []apispec.Parameter{taskIDParam},
		Responses:   map[int]string{http.StatusOK: "Successful Response", http.StatusNotFound: "Task not found"},
	}, deleteTask(handler))
}

func createTask(handler *handlers.TaskHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		created, err := handler.Create(c.Request.Context(), req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, responses.NewTask(created))
	}
}

func listTasks(handler *handlers.TaskHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query requests.ListTasksQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		tasks, err := handler.List(c.Request.Context(), query)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewTaskList(tasks))
	}
}

func getTask(handler *handlers.TaskHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "task_id")
		if err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		found, err := handler.Get(c.Request.Context(), id)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewTask(found))
	}
}

func updateTask(handler *handlers.TaskHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "task_id")
		if err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		var req requests.UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		updated, err := handler.Update(c.Request.Context(), id, req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewTask(updated))
	}
}

func deleteTask(handler *handlers.TaskHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "task_id")
		if err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		if err := handler.Delete(c.Request.Context(), id); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.DetailResponse{Detail: "Task deleted successfully."})
	}
}
