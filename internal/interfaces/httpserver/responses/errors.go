package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/task-api/internal/utils/platformerrors"
)

const internalServerError = "Internal Server Error"

// HandleError writes err as a {"detail": ...} body with the status mapped from its
// platform error type. Server-side failures never leak their message.
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var pe *platformerrors.PlatformError
	if !errors.As(err, &pe) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: internalServerError})
		return
	}

	status := platformerrors.ErrorTypeToHTTPStatus(pe.GetErrorType())
	detail := pe.GetMessage()
	if status >= http.StatusInternalServerError {
		detail = internalServerError
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// HandleValidationError rejects a request whose path, query or body failed binding.
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute,
		platformerrors.ErrorTypeValidation, err.Error(), err))
}
