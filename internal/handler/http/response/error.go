package response

import (
	"errors"
	"net/http"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/pkg/jwt"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, activity.ErrInvalidEventType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, activity.ErrMissingEmployee):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, activity.ErrEventNotFound):
		NotFound(w, "Attendance event not found")
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
