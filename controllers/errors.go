package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"runclub-api/middleware"
	"runclub-api/models"
	"runclub-api/services"
	"runclub-api/utils"
)

var statusByError = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrAccountSuspended, http.StatusForbidden},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrInvalidToken, http.StatusUnauthorized},
	{services.ErrEmailTaken, http.StatusConflict},
	{services.ErrRunFull, http.StatusConflict},
	{services.ErrRunStarted, http.StatusConflict},
	{services.ErrRunCompleted, http.StatusConflict},
	{services.ErrCapacityTooSmall, http.StatusConflict},
	{services.ErrEmptyComment, http.StatusBadRequest},
	{services.ErrEmptyPost, http.StatusBadRequest},
	{services.ErrInvalidInput, http.StatusBadRequest},
}

// respondError maps service errors to their HTTP status. Anything unknown is
// attached to the context for ErrorHandler and reported as a 500.
func respondError(c *gin.Context, err error) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			utils.SendError(c, m.status, err.Error())
			return
		}
	}
	_ = c.Error(err)
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{
		ID:   c.GetString(middleware.ContextUserID),
		Role: models.Role(c.GetString(middleware.ContextRole)),
	}
}
