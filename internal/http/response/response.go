package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/platform/logger"
	"saas_admin/internal/repos"
)

// StatusClientClosedRequest is reported when the caller went away before the handler ran.
const StatusClientClosedRequest = 499

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func BadRequest(c *gin.Context, param, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{
		Error: APIError{Message: msg, Code: "validation_error", Param: param},
	})
}

// Fail maps an application error onto a status code. Unknown errors are logged and hidden.
func Fail(c *gin.Context, log *logger.Logger, err error) {
	var arg *models.ArgumentError
	switch {
	case errors.As(err, &arg):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{
			Error: APIError{Message: arg.Error(), Code: "validation_error", Param: arg.Param},
		})
	case errors.Is(err, models.ErrValidation):
		RespondError(c, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, models.ErrInvalidOperation):
		RespondError(c, http.StatusConflict, "invalid_operation", err)
	case errors.Is(err, repos.ErrConflict):
		RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, app.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, app.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, context.Canceled):
		RespondError(c, StatusClientClosedRequest, "canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		RespondError(c, http.StatusGatewayTimeout, "timeout", err)
	default:
		if errors.Is(err, mediator.ErrNoHandler) {
			log.Error("no handler registered", "path", c.FullPath(), "error", err)
		} else {
			log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		}
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}

func NotFound(c *gin.Context) {
	RespondError(c, http.StatusNotFound, "not_found", errors.New("resource not found"))
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Created answers 201 with a Location header pointing at the new resource.
func Created(c *gin.Context, location string, payload any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, payload)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
