package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gojson "github.com/goccy/go-json"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

const jsonContentType = "application/json; charset=utf-8"

func renderJSON(c *gin.Context, status int, v any) {
	b, err := gojson.Marshal(v)
	if err != nil {
		c.Data(http.StatusInternalServerError, jsonContentType, []byte(`{"error":{"message":"encode response"}}`))
		return
	}
	c.Data(status, jsonContentType, b)
}

type errorBody struct {
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Code     string `json:"code,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// statusFor maps a client error to the HTTP status of the facade.
func statusFor(err error) int {
	var pe *paramError
	switch {
	case errors.As(err, &pe), errors.Is(err, hafas.ErrValidation), errors.Is(err, hafas.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, hafas.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, hafas.ErrQuota):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func renderError(c *gin.Context, err error) {
	body := errorBody{Message: err.Error()}
	var pe *paramError
	var ve *hafas.ValidationError
	var he *hafas.Error
	switch {
	case errors.As(err, &pe):
		body.Field = pe.name
	case errors.As(err, &ve):
		body.Field = ve.Field
	case errors.As(err, &he):
		body.Code = he.Code
		body.Name = he.Name
		body.Category = string(he.Category)
		if he.Message != "" {
			body.Message = he.Message
		}
		c.Set(ctxHafasStatus, he.StatusCode)
	}
	if body.Code != "" {
		c.Set(ctxHafasCode, body.Code)
	}
	c.Set(ctxHafasError, body.Message)
	renderJSON(c, statusFor(err), gin.H{"error": body})
}
