package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/hafas-rest-client/internal/logx"
	"github.com/r9s-ai/hafas-rest-client/internal/requestid"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

// RouterOptions configure NewRouter.
type RouterOptions struct {
	AccessLog          bool
	AccessLogger       *log.Logger
	AccessLoggerColor  bool
	AccessFormatter    *logx.AccessLogFormatter
	RequestIDHeaderKey string
	// APIKey protects every route but /healthz when set.
	APIKey string
}

func newRouter(st *state, opts RouterOptions) *gin.Engine {
	headerKey := requestid.ResolveHeaderKey(opts.RequestIDHeaderKey)
	r := gin.New()
	r.Use(requestIDMiddleware(headerKey))
	if opts.AccessLog {
		r.Use(requestLoggerWithColor(opts.AccessLogger, opts.AccessLoggerColor, headerKey, opts.AccessFormatter))
	}
	r.Use(gin.Recovery())

	h := handlers{st: st}
	r.GET("/healthz", h.healthz)

	api := r.Group("/")
	if strings.TrimSpace(opts.APIKey) != "" {
		api.Use(authMiddleware(opts.APIKey))
	}
	api.GET("/profile", h.profile)
	api.GET("/locations", h.locations)
	api.GET("/stops/nearby", h.nearby)
	api.GET("/stops/:id/departures", h.board(hafas.DirectionDeparture))
	api.GET("/stops/:id/arrivals", h.board(hafas.DirectionArrival))
	api.GET("/journeys", h.journeys)
	r.NoRoute(func(c *gin.Context) {
		renderJSON(c, http.StatusNotFound, gin.H{"error": errorBody{Message: "no such route"}})
	})
	return r
}
