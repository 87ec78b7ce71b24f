package server

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/hafas-rest-client/internal/logx"
	"github.com/r9s-ai/hafas-rest-client/internal/requestid"
)

// Context keys handlers set for the access log.
const (
	ctxOperator    = "hafas.operator"
	ctxHafasMethod = "hafas.method"
	ctxHafasStatus = "hafas.status"
	ctxHafasCode   = "hafas.code"
	ctxHafasError  = "hafas.error"
	ctxResults     = "hafas.results"
)

type contextFieldSpec struct {
	ctxKey string
	logKey string
}

var accessLogContextFieldSpecs = []contextFieldSpec{
	{ctxKey: ctxOperator, logKey: "operator"},
	{ctxKey: ctxHafasMethod, logKey: "hafas_method"},
	{ctxKey: ctxHafasStatus, logKey: "hafas_status"},
	{ctxKey: ctxHafasCode, logKey: "hafas_code"},
	{ctxKey: ctxHafasError, logKey: "hafas_error"},
	{ctxKey: ctxResults, logKey: "results"},
}

func requestIDMiddleware(headerKey string) gin.HandlerFunc {
	headerKey = requestid.ResolveHeaderKey(headerKey)
	return func(c *gin.Context) {
		id := requestid.Sanitize(c.GetHeader(headerKey))
		if id == "" {
			id = requestid.Gen()
		}
		c.Header(headerKey, id)
		c.Set(headerKey, id)
		c.Next()
	}
}

func requestLoggerWithColor(l *log.Logger, color bool, requestIDHeaderKey string, accessFormatter *logx.AccessLogFormatter) gin.HandlerFunc {
	requestIDHeaderKey = requestid.ResolveHeaderKey(requestIDHeaderKey)
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		e := logx.Entry{
			Time:     time.Now(),
			Status:   c.Writer.Status(),
			Latency:  time.Since(start),
			ClientIP: c.ClientIP(),
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Fields:   accessLogFields(c, requestIDHeaderKey),
		}
		if accessFormatter != nil {
			l.Println(accessFormatter.Format(e, color))
			return
		}
		l.Println(logx.FormatRequestLine(e, color))
	}
}

func accessLogFields(c *gin.Context, requestIDHeaderKey string) map[string]any {
	out := make(map[string]any, len(accessLogContextFieldSpecs)+1)
	if id := strings.TrimSpace(c.GetString(requestIDHeaderKey)); id != "" {
		out["request_id"] = id
	}
	for _, s := range accessLogContextFieldSpecs {
		if v, ok := c.Get(s.ctxKey); ok {
			out[s.logKey] = v
		}
	}
	return out
}
