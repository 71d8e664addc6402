package handler

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rl1809/shirt-inventory/internal/platform/metrics"
	"github.com/rl1809/shirt-inventory/internal/platform/requestid"
	"github.com/rl1809/shirt-inventory/internal/platform/tracing"
)

var registerTagNames sync.Once

// NewRouter builds the gin engine with the shared middleware chain and the
// Prometheus endpoint.
func NewRouter(h *HTTPHandler, logger *slog.Logger) *gin.Engine {
	registerTagNames.Do(useJSONFieldNames)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(tracing.Middleware())
	r.Use(metrics.Middleware)
	r.Use(accessLog(logger))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	h.RegisterRoutes(r)
	return r
}

// useJSONFieldNames makes validation errors report the JSON name of a field.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", requestid.FromContext(c.Request.Context()),
		)
	}
}
