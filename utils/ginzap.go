package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request through the global zap logger.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path

		ctx.Next()

		fields := []zap.Field{
			zap.Int("status", ctx.Writer.Status()),
			zap.String("method", ctx.Request.Method),
			zap.String("path", path),
			zap.String("ip", ctx.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}
		logger().Info(path, fields...)
	}
}

// RecoveryWithZap recovers from panics, logs the stack, and answers with a
// generic 500 body so no internal detail leaks to the caller.
func RecoveryWithZap() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger().Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", ctx.Request.URL.Path),
					zap.Stack("stacktrace"),
				)
				Detail(ctx, http.StatusInternalServerError, MsgInternalError)
				ctx.Abort()
			}
		}()
		ctx.Next()
	}
}
