package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// accessLogMiddleware logs every request at a level chosen by its status.
func accessLogMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		status := c.Response().StatusCode()
		reqID, _ := c.Locals("requestid").(string)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes_out", len(c.Response().Body())),
			zap.String("ip", c.IP()),
			zap.String("request_id", reqID),
		}

		level := zapcore.InfoLevel
		switch {
		case err != nil:
			fields = append(fields, zap.Error(err))
			level = zapcore.ErrorLevel
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}

		if ce := logger.Check(level, method+" "+path); ce != nil {
			ce.Write(fields...)
		}
		return err
	}
}
