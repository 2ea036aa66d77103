package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"simple-ledger-go/logging"
)

type loggerMiddleware struct {
	log logging.Logger
}

// makeLogger logs one line per request once the handler has answered.
func makeLogger(log logging.Logger) echo.MiddlewareFunc {
	logger := loggerMiddleware{
		log: log,
	}
	return logger.handler
}

func (logger *loggerMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) (err error) {
		start := time.Now()
		res := ctx.Response()
		req := ctx.Request()

		// errors are written here so the status below is the final one
		if err = next(ctx); err != nil {
			ctx.Error(err)
		}

		logger.log.WithFields(logging.Fields{
			"remote":  req.RemoteAddr,
			"method":  req.Method,
			"uri":     req.RequestURI,
			"status":  res.Status,
			"bytes":   res.Size,
			"elapsed": time.Since(start).String(),
		}).Info("request served")
		return nil
	}
}
