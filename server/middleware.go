package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/ironlist/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestLogger logs every request and its response
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		logger.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		err := next(c)

		res := c.Response()
		logger.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return err
	}
}

// requestValidator plugs go-playground/validator into echo's Validate
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

// Validate returns one readable error listing every failed field
func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", name))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", name, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid: %s", name, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
