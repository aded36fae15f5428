package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/view"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// shutdownTimeout bounds graceful shutdown in Run
const shutdownTimeout = 5 * time.Second

// Server serves the task list and cart as JSON views
type Server struct {
	app  *dispatch.App
	echo *echo.Echo
}

// New creates a new server over app. The caller owns app and closes it.
func New(app *dispatch.App) *Server {
	s := &Server{app: app}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	api.GET("/tasks", s.handleListTasks)
	api.POST("/tasks", s.handleAddTask)
	api.POST("/tasks/clear-completed", s.handleClearCompleted)
	api.POST("/tasks/:id/toggle", s.handleToggleTask)
	api.PATCH("/tasks/:id", s.handleEditTask)
	api.DELETE("/tasks/:id", s.handleRemoveTask)

	api.PUT("/preferences/filter", s.handleSetFilter)
	api.POST("/preferences/theme", s.handleToggleTheme)

	api.GET("/catalog", s.handleCatalog)

	api.GET("/cart", s.handleGetCart)
	api.DELETE("/cart", s.handleClearCart)
	api.POST("/cart/items", s.handleAddToCart)
	api.POST("/cart/items/:id/quantity", s.handleUpdateQuantity)
	api.DELETE("/cart/items/:id", s.handleRemoveFromCart)
	api.POST("/cart/checkout", s.handleCheckout)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", logger.F("addr", addr))
		errCh <- s.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// response wraps the view an intent produced. Warning is set when the change
// was applied but could not be saved.
type response struct {
	Tasks   *view.TaskView `json:"tasks,omitempty"`
	Cart    *view.CartView `json:"cart,omitempty"`
	Warning string         `json:"warning,omitempty"`
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// apply dispatches in and maps its outcome to a status code
func (s *Server) apply(c echo.Context, in dispatch.Intent) error {
	res, err := s.app.Apply(c.Request().Context(), in)
	body := response{Tasks: res.Tasks, Cart: res.Cart}
	if err == nil {
		return c.JSON(http.StatusOK, body)
	}

	var perr *model.PersistenceError
	if errors.As(err, &perr) {
		logger.Warn("Change applied but not saved", logger.F("intent", dispatch.Name(in)), logger.F("error", err))
		body.Warning = perr.Error()
		return c.JSON(http.StatusOK, body)
	}
	return fail(c, err)
}

// fail writes the error response for a rejected request
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrCatalogLookup):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrEmptyCart):
		return errorJSON(c, http.StatusConflict, err.Error())
	case model.IsValidation(err):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", logger.F("uri", c.Request().RequestURI), logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}

// bind decodes and validates a request body
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.New("invalid request")
	}
	return c.Validate(req)
}
