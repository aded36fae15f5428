package server

import (
	"net/http"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/model"
	"github.com/labstack/echo/v4"
)

type addTaskRequest struct {
	Text     string `json:"text" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=high medium low"`
}

type editTaskRequest struct {
	Text string `json:"text" validate:"required"`
}

type filterRequest struct {
	Filter string `json:"filter" validate:"required,oneof=all active completed"`
}

func (s *Server) handleListTasks(c echo.Context) error {
	v := s.app.Tasks.View()
	return c.JSON(http.StatusOK, response{Tasks: &v})
}

func (s *Server) handleAddTask(c echo.Context) error {
	var req addTaskRequest
	if err := bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return s.apply(c, dispatch.AddTask{Text: req.Text, Priority: model.ParsePriority(req.Priority)})
}

func (s *Server) handleToggleTask(c echo.Context) error {
	id := c.Param("id")
	return s.apply(c, dispatch.ToggleTask{ID: id})
}

func (s *Server) handleEditTask(c echo.Context) error {
	id := c.Param("id")

	var req editTaskRequest
	if err := bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return s.apply(c, dispatch.EditTask{ID: id, Text: req.Text})
}

// handleRemoveTask answers before the task is gone; the returned view marks it
// as removing until the grace period ends
func (s *Server) handleRemoveTask(c echo.Context) error {
	id := c.Param("id")
	return s.apply(c, dispatch.RemoveTask{ID: id})
}

func (s *Server) handleClearCompleted(c echo.Context) error {
	return s.apply(c, dispatch.ClearCompleted{})
}

func (s *Server) handleSetFilter(c echo.Context) error {
	var req filterRequest
	if err := bind(c, &req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return s.apply(c, dispatch.SetFilter{Filter: model.Filter(req.Filter)})
}

func (s *Server) handleToggleTheme(c echo.Context) error {
	return s.apply(c, dispatch.ToggleTheme{})
}
