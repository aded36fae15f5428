// Package dispatch maps user intents to store mutations, then persists the
// result and hands a fresh view to the renderer.
package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/ironlist/internal/model"
)

// ErrUnsupportedIntent is returned when an intent reaches a dispatcher that
// does not handle it
var ErrUnsupportedIntent = errors.New("unsupported intent")

// Intent is a discrete user action. The set is closed.
type Intent interface {
	isIntent()
}

// Task list intents
type (
	AddTask struct {
		Text     string
		Priority model.Priority
	}
	ToggleTask struct {
		ID string
	}
	EditTask struct {
		ID   string
		Text string
	}
	RemoveTask struct {
		ID string
	}
	ClearCompleted struct{}
	SetFilter      struct {
		Filter model.Filter
	}
	ToggleTheme struct{}
)

// Cart intents
type (
	AddToCart struct {
		ProductID model.ProductID
	}
	UpdateQuantity struct {
		ID    model.ProductID
		Delta int
	}
	RemoveFromCart struct {
		ID model.ProductID
	}
	ClearCart struct{}
	Checkout  struct{}
)

func (AddTask) isIntent()        {}
func (ToggleTask) isIntent()     {}
func (EditTask) isIntent()       {}
func (RemoveTask) isIntent()     {}
func (ClearCompleted) isIntent() {}
func (SetFilter) isIntent()      {}
func (ToggleTheme) isIntent()    {}
func (AddToCart) isIntent()      {}
func (UpdateQuantity) isIntent() {}
func (RemoveFromCart) isIntent() {}
func (ClearCart) isIntent()      {}
func (Checkout) isIntent()       {}

// Name returns the intent type name for logs, e.g. "AddTask"
func Name(in Intent) string {
	n := fmt.Sprintf("%T", in)
	if i := strings.LastIndex(n, "."); i >= 0 {
		return n[i+1:]
	}
	return n
}
