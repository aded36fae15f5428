package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/existflow/ironlist/internal/catalog"
	"github.com/existflow/ironlist/internal/config"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/persist"
	"github.com/existflow/ironlist/internal/schedule"
	"github.com/existflow/ironlist/internal/view"
)

// Result carries the view of whichever collection an intent touched
type Result struct {
	Tasks *view.TaskView `json:"tasks,omitempty"`
	Cart  *view.CartView `json:"cart,omitempty"`
}

// AppOptions are shared by both dispatchers
type AppOptions struct {
	Scheduler schedule.Scheduler
	Logger    *logger.Logger
	OnError   func(error)
}

// App bundles the task and cart dispatchers over one storage adapter
type App struct {
	Tasks   *TaskDispatcher
	Cart    *CartDispatcher
	Catalog *catalog.Catalog

	adapter *persist.Adapter
}

// Open builds an App from config: it opens the storage backend and the
// product catalog. Call Load afterwards to restore persisted state.
func Open(ctx context.Context, cfg *config.Config, opts AppOptions) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logger.WithFields()
	}

	cat, found, err := catalog.Load(cfg.Catalog())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if !found {
		log.Info("No product catalog, cart starts with nothing to add", logger.F("path", cfg.Catalog()))
	}

	backend, err := persist.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	log.Info("Storage opened", logger.F("driver", cfg.Storage.Driver))

	return NewApp(persist.NewAdapter(backend), cat, cfg, opts), nil
}

// NewApp wires dispatchers around an existing adapter and catalog
func NewApp(adapter *persist.Adapter, cat *catalog.Catalog, cfg *config.Config, opts AppOptions) *App {
	return &App{
		Tasks: NewTaskDispatcher(adapter, TaskOptions{
			GracePeriod: cfg.GracePeriod,
			Scheduler:   opts.Scheduler,
			Logger:      opts.Logger,
			OnError:     opts.OnError,
		}),
		Cart: NewCartDispatcher(adapter, cat, CartOptions{
			Currency:       cfg.Currency,
			NoticeDuration: cfg.NoticeDuration,
			Scheduler:      opts.Scheduler,
			Logger:         opts.Logger,
		}),
		Catalog: cat,
		adapter: adapter,
	}
}

// Load restores both collections. Each dispatcher stays usable, and empty,
// when its own load fails.
func (a *App) Load(ctx context.Context) error {
	return errors.Join(a.Tasks.Load(ctx), a.Cart.Load(ctx))
}

// Dispatch routes an intent to the dispatcher that owns it
func (a *App) Dispatch(ctx context.Context, in Intent) (Result, error) {
	return a.route(ctx, in, false)
}

// Apply routes like Dispatch but returns validation failures, so a caller
// can report a rejected intent in the same locked step that checked it
func (a *App) Apply(ctx context.Context, in Intent) (Result, error) {
	return a.route(ctx, in, true)
}

func (a *App) route(ctx context.Context, in Intent, strict bool) (Result, error) {
	switch in.(type) {
	case AddTask, ToggleTask, EditTask, RemoveTask, ClearCompleted, SetFilter, ToggleTheme:
		v, err := a.Tasks.dispatch(ctx, in, strict)
		return Result{Tasks: &v}, err
	case AddToCart, UpdateQuantity, RemoveFromCart, ClearCart, Checkout:
		v, err := a.Cart.dispatch(ctx, in, strict)
		return Result{Cart: &v}, err
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnsupportedIntent, in)
	}
}

// Wait blocks until pending task removals have completed
func (a *App) Wait(ctx context.Context) error {
	return a.Tasks.Wait(ctx)
}

// Close stops timers and closes storage. Pending removals that have not
// fired are lost; call Wait first to keep them.
func (a *App) Close() error {
	a.Cart.Close()
	return a.adapter.Close()
}
