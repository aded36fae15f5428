package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/schedule"
	"github.com/existflow/ironlist/internal/store"
	"github.com/existflow/ironlist/internal/view"
	"github.com/google/uuid"
)

// DefaultGracePeriod is how long a removed task stays visible before it is
// actually deleted
const DefaultGracePeriod = 300 * time.Millisecond

// TaskPersistence is the storage the task dispatcher writes through to
type TaskPersistence interface {
	LoadTasks(ctx context.Context) ([]model.Task, int, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
	LoadPreferences(ctx context.Context) (model.Preferences, error)
	SetPreference(ctx context.Context, key string, value any) error
}

// TaskOptions configures a TaskDispatcher. Zero values get defaults.
type TaskOptions struct {
	GracePeriod time.Duration
	Scheduler   schedule.Scheduler
	NewID       func() string
	Logger      *logger.Logger
	// OnRender receives the view after every change. It runs while the
	// dispatcher is locked and must not dispatch.
	OnRender func(view.TaskView)
	// OnError receives persistence failures from deferred removals, which
	// have no caller to return them to.
	OnError func(error)
}

// TaskDispatcher owns the task store and its preferences. All dispatches and
// timer callbacks are serialized, so one mutation runs at a time.
type TaskDispatcher struct {
	mu      sync.Mutex
	store   *store.TaskStore
	prefs   model.Preferences
	persist TaskPersistence
	sched   schedule.Scheduler
	grace   time.Duration
	newID   func() string
	log     *logger.Logger

	onRender func(view.TaskView)
	onError  func(error)

	// Deferred removal batches still waiting for their timer
	batches int
	idle    chan struct{}
}

// NewTaskDispatcher creates a dispatcher over an empty store. Call Load to
// restore persisted state.
func NewTaskDispatcher(p TaskPersistence, opts TaskOptions) *TaskDispatcher {
	d := &TaskDispatcher{
		store:    store.NewTaskStore(nil),
		prefs:    model.DefaultPreferences(),
		persist:  p,
		sched:    opts.Scheduler,
		grace:    opts.GracePeriod,
		newID:    opts.NewID,
		log:      opts.Logger,
		onRender: opts.OnRender,
		onError:  opts.OnError,
		idle:     closedChan(),
	}
	if d.sched == nil {
		d.sched = schedule.NewReal()
	}
	if d.grace <= 0 {
		d.grace = DefaultGracePeriod
	}
	if d.newID == nil {
		d.newID = func() string { return uuid.New().String() }
	}
	if d.log == nil {
		d.log = logger.WithFields()
	}
	d.log = d.log.WithFields(logger.F("store", "tasks"))
	return d
}

// Load restores tasks and preferences. On failure the store keeps whatever
// it had and stays usable.
func (d *TaskDispatcher) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// The two records load independently
	tasks, dropped, taskErr := d.persist.LoadTasks(ctx)
	if taskErr != nil {
		d.log.Warn("Failed to load tasks, starting empty", logger.F("error", taskErr))
	} else {
		if dropped > 0 {
			d.log.Warn("Dropped unreadable tasks", logger.F("count", dropped))
		}
		d.store.Replace(tasks)
	}

	prefs, prefErr := d.persist.LoadPreferences(ctx)
	if prefErr != nil {
		d.log.Warn("Failed to load preferences, using defaults", logger.F("error", prefErr))
	} else {
		d.prefs = prefs
	}

	d.log.Info("Tasks loaded", logger.F("count", d.store.Len()), logger.F("filter", d.prefs.CurrentFilter))
	return errors.Join(taskErr, prefErr)
}

// SetRenderer replaces the render callback
func (d *TaskDispatcher) SetRenderer(fn func(view.TaskView)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onRender = fn
}

// Dispatch applies one intent. Validation failures are absorbed as no-ops.
// A persistence failure is returned after the mutation has been applied and
// rendered.
func (d *TaskDispatcher) Dispatch(ctx context.Context, in Intent) (view.TaskView, error) {
	return d.dispatch(ctx, in, false)
}

// Apply is Dispatch for callers that must tell a no-op apart from a change.
// A validation failure is returned; state is left untouched either way.
func (d *TaskDispatcher) Apply(ctx context.Context, in Intent) (view.TaskView, error) {
	return d.dispatch(ctx, in, true)
}

func (d *TaskDispatcher) dispatch(ctx context.Context, in Intent, strict bool) (view.TaskView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug("Dispatch", logger.F("intent", Name(in)))

	res, err := d.apply(in)
	if err != nil {
		if model.IsValidation(err) && !strict {
			d.log.Debug("Intent ignored", logger.F("intent", Name(in)), logger.F("reason", err))
			return d.project(), nil
		}
		return d.project(), err
	}

	perr := d.writeThrough(ctx, res)
	v := d.render(res.changed())
	if perr != nil {
		d.log.Warn("Persist failed, keeping in-memory state", logger.F("intent", Name(in)), logger.F("error", perr))
		return v, perr
	}
	return v, nil
}

// taskResult records what an intent touched
type taskResult struct {
	tasks   bool   // collection changed, write tasks
	prefKey string // preference changed, write this key
	prefVal any
	marked  bool // records flagged for removal, render only
}

func (r taskResult) changed() bool {
	return r.tasks || r.prefKey != "" || r.marked
}

func (d *TaskDispatcher) apply(in Intent) (taskResult, error) {
	switch in := in.(type) {
	case AddTask:
		if _, err := d.store.Add(d.newID(), in.Text, in.Priority, d.sched.Now()); err != nil {
			return taskResult{}, err
		}
		return taskResult{tasks: true}, nil

	case ToggleTask:
		if _, err := d.store.Toggle(in.ID); err != nil {
			return taskResult{}, err
		}
		return taskResult{tasks: true}, nil

	case EditTask:
		if _, err := d.store.Edit(in.ID, in.Text); err != nil {
			return taskResult{}, err
		}
		return taskResult{tasks: true}, nil

	case RemoveTask:
		if _, ok := d.store.Get(in.ID); !ok {
			return taskResult{}, fmt.Errorf("%w: %s", model.ErrTaskNotFound, in.ID)
		}
		return taskResult{marked: d.scheduleRemoval([]string{in.ID})}, nil

	case ClearCompleted:
		return taskResult{marked: d.scheduleRemoval(d.store.CompletedIDs())}, nil

	case SetFilter:
		f, err := model.ParseFilter(string(in.Filter))
		if err != nil {
			return taskResult{}, err
		}
		d.prefs.CurrentFilter = f
		return taskResult{prefKey: model.PrefCurrentFilter, prefVal: f}, nil

	case ToggleTheme:
		d.prefs.DarkTheme = !d.prefs.DarkTheme
		return taskResult{prefKey: model.PrefDarkTheme, prefVal: d.prefs.DarkTheme}, nil

	case AddToCart, UpdateQuantity, RemoveFromCart, ClearCart, Checkout:
		return taskResult{}, fmt.Errorf("%w: %s on task list", ErrUnsupportedIntent, Name(in))

	default:
		return taskResult{}, fmt.Errorf("%w: %T", ErrUnsupportedIntent, in)
	}
}

// scheduleRemoval flags ids as pending and starts one timer for the batch.
// The batch is fixed now; the timer deletes only ids still pending.
func (d *TaskDispatcher) scheduleRemoval(ids []string) bool {
	marked := d.store.MarkRemoving(ids...)
	if len(marked) == 0 {
		return false
	}

	if d.batches == 0 {
		d.idle = make(chan struct{})
	}
	d.batches++

	d.log.Debug("Removal scheduled", logger.F("ids", marked), logger.F("grace", d.grace))
	d.sched.AfterFunc(d.grace, func() {
		d.completeRemoval(marked)
	})
	return true
}

func (d *TaskDispatcher) completeRemoval(ids []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	defer func() {
		d.batches--
		if d.batches == 0 {
			close(d.idle)
		}
	}()

	removed := d.store.Purge(ids...)
	if removed == 0 {
		return
	}

	err := d.persist.SaveTasks(context.Background(), d.store.Tasks())
	d.render(true)
	if err != nil {
		d.log.Warn("Persist after removal failed", logger.F("error", err))
		if d.onError != nil {
			d.onError(err)
		}
		return
	}
	d.log.Debug("Removal completed", logger.F("count", removed))
}

func (d *TaskDispatcher) writeThrough(ctx context.Context, res taskResult) error {
	if res.tasks {
		if err := d.persist.SaveTasks(ctx, d.store.Tasks()); err != nil {
			return err
		}
	}
	if res.prefKey != "" {
		if err := d.persist.SetPreference(ctx, res.prefKey, res.prefVal); err != nil {
			return err
		}
	}
	return nil
}

func (d *TaskDispatcher) render(changed bool) view.TaskView {
	v := d.project()
	if changed && d.onRender != nil {
		d.onRender(v)
	}
	return v
}

func (d *TaskDispatcher) project() view.TaskView {
	return view.ProjectTasks(d.store.Records(), d.prefs)
}

// View returns the current projection
func (d *TaskDispatcher) View() view.TaskView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.project()
}

// Preferences returns the current preferences
func (d *TaskDispatcher) Preferences() model.Preferences {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prefs
}

// Tasks returns the records in insertion order, pending ones included
func (d *TaskDispatcher) Tasks() []store.TaskRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Records()
}

// Resolve maps a full id or unique prefix to a task id
func (d *TaskDispatcher) Resolve(ref string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Resolve(ref)
}

// PendingRemovals returns how many removal batches have not fired yet
func (d *TaskDispatcher) PendingRemovals() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.batches
}

// Wait blocks until every scheduled removal has completed
func (d *TaskDispatcher) Wait(ctx context.Context) error {
	for {
		d.mu.Lock()
		if d.batches == 0 {
			d.mu.Unlock()
			return nil
		}
		idle := d.idle
		d.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
