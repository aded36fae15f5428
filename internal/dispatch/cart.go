package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/schedule"
	"github.com/existflow/ironlist/internal/store"
	"github.com/existflow/ironlist/internal/view"
)

// DefaultNoticeDuration is how long the "added to cart" notice stays up
const DefaultNoticeDuration = 3 * time.Second

// CartPersistence is the storage the cart dispatcher writes through to
type CartPersistence interface {
	LoadCart(ctx context.Context) ([]model.LineItem, error)
	SaveCart(ctx context.Context, items []model.LineItem) error
}

// Catalog resolves product ids
type Catalog interface {
	Lookup(id model.ProductID) (model.Product, error)
}

// CartOptions configures a CartDispatcher. Zero values get defaults.
type CartOptions struct {
	Currency       string
	NoticeDuration time.Duration
	Scheduler      schedule.Scheduler
	Logger         *logger.Logger
	// OnRender receives the view after every change. It runs while the
	// dispatcher is locked and must not dispatch.
	OnRender func(view.CartView)
}

// CartDispatcher owns the cart store
type CartDispatcher struct {
	mu        sync.Mutex
	store     *store.CartStore
	catalog   Catalog
	persist   CartPersistence
	sched     schedule.Scheduler
	currency  string
	noticeFor time.Duration
	log       *logger.Logger
	onRender  func(view.CartView)

	notice      string
	noticeTimer schedule.Timer
	noticeSeq   int
}

// NewCartDispatcher creates a dispatcher over an empty cart. Call Load to
// restore persisted state.
func NewCartDispatcher(p CartPersistence, catalog Catalog, opts CartOptions) *CartDispatcher {
	d := &CartDispatcher{
		store:     store.NewCartStore(nil),
		catalog:   catalog,
		persist:   p,
		sched:     opts.Scheduler,
		currency:  opts.Currency,
		noticeFor: opts.NoticeDuration,
		log:       opts.Logger,
		onRender:  opts.OnRender,
	}
	if d.sched == nil {
		d.sched = schedule.NewReal()
	}
	if d.currency == "" {
		d.currency = view.DefaultCurrency
	}
	if d.noticeFor <= 0 {
		d.noticeFor = DefaultNoticeDuration
	}
	if d.log == nil {
		d.log = logger.WithFields()
	}
	d.log = d.log.WithFields(logger.F("store", "cart"))
	return d
}

// Load restores the persisted cart
func (d *CartDispatcher) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	items, err := d.persist.LoadCart(ctx)
	if err != nil {
		d.log.Warn("Failed to load cart, starting empty", logger.F("error", err))
		return err
	}
	d.store.Replace(items)
	d.log.Info("Cart loaded", logger.F("items", d.store.Len()), logger.F("count", d.store.ItemCount()))
	return nil
}

// SetRenderer replaces the render callback
func (d *CartDispatcher) SetRenderer(fn func(view.CartView)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onRender = fn
}

// Dispatch applies one intent. Validation failures are absorbed as no-ops;
// catalog misses and empty-cart checkouts are returned with the cart
// unchanged. A persistence failure is returned after the mutation has been
// applied and rendered.
func (d *CartDispatcher) Dispatch(ctx context.Context, in Intent) (view.CartView, error) {
	return d.dispatch(ctx, in, false)
}

// Apply is Dispatch with validation failures returned instead of absorbed
func (d *CartDispatcher) Apply(ctx context.Context, in Intent) (view.CartView, error) {
	return d.dispatch(ctx, in, true)
}

func (d *CartDispatcher) dispatch(ctx context.Context, in Intent, strict bool) (view.CartView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug("Dispatch", logger.F("intent", Name(in)))

	if err := d.apply(in); err != nil {
		if model.IsValidation(err) && !strict {
			d.log.Debug("Intent ignored", logger.F("intent", Name(in)), logger.F("reason", err))
			return d.project(), nil
		}
		d.log.Info("Intent rejected", logger.F("intent", Name(in)), logger.F("reason", err))
		return d.project(), err
	}

	perr := d.persist.SaveCart(ctx, d.store.Items())
	v := d.render()
	if perr != nil {
		d.log.Warn("Persist failed, keeping in-memory state", logger.F("intent", Name(in)), logger.F("error", perr))
		return v, perr
	}
	return v, nil
}

func (d *CartDispatcher) apply(in Intent) error {
	switch in := in.(type) {
	case AddToCart:
		p, err := d.catalog.Lookup(in.ProductID)
		if err != nil {
			return err
		}
		item := d.store.Add(p)
		d.showNotice(fmt.Sprintf("%s added to cart!", p.Name))
		d.log.Debug("Added to cart", logger.F("id", item.ID), logger.F("quantity", item.Quantity))
		return nil

	case UpdateQuantity:
		removed, err := d.store.UpdateQuantity(in.ID, in.Delta)
		if err != nil {
			return err
		}
		if removed {
			d.log.Debug("Quantity reached zero, item removed", logger.F("id", in.ID))
		}
		return nil

	case RemoveFromCart:
		return d.store.Remove(in.ID)

	case ClearCart:
		d.store.Clear()
		return nil

	case Checkout:
		if d.store.Len() == 0 {
			return model.ErrEmptyCart
		}
		d.log.Info("Order placed",
			logger.F("items", d.store.ItemCount()),
			logger.F("total", view.FormatMoney(d.currency, d.store.Total())))
		d.store.Clear()
		return nil

	case AddTask, ToggleTask, EditTask, RemoveTask, ClearCompleted, SetFilter, ToggleTheme:
		return fmt.Errorf("%w: %s on cart", ErrUnsupportedIntent, Name(in))

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedIntent, in)
	}
}

// showNotice replaces any visible notice and schedules it to disappear
func (d *CartDispatcher) showNotice(msg string) {
	if d.noticeTimer != nil {
		d.noticeTimer.Stop()
	}
	d.noticeSeq++
	seq := d.noticeSeq
	d.notice = msg
	d.noticeTimer = d.sched.AfterFunc(d.noticeFor, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.noticeSeq != seq {
			return
		}
		d.notice = ""
		d.noticeTimer = nil
		d.render()
	})
}

func (d *CartDispatcher) render() view.CartView {
	v := d.project()
	if d.onRender != nil {
		d.onRender(v)
	}
	return v
}

func (d *CartDispatcher) project() view.CartView {
	v := view.ProjectCart(d.store.Items(), d.currency)
	v.Notice = d.notice
	return v
}

// View returns the current projection
func (d *CartDispatcher) View() view.CartView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.project()
}

// Items returns the line-items in insertion order
func (d *CartDispatcher) Items() []model.LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Items()
}

// Close stops the notice timer
func (d *CartDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.noticeTimer != nil {
		d.noticeTimer.Stop()
		d.noticeTimer = nil
	}
}

// Currency returns the label used for formatted amounts
func (d *CartDispatcher) Currency() string {
	return d.currency
}
