package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/model"
)

// Storage keys
const (
	KeyTasks       = "tasks"
	KeyCart        = "cart"
	KeyPreferences = "userPreferences"
)

// Adapter is the serialize/deserialize boundary. It keeps no copy of the
// collections it writes.
type Adapter struct {
	backend Backend
}

// NewAdapter wraps a backend
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Close closes the backend
func (a *Adapter) Close() error {
	return a.backend.Close()
}

// Save writes the full serialized collection, replacing any prior value
func (a *Adapter) Save(ctx context.Context, collection string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return &model.PersistenceError{Op: "save", Key: collection, Err: err}
	}
	if err := a.backend.Put(ctx, collection, data); err != nil {
		return &model.PersistenceError{Op: "save", Key: collection, Err: err}
	}
	return nil
}

// Load decodes the stored collection into dst. It reports false, and leaves
// dst untouched, when nothing is stored.
func (a *Adapter) Load(ctx context.Context, collection string, dst any) (bool, error) {
	data, ok, err := a.backend.Get(ctx, collection)
	if err != nil {
		return false, &model.PersistenceError{Op: "load", Key: collection, Err: err}
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &model.PersistenceError{Op: "load", Key: collection, Err: err}
	}
	return true, nil
}

// storedTask is the wire form of a task. CreatedAt is RFC 3339 text.
type storedTask struct {
	ID        flexibleID `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Priority  string     `json:"priority"`
	CreatedAt string     `json:"createdAt"`
}

// flexibleID accepts string and numeric ids; older data used millisecond
// timestamps as ids.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	var pid model.ProductID
	if err := pid.UnmarshalJSON(data); err != nil {
		return err
	}
	*id = flexibleID(pid)
	return nil
}

// SaveTasks writes the task collection
func (a *Adapter) SaveTasks(ctx context.Context, tasks []model.Task) error {
	out := make([]storedTask, len(tasks))
	for i, t := range tasks {
		out[i] = storedTask{
			ID:        flexibleID(t.ID),
			Text:      t.Text,
			Completed: t.Completed,
			Priority:  string(t.Priority),
			CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		}
	}
	return a.Save(ctx, KeyTasks, out)
}

// LoadTasks reads the task collection. Records with a missing or malformed
// timestamp, an empty id or empty text are dropped; dropped is their count.
func (a *Adapter) LoadTasks(ctx context.Context) (tasks []model.Task, dropped int, err error) {
	var raw []json.RawMessage
	if _, err := a.Load(ctx, KeyTasks, &raw); err != nil {
		return nil, 0, err
	}

	tasks = make([]model.Task, 0, len(raw))
	for i, r := range raw {
		t, err := decodeTask(r)
		if err != nil {
			dropped++
			logger.Warn("Dropping stored task", logger.F("index", i), logger.F("error", err))
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, dropped, nil
}

func decodeTask(r json.RawMessage) (model.Task, error) {
	var st storedTask
	if err := json.Unmarshal(r, &st); err != nil {
		return model.Task{}, err
	}
	if st.ID == "" {
		return model.Task{}, fmt.Errorf("missing id")
	}
	text := strings.TrimSpace(st.Text)
	if text == "" {
		return model.Task{}, fmt.Errorf("task %s: empty text", st.ID)
	}
	if st.CreatedAt == "" {
		return model.Task{}, fmt.Errorf("task %s: missing createdAt", st.ID)
	}
	created, err := time.Parse(time.RFC3339Nano, st.CreatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %s: %w", st.ID, err)
	}
	return model.Task{
		ID:        string(st.ID),
		Text:      text,
		Completed: st.Completed,
		Priority:  model.ParsePriority(st.Priority),
		CreatedAt: created,
	}, nil
}

// SaveCart writes the cart line-items
func (a *Adapter) SaveCart(ctx context.Context, items []model.LineItem) error {
	if items == nil {
		items = []model.LineItem{}
	}
	return a.Save(ctx, KeyCart, items)
}

// LoadCart reads the cart line-items. Items with a non-positive quantity
// are dropped.
func (a *Adapter) LoadCart(ctx context.Context) ([]model.LineItem, error) {
	var items []model.LineItem
	if _, err := a.Load(ctx, KeyCart, &items); err != nil {
		return nil, err
	}
	out := items[:0]
	for _, it := range items {
		if it.Quantity > 0 && it.ID != "" {
			out = append(out, it)
		}
	}
	return out, nil
}

// LoadPreferences reads the preferences record, filling unset or invalid
// keys with defaults
func (a *Adapter) LoadPreferences(ctx context.Context) (model.Preferences, error) {
	prefs := model.DefaultPreferences()

	raw, err := a.preferenceMap(ctx)
	if err != nil {
		return prefs, err
	}

	if v, ok := raw[model.PrefDarkTheme]; ok {
		var dark bool
		if json.Unmarshal(v, &dark) == nil {
			prefs.DarkTheme = dark
		}
	}
	if v, ok := raw[model.PrefCurrentFilter]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			if f, err := model.ParseFilter(s); err == nil {
				prefs.CurrentFilter = f
			}
		}
	}
	return prefs, nil
}

// SetPreference reads the stored preferences, sets key and writes the merged
// object back. Unrelated keys are preserved.
func (a *Adapter) SetPreference(ctx context.Context, key string, value any) error {
	raw, err := a.preferenceMap(ctx)
	if err != nil {
		if !isDecodeFailure(err) {
			return err
		}
		logger.Warn("Stored preferences unreadable, starting fresh", logger.F("error", err))
		raw = map[string]json.RawMessage{}
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return &model.PersistenceError{Op: "save", Key: KeyPreferences, Err: err}
	}
	raw[key] = encoded
	return a.Save(ctx, KeyPreferences, raw)
}

func (a *Adapter) preferenceMap(ctx context.Context) (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	if _, err := a.Load(ctx, KeyPreferences, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

// isDecodeFailure reports whether err is a load failure caused by bad JSON
// rather than by the backend
func isDecodeFailure(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
