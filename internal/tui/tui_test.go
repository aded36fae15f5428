package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/ironlist/internal/catalog"
	"github.com/existflow/ironlist/internal/config"
	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/persist"
	"github.com/existflow/ironlist/internal/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tuiEnv struct {
	clock *schedule.Manual
	app   *dispatch.App
	model Model
}

func setupTUI(t *testing.T) *tuiEnv {
	t.Helper()

	cat, err := catalog.New([]model.Product{
		{ID: "1", Name: "Maize flour", Price: decimal.RequireFromString("100.00"), Category: "pantry"},
		{ID: "2", Name: "Tea leaves", Price: decimal.RequireFromString("50.50"), Category: "drinks"},
	})
	require.NoError(t, err)

	env := &tuiEnv{clock: schedule.NewManual(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))}
	env.app = dispatch.NewApp(persist.NewAdapter(persist.NewMemory()), cat, config.DefaultConfig(), dispatch.AppOptions{
		Scheduler: env.clock,
	})
	t.Cleanup(func() { env.app.Close() })

	env.model = NewModel(env.app, config.DefaultConfig(), nil)
	env.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return env
}

func (env *tuiEnv) send(msg tea.Msg) {
	next, _ := env.model.Update(msg)
	env.model = next.(Model)
}

// press sends a sequence of keys; multi-rune strings other than named keys
// are typed as text
func (env *tuiEnv) press(keys ...string) {
	for _, k := range keys {
		switch k {
		case "enter":
			env.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			env.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "tab":
			env.send(tea.KeyMsg{Type: tea.KeyTab})
		default:
			env.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func (env *tuiEnv) addTask(text string) {
	env.press("a", text, "enter")
	env.clock.Advance(time.Second)
}

func TestAddAndToggleTask(t *testing.T) {
	env := setupTUI(t)

	env.addTask("Buy milk")
	require.Len(t, env.model.tasks.Tasks, 1)
	assert.Equal(t, "Buy milk", env.model.tasks.Tasks[0].Text)
	assert.Equal(t, model.PriorityMedium, env.model.tasks.Tasks[0].Priority)
	assert.Equal(t, "1 task remaining", env.model.tasks.Summary)

	env.press("x")
	assert.True(t, env.model.tasks.Tasks[0].Completed)
	assert.Equal(t, "0 tasks remaining", env.model.tasks.Summary)
}

func TestPriorityKeysAffectNewTasks(t *testing.T) {
	env := setupTUI(t)

	env.addTask("Read book")
	env.press("1")
	env.addTask("Call bank")

	require.Len(t, env.model.tasks.Tasks, 2)
	assert.Equal(t, "Call bank", env.model.tasks.Tasks[0].Text)
	assert.Equal(t, model.PriorityHigh, env.model.tasks.Tasks[0].Priority)
}

func TestBlankTaskIsIgnored(t *testing.T) {
	env := setupTUI(t)

	env.press("a", "   ", "enter")
	assert.Empty(t, env.model.tasks.Tasks)
	assert.Equal(t, ModeNormal, env.model.mode)
}

func TestEditTask(t *testing.T) {
	env := setupTUI(t)
	env.addTask("Buy milk")

	env.press("e")
	require.Equal(t, ModeEditTask, env.model.mode)
	env.model.input.SetValue("Buy oat milk")
	env.press("enter")

	assert.Equal(t, "Buy oat milk", env.model.tasks.Tasks[0].Text)
}

func TestDeleteRefreshesAfterGracePeriod(t *testing.T) {
	env := setupTUI(t)
	env.addTask("Buy milk")

	env.press("d")
	require.Len(t, env.model.tasks.Tasks, 1)
	assert.True(t, env.model.tasks.Tasks[0].Removing)

	env.clock.Advance(300 * time.Millisecond)
	env.send(refreshMsg{})
	assert.Empty(t, env.model.tasks.Tasks)
}

func TestFilterCycle(t *testing.T) {
	env := setupTUI(t)
	env.addTask("Buy milk")
	env.addTask("Read book")
	env.press("x")

	env.press("f")
	assert.Equal(t, model.FilterActive, env.model.tasks.Filter)
	assert.Len(t, env.model.tasks.Tasks, 1)

	env.press("f")
	assert.Equal(t, model.FilterCompleted, env.model.tasks.Filter)
	assert.Len(t, env.model.tasks.Tasks, 1)

	env.press("f")
	assert.Equal(t, model.FilterAll, env.model.tasks.Filter)
	assert.Len(t, env.model.tasks.Tasks, 2)
}

func TestSearchMatches(t *testing.T) {
	env := setupTUI(t)
	env.addTask("Buy milk")
	env.addTask("Read book")
	env.addTask("Buy bread")

	env.press("/", "buy", "enter")
	assert.Equal(t, ModeNormal, env.model.mode)
	assert.Len(t, env.model.matchIndices, 2)

	first := env.model.taskCursor
	env.press("n")
	assert.NotEqual(t, first, env.model.taskCursor)

	env.press("esc")
	assert.Empty(t, env.model.matchIndices)
}

func TestThemeToggle(t *testing.T) {
	env := setupTUI(t)
	require.False(t, env.model.tasks.DarkTheme)

	env.press("T")
	assert.True(t, env.model.tasks.DarkTheme)
	assert.Contains(t, env.model.View(), "dark")
}

func TestCatalogAndCart(t *testing.T) {
	env := setupTUI(t)

	env.press("tab")
	require.Equal(t, SectionCatalog, env.model.section)
	require.Len(t, env.model.products, 2)

	// Products are listed in catalog order
	env.press("a", "a", "j", "a")
	assert.Equal(t, 3, env.model.cart.ItemCount)
	assert.Equal(t, "KSh 250.50", env.model.cart.Total)
	assert.Equal(t, "Tea leaves added to cart!", env.model.cart.Notice)

	env.press("tab")
	require.Equal(t, SectionCart, env.model.section)
	assert.Contains(t, env.model.View(), "KSh 250.50")

	env.press("-")
	assert.Equal(t, 2, env.model.cart.ItemCount)

	env.press("o")
	assert.True(t, env.model.cart.Empty)
	assert.Contains(t, env.model.message, "Order placed")
}

func TestCatalogCategoryCycle(t *testing.T) {
	env := setupTUI(t)
	env.press("tab")

	env.press("f")
	assert.Equal(t, "drinks", env.model.currentCategory())
	require.Len(t, env.model.products, 1)
	assert.Equal(t, "Tea leaves", env.model.products[0].Name)

	env.press("f", "f")
	assert.Equal(t, "all", env.model.currentCategory())
	assert.Len(t, env.model.products, 2)
}

func TestClearCartAsksForConfirmation(t *testing.T) {
	env := setupTUI(t)
	env.press("tab", "a", "tab")

	env.press("c")
	require.Equal(t, ModeConfirmClear, env.model.mode)
	env.press("n")
	assert.False(t, env.model.cart.Empty)

	env.press("c", "y")
	assert.True(t, env.model.cart.Empty)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := setupTUI(t)
	env.press("tab", "tab", "o")

	assert.Equal(t, "Your cart is empty", env.model.message)
}

func TestNoticeExpiresOnRefresh(t *testing.T) {
	env := setupTUI(t)
	env.press("tab", "a")
	require.NotEmpty(t, env.model.cart.Notice)

	env.clock.Advance(3 * time.Second)
	env.send(refreshMsg{})
	assert.Empty(t, env.model.cart.Notice)
}

func TestHelpModeClosesOnAnyKey(t *testing.T) {
	env := setupTUI(t)

	env.press("?")
	require.Equal(t, ModeHelp, env.model.mode)
	assert.Contains(t, env.model.View(), "Keyboard Shortcuts")

	env.press("j")
	assert.Equal(t, ModeNormal, env.model.mode)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a longer line", 8, "a lon..."},
		{"ab", 2, "ab"},
		{"abcdef", 3, "abc"},
		{"ñandú y más", 6, "ñan..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.max), tt.in)
	}
}
