package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/model"
)

// tickMsg is sent every second for clock updates
type tickMsg time.Time

// refreshMsg is sent when a timer changed state behind the UI's back
type refreshMsg struct{}

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForRefresh())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForRefresh listens for renderer signals
func (m Model) waitForRefresh() tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.refresh
		return refreshMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tickCmd()

	case refreshMsg:
		// A removal landed or a notice expired
		m.loadData()
		return m, m.waitForRefresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeAddTask, ModeEditTask:
			return m.updateInput(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeConfirmClear:
			return m.updateConfirmClear(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// dispatch runs an intent and refreshes the views. Errors become the status
// message; a persistence error still leaves the change on screen.
func (m *Model) dispatch(in dispatch.Intent) bool {
	_, err := m.app.Dispatch(context.Background(), in)
	m.loadData()
	if err == nil {
		return true
	}

	var perr *model.PersistenceError
	switch {
	case errors.As(err, &perr):
		m.message = fmt.Sprintf("⚠ Not saved: %v", perr.Err)
		return true
	case errors.Is(err, model.ErrEmptyCart):
		m.message = "Your cart is empty"
	case errors.Is(err, model.ErrCatalogLookup):
		m.message = "That product is no longer in the catalog"
	default:
		m.message = fmt.Sprintf("Error: %v", err)
	}
	logger.Debug("TUI dispatch failed", logger.F("intent", dispatch.Name(in)), logger.F("error", err))
	return false
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		m.section = sections[(int(m.section)+1)%len(sections)]
		return m, nil

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar
		return m, nil

	case key.Matches(msg, keys.Right):
		m.pane = PaneMain
		return m, nil

	case key.Matches(msg, keys.Up):
		m.handleUp()
		return m, nil

	case key.Matches(msg, keys.Down):
		m.handleDown()
		return m, nil

	case msg.String() == "G":
		m.handleGoBottom()
		return m, nil

	case key.Matches(msg, keys.Theme):
		m.dispatch(dispatch.ToggleTheme{})
		return m, nil

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	if m.pane == PaneSidebar {
		if key.Matches(msg, keys.Enter) {
			m.pane = PaneMain
		}
		return m, nil
	}

	switch m.section {
	case SectionCatalog:
		return m.handleCatalogKeys(msg)
	case SectionCart:
		return m.handleCartKeys(msg)
	default:
		return m.handleTaskKeys(msg)
	}
}

func (m Model) handleTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "1", msg.String() == "2", msg.String() == "3":
		m.handlePriority(msg.String())

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Edit):
		return m.startEditTask()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		if t := m.currentTask(); t != nil {
			m.dispatch(dispatch.ToggleTask{ID: t.ID})
		}

	case key.Matches(msg, keys.Delete):
		if t := m.currentTask(); t != nil {
			if m.dispatch(dispatch.RemoveTask{ID: t.ID}) {
				m.message = fmt.Sprintf("Deleted: %s", t.Text)
			}
		}

	case key.Matches(msg, keys.Clear):
		m.dispatch(dispatch.ClearCompleted{})

	case key.Matches(msg, keys.Filter):
		m.dispatch(dispatch.SetFilter{Filter: nextFilter(m.tasks.Filter)})
		m.taskCursor = 0

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case msg.String() == "n":
		m.handleNextMatch()

	case msg.String() == "N":
		m.handlePrevMatch()

	case key.Matches(msg, keys.Escape):
		if m.searchText != "" {
			m.searchText = ""
			m.matchIndices = nil
			m.message = "Search cleared"
		}
	}

	return m, nil
}

func (m Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Add), key.Matches(msg, keys.Enter):
		if p := m.currentProduct(); p != nil {
			m.dispatch(dispatch.AddToCart{ProductID: p.ID})
		}

	case key.Matches(msg, keys.Filter):
		m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
		m.productCursor = 0
		m.loadData()
		m.message = fmt.Sprintf("Category: %s", m.currentCategory())
	}

	return m, nil
}

func (m Model) handleCartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Inc):
		if l := m.currentLine(); l != nil {
			m.dispatch(dispatch.UpdateQuantity{ID: l.ID, Delta: 1})
		}

	case key.Matches(msg, keys.Dec):
		if l := m.currentLine(); l != nil {
			m.dispatch(dispatch.UpdateQuantity{ID: l.ID, Delta: -1})
		}

	case key.Matches(msg, keys.Delete):
		if l := m.currentLine(); l != nil {
			if m.dispatch(dispatch.RemoveFromCart{ID: l.ID}) {
				m.message = fmt.Sprintf("Removed: %s", l.Name)
			}
		}

	case key.Matches(msg, keys.Clear):
		if m.cart.Empty {
			return m, nil
		}
		if m.cfg != nil && !m.cfg.ConfirmClear {
			m.dispatch(dispatch.ClearCart{})
			return m, nil
		}
		m.mode = ModeConfirmClear

	case key.Matches(msg, keys.Checkout):
		total, count := m.cart.Total, m.cart.ItemCount
		if m.dispatch(dispatch.Checkout{}) {
			m.message = fmt.Sprintf("✓ Order placed: %d item(s), %s", count, total)
		}
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.section > 0 {
			m.section--
		}
		return
	}
	switch m.section {
	case SectionCatalog:
		if m.productCursor > 0 {
			m.productCursor--
		}
	case SectionCart:
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	default:
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if int(m.section) < len(sections)-1 {
			m.section++
		}
		return
	}
	switch m.section {
	case SectionCatalog:
		if m.productCursor < len(m.products)-1 {
			m.productCursor++
		}
	case SectionCart:
		if m.cartCursor < len(m.cart.Items)-1 {
			m.cartCursor++
		}
	default:
		if m.taskCursor < len(m.tasks.Tasks)-1 {
			m.taskCursor++
		}
	}
}

func (m *Model) handleGoBottom() {
	switch m.section {
	case SectionCatalog:
		m.productCursor = clamp(len(m.products)-1, len(m.products))
	case SectionCart:
		m.cartCursor = clamp(len(m.cart.Items)-1, len(m.cart.Items))
	default:
		m.taskCursor = clamp(len(m.tasks.Tasks)-1, len(m.tasks.Tasks))
	}
}

// handlePriority sets the priority used for the next added task
func (m *Model) handlePriority(k string) {
	switch k {
	case "1":
		m.newPriority = model.PriorityHigh
	case "2":
		m.newPriority = model.PriorityMedium
	case "3":
		m.newPriority = model.PriorityLow
	}
	m.message = fmt.Sprintf("New tasks: %s priority", m.newPriority)
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	m.mode = ModeAddTask
	m.input.SetValue("")
	m.input.Placeholder = "Enter task..."
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startEditTask() (tea.Model, tea.Cmd) {
	t := m.currentTask()
	if t == nil || t.Removing {
		return m, nil
	}
	m.mode = ModeEditTask
	m.editID = t.ID
	m.input.SetValue(t.Text)
	m.input.Placeholder = "Edit task..."
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.mode = ModeSearch
	m.input.SetValue(m.searchText)
	m.input.Placeholder = "/"
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) handleNextMatch() {
	if len(m.matchIndices) > 0 {
		m.matchCursor = (m.matchCursor + 1) % len(m.matchIndices)
		m.taskCursor = m.matchIndices[m.matchCursor]
		m.message = fmt.Sprintf("[%d/%d] matches", m.matchCursor+1, len(m.matchIndices))
	}
}

func (m *Model) handlePrevMatch() {
	if len(m.matchIndices) > 0 {
		m.matchCursor--
		if m.matchCursor < 0 {
			m.matchCursor = len(m.matchIndices) - 1
		}
		m.taskCursor = m.matchIndices[m.matchCursor]
		m.message = fmt.Sprintf("[%d/%d] matches", m.matchCursor+1, len(m.matchIndices))
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := m.input.Value()
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()

		switch mode {
		case ModeAddTask:
			if m.dispatch(dispatch.AddTask{Text: value, Priority: m.newPriority}) {
				m.message = fmt.Sprintf("Added: %s", value)
			}
		case ModeEditTask:
			if m.dispatch(dispatch.EditTask{ID: m.editID, Text: value}) {
				m.message = fmt.Sprintf("Updated: %s", value)
			}
			m.editID = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.searchText = ""
		m.matchIndices = nil
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		// Jump to the first match
		if len(m.matchIndices) > 0 {
			m.taskCursor = m.matchIndices[m.matchCursor]
		}
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live search as user types
	m.searchText = m.input.Value()
	m.applySearch()
	return m, cmd
}

func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	switch msg.String() {
	case "y", "Y":
		if m.dispatch(dispatch.ClearCart{}) {
			m.message = "Cart emptied"
		}
	default:
		m.message = "Aborted"
	}
	return m, nil
}

func nextFilter(f model.Filter) model.Filter {
	switch f {
	case model.FilterAll:
		return model.FilterActive
	case model.FilterActive:
		return model.FilterCompleted
	default:
		return model.FilterAll
	}
}
