package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/ironlist/internal/config"
	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/view"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneMain
)

// Section is what the main pane shows
type Section int

const (
	SectionTasks Section = iota
	SectionCatalog
	SectionCart
)

var sections = []Section{SectionTasks, SectionCatalog, SectionCart}

func (s Section) String() string {
	switch s {
	case SectionCatalog:
		return "Catalog"
	case SectionCart:
		return "Cart"
	default:
		return "Tasks"
	}
}

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeSearch
	ModeConfirmClear
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	app *dispatch.App
	cfg *config.Config

	// Latest views, replaced after every dispatch and every refresh
	tasks view.TaskView
	cart  view.CartView

	products    []model.Product
	categories  []string
	categoryIdx int // 0 is "all", then categories[i-1]

	// Signalled by dispatcher renderers when a timer changes state
	refresh chan struct{}

	// UI state
	width         int
	height        int
	pane          Pane
	mode          Mode
	section       Section
	taskCursor    int
	productCursor int
	cartCursor    int
	newPriority   model.Priority
	editID        string

	// Input
	input textinput.Model

	// Search (vim-style)
	searchText   string
	matchIndices []int // Indices of matching tasks
	matchCursor  int   // Current match for n/N navigation

	message string
}

// NewModel creates a new TUI model over app. refresh may be nil.
func NewModel(app *dispatch.App, cfg *config.Config, refresh chan struct{}) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		app:         app,
		cfg:         cfg,
		refresh:     refresh,
		pane:        PaneMain,
		section:     SectionTasks,
		newPriority: model.PriorityMedium,
		input:       ti,
		categories:  app.Catalog.Categories(),
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("tasks", len(m.tasks.Tasks)),
		logger.F("cart", m.cart.ItemCount),
		logger.F("products", len(m.products)))
	return m
}

// loadData pulls fresh views from the dispatchers and clamps cursors
func (m *Model) loadData() {
	m.tasks = m.app.Tasks.View()
	m.cart = m.app.Cart.View()
	m.products = m.app.Catalog.ByCategory(m.currentCategory())

	m.taskCursor = clamp(m.taskCursor, len(m.tasks.Tasks))
	m.productCursor = clamp(m.productCursor, len(m.products))
	m.cartCursor = clamp(m.cartCursor, len(m.cart.Items))

	if m.searchText != "" {
		m.applySearch()
	}
}

func (m *Model) currentCategory() string {
	if m.categoryIdx <= 0 || m.categoryIdx > len(m.categories) {
		return "all"
	}
	return m.categories[m.categoryIdx-1]
}

func (m *Model) currentTask() *view.TaskItem {
	if m.taskCursor < len(m.tasks.Tasks) {
		return &m.tasks.Tasks[m.taskCursor]
	}
	return nil
}

func (m *Model) currentProduct() *model.Product {
	if m.productCursor < len(m.products) {
		return &m.products[m.productCursor]
	}
	return nil
}

func (m *Model) currentLine() *view.CartLine {
	if m.cartCursor < len(m.cart.Items) {
		return &m.cart.Items[m.cartCursor]
	}
	return nil
}

// applySearch records which visible tasks contain the search text
func (m *Model) applySearch() {
	m.matchIndices = nil
	m.matchCursor = 0

	if m.searchText == "" {
		return
	}

	needle := strings.ToLower(m.searchText)
	for i, t := range m.tasks.Tasks {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			m.matchIndices = append(m.matchIndices, i)
		}
	}
}

func (m *Model) isMatch(i int) bool {
	for _, idx := range m.matchIndices {
		if idx == i {
			return true
		}
	}
	return false
}
