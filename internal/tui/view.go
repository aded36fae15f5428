package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/view"
)

const sidebarWidth = 22

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	st := NewStyles(m.tasks.DarkTheme)

	// Build the layout
	sidebar := m.renderSidebar(st)
	var main string
	switch m.section {
	case SectionCatalog:
		main = m.renderCatalog(st)
	case SectionCart:
		main = m.renderCart(st)
	default:
		main = m.renderTaskList(st)
	}
	statusBar := m.renderStatusBar(st)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	switch m.mode {
	case ModeAddTask, ModeEditTask, ModeConfirmClear:
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(st),
			lipgloss.WithWhitespaceChars(" "),
		)
	case ModeHelp:
		mainContent = m.renderHelp()
	}

	// Combine with status bar
	return st.App.Render(lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar))
}

func (m Model) renderSidebar(st Styles) string {
	var s string

	// Header with time
	now := time.Now().Format("15:04:05")
	s += st.Header.Render("IronList") + "\n"
	s += st.Help.Render(now) + "\n"
	s += st.Rule.Render("─────────────────") + "\n\n"

	for _, sec := range sections {
		cursor := "  "
		style := st.SectionItem
		if sec == m.section {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = st.SectionSelected
			}
		}

		line := fmt.Sprintf("%s%-9s %s", cursor, sec.String(), m.sectionCount(sec))
		s += style.Render(line) + "\n"
	}

	s += "\n" + st.Rule.Render("─────────────────") + "\n"
	theme := "☀ light"
	if m.tasks.DarkTheme {
		theme = "🌙 dark"
	}
	s += st.Help.Render("T " + theme)

	return st.Sidebar.Width(sidebarWidth).Height(m.height - 2).Render(s)
}

func (m Model) sectionCount(sec Section) string {
	switch sec {
	case SectionCatalog:
		return fmt.Sprintf("%d", len(m.products))
	case SectionCart:
		return fmt.Sprintf("%d", m.cart.ItemCount)
	default:
		return fmt.Sprintf("%d", m.tasks.ActiveCount)
	}
}

func (m Model) renderTaskList(st Styles) string {
	width := m.width - sidebarWidth - 2
	var s string

	// Header
	header := fmt.Sprintf("Tasks [%s] (%s)", m.tasks.Filter, m.tasks.Summary)
	s += st.Header.Render(header) + "\n"
	s += st.Rule.Render(strings.Repeat("─", max(width-4, 0))) + "\n\n"

	if len(m.tasks.Tasks) == 0 {
		s += st.Help.Render("  No tasks. Press 'a' to add one.")
	}

	textWidth := max(width-30, 10)
	for i, t := range m.tasks.Tasks {
		cursor := "  "
		style := st.Item
		if i == m.taskCursor && m.pane == PaneMain {
			cursor = "❯ "
			style = st.ItemSelected
		}

		// Highlight matching tasks
		if m.isMatch(i) && i != m.taskCursor {
			style = st.Match
		}

		icon := "[ ]"
		switch {
		case t.Removing:
			icon = "[~]"
			style = st.ItemRemoving
		case t.Completed:
			icon = "[x]"
			style = st.ItemDone
		}

		content := truncate(t.Text, textWidth)
		check := style.Render(cursor + icon)
		desc := style.Render(fmt.Sprintf(" %-*s ", textWidth, content))

		s += check + desc + st.FormatPriority(t.Priority) + "\n"
	}

	return st.List.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderCatalog(st Styles) string {
	width := m.width - sidebarWidth - 2
	var s string

	header := fmt.Sprintf("Catalog [%s]", m.currentCategory())
	s += st.Header.Render(header) + "\n"
	s += st.Rule.Render(strings.Repeat("─", max(width-4, 0))) + "\n\n"

	if len(m.products) == 0 {
		s += st.Help.Render("  No products in this category.")
	}

	currency := m.app.Cart.Currency()
	nameWidth := max(width-30, 10)
	for i, p := range m.products {
		cursor := "  "
		style := st.Item
		if i == m.productCursor && m.pane == PaneMain {
			cursor = "❯ "
			style = st.ItemSelected
		}

		line := fmt.Sprintf("%s%-*s %12s", cursor, nameWidth, truncate(p.Name, nameWidth), view.FormatMoney(currency, p.Price))
		s += style.Render(line) + "\n"
	}

	s += "\n" + st.Help.Render("a/enter:add to cart  f:category")

	return st.List.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderCart(st Styles) string {
	width := m.width - sidebarWidth - 2
	var s string

	header := fmt.Sprintf("Cart (%d items)", m.cart.ItemCount)
	s += st.Header.Render(header) + "\n"
	s += st.Rule.Render(strings.Repeat("─", max(width-4, 0))) + "\n\n"

	if m.cart.Notice != "" {
		s += st.Notice.Render(m.cart.Notice) + "\n\n"
	}

	if m.cart.Empty {
		s += st.Help.Render("  Your cart is empty. Add something from the catalog.")
		return st.List.Width(width).Height(m.height - 2).Render(s)
	}

	nameWidth := max(width-40, 10)
	for i, l := range m.cart.Items {
		cursor := "  "
		style := st.Item
		if i == m.cartCursor && m.pane == PaneMain {
			cursor = "❯ "
			style = st.ItemSelected
		}

		line := fmt.Sprintf("%s%-*s x%-3d %12s", cursor, nameWidth, truncate(l.Name, nameWidth), l.Quantity, l.LineTotal)
		s += style.Render(line) + "\n"
	}

	s += "\n" + st.Rule.Render(strings.Repeat("─", max(width-4, 0))) + "\n"
	s += st.Header.Render("Total: "+m.cart.Total) + "\n\n"
	s += st.Help.Render("+/-:quantity  d:remove  c:clear  o:checkout")

	return st.List.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderStatusBar(st Styles) string {
	// When in search mode, show inline search input (like vim)
	if m.mode == ModeSearch {
		matches := ""
		if len(m.matchIndices) > 0 {
			matches = fmt.Sprintf(" [%d/%d]", m.matchCursor+1, len(m.matchIndices))
		} else if m.searchText != "" {
			matches = " [no match]"
		}
		return st.StatusBar.Width(m.width).Render("/" + m.input.View() + matches)
	}

	help := "tab:section  a:add  e:edit  x:done  d:del  f:filter  c:clear  T:theme  ?:help  q:quit"
	switch m.section {
	case SectionCatalog:
		help = "tab:section  a:add to cart  f:category  T:theme  ?:help  q:quit"
	case SectionCart:
		help = "tab:section  +/-:qty  d:remove  c:clear  o:checkout  T:theme  ?:help  q:quit"
	}

	if m.searchText != "" && m.section == SectionTasks {
		if len(m.matchIndices) > 0 {
			help = fmt.Sprintf("/%s  [%d/%d matches]  n:next  N:prev  Esc:clear",
				m.searchText, m.matchCursor+1, len(m.matchIndices))
		} else {
			help = fmt.Sprintf("/%s  [no matches]  Esc:clear", m.searchText)
		}
	}
	if m.message != "" {
		help = m.message
		if strings.HasPrefix(m.message, "⚠") || strings.HasPrefix(m.message, "Error") {
			help = st.Warning.Render(m.message)
		}
	}

	// New-task priority (right aligned)
	if m.section == SectionTasks {
		prio := "new: " + string(m.newPriority)
		avail := m.width - lipgloss.Width(help) - len(prio) - 2
		if avail > 0 {
			help += strings.Repeat(" ", avail) + prio
		}
	}

	return st.StatusBar.Width(m.width).Render(help)
}

func (m Model) renderModal(st Styles) string {
	var content string
	switch m.mode {
	case ModeConfirmClear:
		content = lipgloss.NewStyle().Bold(true).Render("Empty the cart?") + "\n\n"
		content += fmt.Sprintf("%d item(s), %s\n\n", m.cart.ItemCount, m.cart.Total)
		content += st.Help.Render("y:confirm  any other key:cancel")
		return st.Modal.Render(content)
	case ModeEditTask:
		content = lipgloss.NewStyle().Bold(true).Render("Edit Task") + "\n\n"
	default:
		title := fmt.Sprintf("Add Task (%s)", priorityLabel(m.newPriority))
		content = lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	}

	content += m.input.View() + "\n\n"
	content += st.Help.Render("Enter:save  Esc:cancel")

	return st.Modal.Render(content)
}

func priorityLabel(p model.Priority) string {
	if p == "" {
		return string(model.PriorityMedium)
	}
	return string(p)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ─────╮
│                            │
│  Navigation                │
│  ──────────                │
│  j/↓     Move down         │
│  k/↑     Move up           │
│  h/l     Switch pane       │
│  Tab     Next section      │
│  G       Go to bottom      │
│                            │
│  Tasks                     │
│  ─────                     │
│  a       Add task          │
│  e       Edit task         │
│  x/Enter Toggle done       │
│  d       Delete            │
│  c       Clear completed   │
│  f       Cycle filter      │
│  1-3     New-task priority │
│  /       Search            │
│                            │
│  Cart                      │
│  ────                      │
│  a       Add product       │
│  +/-     Change quantity   │
│  o       Checkout          │
│                            │
│  Other                     │
│  ─────                     │
│  T       Toggle theme      │
│  ?       Toggle help       │
│  q       Quit              │
│                            │
╰────────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
