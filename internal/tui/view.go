package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/hrs/internal/directory"
	"github.com/steveyegge/hrs/internal/render"
	"github.com/steveyegge/hrs/internal/style"
)

const dialogTitle = "There was an issue!"

// View implements tea.Model.
func (m Model) View() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(style.Heading.Render("Choose a Provider"))
	b.WriteString("\n")
	b.WriteString(m.viewSelector())
	b.WriteString("\n")

	if snap.Loading {
		b.WriteString(m.spinner.View() + " " + style.Dim.Render("Loading…") + "\n")
	}
	b.WriteString("\n")

	if snap.DialogOpen {
		b.WriteString(viewDialog(snap.ErrorMessage))
		b.WriteString("\n\n")
	}

	b.WriteString(m.viewRecords(snap))
	b.WriteString("\n")
	b.WriteString(m.help.View(helpKeys{keys: m.keys, focus: m.focus, modal: snap.DialogOpen}))
	return b.String()
}

func (m Model) viewSelector() string {
	if len(m.providers) == 0 {
		return style.Error.Render("No providers configured")
	}
	name := m.providers[m.selected].Name
	label := style.Dim.Render("Provider: ")
	value := "‹ " + name + " ›"
	submit := style.Button.Render("Submit")
	if m.focus == focusProviders {
		value = style.Selected.Render(value)
		submit = style.ButtonFocused.Render("Submit")
	}
	return label + value + "  " + submit
}

func viewDialog(message string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		style.Error.Render(dialogTitle),
		"",
		message,
		"",
		style.ButtonFocused.Render("Ok"),
	)
	return style.Dialog.Render(body)
}

func (m Model) viewRecords(snap directory.Snapshot) string {
	if len(snap.Records) == 0 {
		return style.Dim.Render(render.Placeholder) + "\n"
	}

	var lines []string
	cursorLine := 0
	for i, r := range snap.Records {
		panel := render.RecordPanel(r)
		focused := m.focus == focusRecords && i == m.cursor
		if focused {
			cursorLine = len(lines)
		}
		lines = append(lines, m.viewPanel(panel, focused)...)
	}

	return strings.Join(m.window(lines, cursorLine), "\n") + "\n"
}

func (m Model) viewPanel(p render.Panel, focused bool) []string {
	marker := "▸"
	if m.expanded[p.ID] {
		marker = "▾"
	}
	title := marker + " " + p.Title
	if focused {
		title = style.Selected.Render(title)
	} else {
		title = style.Bold.Render(title)
	}
	out := []string{title}
	if !m.expanded[p.ID] {
		return out
	}

	var body []string
	for _, l := range p.Lines {
		body = append(body, viewLine(l)...)
	}
	for _, l := range p.Details {
		body = append(body, viewLine(l)...)
	}
	button := style.Button.Render("Load more employee data")
	if m.requested[p.ID] {
		button = style.ButtonDisabled.Render("Load more employee data")
	}
	body = append(body, "", button)

	panel := style.Panel.Render(strings.Join(body, "\n"))
	for _, l := range strings.Split(panel, "\n") {
		out = append(out, "  "+l)
	}
	return out
}

func viewLine(l render.Line) []string {
	if l.Items == nil {
		return []string{style.Dim.Render(l.Label+":") + " " + l.Value}
	}
	out := []string{style.Dim.Render(l.Label + ":")}
	for _, item := range l.Items {
		out = append(out, "  • "+item)
	}
	return out
}

// window crops lines to the space left under the header so the focused
// panel stays visible.
func (m Model) window(lines []string, cursorLine int) []string {
	const chrome = 12
	avail := m.height - chrome
	if m.height == 0 || avail <= 0 || len(lines) <= avail {
		return lines
	}
	start := 0
	if cursorLine >= avail {
		start = cursorLine - avail + 1
	}
	end := start + avail
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}
