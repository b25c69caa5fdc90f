package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	sidebarMinWidth   = 18
	sidebarMaxWidth   = 28
	mainPanelMinWidth = 40 // below sidebar + this the layout stacks vertically
	bottomBarRows     = 2
)

const (
	navigateFooter = "↑/↓ move  enter open  tab assistant  ctrl+r refresh  esc back  ctrl+c quit"
	chatFooter     = "enter send  tab/esc close  ctrl+r refresh  ctrl+c quit"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.hasSideBySide() {
		return m.viewSideBySide()
	}
	return m.viewVertical()
}

// hasSideBySide reports whether the sidebar and the main pane fit next to
// each other.
func (m *Model) hasSideBySide() bool {
	return m.width > 0 && m.width-m.sidebarWidth() >= mainPanelMinWidth
}

func (m *Model) sidebarWidth() int {
	w := sidebarMinWidth
	for _, route := range m.sidebar.Full {
		if n := len([]rune(route.Title)) + 4; n > w {
			w = n
		}
	}
	if w > sidebarMaxWidth {
		w = sidebarMaxWidth
	}
	return w
}

func (m *Model) mainWidth() int {
	if m.hasSideBySide() {
		return m.width - m.sidebarWidth()
	}
	return m.width
}

// viewVertical stacks the sidebar above the page for narrow terminals. The
// page gets whatever rows the sidebar leaves over.
func (m *Model) viewVertical() string {
	lines := make([]styledLine, 0, 32)
	lines = append(lines, styledLine{text: m.header(), style: styles.Header})
	lines = append(lines, m.sidebarLines(m.width)...)
	lines = append(lines, m.trailerLines()...)
	if m.height <= 0 {
		lines = append(lines, styledLine{})
		lines = append(lines, m.mainLines(m.width, 0)...)
	} else if remain := m.height - bottomBarRows - len(lines) - 1; remain > 0 {
		lines = append(lines, styledLine{})
		lines = append(lines, limitHeight(m.mainLines(m.width, remain), remain, m.width)...)
	}
	lines = applyWidth(lines, m.width)
	return renderLines(lines) + "\n" + m.bottomBar()
}

// viewSideBySide renders the sidebar on the left and the page on the right.
func (m *Model) viewSideBySide() string {
	sideW := m.sidebarWidth()
	mainW := m.mainWidth()

	panelH := m.height - bottomBarRows - 1
	if m.height <= 0 {
		panelH = 0
	}

	left := make([]styledLine, 0, 16)
	left = append(left, m.sidebarLines(sideW-2)...)
	left = append(left, m.trailerLines()...)
	if panelH > 0 {
		left = limitHeight(left, panelH, sideW)
		for len(left) < panelH {
			left = append(left, styledLine{})
		}
	}
	left = applyWidth(left, sideW)
	leftStr := padColumn(renderLines(left), sideW)

	right := m.mainLines(mainW, panelH)
	if panelH > 0 {
		right = limitHeight(right, panelH, mainW)
	}
	right = applyWidth(right, mainW)
	rightStr := renderLines(right)

	header := renderLines(applyWidth([]styledLine{{text: m.header(), style: styles.Header}}, m.width))
	top := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, rightStr)
	return header + "\n" + top + "\n" + m.bottomBar()
}

// padColumn pads or truncates every row to exactly width visible columns so
// JoinHorizontal keeps the right column aligned.
func padColumn(block string, width int) string {
	rows := strings.Split(block, "\n")
	for i, row := range rows {
		w := lipgloss.Width(row)
		if w > width {
			rows[i] = truncate.StringWithTail(row, uint(width), "…")
		} else if w < width {
			rows[i] = row + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(rows, "\n")
}

func (m *Model) header() string {
	title := m.history.Current().Title
	if title == "" {
		return appTitle
	}
	return appTitle + " " + headerSeparator + " " + title
}

func (m *Model) sidebarLines(width int) []styledLine {
	current := m.sidebar
	m.syncViewport(current)
	if len(current.Items) == 0 {
		msg := "(no pages)"
		if current.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", current.Filter)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	start := 0
	display := current.Items
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(display) > maxItems {
		start = min(max(current.ViewportOffset, 0), len(display)-maxItems)
		current.ViewportOffset = start
		display = display[start : start+maxItems]
	}
	active := m.history.Current().Path
	lines := make([]styledLine, 0, len(display))
	for i, route := range display {
		lines = append(lines, m.buildItemLine(route.Title, route.Path == active, start+i == current.Cursor, width))
	}
	return lines
}

// buildItemLine constructs a single sidebar row. width is the target column
// width; when > 0 the text is padded so the selected row's background spans
// the column.
func (m *Model) buildItemLine(label string, active, selected bool, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if active {
		lineStyle = styles.ActiveItem
	}
	if selected {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + label
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

// mainLines renders the active route's view followed by the assistant panel
// when it is open. With a positive height the oldest transcript lines give
// way first so the latest reply stays visible.
func (m *Model) mainLines(width, height int) []styledLine {
	route := m.history.Current()
	render, ok := m.views[route.Component]
	var lines []styledLine
	if ok {
		lines = render(m, route, width)
	} else {
		lines = []styledLine{{text: fmt.Sprintf("No view registered for %s", route.Component), style: styles.Error}}
	}
	if !m.store.IsAIPanelOpen() {
		return lines
	}
	panel := m.chatPanelLines(width)
	if height > 0 {
		if budget := height - len(lines) - 1; budget > 1 && len(panel) > budget {
			panel = append(panel[:1:1], panel[len(panel)-budget+1:]...)
		}
	}
	lines = append(lines, styledLine{})
	return append(lines, panel...)
}

func (m *Model) trailerLines() []styledLine {
	var lines []styledLine
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{}, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		footer := navigateFooter
		if m.mode == ModeChat {
			footer = chatFooter
		}
		lines = append(lines, styledLine{}, styledLine{text: footer, style: styles.Footer})
	}
	return lines
}

// bottomBar renders the status line and the active prompt across the full
// width.
func (m *Model) bottomBar() string {
	var status styledLine
	switch {
	case m.errMsg != "":
		status = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	case m.store.IsLoading():
		status = styledLine{text: m.spinner.View() + " Waiting for the assistant…", raw: true}
	case m.backendErr != "":
		status = styledLine{text: "API unreachable: " + m.backendErr, style: styles.Error}
	}
	prompt := styledLine{text: m.filterPrompt(), raw: true}
	if m.mode == ModeChat {
		prompt = styledLine{text: m.chatInput.View(), raw: true}
	}
	return renderLines(applyWidth([]styledLine{status, prompt}, m.width))
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if w := m.width - lipgloss.Width(m.chatInput.Prompt) - 1; w > 0 {
		m.chatInput.Width = w
	}
	m.syncViewport(m.sidebar)
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := bottomBarRows + 1 // header
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
