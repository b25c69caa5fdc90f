package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/format/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const replyIndent = "  "

func (m *Model) chatPanelLines(width int) []styledLine {
	lines := []styledLine{{text: "Solar assistant", style: styles.PageTitle}}
	if len(m.transcript) == 0 {
		return append(lines, styledLine{text: "Ask about savings, incentives or installation.", style: styles.Info})
	}
	for i, entry := range m.transcript {
		if i > 0 {
			lines = append(lines, styledLine{})
		}
		lines = append(lines, styledLine{text: "you: " + entry.message, style: styles.ChatUser})
		switch {
		case entry.err != "":
			lines = append(lines, styledLine{text: replyIndent + "failed: " + entry.err, style: styles.Error})
		case entry.reply != nil:
			lines = append(lines, renderReply(*entry.reply, width)...)
		default:
			lines = append(lines, styledLine{text: replyIndent + "…", style: styles.Loading})
		}
	}
	return lines
}

// renderReply lays out an assistant reply: title, response text and the
// optional structured sections in a fixed order.
func renderReply(reply api.AIChatResponse, width int) []styledLine {
	wrapAt := width - len(replyIndent)
	var lines []styledLine
	add := func(text string, style *lipgloss.Style) {
		lines = append(lines, styledLine{text: replyIndent + text, style: style})
	}
	addWrapped := func(text string, style *lipgloss.Style) {
		for _, line := range wrapText(text, wrapAt) {
			add(line, style)
		}
	}
	section := func(title string) {
		lines = append(lines, styledLine{})
		add(title, styles.ChatSection)
	}

	if title := strings.TrimSpace(reply.Title); title != "" {
		add(title, styles.ChatTitle)
	}
	if subtitle := strings.TrimSpace(reply.Subtitle); subtitle != "" {
		add(subtitle, styles.ChatSubtitle)
	}
	addWrapped(reply.Response, styles.ChatBody)

	if reply.TableData != nil && len(reply.TableData.Headers)+len(reply.TableData.Rows) > 0 {
		section("Details")
		lines = append(lines, tableLines(*reply.TableData)...)
	}
	if len(reply.Actions) > 0 {
		section("Next steps")
		for _, action := range reply.Actions {
			add("• "+action, styles.ChatBody)
		}
	}
	if len(reply.HowItWorks) > 0 {
		section("How it works")
		for i, step := range reply.HowItWorks {
			addWrapped(fmt.Sprintf("%d. %s", i+1, step), styles.ChatBody)
		}
	}
	if setup := strings.TrimSpace(reply.HowToSetup); setup != "" {
		section("How to set up")
		addWrapped(setup, styles.ChatBody)
	}
	if savings := strings.TrimSpace(reply.Savings); savings != "" {
		lines = append(lines, styledLine{})
		add("Savings: "+savings, styles.Savings)
	}
	return lines
}

// tableLines aligns the label column left and the value columns right.
// Highlighted rows are styled so they stand out.
func tableLines(data api.TableData) []styledLine {
	rows := make([][]string, 0, len(data.Rows)+1)
	hasHeader := len(data.Headers) > 0
	if hasHeader {
		rows = append(rows, data.Headers)
	}
	for _, row := range data.Rows {
		rows = append(rows, append([]string{row.Label}, row.Values...))
	}
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	alignments := make([]table.Alignment, cols)
	for i := 1; i < cols; i++ {
		alignments[i] = table.AlignRight
	}
	formatted := table.Format(rows, alignments)
	lines := make([]styledLine, 0, len(formatted))
	for i, text := range formatted {
		style := styles.ChatBody
		switch {
		case hasHeader && i == 0:
			style = styles.TableHeader
		case data.Rows[rowIndex(i, hasHeader)].Highlight:
			style = styles.TableHighlight
		}
		lines = append(lines, styledLine{text: replyIndent + text, style: style})
	}
	return lines
}

func rowIndex(line int, hasHeader bool) int {
	if hasHeader {
		return line - 1
	}
	return line
}

// wrapText word-wraps text to width and splits it into lines. Blank input
// yields nothing.
func wrapText(text string, width int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if width > 0 {
		text = wordwrap.String(text, width)
	}
	return strings.Split(text, "\n")
}
