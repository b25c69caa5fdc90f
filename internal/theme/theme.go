package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Loading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	ActiveItem            *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	PageTitle             *lipgloss.Style
	PageBody              *lipgloss.Style
	StatusHealthy         *lipgloss.Style
	StatusDegraded        *lipgloss.Style
	ChatUser              *lipgloss.Style
	ChatTitle             *lipgloss.Style
	ChatSubtitle          *lipgloss.Style
	ChatBody              *lipgloss.Style
	ChatSection           *lipgloss.Style
	TableHeader           *lipgloss.Style
	TableHighlight        *lipgloss.Style
	Savings               *lipgloss.Style
}

var defaultStyles = Styles{
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	ActiveItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
	),
	PageTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	PageBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	StatusHealthy: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	StatusDegraded: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	ChatUser: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	ChatTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	ChatSubtitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	),
	ChatBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	ChatSection: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	TableHeader: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	TableHighlight: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Savings: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
