package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabPinned   lipgloss.Style
	TabStrip    lipgloss.Style
	Title       lipgloss.Style
	URLBar      lipgloss.Style
	Viewport    lipgloss.Style
	CommandLine lipgloss.Style
	MsgInfo     lipgloss.Style
	MsgWarning  lipgloss.Style
	MsgError    lipgloss.Style
	Dim         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")).
			Background(lipgloss.Color("238")),
		TabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		TabPinned:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		TabStrip:    lipgloss.NewStyle().Background(lipgloss.Color("235")),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		URLBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		Viewport:    lipgloss.NewStyle(),
		CommandLine: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		MsgInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		MsgWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		MsgError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Dim:         lipgloss.NewStyle().Faint(true),
	}
}
