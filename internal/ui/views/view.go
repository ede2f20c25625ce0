package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tabdeck/internal/domain"
)

// ViewState is everything the renderer needs for one frame
type ViewState struct {
	Width  int
	Height int

	WindowID int
	Tabs     []domain.TabInfo // tabs of the rendered window
	URL      string
	Title    string

	PageLines []string // visible slice of the document
	ScrollY   int
	MaxY      int

	Mode        string // normal, command, search
	CommandView string // rendered textinput when in command or search mode
	Message     string
	MsgLevel    domain.MessageLevel
	Fullscreen  bool
}

// Renderer renders view states into terminal frames
type Renderer struct {
	styles *Styles
}

func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the full frame
func (r *Renderer) Render(s *ViewState) string {
	var b strings.Builder

	if !s.Fullscreen {
		b.WriteString(r.renderTabStrip(s))
		b.WriteString("\n")
		b.WriteString(r.renderURLBar(s))
		b.WriteString("\n")
	}

	b.WriteString(r.renderViewport(s))
	b.WriteString("\n")
	b.WriteString(r.renderStatusLine(s))

	return b.String()
}

// renderTabStrip renders one cell per tab, the active one highlighted
func (r *Renderer) renderTabStrip(s *ViewState) string {
	if len(s.Tabs) == 0 {
		return r.styles.Dim.Render("[no tabs]")
	}

	cells := make([]string, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		label := t.Title
		if label == "" {
			label = t.URL
		}
		if label == "" {
			label = "about:blank"
		}
		if len(label) > 20 {
			label = label[:19] + "…"
		}

		text := fmt.Sprintf(" %d %s ", t.Index+1, label)
		switch {
		case t.Pinned:
			text = r.styles.TabPinned.Render(text)
		case t.Active:
			text = r.styles.TabActive.Render(text)
		default:
			text = r.styles.TabInactive.Render(text)
		}
		if t.Muted {
			text += r.styles.Dim.Render("[M]")
		}
		cells = append(cells, text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (r *Renderer) renderURLBar(s *ViewState) string {
	url := s.URL
	if url == "" {
		url = "about:blank"
	}
	perc := 0
	if s.MaxY > 0 {
		perc = s.ScrollY * 100 / s.MaxY
	}
	pos := fmt.Sprintf("[%d%%]", perc)
	if s.MaxY == 0 {
		pos = "[all]"
	}
	return r.styles.URLBar.Render(url) + " " + r.styles.Dim.Render(pos)
}

func (r *Renderer) renderViewport(s *ViewState) string {
	height := s.Height - 4 // tab strip, URL bar, status line, spacing
	if s.Fullscreen {
		height = s.Height - 2
	}
	if height < 1 {
		height = 1
	}

	lines := s.PageLines
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, height)
	for i := 0; i < height; i++ {
		if i < len(lines) {
			line := lines[i]
			if s.Width > 0 && len(line) > s.Width {
				line = line[:s.Width]
			}
			out[i] = line
		} else {
			out[i] = r.styles.Dim.Render("~")
		}
	}
	return r.styles.Viewport.Render(strings.Join(out, "\n"))
}

// renderStatusLine shows the command line when it is open, the last
// message otherwise
func (r *Renderer) renderStatusLine(s *ViewState) string {
	switch s.Mode {
	case "command", "search":
		return r.styles.CommandLine.Render(s.CommandView)
	}

	if s.Message != "" {
		switch s.MsgLevel {
		case domain.LevelError:
			return r.styles.MsgError.Render(s.Message)
		case domain.LevelWarning:
			return r.styles.MsgWarning.Render(s.Message)
		default:
			return r.styles.MsgInfo.Render(s.Message)
		}
	}

	title := s.Title
	if title == "" {
		title = "tabdeck"
	}
	return r.styles.Title.Render(title)
}
