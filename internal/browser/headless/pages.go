package headless

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// renderPage is the default page loader. It knows the tabdeck://
// pseudo-pages, reads file:// URLs from disk and produces a placeholder
// document for everything else.
func (r *Registry) renderPage(u *url.URL) (string, *Document) {
	switch u.Scheme {
	case "tabdeck":
		return r.renderInternal(u)
	case "view-source":
		inner := *u
		inner.Scheme = "http"
		title, doc := r.Loader(&inner)
		src := []string{"<!-- source of " + inner.String() + " -->"}
		src = append(src, doc.Lines...)
		return "view-source: " + title, NewDocument(src)
	case "file":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return u.Path, NewDocument([]string{
				fmt.Sprintf("Error reading %s: %v", u.Path, err),
			})
		}
		return u.Path, NewDocument(strings.Split(strings.TrimRight(string(data), "\n"), "\n"))
	}
	return placeholderPage(u)
}

func (r *Registry) renderInternal(u *url.URL) (string, *Document) {
	switch u.Host {
	case "start", "":
		return "tabdeck", NewDocument([]string{
			"tabdeck",
			"",
			"Use :open to navigate, :help for the command reference.",
		})
	case "tabs":
		lines := []string{"Open tabs", ""}
		for _, info := range r.Tabs() {
			marker := " "
			if info.Active {
				marker = "*"
			}
			lines = append(lines, fmt.Sprintf("%s %d/%d  %s  %s",
				marker, info.WindowID, info.Index+1, info.URL, info.Title))
		}
		return "Tabs", NewDocument(lines)
	case "history":
		lines := []string{"History", ""}
		for _, id := range r.WindowIDs() {
			for _, t := range r.windows[id].tabs {
				for _, e := range t.history {
					lines = append(lines, e.URL+"  "+e.Title)
				}
			}
		}
		return "History", NewDocument(lines)
	case "help":
		topic := strings.TrimPrefix(u.Path, "/")
		title := "Help"
		if topic != "" {
			title = "Help: " + topic
		}
		doc := NewDocument(helpLines(topic))
		doc.Anchors["top"] = 0
		return title, doc
	case "log":
		return "Messages", NewDocument(r.logLines(u.Query().Get("level")))
	case "version":
		return "Version", NewDocument([]string{"tabdeck", "", "headless backend"})
	}
	return u.String(), NewDocument([]string{"No such page: " + u.String()})
}

func helpLines(topic string) []string {
	lines := []string{"tabdeck help", ""}
	if topic != "" {
		lines = append(lines, "Topic: "+topic, "")
	}
	lines = append(lines,
		"Commands are entered with a leading colon, for example :open.",
		"Prefix a command with a number to repeat it or pick a target.",
	)
	return lines
}

// placeholderPage fabricates a document for external URLs. Headless has
// no network stack, so the page describes itself; the line count grows
// with the host name so scrolling behaves differently per page.
func placeholderPage(u *url.URL) (string, *Document) {
	lines := []string{
		u.String(),
		"",
		"Placeholder page for " + u.Host,
		"",
	}
	n := 10 + len(u.Host)*3
	for i := 1; i <= n; i++ {
		lines = append(lines, fmt.Sprintf("line %d of %s", i, u.Host))
	}
	doc := NewDocument(lines)
	if u.Fragment != "" {
		doc.Anchors[u.Fragment] = len(lines) / 2
	}
	return pageTitle(u), doc
}
