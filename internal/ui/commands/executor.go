package commands

import (
	"strconv"

	"tabdeck/internal/dispatcher"
)

// NewExecutor builds the command registry bound to a dispatcher. Every
// user-facing command the command line accepts is registered here.
func NewExecutor(d *dispatcher.Dispatcher) *Registry {
	r := NewRegistry()

	openFlags := func(a *Args) dispatcher.OpenFlags {
		return dispatcher.OpenFlags{
			Tab:     a.Bool("tab"),
			Bg:      a.Bool("bg"),
			Window:  a.Bool("window"),
			Private: a.Bool("private"),
			Related: a.Bool("related"),
			Secure:  a.Bool("secure"),
		}
	}

	r.Register(&Spec{
		Name:        "open",
		Description: "Open a URL, search or quickmark in the current or a new tab",
		BoolFlags: []boolFlag{
			{'t', "tab"}, {'b', "bg"}, {'w', "window"}, {'p', "private"},
			{'r', "related"}, {'s', "secure"},
		},
		MaxArgs: -1,
		Run: func(a *Args) error {
			return d.OpenURL(a.Rest(0), openFlags(a), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "tab-close",
		Description: "Close the current tab or the one the count addresses",
		BoolFlags:   []boolFlag{{'p', "prev"}, {'n', "next"}, {'o', "opposite"}, {'f', "force"}},
		MaxArgs:     0,
		Run: func(a *Args) error {
			return d.TabClose(dispatcher.CloseFlags{
				Prev:     a.Bool("prev"),
				Next:     a.Bool("next"),
				Opposite: a.Bool("opposite"),
				Force:    a.Bool("force"),
			}, a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "tab-only",
		Description: "Close all tabs except the current one",
		BoolFlags:   []boolFlag{{'p', "prev"}, {'n', "next"}, {'f', "force"}},
		MaxArgs:     0,
		Run: func(a *Args) error {
			return d.TabOnly(a.Bool("prev"), a.Bool("next"), a.Bool("force"))
		},
	})

	r.Register(&Spec{
		Name:        "tab-pin",
		Description: "Toggle the pinned state of a tab",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.TabPin(a.Count) },
	})

	r.Register(&Spec{
		Name:        "tab-mute",
		Description: "Toggle audio muting of a tab",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.TabMute(a.Count) },
	})

	r.Register(&Spec{
		Name:        "tab-next",
		Description: "Focus the next tab, wrapping when tabs.wrap is set",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.TabNext(a.Count) },
	})

	r.Register(&Spec{
		Name:        "tab-prev",
		Description: "Focus the previous tab",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.TabPrev(a.Count) },
	})

	r.Register(&Spec{
		Name:        "tab-focus",
		Description: "Focus a tab by index or 'last'",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.TabFocus(a.Arg(0), a.Count) },
	})

	r.Register(&Spec{
		Name:        "tab-move",
		Description: "Move the current tab to an absolute or relative position",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.TabMove(a.Arg(0), a.Count) },
	})

	r.Register(&Spec{
		Name:        "tab-clone",
		Description: "Duplicate the current tab including its history",
		BoolFlags:   []boolFlag{{'b', "bg"}, {'w', "window"}},
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.TabClone(a.Bool("bg"), a.Bool("window")) },
	})

	r.Register(&Spec{
		Name:        "tab-take",
		Description: "Take a tab from another window",
		BoolFlags:   []boolFlag{{'k', "keep"}},
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.TabTake(a.Arg(0), a.Bool("keep")) },
	})

	r.Register(&Spec{
		Name:        "tab-give",
		Description: "Give the current tab to another window",
		BoolFlags:   []boolFlag{{'k', "keep"}, {'p', "private"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.TabGive(a.Arg(0), a.Bool("keep"), a.Bool("private"), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "buffer",
		Description: "Focus a tab by [win/]index or fuzzy title/URL match",
		MaxArgs:     -1,
		Run:         func(a *Args) error { return d.Buffer(a.Rest(0), a.Count) },
	})

	r.Register(&Spec{
		Name:        "undo",
		Description: "Reopen the most recently closed tab",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.Undo() },
	})

	r.Register(&Spec{
		Name:        "back",
		Description: "Go back in the current tab's history",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     0,
		Run: func(a *Args) error {
			return d.Back(a.Bool("tab"), a.Bool("bg"), a.Bool("window"), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "forward",
		Description: "Go forward in the current tab's history",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     0,
		Run: func(a *Args) error {
			return d.Forward(a.Bool("tab"), a.Bool("bg"), a.Bool("window"), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "navigate",
		Description: "Go prev/next/up/increment/decrement relative to this page",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.Navigate(a.Arg(0), a.Bool("tab"), a.Bool("bg"), a.Bool("window"), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "home",
		Description: "Open the start page in the current tab",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.Home() },
	})

	r.Register(&Spec{
		Name:        "reload",
		Description: "Reload the current or count-addressed tab",
		BoolFlags:   []boolFlag{{'f', "force"}},
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.Reload(a.Bool("force"), a.Count) },
	})

	r.Register(&Spec{
		Name:        "stop",
		Description: "Stop loading the current tab",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.Stop(a.Count) },
	})

	r.Register(&Spec{
		Name:        "scroll",
		Description: "Scroll in a direction (up/down/left/right/top/bottom/page-up/page-down)",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.Scroll(a.Arg(0), a.Count) },
	})

	r.Register(&Spec{
		Name:        "scroll-px",
		Description: "Scroll by a pixel offset",
		MaxArgs:     2,
		Run: func(a *Args) error {
			dx, _ := atoi(a.Arg(0))
			dy, _ := atoi(a.Arg(1))
			return d.ScrollPx(dx, dy, a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "scroll-to-perc",
		Description: "Scroll to a percentage of the page",
		BoolFlags:   []boolFlag{{'x', "horizontal"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.ScrollToPerc(a.Arg(0), a.Bool("horizontal"), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "scroll-to-anchor",
		Description: "Scroll to a named anchor on the page",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.ScrollToAnchor(a.Arg(0)) },
	})

	r.Register(&Spec{
		Name:        "scroll-page",
		Description: "Scroll by pages, optionally navigating past the edges",
		StringFlags: []stringFlag{{0, "top-navigate"}, {0, "bottom-navigate"}},
		MaxArgs:     2,
		Run: func(a *Args) error {
			x, _ := atof(a.Arg(0))
			y, _ := atof(a.Arg(1))
			return d.ScrollPage(x, y, a.String("top-navigate"), a.String("bottom-navigate"), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "zoom",
		Description: "Set the zoom level in percent",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.Zoom(a.Arg(0), a.Count) },
	})

	r.Register(&Spec{
		Name:        "zoom-in",
		Description: "Zoom in on the current page",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.ZoomIn(a.Count) },
	})

	r.Register(&Spec{
		Name:        "zoom-out",
		Description: "Zoom out on the current page",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.ZoomOut(a.Count) },
	})

	r.Register(&Spec{
		Name:        "search",
		Description: "Search the page, or clear highlights with no text",
		BoolFlags:   []boolFlag{{'r', "reverse"}},
		MaxArgs:     -1,
		Run:         func(a *Args) error { return d.Search(a.Rest(0), a.Bool("reverse")) },
	})

	r.Register(&Spec{
		Name:        "search-next",
		Description: "Continue the last search in its direction",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.SearchNext(a.Count) },
	})

	r.Register(&Spec{
		Name:        "search-prev",
		Description: "Continue the last search against its direction",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.SearchPrev(a.Count) },
	})

	r.Register(&Spec{
		Name:        "yank",
		Description: "Yank the URL, title, domain or selection to the clipboard",
		BoolFlags:   []boolFlag{{'s', "sel"}, {'k', "keep"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			what := a.Arg(0)
			if what == "" {
				what = "url"
			}
			return d.Yank(what, a.Bool("sel"), a.Bool("keep"))
		},
	})

	r.Register(&Spec{
		Name:        "set-mark",
		Description: "Store the scroll position under a single-letter key",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.SetMark(a.Arg(0)) },
	})

	r.Register(&Spec{
		Name:        "jump-mark",
		Description: "Jump to a stored scroll position",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.JumpMark(a.Arg(0)) },
	})

	r.Register(&Spec{
		Name:        "quickmark-save",
		Description: "Save the current URL under a quickmark name",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.QuickmarkSave(a.Arg(0)) },
	})

	r.Register(&Spec{
		Name:        "quickmark-load",
		Description: "Open a quickmark",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.QuickmarkLoad(a.Arg(0), a.Bool("tab"), a.Bool("bg"), a.Bool("window"))
		},
	})

	r.Register(&Spec{
		Name:        "quickmark-del",
		Description: "Delete a quickmark, defaulting to the current URL's",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.QuickmarkDel(a.Arg(0)) },
	})

	r.Register(&Spec{
		Name:        "bookmark-add",
		Description: "Bookmark a URL, toggling when --toggle is given",
		BoolFlags:   []boolFlag{{0, "toggle"}},
		MaxArgs:     -1,
		Run: func(a *Args) error {
			return d.BookmarkAdd(a.Arg(0), a.Rest(1), a.Bool("toggle"))
		},
	})

	r.Register(&Spec{
		Name:        "bookmark-load",
		Description: "Open a bookmarked URL",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}, {'d', "delete"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.BookmarkLoad(a.Arg(0), a.Bool("tab"), a.Bool("bg"),
				a.Bool("window"), a.Bool("delete"))
		},
	})

	r.Register(&Spec{
		Name:        "bookmark-del",
		Description: "Delete a bookmark, defaulting to the current URL",
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.BookmarkDel(a.Arg(0)) },
	})

	r.Register(&Spec{
		Name:        "spawn",
		Description: "Run an external command, optionally as a userscript",
		BoolFlags: []boolFlag{
			{'u', "userscript"}, {'v', "verbose"}, {'o', "output"}, {'d', "detach"},
		},
		MaxArgs: -1,
		Run: func(a *Args) error {
			return d.Spawn(a.Rest(0), dispatcher.SpawnFlags{
				Userscript: a.Bool("userscript"),
				Verbose:    a.Bool("verbose"),
				Output:     a.Bool("output"),
				Detach:     a.Bool("detach"),
			}, a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "edit-text",
		Description: "Edit the focused element in the external editor",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.OpenEditor() },
	})

	r.Register(&Spec{
		Name:        "edit-url",
		Description: "Edit the current URL in the external editor and open the result",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.EditURL(openFlags(a)) },
	})

	r.Register(&Spec{
		Name:        "insert-text",
		Description: "Insert text into the focused element",
		MaxArgs:     -1,
		Run:         func(a *Args) error { return d.InsertText(a.Rest(0)) },
	})

	r.Register(&Spec{
		Name:        "click-element",
		Description: "Click the element with the given id",
		StringFlags: []stringFlag{{'t', "target"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			target := a.String("target")
			if target == "" {
				target = "normal"
			}
			return d.ClickElement(a.Arg(0), target)
		},
	})

	r.Register(&Spec{
		Name:        "view-source",
		Description: "Show the source of the current page",
		BoolFlags:   []boolFlag{{'e', "edit"}},
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.ViewSource(a.Bool("edit")) },
	})

	r.Register(&Spec{
		Name:        "debug-dump-page",
		Description: "Write the current page to a file",
		BoolFlags:   []boolFlag{{0, "plain"}},
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.DumpPage(a.Arg(0), a.Bool("plain")) },
	})

	r.Register(&Spec{
		Name:        "print",
		Description: "Print the current page, optionally to PDF",
		BoolFlags:   []boolFlag{{'p', "preview"}},
		StringFlags: []stringFlag{{0, "pdf"}},
		MaxArgs:     0,
		Run: func(a *Args) error {
			return d.Print(a.Bool("preview"), a.String("pdf"), a.Count)
		},
	})

	r.Register(&Spec{
		Name:        "download",
		Description: "Download a URL or the current page",
		BoolFlags:   []boolFlag{{'m', "mhtml"}},
		StringFlags: []stringFlag{{'d', "dest"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.Download(a.Arg(0), a.Bool("mhtml"), a.String("dest"))
		},
	})

	r.Register(&Spec{
		Name:        "fullscreen",
		Description: "Toggle fullscreen, or leave it with --leave",
		BoolFlags:   []boolFlag{{'l', "leave"}},
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.Fullscreen(a.Bool("leave")) },
	})

	r.Register(&Spec{
		Name:        "devtools",
		Description: "Toggle the page inspector",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.ToggleInspector() },
	})

	r.Register(&Spec{
		Name:        "jseval",
		Description: "Evaluate JavaScript on the current page",
		BoolFlags:   []boolFlag{{'f', "file"}, {'q', "quiet"}},
		MaxArgs:     -1,
		Run: func(a *Args) error {
			return d.JSEval(a.Rest(0), a.Bool("file"), a.Bool("quiet"))
		},
	})

	r.Register(&Spec{
		Name:        "fake-key",
		Description: "Send a fake key sequence to the page or globally",
		BoolFlags:   []boolFlag{{'g', "global"}},
		MaxArgs:     1,
		Run:         func(a *Args) error { return d.FakeKey(a.Arg(0), a.Bool("global")) },
	})

	r.Register(&Spec{
		Name:        "history",
		Description: "Show the browsing history",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     0,
		Run: func(a *Args) error {
			return d.History(a.Bool("tab"), a.Bool("bg"), a.Bool("window"))
		},
	})

	r.Register(&Spec{
		Name:        "help",
		Description: "Show the help page, optionally for one topic",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.ShowHelp(a.Arg(0), a.Bool("tab"), a.Bool("bg"), a.Bool("window"))
		},
	})

	r.Register(&Spec{
		Name:        "messages",
		Description: "Show past messages, optionally filtered by level",
		BoolFlags:   []boolFlag{{'t', "tab"}, {'b', "bg"}, {'w', "window"}},
		MaxArgs:     1,
		Run: func(a *Args) error {
			return d.Messages(a.Arg(0), a.Bool("tab"), a.Bool("bg"), a.Bool("window"))
		},
	})

	r.Register(&Spec{
		Name:        "spawn-output",
		Description: "Show the output of the last :spawn --output command",
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.SpawnOutput() },
	})

	// Caret movement. Counted commands take their count prefix.
	caret := func(name, desc string, run func(count int) error) {
		r.Register(&Spec{
			Name:        name,
			Description: desc,
			MaxArgs:     0,
			Run:         func(a *Args) error { return run(a.Count) },
		})
	}
	caret("move-to-next-line", "Move the caret to the next line", d.MoveToNextLine)
	caret("move-to-prev-line", "Move the caret to the previous line", d.MoveToPrevLine)
	caret("move-to-next-char", "Move the caret to the next character", d.MoveToNextChar)
	caret("move-to-prev-char", "Move the caret to the previous character", d.MoveToPrevChar)
	caret("move-to-next-word", "Move the caret to the next word", d.MoveToNextWord)
	caret("move-to-prev-word", "Move the caret to the previous word", d.MoveToPrevWord)
	caret("move-to-end-of-word", "Move the caret to the end of the word", d.MoveToEndOfWord)
	caret("move-to-start-of-next-block", "Move the caret to the start of the next block", d.MoveToStartOfNextBlock)
	caret("move-to-start-of-prev-block", "Move the caret to the start of the previous block", d.MoveToStartOfPrevBlock)
	caret("move-to-end-of-next-block", "Move the caret to the end of the next block", d.MoveToEndOfNextBlock)
	caret("move-to-end-of-prev-block", "Move the caret to the end of the previous block", d.MoveToEndOfPrevBlock)

	caretFixed := func(name, desc string, run func() error) {
		r.Register(&Spec{
			Name:        name,
			Description: desc,
			MaxArgs:     0,
			Run:         func(a *Args) error { return run() },
		})
	}
	caretFixed("move-to-start-of-line", "Move the caret to the start of the line", d.MoveToStartOfLine)
	caretFixed("move-to-end-of-line", "Move the caret to the end of the line", d.MoveToEndOfLine)
	caretFixed("move-to-start-of-document", "Move the caret to the start of the document", d.MoveToStartOfDocument)
	caretFixed("move-to-end-of-document", "Move the caret to the end of the document", d.MoveToEndOfDocument)
	caretFixed("selection-toggle", "Start or stop extending the selection", d.ToggleSelection)
	caretFixed("selection-drop", "Drop the current selection", d.DropSelection)

	r.Register(&Spec{
		Name:        "follow-selected",
		Description: "Open the selected text as a link",
		BoolFlags:   []boolFlag{{'t', "tab"}},
		MaxArgs:     0,
		Run:         func(a *Args) error { return d.FollowSelected(a.Bool("tab")) },
	})

	return r
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func atof(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
