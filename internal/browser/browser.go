// Package browser defines the interfaces the command layer drives: tabs,
// the per-window tab container, the window registry and the download
// manager. The real rendering backend lives behind these interfaces;
// package headless provides the in-memory implementation used by the
// shell and the tests.
package browser

import (
	"net/url"

	"tabdeck/internal/domain"
)

// HistoryEntry is one entry of a tab's navigation history
type HistoryEntry struct {
	URL   string
	Title string
}

// SearchOptions control a page search
type SearchOptions struct {
	IgnoreCase bool
	Reverse    bool
}

// SelectBehavior picks which neighbor becomes active after closing a tab
type SelectBehavior int

const (
	// SelectDefault keeps the container's configured behavior
	SelectDefault SelectBehavior = iota
	SelectPrevTab
	SelectNextTab
)

// CloseOptions control how a tab close behaves
type CloseOptions struct {
	AddUndo bool
	Select  SelectBehavior
}

// ClickTarget determines where a clicked element opens
type ClickTarget int

const (
	ClickNormal ClickTarget = iota
	ClickTab
	ClickTabBg
	ClickWindow
)

// Tab is one browser tab. All state it exposes is owned by the backend;
// the command layer only reads and mutates it through this interface.
type Tab interface {
	URL() (*url.URL, error)
	Title() string
	Load(u *url.URL)
	Reload(force bool)
	Stop()

	Pinned() bool
	SetPinned(pinned bool)
	ViewingSource() bool

	History() History
	Scroller() Scroller
	Zoom() Zoom
	Search() Search
	Caret() Caret
	Elements() Elements
	Audio() Audio
	Printing() Printing
	Action() Action

	// DumpAsync delivers the page content to cb. The callback may fire
	// after the tab was closed; implementations still deliver the data.
	DumpAsync(plain bool, cb func(data string))

	// RunJS evaluates JavaScript and delivers the result, or "" when
	// the backend has no JS engine. cb may be nil.
	RunJS(code string, cb func(out string)) error

	// SendKeys delivers a fake key sequence to the page
	SendKeys(keys string) error
}

// History is a tab's navigation history
type History interface {
	CanGoBack() bool
	CanGoForward() bool
	Back(count int) error
	Forward(count int) error
	Serialize() ([]HistoryEntry, error)
	Deserialize(entries []HistoryEntry) error
}

// Scroller moves a tab's viewport
type Scroller interface {
	Delta(dx, dy int)
	DeltaPage(x, y float64) error
	Up(count int)
	Down(count int)
	Left(count int)
	Right(count int)
	Top()
	Bottom()
	PageUp(count int)
	PageDown(count int)
	// ToPerc scrolls to a percentage; nil leaves the axis unchanged
	ToPerc(x, y *int)
	ToAnchor(name string) error
	Pos() domain.ScrollPos
	AtTop() bool
	AtBottom() bool
}

// Zoom controls a tab's zoom factor
type Zoom interface {
	Factor() float64
	SetFactor(factor float64) error
	// Offset moves the given number of steps on the zoom ladder and
	// returns the new level in percent
	Offset(steps int) (int, error)
}

// Search is a tab's find-in-page state. Results are delivered through
// the callback, possibly asynchronously.
type Search interface {
	Search(text string, opts SearchOptions, cb func(found bool))
	NextResult(cb func(found bool))
	PrevResult(cb func(found bool))
	Clear()
	Displayed() bool
	Text() string
}

// Caret is the caret-browsing cursor of a tab
type Caret interface {
	MoveToNextLine(count int)
	MoveToPrevLine(count int)
	MoveToNextChar(count int)
	MoveToPrevChar(count int)
	MoveToEndOfWord(count int)
	MoveToNextWord(count int)
	MoveToPrevWord(count int)
	MoveToStartOfLine()
	MoveToEndOfLine()
	MoveToStartOfNextBlock(count int)
	MoveToStartOfPrevBlock(count int)
	MoveToEndOfNextBlock(count int)
	MoveToEndOfPrevBlock(count int)
	MoveToStartOfDocument()
	MoveToEndOfDocument()
	ToggleSelection()
	DropSelection()
	// Selection delivers the selected text; "" when nothing is selected
	Selection(cb func(text string))
	FollowSelected(tab bool) error
}

// Element is a DOM element handle. It may become orphaned at any time;
// operations then return ErrOrphaned.
type Element interface {
	IsEditable() bool
	Value() (string, error)
	SetValue(text string) error
	InsertText(text string) error
	Click(target ClickTarget, forceEvent bool) error
	CaretPosition() int
}

// Elements looks up elements on the page. Callbacks receive nil when no
// element matched.
type Elements interface {
	FindFocused(cb func(Element))
	FindID(id string, cb func(Element))
}

// Audio is a tab's audio state
type Audio interface {
	Muted() bool
	ToggleMuted() error
}

// Printing prints a tab
type Printing interface {
	CheckPreviewSupport() error
	CheckPDFSupport() error
	ToPDF(path string) error
	ShowDialog() error
}

// Action exposes backend page actions
type Action interface {
	ShowSource(highlight bool) error
	ExitFullscreen() error
	Run(name string) error
}

// Container owns the ordered tabs of one window
type Container interface {
	WindowID() int
	Private() bool
	Count() int
	CurrentIndex() int
	SetCurrentIndex(idx int)
	Current() Tab
	TabAt(idx int) Tab
	IndexOf(t Tab) int
	PageTitle(idx int) string
	SetPageTitle(idx int, title string)

	// Open opens a new tab for the URL; a nil URL opens an empty tab
	Open(u *url.URL, background, related bool) Tab
	Close(t Tab, opts CloseOptions)
	Undo() error
	Move(from, to int)
	SetTabPinned(t Tab, pinned bool)

	// LastFocused returns the previously focused tab, or nil
	LastFocused() Tab

	// Per-window search continuation state
	SetSearchState(text string, opts SearchOptions)
	SearchState() (text string, opts SearchOptions, ok bool)

	// Marks store scroll positions under single-character keys;
	// a capital key selects the global, cross-window scope
	SetMark(key rune) error
	JumpMark(key rune) error

	// Fullscreen toggles the window's fullscreen state
	Fullscreen() error
}

// WindowRegistry tracks all open windows
type WindowRegistry interface {
	WindowIDs() []int
	// Window returns the window with the given id, nil when unknown
	Window(id int) Container
	Active() Container
	NewWindow(private bool) Container
	// Raise makes the window with the given id the active one
	Raise(id int)
	// Tabs enumerates every tab of every window for cross-window match
	Tabs() []domain.TabInfo
}

// DownloadOptions control a download
type DownloadOptions struct {
	// Dest is the target path; "" asks the manager to pick one
	Dest string
	// SuggestedName is used when Dest is empty
	SuggestedName string
}

// DownloadManager fetches URLs or archives pages
type DownloadManager interface {
	Get(u *url.URL, opts DownloadOptions) error
	GetMHTML(t Tab, dest string) error
}
