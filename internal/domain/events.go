package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventTabOpened         EventType = "TabOpened"
	EventTabClosed         EventType = "TabClosed"
	EventTabMoved          EventType = "TabMoved"
	EventCurrentTabChanged EventType = "CurrentTabChanged"
	EventURLChanged        EventType = "URLChanged"
	EventMessageShown      EventType = "MessageShown"
	EventSearchWrapped     EventType = "SearchWrapped"
	EventMarkSet           EventType = "MarkSet"
	EventDownloadRequested EventType = "DownloadRequested"
	EventProcessStarted    EventType = "ProcessStarted"
	EventProcessFinished   EventType = "ProcessFinished"
	EventEditorFinished    EventType = "EditorFinished"
	EventError             EventType = "Error"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
	EventConfigChanged     EventType = "ConfigChanged"
	EventAppReady          EventType = "AppReady"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// TabOpenedEvent is emitted when a new tab is opened
type TabOpenedEvent struct {
	WindowID   int
	Index      int
	URL        string
	Background bool
}

func (e TabOpenedEvent) Type() EventType { return EventTabOpened }

// TabClosedEvent is emitted when a tab is closed
type TabClosedEvent struct {
	WindowID int
	Index    int
	URL      string
}

func (e TabClosedEvent) Type() EventType { return EventTabClosed }

// TabMovedEvent is emitted when a tab changes position inside its window
type TabMovedEvent struct {
	WindowID  int
	FromIndex int
	ToIndex   int
}

func (e TabMovedEvent) Type() EventType { return EventTabMoved }

// CurrentTabChangedEvent is emitted when the focused tab changes
type CurrentTabChangedEvent struct {
	WindowID int
	OldIndex int
	NewIndex int
}

func (e CurrentTabChangedEvent) Type() EventType { return EventCurrentTabChanged }

// URLChangedEvent is emitted when the current tab navigates
type URLChangedEvent struct {
	WindowID int
	URL      string
}

func (e URLChangedEvent) Type() EventType { return EventURLChanged }

// MessageShownEvent carries a user-visible message
type MessageShownEvent struct {
	Level   MessageLevel
	Text    string
	Replace bool // replace the previous message of the same kind
}

func (e MessageShownEvent) Type() EventType { return EventMessageShown }

// SearchWrappedEvent is emitted when a page search wraps around
type SearchWrappedEvent struct {
	WindowID int
	AtBottom bool // true: hit bottom, continued at top
}

func (e SearchWrappedEvent) Type() EventType { return EventSearchWrapped }

// MarkSetEvent is emitted when a scroll-position mark is stored
type MarkSetEvent struct {
	WindowID int
	Key      rune
	Global   bool
}

func (e MarkSetEvent) Type() EventType { return EventMarkSet }

// DownloadRequestedEvent is emitted when a download is handed to the manager
type DownloadRequestedEvent struct {
	URL  string
	Dest string
}

func (e DownloadRequestedEvent) Type() EventType { return EventDownloadRequested }

// ProcessStartedEvent is emitted when an external process is spawned
type ProcessStartedEvent struct {
	Cmd  string
	Args []string
}

func (e ProcessStartedEvent) Type() EventType { return EventProcessStarted }

// ProcessFinishedEvent is emitted when a spawned process exits
type ProcessFinishedEvent struct {
	Cmd      string
	ExitCode int
	Err      error
}

func (e ProcessFinishedEvent) Type() EventType { return EventProcessFinished }

// EditorFinishedEvent is emitted when the external editor reports new text
type EditorFinishedEvent struct {
	Text string
}

func (e EditorFinishedEvent) Type() EventType { return EventEditorFinished }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when configuration was modified and
// needs to be persisted
type ConfigChangedEvent struct{}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }

// AppReadyEvent is emitted when the app is fully initialized and ready
type AppReadyEvent struct {
	HasExistingConfig bool
}

func (e AppReadyEvent) Type() EventType { return EventAppReady }
