package domain

// MessageLevel classifies user-visible messages
type MessageLevel int

const (
	LevelInfo MessageLevel = iota
	LevelWarning
	LevelError
)

func (l MessageLevel) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// TabInfo is a read-only snapshot of one tab, used by views and
// cross-window tab matching
type TabInfo struct {
	WindowID int
	Index    int // 0-based position inside the window
	URL      string
	Title    string
	Pinned   bool
	Muted    bool
	Active   bool
}

// ScrollPos is a scroll position in document coordinates
type ScrollPos struct {
	X int
	Y int
}

// ScrollPerc is a scroll position as percentage of the document
type ScrollPerc struct {
	X int
	Y int
}
