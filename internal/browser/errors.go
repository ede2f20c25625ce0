package browser

import "errors"

// Error kinds shared by all backends. Callbacks and delegated calls
// report these so the command layer can turn them into user messages.
var (
	// ErrUnsupported means the backend cannot perform the operation
	ErrUnsupported = errors.New("operation not supported by this backend")

	// ErrOrphaned means the target element or tab no longer exists
	ErrOrphaned = errors.New("target vanished")

	// ErrNoAnchor means the document has no such anchor
	ErrNoAnchor = errors.New("no such anchor")

	// ErrNoSelection means no text is currently selected
	ErrNoSelection = errors.New("nothing selected")

	// ErrNoMark means no mark is stored under the given key
	ErrNoMark = errors.New("no such mark")

	// ErrNothingToUndo means the undo stack of closed tabs is empty
	ErrNothingToUndo = errors.New("nothing to undo")
)
