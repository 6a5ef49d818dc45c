package engine

// Rect is a rectangle in view coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Point is a coordinate in view space.
type Point struct {
	X int
	Y int
}

// Range is a half-open [From, To) text range.
type Range struct {
	From int
	To   int
}

// ScreenInfo describes the virtual screen backing a windowless browser.
type ScreenInfo struct {
	DeviceScaleFactor float64
}

// PaintElementType identifies which layer a paint event targets.
type PaintElementType int

const (
	PaintView PaintElementType = iota
	PaintPopup
)

// CursorType enumerates the cursor shapes the engine can request.
type CursorType int

const (
	CursorPointer CursorType = iota
	CursorCross
	CursorHand
	CursorIBeam
	CursorWait
	CursorHelp
	CursorEastResize
	CursorNorthResize
	CursorNorthEastResize
	CursorNorthWestResize
	CursorSouthResize
	CursorSouthEastResize
	CursorSouthWestResize
	CursorWestResize
	CursorNorthSouthResize
	CursorEastWestResize
	CursorMove
	CursorNotAllowed
	CursorGrab
	CursorGrabbing
	CursorCustom CursorType = 43
)

// CustomCursorInfo carries pixel data for CursorCustom cursors. The buffer is
// only valid for the duration of the callback that delivers it.
type CustomCursorInfo struct {
	Hotspot          Point
	ImageScaleFactor float64
	Width            int
	Height           int
	Buffer           []byte
}

// LogSeverity is the level attached to page console messages.
type LogSeverity int

const (
	LogSeverityDefault LogSeverity = iota
	LogSeverityVerbose
	LogSeverityDebug
	LogSeverityInfo
	LogSeverityWarning
	LogSeverityError
	LogSeverityFatal
)

// FileDialogMode selects the kind of file dialog the page requested.
type FileDialogMode int

const (
	FileDialogOpen FileDialogMode = iota
	FileDialogOpenMultiple
	FileDialogOpenFolder
	FileDialogSave
)

// FileDialogRequest carries the parameters of a page-initiated file dialog.
type FileDialogRequest struct {
	Mode               FileDialogMode
	Title              string
	DefaultFilePath    string
	AcceptFilters      []string
	AcceptExtensions   []string
	AcceptDescriptions []string
}

// JSDialogType distinguishes alert, confirm and prompt dialogs.
type JSDialogType int

const (
	JSDialogAlert JSDialogType = iota
	JSDialogConfirm
	JSDialogPrompt
)

// TerminationStatus reports why a render process went away.
type TerminationStatus int

const (
	TerminationAbnormal TerminationStatus = iota
	TerminationCrashed
	TerminationKilled
	TerminationOOM
)

// MediaPermission is a bitmask of requested media capture capabilities.
type MediaPermission uint32

const (
	MediaPermissionNone         MediaPermission = 0
	MediaPermissionAudioCapture MediaPermission = 1 << 0
	MediaPermissionVideoCapture MediaPermission = 1 << 1
	MediaPermissionDesktopAudio MediaPermission = 1 << 2
	MediaPermissionDesktopVideo MediaPermission = 1 << 3
)

// MouseButton identifies a mouse button in input events.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
)

// KeyModifiers is the modifier bitmask carried by input events.
type KeyModifiers uint32

const (
	ModifierShift   KeyModifiers = 1 << 0
	ModifierControl KeyModifiers = 1 << 1
	ModifierAlt     KeyModifiers = 1 << 2
)

// MouseEvent is a pointer event in view coordinates.
type MouseEvent struct {
	X         int
	Y         int
	Modifiers KeyModifiers
}

// KeyEventType distinguishes raw key transitions from character input.
type KeyEventType int

const (
	KeyEventDown KeyEventType = iota
	KeyEventUp
	KeyEventChar
)

// KeyEvent is a keyboard event forwarded to the engine.
type KeyEvent struct {
	Type      KeyEventType
	KeyCode   int
	Character rune
	Modifiers KeyModifiers
}

// ContextMenuMediaType identifies the media element under a context menu.
type ContextMenuMediaType int

const (
	MediaTypeNone ContextMenuMediaType = iota
	MediaTypeImage
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeCanvas
	MediaTypeFile
	MediaTypePlugin
)

// ContextMenuParams describes the target of a context menu request. String
// fields are empty when the corresponding target is absent.
type ContextMenuParams struct {
	X                 int
	Y                 int
	TypeFlags         int
	LinkURL           string
	UnfilteredLinkURL string
	SourceURL         string
	HasImageContents  bool
	TitleText         string
	PageURL           string
	FrameURL          string
	MediaType         ContextMenuMediaType
	MediaStateFlags   int
	SelectionText     string
	IsEditable        bool
	EditStateFlags    int
}
