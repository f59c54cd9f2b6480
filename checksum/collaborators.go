package checksum

// Pattern: Strategy -- swap the front end without changing the
// generate/compare flow.

// Picker asks the user for paths. The bool result is false when the
// user cancels.
type Picker interface {
	SelectFile() (string, bool)
	ChooseSaveLocation(suggestedName string) (string, bool)
}

// Level classifies a user notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (lv Level) String() string {
	switch lv {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier delivers fire-and-forget messages to the user.
type Notifier interface {
	Notify(level Level, msg string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(level Level, msg string)

// Notify calls f.
func (f NotifierFunc) Notify(level Level, msg string) {
	f(level, msg)
}
