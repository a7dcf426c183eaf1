package wizard

import "time"

// Level is the severity of a Notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Notice is a transient, operation-level message such as "draft saved" or
// "submission failed". Field problems never become notices.
type Notice struct {
	Level   Level
	Message string
	At      time.Time
}
