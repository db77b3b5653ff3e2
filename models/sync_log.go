package models

import "time"

// LogLevel is the severity of a sync log entry.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// SyncLogEntry is one timestamped line of the persisted sync log.
type SyncLogEntry struct {
	At      time.Time `json:"at"`
	Level   LogLevel  `json:"level"`
	Message string    `json:"message"`
}

// LevelForStatus maps a sync event status onto a log level.
func LevelForStatus(status SyncStatus) LogLevel {
	switch status {
	case SyncStatusSuccess:
		return LogSuccess
	case SyncStatusConflict:
		return LogWarning
	case SyncStatusError:
		return LogError
	default:
		return LogInfo
	}
}
