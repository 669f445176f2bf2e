package entity

import "time"

// LogEntry rolling log bufferidagi bitta yozuv
type LogEntry struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}
