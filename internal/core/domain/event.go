package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLevel is the severity of a notification
type NotificationLevel string

const (
	NotificationLevelSuccess NotificationLevel = "success"
	NotificationLevelError   NotificationLevel = "error"
)

// Notification is emitted once per terminal task transition
type Notification struct {
	Surface  Surface           `json:"surface"`
	Level    NotificationLevel `json:"level"`
	TaskID   uuid.UUID         `json:"task_id"`
	FileName string            `json:"file_name"`
	Message  string            `json:"message"`
	Mock     bool              `json:"mock"`
	At       time.Time         `json:"at"`
}
