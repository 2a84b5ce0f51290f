package domain

import (
	"time"

	"gorm.io/datatypes"
)

// UserEvent представляет произвольное событие, отправленное клиентом
type UserEvent struct {
	ID            string         `gorm:"primaryKey;column:id;size:36" json:"id"`
	VisitorID     string         `gorm:"column:visitor_id;size:36;not null;index" json:"visitor_id"`
	SessionID     string         `gorm:"column:session_id;type:text" json:"session_id"`
	EventType     string         `gorm:"column:event_type;type:text;not null;index" json:"event_type"`
	EventCategory *string        `gorm:"column:event_category;type:text" json:"event_category,omitempty"`
	EventAction   *string        `gorm:"column:event_action;type:text" json:"event_action,omitempty"`
	EventLabel    *string        `gorm:"column:event_label;type:text" json:"event_label,omitempty"`
	EventValue    *float64       `gorm:"column:event_value" json:"event_value,omitempty"`
	PageURL       *string        `gorm:"column:page_url;type:text" json:"page_url,omitempty"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null;index" json:"timestamp"`
}

// TableName возвращает название таблицы для GORM
func (UserEvent) TableName() string {
	return "user_events"
}
