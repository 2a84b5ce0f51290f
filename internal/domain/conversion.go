package domain

import "time"

// Conversion представляет прохождение шага воронки. Дубликаты не схлопываются.
type Conversion struct {
	ID          string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	VisitorID   string    `gorm:"column:visitor_id;size:36;not null;index" json:"visitor_id"`
	SessionID   string    `gorm:"column:session_id;type:text" json:"session_id"`
	FunnelStep  string    `gorm:"column:funnel_step;type:text;not null;index" json:"funnel_step"`
	WorkspaceID *string   `gorm:"column:workspace_id;type:text" json:"workspace_id,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index" json:"timestamp"`
}

// TableName возвращает название таблицы для GORM
func (Conversion) TableName() string {
	return "conversions"
}
