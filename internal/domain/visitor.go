package domain

import "time"

// Visitor представляет посетителя, идентифицированного по session_id
type Visitor struct {
	ID          string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	SessionID   string    `gorm:"column:session_id;type:text;not null;uniqueIndex" json:"session_id"`
	IPAddress   string    `gorm:"column:ip_address;type:text" json:"ip_address"`
	UserAgent   string    `gorm:"column:user_agent;type:text" json:"user_agent"`
	Referrer    string    `gorm:"column:referrer;type:text" json:"referrer"`
	LandingPage string    `gorm:"column:landing_page;type:text" json:"landing_page"`
	IsBot       bool      `gorm:"column:is_bot;not null;default:false" json:"is_bot"`
	Browser     string    `gorm:"column:browser;size:50" json:"browser"`
	OS          string    `gorm:"column:os;size:50" json:"os"`
	DeviceType  string    `gorm:"column:device_type;size:10" json:"device_type"` // 'desktop', 'mobile', 'tablet', 'bot', 'unknown'
	FirstVisit  time.Time `gorm:"column:first_visit;not null;index" json:"first_visit"`
	LastVisit   time.Time `gorm:"column:last_visit;not null" json:"last_visit"`
	TotalVisits int64     `gorm:"column:total_visits;not null;default:1" json:"total_visits"`
}

// TableName возвращает название таблицы для GORM
func (Visitor) TableName() string {
	return "visitors"
}
