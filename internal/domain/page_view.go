package domain

import "time"

// PageView представляет просмотр страницы (не API) посетителем
type PageView struct {
	ID        string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	VisitorID string    `gorm:"column:visitor_id;size:36;not null;index" json:"visitor_id"`
	SessionID string    `gorm:"column:session_id;type:text" json:"session_id"`
	PageURL   string    `gorm:"column:page_url;type:text;not null" json:"page_url"`
	PageTitle string    `gorm:"column:page_title;size:255" json:"page_title"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"timestamp"`
}

// TableName возвращает название таблицы для GORM
func (PageView) TableName() string {
	return "page_views"
}

// UnknownPageTitle заголовок для страниц вне статической таблицы
const UnknownPageTitle = "Unknown Page"

var pageTitles = map[string]string{
	"/":           "Home",
	"/calculator": "Equity Calculator",
	"/report":     "Equity Report",
	"/dashboard":  "Analytics Dashboard",
}

// PageTitle возвращает заголовок страницы по пути (без query string)
func PageTitle(path string) string {
	if title, ok := pageTitles[path]; ok {
		return title
	}
	return UnknownPageTitle
}
