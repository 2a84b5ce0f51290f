package domain

import "time"

// FeatureUsage счетчик использования фичи посетителем (одна строка на пару visitor/feature)
type FeatureUsage struct {
	ID          string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	VisitorID   string    `gorm:"column:visitor_id;size:36;not null;uniqueIndex:idx_feature_usage_visitor_feature" json:"visitor_id"`
	FeatureName string    `gorm:"column:feature_name;type:text;not null;uniqueIndex:idx_feature_usage_visitor_feature" json:"feature_name"`
	UsageCount  int64     `gorm:"column:usage_count;not null;default:1" json:"usage_count"`
	LastUsed    time.Time `gorm:"column:last_used;not null" json:"last_used"`
}

// TableName возвращает название таблицы для GORM
func (FeatureUsage) TableName() string {
	return "feature_usage"
}
