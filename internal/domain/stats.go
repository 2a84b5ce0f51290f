package domain

import (
	"encoding/json"
	"time"
)

// DailyStat строка отчета по дням (по дате первого визита)
type DailyStat struct {
	Date           string `gorm:"column:date" json:"date"`
	UniqueVisitors int64  `gorm:"column:unique_visitors" json:"unique_visitors"`
	TotalVisits    int64  `gorm:"column:total_visits" json:"total_visits"`
	HumanVisitors  int64  `gorm:"column:human_visitors" json:"human_visitors"`
}

// PageStat строка отчета по популярным страницам
type PageStat struct {
	PageURL        string `gorm:"column:page_url" json:"page_url"`
	PageTitle      string `gorm:"column:page_title" json:"page_title"`
	Views          int64  `gorm:"column:views" json:"views"`
	UniqueVisitors int64  `gorm:"column:unique_visitors" json:"unique_visitors"`
}

// FunnelStat строка отчета по воронке конверсий
type FunnelStat struct {
	FunnelStep string `gorm:"column:funnel_step" json:"funnel_step"`
	Users      int64  `gorm:"column:users" json:"users"`
	Events     int64  `gorm:"column:events" json:"events"`
}

// EventStat строка отчета по популярным событиям
type EventStat struct {
	EventType   string  `gorm:"column:event_type" json:"event_type"`
	EventAction *string `gorm:"column:event_action" json:"event_action"`
	EventCount  int64   `gorm:"column:event_count" json:"event_count"`
	UniqueUsers int64   `gorm:"column:unique_users" json:"unique_users"`
}

// FeatureStat строка отчета по использованию фич
type FeatureStat struct {
	FeatureName     string  `gorm:"column:feature_name" json:"feature_name"`
	UniqueUsers     int64   `gorm:"column:unique_users" json:"unique_users"`
	TotalUsage      int64   `gorm:"column:total_usage" json:"total_usage"`
	AvgUsagePerUser float64 `gorm:"column:avg_usage_per_user" json:"avg_usage_per_user"`
}

// RecentEventStat событие за последний час с количеством
type RecentEventStat struct {
	EventType   string  `gorm:"column:event_type" json:"event_type"`
	EventAction *string `gorm:"column:event_action" json:"event_action"`
	Count       int64   `gorm:"column:count" json:"count"`
}

// TodayStats сводка по посетителям, впервые пришедшим сегодня (UTC)
type TodayStats struct {
	UniqueVisitors int64 `gorm:"column:unique_visitors" json:"unique_visitors"`
	TotalVisits    int64 `gorm:"column:total_visits" json:"total_visits"`
	Conversions    int64 `gorm:"column:conversions" json:"conversions"`
}

// RealtimeSnapshot снимок активности в реальном времени
type RealtimeSnapshot struct {
	ActiveVisitors int64             `json:"activeVisitors"`
	Today          TodayStats        `json:"today"`
	RecentEvents   []RecentEventStat `json:"recentEvents"`
}

// EventRecord событие с раскодированными метаданными для просмотра сырых данных
type EventRecord struct {
	ID            string         `gorm:"column:id" json:"id"`
	VisitorID     string         `gorm:"column:visitor_id" json:"visitor_id"`
	SessionID     string         `gorm:"column:session_id" json:"session_id"`
	EventType     string         `gorm:"column:event_type" json:"event_type"`
	EventCategory *string        `gorm:"column:event_category" json:"event_category,omitempty"`
	EventAction   *string        `gorm:"column:event_action" json:"event_action,omitempty"`
	EventLabel    *string        `gorm:"column:event_label" json:"event_label,omitempty"`
	EventValue    *float64       `gorm:"column:event_value" json:"event_value,omitempty"`
	PageURL       *string        `gorm:"column:page_url" json:"page_url,omitempty"`
	RawMetadata   *string        `gorm:"column:metadata" json:"-"`
	Metadata      any            `gorm:"-" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"timestamp"`
}

// DecodeMetadata заполняет Metadata из сохраненного JSON текста (любое JSON значение)
func (e *EventRecord) DecodeMetadata() error {
	if e.RawMetadata == nil || *e.RawMetadata == "" {
		return nil
	}
	return json.Unmarshal([]byte(*e.RawMetadata), &e.Metadata)
}
