package database

import (
	"EquiSplit-Backend/internal/config"
	"EquiSplit-Backend/internal/domain"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm/schema"
)

func sqliteConfig() *config.Database {
	return &config.Database{
		Driver:          "sqlite",
		SQLitePath:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxIdleConns:    1,
		MaxOpenConns:    10,
		ConnMaxLifetime: "not-a-duration",
	}
}

func TestNewConnection_SQLite(t *testing.T) {
	cfg := sqliteConfig()
	log := zap.NewNop()

	db, err := NewConnection(cfg, log)
	require.NoError(t, err)
	defer func() { _ = Close(db, log) }()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewConnection(&config.Database{Driver: "oracle"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestAutoMigrate(t *testing.T) {
	log := zap.NewNop()
	db, err := NewConnection(sqliteConfig(), log)
	require.NoError(t, err)
	defer func() { _ = Close(db, log) }()

	require.NoError(t, AutoMigrate(db, log))
	// повторный запуск не должен ломать схему
	require.NoError(t, AutoMigrate(db, log))

	for _, table := range []string{"visitors", "page_views", "user_events", "conversions", "feature_usage"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}
	assert.True(t, db.Migrator().HasIndex("feature_usage", "idx_feature_usage_visitor_feature"))
	assert.True(t, db.Migrator().HasColumn("page_views", "created_at"))
	assert.True(t, db.Migrator().HasColumn("visitors", "device_type"))
}

// Значения из заголовков и тела запроса не ограничены по длине,
// поэтому в PostgreSQL они не должны становиться varchar(N).
func TestModels_ClientColumnsAreText(t *testing.T) {
	columns := map[interface{}][]string{
		&domain.Visitor{}:      {"session_id", "ip_address", "user_agent", "referrer", "landing_page"},
		&domain.PageView{}:     {"session_id", "page_url"},
		&domain.UserEvent{}:    {"session_id", "event_type", "event_category", "event_action", "event_label", "page_url"},
		&domain.Conversion{}:   {"session_id", "funnel_step", "workspace_id"},
		&domain.FeatureUsage{}: {"feature_name"},
	}

	dialector := postgres.Dialector{}
	for model, names := range columns {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		for _, name := range names {
			field := s.LookUpField(name)
			require.NotNil(t, field, "%s.%s", s.Table, name)
			assert.Equal(t, "text", dialector.DataTypeOf(field), "%s.%s", s.Table, name)
		}
	}
}
