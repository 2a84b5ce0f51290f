package service

import (
	"EquiSplit-Backend/internal/config"
	"EquiSplit-Backend/internal/database"
	"EquiSplit-Backend/internal/repository/gormstore"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	macChromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	googlebotUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

var errStorageDown = errors.New("storage down")

// testClock is a settable clock shared by the services under test.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Set(t time.Time) { c.t = t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestDB opens a private in-memory SQLite database with the tracking schema.
func newTestDB(t *testing.T) (*gorm.DB, *gormstore.Storage) {
	t.Helper()
	log := zap.NewNop()

	db, err := database.NewConnection(&config.Database{
		Driver:          "sqlite",
		SQLitePath:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: "1h",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db, log) })

	require.NoError(t, database.AutoMigrate(db, log))
	return db, gormstore.New(db, log)
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

// mockAdapter is a testify mock of repository.Adapter.
type mockAdapter struct {
	mock.Mock
}

func (m *mockAdapter) GetOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	ret := m.Called(ctx, dest, query, args)
	return ret.Bool(0), ret.Error(1)
}

func (m *mockAdapter) GetMany(ctx context.Context, dest any, query string, args ...any) error {
	ret := m.Called(ctx, dest, query, args)
	return ret.Error(0)
}

func (m *mockAdapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	ret := m.Called(ctx, query, args)
	return ret.Get(0).(int64), ret.Error(1)
}

// failingAdapter returns a mock on which every call fails.
func failingAdapter() *mockAdapter {
	m := &mockAdapter{}
	m.On("GetOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, errStorageDown)
	m.On("GetMany", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errStorageDown)
	m.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errStorageDown)
	return m
}
