package service

import (
	"EquiSplit-Backend/internal/domain"
	"EquiSplit-Backend/internal/repository"
	"EquiSplit-Backend/pkg/useragent"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver(t *testing.T, store repository.Adapter, clock *testClock) *VisitorResolver {
	t.Helper()
	parser, err := useragent.NewParser("", zap.NewNop())
	require.NoError(t, err)
	return NewVisitorResolver(store, parser, zap.NewNop(), WithClock(clock.Now))
}

func TestVisitorResolver_NewSessionCreatesOneVisitor(t *testing.T) {
	db, store := newTestDB(t)
	clock := newTestClock()
	r := newTestResolver(t, store, clock)

	out := r.Resolve(context.Background(), VisitorInput{
		SessionID:   "session-1",
		IPAddress:   "203.0.113.7",
		UserAgent:   macChromeUA,
		Referrer:    "https://news.ycombinator.com/",
		LandingPage: "/calculator?ref=hn",
	})

	require.False(t, out.Degraded())
	assert.True(t, out.Value.Created)
	_, err := uuid.Parse(out.Value.VisitorID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, "visitors"))

	var v domain.Visitor
	require.NoError(t, db.First(&v, "session_id = ?", "session-1").Error)
	assert.Equal(t, out.Value.VisitorID, v.ID)
	assert.Equal(t, int64(1), v.TotalVisits)
	assert.Equal(t, "203.0.113.7", v.IPAddress)
	assert.Equal(t, "/calculator?ref=hn", v.LandingPage)
	assert.Equal(t, "https://news.ycombinator.com/", v.Referrer)
	assert.False(t, v.IsBot)
	assert.Equal(t, "Chrome", v.Browser)
	assert.Equal(t, "desktop", v.DeviceType)
	assert.True(t, clock.Now().Equal(v.FirstVisit))
	assert.True(t, clock.Now().Equal(v.LastVisit))
}

func TestVisitorResolver_ReobservationIncrementsVisits(t *testing.T) {
	db, store := newTestDB(t)
	clock := newTestClock()
	r := newTestResolver(t, store, clock)
	ctx := context.Background()
	firstSeen := clock.Now()

	first := r.Resolve(ctx, VisitorInput{SessionID: "session-1", UserAgent: macChromeUA, IPAddress: "10.0.0.1"})
	require.False(t, first.Degraded())

	for i := 0; i < 4; i++ {
		clock.Advance(time.Minute)
		out := r.Resolve(ctx, VisitorInput{SessionID: "session-1", UserAgent: googlebotUA, IPAddress: "10.0.0.2"})
		require.False(t, out.Degraded())
		assert.False(t, out.Value.Created)
		assert.Equal(t, first.Value.VisitorID, out.Value.VisitorID)
	}

	assert.Equal(t, int64(1), countRows(t, db, "visitors"))

	var v domain.Visitor
	require.NoError(t, db.First(&v, "id = ?", first.Value.VisitorID).Error)
	assert.Equal(t, int64(5), v.TotalVisits)
	assert.True(t, firstSeen.Equal(v.FirstVisit), "first_visit must not change")
	assert.True(t, clock.Now().Equal(v.LastVisit), "last_visit must be refreshed")
	// identity fields stay as captured at creation
	assert.Equal(t, macChromeUA, v.UserAgent)
	assert.Equal(t, "10.0.0.1", v.IPAddress)
	assert.False(t, v.IsBot)
}

func TestVisitorResolver_BotClassification(t *testing.T) {
	db, store := newTestDB(t)
	r := newTestResolver(t, store, newTestClock())
	ctx := context.Background()

	bot := r.Resolve(ctx, VisitorInput{SessionID: "bot-session", UserAgent: googlebotUA})
	human := r.Resolve(ctx, VisitorInput{SessionID: "human-session", UserAgent: macChromeUA})
	require.False(t, bot.Degraded())
	require.False(t, human.Degraded())

	var botRow, humanRow domain.Visitor
	require.NoError(t, db.First(&botRow, "id = ?", bot.Value.VisitorID).Error)
	require.NoError(t, db.First(&humanRow, "id = ?", human.Value.VisitorID).Error)

	assert.True(t, botRow.IsBot)
	assert.Equal(t, "bot", botRow.DeviceType)
	assert.False(t, humanRow.IsBot)
}

func TestVisitorResolver_WithoutParserUsesPatterns(t *testing.T) {
	db, store := newTestDB(t)
	r := NewVisitorResolver(store, nil, zap.NewNop())

	out := r.Resolve(context.Background(), VisitorInput{SessionID: "s", UserAgent: "Twitterbot/1.0"})
	require.False(t, out.Degraded())

	var v domain.Visitor
	require.NoError(t, db.First(&v, "id = ?", out.Value.VisitorID).Error)
	assert.True(t, v.IsBot)
	assert.Equal(t, "unknown", v.Browser)
}

func TestVisitorResolver_MissingSession(t *testing.T) {
	db, store := newTestDB(t)
	r := newTestResolver(t, store, newTestClock())

	a := r.Resolve(context.Background(), VisitorInput{UserAgent: macChromeUA})
	b := r.Resolve(context.Background(), VisitorInput{UserAgent: macChromeUA})

	assert.True(t, a.Degraded())
	assert.ErrorIs(t, a.Err, ErrMissingSession)
	assert.NotEmpty(t, a.Value.VisitorID)
	assert.NotEqual(t, a.Value.VisitorID, b.Value.VisitorID)
	assert.Zero(t, countRows(t, db, "visitors"))
}

func TestVisitorResolver_StorageFailure(t *testing.T) {
	t.Run("lookup_fails", func(t *testing.T) {
		store := failingAdapter()
		r := newTestResolver(t, store, newTestClock())

		a := r.Resolve(context.Background(), VisitorInput{SessionID: "s1"})
		b := r.Resolve(context.Background(), VisitorInput{SessionID: "s1"})

		require.True(t, a.Degraded())
		assert.ErrorIs(t, a.Err, errStorageDown)
		assert.False(t, a.Value.Created)
		_, err := uuid.Parse(a.Value.VisitorID)
		assert.NoError(t, err)
		assert.NotEqual(t, a.Value.VisitorID, b.Value.VisitorID, "fallback ids are never reused")
		store.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insert_fails", func(t *testing.T) {
		store := &mockAdapter{}
		store.On("GetOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		store.On("Exec", mock.Anything, mock.MatchedBy(func(q string) bool { return len(q) > 0 }), mock.Anything).
			Return(int64(0), errStorageDown)
		r := newTestResolver(t, store, newTestClock())

		out := r.Resolve(context.Background(), VisitorInput{SessionID: "s1"})

		require.True(t, out.Degraded())
		assert.ErrorIs(t, out.Err, errStorageDown)
		assert.Contains(t, out.Err.Error(), "failed to create visitor")
		store.AssertNumberOfCalls(t, "Exec", 1)
	})

	t.Run("no_adapter", func(t *testing.T) {
		r := NewVisitorResolver(nil, nil, zap.NewNop())

		out := r.Resolve(context.Background(), VisitorInput{SessionID: "s1"})

		assert.ErrorIs(t, out.Err, repository.ErrNoAdapter)
		assert.NotEmpty(t, out.Value.VisitorID)
	})
}
