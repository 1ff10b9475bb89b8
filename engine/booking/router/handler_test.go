package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/auth"
	authmodel "github.com/meetly/meetly/engine/auth/model"
	authuc "github.com/meetly/meetly/engine/auth/uc"
	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/booking/uc"
	"github.com/meetly/meetly/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookie = "meetly_session"

// sessionRepo authenticates a fixed set of session tokens.
type sessionRepo struct {
	authuc.Repository

	users map[string]*authmodel.User
}

func (s *sessionRepo) GetUserBySessionToken(_ context.Context, token string) (*authmodel.User, error) {
	user, ok := s.users[token]
	if !ok {
		return nil, authuc.ErrSessionNotFound
	}
	return user, nil
}

// memRepo is an in-memory booking repository backing the HTTP tests.
type memRepo struct {
	mu       sync.Mutex
	rooms    map[core.ID]*model.Room
	bookings map[core.ID]*model.Booking
}

func newMemRepo() *memRepo {
	return &memRepo{
		rooms:    make(map[core.ID]*model.Room),
		bookings: make(map[core.ID]*model.Booking),
	}
}

func (m *memRepo) GetRoom(_ context.Context, id core.ID) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, uc.ErrRoomNotFound
	}
	return room, nil
}

func (m *memRepo) ListRooms(_ context.Context) ([]*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make([]*model.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func (m *memRepo) IsAvailable(_ context.Context, roomID core.ID, start, end time.Time, exclude core.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freeLocked(roomID, start, end, exclude), nil
}

func (m *memRepo) freeLocked(roomID core.ID, start, end time.Time, exclude core.ID) bool {
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.ID != exclude && b.Overlaps(start, end) {
			return false
		}
	}
	return true
}

func (m *memRepo) CreateBooking(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.freeLocked(booking.RoomID, booking.StartTime, booking.EndTime, "") {
		return uc.ErrOverlap
	}
	booking.CreatedAt = time.Now()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *memRepo) GetBooking(_ context.Context, id core.ID) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, uc.ErrBookingNotFound
	}
	return b, nil
}

func (m *memRepo) DeleteBooking(_ context.Context, id core.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return uc.ErrBookingNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memRepo) ListBookings(_ context.Context, filter uc.Filter) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*model.Booking, 0)
	for _, b := range m.bookings {
		if filter.RoomID != nil && b.RoomID != *filter.RoomID {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		matched = append(matched, b)
	}
	return matched, nil
}

type fixture struct {
	router *gin.Engine
	repo   *memRepo
	roomID core.ID
	alice  *authmodel.User
	bob    *authmodel.User
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemRepo()
	roomID := core.MustNewID()
	repo.rooms[roomID] = &model.Room{ID: roomID, Name: "Aurora", Capacity: 8}

	alice := &authmodel.User{ID: core.MustNewID(), Email: "alice@example.com"}
	bob := &authmodel.User{ID: core.MustNewID(), Email: "bob@example.com"}
	sessions := &sessionRepo{users: map[string]*authmodel.User{
		"alice-token": alice,
		"bob-token":   bob,
	}}

	mw := auth.NewMiddleware(sessions, testCookie)
	r := gin.New()
	api := r.Group("/api/v0")
	api.Use(mw.Resolve())
	RegisterRoutes(api, repo, mw)

	return &fixture{router: r, repo: repo, roomID: roomID, alice: alice, bob: bob}
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createBooking(t *testing.T, token string, start, end time.Time) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"room_id": %q, "start_time": %q, "end_time": %q}`,
		f.roomID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	return f.do(t, http.MethodPost, "/api/v0/bookings", token, body)
}

func TestBookingRoutes(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("Should create a booking and return 201", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.createBooking(t, "alice-token", base, base.Add(time.Hour))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var booking model.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
		assert.Equal(t, f.roomID, booking.RoomID)
		assert.Equal(t, f.alice.ID, booking.UserID)
	})

	t.Run("Should return 409 with details for a conflicting booking", func(t *testing.T) {
		f := setupFixture(t)
		require.Equal(t, http.StatusCreated,
			f.createBooking(t, "alice-token", base, base.Add(time.Hour)).Code)

		rec := f.createBooking(t, "bob-token", base.Add(30*time.Minute), base.Add(90*time.Minute))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already booked")
	})

	t.Run("Should return 201 for a back-to-back booking", func(t *testing.T) {
		f := setupFixture(t)
		require.Equal(t, http.StatusCreated,
			f.createBooking(t, "alice-token", base, base.Add(time.Hour)).Code)

		rec := f.createBooking(t, "bob-token", base.Add(time.Hour), base.Add(2*time.Hour))
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("Should return 401 for an unauthenticated create", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.createBooking(t, "", base, base.Add(time.Hour))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Should return 400 for an inverted interval", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.createBooking(t, "alice-token", base.Add(time.Hour), base)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should return 404 for an unknown room", func(t *testing.T) {
		f := setupFixture(t)
		body := fmt.Sprintf(`{"room_id": %q, "start_time": %q, "end_time": %q}`,
			core.MustNewID(), base.Format(time.RFC3339), base.Add(time.Hour).Format(time.RFC3339))
		rec := f.do(t, http.MethodPost, "/api/v0/bookings", "alice-token", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Should delete own booking and 403 on another user's", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.createBooking(t, "alice-token", base, base.Add(time.Hour))
		require.Equal(t, http.StatusCreated, rec.Code)
		var booking model.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))

		del := f.do(t, http.MethodDelete, "/api/v0/bookings/"+booking.ID.String(), "bob-token", "")
		assert.Equal(t, http.StatusForbidden, del.Code)

		del = f.do(t, http.MethodDelete, "/api/v0/bookings/"+booking.ID.String(), "alice-token", "")
		assert.Equal(t, http.StatusNoContent, del.Code)

		del = f.do(t, http.MethodDelete, "/api/v0/bookings/"+booking.ID.String(), "alice-token", "")
		assert.Equal(t, http.StatusNotFound, del.Code, "a deleted booking id is gone for everyone")
	})

	t.Run("Should return 400 for a malformed filter operator", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.do(t, http.MethodGet,
			"/api/v0/bookings?start_time=2026-03-10T09:00:00Z&start_time_op=XX", "alice-token", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation failed")
	})

	t.Run("Should return 400 for a negative limit", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.do(t, http.MethodGet, "/api/v0/bookings?limit=-1", "alice-token", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should serve the availability probe without a credential", func(t *testing.T) {
		f := setupFixture(t)
		require.Equal(t, http.StatusCreated,
			f.createBooking(t, "alice-token", base, base.Add(time.Hour)).Code)

		url := fmt.Sprintf("/api/v0/bookings/availability?room_id=%s&start_time=%s&end_time=%s",
			f.roomID,
			base.Add(30*time.Minute).Format(time.RFC3339),
			base.Add(90*time.Minute).Format(time.RFC3339))
		rec := f.do(t, http.MethodGet, url, "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"available": false}`, rec.Body.String())
	})

	t.Run("Should list rooms without a credential", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.do(t, http.MethodGet, "/api/v0/rooms", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var rooms []*model.Room
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
		assert.Len(t, rooms, 1)
	})
}
