package uc

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/core"
)

// fakeRepo is an in-memory Repository. CreateBooking holds the lock across
// the availability check and the insert, mirroring the transactional
// atomicity of the real store.
type fakeRepo struct {
	mu       sync.Mutex
	rooms    map[core.ID]*model.Room
	bookings map[core.ID]*model.Booking

	createErr error
	listErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms:    make(map[core.ID]*model.Room),
		bookings: make(map[core.ID]*model.Booking),
	}
}

func (f *fakeRepo) addRoom(name string) core.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := core.MustNewID()
	f.rooms[id] = &model.Room{ID: id, Name: name, Capacity: 4, CreatedAt: time.Now()}
	return id
}

func (f *fakeRepo) GetRoom(_ context.Context, id core.ID) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeRepo) ListRooms(_ context.Context) ([]*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := make([]*model.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (f *fakeRepo) IsAvailable(
	_ context.Context,
	roomID core.ID,
	start, end time.Time,
	excludeBookingID core.ID,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isAvailableLocked(roomID, start, end, excludeBookingID), nil
}

func (f *fakeRepo) isAvailableLocked(roomID core.ID, start, end time.Time, exclude core.ID) bool {
	for _, b := range f.bookings {
		if b.RoomID != roomID || b.ID == exclude {
			continue
		}
		if b.Overlaps(start, end) {
			return false
		}
	}
	return true
}

func (f *fakeRepo) CreateBooking(_ context.Context, booking *model.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.isAvailableLocked(booking.RoomID, booking.StartTime, booking.EndTime, "") {
		return ErrOverlap
	}
	stored := *booking
	stored.CreatedAt = time.Now()
	f.bookings[booking.ID] = &stored
	booking.CreatedAt = stored.CreatedAt
	return nil
}

func (f *fakeRepo) GetBooking(_ context.Context, id core.ID) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeRepo) DeleteBooking(_ context.Context, id core.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeRepo) ListBookings(_ context.Context, filter Filter) ([]*model.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.Booking, 0)
	for _, b := range f.bookings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.RoomID != nil && b.RoomID != *filter.RoomID {
			continue
		}
		if filter.Start != nil && !timeMatches(b.StartTime, filter.StartOp, *filter.Start) {
			continue
		}
		if filter.End != nil && !timeMatches(b.EndTime, filter.EndOp, *filter.End) {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.Before(matched[j].StartTime)
	})
	if filter.Limit != nil && len(matched) > *filter.Limit {
		matched = matched[:*filter.Limit]
	}
	return matched, nil
}

func timeMatches(v time.Time, op string, bound time.Time) bool {
	switch op {
	case ">":
		return v.After(bound)
	case "<":
		return v.Before(bound)
	case ">=":
		return !v.Before(bound)
	case "<=":
		return !v.After(bound)
	default:
		return false
	}
}
