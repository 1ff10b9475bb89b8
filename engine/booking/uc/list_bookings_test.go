package uc

import (
	"context"
	"testing"
	"time"

	"github.com/meetly/meetly/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBookings(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	seed := func(t *testing.T) (*fakeRepo, core.ID, core.ID, core.ID) {
		t.Helper()
		repo := newFakeRepo()
		roomA := repo.addRoom("Aurora")
		roomB := repo.addRoom("Borealis")
		alice := core.MustNewID()
		bob := core.MustNewID()

		for i, tc := range []struct {
			user core.ID
			room core.ID
			at   time.Time
		}{
			{alice, roomA, base},
			{bob, roomA, base.Add(2 * time.Hour)},
			{alice, roomB, base.Add(time.Hour)},
		} {
			_, err := NewCreateBooking(repo, tc.user, tc.room, tc.at, tc.at.Add(time.Hour), "").
				Execute(context.Background())
			require.NoError(t, err, "seed booking %d", i)
		}
		return repo, roomA, alice, bob
	}

	t.Run("Should list all bookings ordered by start time", func(t *testing.T) {
		repo, _, _, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{}).Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, bookings, 3)
		for i := 1; i < len(bookings); i++ {
			assert.False(t, bookings[i].StartTime.Before(bookings[i-1].StartTime))
		}
	})

	t.Run("Should filter by room id", func(t *testing.T) {
		repo, roomA, _, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{RoomID: roomA.String()}).
			Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		for _, b := range bookings {
			assert.Equal(t, roomA, b.RoomID)
		}
	})

	t.Run("Should filter by user id", func(t *testing.T) {
		repo, _, alice, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{UserID: alice.String()}).
			Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		for _, b := range bookings {
			assert.Equal(t, alice, b.UserID)
		}
	})

	t.Run("Should default start time comparison to at-or-after", func(t *testing.T) {
		repo, _, _, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{
			StartTime: base.Add(time.Hour).Format(time.RFC3339),
		}).Execute(context.Background())
		require.NoError(t, err)
		assert.Len(t, bookings, 2, "boundary booking must be included under >=")
	})

	t.Run("Should honor a strict after operator", func(t *testing.T) {
		repo, _, _, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{
			StartTime:   base.Add(time.Hour).Format(time.RFC3339),
			StartTimeOp: ">",
		}).Execute(context.Background())
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("Should combine filters conjunctively", func(t *testing.T) {
		repo, roomA, alice, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{
			UserID: alice.String(),
			RoomID: roomA.String(),
		}).Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, alice, bookings[0].UserID)
		assert.Equal(t, roomA, bookings[0].RoomID)
	})

	t.Run("Should truncate results to the limit", func(t *testing.T) {
		repo, _, _, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{Limit: "2"}).
			Execute(context.Background())
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})

	t.Run("Should accept a zero limit", func(t *testing.T) {
		repo, _, _, _ := seed(t)

		bookings, err := NewListBookings(repo, FilterParams{Limit: "0"}).
			Execute(context.Background())
		require.NoError(t, err)
		assert.Empty(t, bookings)
	})

	t.Run("Should reject invalid filters", func(t *testing.T) {
		repo, _, _, _ := seed(t)
		cases := []struct {
			name   string
			params FilterParams
			want   error
		}{
			{"unsupported operator", FilterParams{
				StartTime:   base.Format(time.RFC3339),
				StartTimeOp: "XX",
			}, core.ErrInvalidFilter},
			{"equality operator", FilterParams{
				EndTime:   base.Format(time.RFC3339),
				EndTimeOp: "=",
			}, core.ErrInvalidFilter},
			{"operator without bound", FilterParams{StartTimeOp: ">="}, core.ErrInvalidFilter},
			{"malformed start time", FilterParams{StartTime: "next tuesday"}, core.ErrInvalidFilter},
			{"malformed end time", FilterParams{EndTime: "2026-13-40"}, core.ErrInvalidFilter},
			{"malformed user id", FilterParams{UserID: "not-a-ksuid"}, core.ErrInvalidFilter},
			{"malformed room id", FilterParams{RoomID: "!!"}, core.ErrInvalidFilter},
			{"negative limit", FilterParams{Limit: "-1"}, core.ErrInvalidInput},
			{"non-numeric limit", FilterParams{Limit: "ten"}, core.ErrInvalidInput},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewListBookings(repo, tc.params).Execute(context.Background())
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("Should translate repository failures into unavailable", func(t *testing.T) {
		repo := newFakeRepo()
		repo.listErr = assert.AnError

		_, err := NewListBookings(repo, FilterParams{}).Execute(context.Background())
		assert.ErrorIs(t, err, core.ErrUnavailable)
	})
}
