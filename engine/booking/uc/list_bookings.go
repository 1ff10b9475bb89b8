package uc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/core"
)

// Comparison operators accepted for time-bound filters.
var validOps = map[string]struct{}{
	">":  {},
	"<":  {},
	">=": {},
	"<=": {},
}

const (
	defaultStartOp = ">="
	defaultEndOp   = "<="
)

// FilterParams carries the raw, untrusted query parameters of a booking
// list request. Empty strings mean "not provided".
type FilterParams struct {
	UserID      string
	RoomID      string
	StartTime   string
	StartTimeOp string
	EndTime     string
	EndTimeOp   string
	Limit       string
}

// ListBookings use case translating validated filters into an ordered read.
// Every predicate is applied as a bound parameter by the repository; this
// layer only decides which predicates exist.
type ListBookings struct {
	repo   Repository
	params FilterParams
}

// NewListBookings creates a new list bookings use case
func NewListBookings(repo Repository, params FilterParams) *ListBookings {
	return &ListBookings{repo: repo, params: params}
}

// Execute validates the raw parameters and returns the matching bookings
// ordered by start_time ascending.
func (uc *ListBookings) Execute(ctx context.Context) ([]*model.Booking, error) {
	filter, err := uc.buildFilter()
	if err != nil {
		return nil, err
	}
	bookings, err := uc.repo.ListBookings(ctx, *filter)
	if err != nil {
		return nil, fmt.Errorf("%w: listing bookings: %v", core.ErrUnavailable, err)
	}
	return bookings, nil
}

// buildFilter validates every raw parameter, failing fast on the first
// offender rather than silently defaulting.
func (uc *ListBookings) buildFilter() (*Filter, error) {
	filter := &Filter{StartOp: defaultStartOp, EndOp: defaultEndOp}

	if uc.params.UserID != "" {
		id, err := core.ParseID(uc.params.UserID)
		if err != nil {
			return nil, core.NewInvalidFilter("user_id", "malformed id")
		}
		filter.UserID = &id
	}
	if uc.params.RoomID != "" {
		id, err := core.ParseID(uc.params.RoomID)
		if err != nil {
			return nil, core.NewInvalidFilter("room_id", "malformed id")
		}
		filter.RoomID = &id
	}

	start, err := parseTimeFilter(uc.params.StartTime, "start_time")
	if err != nil {
		return nil, err
	}
	filter.Start = start
	if uc.params.StartTimeOp != "" {
		if err := validateOp(uc.params.StartTimeOp, "start_time_op", start); err != nil {
			return nil, err
		}
		filter.StartOp = uc.params.StartTimeOp
	}

	end, err := parseTimeFilter(uc.params.EndTime, "end_time")
	if err != nil {
		return nil, err
	}
	filter.End = end
	if uc.params.EndTimeOp != "" {
		if err := validateOp(uc.params.EndTimeOp, "end_time_op", end); err != nil {
			return nil, err
		}
		filter.EndOp = uc.params.EndTimeOp
	}

	if uc.params.Limit != "" {
		limit, err := strconv.Atoi(uc.params.Limit)
		if err != nil {
			return nil, core.NewInvalidInput("limit", "must be an integer")
		}
		if limit < 0 {
			return nil, core.NewInvalidInput("limit", "must not be negative")
		}
		filter.Limit = &limit
	}
	return filter, nil
}

func parseTimeFilter(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, core.NewInvalidFilter(field, "must be an ISO-8601 timestamp")
	}
	return &t, nil
}

func validateOp(op, field string, bound *time.Time) error {
	if _, ok := validOps[op]; !ok {
		return core.NewInvalidFilter(field, fmt.Sprintf("unsupported operator %q", op))
	}
	if bound == nil {
		return core.NewInvalidFilter(field, "operator given without a time bound")
	}
	return nil
}
