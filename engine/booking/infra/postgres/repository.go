package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/booking/uc"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/engine/infra/store"
)

const (
	roomColumns    = "id, name, capacity, created_at"
	bookingColumns = "id, room_id, user_id, start_time, end_time, notes, created_at"
)

// Repository implements the booking repository interface using PostgreSQL.
// The no-overlap invariant is enforced by the bookings_no_overlap exclusion
// constraint; the in-transaction availability re-check only produces the
// friendly conflict path for the common case.
type Repository struct {
	db store.DBInterface
}

// NewRepository creates a new booking repository
func NewRepository(db store.DBInterface) uc.Repository {
	return &Repository{db: db}
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id core.ID) (*model.Room, error) {
	query, args, err := squirrel.Select(roomColumns).
		From("rooms").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var room model.Room
	if err := pgxscan.Get(ctx, r.db, &room, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrRoomNotFound
		}
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	return &room, nil
}

// ListRooms retrieves all rooms ordered by name
func (r *Repository) ListRooms(ctx context.Context) ([]*model.Room, error) {
	query, args, err := squirrel.Select(roomColumns).
		From("rooms").
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var rooms []*model.Room
	if err := pgxscan.Select(ctx, r.db, &rooms, query, args...); err != nil {
		return nil, fmt.Errorf("scanning rooms: %w", err)
	}
	return rooms, nil
}

// overlapQuery builds the half-open interval probe
// (start_time < end AND end_time > start) for one room.
func overlapQuery(roomID core.ID, start, end time.Time, excludeBookingID core.ID) (string, []any, error) {
	qb := squirrel.Select("1").
		From("bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})
	if !excludeBookingID.IsZero() {
		qb = qb.Where(squirrel.NotEq{"id": excludeBookingID})
	}
	return qb.
		Prefix("SELECT EXISTS (").
		Suffix(")").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// IsAvailable reports whether no booking for the room overlaps [start, end)
func (r *Repository) IsAvailable(ctx context.Context, roomID core.ID, start, end time.Time, excludeBookingID core.ID) (bool, error) {
	query, args, err := overlapQuery(roomID, start, end, excludeBookingID)
	if err != nil {
		return false, fmt.Errorf("building overlap query: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking overlap: %w", err)
	}
	return !exists, nil
}

// CreateBooking inserts the booking with the availability re-check in the
// same transaction. A concurrent winner surfaces as an exclusion violation
// on the insert, which is translated to uc.ErrOverlap.
func (r *Repository) CreateBooking(ctx context.Context, booking *model.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	probe, probeArgs, err := overlapQuery(booking.RoomID, booking.StartTime, booking.EndTime, "")
	if err != nil {
		return fmt.Errorf("building overlap query: %w", err)
	}
	var exists bool
	if err := tx.QueryRow(ctx, probe, probeArgs...).Scan(&exists); err != nil {
		return fmt.Errorf("checking overlap: %w", translatePgError(err))
	}
	if exists {
		return uc.ErrOverlap
	}

	query, args, err := squirrel.Insert("bookings").
		Columns("id", "room_id", "user_id", "start_time", "end_time", "notes").
		Values(booking.ID, booking.RoomID, booking.UserID,
			booking.StartTime, booking.EndTime, booking.Notes).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&booking.CreatedAt); err != nil {
		return translatePgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translatePgError(err)
	}
	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id core.ID) (*model.Booking, error) {
	query, args, err := squirrel.Select(bookingColumns).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var booking model.Booking
	if err := pgxscan.Get(ctx, r.db, &booking, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, uc.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scanning booking: %w", err)
	}
	return &booking, nil
}

// DeleteBooking removes a booking by ID
func (r *Repository) DeleteBooking(ctx context.Context, id core.ID) error {
	query, args, err := squirrel.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uc.ErrBookingNotFound
	}
	return nil
}

// ListBookings applies the validated filter as bound predicates, ordered by
// start_time ascending with the limit applied after ordering.
func (r *Repository) ListBookings(ctx context.Context, filter uc.Filter) ([]*model.Booking, error) {
	qb := squirrel.Select(bookingColumns).
		From("bookings").
		OrderBy("start_time ASC")
	if filter.UserID != nil {
		qb = qb.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.RoomID != nil {
		qb = qb.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.Start != nil {
		pred, err := timePredicate("start_time", filter.StartOp, *filter.Start)
		if err != nil {
			return nil, err
		}
		qb = qb.Where(pred)
	}
	if filter.End != nil {
		pred, err := timePredicate("end_time", filter.EndOp, *filter.End)
		if err != nil {
			return nil, err
		}
		qb = qb.Where(pred)
	}
	if filter.Limit != nil {
		qb = qb.Limit(uint64(*filter.Limit))
	}
	query, args, err := qb.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var bookings []*model.Booking
	if err := pgxscan.Select(ctx, r.db, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("scanning bookings: %w", err)
	}
	return bookings, nil
}

// timePredicate maps a validated comparison operator onto a parameterized
// squirrel predicate. Operators never reach SQL as raw text.
func timePredicate(column, op string, bound time.Time) (squirrel.Sqlizer, error) {
	switch op {
	case ">":
		return squirrel.Gt{column: bound}, nil
	case ">=":
		return squirrel.GtOrEq{column: bound}, nil
	case "<":
		return squirrel.Lt{column: bound}, nil
	case "<=":
		return squirrel.LtOrEq{column: bound}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %q for %s", op, column)
	}
}

// translatePgError maps store-level constraint and concurrency failures to
// the repository's error contract.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation, pgerrcode.UniqueViolation:
			return uc.ErrOverlap
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return uc.ErrSerialization
		}
	}
	return err
}
