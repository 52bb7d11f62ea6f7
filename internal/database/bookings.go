package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharehub/internal/models"
)

// Booking reads join items and users so that every booking carries the item
// name, the booker name, and the item's owner id for authorization checks.
const bookingSelect = `
    SELECT b.id, b.item_id, i.name, i.owner_id, b.booker_id, u.name,
           b.start_date, b.end_date, b.status, b.created_at, b.updated_at, b.version
    FROM bookings b
    JOIN items i ON i.id = b.item_id
    JOIN users u ON u.id = b.booker_id`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at, version)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID, booking.BookerID, booking.Start, booking.End, booking.Status, now, now, 1,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := bookingSelect + ` WHERE b.id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusWithVersion transitions the booking's status only when
// the version still matches; a lost race yields ErrConcurrentModification.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// UpdateBookingDatesWithVersion rewrites the booking window and status under
// the same version discipline as status updates.
func (db *DB) UpdateBookingDatesWithVersion(ctx context.Context, id, fromVersion int64, start, end time.Time, status string) error {
	query := `UPDATE bookings SET start_date = ?, end_date = ?, status = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, start, end, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking dates: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// filterClause translates a booking list filter into SQL. The caller has
// already validated the filter name.
func filterClause(filter string, now time.Time) (string, []any) {
	switch filter {
	case models.FilterCurrent:
		return ` AND b.start_date < ? AND b.end_date > ? AND b.status IN (?, ?, ?)`,
			[]any{now, now, models.StatusApproved, models.StatusWaiting, models.StatusRejected}
	case models.FilterPast:
		return ` AND b.end_date < ? AND b.status = ?`, []any{now, models.StatusApproved}
	case models.FilterFuture:
		return ` AND b.start_date > ? AND b.status IN (?, ?)`,
			[]any{now, models.StatusApproved, models.StatusWaiting}
	case models.FilterWaiting:
		return ` AND b.status = ?`, []any{models.StatusWaiting}
	case models.FilterRejected:
		return ` AND b.status = ?`, []any{models.StatusRejected}
	default:
		return ``, nil
	}
}

func (db *DB) GetBookingsForBooker(ctx context.Context, bookerID int64, filter string, now time.Time, from, size int) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.booker_id = ?`
	args := []any{bookerID}

	clause, clauseArgs := filterClause(filter, now)
	query += clause
	args = append(args, clauseArgs...)

	query += ` ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	args = append(args, size, from)

	return db.queryBookings(ctx, query, args...)
}

func (db *DB) GetBookingsForOwner(ctx context.Context, ownerID int64, filter string, now time.Time, from, size int) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE i.owner_id = ?`
	args := []any{ownerID}

	clause, clauseArgs := filterClause(filter, now)
	query += clause
	args = append(args, clauseArgs...)

	query += ` ORDER BY b.start_date DESC LIMIT ? OFFSET ?`
	args = append(args, size, from)

	return db.queryBookings(ctx, query, args...)
}

// GetApprovedBookingsForOwnerItems returns every approved booking of every
// item the owner holds, in one query; the projector groups them by item so
// that listing cost follows the owner's booking count.
func (db *DB) GetApprovedBookingsForOwnerItems(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE i.owner_id = ? AND b.status = ? ORDER BY b.start_date`
	return db.queryBookings(ctx, query, ownerID, models.StatusApproved)
}

func (db *DB) GetApprovedBookingsForItem(ctx context.Context, itemID int64) ([]*models.Booking, error) {
	query := bookingSelect + ` WHERE b.item_id = ? AND b.status = ? ORDER BY b.start_date`
	return db.queryBookings(ctx, query, itemID, models.StatusApproved)
}

// HasPastApprovedBooking reports whether the booker has an approved booking
// of the item that has already started. Gates commenting.
func (db *DB) HasPastApprovedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE booker_id = ? AND item_id = ? AND status = ? AND start_date < ?`
	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, models.StatusApproved, now).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check past bookings: %w", err)
	}
	return count > 0, nil
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := bookingSelect + ` ORDER BY b.start_date`
	return db.queryBookings(ctx, query)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
