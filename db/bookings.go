package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jevinjosh/event-management/entity"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateBookingActivityTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS booking_activity (
		booking_id VARCHAR(64) PRIMARY KEY,
		event_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		event_title VARCHAR(255) NOT NULL,
		guest_count INTEGER NOT NULL,
		total_price INTEGER NOT NULL,
		status VARCHAR(16) NOT NULL,
		booked_at TIMESTAMP WITH TIME ZONE NOT NULL,
		cancelled_at TIMESTAMP WITH TIME ZONE
	);`)
	return err
}

type BookingActivity struct {
	BookingID   string     `db:"booking_id"`
	EventID     string     `db:"event_id"`
	UserID      string     `db:"user_id"`
	EventTitle  string     `db:"event_title"`
	GuestCount  int        `db:"guest_count"`
	TotalPrice  int        `db:"total_price"`
	Status      string     `db:"status"`
	BookedAt    time.Time  `db:"booked_at"`
	CancelledAt *time.Time `db:"cancelled_at"`
}

type BookingActivityRepo struct {
	db *sqlx.DB
}

func NewBookingActivityRepo(db *sqlx.DB) BookingActivityRepo {
	return BookingActivityRepo{
		db: db,
	}
}

func (r BookingActivityRepo) Add(ctx context.Context, booking entity.Booking) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO booking_activity
		(booking_id, event_id, user_id, event_title, guest_count, total_price, status, booked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT DO NOTHING;`,
		booking.ID, booking.EventID, booking.UserID, booking.EventTitle,
		booking.GuestCount, booking.TotalPrice, booking.Status, booking.CreatedAt)
	return err
}

func (r BookingActivityRepo) MarkCancelled(ctx context.Context, bookingID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE booking_activity
		SET status = $2, cancelled_at = $3
		WHERE booking_id = $1 AND cancelled_at IS NULL`,
		bookingID, entity.StatusCancelled, at)
	if err != nil {
		return fmt.Errorf("executing update query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n > 1 {
		return fmt.Errorf("unexpected exec result: %d rows affected", n)
	}

	return nil
}

func (r BookingActivityRepo) List(ctx context.Context) ([]BookingActivity, error) {
	var rows []BookingActivity
	err := r.db.SelectContext(ctx, &rows, `SELECT booking_id, event_id, user_id, event_title,
		guest_count, total_price, status, booked_at, cancelled_at
		FROM booking_activity ORDER BY booked_at`)
	if err != nil {
		return nil, fmt.Errorf("querying db: %w", err)
	}

	return rows, nil
}
