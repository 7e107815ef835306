package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	if err := CreateKVTable(ctx, db); err != nil {
		return fmt.Errorf("creating kv table: %w", err)
	}

	if err := CreateBookingActivityTable(ctx, db); err != nil {
		return fmt.Errorf("creating booking activity table: %w", err)
	}

	return nil
}
