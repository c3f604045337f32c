package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the overlap exclusion constraint and the indexes
// backing the reservation overlap and sweep queries
func MigrateConstraints(db *gorm.DB) error {
	// The exclusion constraint rejects two live reservations for the same
	// seat with overlapping [start, end) windows, backstopping the
	// in-memory seat index at the database level.
	err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist;`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_seat_overlap'
			) THEN
				ALTER TABLE reservations
				ADD CONSTRAINT reservations_no_seat_overlap
				EXCLUDE USING gist (
					seat_id WITH =,
					tstzrange(start_time, end_time) WITH &&
				) WHERE (status IN ('PENDING', 'ACTIVE'));
			END IF;
		END
		$$;
	`).Error
	if err != nil {
		return err
	}

	// Overlap checks scan live reservations per seat ordered by window start
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_seat_live
		ON reservations (seat_id, start_time)
		WHERE status IN ('PENDING', 'ACTIVE');
	`).Error
	if err != nil {
		return err
	}

	// Sweep queries select PENDING past the check-in deadline and ACTIVE past end
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_status_start
		ON reservations (status, start_time);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_status_end
		ON reservations (status, end_time);
	`).Error
	if err != nil {
		return err
	}

	// User history listings
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_user_created
		ON reservations (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
