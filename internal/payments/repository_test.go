package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openDryRun(t *testing.T) (*gorm.DB, *string) {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var captured string
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	})
	require.NoError(t, err)

	return db, &captured
}

func TestLockReservationEmitsRowLock(t *testing.T) {
	db, captured := openDryRun(t)
	repo := NewRepository(db)

	repo.LockReservation(context.Background(), uuid.New())

	// Concurrent settlements for one reservation must serialize on its row
	// or two verify calls race to CONFIRMED.
	require.Contains(t, *captured, "FOR UPDATE")
	require.Contains(t, *captured, `"reservations"`)
}
