package reservations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openDryRun builds a gorm session that renders SQL without touching a
// database, capturing the last query statement the repository emits.
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

func TestLockShowEmitsRowLock(t *testing.T) {
	db, captured := openDryRun(t)
	repo := NewRepository(db)

	repo.LockShow(context.Background(), uuid.New())

	// Without the lock, two concurrent transactions both pass the conflict
	// check and double-book the seats.
	require.Contains(t, *captured, "FOR UPDATE")
	require.Contains(t, *captured, `"shows"`)
}
