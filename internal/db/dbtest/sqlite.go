// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/db"
)

var seq atomic.Int64

// NewSQLite returns a migrated in-memory database private to the test.
// A single connection is kept so every goroutine sees the same memory DB.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:agenda_%d?mode=memory&cache=shared&_foreign_keys=0", seq.Add(1))
	gdb, err := db.Open(sqlite.Open(dsn), zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}
