package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigrateAndPing(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	gdb, err := Open("sqlite", dsn)
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable("users"))
	assert.True(t, gdb.Migrator().HasTable("events"))
	assert.True(t, gdb.Migrator().HasTable("rsvps"))
	assert.NoError(t, Ping(context.Background(), gdb))

	require.NoError(t, Reset(gdb))
	assert.False(t, gdb.Migrator().HasTable("rsvps"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.Error(t, err)
}
