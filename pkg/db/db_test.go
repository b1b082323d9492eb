package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenExisting(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenExisting(filepath.Join(dir, "missing", "journal.db"))
	assert.ErrorIs(t, err, ErrNoJournal)
	_, err = os.Stat(filepath.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(err))

	_, err = OpenExisting(dir)
	assert.Error(t, err, "directory")

	path := filepath.Join(dir, "journal.db")
	created, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, created.Close())

	d, err := OpenExisting(path)
	require.NoError(t, err)
	defer d.Close()
	n, err := d.CountTrades(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
