package dbstorage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewyi/blogsync/src/recordstore"
)

func newSqliteStorage(t *testing.T) *SimpleDBStorage {
	t.Helper()
	s, err := NewSimpleDBStorage(DriverSqlite3, filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSimpleDBStorage_UnsupportedDriver(t *testing.T) {
	_, err := NewSimpleDBStorage("mysql", "root@/blog")
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}

func TestSimpleDBStorage_ReadMissingDataset(t *testing.T) {
	s := newSqliteStorage(t)

	_, err := s.ReadAll(recordstore.DatasetArticles)
	assert.True(t, errors.Is(err, recordstore.ErrDatasetNotExist))

	ok, err := recordstore.HasData(s, recordstore.DatasetAuthors)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestSimpleDBStorage_AppendKeepsOrder verifies that rows come back in insertion order.
func TestSimpleDBStorage_AppendKeepsOrder(t *testing.T) {
	s := newSqliteStorage(t)
	first := []recordstore.Row{
		{"Tiered ranking", "https://blog.griddynamics.com/a/", "text", "2020-03-03", "Jane Doe", "Search"},
		{"Tiered ranking", "https://blog.griddynamics.com/a/", "text", "2020-03-03", "Jane Doe", "ML & AI"},
	}
	second := []recordstore.Row{
		{"Older", "https://blog.griddynamics.com/b/", "", "2020-02-28", "John Roe", ""},
	}

	require.NoError(t, s.AppendRows(recordstore.DatasetArticles, first))
	require.NoError(t, s.AppendRows(recordstore.DatasetArticles, second))

	rows, err := s.ReadAll(recordstore.DatasetArticles)
	require.NoError(t, err)
	assert.Equal(t, append(first, second...), rows)
}

func TestSimpleDBStorage_OverwriteAll(t *testing.T) {
	s := newSqliteStorage(t)
	require.NoError(t, s.AppendRows(recordstore.DatasetAuthors, []recordstore.Row{
		{"Jane Doe", "Engineer", "li", "tw", "3"},
	}))

	updated := []recordstore.Row{
		{"Jane Doe", "Engineer", "li", "tw", "4"},
		{"John Roe", "", "", "", "1"},
	}
	require.NoError(t, s.OverwriteAll(recordstore.DatasetAuthors, updated))

	rows, err := s.ReadAll(recordstore.DatasetAuthors)
	require.NoError(t, err)
	assert.Equal(t, updated, rows)
}

func TestSimpleDBStorage_OverwriteAllRejectsCorruptRows(t *testing.T) {
	s := newSqliteStorage(t)
	original := []recordstore.Row{{"Jane Doe", "Engineer", "li", "tw", "3"}}
	require.NoError(t, s.AppendRows(recordstore.DatasetAuthors, original))

	err := s.OverwriteAll(recordstore.DatasetAuthors, []recordstore.Row{
		{"Jane Doe", "Engineer", "li", "tw", "4"},
		{"John Roe", "", "", "", "one"},
	})
	assert.True(t, errors.Is(err, recordstore.ErrCorruptRow))

	rows, err := s.ReadAll(recordstore.DatasetAuthors)
	require.NoError(t, err)
	assert.Equal(t, original, rows)
}

// TestTransaction_RollbackOnClose verifies that an uncommitted delete is discarded.
func TestTransaction_RollbackOnClose(t *testing.T) {
	s := newSqliteStorage(t)
	original := []recordstore.Row{{"Jane Doe", "", "", "", "1"}}
	require.NoError(t, s.AppendRows(recordstore.DatasetAuthors, original))

	tx, err := s.NewTransaction()
	require.NoError(t, err)
	require.NoError(t, tx.DeleteAll(recordstore.DatasetAuthors))
	tx.Close()

	rows, err := s.ReadAll(recordstore.DatasetAuthors)
	require.NoError(t, err)
	assert.Equal(t, original, rows)
}
