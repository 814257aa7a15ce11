// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)

	id, err := s.SaveRun(Run{
		InputDigest: Digest("some references"),
		Style:       "ieee",
		Mode:        "standard",
		Records:     3,
		Verified:    2,
		BibTeX:      "@article{doe2020,\n}",
	})
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := s.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "ieee", got.Style)
	assert.Equal(t, "standard", got.Mode)
	assert.Equal(t, 3, got.Records)
	assert.Equal(t, 2, got.Verified)
	assert.Equal(t, "@article{doe2020,\n}", got.BibTeX)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetRun_Missing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(Run{InputDigest: Digest("x"), Style: "apa", Mode: "quick"})
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
}

func TestDigest_Stable(t *testing.T) {
	assert.Equal(t, Digest("abc"), Digest("abc"))
	assert.NotEqual(t, Digest("abc"), Digest("abd"))
	assert.Len(t, Digest("abc"), 16)
}
