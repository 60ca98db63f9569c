package notes_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate-app/web-ui/internal/notes"
)

func newStore(t *testing.T) *notes.Store {
	t.Helper()
	store, err := notes.NewStore(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNoteRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.PutNote(ctx, notes.Note{
		UnitCode: "CSC231",
		Topic:    "Firewalls",
		Year:     "2024",
		Content:  "A firewall screens network traffic.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Note(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CSC231", got.UnitCode)
	assert.Equal(t, "Firewalls", got.Topic)

	all, err := store.Notes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = store.Note(ctx, "nope")
	assert.ErrorIs(t, err, notes.ErrNotFound)
}

func TestFindPaper(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutPaper(ctx, notes.Paper{UnitCode: "CSC231", Year: "2024", Content: "paper a"}))
	require.NoError(t, store.PutPaper(ctx, notes.Paper{UnitCode: "MAT101", Year: "2023", Content: "paper b"}))

	exact, err := store.FindPaper(ctx, "csc231", "2024")
	require.NoError(t, err)
	assert.Equal(t, "paper a", exact.Content)

	// Unit constraint relaxes when the code doesn't match any stored paper.
	relaxed, err := store.FindPaper(ctx, "PHY999", "2023")
	require.NoError(t, err)
	assert.Equal(t, "paper b", relaxed.Content)

	unitOnly, err := store.FindPaper(ctx, "MAT101", "")
	require.NoError(t, err)
	assert.Equal(t, "paper b", unitOnly.Content)

	_, err = store.FindPaper(ctx, "ZZZ000", "1999")
	assert.ErrorIs(t, err, notes.ErrNotFound)
}

func TestSearchRanksByOverlap(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.PutNote(ctx, notes.Note{UnitCode: "CSC231", Topic: "Crypto", Content: "Symmetric cryptography uses a shared key."})
	require.NoError(t, err)
	_, err = store.PutNote(ctx, notes.Note{UnitCode: "CSC231", Topic: "Firewalls", Content: "Firewalls filter packets with rule sets."})
	require.NoError(t, err)
	_, err = store.PutNote(ctx, notes.Note{UnitCode: "MAT101", Topic: "Calculus", Content: "Derivatives measure rates of change."})
	require.NoError(t, err)

	got, err := store.Search(ctx, "what is symmetric cryptography", 2)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Crypto", got[0].Topic)

	none, err := store.Search(ctx, "zebra migration", 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}
