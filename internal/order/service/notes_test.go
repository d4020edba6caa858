package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/order/models"
)

func TestMergeNotes(t *testing.T) {
	stamped := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC)
	old := []models.Note{
		{Content: "call before delivery", AuthorID: "acc-a", UpdatedAt: stamped},
		{Content: "gate code 4471", AuthorID: "acc-b", UpdatedAt: stamped},
	}

	t.Run("unmodified entries reproduce stored notes exactly", func(t *testing.T) {
		merged := mergeNotes(old, []models.NoteInput{
			{Content: "call before delivery"},
			{Content: "gate code 4471"},
		}, "acc-c", now)
		assert.Equal(t, old, merged)
	})

	t.Run("modified entry gets fresh author and timestamp", func(t *testing.T) {
		merged := mergeNotes(old, []models.NoteInput{
			{Content: "call before delivery"},
			{Content: "gate code changed to 9902", IsModified: true},
		}, "acc-c", now)
		require.Len(t, merged, 2)
		assert.Equal(t, old[0], merged[0])
		assert.Equal(t, models.Note{Content: "gate code changed to 9902", AuthorID: "acc-c", UpdatedAt: now}, merged[1])
	})

	t.Run("entries beyond the stored list are always new", func(t *testing.T) {
		merged := mergeNotes(old, []models.NoteInput{
			{Content: "call before delivery"},
			{Content: "gate code 4471"},
			{Content: "leave at reception"},
		}, "acc-c", now)
		require.Len(t, merged, 3)
		assert.Equal(t, "acc-c", merged[2].AuthorID)
		assert.Equal(t, now, merged[2].UpdatedAt)
	})

	t.Run("output length always equals input length", func(t *testing.T) {
		merged := mergeNotes(old, []models.NoteInput{{Content: "only one"}}, "acc-c", now)
		assert.Len(t, merged, 1)

		merged = mergeNotes(old, []models.NoteInput{}, "acc-c", now)
		assert.NotNil(t, merged)
		assert.Empty(t, merged)
	})

	t.Run("empty stored list stamps everything", func(t *testing.T) {
		merged := mergeNotes(nil, []models.NoteInput{{Content: "first note"}}, "acc-c", now)
		require.Len(t, merged, 1)
		assert.Equal(t, "acc-c", merged[0].AuthorID)
	})
}
