package service

import (
	"time"

	"orderflow/internal/order/models"
)

// mergeNotes reconciles a client-submitted note list against the stored one.
// Entries align by position: an unmodified entry with a stored counterpart
// keeps its content, author, and timestamp; anything else (marked modified,
// or beyond the stored list) is stamped with the caller and the current
// time. The result always has exactly len(in) entries.
func mergeNotes(old []models.Note, in []models.NoteInput, callerID string, now time.Time) []models.Note {
	merged := make([]models.Note, 0, len(in))
	for i, input := range in {
		if !input.IsModified && i < len(old) {
			merged = append(merged, old[i])
			continue
		}
		merged = append(merged, models.Note{
			Content:   input.Content,
			AuthorID:  callerID,
			UpdatedAt: now,
		})
	}
	return merged
}
