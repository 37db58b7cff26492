// Package ordering computes dense position assignments for ordered id
// lists. Positions are implied by slice index: callers persist index i
// as position i for each returned id. Target indexes are always clamped
// rather than rejected, and every operation renumbers the whole list —
// positions stay contiguous and human-debuggable at the cost of extra
// writes.
package ordering

// InsertAt splices newID into orderedIDs at targetIndex, clamped to
// [0, len(orderedIDs)]. Used for creation and for the destination side
// of a cross-column move.
func InsertAt(orderedIDs []string, newID string, targetIndex int) []string {
	idx := clamp(targetIndex, len(orderedIDs))

	result := make([]string, 0, len(orderedIDs)+1)
	result = append(result, orderedIDs[:idx]...)
	result = append(result, newID)
	result = append(result, orderedIDs[idx:]...)
	return result
}

// RemoveAndCompact drops removedID from orderedIDs, leaving the rest in
// their original relative order. Used for delete and for the source
// side of a cross-column move. If removedID is absent the input order
// is returned unchanged (as a copy).
func RemoveAndCompact(orderedIDs []string, removedID string) []string {
	result := make([]string, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if id != removedID {
			result = append(result, id)
		}
	}
	return result
}

// Reorder moves movedID to targetIndex within the same list, clamped to
// [0, len-1] — one less than InsertAt's upper bound, since the item
// stays in the list. If movedID is absent the input order is returned
// unchanged (as a copy).
func Reorder(orderedIDs []string, movedID string, targetIndex int) []string {
	without := RemoveAndCompact(orderedIDs, movedID)
	if len(without) == len(orderedIDs) {
		return without
	}
	return InsertAt(without, movedID, clamp(targetIndex, len(orderedIDs)-1))
}

func clamp(idx, max int) int {
	if idx < 0 {
		return 0
	}
	if idx > max {
		return max
	}
	return idx
}
