package service

import (
	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// validateRosterEntries checks that a batch names every student at most once
// and only students on the roster. It returns the roster indexed by id.
func validateRosterEntries(roster []models.Student, entryIDs []uint) (map[uint]models.Student, error) {
	enrolled := make(map[uint]models.Student, len(roster))
	for _, student := range roster {
		enrolled[student.ID] = student
	}

	seen := make(map[uint]struct{}, len(entryIDs))
	duplicates := make([]uint, 0)
	outsiders := make([]uint, 0)
	for _, id := range entryIDs {
		if _, ok := seen[id]; ok {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = struct{}{}
		if _, ok := enrolled[id]; !ok {
			outsiders = append(outsiders, id)
		}
	}

	if len(duplicates) > 0 {
		return nil, &EntriesError{Err: ErrDuplicateEntry, StudentIDs: duplicates}
	}
	if len(outsiders) > 0 {
		return nil, &EntriesError{Err: ErrNotEnrolled, StudentIDs: outsiders}
	}
	return enrolled, nil
}
