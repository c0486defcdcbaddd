package wordcount

import (
	"strings"

	"wordmeter/internal/models"
)

// scanState holds the words seen since the last line that was not a deletion.
type scanState struct {
	deleted []string
	added   []string
}

// step folds one patch line into the state and returns its contribution.
func (s *scanState) step(line string) models.WordCount {
	var change models.WordCount

	switch {
	case strings.HasPrefix(line, "-"):
		s.deleted = append(s.deleted, Tokenize(line)...)
		return change
	case strings.HasPrefix(line, "+"):
		s.added = append(s.added, Tokenize(line)...)

		deleted, added := Count(s.deleted), Count(s.added)
		change.Deleted = NetNew(added, deleted)
		change.Added = NetNew(deleted, added)
	}

	// Anything but a deletion closes the current run, including the addition
	// that was just paired against it.
	s.deleted = s.deleted[:0]
	s.added = s.added[:0]

	return change
}

// ScanPatch estimates the words added and deleted by one file's unified diff.
//
// Each addition line is paired against the deletion lines directly before it.
// Only the first addition after a deletion run sees that run; later additions
// in the same block are paired against nothing and count fully as added.
func ScanPatch(patch string) models.WordCount {
	var (
		state scanState
		total models.WordCount
	)

	for _, line := range strings.Split(patch, "\n") {
		total = total.Add(state.step(line))
	}

	return total
}
