package models

import "time"

// CommitDiff is the part of a commit's full diff the word counter consumes.
type CommitDiff struct {
	SHA         string     `json:"sha"`
	CommittedAt time.Time  `json:"committedAt"`
	Files       []FileDiff `json:"files"`
}

// FileDiff holds one changed file. Patch is nil when the host sent none,
// which happens for binary files and pure renames.
type FileDiff struct {
	Filename string  `json:"filename"`
	Patch    *string `json:"patch,omitempty"`
}
