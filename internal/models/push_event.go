package models

import (
	"errors"
	"strings"
)

// PushEvent models just the fields we rely on from a GitHub push hook.
type PushEvent struct {
	Ref        string         `json:"ref"`
	Commits    []PushCommit   `json:"commits"`
	Repository PushRepository `json:"repository"`
}

// PushCommit is one entry of the push's commit list.
type PushCommit struct {
	ID string `json:"id"`
}

// PushRepository identifies the repository the push landed in.
type PushRepository struct {
	FullName string `json:"full_name"`
}

// CommitIDs returns the pushed commit SHAs in push order.
func (p PushEvent) CommitIDs() []string {
	ids := make([]string, 0, len(p.Commits))
	for _, commit := range p.Commits {
		ids = append(ids, commit.ID)
	}

	return ids
}

// OwnerRepo splits repository.full_name into its owner and name parts.
func (p PushEvent) OwnerRepo() (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(p.Repository.FullName), "/")
	if !ok || owner == "" || repo == "" {
		return "", "", errors.New("repository full_name must be owner/repo")
	}

	return owner, repo, nil
}
