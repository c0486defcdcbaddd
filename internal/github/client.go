// Package github retrieves full commit diffs from the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wordmeter/internal/metrics"
	"wordmeter/internal/models"

	gh "github.com/google/go-github/v74/github"
)

const userAgent = "wordmeter"

// filesPerPage is the largest page GitHub serves for a commit's file list.
const filesPerPage = 100

// Client fetches commit diffs with a token credential.
type Client struct {
	gh *gh.Client
}

// NewClient builds a client against baseURL (the public API when empty).
func NewClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	client.UserAgent = userAgent

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		client.BaseURL = u
	}

	return &Client{gh: client}, nil
}

// FetchDiff returns the commit's committer date and every changed file,
// following file pagination on large commits.
func (c *Client) FetchDiff(ctx context.Context, owner, repo, sha string) (models.CommitDiff, error) {
	start := time.Now()
	defer func() { metrics.DiffFetchSeconds.Observe(time.Since(start).Seconds()) }()

	opts := &gh.ListOptions{PerPage: filesPerPage}

	var diff models.CommitDiff
	for {
		commit, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, sha, opts)
		if err != nil {
			return models.CommitDiff{}, fmt.Errorf("get commit %s/%s@%s: %w", owner, repo, sha, err)
		}

		if opts.Page == 0 {
			diff.SHA = commit.GetSHA()
			diff.CommittedAt = commit.GetCommit().GetCommitter().GetDate().Time
		}

		for _, file := range commit.Files {
			diff.Files = append(diff.Files, models.FileDiff{
				Filename: file.GetFilename(),
				Patch:    file.Patch,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return diff, nil
}
