package models

// WordCount is the estimated number of words added and deleted.
type WordCount struct {
	Added   int `json:"added" bson:"added"`
	Deleted int `json:"deleted" bson:"deleted"`
}

// Add returns the field-wise sum of both counts.
func (w WordCount) Add(other WordCount) WordCount {
	return WordCount{
		Added:   w.Added + other.Added,
		Deleted: w.Deleted + other.Deleted,
	}
}

// CommitRecord is the persisted word count of one commit, keyed by
// (timestamp, sha). Timestamp is the committer date in epoch milliseconds.
type CommitRecord struct {
	Timestamp string    `json:"timestamp" bson:"timestamp"`
	SHA       string    `json:"sha" bson:"sha"`
	WordCount WordCount `json:"wordCount" bson:"wordCount"`
}
