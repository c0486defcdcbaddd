package wordcount

import (
	"strconv"

	"wordmeter/internal/models"
)

// Aggregate sums the word changes of every patched file in a commit. Files
// without a patch, such as binaries or pure renames, are skipped.
func Aggregate(diff models.CommitDiff) models.CommitRecord {
	var total models.WordCount
	for _, file := range diff.Files {
		if file.Patch == nil {
			continue
		}

		total = total.Add(ScanPatch(*file.Patch))
	}

	return models.CommitRecord{
		Timestamp: strconv.FormatInt(diff.CommittedAt.UnixMilli(), 10),
		SHA:       diff.SHA,
		WordCount: total,
	}
}

// AggregateAll runs Aggregate over every diff, keeping their order.
func AggregateAll(diffs []models.CommitDiff) []models.CommitRecord {
	records := make([]models.CommitRecord, 0, len(diffs))
	for _, diff := range diffs {
		records = append(records, Aggregate(diff))
	}

	return records
}
