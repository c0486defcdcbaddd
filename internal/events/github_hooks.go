package events

import "wordmeter/internal/models"

const (
	ActionPushReceived  = "github.push.received"
	ActionCommitCounted = "github.commit.counted"
)

// PushReceived records an authenticated push delivery.
func (e *Emitter) PushReceived(deliveryID, repository, ref string, commits int) {
	e.Emit(models.Event{
		Action:     ActionPushReceived,
		DeliveryID: deliveryID,
		Repository: repository,
		Props: map[string]any{
			"ref":     ref,
			"commits": commits,
		},
	})
}

// CommitCounted records a saved word count.
func (e *Emitter) CommitCounted(deliveryID, repository string, record models.CommitRecord) {
	e.Emit(models.Event{
		Action:     ActionCommitCounted,
		DeliveryID: deliveryID,
		Repository: repository,
		SHA:        record.SHA,
		Props: map[string]any{
			"timestamp": record.Timestamp,
			"added":     record.WordCount.Added,
			"deleted":   record.WordCount.Deleted,
		},
	})
}
