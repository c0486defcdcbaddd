package events

import (
	"context"
	"time"

	"wordmeter/internal/models"
)

// Emit stamps and queues evt. When the buffer is full the event is written
// synchronously instead of being dropped.
func (e *Emitter) Emit(evt models.Event) {
	if e == nil {
		return
	}

	evt.TimeStamp = time.Now().UTC()

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		_ = e.InsertOne(ctx, evt)
	}
}
