package gitcommits

import (
	"context"
	"fmt"
	"net/http"

	"wordmeter/internal/errmsg"
	"wordmeter/internal/models"
	"wordmeter/internal/utils"
	"wordmeter/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Subscriber delivers records as they are saved.
type Subscriber interface {
	Subscribe(ctx context.Context, ready chan<- struct{}, fn func(models.CommitRecord) error) error
}

// Routes wires the read API under /commits. stream may be nil, in which case
// the live endpoint is not registered.
func Routes(app fiber.Router, q *Query, stream Subscriber) {
	commits := app.Group("/commits")
	commits.Get("/", q.listHandler)

	if stream != nil {
		commits.Get("/stream", q.streamHandler(stream))
	}
}

// listHandler returns stored word counts.
// @Summary List commit word counts
// @Tags Commits
// @Security APIKeyAuth
// @Produce json
// @Param limit query int false "Maximum number of records; ignored unless a positive integer"
// @Success 200 {object} utils.Envelope
// @Failure 401 {object} errmsg._APIKeyInvalid
// @Failure 500 {object} errmsg._InternalServerError
// @Router /wordmeter/commits [get]
func (q *Query) listHandler(c fiber.Ctx) error {
	records, err := q.Run(c.RequestCtx(), c.Get(APIKeyHeader), c.Query("limit"))
	if err != nil {
		return utils.StatusError(c, errmsg.From(err))
	}

	return utils.Respond(c, http.StatusOK, fmt.Sprintf("%d commits returned", len(records)), records)
}

// streamHandler pushes every newly saved record over a websocket.
// @Summary Stream commit word counts
// @Tags Commits
// @Security APIKeyAuth
// @Success 101
// @Failure 401 {object} errmsg._APIKeyInvalid
// @Router /wordmeter/commits/stream [get]
func (q *Query) streamHandler(stream Subscriber) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := q.Authenticate(c.Get(APIKeyHeader)); err != nil {
			return utils.StatusError(c, errmsg.From(err))
		}

		return ws.StreamWebSocket(c, func(ctx context.Context, writer *ws.Writer) error {
			writer.WriteStatus("info", "subscribed")

			return stream.Subscribe(ctx, nil, func(record models.CommitRecord) error {
				return writer.Write("commit", record)
			})
		})
	}
}
