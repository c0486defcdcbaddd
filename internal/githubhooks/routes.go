// Package githubhooks receives GitHub push webhooks and turns them into
// per-commit word counts.
package githubhooks

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"wordmeter/internal/errmsg"
	"wordmeter/internal/metrics"
	"wordmeter/internal/utils"

	"github.com/gofiber/fiber/v3"
)

// GitHub header keys and values that drive webhook handling.
const (
	signatureHeader = "X-Hub-Signature"
	eventHeader     = "X-GitHub-Event"
	deliveryHeader  = "X-GitHub-Delivery"
	pushEvent       = "push"
	pingEvent       = "ping"
)

// Routes wires the GitHub webhook endpoints under /github.
func Routes(app fiber.Router, p *Pipeline) {
	group := app.Group("/github")

	// POST /wordmeter/github/commits ingests push notifications from GitHub.
	group.Post("/commits", p.commitsHandler)
}

// commitsHandler counts the words changed by every commit of a push.
// @Summary Ingest a GitHub push webhook
// @Tags GitHub Hooks
// @Accept json
// @Produce json
// @Param X-Hub-Signature header string true "sha1= HMAC of the raw body"
// @Success 200 {object} utils.Envelope
// @Success 204
// @Failure 400 {object} errmsg._GitHubInvalidPayload
// @Failure 401 {object} errmsg._GitHubSignatureInvalid
// @Failure 500 {object} errmsg._GitHubSaveFailed
// @Failure 502 {object} errmsg._GitHubFetchFailed
// @Router /wordmeter/github/commits [post]
func (p *Pipeline) commitsHandler(c fiber.Ctx) error {
	body := c.Body()

	// Reject requests whose HMAC cannot be verified with our shared secret.
	if err := p.Authenticate(body, c.Get(signatureHeader)); err != nil {
		p.Log.Warn().Str("delivery", c.Get(deliveryHeader)).Msg("webhook signature mismatch")
		metrics.WebhookRequests.WithLabelValues("unauthorized").Inc()
		return utils.StatusError(c, errmsg.From(err))
	}

	switch strings.TrimSpace(c.Get(eventHeader)) {
	case "", pushEvent:
	case pingEvent:
		metrics.WebhookRequests.WithLabelValues("ping").Inc()
		return utils.Respond(c, http.StatusOK, "pong", nil)
	default:
		// Only pushes carry commits worth counting.
		metrics.WebhookRequests.WithLabelValues("ignored").Inc()
		return c.SendStatus(fiber.StatusNoContent)
	}

	records, err := p.Process(c.RequestCtx(), strings.TrimSpace(c.Get(deliveryHeader)), body)
	if err != nil {
		se := errmsg.From(err)
		metrics.WebhookRequests.WithLabelValues(strconv.Itoa(se.StatusCode)).Inc()
		return utils.StatusError(c, se)
	}

	metrics.WebhookRequests.WithLabelValues("ok").Inc()

	return utils.Respond(c, http.StatusOK, fmt.Sprintf("Word counts saved for %d commits", len(records)), nil)
}
