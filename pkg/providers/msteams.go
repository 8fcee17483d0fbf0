package providers

import (
	"context"
	"fmt"
)

// MSTeamsClient posts MessageCard payloads to Teams incoming webhooks.
type MSTeamsClient struct{}

func NewMSTeamsClient() *MSTeamsClient { return &MSTeamsClient{} }

func (c *MSTeamsClient) SendTestMessage(ctx context.Context, endpoint string) error {
	card := map[string]any{
		"@type":    "MessageCard",
		"@context": "http://schema.org/extensions",
		"summary":  "Integration test",
		"text":     "Integration test message. You will receive notifications here.",
	}
	_, err := postWebhook(ctx, endpoint, card)
	return err
}

func (c *MSTeamsClient) ShareSession(ctx context.Context, msg ShareMessage) (any, error) {
	return c.share(ctx, msg, "shared a session")
}

func (c *MSTeamsClient) ShareError(ctx context.Context, msg ShareMessage) (any, error) {
	return c.share(ctx, msg, "shared an error")
}

func (c *MSTeamsClient) share(ctx context.Context, msg ShareMessage, verb string) (any, error) {
	title := fmt.Sprintf("%s %s", msg.Actor, verb)
	if msg.ProjectName != "" {
		title += " in " + msg.ProjectName
	}
	card := map[string]any{
		"@type":    "MessageCard",
		"@context": "http://schema.org/extensions",
		"summary":  title,
		"title":    title,
		"text":     msg.Comment,
	}
	if msg.Link != "" {
		card["potentialAction"] = []any{
			map[string]any{
				"@type":   "OpenUri",
				"name":    msg.Title,
				"targets": []any{map[string]any{"os": "default", "uri": msg.Link}},
			},
		}
	}
	return postWebhook(ctx, msg.Endpoint, card)
}
