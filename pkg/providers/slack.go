package providers

import (
	"context"
	"fmt"
)

// SlackClient posts to incoming-webhook URLs. Messages use the blocks
// layout so session links render as buttons.
type SlackClient struct{}

func NewSlackClient() *SlackClient { return &SlackClient{} }

func (c *SlackClient) SendTestMessage(ctx context.Context, endpoint string) error {
	body := map[string]any{"text": "Integration test message. You will receive notifications here."}
	_, err := postWebhook(ctx, endpoint, body)
	return err
}

func (c *SlackClient) ShareSession(ctx context.Context, msg ShareMessage) (any, error) {
	return c.share(ctx, msg, "shared a session")
}

func (c *SlackClient) ShareError(ctx context.Context, msg ShareMessage) (any, error) {
	return c.share(ctx, msg, "shared an error")
}

func (c *SlackClient) share(ctx context.Context, msg ShareMessage, verb string) (any, error) {
	text := fmt.Sprintf("*%s* %s", msg.Actor, verb)
	if msg.ProjectName != "" {
		text += " in *" + msg.ProjectName + "*"
	}
	blocks := []any{
		map[string]any{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": text},
		},
	}
	if msg.Comment != "" {
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": msg.Comment},
		})
	}
	if msg.Link != "" {
		blocks = append(blocks, map[string]any{
			"type": "actions",
			"elements": []any{
				map[string]any{
					"type": "button",
					"text": map[string]any{"type": "plain_text", "text": msg.Title},
					"url":  msg.Link,
				},
			},
		})
	}
	return postWebhook(ctx, msg.Endpoint, map[string]any{"blocks": blocks})
}
