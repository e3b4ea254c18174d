package ghost

import (
	"context"
	"net/http"
	"net/url"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

const webhooksPath = adminPrefix + "/webhooks/"

type webhooksEnvelope struct {
	Webhooks []domain.Webhook `json:"webhooks"`
}

// CreateWebhook registers a webhook on the integration that owns the key.
func (c *Client) CreateWebhook(ctx context.Context, in domain.WebhookInput) (domain.Webhook, error) {
	var env webhooksEnvelope
	body := struct {
		Webhooks []domain.WebhookInput `json:"webhooks"`
	}{Webhooks: []domain.WebhookInput{in}}

	if err := c.request(ctx, http.MethodPost, webhooksPath, nil, body, &env); err != nil {
		return domain.Webhook{}, err
	}
	if w := first(env.Webhooks); w != nil {
		return *w, nil
	}
	return domain.Webhook{}, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, webhooksPath+url.PathEscape(id)+"/", nil, nil, nil)
}
