package api

import (
	"context"
)

// ListAlertRules returns every alert rule; the collection is not paginated.
func (c *Client) ListAlertRules(ctx context.Context) ([]AlertRule, error) {
	var out struct {
		Rules []AlertRule `json:"rules"`
	}
	if err := c.get(ctx, "/alerts/rules", nil, &out); err != nil {
		return nil, err
	}
	return out.Rules, nil
}

func (c *Client) CreateAlertRule(ctx context.Context, r AlertRule) (*AlertRule, error) {
	var out AlertRule
	if err := c.post(ctx, "/alerts/rules", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAlertRule applies a partial update and returns the full rule.
func (c *Client) UpdateAlertRule(ctx context.Context, id string, fields map[string]any) (*AlertRule, error) {
	var out AlertRule
	if err := c.put(ctx, "/alerts/rules/"+escape(id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAlertRule(ctx context.Context, id string) error {
	return c.delete(ctx, "/alerts/rules/"+escape(id))
}

func (c *Client) ListAlertEvents(ctx context.Context, p ListParams) (*Page[AlertEvent], error) {
	return listPage[AlertEvent](ctx, c, "/alerts/events", p)
}

// UpdateAlertEventStatus sets an event's status. The backend echoes only a
// message, so callers patch the status they sent.
func (c *Client) UpdateAlertEventStatus(ctx context.Context, id, status string) error {
	return c.put(ctx, "/alerts/events/"+escape(id), map[string]string{"status": status}, nil)
}
