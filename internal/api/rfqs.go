package api

import (
	"context"
)

func (c *Client) ListRFQs(ctx context.Context, p ListParams) (*Page[RFQ], error) {
	return listPage[RFQ](ctx, c, "/rfqs", p)
}

// AllRFQs returns up to AllPageSize RFQs.
func (c *Client) AllRFQs(ctx context.Context) ([]RFQ, error) {
	return listAll[RFQ](ctx, c, "/rfqs")
}

func (c *Client) GetRFQ(ctx context.Context, id string) (*RFQ, error) {
	var r RFQ
	if err := c.get(ctx, "/rfqs/"+escape(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) CreateRFQ(ctx context.Context, r RFQ) (*RFQ, error) {
	var out RFQ
	if err := c.post(ctx, "/rfqs", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRFQ(ctx context.Context, id string, r RFQ) (*RFQ, error) {
	var out RFQ
	if err := c.put(ctx, "/rfqs/"+escape(id), r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRFQStatus sends a status-only partial update.
func (c *Client) UpdateRFQStatus(ctx context.Context, id, status string) (*RFQ, error) {
	var out RFQ
	if err := c.put(ctx, "/rfqs/"+escape(id), map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendRFQ marks a draft RFQ as sent to its selected suppliers.
func (c *Client) SendRFQ(ctx context.Context, id string) (*Ack, error) {
	var out Ack
	if err := c.post(ctx, "/rfqs/"+escape(id)+"/send", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRFQ(ctx context.Context, id string) error {
	return c.delete(ctx, "/rfqs/"+escape(id))
}
