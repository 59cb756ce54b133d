package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) ListQuotes(ctx context.Context, p ListParams) (*Page[Quote], error) {
	return listPage[Quote](ctx, c, "/quotes", p)
}

func (c *Client) GetQuote(ctx context.Context, id string) (*Quote, error) {
	var q Quote
	if err := c.get(ctx, "/quotes/"+escape(id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Client) CreateQuote(ctx context.Context, q Quote) (*Quote, error) {
	var out Quote
	if err := c.post(ctx, "/quotes", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuoteStatus sends a status-only partial update.
func (c *Client) UpdateQuoteStatus(ctx context.Context, id, status string) (*Quote, error) {
	var out Quote
	if err := c.put(ctx, "/quotes/"+escape(id), map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MapQuoteItem links a quote line to a catalog product. Callers re-fetch the
// quote afterwards; the response carries only a message.
func (c *Client) MapQuoteItem(ctx context.Context, quoteID, itemID, productID string) error {
	if productID == "" {
		return fmt.Errorf("product id is required")
	}
	path := "/quotes/" + escape(quoteID) + "/map-item/" + escape(itemID)
	query := url.Values{"product_id": {productID}}
	return c.do(ctx, http.MethodPost, path, query, nil, nil)
}

// CompareQuotes returns the given quotes annotated with supplier names.
func (c *Client) CompareQuotes(ctx context.Context, ids []string) ([]Quote, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("need at least 2 quotes to compare")
	}
	var out struct {
		Quotes []Quote `json:"quotes"`
	}
	query := url.Values{"quote_ids": {strings.Join(ids, ",")}}
	if err := c.get(ctx, "/quotes/compare", query, &out); err != nil {
		return nil, err
	}
	return out.Quotes, nil
}

func (c *Client) DeleteQuote(ctx context.Context, id string) error {
	return c.delete(ctx, "/quotes/"+escape(id))
}
