package api

import (
	"context"
	"net/url"
	"strconv"
)

// AllPageSize is the page size used when a form needs every option of a
// collection, such as the supplier picker.
const AllPageSize = 100

func listPage[T any](ctx context.Context, c *Client, path string, p ListParams) (*Page[T], error) {
	var page Page[T]
	if err := c.get(ctx, path, p.Values(), &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return &page, nil
}

func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	page, err := listPage[T](ctx, c, path, ListParams{PageSize: AllPageSize})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Suppliers

func (c *Client) ListSuppliers(ctx context.Context, p ListParams) (*Page[Supplier], error) {
	return listPage[Supplier](ctx, c, "/suppliers", p)
}

// AllSuppliers returns up to AllPageSize suppliers.
func (c *Client) AllSuppliers(ctx context.Context) ([]Supplier, error) {
	return listAll[Supplier](ctx, c, "/suppliers")
}

func (c *Client) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	var s Supplier
	if err := c.get(ctx, "/suppliers/"+escape(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateSupplier(ctx context.Context, s Supplier) (*Supplier, error) {
	var out Supplier
	if err := c.post(ctx, "/suppliers", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, id string, s Supplier) (*Supplier, error) {
	var out Supplier
	if err := c.put(ctx, "/suppliers/"+escape(id), s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	return c.delete(ctx, "/suppliers/"+escape(id))
}

// Projects

func (c *Client) ListProjects(ctx context.Context, p ListParams) (*Page[Project], error) {
	return listPage[Project](ctx, c, "/projects", p)
}

// AllProjects returns up to AllPageSize projects.
func (c *Client) AllProjects(ctx context.Context) ([]Project, error) {
	return listAll[Project](ctx, c, "/projects")
}

func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := c.get(ctx, "/projects/"+escape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProject(ctx context.Context, p Project) (*Project, error) {
	var out Project
	if err := c.post(ctx, "/projects", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, p Project) (*Project, error) {
	var out Project
	if err := c.put(ctx, "/projects/"+escape(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.delete(ctx, "/projects/"+escape(id))
}

// Catalog

func (c *Client) ListProducts(ctx context.Context, p ListParams) (*Page[Product], error) {
	return listPage[Product](ctx, c, "/catalog/products", p)
}

// AllProducts returns up to AllPageSize catalog products.
func (c *Client) AllProducts(ctx context.Context) ([]Product, error) {
	return listAll[Product](ctx, c, "/catalog/products")
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.get(ctx, "/catalog/products/"+escape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	var out Product
	if err := c.post(ctx, "/catalog/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p Product) (*Product, error) {
	var out Product
	if err := c.put(ctx, "/catalog/products/"+escape(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/catalog/products/"+escape(id))
}

// Categories returns the distinct product categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.get(ctx, "/catalog/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// PriceHistory returns the product and its price points observed in the
// last days days, oldest first.
func (c *Client) PriceHistory(ctx context.Context, productID string, days int) (*PriceHistory, error) {
	var out PriceHistory
	query := url.Values{"days": {strconv.Itoa(days)}}
	if err := c.get(ctx, "/price-history/product/"+escape(productID), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard and demo

func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.get(ctx, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DemoStatus(ctx context.Context) (*DemoStatus, error) {
	var out DemoStatus
	if err := c.get(ctx, "/demo/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetDemo wipes and reseeds the demo organization.
func (c *Client) ResetDemo(ctx context.Context) (*Ack, error) {
	var out Ack
	if err := c.post(ctx, "/demo/reset", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
