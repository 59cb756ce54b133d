// Package demo exposes whether the backend runs in demo mode. The status is
// fetched once at startup and never changes afterwards.
package demo

import (
	"context"
	"log/slog"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

// Status is the immutable demo-mode snapshot.
type Status struct {
	Enabled bool
	OrgID   string
	UserID  string
}

// StatusFetcher reads the demo status from the backend.
type StatusFetcher interface {
	DemoStatus(ctx context.Context) (*api.DemoStatus, error)
}

// Provider hands out the demo status to handlers and templates.
type Provider struct {
	status Status
}

// Load fetches the demo status. When the backend cannot be reached the
// client assumes demo mode, so the banner and reset action stay visible.
func Load(ctx context.Context, f StatusFetcher) *Provider {
	ds, err := f.DemoStatus(ctx)
	if err != nil {
		slog.Warn("failed to fetch demo status, assuming demo mode", "error", err)
		return &Provider{status: Status{Enabled: true}}
	}
	return &Provider{status: Status{
		Enabled: ds.DemoMode,
		OrgID:   ds.DemoOrgID,
		UserID:  ds.DemoUserID,
	}}
}

// Static returns a provider with a fixed status.
func Static(s Status) *Provider {
	return &Provider{status: s}
}

// Status returns the demo status.
func (p *Provider) Status() Status {
	if p == nil {
		return Status{}
	}
	return p.status
}

// Enabled reports whether demo mode is on.
func (p *Provider) Enabled() bool {
	return p.Status().Enabled
}
