// Package publish delivers ranking reports to external destinations.
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/elonfeng/newsprio/pkg/rank"
)

// Publisher delivers a report to one destination.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, r *rank.Report) error
}

// Manager broadcasts reports to all registered publishers.
type Manager struct {
	publishers []Publisher
}

func NewManager(publishers ...Publisher) *Manager {
	return &Manager{publishers: publishers}
}

// HasPublishers returns true if at least one destination is configured.
func (m *Manager) HasPublishers() bool {
	return len(m.publishers) > 0
}

// Broadcast sends r to every publisher. One failing destination does not stop
// the others; all failures are joined.
func (m *Manager) Broadcast(ctx context.Context, r *rank.Report) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
