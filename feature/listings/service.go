package listings

import (
	"context"

	"go.uber.org/zap"
)

// Service exposes the manager to the HTTP layer.
type Service struct {
	manager *Manager
	logger  *zap.Logger
}

// NewService creates a listings service.
func NewService(manager *Manager, logger *zap.Logger) *Service {
	return &Service{manager: manager, logger: logger}
}

// Listings returns the cached listings in their JSON form.
func (s *Service) Listings() []ListingView {
	cached := s.manager.Listings()
	out := make([]ListingView, 0, len(cached))
	for _, l := range cached {
		out = append(out, l.View())
	}
	return out
}

// Queue returns the current action queue.
func (s *Service) Queue() QueueState {
	return s.manager.Queue()
}

// Flush runs a flush now.
func (s *Service) Flush(ctx context.Context) (*FlushResult, error) {
	return s.manager.Flush(ctx)
}
