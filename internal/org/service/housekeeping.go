package service

import (
	"context"
	"time"

	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

// HousekeepingService periodically retires overdue pending invitations.
// Purely cosmetic tidy-up: reads already apply expiry lazily, so nothing
// depends on the sweep having run.
type HousekeepingService struct {
	store    store.Store
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

func NewHousekeepingService(st store.Store, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		store:    st,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. One sweep runs immediately.
func (s *HousekeepingService) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the loop and waits for an in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stop)
	<-s.done
}

// Sweep runs one pass immediately. Exposed for tests and manual triggers.
func (s *HousekeepingService) Sweep(ctx context.Context) (int64, error) {
	return s.store.Invitations().ExpireOverdue(ctx, time.Now().UTC())
}

func (s *HousekeepingService) sweep(ctx context.Context) {
	n, err := s.Sweep(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("invitation expiry sweep failed", "error", err)
		return
	}
	if n > 0 {
		slogx.FromContext(ctx).Info("expired overdue invitations", "count", n)
	}
}
