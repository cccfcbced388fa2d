package sweeper

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/basso-ws/workspace-backend/internal/session/repository"
)

// Sweeper prunes expired token ids from the session index overnight. The
// session values themselves expire via TTL; only the index set needs help.
type Sweeper struct {
	store *repository.Store
	cron  *cron.Cron
}

func New(store *repository.Store) *Sweeper {
	return &Sweeper{store: store}
}

// Start schedules the nightly sweep (03:00).
func (s *Sweeper) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 3 * * *", func() {
		s.sweep()
	})
	if err != nil {
		log.Printf("Failed to create sweep job: %v", err)
		return
	}

	log.Println("Session sweeper started (running nightly at 03:00)")
	c.Start()
	s.cron = c
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) sweep() {
	pruned, err := s.store.PruneTokenIndex(context.Background())
	if err != nil {
		log.Printf("Session sweep failed: %v", err)
		return
	}
	log.Printf("Session sweep done, pruned=%d", pruned)
}
