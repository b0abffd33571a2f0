// Package staging holds parsed imports between extraction and commit. The
// stage is deliberately in-memory: nothing is durable until the reviewer
// confirms, and an expired or abandoned session disappears without a trace
// in the books.
package staging

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"belegwerk/internal/domain"
)

// Store is the TTL-bound session stage. All methods are safe for concurrent
// use.
type Store struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.StagedImport
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates a stage whose sessions expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[uuid.UUID]*domain.StagedImport),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Stage admits a new import session and returns its ID. The caller's struct
// is copied; later mutations go through Update.
func (s *Store) Stage(staged domain.StagedImport) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	now := s.now()
	staged.SessionID = id
	staged.State = domain.ImportStateStaged
	staged.CreatedAt = now
	staged.ExpiresAt = now.Add(s.ttl)
	s.items[id] = &staged
	return id
}

// Get returns a copy of the session. Expired sessions are reaped on access.
func (s *Store) Get(id uuid.UUID) (domain.StagedImport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, err := s.getLocked(id)
	if err != nil {
		return domain.StagedImport{}, err
	}
	return *staged, nil
}

// Update replaces the reviewer-editable parts of a staged session: the
// parsed document and the customer candidate. Sessions past the staged state
// are frozen.
func (s *Store) Update(id uuid.UUID, doc domain.ParsedDocument, candidate domain.CustomerMatchCandidate) (domain.StagedImport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, err := s.getLocked(id)
	if err != nil {
		return domain.StagedImport{}, err
	}
	if staged.State != domain.ImportStateStaged {
		return domain.StagedImport{}, fmt.Errorf("staging.Update: session %s is %s: %w", id, staged.State, domain.ErrCommitConflict)
	}
	staged.Document = doc
	staged.Candidate = candidate
	return *staged, nil
}

// BeginCommit transitions a session from staged to committing. Exactly one
// caller wins; concurrent commits of the same session get ErrCommitConflict.
func (s *Store) BeginCommit(id uuid.UUID) (domain.StagedImport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, err := s.getLocked(id)
	if err != nil {
		return domain.StagedImport{}, err
	}
	if staged.State != domain.ImportStateStaged {
		return domain.StagedImport{}, fmt.Errorf("staging.BeginCommit: session %s is %s: %w", id, staged.State, domain.ErrCommitConflict)
	}
	staged.State = domain.ImportStateCommitting
	return *staged, nil
}

// FinishCommit records the commit outcome. On success the assigned document
// number is stored and the session is kept briefly for the confirmation
// response; on failure the session returns to staged so the reviewer can
// retry.
func (s *Store) FinishCommit(id uuid.UUID, assignedNumber int64, commitErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, ok := s.items[id]
	if !ok {
		return
	}
	if commitErr != nil {
		staged.State = domain.ImportStateStaged
		return
	}
	staged.State = domain.ImportStateCommitted
	staged.AssignedNumber = assignedNumber
	staged.FileBytes = nil
}

// Cancel discards a session. Cancelling a committing session is refused.
func (s *Store) Cancel(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, err := s.getLocked(id)
	if err != nil {
		return err
	}
	if staged.State == domain.ImportStateCommitting {
		return fmt.Errorf("staging.Cancel: session %s is committing: %w", id, domain.ErrCommitConflict)
	}
	delete(s.items, id)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// StartJanitor reaps expired sessions at the given interval until ctx ends.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.reap(); n > 0 {
					log.Printf("staging.Store: reaped %d expired sessions", n)
				}
			}
		}
	}()
}

func (s *Store) reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var reaped int
	for id, staged := range s.items {
		// Committing sessions are never reaped mid-flight.
		if staged.State == domain.ImportStateCommitting {
			continue
		}
		if now.After(staged.ExpiresAt) {
			delete(s.items, id)
			reaped++
		}
	}
	return reaped
}

// getLocked resolves a session, enforcing expiry. Caller holds s.mu.
func (s *Store) getLocked(id uuid.UUID) (*domain.StagedImport, error) {
	staged, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("staging: session %s: %w", id, domain.ErrSessionNotFound)
	}
	if staged.State != domain.ImportStateCommitting && s.now().After(staged.ExpiresAt) {
		delete(s.items, id)
		return nil, fmt.Errorf("staging: session %s: %w", id, domain.ErrSessionExpired)
	}
	return staged, nil
}
