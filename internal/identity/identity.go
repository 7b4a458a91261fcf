package identity

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// StorageKey is where the user id is persisted
const StorageKey = "gameTrackerUserId"

// Anonymous is the user id the server assumes when a request carries none
const Anonymous = "anonymous"

// Store is the persistence the provider reads and writes the id through
type Store interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any) error
}

// Provider hands out the local user's id. The id is created on first use,
// persisted, and never rotated afterwards.
type Provider struct {
	store Store
	clock clockwork.Clock

	mu sync.Mutex
	id string
}

func NewProvider(store Store, clock clockwork.Clock) *Provider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Provider{store: store, clock: clock}
}

// UserID returns the persisted id, creating and saving one if none exists
func (p *Provider) UserID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != "" {
		return p.id, nil
	}

	var stored string
	found, err := p.store.Get(StorageKey, &stored)
	if err != nil {
		return "", fmt.Errorf("failed to read user id: %w", err)
	}
	if found && stored != "" {
		p.id = stored
		return p.id, nil
	}

	id := p.newID()
	if err := p.store.Set(StorageKey, id); err != nil {
		return "", fmt.Errorf("failed to save user id: %w", err)
	}
	p.id = id
	return p.id, nil
}

// newID formats user_<unix millis>_<9 random chars>
func (p *Provider) newID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("user_%d_%s", p.clock.Now().UnixMilli(), suffix)
}
