package export

import (
	"context"
	"sync"

	"github.com/op/go-logging"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// StateStore keeps review state titles by state code.
// *network.RedisClient implements it for a cache shared across runs.
type StateStore interface {
	StateTitle(code string) (string, bool, error)
	SaveStateTitle(code, title string) error
}

// MemoryStateStore is the default, process-local StateStore.
type MemoryStateStore struct {
	mutex  sync.RWMutex
	titles map[string]string
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{titles: make(map[string]string)}
}

func (s *MemoryStateStore) StateTitle(code string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	title, ok := s.titles[code]
	return title, ok, nil
}

func (s *MemoryStateStore) SaveStateTitle(code, title string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.titles[code] = title
	return nil
}

// WorkflowGetter fetches the @workflow info of an item.
type WorkflowGetter interface {
	Workflow(ctx context.Context, itemURL string) (*plone.WorkflowInfo, error)
}

// StateCache turns review state codes into their human-readable
// titles. Titles are looked up on first use through the item's
// @workflow endpoint.
//
// Two workers that miss the same code at the same time may both look
// it up. Both store the same title, so that is harmless.
type StateCache struct {
	client WorkflowGetter
	store  StateStore
	logger *logging.Logger
}

// NewStateCache returns a cache backed by store, or by a new
// MemoryStateStore if store is nil.
func NewStateCache(client WorkflowGetter, store StateStore, logger *logging.Logger) *StateCache {
	if store == nil {
		store = NewMemoryStateStore()
	}
	return &StateCache{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Title returns the title of item's review state. It returns "" for
// items without @id or review state, and the raw state code if the
// lookup fails.
func (c *StateCache) Title(ctx context.Context, item *plone.Licencee) string {
	if item == nil || item.ID == "" || item.ReviewState == "" {
		return ""
	}
	code := item.ReviewState
	title, found, err := c.store.StateTitle(code)
	if err != nil {
		c.logger.Warningf("State title store: %v", err)
	}
	if found {
		return title
	}
	info, err := c.client.Workflow(ctx, item.ID)
	if err != nil {
		c.logger.Warningf("Cannot get title of state '%s' from %s: %v", code, item.ID, err)
		return code
	}
	title = info.State.Title
	if err := c.store.SaveStateTitle(code, title); err != nil {
		c.logger.Warningf("State title store: %v", err)
	}
	return title
}
