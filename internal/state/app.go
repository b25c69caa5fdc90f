package state

import (
	"sync"

	"github.com/atomicstack/solar-dashboard/internal/logging/events"
)

// StatusUnknown is the API status before the first health check completes.
const StatusUnknown = "unknown"

// Snapshot is a point-in-time copy of the UI flags.
type Snapshot struct {
	APIStatus     string `json:"apiStatus"`
	IsLoading     bool   `json:"isLoading"`
	IsAIPanelOpen bool   `json:"isAiPanelOpen"`
}

// AppStore holds the process-wide UI flags. Writes are last-write-wins.
type AppStore interface {
	APIStatus() string
	SetAPIStatus(string)
	IsLoading() bool
	SetLoading(bool)
	IsAIPanelOpen() bool
	OpenAIPanel()
	CloseAIPanel()
	ToggleAIPanel()
	Snapshot() Snapshot
	Subscribe() (<-chan Snapshot, func())
}

type appStore struct {
	mu     sync.RWMutex
	state  Snapshot
	nextID int
	subs   map[int]chan Snapshot
}

func NewAppStore() AppStore {
	return &appStore{
		state: Snapshot{APIStatus: StatusUnknown},
		subs:  make(map[int]chan Snapshot),
	}
}

func (s *appStore) APIStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.APIStatus
}

func (s *appStore) SetAPIStatus(status string) {
	s.update("apiStatus", status, func(st *Snapshot) { st.APIStatus = status })
}

func (s *appStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoading
}

func (s *appStore) SetLoading(loading bool) {
	s.update("isLoading", loading, func(st *Snapshot) { st.IsLoading = loading })
}

func (s *appStore) IsAIPanelOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAIPanelOpen
}

func (s *appStore) OpenAIPanel() {
	s.update("isAiPanelOpen", true, func(st *Snapshot) { st.IsAIPanelOpen = true })
}

func (s *appStore) CloseAIPanel() {
	s.update("isAiPanelOpen", false, func(st *Snapshot) { st.IsAIPanelOpen = false })
}

func (s *appStore) ToggleAIPanel() {
	s.mu.Lock()
	s.state.IsAIPanelOpen = !s.state.IsAIPanelOpen
	open := s.state.IsAIPanelOpen
	snap := s.state
	s.broadcastLocked(snap)
	s.mu.Unlock()
	events.Store.Set("isAiPanelOpen", open)
}

func (s *appStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel receiving a snapshot after every write and a
// cancel func that closes it. Delivery never blocks writers: a subscriber
// that falls behind only sees the latest state.
func (s *appStore) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *appStore) update(field string, value interface{}, apply func(*Snapshot)) {
	s.mu.Lock()
	apply(&s.state)
	snap := s.state
	s.broadcastLocked(snap)
	s.mu.Unlock()
	events.Store.Set(field, value)
}

func (s *appStore) broadcastLocked(snap Snapshot) {
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale snapshot so the newest one lands.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
