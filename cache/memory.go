package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Memory is a bounded in-process Store. A hit moves the entry to the back;
// when full, the entry at the front (least recently used) is evicted.
type Memory struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	capacity int
	items    map[string]*list.Element
	order    *list.List
	hits     uint64
	misses   uint64
}

type Stats struct {
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRate  float64 `json:"hitRate"`
}

func NewMemory(capacity int, clock clockwork.Clock) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memory{
		clock:    clock,
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		m.misses++
		observe("memory", false)
		return nil, ErrMiss
	}
	e := el.Value.(*entry)
	if m.expired(e) {
		m.remove(el)
		m.misses++
		observe("memory", false)
		return nil, ErrMiss
	}
	m.order.MoveToBack(el)
	m.hits++
	observe("memory", true)
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.clock.Now().Add(ttl)
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		m.order.MoveToBack(el)
		return nil
	}

	if m.order.Len() >= m.capacity {
		m.remove(m.order.Front())
	}
	m.items[key] = m.order.PushBack(&entry{key: key, value: value, expiresAt: expiresAt})
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if el, ok := m.items[k]; ok {
			m.remove(el)
		}
	}
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, el := range m.items {
		if strings.HasPrefix(k, prefix) {
			m.remove(el)
		}
	}
	return nil
}

// Cleanup drops expired entries and returns how many were removed.
func (m *Memory) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for el := m.order.Front(); el != nil; {
		next := el.Next()
		if m.expired(el.Value.(*entry)) {
			m.remove(el)
			removed++
		}
		el = next
	}
	return removed
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]*list.Element, m.capacity)
	m.order.Init()
}

func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{Size: m.order.Len(), Capacity: m.capacity, Hits: m.hits, Misses: m.misses}
	if total := m.hits + m.misses; total > 0 {
		s.HitRate = float64(m.hits) / float64(total)
	}
	return s
}

func (m *Memory) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt)
}

func (m *Memory) remove(el *list.Element) {
	if el == nil {
		return
	}
	m.order.Remove(el)
	delete(m.items, el.Value.(*entry).key)
}
