// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Memory is an in-process LRU store with per-entry TTL. Eviction happens on
// insert when capacity is exceeded and lazily on read when an entry has
// expired.
type Memory struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

type memoryItem struct {
	key       string
	entry     *Entry
	expiresAt time.Time
}

// NewMemory creates an in-process store holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 128
	}
	return &Memory{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Get returns the entry for key, or ErrMiss when absent or expired.
func (m *Memory) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return nil, ErrMiss
	}
	item := el.Value.(*memoryItem)
	if m.now().After(item.expiresAt) {
		m.order.Remove(el)
		delete(m.items, key)
		return nil, ErrMiss
	}
	m.order.MoveToFront(el)
	return item.entry, nil
}

// Set stores entry under key for ttl, evicting the least recently used
// entry when full.
func (m *Memory) Set(_ context.Context, key string, entry *Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		item := el.Value.(*memoryItem)
		item.entry = entry
		item.expiresAt = m.now().Add(ttl)
		m.order.MoveToFront(el)
		return nil
	}

	el := m.order.PushFront(&memoryItem{
		key:       key,
		entry:     entry,
		expiresAt: m.now().Add(ttl),
	})
	m.items[key] = el

	if m.order.Len() > m.capacity {
		oldest := m.order.Back()
		if oldest != nil {
			m.order.Remove(oldest)
			delete(m.items, oldest.Value.(*memoryItem).key)
		}
	}
	return nil
}

// Len reports the current entry count.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Close is a no-op for the in-process store.
func (m *Memory) Close() error { return nil }
