// Package cache prefetches decoded frames around the playhead. Frames are
// keyed by source file and source frame, so edits that only move clips keep
// their cached frames.
package cache

import (
	"container/list"
	"sync"
)

// Key names one decoded source frame.
type Key struct {
	Path   string
	Stream int
	Frame  int64
}

type entry struct {
	key  Key
	data []byte
}

// Store is a byte-bounded LRU of decoded frames, safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	maxBytes int64
	bytes    int64
	lru      *list.List
	entries  map[Key]*list.Element
	hits     int64
	misses   int64
}

func NewStore(maxBytes int64) *Store {
	return &Store{maxBytes: maxBytes, lru: list.New(), entries: make(map[Key]*list.Element)}
}

func (s *Store) Get(key Key) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	s.lru.MoveToFront(el)
	return el.Value.(*entry).data, true
}

func (s *Store) Has(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Put stores data, evicting the least recently used frames beyond the byte
// budget. Frames larger than the whole budget are not kept.
func (s *Store) Put(key Key, data []byte) {
	size := int64(len(data))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxBytes > 0 && size > s.maxBytes {
		return
	}
	if el, ok := s.entries[key]; ok {
		s.bytes -= int64(len(el.Value.(*entry).data))
		el.Value.(*entry).data = data
		s.bytes += size
		s.lru.MoveToFront(el)
	} else {
		s.entries[key] = s.lru.PushFront(&entry{key: key, data: data})
		s.bytes += size
	}
	for s.maxBytes > 0 && s.bytes > s.maxBytes {
		s.removeElement(s.lru.Back())
	}
}

func (s *Store) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	s.lru.Remove(el)
	delete(s.entries, e.key)
	s.bytes -= int64(len(e.data))
}

// InvalidatePath drops every frame decoded from path and returns how many
// were removed.
func (s *Store) InvalidatePath(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, el := range s.entries {
		if key.Path == path {
			s.removeElement(el)
			n++
		}
	}
	return n
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Init()
	s.entries = make(map[Key]*list.Element)
	s.bytes = 0
}

type Stats struct {
	Entries  int   `json:"entries"`
	Bytes    int64 `json:"bytes"`
	MaxBytes int64 `json:"max_bytes"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Entries: len(s.entries), Bytes: s.bytes, MaxBytes: s.maxBytes, Hits: s.hits, Misses: s.misses}
}
