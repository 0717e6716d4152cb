package cache

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

// Item 캐시에 저장되는 개별 아이템을 나타냅니다
type Item struct {
	Data      interface{}
	ExpiresAt time.Time
}

// IsExpired 캐시 아이템이 만료되었는지 확인합니다
func (item *Item) IsExpired() bool {
	return time.Now().After(item.ExpiresAt)
}

// expirationEntry 만료 시간 기반 우선순위 큐의 항목
type expirationEntry struct {
	key       string
	expiresAt time.Time
	index     int
}

// expirationQueue 만료 시간 기반 최소 힙
type expirationQueue []*expirationEntry

func (q expirationQueue) Len() int { return len(q) }

func (q expirationQueue) Less(i, j int) bool {
	return q[i].expiresAt.Before(q[j].expiresAt)
}

func (q expirationQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *expirationQueue) Push(x interface{}) {
	entry := x.(*expirationEntry)
	entry.index = len(*q)
	*q = append(*q, entry)
}

func (q *expirationQueue) Pop() interface{} {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*q = old[0 : n-1]
	return entry
}

// TTLCache 만료 힙으로 정리 비용을 제한하는 TTL 캐시입니다
type TTLCache struct {
	mu         sync.RWMutex
	items      map[string]*Item
	queue      *expirationQueue
	keyToEntry map[string]*expirationEntry

	cleanupBatchSize   int
	maxCleanupDuration time.Duration
}

// NewTTLCache 새로운 TTLCache 인스턴스를 생성합니다
func NewTTLCache() *TTLCache {
	queue := &expirationQueue{}
	heap.Init(queue)

	return &TTLCache{
		items:              make(map[string]*Item),
		queue:              queue,
		keyToEntry:         make(map[string]*expirationEntry),
		cleanupBatchSize:   constants.CacheCleanupBatchSize,
		maxCleanupDuration: constants.MaxCacheCleanupDuration,
	}
}

// Set 값을 TTL과 함께 저장합니다
func (c *TTLCache) Set(key string, data interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	c.items[key] = &Item{Data: data, ExpiresAt: expiresAt}

	// 기존 힙 항목은 제거하지 않고 무효화 처리
	if existing, exists := c.keyToEntry[key]; exists {
		existing.expiresAt = time.Time{}
	}

	entry := &expirationEntry{key: key, expiresAt: expiresAt}
	heap.Push(c.queue, entry)
	c.keyToEntry[key] = entry
}

// Get 값을 조회합니다. 만료된 항목은 없는 것으로 취급합니다.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || item.IsExpired() {
		return nil, false
	}
	return item.Data, true
}

// Delete 키를 즉시 제거합니다
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	if entry, exists := c.keyToEntry[key]; exists {
		entry.expiresAt = time.Time{}
		delete(c.keyToEntry, key)
	}
}

// Clear 모든 항목을 제거합니다
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*Item)
	c.queue = &expirationQueue{}
	heap.Init(c.queue)
	c.keyToEntry = make(map[string]*expirationEntry)
}

// Len 현재(만료 포함) 항목 수를 반환합니다
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// ClearExpired 힙 순서대로 만료 항목을 정리합니다. 배치 크기와 시간
// 제한을 두어 잠금 보유 시간을 제한합니다.
func (c *TTLCache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	start := time.Now()
	cleaned := 0

	for cleaned < c.cleanupBatchSize && time.Since(start) < c.maxCleanupDuration {
		if c.queue.Len() == 0 {
			break
		}

		entry := (*c.queue)[0]

		// 무효화된 항목은 버리고, 아직 만료 전이면 중단
		if entry.expiresAt.IsZero() {
			heap.Pop(c.queue)
			cleaned++
			continue
		}
		if now.Before(entry.expiresAt) {
			break
		}

		heap.Pop(c.queue)
		if current, exists := c.keyToEntry[entry.key]; exists && current == entry {
			delete(c.keyToEntry, entry.key)
			delete(c.items, entry.key)
		}
		cleaned++
	}

	return cleaned
}

// StartCleanupWorker 주기적인 정리 고루틴을 시작하고 중단 함수를 반환합니다
func (c *TTLCache) StartCleanupWorker(interval time.Duration) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.ClearExpired()
			case <-ctx.Done():
				return
			}
		}
	}()

	return cancel
}
