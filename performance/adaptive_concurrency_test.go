package performance

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

func TestInitialLimit(t *testing.T) {
	manager := NewAdaptiveConcurrencyManager()
	if got := manager.GetCurrentLimit(); got != constants.FreezeBaseConcurrency {
		t.Errorf("expected base concurrency %d, got %d", constants.FreezeBaseConcurrency, got)
	}
}

func TestLimitNeverLeavesBounds(t *testing.T) {
	manager := NewAdaptiveConcurrencyManager()

	// 느린 응답을 계속 기록해도 최소 제한 아래로 내려가지 않아야 함
	for i := 0; i < 100; i++ {
		manager.RecordResponseTime(3 * time.Second)
		manager.mutex.Lock()
		manager.lastAdjustment = time.Now().Add(-constants.ConcurrencyAdjustmentCooldown * 2)
		manager.mutex.Unlock()
	}
	if got := manager.GetCurrentLimit(); got < constants.AdaptiveConcurrencyMinLimit {
		t.Errorf("limit fell below minimum: %d", got)
	}
}

func TestRunBoundedRunsEverything(t *testing.T) {
	manager := NewAdaptiveConcurrencyManager()

	var ran int64
	var peak int64
	var current int64
	var mu sync.Mutex

	tasks := make([]func(), 50)
	for i := range tasks {
		tasks[i] = func() {
			n := atomic.AddInt64(&current, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&current, -1)
			atomic.AddInt64(&ran, 1)
		}
	}

	manager.RunBounded(tasks)

	if ran != 50 {
		t.Errorf("expected all 50 tasks to run, got %d", ran)
	}
	if peak > int64(constants.AdaptiveConcurrencyMaxLimit) {
		t.Errorf("concurrency exceeded the hard maximum: %d", peak)
	}
}
