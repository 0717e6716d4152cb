package performance

import (
	"sync"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

// AdaptiveConcurrencyManager Discord API 응답 시간에 따라 팬아웃 동시성을
// 동적으로 조정합니다. 투표 마감 시 제출물 메시지 동결처럼 대회 하나의
// 메시지를 한꺼번에 손대는 작업이 이 관리자의 제한을 따릅니다.
type AdaptiveConcurrencyManager struct {
	mutex               sync.RWMutex
	currentLimit        int
	minLimit            int
	maxLimit            int
	responseTimeWindow  []time.Duration
	windowSize          int
	adjustmentThreshold time.Duration
	decreaseThreshold   time.Duration
	lastAdjustment      time.Time
	adjustmentCooldown  time.Duration
	successiveIncreases int
	successiveDecreases int
}

// NewAdaptiveConcurrencyManager 새로운 적응형 동시성 관리자를 생성합니다
func NewAdaptiveConcurrencyManager() *AdaptiveConcurrencyManager {
	return &AdaptiveConcurrencyManager{
		currentLimit:        constants.FreezeBaseConcurrency,
		minLimit:            constants.AdaptiveConcurrencyMinLimit,
		maxLimit:            constants.AdaptiveConcurrencyMaxLimit,
		responseTimeWindow:  make([]time.Duration, 0, constants.ResponseTimeWindowSize),
		windowSize:          constants.ResponseTimeWindowSize,
		adjustmentThreshold: constants.ConcurrencyAdjustmentThreshold,
		decreaseThreshold:   constants.ConcurrencyDecreaseThreshold,
		adjustmentCooldown:  constants.ConcurrencyAdjustmentCooldown,
		lastAdjustment:      time.Now(),
	}
}

// GetCurrentLimit 현재 동시성 제한을 반환합니다
func (manager *AdaptiveConcurrencyManager) GetCurrentLimit() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return manager.currentLimit
}

// RecordResponseTime API 응답 시간을 기록하고 필요시 동시성을 조정합니다
func (manager *AdaptiveConcurrencyManager) RecordResponseTime(responseTime time.Duration) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	manager.responseTimeWindow = append(manager.responseTimeWindow, responseTime)
	if len(manager.responseTimeWindow) > manager.windowSize {
		manager.responseTimeWindow = manager.responseTimeWindow[1:]
	}

	if len(manager.responseTimeWindow) >= constants.MinResponseTimeWindowSize && time.Since(manager.lastAdjustment) > manager.adjustmentCooldown {
		manager.adjustConcurrency()
	}
}

// adjustConcurrency 응답 시간 통계를 기반으로 동시성을 조정합니다
// 주의: 이 메서드는 Lock()이 걸린 상태에서만 호출되어야 합니다
func (manager *AdaptiveConcurrencyManager) adjustConcurrency() {
	avgResponseTime := manager.calculateAverageResponseTime()
	p95ResponseTime := manager.calculateP95ResponseTime()

	oldLimit := manager.currentLimit

	// 응답 시간이 너무 느리면 동시성 감소
	if p95ResponseTime > manager.decreaseThreshold || avgResponseTime > manager.adjustmentThreshold {
		if manager.currentLimit > manager.minLimit {
			manager.currentLimit = max(manager.minLimit, manager.currentLimit-1)
			manager.successiveDecreases++
			manager.successiveIncreases = 0
		}
	} else if avgResponseTime < manager.adjustmentThreshold/2 {
		// 응답 시간이 충분히 빠르면 보수적으로 증가
		if manager.currentLimit < manager.maxLimit && manager.successiveDecreases == 0 {
			if manager.successiveIncreases < constants.MaxSuccessiveIncreases {
				manager.currentLimit = min(manager.maxLimit, manager.currentLimit+1)
				manager.successiveIncreases++
			}
		}
		manager.successiveDecreases = 0
	}

	if oldLimit != manager.currentLimit {
		manager.lastAdjustment = time.Now()
		// 로깅은 utils 패키지 순환 참조 방지를 위해 하지 않습니다
	}
}

// calculateAverageResponseTime 평균 응답 시간을 계산합니다
// 주의: 이 메서드는 RLock() 또는 Lock()이 걸린 상태에서만 호출되어야 합니다
func (manager *AdaptiveConcurrencyManager) calculateAverageResponseTime() time.Duration {
	if len(manager.responseTimeWindow) == 0 {
		return 0
	}

	var total time.Duration
	for _, responseTime := range manager.responseTimeWindow {
		total += responseTime
	}
	return total / time.Duration(len(manager.responseTimeWindow))
}

// calculateP95ResponseTime 95 퍼센타일 응답 시간의 근사치를 계산합니다
// 주의: 이 메서드는 RLock() 또는 Lock()이 걸린 상태에서만 호출되어야 합니다
func (manager *AdaptiveConcurrencyManager) calculateP95ResponseTime() time.Duration {
	if len(manager.responseTimeWindow) == 0 {
		return 0
	}

	var maxTime time.Duration
	for _, responseTime := range manager.responseTimeWindow {
		if responseTime > maxTime {
			maxTime = responseTime
		}
	}

	return time.Duration(float64(maxTime) * constants.P95PercentileRatio)
}

// RunBounded 작업 목록을 현재 제한만큼의 고루틴으로 나눠 실행합니다.
// 각 작업의 소요 시간을 기록해 다음 팬아웃의 동시성에 반영합니다.
func (manager *AdaptiveConcurrencyManager) RunBounded(tasks []func()) {
	if len(tasks) == 0 {
		return
	}

	limit := manager.GetCurrentLimit()
	if limit > len(tasks) {
		limit = len(tasks)
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			started := time.Now()
			task()
			manager.RecordResponseTime(time.Since(started))
		}()
	}
	wg.Wait()
}

// GetStats 현재 통계를 반환합니다
func (manager *AdaptiveConcurrencyManager) GetStats() ConcurrencyStats {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	return ConcurrencyStats{
		CurrentLimit:    manager.currentLimit,
		MinLimit:        manager.minLimit,
		MaxLimit:        manager.maxLimit,
		AverageResponse: manager.calculateAverageResponseTime(),
		P95Response:     manager.calculateP95ResponseTime(),
		WindowSize:      len(manager.responseTimeWindow),
		LastAdjustment:  manager.lastAdjustment,
		SuccessiveInc:   manager.successiveIncreases,
		SuccessiveDec:   manager.successiveDecreases,
	}
}

// ConcurrencyStats 동시성 관리자의 통계 정보
type ConcurrencyStats struct {
	CurrentLimit    int
	MinLimit        int
	MaxLimit        int
	AverageResponse time.Duration
	P95Response     time.Duration
	WindowSize      int
	LastAdjustment  time.Time
	SuccessiveInc   int
	SuccessiveDec   int
}
