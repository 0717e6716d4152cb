package scheduler

import (
	"sync"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// PhaseHandler 경계 발화 시 실행되는 국면 전환 핸들러입니다
type PhaseHandler interface {
	OnSubmissionClose(contestID string)
	OnVotingOpen(contestID string)
	OnVotingClose(contestID string)
}

// contestEntry 대회 하나에 걸려 있는 타이머 묶음입니다.
// generation은 교체 이후 도착한 낡은 발화를 걸러냅니다.
type contestEntry struct {
	generation uint64
	timers     []*time.Timer
}

// ContestScheduler 대회별 타이머 레지스트리입니다.
// 레지스트리는 이 타입이 단독 소유하며 다른 컴포넌트는 타이머를 직접 만지지 않습니다.
type ContestScheduler struct {
	mu      sync.Mutex
	store   interfaces.ContestStore
	handler PhaseHandler
	clock   interfaces.Clock
	entries map[string]*contestEntry
}

// NewContestScheduler 새 스케줄러를 생성합니다
func NewContestScheduler(store interfaces.ContestStore, handler PhaseHandler, clock interfaces.Clock) *ContestScheduler {
	return &ContestScheduler{
		store:   store,
		handler: handler,
		clock:   clock,
		entries: make(map[string]*contestEntry),
	}
}

// Schedule 대회의 타이머를 전부 다시 계산해서 겁니다.
// 같은 대회에 이미 걸린 타이머는 먼저 모두 취소하므로
// 생성/수정/점검 타이머 어디서 불러도 안전합니다.
func (s *ContestScheduler) Schedule(c *models.Contest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[c.ID]
	if entry != nil {
		stopTimers(entry.timers)
	} else {
		entry = &contestEntry{}
		s.entries[c.ID] = entry
	}
	entry.generation++
	entry.timers = nil

	now := s.clock.Now()
	gen := entry.generation
	for _, timing := range ComputeTimings(c, now) {
		switch timing.Mode {
		case TimerPast:
			utils.Debug("Boundary %s of contest %s already passed (%s), not arming", timing.Boundary, c.ID, timing.At)
		case TimerDirect:
			utils.Info("Arming %s timer for contest %s, fires in %s", timing.Boundary, c.ID, timing.Delay)
			entry.timers = append(entry.timers, s.armDirect(c.ID, gen, timing))
		case TimerProbe:
			utils.Info("Boundary %s of contest %s exceeds max timer delay, arming %s probe", timing.Boundary, c.ID, timing.Delay)
			entry.timers = append(entry.timers, s.armProbe(c.ID, gen, timing))
		}
	}
}

// Cancel 대회의 타이머를 전부 취소하고 레지스트리에서 제거합니다. 대회 삭제 시 호출됩니다.
func (s *ContestScheduler) Cancel(contestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[contestID]
	if !ok {
		return
	}
	stopTimers(entry.timers)
	delete(s.entries, contestID)
	utils.Info("Cancelled all timers for contest %s", contestID)
}

// CancelAll 종료 시 모든 대회의 타이머를 정리합니다
func (s *ContestScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		stopTimers(entry.timers)
		delete(s.entries, id)
	}
}

// ArmedCount 대회에 현재 걸려 있는 타이머 수를 반환합니다 (상태 명령/테스트용)
func (s *ContestScheduler) ArmedCount(contestID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[contestID]
	if !ok {
		return 0
	}
	return len(entry.timers)
}

// TotalArmed 모든 대회에 걸려 있는 타이머 수의 합을 반환합니다
func (s *ContestScheduler) TotalArmed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, entry := range s.entries {
		total += len(entry.timers)
	}
	return total
}

// armDirect 경계 시각에 핸들러를 직접 발화하는 타이머를 겁니다
func (s *ContestScheduler) armDirect(contestID string, gen uint64, timing BoundaryTiming) *time.Timer {
	return time.AfterFunc(timing.Delay, func() {
		if !s.currentGeneration(contestID, gen) {
			utils.Debug("Dropping stale %s firing for contest %s", timing.Boundary, contestID)
			return
		}
		s.fire(contestID, timing.Boundary)
	})
}

// armProbe 점검 타이머를 겁니다. 발화 시 대회를 다시 읽어 스케줄링 전체를
// 다시 수행하므로, 경계가 표현 가능한 거리로 들어오면 직접 타이머로 바뀝니다.
func (s *ContestScheduler) armProbe(contestID string, gen uint64, timing BoundaryTiming) *time.Timer {
	return time.AfterFunc(timing.Delay, func() {
		if !s.currentGeneration(contestID, gen) {
			return
		}

		c, err := s.store.FindContest(contestID)
		if err != nil {
			utils.Error("Probe timer failed to reload contest %s: %v", contestID, err)
			return
		}
		if c == nil {
			utils.Warn("Probe timer found contest %s removed, cancelling", contestID)
			s.Cancel(contestID)
			return
		}
		s.Schedule(c)
	})
}

// currentGeneration 타이머가 걸릴 당시의 세대가 아직 유효한지 확인합니다
func (s *ContestScheduler) currentGeneration(contestID string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[contestID]
	return ok && entry.generation == gen
}

// fire 경계에 해당하는 국면 전환 핸들러를 실행합니다.
// 핸들러의 패닉이 프로세스를 죽이지 않도록 복구합니다.
func (s *ContestScheduler) fire(contestID string, b Boundary) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error("Phase handler for %s of contest %s panicked: %v", b, contestID, r)
		}
	}()

	utils.Info("Boundary %s fired for contest %s", b, contestID)
	switch b {
	case BoundarySubmissionClose:
		s.handler.OnSubmissionClose(contestID)
	case BoundaryVotingOpen:
		s.handler.OnVotingOpen(contestID)
	case BoundaryVotingClose:
		s.handler.OnVotingClose(contestID)
	}
}

func stopTimers(timers []*time.Timer) {
	for _, t := range timers {
		t.Stop()
	}
}
