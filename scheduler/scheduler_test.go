package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/storage"
)

// recordingHandler 발화된 경계를 기록하는 테스트용 핸들러
type recordingHandler struct {
	mu    sync.Mutex
	fired []string
	done  chan string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{done: make(chan string, 16)}
}

func (h *recordingHandler) record(kind, contestID string) {
	h.mu.Lock()
	h.fired = append(h.fired, kind)
	h.mu.Unlock()
	h.done <- kind
}

func (h *recordingHandler) OnSubmissionClose(contestID string) { h.record("submission-close", contestID) }
func (h *recordingHandler) OnVotingOpen(contestID string)      { h.record("voting-open", contestID) }
func (h *recordingHandler) OnVotingClose(contestID string)     { h.record("voting-close", contestID) }

func (h *recordingHandler) firedBoundaries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.fired...)
}

func schedulerContest(id string, now time.Time) *models.Contest {
	return &models.Contest{
		ID:              id,
		Name:            "Scheduler Test",
		Kind:            models.KindText,
		SubmissionOpen:  now.Add(-time.Hour),
		SubmissionClose: now.Add(time.Hour),
		VotingOpen:      now.Add(2 * time.Hour),
		VotingClose:     now.Add(3 * time.Hour),
	}
}

func TestComputeTimingClassification(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		desc     string
		at       time.Time
		expected TimerMode
	}{
		{
			desc:     "past boundary is not armed",
			at:       now.Add(-time.Minute),
			expected: TimerPast,
		},
		{
			desc:     "boundary exactly now counts as past",
			at:       now,
			expected: TimerPast,
		},
		{
			desc:     "boundary within max delay is direct",
			at:       now.Add(24 * time.Hour),
			expected: TimerDirect,
		},
		{
			desc:     "boundary at exactly max delay is direct",
			at:       now.Add(constants.MaxTimerDelay),
			expected: TimerDirect,
		},
		{
			desc:     "boundary beyond max delay becomes a probe",
			at:       now.Add(constants.MaxTimerDelay + time.Millisecond),
			expected: TimerProbe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			timing := computeTiming(BoundarySubmissionClose, tt.at, now)
			if timing.Mode != tt.expected {
				t.Errorf("expected mode %v, got %v", tt.expected, timing.Mode)
			}
			if timing.Mode == TimerProbe && timing.Delay != constants.RearmProbeInterval {
				t.Errorf("probe delay should be the probe interval, got %s", timing.Delay)
			}
			if timing.Mode == TimerDirect && timing.Delay != tt.at.Sub(now) {
				t.Errorf("direct delay should equal remaining time, got %s", timing.Delay)
			}
		})
	}
}

func TestComputeTimingsSkipsSubmissionOpen(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := schedulerContest("c1", now)

	timings := ComputeTimings(c, now)
	if len(timings) != 3 {
		t.Fatalf("expected 3 future-facing boundaries, got %d", len(timings))
	}
	for _, timing := range timings {
		if timing.Boundary.String() == "submission-open" {
			t.Errorf("submission open must never be scheduled")
		}
	}
}

func TestOverflowRoundTrip(t *testing.T) {
	// 점검 타이머 발화 시점에 경계가 표현 가능 범위로 들어오면 직접 타이머가 되어야 함
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	boundary := now.Add(constants.MaxTimerDelay + 48*time.Hour)

	first := computeTiming(BoundaryVotingClose, boundary, now)
	if first.Mode != TimerProbe {
		t.Fatalf("expected initial overflow probe, got %v", first.Mode)
	}

	// 이틀 뒤의 점검 시점에서는 경계가 범위 안에 들어옴
	later := now.Add(2 * constants.RearmProbeInterval)
	second := computeTiming(BoundaryVotingClose, boundary, later)
	if second.Mode != TimerDirect {
		t.Fatalf("expected direct timer after probes, got %v", second.Mode)
	}
	if second.Delay != boundary.Sub(later) {
		t.Errorf("expected delay %s, got %s", boundary.Sub(later), second.Delay)
	}
}

func TestScheduleFiresHandler(t *testing.T) {
	handler := newRecordingHandler()
	store := storage.NewInMemoryStore()
	sched := NewContestScheduler(store, handler, interfaces.SystemClock{})

	now := time.Now()
	c := schedulerContest("c1", now)
	c.SubmissionClose = now.Add(30 * time.Millisecond)
	c.VotingOpen = now.Add(time.Hour)
	c.VotingClose = now.Add(2 * time.Hour)

	sched.Schedule(c)
	defer sched.CancelAll()

	select {
	case kind := <-handler.done:
		if kind != "submission-close" {
			t.Errorf("expected submission-close firing, got %s", kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestScheduleReplacesPriorTimers(t *testing.T) {
	handler := newRecordingHandler()
	store := storage.NewInMemoryStore()
	sched := NewContestScheduler(store, handler, interfaces.SystemClock{})

	now := time.Now()
	c := schedulerContest("c1", now)
	sched.Schedule(c)
	if got := sched.ArmedCount("c1"); got != 3 {
		t.Fatalf("expected 3 armed timers, got %d", got)
	}

	// 재등록 시 이전 타이머는 교체되고 개수는 그대로여야 함
	sched.Schedule(c)
	if got := sched.ArmedCount("c1"); got != 3 {
		t.Errorf("expected 3 armed timers after reschedule, got %d", got)
	}

	sched.Cancel("c1")
	if got := sched.ArmedCount("c1"); got != 0 {
		t.Errorf("expected no timers after cancel, got %d", got)
	}

	if fired := handler.firedBoundaries(); len(fired) != 0 {
		t.Errorf("no boundary should have fired, got %v", fired)
	}
}

func TestEditMovingBoundaryEarlierWins(t *testing.T) {
	handler := newRecordingHandler()
	store := storage.NewInMemoryStore()
	sched := NewContestScheduler(store, handler, interfaces.SystemClock{})
	defer sched.CancelAll()

	now := time.Now()
	c := schedulerContest("c1", now)
	sched.Schedule(c)

	// 수정으로 마감이 코앞으로 당겨진 경우, 새 타이머가 발화해야 함
	edited := *c
	edited.SubmissionClose = now.Add(30 * time.Millisecond)
	sched.Schedule(&edited)

	select {
	case kind := <-handler.done:
		if kind != "submission-close" {
			t.Errorf("expected submission-close firing, got %s", kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("rescheduled timer did not fire")
	}
}

type panickingHandler struct {
	done chan struct{}
}

func (h *panickingHandler) OnSubmissionClose(contestID string) {
	defer close(h.done)
	panic("handler exploded")
}
func (h *panickingHandler) OnVotingOpen(contestID string)  {}
func (h *panickingHandler) OnVotingClose(contestID string) {}

func TestHandlerPanicIsRecovered(t *testing.T) {
	handler := &panickingHandler{done: make(chan struct{})}
	store := storage.NewInMemoryStore()
	sched := NewContestScheduler(store, handler, interfaces.SystemClock{})
	defer sched.CancelAll()

	now := time.Now()
	c := schedulerContest("c1", now)
	c.SubmissionClose = now.Add(20 * time.Millisecond)

	sched.Schedule(c)

	select {
	case <-handler.done:
		// 패닉이 복구되어 테스트 프로세스가 살아 있으면 성공
	case <-time.After(2 * time.Second):
		t.Fatal("panicking handler did not run")
	}
	time.Sleep(50 * time.Millisecond)
}
