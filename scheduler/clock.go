package scheduler

import (
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/models"
)

// Boundary 대회 국면 전환 경계의 종류입니다
type Boundary int

const (
	BoundarySubmissionClose Boundary = iota
	BoundaryVotingOpen
	BoundaryVotingClose
)

// String 로그용 경계 이름
func (b Boundary) String() string {
	switch b {
	case BoundarySubmissionClose:
		return "submission-close"
	case BoundaryVotingOpen:
		return "voting-open"
	case BoundaryVotingClose:
		return "voting-close"
	default:
		return "unknown"
	}
}

// TimerMode 경계 하나를 어떻게 처리할지 나타냅니다
type TimerMode int

const (
	// TimerPast 경계가 이미 지났으므로 타이머를 걸지 않습니다
	TimerPast TimerMode = iota
	// TimerDirect 최대 타이머 길이 안에 있으므로 경계 시각에 바로 발화합니다
	TimerDirect
	// TimerProbe 최대 타이머 길이를 넘어 있으므로 점검 타이머만 걸고
	// 발화 시점에 남은 거리를 다시 계산합니다
	TimerProbe
)

// BoundaryTiming 경계 하나에 대한 타이머 계산 결과입니다
type BoundaryTiming struct {
	Boundary Boundary
	At       time.Time
	Mode     TimerMode
	// Delay Mode가 TimerDirect면 경계까지의 거리, TimerProbe면 점검 간격입니다
	Delay time.Duration
}

// computeTiming 경계 하나의 타이머 모드와 지연을 계산합니다.
// 타이머 지연이 32비트 밀리초 한계를 넘으면 경계 시각 대신
// 고정 간격 점검 타이머로 대체합니다.
func computeTiming(b Boundary, at, now time.Time) BoundaryTiming {
	remaining := at.Sub(now)

	switch {
	case remaining <= 0:
		return BoundaryTiming{Boundary: b, At: at, Mode: TimerPast}
	case remaining > constants.MaxTimerDelay:
		return BoundaryTiming{Boundary: b, At: at, Mode: TimerProbe, Delay: constants.RearmProbeInterval}
	default:
		return BoundaryTiming{Boundary: b, At: at, Mode: TimerDirect, Delay: remaining}
	}
}

// ComputeTimings 미래를 향한 세 경계에 대한 타이머 계산 결과를 반환합니다.
// 제출 시작 경계는 동작을 유발하지 않고 창만 가르므로 타이머를 걸지 않습니다.
// 이미 지난 경계도 TimerPast로 포함되므로 호출자가 걸러서 사용합니다.
func ComputeTimings(c *models.Contest, now time.Time) []BoundaryTiming {
	return []BoundaryTiming{
		computeTiming(BoundarySubmissionClose, c.SubmissionClose, now),
		computeTiming(BoundaryVotingOpen, c.VotingOpen, now),
		computeTiming(BoundaryVotingClose, c.VotingClose, now),
	}
}
