package interfaces

import "time"

// Clock 현재 시각의 출처입니다. 스케줄러와 드래프트 머신은 테스트에서
// 시간을 주입할 수 있도록 time.Now를 직접 호출하지 않습니다.
type Clock interface {
	Now() time.Time
}

// SystemClock 벽시계를 그대로 쓰는 기본 구현입니다
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
