package interfaces

import "time"

// MetricsReporter 운영 지표 보고 인터페이스입니다. 텔레메트리가 꺼진
// 배포에서는 nil로 두며, 호출자는 nil 검사 후에 사용합니다.
type MetricsReporter interface {
	IncrementCounter(name string, labels map[string]string)
	RecordDuration(name string, d time.Duration)
}
