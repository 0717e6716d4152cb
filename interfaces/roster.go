package interfaces

// RosterChecker 참가자 명단 조회 인터페이스입니다.
// 명단이 구성되지 않은 배포에서는 nil로 두고 검사를 건너뜁니다.
type RosterChecker interface {
	IsOnRoster(username string) (bool, error)
}
