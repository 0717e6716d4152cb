package interfaces

import (
	"github.com/Offxc/Void-BOTM-Bot/models"
)

// ContestStore 대회/제출물/투표 영속화를 위한 인터페이스입니다.
// 조회 메서드는 대상이 없으면 (nil, nil)을 반환하며, 오류는 일시적인
// 협력자 장애를 뜻합니다. 호출 지점이 건너뛸지 중단할지를 결정합니다.
type ContestStore interface {
	// 대회 작업
	FindContest(id string) (*models.Contest, error)
	ListContests() ([]*models.Contest, error)
	SaveContest(c *models.Contest) error
	// DeleteContest는 해당 대회의 제출물과 투표도 함께 삭제합니다
	DeleteContest(id string) error

	// 제출물 작업
	ListSubmissions(contestID string) ([]*models.Submission, error)
	SaveSubmission(s *models.Submission) error

	// 투표 작업. SaveVote는 (투표자, 제출물) 기준으로 덮어씁니다.
	ListVotes(contestID string) ([]*models.VoteEntry, error)
	SaveVote(v *models.VoteEntry) error

	// 리소스 정리
	Close() error
}
