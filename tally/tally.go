package tally

import (
	"fmt"
	"sort"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/models"
)

// Ranked 집계 결과 한 줄입니다
type Ranked struct {
	Submission *models.Submission
	Votes      int
	Placement  int // 1부터 시작
}

// Rank 투표를 집계해 상위 제출물을 순위대로 반환합니다.
// 순수 함수이며 입력 순서와 무관하게 항상 같은 결과를 냅니다.
// 규칙: 승인된 제출물만 집계, 득표수 내림차순, 동점이면 제출 시각 오름차순,
// 그래도 같으면 제출물 ID 사전순. 상위 셋만 반환합니다.
func Rank(submissions []*models.Submission, votes []*models.VoteEntry) []Ranked {
	approved := make(map[string]*models.Submission)
	for _, sub := range submissions {
		if sub.Status == models.StatusApproved {
			approved[sub.ID] = sub
		}
	}

	counts := make(map[string]int)
	for _, v := range votes {
		// 사라진/미승인 제출물에 대한 투표는 무시합니다
		if _, ok := approved[v.SubmissionID]; ok {
			counts[v.SubmissionID]++
		}
	}

	ranked := make([]Ranked, 0, len(approved))
	for id, sub := range approved {
		ranked = append(ranked, Ranked{Submission: sub, Votes: counts[id]})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		if !a.Submission.SubmittedAt.Equal(b.Submission.SubmittedAt) {
			return a.Submission.SubmittedAt.Before(b.Submission.SubmittedAt)
		}
		return a.Submission.ID < b.Submission.ID
	})

	if len(ranked) > constants.TopWinnerCount {
		ranked = ranked[:constants.TopWinnerCount]
	}
	for i := range ranked {
		ranked[i].Placement = i + 1
	}
	return ranked
}

// PlacementLabel 순위의 영어 서수 표기를 반환합니다
func PlacementLabel(placement int) string {
	switch placement {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", placement)
	}
}
