package models

import (
	"fmt"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/errors"
)

// SubmissionKind 대회가 받는 제출물의 종류입니다
type SubmissionKind string

const (
	KindText  SubmissionKind = "text"
	KindImage SubmissionKind = "image"
)

// ParseSubmissionKind 문자열을 SubmissionKind로 변환합니다
func ParseSubmissionKind(s string) (SubmissionKind, bool) {
	switch SubmissionKind(s) {
	case KindText:
		return KindText, true
	case KindImage:
		return KindImage, true
	default:
		return "", false
	}
}

// RequiresReview 제출 확정 시 운영진 검토 메시지를 전달해야 하는 종류인지 확인합니다
func (k SubmissionKind) RequiresReview() bool {
	return k == KindImage
}

// Contest 하나의 대회와 네 개의 단계 경계를 나타냅니다
type Contest struct {
	ID   string `firestore:"-"` // Firestore 문서 ID
	Name string `firestore:"name"`

	Kind SubmissionKind `firestore:"submissionKind"`

	SubmissionOpen  time.Time `firestore:"submissionOpenedDate"`
	SubmissionClose time.Time `firestore:"submissionClosedDate"`
	VotingOpen      time.Time `firestore:"votingOpenedDate"`
	VotingClose     time.Time `firestore:"votingClosedDate"`

	AdminChannelID        string `firestore:"adminChannelId"`
	VotingChannelID       string `firestore:"votingChannelId"`
	ButtonChannelID       string `firestore:"submissionButtonChannelId"`
	AnnouncementChannelID string `firestore:"announcementChannelId,omitempty"`

	MaxSubmissionsPerUser int `firestore:"maxSubmissionsPerUser"`
	MaxVotesPerUser       int `firestore:"maxVotesPerUser"`

	// 살아있는 봇 메시지 참조: 각각 최대 하나만 존재하며, 하나를 게시하면 다른 것은 내립니다
	SubmitButtonMessageID string `firestore:"submissionButtonMessageId,omitempty"`
	ClosedNoticeMessageID string `firestore:"submissionsClosedMessageId,omitempty"`
}

// boundary 검증 메시지에 쓰이는 경계 이름 쌍
var boundaryOrder = []struct {
	earlier, later string
}{
	{"submission open date", "submission close date"},
	{"submission close date", "voting open date"},
	{"voting open date", "voting close date"},
}

// Validate 대회의 불변식을 검사합니다. 경계 순서 위반은 검증 오류이며
// 생성과 수정 시점에 모두 적용됩니다.
func (c *Contest) Validate() *errors.AppError {
	if c.Name == "" {
		return errors.NewValidationError("CONTEST_EMPTY_NAME",
			"contest name is empty",
			"Contest name must not be empty.")
	}

	if _, ok := ParseSubmissionKind(string(c.Kind)); !ok {
		return errors.NewValidationError("CONTEST_INVALID_KIND",
			fmt.Sprintf("invalid submission kind: %s", c.Kind),
			"Submission kind must be `text` or `image`.")
	}

	boundaries := []time.Time{c.SubmissionOpen, c.SubmissionClose, c.VotingOpen, c.VotingClose}
	for i := 0; i < len(boundaries)-1; i++ {
		if boundaries[i].After(boundaries[i+1]) {
			pair := boundaryOrder[i]
			return errors.NewValidationError("CONTEST_BOUNDARY_ORDER",
				fmt.Sprintf("%s is after %s", pair.earlier, pair.later),
				fmt.Sprintf("The %s must not be after the %s.", pair.earlier, pair.later))
		}
	}

	if c.MaxSubmissionsPerUser < 1 {
		return errors.NewValidationError("CONTEST_INVALID_SUBMISSION_QUOTA",
			fmt.Sprintf("invalid submissions-per-user quota: %d", c.MaxSubmissionsPerUser),
			"Submissions per user must be a positive number.")
	}

	if c.MaxVotesPerUser < 1 {
		return errors.NewValidationError("CONTEST_INVALID_VOTE_QUOTA",
			fmt.Sprintf("invalid votes-per-user quota: %d", c.MaxVotesPerUser),
			"Votes per user must be a positive number.")
	}

	return nil
}

// SubmissionWindowContains 주어진 시각이 제출 가능 구간 안인지 확인합니다
func (c *Contest) SubmissionWindowContains(now time.Time) bool {
	return !now.Before(c.SubmissionOpen) && !now.After(c.SubmissionClose)
}

// VotingWindowContains 주어진 시각이 투표 가능 구간 안인지 확인합니다
func (c *Contest) VotingWindowContains(now time.Time) bool {
	return !now.Before(c.VotingOpen) && !now.After(c.VotingClose)
}
