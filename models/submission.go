package models

import (
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

// SubmissionStatus 제출물의 공개 상태입니다
type SubmissionStatus string

const (
	// StatusPending 접수됐지만 아직 공개되지 않음
	StatusPending SubmissionStatus = "pending"
	// StatusApproved 투표 시작 시 공개 채널에 게시됨
	StatusApproved SubmissionStatus = "approved"
	// StatusRejected 쿼터 계산과 집계에서 제외됨
	StatusRejected SubmissionStatus = "rejected"
)

// Submission 한 건의 대회 제출물입니다
type Submission struct {
	ID        string           `firestore:"-"` // 대회 안에서 유일한 문서 ID
	ContestID string           `firestore:"contestId"`
	AuthorID  string           `firestore:"authorId"`
	Status    SubmissionStatus `firestore:"status"`

	// 텍스트 종류 대회용 필드
	Title string `firestore:"title,omitempty"`
	Body  string `firestore:"body,omitempty"`

	// 이미지 종류 대회용 필드
	Images      []string `firestore:"submissionImages,omitempty"`
	Coordinates string   `firestore:"buildCoordinates,omitempty"`

	SubmittedAt time.Time `firestore:"submittedAt"`

	// 공개 채널에 게시된 메시지 ID. 아직 게시 전이면 센티널 값입니다.
	MessageRef string `firestore:"messageRef"`
}

// IsPosted 공개 채널에 실제로 게시됐는지 확인합니다
func (s *Submission) IsPosted() bool {
	return s.MessageRef != "" && s.MessageRef != constants.PendingMessageRef
}

// CountsTowardQuota 사용자 쿼터 계산에 포함되는지 확인합니다
func (s *Submission) CountsTowardQuota() bool {
	return s.Status != StatusRejected
}

// VoteEntry 한 명의 투표자가 한 제출물에 남긴 투표 기록입니다.
// (투표자, 제출물)당 최대 하나이며 같은 제출물 재투표는 덮어쓰기입니다.
// 투표자별 쿼터의 강제는 투표를 받는 쪽의 책임이고,
// 집계는 저장된 행을 그대로 믿고 셉니다.
type VoteEntry struct {
	ContestID    string `firestore:"contestId"`
	SubmissionID string `firestore:"submissionId"`
	VoterID      string `firestore:"voterId"`
}

// Key 저장소에서 쓰는 (투표자, 제출물) 복합 키입니다
func (v *VoteEntry) Key() string {
	return v.VoterID + "_" + v.SubmissionID
}
