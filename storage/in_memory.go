package storage

import (
	"sync"

	"github.com/Offxc/Void-BOTM-Bot/errors"
	"github.com/Offxc/Void-BOTM-Bot/models"
)

// InMemoryStore 테스트/로컬 개발용 비영구 저장소 구현입니다
type InMemoryStore struct {
	mu          sync.RWMutex
	contests    map[string]*models.Contest
	submissions map[string]map[string]*models.Submission // contestID -> submissionID
	votes       map[string]map[string]*models.VoteEntry  // contestID -> (voterID, submissionID) 복합 키
}

// NewInMemoryStore 새 인메모리 저장소를 생성합니다
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		contests:    make(map[string]*models.Contest),
		submissions: make(map[string]map[string]*models.Submission),
		votes:       make(map[string]map[string]*models.VoteEntry),
	}
}

// FindContest ID로 대회를 조회합니다. 없으면 (nil, nil)을 반환합니다.
func (s *InMemoryStore) FindContest(id string) (*models.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contests[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

// ListContests 모든 대회를 조회합니다
func (s *InMemoryStore) ListContests() ([]*models.Contest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Contest, 0, len(s.contests))
	for _, c := range s.contests {
		copied := *c
		result = append(result, &copied)
	}
	return result, nil
}

// SaveContest 대회를 저장(생성 또는 덮어쓰기)합니다
func (s *InMemoryStore) SaveContest(c *models.Contest) error {
	if c.ID == "" {
		return errors.NewSystemError("STORE_EMPTY_CONTEST_ID", "contest id is empty", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *c
	s.contests[c.ID] = &copied
	return nil
}

// DeleteContest 대회와 연결된 제출물/투표를 함께 삭제합니다
func (s *InMemoryStore) DeleteContest(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.contests, id)
	delete(s.submissions, id)
	delete(s.votes, id)
	return nil
}

// ListSubmissions 대회의 모든 제출물을 조회합니다
func (s *InMemoryStore) ListSubmissions(contestID string) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.submissions[contestID]
	result := make([]*models.Submission, 0, len(byID))
	for _, sub := range byID {
		copied := *sub
		copied.Images = append([]string(nil), sub.Images...)
		result = append(result, &copied)
	}
	return result, nil
}

// SaveSubmission 제출물을 저장(생성 또는 덮어쓰기)합니다
func (s *InMemoryStore) SaveSubmission(sub *models.Submission) error {
	if sub.ID == "" || sub.ContestID == "" {
		return errors.NewSystemError("STORE_EMPTY_SUBMISSION_ID", "submission id or contest id is empty", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.submissions[sub.ContestID]
	if !ok {
		byID = make(map[string]*models.Submission)
		s.submissions[sub.ContestID] = byID
	}
	copied := *sub
	copied.Images = append([]string(nil), sub.Images...)
	byID[sub.ID] = &copied
	return nil
}

// ListVotes 대회의 모든 투표 기록을 조회합니다
func (s *InMemoryStore) ListVotes(contestID string) ([]*models.VoteEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKey := s.votes[contestID]
	result := make([]*models.VoteEntry, 0, len(byKey))
	for _, v := range byKey {
		copied := *v
		result = append(result, &copied)
	}
	return result, nil
}

// SaveVote 투표를 저장합니다. 같은 (투표자, 제출물)의 이전 투표는 덮어씁니다.
func (s *InMemoryStore) SaveVote(v *models.VoteEntry) error {
	if v.ContestID == "" || v.VoterID == "" || v.SubmissionID == "" {
		return errors.NewSystemError("STORE_EMPTY_VOTE_KEY", "vote key fields are empty", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.votes[v.ContestID]
	if !ok {
		byKey = make(map[string]*models.VoteEntry)
		s.votes[v.ContestID] = byKey
	}
	copied := *v
	byKey[v.Key()] = &copied
	return nil
}

// Close no-op
func (s *InMemoryStore) Close() error {
	return nil
}
