package storage

import (
	"github.com/Offxc/Void-BOTM-Bot/cache"
	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
)

const contestListCacheKey = "contests:all"

// CachedStore 대회 조회에 TTL 캐시를 적용하는 저장소 래퍼입니다.
// 쓰기/삭제 시 관련 캐시 항목을 무효화합니다.
type CachedStore struct {
	inner interfaces.ContestStore
	cache *cache.TTLCache
}

// NewCachedStore 캐시 래퍼를 생성하고 백그라운드 정리 워커를 시작합니다.
func NewCachedStore(inner interfaces.ContestStore) *CachedStore {
	c := cache.NewTTLCache()
	c.StartCleanupWorker(constants.CacheCleanupInterval)
	return &CachedStore{inner: inner, cache: c}
}

func contestCacheKey(id string) string {
	return "contest:" + id
}

// FindContest 캐시를 먼저 확인하고, 없으면 내부 저장소에서 조회합니다.
func (s *CachedStore) FindContest(id string) (*models.Contest, error) {
	if v, ok := s.cache.Get(contestCacheKey(id)); ok {
		if c, ok := v.(*models.Contest); ok {
			copied := *c
			return &copied, nil
		}
	}

	c, err := s.inner.FindContest(id)
	if err != nil {
		return nil, err
	}
	if c != nil {
		copied := *c
		s.cache.Set(contestCacheKey(id), &copied, constants.ContestCacheTTL)
	}
	return c, nil
}

// ListContests 목록은 별도 키로 캐시합니다.
func (s *CachedStore) ListContests() ([]*models.Contest, error) {
	if v, ok := s.cache.Get(contestListCacheKey); ok {
		if list, ok := v.([]*models.Contest); ok {
			result := make([]*models.Contest, len(list))
			for i, c := range list {
				copied := *c
				result[i] = &copied
			}
			return result, nil
		}
	}

	list, err := s.inner.ListContests()
	if err != nil {
		return nil, err
	}
	cachedList := make([]*models.Contest, len(list))
	for i, c := range list {
		copied := *c
		cachedList[i] = &copied
	}
	s.cache.Set(contestListCacheKey, cachedList, constants.ContestCacheTTL)
	return list, nil
}

// SaveContest 저장 후 해당 대회와 목록 캐시를 무효화합니다.
func (s *CachedStore) SaveContest(c *models.Contest) error {
	if err := s.inner.SaveContest(c); err != nil {
		return err
	}
	s.cache.Delete(contestCacheKey(c.ID))
	s.cache.Delete(contestListCacheKey)
	return nil
}

// DeleteContest 삭제 후 해당 대회와 목록 캐시를 무효화합니다.
func (s *CachedStore) DeleteContest(id string) error {
	if err := s.inner.DeleteContest(id); err != nil {
		return err
	}
	s.cache.Delete(contestCacheKey(id))
	s.cache.Delete(contestListCacheKey)
	return nil
}

// ListSubmissions 제출물은 투표 집계의 정확성을 위해 캐시하지 않습니다.
func (s *CachedStore) ListSubmissions(contestID string) ([]*models.Submission, error) {
	return s.inner.ListSubmissions(contestID)
}

func (s *CachedStore) SaveSubmission(sub *models.Submission) error {
	return s.inner.SaveSubmission(sub)
}

// ListVotes 투표도 캐시하지 않습니다.
func (s *CachedStore) ListVotes(contestID string) ([]*models.VoteEntry, error) {
	return s.inner.ListVotes(contestID)
}

func (s *CachedStore) SaveVote(v *models.VoteEntry) error {
	return s.inner.SaveVote(v)
}

// Close 캐시를 비우고 내부 저장소를 종료합니다.
func (s *CachedStore) Close() error {
	s.cache.Clear()
	return s.inner.Close()
}
