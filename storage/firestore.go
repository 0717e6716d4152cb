package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// FirebaseStore Firestore를 사용하여 대회 데이터를 관리하는 저장소입니다.
// 컬렉션 구조: contests/{id}, contests/{id}/submissions/{id}, contests/{id}/votes/{voterID}
type FirebaseStore struct {
	client         *firestore.Client
	ctx            context.Context
	app            *firebase.App
	reconnectMutex sync.Mutex
}

// 에러 복구 관련 상수
const (
	maxReconnectAttempts = 3
	reconnectDelay       = 2 * time.Second
)

// NewFirebaseStore 새로운 FirebaseStore 인스턴스를 생성하고 Firestore에 연결합니다.
func NewFirebaseStore() (interfaces.ContestStore, error) {
	utils.Info("Initializing Firebase storage system")
	ctx := context.Background()

	firebaseCreds := os.Getenv(constants.EnvFirebaseCredentials)
	if firebaseCreds == "" {
		return nil, fmt.Errorf("%s environment variable not set", constants.EnvFirebaseCredentials)
	}

	opt := option.WithCredentialsJSON([]byte(firebaseCreds))

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %v", err)
	}

	s := &FirebaseStore{
		client: client,
		ctx:    ctx,
		app:    app,
	}

	utils.Info("Firebase storage system initialized successfully")
	return s, nil
}

// GetClient Firestore 클라이언트를 반환합니다 (헬스체크용)
func (s *FirebaseStore) GetClient() interface{} {
	return s.client
}

// reconnectFirestore Firestore 클라이언트를 재연결합니다
func (s *FirebaseStore) reconnectFirestore() error {
	s.reconnectMutex.Lock()
	defer s.reconnectMutex.Unlock()

	utils.Warn("Attempting to reconnect to Firestore")

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		if s.client != nil {
			s.client.Close()
		}

		newClient, err := s.app.Firestore(s.ctx)
		if err != nil {
			utils.Warn("Firestore reconnection attempt %d/%d failed: %v", attempt, maxReconnectAttempts, err)
			if attempt < maxReconnectAttempts {
				time.Sleep(reconnectDelay * time.Duration(attempt)) // 점진적 지연
			}
			continue
		}

		s.client = newClient
		utils.Info("Successfully reconnected to Firestore on attempt %d", attempt)
		return nil
	}

	return fmt.Errorf("failed to reconnect to Firestore after %d attempts", maxReconnectAttempts)
}

// executeWithRetry Firestore 작업을 재시도 로직과 함께 실행합니다
func (s *FirebaseStore) executeWithRetry(operation func() error) error {
	err := operation()
	if err != nil {
		// Firestore 연결 오류인 경우 재연결 시도
		if isFirestoreConnectionError(err) {
			utils.Warn("Detected Firestore connection error, attempting reconnection: %v", err)
			if reconnectErr := s.reconnectFirestore(); reconnectErr != nil {
				return fmt.Errorf("operation failed and reconnection failed: %v (original: %v)", reconnectErr, err)
			}
			// 재연결 성공 시 작업 재시도
			return operation()
		}
	}
	return err
}

// isFirestoreConnectionError Firestore 연결 관련 에러인지 확인합니다
func isFirestoreConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "unavailable") ||
		strings.Contains(errStr, "deadline exceeded")
}

func (s *FirebaseStore) contestDoc(id string) *firestore.DocumentRef {
	return s.client.Collection("contests").Doc(id)
}

// FindContest ID로 대회를 Firestore에서 조회합니다. 없으면 (nil, nil)을 반환합니다.
func (s *FirebaseStore) FindContest(id string) (*models.Contest, error) {
	var contest *models.Contest
	err := s.executeWithRetry(func() error {
		doc, err := s.contestDoc(id).Get(s.ctx)
		if err != nil {
			// 문서가 없는 경우 스냅샷의 Exists가 false를 반환합니다
			if doc != nil && !doc.Exists() {
				contest = nil
				return nil
			}
			return fmt.Errorf("failed to get contest %s: %w", id, err)
		}

		var c models.Contest
		if err := doc.DataTo(&c); err != nil {
			return fmt.Errorf("failed to decode contest %s: %w", id, err)
		}
		c.ID = doc.Ref.ID
		contest = &c
		return nil
	})
	return contest, err
}

// ListContests 모든 대회를 Firestore에서 조회합니다.
func (s *FirebaseStore) ListContests() ([]*models.Contest, error) {
	var contests []*models.Contest
	err := s.executeWithRetry(func() error {
		contests = contests[:0]
		iter := s.client.Collection("contests").Documents(s.ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to iterate contests: %w", err)
			}

			var c models.Contest
			if err := doc.DataTo(&c); err != nil {
				utils.Error("Failed to decode contest %s: %v", doc.Ref.ID, err)
				continue
			}
			c.ID = doc.Ref.ID
			contests = append(contests, &c)
		}
		return nil
	})
	return contests, err
}

// SaveContest 대회를 Firestore에 저장합니다.
func (s *FirebaseStore) SaveContest(c *models.Contest) error {
	if c.ID == "" {
		return fmt.Errorf("contest id is empty")
	}
	return s.executeWithRetry(func() error {
		_, err := s.contestDoc(c.ID).Set(s.ctx, c)
		if err != nil {
			return fmt.Errorf("failed to save contest %s: %w", c.ID, err)
		}
		return nil
	})
}

// DeleteContest 대회 문서와 하위 컬렉션(제출물, 투표)을 모두 삭제합니다.
func (s *FirebaseStore) DeleteContest(id string) error {
	return s.executeWithRetry(func() error {
		for _, sub := range []string{"submissions", "votes"} {
			if err := s.deleteCollection(s.contestDoc(id).Collection(sub)); err != nil {
				return fmt.Errorf("failed to delete %s of contest %s: %w", sub, id, err)
			}
		}
		_, err := s.contestDoc(id).Delete(s.ctx)
		if err != nil {
			return fmt.Errorf("failed to delete contest %s: %w", id, err)
		}
		utils.Info("Deleted contest from Firestore: %s", id)
		return nil
	})
}

// deleteCollection 하위 컬렉션의 모든 문서를 삭제합니다
func (s *FirebaseStore) deleteCollection(col *firestore.CollectionRef) error {
	iter := col.Documents(s.ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := doc.Ref.Delete(s.ctx); err != nil {
			return err
		}
	}
}

// ListSubmissions 대회의 모든 제출물을 Firestore에서 조회합니다.
func (s *FirebaseStore) ListSubmissions(contestID string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := s.executeWithRetry(func() error {
		submissions = submissions[:0]
		iter := s.contestDoc(contestID).Collection("submissions").Documents(s.ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to iterate submissions: %w", err)
			}

			var sub models.Submission
			if err := doc.DataTo(&sub); err != nil {
				utils.Error("Failed to decode submission %s: %v", doc.Ref.ID, err)
				continue
			}
			sub.ID = doc.Ref.ID
			sub.ContestID = contestID
			submissions = append(submissions, &sub)
		}
		return nil
	})
	return submissions, err
}

// SaveSubmission 제출물을 Firestore에 저장합니다.
func (s *FirebaseStore) SaveSubmission(sub *models.Submission) error {
	if sub.ID == "" || sub.ContestID == "" {
		return fmt.Errorf("submission id or contest id is empty")
	}
	return s.executeWithRetry(func() error {
		_, err := s.contestDoc(sub.ContestID).Collection("submissions").Doc(sub.ID).Set(s.ctx, sub)
		if err != nil {
			return fmt.Errorf("failed to save submission %s: %w", sub.ID, err)
		}
		return nil
	})
}

// ListVotes 대회의 모든 투표를 Firestore에서 조회합니다.
func (s *FirebaseStore) ListVotes(contestID string) ([]*models.VoteEntry, error) {
	var votes []*models.VoteEntry
	err := s.executeWithRetry(func() error {
		votes = votes[:0]
		iter := s.contestDoc(contestID).Collection("votes").Documents(s.ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to iterate votes: %w", err)
			}

			var v models.VoteEntry
			if err := doc.DataTo(&v); err != nil {
				utils.Error("Failed to decode vote %s: %v", doc.Ref.ID, err)
				continue
			}
			v.ContestID = contestID
			votes = append(votes, &v)
		}
		return nil
	})
	return votes, err
}

// SaveVote 투표를 Firestore에 저장합니다.
// 문서 ID가 (투표자, 제출물) 복합 키이므로 같은 제출물 재투표는 덮어쓰기입니다.
func (s *FirebaseStore) SaveVote(v *models.VoteEntry) error {
	if v.ContestID == "" || v.VoterID == "" || v.SubmissionID == "" {
		return fmt.Errorf("vote key fields are empty")
	}
	return s.executeWithRetry(func() error {
		_, err := s.contestDoc(v.ContestID).Collection("votes").Doc(v.Key()).Set(s.ctx, v)
		if err != nil {
			return fmt.Errorf("failed to save vote by %s: %w", v.VoterID, err)
		}
		return nil
	})
}

// Close Firestore 클라이언트를 종료합니다.
func (s *FirebaseStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
