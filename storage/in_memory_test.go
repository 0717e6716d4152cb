package storage

import (
	"testing"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/models"
)

func testContest(id string) *models.Contest {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &models.Contest{
		ID:                    id,
		Name:                  "Test Contest " + id,
		Kind:                  models.KindImage,
		SubmissionOpen:        now,
		SubmissionClose:       now.Add(24 * time.Hour),
		VotingOpen:            now.Add(24 * time.Hour),
		VotingClose:           now.Add(48 * time.Hour),
		MaxSubmissionsPerUser: 1,
		MaxVotesPerUser:       1,
	}
}

func TestInMemoryStoreContests(t *testing.T) {
	store := NewInMemoryStore()

	// 없는 대회는 (nil, nil)
	c, err := store.FindContest("missing")
	if err != nil {
		t.Fatalf("FindContest returned error: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil for missing contest, got %+v", c)
	}

	if err := store.SaveContest(testContest("c1")); err != nil {
		t.Fatalf("SaveContest failed: %v", err)
	}

	c, err = store.FindContest("c1")
	if err != nil || c == nil {
		t.Fatalf("FindContest failed: %v, %v", c, err)
	}
	if c.Name != "Test Contest c1" {
		t.Errorf("unexpected contest name: %s", c.Name)
	}

	// 반환된 복사본을 수정해도 저장소에 영향이 없어야 함
	c.Name = "mutated"
	again, _ := store.FindContest("c1")
	if again.Name != "Test Contest c1" {
		t.Errorf("store copy was mutated through returned pointer")
	}

	list, err := store.ListContests()
	if err != nil {
		t.Fatalf("ListContests failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 contest, got %d", len(list))
	}
}

func TestInMemoryStoreDeleteCascades(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.SaveContest(testContest("c1")); err != nil {
		t.Fatalf("SaveContest failed: %v", err)
	}
	sub := &models.Submission{ID: "s1", ContestID: "c1", AuthorID: "u1", SubmittedAt: time.Now()}
	if err := store.SaveSubmission(sub); err != nil {
		t.Fatalf("SaveSubmission failed: %v", err)
	}
	vote := &models.VoteEntry{ContestID: "c1", SubmissionID: "s1", VoterID: "u2"}
	if err := store.SaveVote(vote); err != nil {
		t.Fatalf("SaveVote failed: %v", err)
	}

	if err := store.DeleteContest("c1"); err != nil {
		t.Fatalf("DeleteContest failed: %v", err)
	}

	subs, _ := store.ListSubmissions("c1")
	if len(subs) != 0 {
		t.Errorf("expected submissions deleted with contest, got %d", len(subs))
	}
	votes, _ := store.ListVotes("c1")
	if len(votes) != 0 {
		t.Errorf("expected votes deleted with contest, got %d", len(votes))
	}
}

func TestInMemoryStoreVoteUpsert(t *testing.T) {
	store := NewInMemoryStore()

	// 같은 (투표자, 제출물) 재투표는 덮어쓰기
	if err := store.SaveVote(&models.VoteEntry{ContestID: "c1", SubmissionID: "s1", VoterID: "u1"}); err != nil {
		t.Fatalf("SaveVote failed: %v", err)
	}
	if err := store.SaveVote(&models.VoteEntry{ContestID: "c1", SubmissionID: "s1", VoterID: "u1"}); err != nil {
		t.Fatalf("SaveVote failed: %v", err)
	}
	votes, err := store.ListVotes("c1")
	if err != nil {
		t.Fatalf("ListVotes failed: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected repeat vote to overwrite, got %d entries", len(votes))
	}

	// 다른 제출물에 대한 투표는 별도 행
	if err := store.SaveVote(&models.VoteEntry{ContestID: "c1", SubmissionID: "s2", VoterID: "u1"}); err != nil {
		t.Fatalf("SaveVote failed: %v", err)
	}
	votes, _ = store.ListVotes("c1")
	if len(votes) != 2 {
		t.Fatalf("expected distinct submissions to keep distinct rows, got %d", len(votes))
	}
}

func TestCachedStoreInvalidation(t *testing.T) {
	store := NewCachedStore(NewInMemoryStore())

	if err := store.SaveContest(testContest("c1")); err != nil {
		t.Fatalf("SaveContest failed: %v", err)
	}

	// 첫 조회로 캐시 채우기
	c, err := store.FindContest("c1")
	if err != nil || c == nil {
		t.Fatalf("FindContest failed: %v, %v", c, err)
	}

	// 저장 시 캐시가 무효화되어 새 값이 보여야 함
	updated := testContest("c1")
	updated.Name = "Updated"
	if err := store.SaveContest(updated); err != nil {
		t.Fatalf("SaveContest failed: %v", err)
	}

	c, err = store.FindContest("c1")
	if err != nil || c == nil {
		t.Fatalf("FindContest after update failed: %v, %v", c, err)
	}
	if c.Name != "Updated" {
		t.Errorf("expected cache invalidation on save, got stale name %s", c.Name)
	}

	if err := store.DeleteContest("c1"); err != nil {
		t.Fatalf("DeleteContest failed: %v", err)
	}
	c, err = store.FindContest("c1")
	if err != nil {
		t.Fatalf("FindContest after delete failed: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil after delete, got %+v", c)
	}
}
