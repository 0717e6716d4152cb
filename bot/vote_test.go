package bot

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/storage"
)

func voteFixture(t *testing.T, maxVotes int) (*VoteManager, *storage.InMemoryStore, *models.Contest) {
	t.Helper()

	store := storage.NewInMemoryStore()
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	contest := &models.Contest{
		ID:                    "c1",
		Name:                  "May build-off",
		Kind:                  models.KindImage,
		SubmissionOpen:        now.Add(-72 * time.Hour),
		SubmissionClose:       now.Add(-48 * time.Hour),
		VotingOpen:            now.Add(-time.Hour),
		VotingClose:           now.Add(time.Hour),
		AdminChannelID:        "admin-ch",
		VotingChannelID:       "voting-ch",
		ButtonChannelID:       "button-ch",
		MaxSubmissionsPerUser: 1,
		MaxVotesPerUser:       maxVotes,
	}
	if err := store.SaveContest(contest); err != nil {
		t.Fatalf("SaveContest: %v", err)
	}

	vm := NewVoteManager(store, &fakeClock{now: now}, &fakeRegistry{})
	return vm, store, contest
}

func votePress(voterID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:   discordgo.InteractionMessageComponent,
			Member: &discordgo.Member{User: &discordgo.User{ID: voterID, Username: "voter"}},
		},
	}
}

func countVotes(t *testing.T, store *storage.InMemoryStore, contestID string) int {
	t.Helper()
	votes, err := store.ListVotes(contestID)
	if err != nil {
		t.Fatalf("ListVotes: %v", err)
	}
	return len(votes)
}

func TestVotePressRecordsVote(t *testing.T) {
	vm, store, contest := voteFixture(t, 1)

	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s1")

	if got := countVotes(t, store, contest.ID); got != 1 {
		t.Fatalf("vote rows = %d, want 1", got)
	}
}

func TestVoteQuotaBlocksSecondSubmission(t *testing.T) {
	vm, store, contest := voteFixture(t, 1)

	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s1")
	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s2")

	if got := countVotes(t, store, contest.ID); got != 1 {
		t.Errorf("vote rows = %d, want quota of 1 enforced", got)
	}

	// 다른 투표자의 쿼터에는 영향이 없어야 한다
	vm.handlePress(nil, votePress("voter-2"), contest.ID, "s2")
	if got := countVotes(t, store, contest.ID); got != 2 {
		t.Errorf("vote rows = %d, want 2 after a second voter", got)
	}
}

func TestRevoteSameSubmissionDoesNotConsumeQuota(t *testing.T) {
	vm, store, contest := voteFixture(t, 1)

	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s1")
	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s1")

	if got := countVotes(t, store, contest.ID); got != 1 {
		t.Errorf("vote rows = %d, want overwrite to keep a single row", got)
	}
}

func TestVoteQuotaAboveOne(t *testing.T) {
	vm, store, contest := voteFixture(t, 2)

	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s1")
	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s2")
	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s3")

	if got := countVotes(t, store, contest.ID); got != 2 {
		t.Errorf("vote rows = %d, want 2 with a quota of 2", got)
	}
}

func TestVoteOutsideWindowRejected(t *testing.T) {
	vm, store, contest := voteFixture(t, 1)

	contest.VotingOpen = contest.VotingOpen.Add(-2 * time.Hour)
	contest.VotingClose = contest.VotingOpen.Add(time.Minute)
	if err := store.SaveContest(contest); err != nil {
		t.Fatalf("SaveContest: %v", err)
	}

	vm.handlePress(nil, votePress("voter-1"), contest.ID, "s1")

	if got := countVotes(t, store, contest.ID); got != 0 {
		t.Errorf("vote rows = %d, want 0 after voting closed", got)
	}
}
