package bot

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/performance"
	"github.com/Offxc/Void-BOTM-Bot/storage"
)

type postRecord struct {
	channelID string
	content   string
}

// fakeMessenger 메신저 호출을 기록하는 테스트 대역
type fakeMessenger struct {
	mu      sync.Mutex
	posts   []postRecord
	edits   []string
	deletes []string
	nextID  int
	// failOn 내용에 이 부분 문자열이 들어간 게시는 실패시킵니다
	failOn string
}

func (m *fakeMessenger) newID() string {
	m.nextID++
	return fmt.Sprintf("m%d", m.nextID)
}

func (m *fakeMessenger) Post(channelID string, send *discordgo.MessageSend) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && strings.Contains(send.Content, m.failOn) {
		return nil, fmt.Errorf("post refused")
	}
	m.posts = append(m.posts, postRecord{channelID, send.Content})
	return &discordgo.Message{ID: m.newID(), ChannelID: channelID}, nil
}

func (m *fakeMessenger) PostText(channelID, content string) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, postRecord{channelID, content})
	return &discordgo.Message{ID: m.newID(), ChannelID: channelID}, nil
}

func (m *fakeMessenger) Edit(channelID, messageID string, edit *discordgo.MessageEdit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, messageID)
	return nil
}

func (m *fakeMessenger) Delete(channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, messageID)
	return nil
}

func (m *fakeMessenger) RecentByAuthor(channelID, authorID string, limit int) ([]*discordgo.Message, error) {
	return nil, nil
}

func (m *fakeMessenger) postContents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	contents := make([]string, len(m.posts))
	for i, p := range m.posts {
		contents[i] = p.content
	}
	return contents
}

// fakeRegistry 등록/철회를 기록하는 테스트 대역
type fakeRegistry struct {
	mu         sync.Mutex
	registered []string
	retracted  []string
}

func (r *fakeRegistry) RegisterButton(customID string, allowedUserIDs []string, handler interfaces.ComponentHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, customID)
}

func (r *fakeRegistry) RegisterModal(customID string, handler interfaces.ComponentHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, customID)
}

func (r *fakeRegistry) Retract(customID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retracted = append(r.retracted, customID)
}

func (r *fakeRegistry) hasRetracted(customID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.retracted {
		if id == customID {
			return true
		}
	}
	return false
}

func transitionFixture(t *testing.T) (*PhaseManager, *storage.InMemoryStore, *fakeMessenger, *fakeRegistry, *models.Contest) {
	t.Helper()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	store := storage.NewInMemoryStore()
	contest := &models.Contest{
		ID:                    "c1",
		Name:                  "May Build of the Month",
		Kind:                  models.KindImage,
		SubmissionOpen:        now.Add(-48 * time.Hour),
		SubmissionClose:       now.Add(-time.Hour),
		VotingOpen:            now,
		VotingClose:           now.Add(48 * time.Hour),
		AdminChannelID:        "admin-ch",
		VotingChannelID:       "voting-ch",
		ButtonChannelID:       "button-ch",
		MaxSubmissionsPerUser: 1,
		MaxVotesPerUser:       1,
		SubmitButtonMessageID: "button-msg",
	}
	if err := store.SaveContest(contest); err != nil {
		t.Fatalf("SaveContest failed: %v", err)
	}

	messenger := &fakeMessenger{}
	registry := &fakeRegistry{}
	clock := &fakeClock{now: now}
	votes := NewVoteManager(store, clock, registry)
	manager := NewPhaseManager(store, messenger, registry, votes, performance.NewAdaptiveConcurrencyManager(), nil)
	return manager, store, messenger, registry, contest
}

func pendingSubmission(id, author string, at time.Time) *models.Submission {
	return &models.Submission{
		ID: id, ContestID: "c1", AuthorID: author,
		Status: models.StatusPending, SubmittedAt: at,
		Images: []string{"https://cdn.example/" + id + ".png"}, Coordinates: "0 64 0",
		MessageRef: constants.PendingMessageRef,
	}
}

func TestOnSubmissionClose(t *testing.T) {
	manager, store, messenger, registry, _ := transitionFixture(t)

	manager.OnSubmissionClose("c1")

	if !registry.hasRetracted(constants.SubmitButtonPrefix + "c1") {
		t.Error("submit button affordance must be retracted")
	}
	if len(messenger.deletes) != 1 || messenger.deletes[0] != "button-msg" {
		t.Errorf("submit button message must be deleted, got %v", messenger.deletes)
	}

	contents := messenger.postContents()
	if len(contents) != 1 || contents[0] != constants.MsgSubmissionsClosed {
		t.Fatalf("expected closed notice post, got %v", contents)
	}

	saved, _ := store.FindContest("c1")
	if saved.SubmitButtonMessageID != "" {
		t.Error("submit button reference must be cleared")
	}
	if saved.ClosedNoticeMessageID == "" {
		t.Error("closed notice reference must be recorded")
	}
}

func TestOnVotingOpenPostsInSubmissionOrder(t *testing.T) {
	manager, store, messenger, _, _ := transitionFixture(t)

	base := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	// 저장 순서를 섞어도 제출 시각 순으로 게시되어야 함
	for _, s := range []*models.Submission{
		pendingSubmission("s3", "u3", base.Add(3*time.Hour)),
		pendingSubmission("s1", "u1", base.Add(1*time.Hour)),
		pendingSubmission("s2", "u2", base.Add(2*time.Hour)),
	} {
		if err := store.SaveSubmission(s); err != nil {
			t.Fatalf("SaveSubmission failed: %v", err)
		}
	}
	rejected := pendingSubmission("s4", "u4", base)
	rejected.Status = models.StatusRejected
	if err := store.SaveSubmission(rejected); err != nil {
		t.Fatalf("SaveSubmission failed: %v", err)
	}

	manager.OnVotingOpen("c1")

	contents := messenger.postContents()
	// 첫 게시는 투표 시작 공지
	if len(contents) != 4 {
		t.Fatalf("expected announcement plus 3 posts, got %d: %v", len(contents), contents)
	}
	if contents[0] != constants.MsgVotingStarted {
		t.Errorf("first post must be the announcement, got %q", contents[0])
	}
	for i, author := range []string{"u1", "u2", "u3"} {
		if !strings.Contains(contents[i+1], author) {
			t.Errorf("post %d out of order: %q", i+1, contents[i+1])
		}
	}

	subs, _ := store.ListSubmissions("c1")
	for _, sub := range subs {
		if sub.Status == models.StatusRejected {
			if sub.IsPosted() {
				t.Errorf("rejected submission %s must not be posted", sub.ID)
			}
			continue
		}
		if sub.Status != models.StatusApproved {
			t.Errorf("posted submission %s must be approved, got %v", sub.ID, sub.Status)
		}
		if !sub.IsPosted() {
			t.Errorf("posted submission %s must carry a message ref", sub.ID)
		}
	}
}

func TestOnVotingOpenSkipsFailedPost(t *testing.T) {
	manager, store, messenger, _, _ := transitionFixture(t)
	messenger.failOn = "u2"

	base := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	for _, s := range []*models.Submission{
		pendingSubmission("s1", "u1", base.Add(1*time.Hour)),
		pendingSubmission("s2", "u2", base.Add(2*time.Hour)),
		pendingSubmission("s3", "u3", base.Add(3*time.Hour)),
	} {
		if err := store.SaveSubmission(s); err != nil {
			t.Fatalf("SaveSubmission failed: %v", err)
		}
	}

	manager.OnVotingOpen("c1")

	subs, _ := store.ListSubmissions("c1")
	byID := make(map[string]*models.Submission)
	for _, sub := range subs {
		byID[sub.ID] = sub
	}
	if byID["s2"].IsPosted() || byID["s2"].Status != models.StatusPending {
		t.Error("failed post must leave the submission untouched")
	}
	if !byID["s1"].IsPosted() || !byID["s3"].IsPosted() {
		t.Error("one failed post must not block the others")
	}
}

func TestOnVotingCloseFreezesAndAnnounces(t *testing.T) {
	manager, store, messenger, _, _ := transitionFixture(t)

	base := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"s1", "s2", "s3"} {
		s := pendingSubmission(id, "u"+id, base.Add(time.Duration(i)*time.Hour))
		s.Status = models.StatusApproved
		s.MessageRef = "posted-" + id
		if err := store.SaveSubmission(s); err != nil {
			t.Fatalf("SaveSubmission failed: %v", err)
		}
	}
	// s1은 2표, s2는 1표
	for _, v := range []*models.VoteEntry{
		{ContestID: "c1", SubmissionID: "s1", VoterID: "v1"},
		{ContestID: "c1", SubmissionID: "s1", VoterID: "v2"},
		{ContestID: "c1", SubmissionID: "s2", VoterID: "v3"},
	} {
		if err := store.SaveVote(v); err != nil {
			t.Fatalf("SaveVote failed: %v", err)
		}
	}

	manager.OnVotingClose("c1")

	if len(messenger.edits) != 3 {
		t.Errorf("all posted approved submissions must be frozen, got %d edits", len(messenger.edits))
	}

	contents := messenger.postContents()
	var winners []string
	for _, c := range contents {
		if strings.Contains(c, "place") {
			winners = append(winners, c)
		}
	}
	if len(winners) != 3 {
		t.Fatalf("expected 3 placement posts, got %v", winners)
	}
	if !strings.Contains(winners[0], "1st") || !strings.Contains(winners[0], "us1") {
		t.Errorf("wrong first place: %q", winners[0])
	}
	if !strings.Contains(winners[1], "2nd") || !strings.Contains(winners[1], "us2") {
		t.Errorf("wrong second place: %q", winners[1])
	}
	if !strings.Contains(winners[2], "3rd") || !strings.Contains(winners[2], "us3") {
		t.Errorf("wrong third place: %q", winners[2])
	}
}

func TestOnTransitionsWithVanishedContest(t *testing.T) {
	manager, _, messenger, _, _ := transitionFixture(t)

	// 사라진 대회에 대한 발화는 아무 부수효과 없이 끝나야 함
	manager.OnSubmissionClose("ghost")
	manager.OnVotingOpen("ghost")
	manager.OnVotingClose("ghost")

	if len(messenger.postContents()) != 0 {
		t.Errorf("vanished contest must produce no posts, got %v", messenger.postContents())
	}
}
