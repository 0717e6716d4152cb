package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/performance"
	"github.com/Offxc/Void-BOTM-Bot/tally"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// PhaseManager 경계 발화에 따른 국면 전환의 부수효과를 담당합니다.
// 모든 협력자 호출 실패는 "이 항목 하나를 건너뜀"으로 처리하고 로그를 남깁니다.
// 어떤 실패도 프로세스를 죽이거나 나머지 항목의 처리를 막지 않습니다.
type PhaseManager struct {
	store     interfaces.ContestStore
	messenger interfaces.Messenger
	registry  interfaces.AffordanceRegistry
	votes     *VoteManager
	limiter   *performance.AdaptiveConcurrencyManager
	metrics   interfaces.MetricsReporter
}

// NewPhaseManager 새 국면 전환 매니저를 생성합니다. metrics는 nil일 수 있습니다.
func NewPhaseManager(
	store interfaces.ContestStore,
	messenger interfaces.Messenger,
	registry interfaces.AffordanceRegistry,
	votes *VoteManager,
	limiter *performance.AdaptiveConcurrencyManager,
	metrics interfaces.MetricsReporter,
) *PhaseManager {
	return &PhaseManager{
		store:     store,
		messenger: messenger,
		registry:  registry,
		votes:     votes,
		limiter:   limiter,
		metrics:   metrics,
	}
}

// OnSubmissionClose 제출 마감 전환: 제출 버튼을 내리고 마감 공지로 교체합니다
func (p *PhaseManager) OnSubmissionClose(contestID string) {
	started := time.Now()
	contest, ok := p.loadContest(contestID, "submission-close")
	if !ok {
		return
	}

	// 늦은 클릭이 새 드래프트를 만들지 못하게 버튼 등록부터 철회합니다
	p.registry.Retract(constants.SubmitButtonPrefix + contestID)

	if contest.SubmitButtonMessageID != "" {
		if err := p.messenger.Delete(contest.ButtonChannelID, contest.SubmitButtonMessageID); err != nil {
			utils.Warn("Failed to delete submit button of %s: %v", contestID, err)
		}
		contest.SubmitButtonMessageID = ""
	}
	if contest.ClosedNoticeMessageID != "" {
		if err := p.messenger.Delete(contest.ButtonChannelID, contest.ClosedNoticeMessageID); err != nil {
			utils.Warn("Failed to delete stale closed notice of %s: %v", contestID, err)
		}
		contest.ClosedNoticeMessageID = ""
	}

	if msg, err := p.messenger.PostText(contest.ButtonChannelID, constants.MsgSubmissionsClosed); err != nil {
		utils.Error("Failed to post closed notice for %s: %v", contestID, err)
	} else {
		contest.ClosedNoticeMessageID = msg.ID
	}

	if err := p.store.SaveContest(contest); err != nil {
		utils.Error("Failed to save contest %s after submission close: %v", contestID, err)
	}

	p.SweepBotMessages(contest)
	p.report("submission-close", contestID, started)
}

// OnVotingOpen 투표 시작 전환: 미게시 제출물을 순서대로 공개 채널에 게시합니다
func (p *PhaseManager) OnVotingOpen(contestID string) {
	started := time.Now()
	contest, ok := p.loadContest(contestID, "voting-open")
	if !ok {
		return
	}

	if _, err := p.messenger.PostText(contest.VotingChannelID, constants.MsgVotingStarted); err != nil {
		utils.Error("Failed to announce voting open for %s: %v", contestID, err)
	}

	submissions, err := p.store.ListSubmissions(contestID)
	if err != nil {
		utils.Error("Failed to load submissions of %s for voting open: %v", contestID, err)
		return
	}

	var unposted []*models.Submission
	for _, sub := range submissions {
		if sub.Status == models.StatusRejected {
			continue
		}
		if sub.IsPosted() {
			// 이미 게시된 제출물은 투표 버튼만 다시 살립니다
			p.votes.Attach(contestID, sub.ID)
			continue
		}
		unposted = append(unposted, sub)
	}
	sort.Slice(unposted, func(i, j int) bool {
		return unposted[i].SubmittedAt.Before(unposted[j].SubmittedAt)
	})

	// 제출 순서 보존을 위해 한 번에 하나씩 게시합니다.
	// 게시 실패는 해당 제출물만 건너뜁니다.
	posted := 0
	for _, sub := range unposted {
		msg, err := p.messenger.Post(contest.VotingChannelID, submissionPostMessage(contest, sub))
		if err != nil {
			utils.Error("Failed to post submission %s of %s: %v", sub.ID, contestID, err)
			continue
		}

		sub.Status = models.StatusApproved
		sub.MessageRef = msg.ID
		if err := p.store.SaveSubmission(sub); err != nil {
			utils.Error("Failed to save posted submission %s: %v", sub.ID, err)
			continue
		}
		p.votes.Attach(contestID, sub.ID)
		posted++
	}

	utils.Info("Voting opened for contest %s: posted %d/%d submissions", contestID, posted, len(unposted))
	p.report("voting-open", contestID, started)
}

// OnVotingClose 투표 마감 전환: 메시지를 동결하고 집계 결과를 발표합니다
func (p *PhaseManager) OnVotingClose(contestID string) {
	started := time.Now()
	contest, ok := p.loadContest(contestID, "voting-close")
	if !ok {
		return
	}

	if _, err := p.messenger.PostText(contest.VotingChannelID, constants.MsgVotingEnded); err != nil {
		utils.Error("Failed to announce voting end for %s: %v", contestID, err)
	}

	submissions, err := p.store.ListSubmissions(contestID)
	if err != nil {
		utils.Error("Failed to load submissions of %s for voting close: %v", contestID, err)
		return
	}

	// 게시된 승인 제출물의 투표 버튼을 병렬로 제거합니다.
	// 동결 하나의 실패는 그 메시지만 건너뜁니다.
	var freezeTasks []func()
	for _, sub := range submissions {
		if sub.Status != models.StatusApproved || !sub.IsPosted() {
			continue
		}
		sub := sub
		p.votes.Detach(sub.ID)
		freezeTasks = append(freezeTasks, func() {
			if err := p.messenger.Edit(contest.VotingChannelID, sub.MessageRef, frozenMessageEdit()); err != nil {
				utils.Warn("Failed to freeze message of submission %s: %v", sub.ID, err)
			}
		})
	}
	p.limiter.RunBounded(freezeTasks)

	if _, err := p.messenger.PostText(contest.AdminChannelID, fmt.Sprintf(constants.MsgVotingEndedAdmin, contest.Name)); err != nil {
		utils.Warn("Failed to notify admin channel for %s: %v", contestID, err)
	}

	votes, err := p.store.ListVotes(contestID)
	if err != nil {
		utils.Error("Failed to load votes of %s: %v", contestID, err)
		return
	}
	tallyStarted := time.Now()
	ranked := tally.Rank(submissions, votes)
	if p.metrics != nil {
		p.metrics.RecordDuration("tally_duration", time.Since(tallyStarted))
	}

	dest := contest.AnnouncementChannelID
	if dest == "" {
		dest = contest.AdminChannelID
	}

	if _, err := p.messenger.PostText(dest, resultsHeader(contest, len(ranked))); err != nil {
		utils.Error("Failed to post results header for %s: %v", contestID, err)
	}
	for _, r := range ranked {
		if _, err := p.messenger.Post(dest, winnerMessage(contest, r)); err != nil {
			utils.Error("Failed to post placement %d for %s: %v", r.Placement, contestID, err)
		}
	}

	utils.Info("Voting closed for contest %s: %d placements announced", contestID, len(ranked))
	p.report("voting-close", contestID, started)
}

// SweepBotMessages 버튼 채널에 남은 이 대회의 제출 버튼/마감 공지 메시지를
// 정리합니다. 대회에 기록된 살아있는 참조는 건드리지 않습니다.
func (p *PhaseManager) SweepBotMessages(contest *models.Contest) {
	botID := ""
	if s, ok := p.messenger.(*DiscordMessenger); ok && s.session != nil && s.session.State != nil && s.session.State.User != nil {
		botID = s.session.State.User.ID
	}
	if botID == "" {
		utils.Debug("Skipping message sweep for %s: bot user unknown", contest.ID)
		return
	}

	messages, err := p.messenger.RecentByAuthor(contest.ButtonChannelID, botID, constants.RecentMessageSweepLimit)
	if err != nil {
		utils.Warn("Failed to fetch recent messages for sweep of %s: %v", contest.ID, err)
		return
	}

	for _, msg := range messages {
		if msg.ID == contest.SubmitButtonMessageID || msg.ID == contest.ClosedNoticeMessageID {
			continue
		}
		if !carriesSubmitButton(msg, contest.ID) && !strings.Contains(msg.Content, constants.MsgSubmissionsClosed) {
			continue
		}
		if err := p.messenger.Delete(contest.ButtonChannelID, msg.ID); err != nil {
			utils.Warn("Failed to sweep message %s: %v", msg.ID, err)
		}
	}
}

// carriesSubmitButton 메시지가 해당 대회의 제출 버튼을 달고 있는지 확인합니다
func carriesSubmitButton(msg *discordgo.Message, contestID string) bool {
	target := constants.SubmitButtonPrefix + contestID
	for _, component := range msg.Components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if button, ok := inner.(*discordgo.Button); ok && button.CustomID == target {
				return true
			}
		}
	}
	return false
}

// loadContest 전환 대상 대회를 읽습니다. 없으면 경고만 남기고 전환을 접습니다.
func (p *PhaseManager) loadContest(contestID, phase string) (*models.Contest, bool) {
	contest, err := p.store.FindContest(contestID)
	if err != nil {
		utils.Error("Failed to load contest %s for %s: %v", contestID, phase, err)
		return nil, false
	}
	if contest == nil {
		utils.Warn("Contest %s vanished before %s transition", contestID, phase)
		return nil, false
	}
	return contest, true
}

// report 전환 지표를 보고합니다
func (p *PhaseManager) report(phase, contestID string, started time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.IncrementCounter("phase_transition", map[string]string{"phase": phase})
	p.metrics.RecordDuration("phase_transition_duration", time.Since(started))
	utils.Debug("Reported %s transition metrics for %s", phase, contestID)
}
