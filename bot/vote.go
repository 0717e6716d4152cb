package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// VoteManager 공개 제출물 메시지의 투표 버튼을 관리합니다.
// 투표 창 검사와 투표자별 쿼터 강제는 여기서 이뤄지고,
// 집계는 저장된 행을 그대로 셉니다.
type VoteManager struct {
	store    interfaces.ContestStore
	clock    interfaces.Clock
	registry interfaces.AffordanceRegistry
}

// NewVoteManager 새 투표 매니저를 생성합니다
func NewVoteManager(store interfaces.ContestStore, clock interfaces.Clock, registry interfaces.AffordanceRegistry) *VoteManager {
	return &VoteManager{store: store, clock: clock, registry: registry}
}

// Attach 게시된 제출물의 투표 버튼 핸들러를 등록합니다
func (v *VoteManager) Attach(contestID, submissionID string) {
	v.registry.RegisterButton(constants.VoteButtonPrefix+submissionID, nil,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			v.handlePress(s, i, contestID, submissionID)
		})
}

// Detach 투표 버튼 등록을 해제합니다. 투표 마감 시 호출됩니다.
func (v *VoteManager) Detach(submissionID string) {
	v.registry.Retract(constants.VoteButtonPrefix + submissionID)
}

// handlePress 투표 버튼 클릭을 처리합니다
func (v *VoteManager) handlePress(s *discordgo.Session, i *discordgo.InteractionCreate, contestID, submissionID string) {
	voterID := interactionUserID(i)

	contest, err := v.store.FindContest(contestID)
	if err != nil {
		utils.Error("Failed to load contest %s for vote: %v", contestID, err)
		respondEphemeral(s, i, constants.MsgVoteFailed)
		return
	}
	if contest == nil {
		respondEphemeral(s, i, constants.MsgContestNotFound)
		return
	}

	if !contest.VotingWindowContains(v.clock.Now()) {
		respondEphemeral(s, i, constants.MsgVoteNotOpen)
		return
	}

	votes, err := v.store.ListVotes(contestID)
	if err != nil {
		utils.Error("Failed to load votes of %s: %v", contestID, err)
		respondEphemeral(s, i, constants.MsgVoteFailed)
		return
	}

	mine := 0
	alreadyVotedThis := false
	for _, vote := range votes {
		if vote.VoterID != voterID {
			continue
		}
		mine++
		if vote.SubmissionID == submissionID {
			alreadyVotedThis = true
		}
	}
	// 같은 제출물 재투표는 덮어쓰기이므로 쿼터를 추가로 쓰지 않습니다
	if !alreadyVotedThis && mine >= contest.MaxVotesPerUser {
		respondEphemeral(s, i, constants.MsgVoteQuota)
		return
	}

	entry := &models.VoteEntry{ContestID: contestID, SubmissionID: submissionID, VoterID: voterID}
	if err := v.store.SaveVote(entry); err != nil {
		utils.Error("Failed to save vote by %s on %s: %v", voterID, submissionID, err)
		respondEphemeral(s, i, constants.MsgVoteFailed)
		return
	}

	utils.Debug("Recorded vote by %s on submission %s", voterID, submissionID)
	respondEphemeral(s, i, constants.MsgVoteRecorded)
}
