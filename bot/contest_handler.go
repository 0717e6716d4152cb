package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/errors"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// ContestHandler 대회 관리 명령어(`!contest ...`)를 처리합니다
type ContestHandler struct {
	ch *CommandHandler
}

// NewContestHandler 새 대회 명령 핸들러를 생성합니다
func NewContestHandler(ch *CommandHandler) *ContestHandler {
	return &ContestHandler{ch: ch}
}

// HandleContest contest 하위 명령어를 라우팅합니다.
// 조회용 하위 명령(list, status)만 일반 사용자에게 열려 있습니다.
func (h *ContestHandler) HandleContest(s *discordgo.Session, m *discordgo.MessageCreate, params []string, isAdmin bool) {
	if len(params) == 0 {
		h.reply(s, m, constants.MsgContestUsage)
		return
	}

	sub := params[0]
	rest := params[1:]

	switch sub {
	case "list":
		h.handleList(s, m)
	case "status":
		h.handleStatus(s, m, rest)
	case "create":
		if !isAdmin {
			h.reply(s, m, constants.MsgAdminOnly)
			return
		}
		h.handleCreate(s, m, rest)
	case "edit":
		if !isAdmin {
			h.reply(s, m, constants.MsgAdminOnly)
			return
		}
		h.handleEdit(s, m, rest)
	case "remove":
		if !isAdmin {
			h.reply(s, m, constants.MsgAdminOnly)
			return
		}
		h.handleRemove(s, m, rest)
	default:
		h.reply(s, m, constants.MsgUnknownSubcommand)
	}
}

// handleCreate 새 대회를 만듭니다. 기존 대회는 모두 정리한 뒤
// (타이머 취소, 버튼/공지 철거, 데이터 연쇄 삭제) 새 대회 하나만 남깁니다.
func (h *ContestHandler) handleCreate(s *discordgo.Session, m *discordgo.MessageCreate, params []string) {
	if len(params) < 4 {
		h.reply(s, m, constants.MsgContestCreateUsage)
		return
	}

	deps := h.ch.deps
	now := deps.Clock.Now()

	contest := &models.Contest{}
	var err error
	contest.SubmissionOpen, err = utils.ParseContestDate(params[0], now)
	if err == nil {
		contest.SubmissionClose, err = utils.ParseContestDate(params[1], now)
	}
	if err == nil {
		contest.VotingOpen, err = utils.ParseContestDate(params[2], now)
	}
	if err == nil {
		contest.VotingClose, err = utils.ParseContestDate(params[3], now)
	}
	if err != nil {
		h.reply(s, m, fmt.Sprintf(constants.MsgInvalidDate, err.Error()))
		return
	}

	contest.ID = uuid.NewString()
	contest.Name = strings.TrimSpace(strings.Join(params[4:], " "))
	if contest.Name == "" {
		contest.Name = fmt.Sprintf("Build of the Month %s", contest.VotingClose.Format("January 2006"))
	}
	kind, ok := models.ParseSubmissionKind(deps.Config.Contest.SubmissionKind)
	if !ok {
		kind = models.KindImage
	}
	contest.Kind = kind
	contest.AdminChannelID = deps.Config.Channels.AdminChannelID
	contest.VotingChannelID = deps.Config.Channels.VotingChannelID
	contest.ButtonChannelID = deps.Config.Channels.ButtonChannelID
	contest.AnnouncementChannelID = deps.Config.Channels.AnnouncementChannelID
	contest.MaxSubmissionsPerUser = deps.Config.Contest.MaxSubmissionsPerUser
	contest.MaxVotesPerUser = deps.Config.Contest.MaxVotesPerUser

	if appErr := contest.Validate(); appErr != nil {
		h.reply(s, m, appErr.GetUserMessage())
		return
	}

	// 이전 대회를 모두 정리합니다 (한 번에 하나의 대회만 운영)
	existing, err := deps.Store.ListContests()
	if err != nil {
		utils.Error("Failed to list contests before create: %v", err)
		h.reply(s, m, constants.MsgTryAgain)
		return
	}
	for _, old := range existing {
		h.teardownContest(old)
	}

	// 제출 버튼을 먼저 게시해 참조를 가진 채로 저장합니다
	if msg, err := deps.Messenger.Post(contest.ButtonChannelID, submitButtonMessage(contest)); err != nil {
		utils.Error("Failed to post submit button for %s: %v", contest.ID, err)
	} else {
		contest.SubmitButtonMessageID = msg.ID
	}

	if err := deps.Store.SaveContest(contest); err != nil {
		utils.Error("Failed to save new contest: %v", err)
		h.reply(s, m, constants.MsgTryAgain)
		return
	}

	deps.SubmitFlow.AttachSubmitButton(contest.ID)
	deps.Scheduler.Schedule(contest)

	if err := errors.SendDiscordSuccess(s, m.ChannelID, constants.MsgContestCreated); err != nil {
		utils.Error("Failed to send create confirmation: %v", err)
	}
	h.sendEmbed(s, m, contestEmbed(contest))
}

// handleEdit 대회의 필드 하나를 수정하고 타이머를 다시 겁니다
func (h *ContestHandler) handleEdit(s *discordgo.Session, m *discordgo.MessageCreate, params []string) {
	if len(params) < 3 {
		h.reply(s, m, constants.MsgContestEditUsage)
		return
	}

	deps := h.ch.deps
	contestID, field := params[0], strings.ToLower(params[1])
	value := strings.Join(params[2:], " ")

	contest, err := deps.Store.FindContest(contestID)
	if err != nil {
		utils.Error("Failed to load contest %s for edit: %v", contestID, err)
		h.reply(s, m, constants.MsgTryAgain)
		return
	}
	if contest == nil {
		h.reply(s, m, constants.MsgContestNotFound)
		return
	}

	now := deps.Clock.Now()
	switch field {
	case "name":
		contest.Name = value
	case "kind":
		kind, ok := models.ParseSubmissionKind(value)
		if !ok {
			h.reply(s, m, constants.MsgContestEditUsage)
			return
		}
		contest.Kind = kind
	case "subopen", "subclose", "voteopen", "voteclose":
		t, err := utils.ParseContestDate(value, now)
		if err != nil {
			h.reply(s, m, fmt.Sprintf(constants.MsgInvalidDate, err.Error()))
			return
		}
		switch field {
		case "subopen":
			contest.SubmissionOpen = t
		case "subclose":
			contest.SubmissionClose = t
		case "voteopen":
			contest.VotingOpen = t
		case "voteclose":
			contest.VotingClose = t
		}
	case "subquota", "votequota":
		n, err := strconv.Atoi(value)
		if err != nil {
			h.reply(s, m, constants.MsgContestEditUsage)
			return
		}
		if field == "subquota" {
			contest.MaxSubmissionsPerUser = n
		} else {
			contest.MaxVotesPerUser = n
		}
	default:
		h.reply(s, m, constants.MsgContestEditUsage)
		return
	}

	if appErr := contest.Validate(); appErr != nil {
		h.reply(s, m, appErr.GetUserMessage())
		return
	}

	if err := deps.Store.SaveContest(contest); err != nil {
		utils.Error("Failed to save edited contest %s: %v", contestID, err)
		h.reply(s, m, constants.MsgTryAgain)
		return
	}

	// 경계가 움직였을 수 있으므로 무조건 타이머를 다시 겁니다
	deps.Scheduler.Schedule(contest)

	if err := errors.SendDiscordSuccess(s, m.ChannelID, constants.MsgContestEdited); err != nil {
		utils.Error("Failed to send edit confirmation: %v", err)
	}
	h.sendEmbed(s, m, contestEmbed(contest))
}

// handleList 모든 대회를 나열합니다
func (h *ContestHandler) handleList(s *discordgo.Session, m *discordgo.MessageCreate) {
	contests, err := h.ch.deps.Store.ListContests()
	if err != nil {
		utils.Error("Failed to list contests: %v", err)
		h.reply(s, m, constants.MsgTryAgain)
		return
	}
	if len(contests) == 0 {
		h.reply(s, m, constants.MsgNoContests)
		return
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(contests))
	for _, c := range contests {
		embeds = append(embeds, contestEmbed(c))
	}
	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf(constants.MsgContestListHeader, len(contests)),
		Embeds:  embeds,
	})
	if err != nil {
		utils.Error("Failed to send contest list: %v", err)
	}
}

// handleStatus 대회 하나의 상태와 걸린 타이머 수를 보여줍니다
func (h *ContestHandler) handleStatus(s *discordgo.Session, m *discordgo.MessageCreate, params []string) {
	if len(params) < 1 {
		h.reply(s, m, constants.MsgContestStatusUsage)
		return
	}

	deps := h.ch.deps
	contest, err := deps.Store.FindContest(params[0])
	if err != nil {
		utils.Error("Failed to load contest %s for status: %v", params[0], err)
		h.reply(s, m, constants.MsgTryAgain)
		return
	}
	if contest == nil {
		h.reply(s, m, constants.MsgContestNotFound)
		return
	}

	embed := contestEmbed(contest)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Armed timers",
		Value:  strconv.Itoa(deps.Scheduler.ArmedCount(contest.ID)),
		Inline: true,
	})
	h.sendEmbed(s, m, embed)
}

// handleRemove 대회와 그에 딸린 제출물/투표/타이머/메시지를 제거합니다
func (h *ContestHandler) handleRemove(s *discordgo.Session, m *discordgo.MessageCreate, params []string) {
	if len(params) < 1 {
		h.reply(s, m, constants.MsgContestRemoveUsage)
		return
	}

	deps := h.ch.deps
	contest, err := deps.Store.FindContest(params[0])
	if err != nil {
		utils.Error("Failed to load contest %s for removal: %v", params[0], err)
		h.reply(s, m, constants.MsgTryAgain)
		return
	}
	if contest == nil {
		h.reply(s, m, constants.MsgContestNotFound)
		return
	}

	h.teardownContest(contest)

	if err := errors.SendDiscordSuccess(s, m.ChannelID, constants.MsgContestRemoved); err != nil {
		utils.Error("Failed to send removal confirmation: %v", err)
	}
}

// teardownContest 대회 하나를 완전히 걷어냅니다: 타이머 취소, 컴포넌트 철회,
// 살아있는 봇 메시지 철거와 잔여 메시지 정리, 데이터 연쇄 삭제.
func (h *ContestHandler) teardownContest(contest *models.Contest) {
	deps := h.ch.deps

	deps.Scheduler.Cancel(contest.ID)
	deps.Registry.Retract(constants.SubmitButtonPrefix + contest.ID)

	if subs, err := deps.Store.ListSubmissions(contest.ID); err == nil {
		for _, sub := range subs {
			deps.Registry.Retract(constants.VoteButtonPrefix + sub.ID)
		}
	} else {
		utils.Warn("Failed to list submissions of %s during teardown: %v", contest.ID, err)
	}

	if contest.SubmitButtonMessageID != "" {
		if err := deps.Messenger.Delete(contest.ButtonChannelID, contest.SubmitButtonMessageID); err != nil {
			utils.Warn("Failed to delete submit button during teardown of %s: %v", contest.ID, err)
		}
	}
	if contest.ClosedNoticeMessageID != "" {
		if err := deps.Messenger.Delete(contest.ButtonChannelID, contest.ClosedNoticeMessageID); err != nil {
			utils.Warn("Failed to delete closed notice during teardown of %s: %v", contest.ID, err)
		}
	}
	deps.Phases.SweepBotMessages(contest)

	if err := deps.Store.DeleteContest(contest.ID); err != nil {
		utils.Error("Failed to delete contest %s: %v", contest.ID, err)
		return
	}
	utils.Info("Contest %s torn down", contest.ID)
}

func (h *ContestHandler) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		utils.Error("Failed to send reply: %v", err)
	}
}

func (h *ContestHandler) sendEmbed(s *discordgo.Session, m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		utils.Error("Failed to send embed: %v", err)
	}
}
