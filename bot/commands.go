package bot

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/errors"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// CommandHandler 접두사 명령어를 파싱하고 라우팅합니다
type CommandHandler struct {
	deps           *CommandDependencies
	contestHandler *ContestHandler
}

// NewCommandHandler 새 명령어 핸들러를 생성합니다
func NewCommandHandler(deps *CommandDependencies) *CommandHandler {
	ch := &CommandHandler{deps: deps}
	ch.contestHandler = NewContestHandler(ch)
	return ch
}

// HandleMessage Discord 메시지를 처리합니다
func (ch *CommandHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if ch.shouldIgnoreMessage(s, m) {
		return
	}

	command, params := ch.parseMessage(m)
	if command == "" {
		return
	}

	ch.routeCommand(s, m, command, params)
}

// shouldIgnoreMessage 메시지를 무시해야 하는지 확인합니다
func (ch *CommandHandler) shouldIgnoreMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	// 봇 자신의 메시지는 무시
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return true
	}
	return false
}

// parseMessage 메시지를 파싱하여 명령어와 매개변수를 추출합니다
func (ch *CommandHandler) parseMessage(m *discordgo.MessageCreate) (command string, params []string) {
	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, constants.CommandPrefix) {
		return "", nil
	}

	args := strings.Fields(content)
	if len(args) == 0 {
		return "", nil
	}

	return args[0][constants.CommandPrefixLength:], args[1:]
}

// routeCommand 명령어를 해당 핸들러로 라우팅합니다
func (ch *CommandHandler) routeCommand(s *discordgo.Session, m *discordgo.MessageCreate, command string, params []string) {
	isAdmin := ch.isAdmin(s, m)
	if ch.deps.Metrics != nil {
		ch.deps.Metrics.IncrementCounter("command", map[string]string{"name": command})
	}

	switch command {
	case "help", "도움말":
		ch.handleHelp(s, m)
	case "contest", "대회":
		ch.contestHandler.HandleContest(s, m, params, isAdmin)
	case "ping":
		ch.handlePing(s, m)
	case "stats", "통계":
		ch.handleStats(s, m, isAdmin)
	}
}

// handlePing ping 명령어를 처리합니다
func (ch *CommandHandler) handlePing(s *discordgo.Session, m *discordgo.MessageCreate) {
	if err := errors.SendDiscordInfo(s, m.ChannelID, constants.MsgPong); err != nil {
		utils.Error("Failed to send ping response: %v", err)
	}
}

func (ch *CommandHandler) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	if _, err := s.ChannelMessageSend(m.ChannelID, constants.HelpMessage); err != nil {
		utils.Error("Failed to send help message: %v", err)
	}
}

// handleStats 드래프트/동시성 통계를 조회합니다 (관리자 전용)
func (ch *CommandHandler) handleStats(s *discordgo.Session, m *discordgo.MessageCreate, isAdmin bool) {
	if !isAdmin {
		if _, err := s.ChannelMessageSend(m.ChannelID, constants.MsgAdminOnly); err != nil {
			utils.Error("Failed to send permission error: %v", err)
		}
		return
	}

	stats := ch.deps.Limiter.GetStats()
	message := "```\n📊 Bot statistics\n\n" +
		"Active drafts: " + strconv.Itoa(ch.deps.Drafts.ActiveCount()) + "\n" +
		"Freeze fan-out limit: " + strconv.Itoa(stats.CurrentLimit) +
		" (min " + strconv.Itoa(stats.MinLimit) + ", max " + strconv.Itoa(stats.MaxLimit) + ")\n" +
		"Avg API response: " + stats.AverageResponse.String() + "\n```"

	if _, err := s.ChannelMessageSend(m.ChannelID, message); err != nil {
		utils.Error("Failed to send stats: %v", err)
	}
}

// isAdmin 메시지 작성자가 관리자 권한을 가졌는지 확인합니다
func (ch *CommandHandler) isAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	// DM에서는 관리자 권한 없음
	if m.GuildID == "" {
		return false
	}

	guild, err := s.State.Guild(m.GuildID)
	if err != nil || guild == nil {
		utils.Warn("Cannot get guild information: %v", err)
		return false
	}

	// 서버 소유자인지 확인
	if m.Author.ID == guild.OwnerID {
		return true
	}

	member, err := s.GuildMember(m.GuildID, m.Author.ID)
	if err != nil || member == nil {
		utils.Warn("Cannot get member information for %s: %v", m.Author.Username, err)
		return false
	}

	for _, roleID := range member.Roles {
		role, err := s.State.Role(m.GuildID, roleID)
		if err != nil {
			utils.Warn("Cannot get role %s: %v", roleID, err)
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}

