package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/errors"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// DiscordMessenger discordgo 세션 위에서 interfaces.Messenger를 구현합니다.
// 전송 계열 작업은 지수 백오프로 재시도합니다.
type DiscordMessenger struct {
	session *discordgo.Session
}

// NewDiscordMessenger 세션을 감싸는 메신저를 생성합니다
func NewDiscordMessenger(session *discordgo.Session) *DiscordMessenger {
	return &DiscordMessenger{session: session}
}

var _ interfaces.Messenger = (*DiscordMessenger)(nil)

// withRetry Discord API 호출을 재시도 로직과 함께 실행합니다
func withRetry(op func() error) error {
	var lastErr error
	for attempt := 0; attempt < constants.MaxDiscordRetries; attempt++ {
		if attempt > 0 {
			delay := constants.BaseRetryDelay * time.Duration(1<<uint(attempt-1))
			utils.Warn("Discord API call failed, retrying in %v (attempt %d/%d)", delay, attempt+1, constants.MaxDiscordRetries)
			time.Sleep(delay)
		}
		if lastErr = op(); lastErr == nil {
			return nil
		}
	}
	return errors.NewCollaboratorError("DISCORD_SEND_FAILED", "discord api call failed after retries", lastErr)
}

// Post 복합 메시지(임베드, 컴포넌트 포함)를 채널에 게시합니다
func (m *DiscordMessenger) Post(channelID string, send *discordgo.MessageSend) (*discordgo.Message, error) {
	var msg *discordgo.Message
	err := withRetry(func() error {
		var sendErr error
		msg, sendErr = m.session.ChannelMessageSendComplex(channelID, send)
		return sendErr
	})
	return msg, err
}

// PostText 일반 텍스트 메시지를 채널에 게시합니다
func (m *DiscordMessenger) PostText(channelID, content string) (*discordgo.Message, error) {
	var msg *discordgo.Message
	err := withRetry(func() error {
		var sendErr error
		msg, sendErr = m.session.ChannelMessageSend(channelID, content)
		return sendErr
	})
	return msg, err
}

// Edit 기존 메시지를 수정합니다
func (m *DiscordMessenger) Edit(channelID, messageID string, edit *discordgo.MessageEdit) error {
	edit.Channel = channelID
	edit.ID = messageID
	return withRetry(func() error {
		_, err := m.session.ChannelMessageEditComplex(edit)
		return err
	})
}

// Delete 메시지를 삭제합니다. 이미 없는 메시지는 성공으로 취급합니다.
func (m *DiscordMessenger) Delete(channelID, messageID string) error {
	err := m.session.ChannelMessageDelete(channelID, messageID)
	if err != nil {
		if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil && restErr.Response.StatusCode == 404 {
			utils.Debug("Message %s already gone from channel %s", messageID, channelID)
			return nil
		}
		return errors.NewCollaboratorError("DISCORD_DELETE_FAILED", "failed to delete message", err)
	}
	return nil
}

// RecentByAuthor 채널의 최근 메시지 중 주어진 작성자의 것만 반환합니다
func (m *DiscordMessenger) RecentByAuthor(channelID, authorID string, limit int) ([]*discordgo.Message, error) {
	if limit <= 0 || limit > constants.MessageFetchLimit {
		limit = constants.MessageFetchLimit
	}

	messages, err := m.session.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return nil, errors.NewCollaboratorError("DISCORD_FETCH_FAILED", "failed to fetch channel messages", err)
	}

	var mine []*discordgo.Message
	for _, msg := range messages {
		if msg.Author != nil && msg.Author.ID == authorID {
			mine = append(mine, msg)
		}
	}
	return mine, nil
}
