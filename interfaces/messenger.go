package interfaces

import "github.com/bwmarrin/discordgo"

// Messenger 아웃바운드 메시지 작업을 위한 인터페이스입니다.
// 모든 호출은 실패할 수 있으며, 엔진은 실패를 "이 부수효과 하나를
// 완료하지 못함"으로 취급해 로그하고 계속 진행합니다.
type Messenger interface {
	Post(channelID string, send *discordgo.MessageSend) (*discordgo.Message, error)
	PostText(channelID, content string) (*discordgo.Message, error)
	Edit(channelID, messageID string, edit *discordgo.MessageEdit) error
	Delete(channelID, messageID string) error
	// RecentByAuthor 채널의 최근 메시지 중 주어진 작성자의 것만 반환합니다
	RecentByAuthor(channelID, authorID string, limit int) ([]*discordgo.Message, error)
}
