package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// interactionUserID 길드/DM 양쪽에서 인터랙션 사용자 ID를 얻습니다
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// interactionUsername 명단 대조에 쓰는 사용자명을 얻습니다
func interactionUsername(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}

// respondEphemeral 본인에게만 보이는 텍스트 응답을 보냅니다
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if s == nil {
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		utils.Warn("Failed to send ephemeral response: %v", err)
	}
}

// respondEphemeralComplex 임베드/컴포넌트가 있는 에페메랄 응답을 보냅니다
func respondEphemeralComplex(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	data.Flags |= discordgo.MessageFlagsEphemeral
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		utils.Warn("Failed to send ephemeral response: %v", err)
	}
}

// respondModal 모달 폼을 띄웁니다
func respondModal(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
	if err != nil {
		utils.Warn("Failed to open modal: %v", err)
	}
}

// respondUpdateMessage 인터랙션이 달려 있던 메시지 자체를 교체합니다
func respondUpdateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	emptyComponents := []discordgo.MessageComponent{}
	emptyEmbeds := []*discordgo.MessageEmbed{}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: emptyComponents,
			Embeds:     emptyEmbeds,
		},
	})
	if err != nil {
		utils.Warn("Failed to update interaction message: %v", err)
	}
}

// ackUpdate 기존 메시지를 그대로 두고 인터랙션만 승인합니다
func ackUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if s == nil {
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		utils.Debug("Failed to ack interaction: %v", err)
	}
}
