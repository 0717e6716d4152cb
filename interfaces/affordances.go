package interfaces

import "github.com/bwmarrin/discordgo"

// ComponentHandler 버튼/모달 인터랙션 콜백입니다
type ComponentHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// AffordanceRegistry 단발성 인터랙티브 컨트롤(버튼, 모달)의 등록소입니다.
// allowedUserIDs가 비어 있으면 모든 사용자가 누를 수 있습니다.
// Retract된 ID에 대한 인터랙션은 조용히 무시됩니다.
type AffordanceRegistry interface {
	RegisterButton(customID string, allowedUserIDs []string, handler ComponentHandler)
	RegisterModal(customID string, handler ComponentHandler)
	Retract(customID string)
}
