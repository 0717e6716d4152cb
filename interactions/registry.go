package interactions

import (
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// buttonEntry 버튼 하나의 핸들러와 허용 사용자 목록입니다
type buttonEntry struct {
	handler        interfaces.ComponentHandler
	allowedUserIDs map[string]struct{}
}

// Registry 커스텀 ID로 버튼/모달 핸들러를 찾아 실행하는 등록소입니다.
// discordgo는 이벤트를 여러 고루틴에서 전달하므로 맵 접근은 뮤텍스로 보호합니다.
type Registry struct {
	mu      sync.RWMutex
	buttons map[string]*buttonEntry
	modals  map[string]interfaces.ComponentHandler
}

// NewRegistry 빈 등록소를 생성합니다
func NewRegistry() *Registry {
	return &Registry{
		buttons: make(map[string]*buttonEntry),
		modals:  make(map[string]interfaces.ComponentHandler),
	}
}

// RegisterButton 버튼 핸들러를 등록합니다. allowedUserIDs가 비어 있으면 전원 허용입니다.
func (r *Registry) RegisterButton(customID string, allowedUserIDs []string, handler interfaces.ComponentHandler) {
	entry := &buttonEntry{handler: handler}
	if len(allowedUserIDs) > 0 {
		entry.allowedUserIDs = make(map[string]struct{}, len(allowedUserIDs))
		for _, id := range allowedUserIDs {
			entry.allowedUserIDs[id] = struct{}{}
		}
	}

	r.mu.Lock()
	r.buttons[customID] = entry
	r.mu.Unlock()
}

// RegisterModal 모달 제출 핸들러를 등록합니다
func (r *Registry) RegisterModal(customID string, handler interfaces.ComponentHandler) {
	r.mu.Lock()
	r.modals[customID] = handler
	r.mu.Unlock()
}

// Retract 커스텀 ID를 등록 해제합니다. 이후 도착하는 인터랙션은 조용히 무시됩니다.
func (r *Registry) Retract(customID string) {
	r.mu.Lock()
	delete(r.buttons, customID)
	delete(r.modals, customID)
	r.mu.Unlock()
}

// HandleInteraction discordgo 인터랙션 이벤트의 진입점입니다.
// 세션의 InteractionCreate 핸들러로 등록해서 사용합니다.
func (r *Registry) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		r.dispatchButton(s, i)
	case discordgo.InteractionModalSubmit:
		r.dispatchModal(s, i)
	}
}

func (r *Registry) dispatchButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	r.mu.RLock()
	entry, ok := r.buttons[customID]
	r.mu.RUnlock()

	if !ok {
		// 철회된 버튼의 늦은 클릭: 무반응이 의도된 동작입니다
		utils.Debug("Ignoring interaction on retracted or unknown button: %s", customID)
		ackSilently(s, i)
		return
	}

	if entry.allowedUserIDs != nil {
		userID := interactionUserID(i)
		if _, allowed := entry.allowedUserIDs[userID]; !allowed {
			utils.Debug("User %s pressed a button owned by someone else: %s", userID, customID)
			respondEphemeral(s, i, constants.MsgNotYourDraft)
			return
		}
	}

	entry.handler(s, i)
}

func (r *Registry) dispatchModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.ModalSubmitData().CustomID

	r.mu.RLock()
	handler, ok := r.modals[customID]
	r.mu.RUnlock()

	if !ok {
		utils.Debug("Ignoring submit of retracted or unknown modal: %s", customID)
		ackSilently(s, i)
		return
	}

	handler(s, i)
}

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

// ackSilently 사용자에게 아무것도 보여주지 않고 인터랙션만 승인합니다
func ackSilently(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

// respondEphemeral 본인에게만 보이는 응답을 보냅니다
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
