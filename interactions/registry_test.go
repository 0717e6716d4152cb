package interactions

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func buttonPress(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: customID},
			Member: &discordgo.Member{
				User: &discordgo.User{ID: userID},
			},
		},
	}
}

func TestRegistryDispatchesToOwner(t *testing.T) {
	r := NewRegistry()

	called := 0
	r.RegisterButton("draft-1-lgtm", []string{"owner"}, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		called++
	})

	r.HandleInteraction(nil, buttonPress("draft-1-lgtm", "owner"))
	if called != 1 {
		t.Errorf("expected handler call for owner, got %d", called)
	}

	// 소유자가 아닌 사용자의 클릭은 핸들러에 도달하지 않아야 함
	r.HandleInteraction(nil, buttonPress("draft-1-lgtm", "stranger"))
	if called != 1 {
		t.Errorf("stranger press must not reach the handler, got %d calls", called)
	}
}

func TestRegistryOpenButtonAllowsAnyone(t *testing.T) {
	r := NewRegistry()

	var pressedBy []string
	r.RegisterButton("submit-contest-c1", nil, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		pressedBy = append(pressedBy, i.Member.User.ID)
	})

	r.HandleInteraction(nil, buttonPress("submit-contest-c1", "u1"))
	r.HandleInteraction(nil, buttonPress("submit-contest-c1", "u2"))

	if len(pressedBy) != 2 {
		t.Errorf("expected both users dispatched, got %v", pressedBy)
	}
}

func TestRegistryRetract(t *testing.T) {
	r := NewRegistry()

	called := 0
	r.RegisterButton("draft-1-cancel", []string{"owner"}, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		called++
	})
	r.Retract("draft-1-cancel")

	// Retract 이후의 클릭은 핸들러에 도달하지 않아야 함
	r.HandleInteraction(nil, buttonPress("draft-1-cancel", "owner"))

	if called != 0 {
		t.Errorf("retracted button handler must not run, got %d calls", called)
	}
}
