package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/errors"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// SubmitFlow 제출 버튼 → 폼 → 미리보기 → 확정/수정/취소로 이어지는
// 인터랙션 흐름과 드래프트 상태 기계를 잇는 접착층입니다.
type SubmitFlow struct {
	drafts    *DraftManager
	store     interfaces.ContestStore
	registry  interfaces.AffordanceRegistry
	messenger interfaces.Messenger
	metrics   interfaces.MetricsReporter
}

// NewSubmitFlow 새 제출 플로우를 생성합니다. metrics는 nil일 수 있습니다.
func NewSubmitFlow(drafts *DraftManager, store interfaces.ContestStore, registry interfaces.AffordanceRegistry, messenger interfaces.Messenger, metrics interfaces.MetricsReporter) *SubmitFlow {
	return &SubmitFlow{drafts: drafts, store: store, registry: registry, messenger: messenger, metrics: metrics}
}

// AttachSubmitButton 대회의 제출 버튼 핸들러를 등록합니다.
// 대회 생성과 기동 시 재정렬에서 호출됩니다.
func (f *SubmitFlow) AttachSubmitButton(contestID string) {
	f.registry.RegisterButton(constants.SubmitButtonPrefix+contestID, nil,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			f.handleSubmitPress(s, i, contestID)
		})
}

// handleSubmitPress 제출 버튼 클릭: 자격 검사 후 드래프트를 시작하고 폼을 띄웁니다
func (f *SubmitFlow) handleSubmitPress(s *discordgo.Session, i *discordgo.InteractionCreate, contestID string) {
	userID := interactionUserID(i)
	username := interactionUsername(i)

	draft, appErr := f.drafts.Begin(contestID, userID, username)
	if appErr != nil {
		respondEphemeral(s, i, userMessageFor(appErr))
		return
	}

	contest, ok := f.contest(s, i, contestID)
	if !ok {
		return
	}

	f.registerDraftAffordances(draft.Token, userID, contestID)
	respondModal(s, i, draftModal(constants.SubmitModalPrefix+draft.Token, contest.Kind, nil))
}

// registerDraftAffordances 드래프트 하나에 딸린 모든 컴포넌트 핸들러를 등록합니다.
// 미리보기 버튼은 드래프트 소유자만 누를 수 있습니다.
func (f *SubmitFlow) registerDraftAffordances(token, ownerID, contestID string) {
	owner := []string{ownerID}

	f.registry.RegisterModal(constants.SubmitModalPrefix+token,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			f.handleFormSubmit(s, i, contestID, token, false)
		})
	f.registry.RegisterModal(token+constants.DraftEditModal,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			f.handleFormSubmit(s, i, contestID, token, true)
		})
	f.registry.RegisterButton(token+constants.DraftRetrySuffix, owner,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			contest, ok := f.contest(s, i, contestID)
			if !ok {
				return
			}
			respondModal(s, i, draftModal(constants.SubmitModalPrefix+token, contest.Kind, nil))
		})
	f.registry.RegisterButton(token+constants.DraftConfirmSuffix, owner,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			f.handleConfirm(s, i, contestID, token)
		})
	f.registry.RegisterButton(token+constants.DraftEditSuffix, owner,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			f.handleEditPress(s, i, contestID, token)
		})
	f.registry.RegisterButton(token+constants.DraftCancelSuffix, owner,
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			f.handleCancel(s, i, token)
		})
}

// retireDraftAffordances 드래프트 종료 후 남은 컴포넌트 등록을 모두 철회합니다.
// 이후의 늦은 클릭은 등록소가 조용히 무시합니다.
func (f *SubmitFlow) retireDraftAffordances(token string) {
	f.registry.Retract(constants.SubmitModalPrefix + token)
	f.registry.Retract(token + constants.DraftEditModal)
	f.registry.Retract(token + constants.DraftRetrySuffix)
	f.registry.Retract(token + constants.DraftConfirmSuffix)
	f.registry.Retract(token + constants.DraftEditSuffix)
	f.registry.Retract(token + constants.DraftCancelSuffix)
}

// handleFormSubmit 폼 제출: 입력을 드래프트에 반영하고 미리보기를 띄웁니다
func (f *SubmitFlow) handleFormSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, contestID, token string, isEdit bool) {
	contest, ok := f.contest(s, i, contestID)
	if !ok {
		return
	}

	data := i.ModalSubmitData()
	fields := DraftFields{
		Title:       modalValue(data, constants.FieldTitle),
		Body:        modalValue(data, constants.FieldBody),
		Coordinates: modalValue(data, constants.FieldCoordinates),
		Images:      parseImageList(modalValue(data, constants.FieldImages)),
	}

	var appErr *errors.AppError
	if isEdit {
		appErr = f.drafts.ApplyEdit(token, fields)
	} else {
		appErr = f.drafts.Collect(token, contest, fields)
	}
	if appErr != nil {
		if errors.IsValidation(appErr) && !isEdit {
			// 드래프트는 살아 있으므로 다시 열 수 있는 버튼을 함께 줍니다
			respondEphemeralComplex(s, i, &discordgo.InteractionResponseData{
				Content: userMessageFor(appErr),
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{
						Components: []discordgo.MessageComponent{
							discordgo.Button{
								Label:    "Try again",
								Style:    discordgo.SecondaryButton,
								CustomID: token + constants.DraftRetrySuffix,
							},
						},
					},
				},
			})
			return
		}
		respondEphemeral(s, i, userMessageFor(appErr))
		return
	}

	f.showPreview(s, i, contest, token)
}

// showPreview 드래프트 미리보기를 에페메랄로 띄웁니다
func (f *SubmitFlow) showPreview(s *discordgo.Session, i *discordgo.InteractionCreate, contest *models.Contest, token string) {
	draft, appErr := f.drafts.Preview(token)
	if appErr != nil {
		respondEphemeral(s, i, userMessageFor(appErr))
		return
	}

	respondEphemeralComplex(s, i, &discordgo.InteractionResponseData{
		Content:    constants.MsgDraftPreview,
		Embeds:     draftPreviewEmbeds(contest, draft),
		Components: draftPreviewComponents(token),
	})
}

// handleConfirm 확정 버튼: 제출물을 저장하고 드래프트를 마감합니다
func (f *SubmitFlow) handleConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, contestID, token string) {
	submission, appErr := f.drafts.Confirm(token)
	if appErr != nil {
		respondEphemeral(s, i, userMessageFor(appErr))
		return
	}

	f.retireDraftAffordances(token)
	respondUpdateMessage(s, i, constants.MsgSubmissionReceived)
	if f.metrics != nil {
		f.metrics.IncrementCounter("submission_confirmed", map[string]string{"contest": contestID})
	}

	// 이미지 종류는 관리자 채널로 검토 메시지를 전달합니다.
	// 전달 실패는 이미 저장된 제출물에 영향을 주지 않습니다.
	contest, err := f.store.FindContest(contestID)
	if err != nil || contest == nil {
		utils.Warn("Could not load contest %s for review forward: %v", contestID, err)
		return
	}
	if contest.Kind.RequiresReview() {
		if _, err := f.messenger.Post(contest.AdminChannelID, reviewMessage(submission)); err != nil {
			utils.Error("Failed to forward submission %s for review: %v", submission.ID, err)
		}
	}
}

// handleEditPress 수정 버튼: 현재 값으로 채운 수정 폼을 띄웁니다
func (f *SubmitFlow) handleEditPress(s *discordgo.Session, i *discordgo.InteractionCreate, contestID, token string) {
	contest, ok := f.contest(s, i, contestID)
	if !ok {
		return
	}

	draft, appErr := f.drafts.BeginEdit(token)
	if appErr != nil {
		respondEphemeral(s, i, userMessageFor(appErr))
		return
	}

	respondModal(s, i, draftModal(token+constants.DraftEditModal, contest.Kind, draft))
}

// handleCancel 취소 버튼: 드래프트를 폐기합니다
func (f *SubmitFlow) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, token string) {
	if appErr := f.drafts.Cancel(token); appErr != nil {
		respondEphemeral(s, i, userMessageFor(appErr))
		return
	}
	f.retireDraftAffordances(token)
	respondUpdateMessage(s, i, constants.MsgSubmissionCancelled)
}

// contest 대회를 읽고 없으면 사용자에게 알립니다
func (f *SubmitFlow) contest(s *discordgo.Session, i *discordgo.InteractionCreate, contestID string) (*models.Contest, bool) {
	contest, err := f.store.FindContest(contestID)
	if err != nil {
		utils.Error("Failed to load contest %s: %v", contestID, err)
		respondEphemeral(s, i, constants.MsgTryAgain)
		return nil, false
	}
	if contest == nil {
		respondEphemeral(s, i, constants.MsgContestNotFound)
		return nil, false
	}
	return contest, true
}

// draftModal 종류에 맞는 입력 폼을 만듭니다. prefill이 있으면 수정 폼으로,
// 비워둔 필드가 이전 값을 유지한다는 안내와 함께 필수 표시를 끕니다.
func draftModal(customID string, kind models.SubmissionKind, prefill *Draft) *discordgo.InteractionResponseData {
	editing := prefill != nil
	if prefill == nil {
		prefill = &Draft{}
	}

	var rows []discordgo.MessageComponent
	if kind == models.KindText {
		rows = append(rows,
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    constants.FieldTitle,
					Label:       "Title",
					Style:       discordgo.TextInputShort,
					Required:    false,
					Value:       prefill.Title,
					MaxLength:   200,
					Placeholder: "Name your entry",
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    constants.FieldBody,
					Label:       "Your entry",
					Style:       discordgo.TextInputParagraph,
					Required:    !editing,
					Value:       prefill.Body,
					MaxLength:   4000,
					Placeholder: "Write your submission here",
				},
			}},
		)
	} else {
		rows = append(rows,
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    constants.FieldImages,
					Label:       "Image links",
					Style:       discordgo.TextInputParagraph,
					Required:    !editing,
					Value:       strings.Join(prefill.Images, "\n"),
					Placeholder: "One image link per line",
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    constants.FieldCoordinates,
					Label:       "Build co-ordinates",
					Style:       discordgo.TextInputShort,
					Required:    !editing,
					Value:       prefill.Coordinates,
					MaxLength:   200,
					Placeholder: "x y z",
				},
			}},
		)
	}

	title := "Submit your build"
	if editing {
		title = "Edit your submission (blank keeps current value)"
	}
	return &discordgo.InteractionResponseData{
		CustomID:   customID,
		Title:      title,
		Components: rows,
	}
}

// modalValue 폼 응답에서 필드 값을 꺼냅니다
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, component := range data.Components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == customID {
				return strings.TrimSpace(input.Value)
			}
		}
	}
	return ""
}

// parseImageList 줄 단위 이미지 링크 목록을 파싱합니다. 개수 상한을 넘는
// 항목은 버립니다.
func parseImageList(raw string) []string {
	if raw == "" {
		return nil
	}
	var images []string
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ' ' }) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		images = append(images, line)
		if len(images) >= constants.MaxImagesPerSubmission {
			break
		}
	}
	return images
}

// userMessageFor AppError에서 사용자에게 보여줄 메시지를 고릅니다
func userMessageFor(appErr *errors.AppError) string {
	return appErr.GetUserMessage()
}
