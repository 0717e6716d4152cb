package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/tally"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// submitButtonMessage 제출 채널에 게시하는 제출 버튼 메시지를 만듭니다
func submitButtonMessage(contest *models.Contest) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: contest.Name,
				Description: fmt.Sprintf("%s Submissions are open %s until %s.",
					constants.EmojiCalendar,
					utils.DiscordRelativeTimestamp(contest.SubmissionOpen),
					utils.DiscordRelativeTimestamp(contest.SubmissionClose)),
				Color: 0x5865F2,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    constants.MsgSubmitButtonLabel,
						Style:    discordgo.PrimaryButton,
						CustomID: constants.SubmitButtonPrefix + contest.ID,
					},
				},
			},
		},
	}
}

// draftPreviewComponents 드래프트 미리보기에 붙는 확정/수정/취소 버튼입니다
func draftPreviewComponents(draftToken string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Looks good",
					Style:    discordgo.SuccessButton,
					CustomID: draftToken + constants.DraftConfirmSuffix,
				},
				discordgo.Button{
					Label:    "Edit",
					Style:    discordgo.SecondaryButton,
					CustomID: draftToken + constants.DraftEditSuffix,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: draftToken + constants.DraftCancelSuffix,
				},
			},
		},
	}
}

// draftPreviewEmbeds 드래프트 내용의 미리보기 임베드를 만듭니다.
// 이미지 종류는 미리보기 이미지 수를 제한합니다.
func draftPreviewEmbeds(contest *models.Contest, d *Draft) []*discordgo.MessageEmbed {
	if contest.Kind == models.KindText {
		return []*discordgo.MessageEmbed{
			{
				Title:       d.Title,
				Description: utils.TruncateForDiscord(d.Body, 4000),
				Color:       0x5865F2,
			},
		}
	}

	var embeds []*discordgo.MessageEmbed
	embeds = append(embeds, &discordgo.MessageEmbed{
		Description: fmt.Sprintf(constants.MsgCoordinatesLine, utils.SanitizeString(d.Coordinates)),
		Color:       0x5865F2,
	})
	for i, url := range d.Images {
		if i >= constants.MaxPreviewImages {
			break
		}
		embeds = append(embeds, &discordgo.MessageEmbed{
			Image: &discordgo.MessageEmbedImage{URL: url},
		})
	}
	return embeds
}

// submissionPostMessage 투표 채널에 게시하는 공개 제출물 메시지를 만듭니다
func submissionPostMessage(contest *models.Contest, sub *models.Submission) *discordgo.MessageSend {
	var embeds []*discordgo.MessageEmbed

	if contest.Kind == models.KindText {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       sub.Title,
			Description: utils.TruncateForDiscord(sub.Body, 4000),
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Submitted %s", utils.FormatDate(sub.SubmittedAt))},
			Color:       0x57F287,
		})
	} else {
		for _, url := range sub.Images {
			embeds = append(embeds, &discordgo.MessageEmbed{
				Image: &discordgo.MessageEmbedImage{URL: url},
			})
		}
	}

	return &discordgo.MessageSend{
		Content: fmt.Sprintf("Submission by <@%s>", sub.AuthorID),
		Embeds:  embeds,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    constants.MsgVoteButtonText,
						Style:    discordgo.PrimaryButton,
						CustomID: constants.VoteButtonPrefix + sub.ID,
					},
				},
			},
		},
	}
}

// frozenMessageEdit 투표 마감 후 투표 버튼을 제거하는 수정 페이로드를 만듭니다
func frozenMessageEdit() *discordgo.MessageEdit {
	components := []discordgo.MessageComponent{}
	return &discordgo.MessageEdit{
		Components: &components,
	}
}

// reviewMessage 이미지 종류 제출물을 관리자 채널로 전달하는 검토 메시지를 만듭니다
func reviewMessage(sub *models.Submission) *discordgo.MessageSend {
	var embeds []*discordgo.MessageEmbed
	for _, url := range sub.Images {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Image: &discordgo.MessageEmbedImage{URL: url},
		})
	}
	content := fmt.Sprintf(constants.MsgReviewHeader, sub.AuthorID)
	if sub.Coordinates != "" {
		content += "\n" + fmt.Sprintf(constants.MsgCoordinatesLine, utils.SanitizeString(sub.Coordinates))
	}
	return &discordgo.MessageSend{Content: content, Embeds: embeds}
}

// winnerMessage 우승자 발표 메시지를 순위 하나당 하나씩 만듭니다
func winnerMessage(contest *models.Contest, r tally.Ranked) *discordgo.MessageSend {
	content := fmt.Sprintf(constants.MsgWinnerLine, tally.PlacementLabel(r.Placement), r.Submission.AuthorID)

	var embeds []*discordgo.MessageEmbed
	if contest.Kind == models.KindText {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       r.Submission.Title,
			Description: utils.TruncateForDiscord(r.Submission.Body, 4000),
			Color:       0xFEE75C,
		})
	} else {
		if r.Submission.Coordinates != "" {
			content += "\n" + fmt.Sprintf(constants.MsgCoordinatesLine, utils.SanitizeString(r.Submission.Coordinates))
		}
		for i, url := range r.Submission.Images {
			if i >= constants.MaxWinnerImages {
				break
			}
			embeds = append(embeds, &discordgo.MessageEmbed{
				Image: &discordgo.MessageEmbedImage{URL: url},
			})
		}
	}

	return &discordgo.MessageSend{Content: content, Embeds: embeds}
}

// contestEmbed 대회 상태 명령에서 쓰는 요약 임베드를 만듭니다
func contestEmbed(c *models.Contest) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s", constants.EmojiTrophy, c.Name),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: c.ID, Inline: false},
			{Name: "Kind", Value: string(c.Kind), Inline: true},
			{Name: "Submissions open", Value: utils.FormatDateTime(c.SubmissionOpen), Inline: true},
			{Name: "Submissions close", Value: utils.FormatDateTime(c.SubmissionClose), Inline: true},
			{Name: "Voting opens", Value: utils.FormatDateTime(c.VotingOpen), Inline: true},
			{Name: "Voting closes", Value: utils.FormatDateTime(c.VotingClose), Inline: true},
			{Name: "Quota", Value: fmt.Sprintf("%d submissions / %d votes per user", c.MaxSubmissionsPerUser, c.MaxVotesPerUser), Inline: true},
		},
		Color: 0x5865F2,
	}
}

// resultsHeader 결과 발표 헤더 문자열을 만듭니다
func resultsHeader(contest *models.Contest, rankedCount int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(constants.MsgResultsHeader, contest.Name))
	if rankedCount == 0 {
		sb.WriteString("\nNo submissions received any votes this time.")
	}
	return sb.String()
}
