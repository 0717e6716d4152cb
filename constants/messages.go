package constants

// 사용자 인터페이스 메시지 (영어 커뮤니티 대상)
const (
	// 제출 플로우 관련
	MsgContestNotFound      = EmojiAnger + " Contest not found, please try later."
	MsgSubmissionOpensAt    = EmojiAnger + " Submissions for this contest open <t:%d:R>."
	MsgSubmissionClosedAt   = EmojiAnger + " Submissions for this contest closed <t:%d:R>."
	MsgSubmissionQuota      = EmojiAnger + " You have reached the maximum number of submissions for this contest."
	MsgNotOnRoster          = EmojiAnger + " You are not on the builder roster for this contest. Contact the staff if you think this is a mistake."
	MsgRosterCheckFailed    = EmojiAnger + " Could not verify the builder roster right now, please try again later."
	MsgDraftPreview         = EmojiSparkle + " Does this look good? Make sure you can see all images in the preview."
	MsgMissingImages        = EmojiAnger + " Please upload at least one image."
	MsgMissingCoordinates   = EmojiAnger + " Please provide the co-ordinates of your build."
	MsgMissingBody          = EmojiAnger + " Please write your submission before continuing."
	MsgSubmissionReceived   = EmojiThumbsUp + " Submission received. It will be posted when voting starts."
	MsgSubmissionCancelled  = EmojiThumbsUp + " Submission cancelled."
	MsgDraftExpired         = EmojiAnger + " This submission draft is no longer active, please start again."
	MsgNotYourDraft         = EmojiAnger + " Only the author of this draft can use these buttons."

	// 단계 전환 관련
	MsgSubmissionsClosed = "Build of the Month submissions are now closed."
	MsgVotingStarted     = EmojiSparkle + " The voting phase has started for this contest, you can now go submit your votes."
	MsgVotingEnded       = EmojiSparkle + " Voting has ended for this contest, the results will be revealed in a moment."
	MsgVotingEndedAdmin  = EmojiSparkle + " Voting has ended for **%s**."
	MsgResultsHeader     = EmojiSparkle + " Results for **%s**:"
	MsgWinnerLine        = EmojiTada + " %s place - <@%s>."
	MsgCoordinatesLine   = "Coordinates: %s"
	MsgReviewHeader      = EmojiSparkle + " Build check for <@%s>."

	// 투표 관련
	MsgVoteNotOpen    = EmojiAnger + " Voting is not open for this contest right now."
	MsgVoteQuota      = EmojiAnger + " You have used all of your votes for this contest."
	MsgVoteRecorded   = EmojiThumbsUp + " Your vote has been recorded."
	MsgVoteFailed     = EmojiAnger + " Could not record your vote, please try again."
	MsgVoteButtonText = "Vote for this build"

	// 제출 버튼
	MsgSubmitButtonLabel = "Submit your Build of the Month"

	// 대회 관리 관련
	MsgContestCreateUsage  = "Usage: `!contest create <submission_open> <submission_close> <voting_open> <voting_close>` (dates: YYYY-MM-DD, D/M/YYYY or unix)"
	MsgContestEditUsage    = "Usage: `!contest edit <contest_id> <field> <value>` (fields: name, kind, subopen, subclose, voteopen, voteclose, subquota, votequota)"
	MsgContestRemoveUsage  = "Usage: `!contest remove <contest_id>`"
	MsgContestStatusUsage  = "Usage: `!contest status <contest_id>`"
	MsgContestUsage        = "Usage: `!contest <create|edit|list|status|remove>`"
	MsgContestCreated      = "Successfully created a new contest."
	MsgContestEdited       = "Successfully edited contest."
	MsgContestRemoved      = "Contest removed."
	MsgNoContests          = EmojiAnger + " There are no contests right now."
	MsgContestListHeader   = EmojiSparkle + " Showing %d contests:"
	MsgInvalidDate         = "Invalid date: %s"
	MsgInvalidBoundaries   = "%s must not be after %s"
	MsgUnknownSubcommand   = "Unknown contest subcommand."
	MsgAdminOnly           = EmojiError + " You need administrator permissions to do that."
	MsgPong                = "Pong! 🏓"
	BotStatusMessage       = "!help | Build of the Month"
	MsgTryAgain            = EmojiAnger + " Something vanished mid-operation, please try again."
)

// 도움말 메시지
const HelpMessage = "🤖 **Build of the Month bot**\n\n" +
	"**Admin commands:**\n" +
	"• `!contest create <sub_open> <sub_close> <vote_open> <vote_close>` - create a contest\n" +
	"• `!contest edit <id> <field> <value>` - edit a contest (re-arms its timers)\n" +
	"• `!contest list` - list all contests\n" +
	"• `!contest status <id>` - show one contest\n" +
	"• `!contest remove <id>` - remove a contest and all of its submissions and votes\n\n" +
	"**Everything else:**\n" +
	"• Press the submit button in the submissions channel to enter\n" +
	"• `!ping` - check the bot is alive\n" +
	"• `!help` - this message"
