package constants

import "time"

// 스케줄러 관련 상수
const (
	// 단발성 타이머로 표현 가능한 최대 지연 (32비트 밀리초 한계)
	MaxTimerDelay = time.Duration(1<<31-1) * time.Millisecond

	// 오버플로된 경계를 다시 검사하는 프로브 타이머 주기
	RearmProbeInterval = 24 * time.Hour
)

// 대회 관련 상수
const (
	TopWinnerCount         = 3
	MaxImagesPerSubmission = 6
	MaxPreviewImages       = 3
	MaxWinnerImages        = 6
)

// 아직 공개 채널에 게시되지 않은 제출물의 메시지 참조 센티널 값
const PendingMessageRef = "pending"

// Discord 관련 상수
const (
	CommandPrefix       = "!"
	CommandPrefixLength = 1 // "!" 길이

	MaxDiscordRetries = 3
	BaseRetryDelay    = 1 * time.Second

	// 봇 메시지 정리 시 최근 메시지를 살펴보는 개수
	RecentMessageSweepLimit = 50
	MessageFetchLimit       = 100
)

// 인터랙션 컴포넌트 ID 관련 상수
const (
	SubmitButtonPrefix = "submit-contest-"
	VoteButtonPrefix   = "vote-"
	SubmitModalPrefix  = "submit-contest-modal-"

	DraftConfirmSuffix = "-lgtm"
	DraftEditSuffix    = "-edit"
	DraftCancelSuffix  = "-cancel"
	DraftRetrySuffix   = "-retry"
	DraftEditModal     = "-edit-modal"
)

// 모달 필드 ID
const (
	FieldTitle       = "submission_title"
	FieldBody        = "submission_body"
	FieldCoordinates = "build_coordinates"
	FieldImages      = "submission_images"
)

// 이모지 상수
const (
	EmojiSparkle  = "✨"
	EmojiAnger    = "💢"
	EmojiThumbsUp = "👍"
	EmojiTada     = "🎉"
	EmojiSuccess  = "✅"
	EmojiError    = "❌"
	EmojiInfo     = "ℹ️"
	EmojiWarning  = "⚠️"
	EmojiTrophy   = "🏆"
	EmojiCalendar = "📅"
)

// 날짜 형식
const (
	DateFormat     = "2006-01-02"
	TimeFormat     = "15:04:05"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// 로그 관련 상수
const (
	LogLevelDebug = "DEBUG"
	LogLevelInfo  = "INFO"
	LogLevelWarn  = "WARN"
	LogLevelError = "ERROR"
)

// 환경 변수 키
const (
	EnvDiscordToken          = "DISCORD_BOT_TOKEN"
	EnvAdminChannelID        = "ADMIN_CHANNEL_ID"
	EnvVotingChannelID       = "VOTING_CHANNEL_ID"
	EnvButtonChannelID       = "SUBMISSION_BUTTON_CHANNEL_ID"
	EnvAnnouncementChannelID = "ANNOUNCEMENT_CHANNEL_ID"
	EnvStorageBackend        = "STORAGE_BACKEND"
	EnvLogLevel              = "LOG_LEVEL"
	EnvDebugMode             = "DEBUG_MODE"
	EnvRosterSpreadsheetID   = "ROSTER_SPREADSHEET_ID"
	EnvRosterSheetRange      = "ROSTER_SHEET_RANGE"
	EnvBackupRosterList      = "BACKUP_ROSTER_LIST"
	EnvTelemetryEnabled      = "TELEMETRY_ENABLED"
	EnvGoogleCloudProject    = "GOOGLE_CLOUD_PROJECT"
	EnvFirebaseCredentials   = "FIREBASE_CREDENTIALS_JSON"
)

// 저장소 백엔드 종류
const (
	StorageBackendFirestore = "firestore"
	StorageBackendMemory    = "memory"
)

// 캐시 관련 상수
const (
	ContestCacheTTL         = 30 * time.Second
	CacheCleanupInterval    = 1 * time.Minute
	CacheCleanupBatchSize   = 100
	MaxCacheCleanupDuration = 10 * time.Millisecond
)

// 동시성 제한 관련 상수 (투표 마감 시 메시지 동결 팬아웃에 사용)
const (
	FreezeBaseConcurrency          = 5
	AdaptiveConcurrencyMinLimit    = 2
	AdaptiveConcurrencyMaxLimit    = 20
	ResponseTimeWindowSize         = 20
	MinResponseTimeWindowSize      = 5
	ConcurrencyAdjustmentThreshold = 500 * time.Millisecond
	ConcurrencyDecreaseThreshold   = 1 * time.Second
	ConcurrencyAdjustmentCooldown  = 5 * time.Second
	MaxSuccessiveIncreases         = 3
	P95PercentileRatio             = 0.95
)

// Google Sheets 참가자 명단 관련 상수
const (
	DefaultRosterSheetRange = "A:Z"
	RosterNameColumn        = "Username"
)

// 텔레메트리 관련 상수
const (
	TelemetryNamespace = "contest-bot"
	TelemetryJobName   = "botm-bot"
	TelemetryTaskID    = "main"
)
