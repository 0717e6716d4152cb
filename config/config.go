package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

// Config 애플리케이션의 전체 설정을 관리합니다
type Config struct {
	Discord   DiscordConfig
	Channels  ChannelConfig
	Contest   ContestDefaults
	Storage   StorageConfig
	Roster    RosterConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
}

type DiscordConfig struct {
	Token string
}

// ChannelConfig 새 대회가 만들어질 때 기본으로 붙는 채널들입니다
type ChannelConfig struct {
	AdminChannelID        string
	VotingChannelID       string
	ButtonChannelID       string
	AnnouncementChannelID string
}

// ContestDefaults 생성 명령이 쿼터를 지정하지 않았을 때의 기본값입니다
type ContestDefaults struct {
	MaxSubmissionsPerUser int
	MaxVotesPerUser       int
	SubmissionKind        string
}

type StorageConfig struct {
	Backend string
}

// RosterConfig 참가자 명단 스프레드시트 설정입니다. SpreadsheetID가 비어 있으면
// 명단 검사를 하지 않습니다.
type RosterConfig struct {
	SpreadsheetID string
	SheetRange    string
	BackupList    []string
}

type LoggingConfig struct {
	Level     string
	DebugMode bool
}

type TelemetryConfig struct {
	Enabled   bool
	ProjectID string
}

// Load는 환경변수에서 설정을 로드합니다
func Load() *Config {
	return &Config{
		Discord: DiscordConfig{
			Token: getEnv(constants.EnvDiscordToken, ""),
		},
		Channels: ChannelConfig{
			AdminChannelID:        getEnv(constants.EnvAdminChannelID, ""),
			VotingChannelID:       getEnv(constants.EnvVotingChannelID, ""),
			ButtonChannelID:       getEnv(constants.EnvButtonChannelID, ""),
			AnnouncementChannelID: getEnv(constants.EnvAnnouncementChannelID, ""),
		},
		Contest: ContestDefaults{
			MaxSubmissionsPerUser: getEnvInt("MAX_SUBMISSIONS_PER_USER", 1),
			MaxVotesPerUser:       getEnvInt("MAX_VOTES_PER_USER", 1),
			SubmissionKind:        getEnv("SUBMISSION_KIND", "image"),
		},
		Storage: StorageConfig{
			Backend: getEnv(constants.EnvStorageBackend, constants.StorageBackendFirestore),
		},
		Roster: RosterConfig{
			SpreadsheetID: getEnv(constants.EnvRosterSpreadsheetID, ""),
			SheetRange:    getEnv(constants.EnvRosterSheetRange, constants.DefaultRosterSheetRange),
			BackupList:    splitList(getEnv(constants.EnvBackupRosterList, "")),
		},
		Logging: LoggingConfig{
			Level:     getEnv(constants.EnvLogLevel, constants.LogLevelInfo),
			DebugMode: getEnvBool(constants.EnvDebugMode, false),
		},
		Telemetry: TelemetryConfig{
			Enabled:   getEnvBool(constants.EnvTelemetryEnabled, false),
			ProjectID: getEnv(constants.EnvGoogleCloudProject, ""),
		},
	}
}

// Validate 설정의 유효성을 검사합니다
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return &ConfigError{
			Field:   "Discord.Token",
			Message: constants.EnvDiscordToken + " is required",
		}
	}

	for _, ch := range []struct {
		field string
		value string
		env   string
	}{
		{"Channels.AdminChannelID", c.Channels.AdminChannelID, constants.EnvAdminChannelID},
		{"Channels.VotingChannelID", c.Channels.VotingChannelID, constants.EnvVotingChannelID},
		{"Channels.ButtonChannelID", c.Channels.ButtonChannelID, constants.EnvButtonChannelID},
	} {
		if ch.value == "" {
			return &ConfigError{Field: ch.field, Message: ch.env + " is required"}
		}
	}

	if c.Storage.Backend != constants.StorageBackendFirestore && c.Storage.Backend != constants.StorageBackendMemory {
		return &ConfigError{
			Field:   "Storage.Backend",
			Message: constants.EnvStorageBackend + " must be 'firestore' or 'memory' (got: " + c.Storage.Backend + ")",
		}
	}

	validLogLevels := map[string]bool{
		constants.LogLevelDebug: true,
		constants.LogLevelInfo:  true,
		constants.LogLevelWarn:  true,
		constants.LogLevelError: true,
	}
	if !validLogLevels[strings.ToUpper(c.Logging.Level)] {
		return &ConfigError{
			Field:   "Logging.Level",
			Message: "LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR (got: " + c.Logging.Level + ")",
		}
	}

	if c.Contest.MaxSubmissionsPerUser < 1 {
		return &ConfigError{
			Field:   "Contest.MaxSubmissionsPerUser",
			Message: "MAX_SUBMISSIONS_PER_USER must be positive",
		}
	}
	if c.Contest.MaxVotesPerUser < 1 {
		return &ConfigError{
			Field:   "Contest.MaxVotesPerUser",
			Message: "MAX_VOTES_PER_USER must be positive",
		}
	}

	if c.Telemetry.Enabled && c.Telemetry.ProjectID == "" {
		return &ConfigError{
			Field:   "Telemetry.ProjectID",
			Message: constants.EnvGoogleCloudProject + " is required when telemetry is enabled",
		}
	}

	return nil
}

// IsDebugMode 디버그 모드 여부를 반환합니다
func (c *Config) IsDebugMode() bool {
	return c.Logging.DebugMode || strings.ToUpper(c.Logging.Level) == constants.LogLevelDebug
}

// ConfigError 설정 관련 오류를 나타냅니다
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in " + e.Field + ": " + e.Message
}

// 헬퍼 함수들
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
