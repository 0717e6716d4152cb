package config

import (
	"testing"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

func validConfig() *Config {
	return &Config{
		Discord: DiscordConfig{Token: "test-token"},
		Channels: ChannelConfig{
			AdminChannelID:  "admin",
			VotingChannelID: "voting",
			ButtonChannelID: "button",
		},
		Contest: ContestDefaults{MaxSubmissionsPerUser: 1, MaxVotesPerUser: 1, SubmissionKind: "image"},
		Storage: StorageConfig{Backend: constants.StorageBackendMemory},
		Logging: LoggingConfig{Level: constants.LogLevelInfo},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			desc:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			desc:    "missing token fails",
			mutate:  func(c *Config) { c.Discord.Token = "" },
			wantErr: true,
		},
		{
			desc:    "missing voting channel fails",
			mutate:  func(c *Config) { c.Channels.VotingChannelID = "" },
			wantErr: true,
		},
		{
			desc:    "unknown storage backend fails",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: true,
		},
		{
			desc:    "bad log level fails",
			mutate:  func(c *Config) { c.Logging.Level = "LOUD" },
			wantErr: true,
		},
		{
			desc:    "zero vote quota fails",
			mutate:  func(c *Config) { c.Contest.MaxVotesPerUser = 0 },
			wantErr: true,
		},
		{
			desc:    "telemetry without project fails",
			mutate:  func(c *Config) { c.Telemetry.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a config error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
		})
	}
}

func TestIsDebugMode(t *testing.T) {
	cfg := validConfig()
	if cfg.IsDebugMode() {
		t.Error("info level must not be debug mode")
	}
	cfg.Logging.Level = constants.LogLevelDebug
	if !cfg.IsDebugMode() {
		t.Error("debug level must enable debug mode")
	}
}
