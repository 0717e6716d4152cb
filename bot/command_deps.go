package bot

import (
	"github.com/Offxc/Void-BOTM-Bot/config"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/performance"
	"github.com/Offxc/Void-BOTM-Bot/scheduler"
)

// CommandDependencies 명령어 핸들러가 필요로 하는 모든 의존성을 묶어서 관리합니다
type CommandDependencies struct {
	Store      interfaces.ContestStore
	Config     *config.Config
	Scheduler  *scheduler.ContestScheduler
	Phases     *PhaseManager
	SubmitFlow *SubmitFlow
	Drafts     *DraftManager
	Messenger  interfaces.Messenger
	Clock      interfaces.Clock
	Limiter    *performance.AdaptiveConcurrencyManager
	Metrics    interfaces.MetricsReporter
	Registry   interfaces.AffordanceRegistry
}
