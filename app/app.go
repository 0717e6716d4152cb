package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/bot"
	"github.com/Offxc/Void-BOTM-Bot/config"
	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/health"
	"github.com/Offxc/Void-BOTM-Bot/interactions"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/performance"
	"github.com/Offxc/Void-BOTM-Bot/scheduler"
	"github.com/Offxc/Void-BOTM-Bot/sheets"
	"github.com/Offxc/Void-BOTM-Bot/storage"
	"github.com/Offxc/Void-BOTM-Bot/telemetry"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// Application 봇의 모든 컴포넌트를 묶고 수명 주기를 관리합니다
type Application struct {
	config         *config.Config
	session        *discordgo.Session
	store          interfaces.ContestStore
	registry       *interactions.Registry
	messenger      *bot.DiscordMessenger
	drafts         *bot.DraftManager
	votes          *bot.VoteManager
	submitFlow     *bot.SubmitFlow
	phases         *bot.PhaseManager
	scheduler      *scheduler.ContestScheduler
	commandHandler *bot.CommandHandler
	limiter        *performance.AdaptiveConcurrencyManager
	metrics        interfaces.MetricsReporter
	healthServer   *health.Server
}

// New 설정을 읽고 전체 의존성 그래프를 구성합니다
func New() (*Application, error) {
	app := &Application{}

	if err := app.loadConfig(); err != nil {
		return nil, err
	}
	if err := app.initializeStorage(); err != nil {
		return nil, err
	}
	if err := app.initializeDiscord(); err != nil {
		return nil, err
	}

	app.setupComponents()
	app.setupHandlers()
	return app, nil
}

func (app *Application) loadConfig() error {
	app.config = config.Load()
	if err := app.config.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// initializeStorage 백엔드를 고르고 캐시 계층으로 감쌉니다
func (app *Application) initializeStorage() error {
	var inner interfaces.ContestStore
	switch app.config.Storage.Backend {
	case constants.StorageBackendMemory:
		utils.Warn("Using in-memory storage, all contest data is lost on restart")
		inner = storage.NewInMemoryStore()
	default:
		store, err := storage.NewFirebaseStore()
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		inner = store
	}

	app.store = storage.NewCachedStore(inner)
	return nil
}

func (app *Application) initializeDiscord() error {
	session, err := discordgo.New("Bot " + app.config.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent | discordgo.IntentsGuilds
	app.session = session
	return nil
}

// setupComponents 의존성 주입을 통한 컴포넌트 생성
func (app *Application) setupComponents() {
	clock := interfaces.SystemClock{}

	if app.config.Telemetry.Enabled {
		app.metrics = telemetry.NewCloudReporter(app.config.Telemetry.ProjectID)
	} else {
		app.metrics = telemetry.NoopReporter{}
	}

	app.registry = interactions.NewRegistry()
	app.messenger = bot.NewDiscordMessenger(app.session)
	app.limiter = performance.NewAdaptiveConcurrencyManager()

	app.drafts = bot.NewDraftManager(app.store, clock, app.buildRoster())
	app.votes = bot.NewVoteManager(app.store, clock, app.registry)
	app.submitFlow = bot.NewSubmitFlow(app.drafts, app.store, app.registry, app.messenger, app.metrics)
	app.phases = bot.NewPhaseManager(app.store, app.messenger, app.registry, app.votes, app.limiter, app.metrics)
	app.scheduler = scheduler.NewContestScheduler(app.store, app.phases, clock)

	app.commandHandler = bot.NewCommandHandler(&bot.CommandDependencies{
		Store:      app.store,
		Config:     app.config,
		Scheduler:  app.scheduler,
		Phases:     app.phases,
		SubmitFlow: app.submitFlow,
		Drafts:     app.drafts,
		Messenger:  app.messenger,
		Clock:      clock,
		Limiter:    app.limiter,
		Metrics:    app.metrics,
		Registry:   app.registry,
	})

	app.healthServer = health.NewServer(app.healthCheck, app.scheduler.TotalArmed)
}

// buildRoster 스프레드시트가 설정돼 있으면 Sheets 명단을, 아니면 고정 명단을 씁니다
func (app *Application) buildRoster() interfaces.RosterChecker {
	if app.config.Roster.SpreadsheetID == "" {
		utils.Info("No roster spreadsheet configured, using static roster (%d entries)", len(app.config.Roster.BackupList))
		return sheets.NewStaticRoster(app.config.Roster.BackupList)
	}

	client, err := sheets.NewRosterClient(app.config.Roster)
	if err != nil {
		utils.Warn("Failed to initialize Sheets roster client, falling back to static roster: %v", err)
		return sheets.NewStaticRoster(app.config.Roster.BackupList)
	}
	return client
}

func (app *Application) setupHandlers() {
	app.session.AddHandler(app.commandHandler.HandleMessage)
	app.session.AddHandler(app.registry.HandleInteraction)
	app.session.AddHandler(app.handleReady)
}

func (app *Application) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	utils.Info("Discord bot connected successfully as %s#%s", event.User.Username, event.User.Discriminator)
	utils.Info("Bot is serving %d guilds", len(event.Guilds))

	if err := s.UpdateGameStatus(0, constants.BotStatusMessage); err != nil {
		utils.Warn("Failed to set bot status: %v", err)
	}
}

// Start 웹소켓을 열고 저장된 대회들을 재무장합니다
func (app *Application) Start() error {
	app.healthServer.Start(os.Getenv("PORT"))

	if err := app.session.Open(); err != nil {
		return fmt.Errorf("failed to open websocket connection: %w", err)
	}

	app.reconcile()
	utils.Info("Build of the Month bot v%s is up", constants.BotVersion)
	return nil
}

// reconcile 재기동 시 저장된 대회마다 타이머를 다시 걸고 살아있는 컴포넌트를
// 다시 등록합니다. 꺼져 있는 동안 지나간 경계는 다시 발화하지 않습니다.
func (app *Application) reconcile() {
	contests, err := app.store.ListContests()
	if err != nil {
		utils.Error("Startup reconciliation failed to list contests: %v", err)
		return
	}

	now := interfaces.SystemClock{}.Now()
	for _, c := range contests {
		app.scheduler.Schedule(c)

		// 제출 창이 아직 열려 있으면 제출 버튼 핸들러를 되살립니다
		if c.SubmissionWindowContains(now) && c.SubmitButtonMessageID != "" {
			app.submitFlow.AttachSubmitButton(c.ID)
		}

		// 게시된 제출물의 투표 버튼 핸들러를 되살립니다
		if c.VotingWindowContains(now) {
			subs, err := app.store.ListSubmissions(c.ID)
			if err != nil {
				utils.Error("Reconciliation failed to list submissions of %s: %v", c.ID, err)
				continue
			}
			reattached := 0
			for _, sub := range subs {
				if sub.IsPosted() && sub.CountsTowardQuota() {
					app.votes.Attach(c.ID, sub.ID)
					reattached++
				}
			}
			utils.Info("Reattached %d vote buttons for contest %s", reattached, c.ID)
		}
	}

	utils.Info("Reconciled %d contests, %d timers armed", len(contests), app.scheduler.TotalArmed())
}

// healthCheck 저장소가 살아 있는지 가볍게 확인합니다
func (app *Application) healthCheck() error {
	_, err := app.store.ListContests()
	return err
}

// Run 봇을 시작하고 종료 신호를 기다립니다
func (app *Application) Run() error {
	if err := app.Start(); err != nil {
		return err
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return app.Stop()
}

// Stop 타이머, 세션, 저장소를 순서대로 정리합니다
func (app *Application) Stop() error {
	utils.Info("Shutting down...")

	if app.scheduler != nil {
		app.scheduler.CancelAll()
	}
	if app.session != nil {
		app.session.Close()
	}
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			utils.Warn("Failed to close storage: %v", err)
		}
	}
	if closer, ok := app.metrics.(*telemetry.CloudReporter); ok {
		closer.Close()
	}

	utils.Info("Shutdown complete")
	return nil
}
