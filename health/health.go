package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// Status 헬스체크 응답 구조체
type Status struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
	GoVersion   string    `json:"go_version"`
	Memory      string    `json:"memory_usage"`
	ArmedTimers int       `json:"armed_timers"`
	Detail      string    `json:"detail,omitempty"`
}

var startTime = time.Now()

// Server 호스팅 플랫폼의 헬스체크에 응답하는 HTTP 서버입니다.
// check가 에러를 돌려주면 unhealthy로 보고합니다.
type Server struct {
	check  func() error
	timers func() int
}

// NewServer 새 헬스체크 서버를 생성합니다. check와 timers는 nil일 수 있습니다.
func NewServer(check func() error, timers func() int) *Server {
	return &Server{check: check, timers: timers}
}

// Start 헬스체크 HTTP 서버를 백그라운드로 시작합니다
func (s *Server) Start(port string) {
	if port == "" {
		port = constants.DefaultHTTPPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handle)
	mux.HandleFunc("/", s.handle) // 호스팅 플랫폼의 기본 헬스체크 경로

	go func() {
		utils.Info("Health check server starting on port %s", port)
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			utils.Error("Health server error: %v", err)
		}
	}()
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := Status{
		Status:    constants.HealthStatusHealthy,
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime).String(),
		Version:   constants.BotVersion,
		GoVersion: runtime.Version(),
		Memory:    fmt.Sprintf("%.2f MB", float64(memStats.Alloc)/constants.BytesToMB),
	}
	if s.timers != nil {
		status.ArmedTimers = s.timers()
	}

	code := http.StatusOK
	if s.check != nil {
		if err := s.check(); err != nil {
			status.Status = constants.HealthStatusUnhealthy
			status.Detail = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
