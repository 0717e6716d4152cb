package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	monitoringpb "cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// CloudReporter Google Cloud Monitoring으로 커스텀 메트릭을 전송합니다.
// interfaces.MetricsReporter 구현체입니다.
type CloudReporter struct {
	client    *monitoring.MetricClient
	projectID string
	enabled   bool
}

// NewCloudReporter 새로운 CloudReporter를 생성합니다. 프로젝트 ID나
// 인증 정보가 없으면 전송을 건너뛰는 비활성 리포터를 돌려줍니다.
func NewCloudReporter(projectID string) *CloudReporter {
	if projectID == "" {
		utils.Warn("Project ID not provided, telemetry disabled")
		return &CloudReporter{enabled: false}
	}

	// Firebase 인증 정보를 임시 파일로 생성하여 Google Cloud 인증에 사용
	if err := setupGoogleCloudCredentials(); err != nil {
		utils.Warn("Failed to setup Google Cloud credentials: %v", err)
		utils.Warn("Telemetry disabled - ensure Firebase credentials are available")
		return &CloudReporter{enabled: false}
	}

	client, err := monitoring.NewMetricClient(context.Background())
	if err != nil {
		utils.Warn("Failed to create monitoring client: %v", err)
		utils.Warn("Telemetry disabled")
		return &CloudReporter{enabled: false}
	}

	utils.Info("Google Cloud Monitoring telemetry enabled for project: %s", projectID)
	return &CloudReporter{
		client:    client,
		projectID: projectID,
		enabled:   true,
	}
}

// IncrementCounter 라벨이 포함된 카운터 메트릭을 1만큼 올립니다
func (r *CloudReporter) IncrementCounter(name string, labels map[string]string) {
	if !r.enabled {
		return
	}

	now := &timestamppb.Timestamp{Seconds: time.Now().Unix()}
	if err := r.sendLabeledMetric(context.Background(), name, 1.0, now, labels); err != nil {
		utils.Warn("Failed to send counter metric %s: %v", name, err)
		return
	}
	utils.Debug("Counter metric sent: %s", name)
}

// RecordDuration 소요 시간을 초 단위 게이지로 전송합니다
func (r *CloudReporter) RecordDuration(name string, d time.Duration) {
	if !r.enabled {
		return
	}

	now := &timestamppb.Timestamp{Seconds: time.Now().Unix()}
	if err := r.sendLabeledMetric(context.Background(), name, d.Seconds(), now, nil); err != nil {
		utils.Warn("Failed to send duration metric %s: %v", name, err)
		return
	}
	utils.Debug("Duration metric sent: %s (%v)", name, d)
}

// sendLabeledMetric 라벨이 포함된 커스텀 메트릭을 전송합니다
func (r *CloudReporter) sendLabeledMetric(ctx context.Context, metricType string, value float64, timestamp *timestamppb.Timestamp, labels map[string]string) error {
	if labels == nil {
		labels = make(map[string]string)
	}

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name: fmt.Sprintf("projects/%s", r.projectID),
		TimeSeries: []*monitoringpb.TimeSeries{
			{
				Metric: &metric.Metric{
					Type:   fmt.Sprintf("custom.googleapis.com/%s", metricType),
					Labels: labels,
				},
				Resource: &monitoredres.MonitoredResource{
					Type: "generic_task",
					Labels: map[string]string{
						"project_id": r.projectID,
						"location":   "global",
						"namespace":  constants.TelemetryNamespace,
						"job":        constants.TelemetryJobName,
						"task_id":    constants.TelemetryTaskID,
					},
				},
				Points: []*monitoringpb.Point{
					{
						Interval: &monitoringpb.TimeInterval{
							EndTime: timestamp,
						},
						Value: &monitoringpb.TypedValue{
							Value: &monitoringpb.TypedValue_DoubleValue{
								DoubleValue: value,
							},
						},
					},
				},
			},
		},
	}

	return r.client.CreateTimeSeries(ctx, req)
}

// Close 클라이언트를 정리합니다
func (r *CloudReporter) Close() error {
	if !r.enabled || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// setupGoogleCloudCredentials Firebase 인증 정보를 Google Cloud 인증으로 설정합니다
func setupGoogleCloudCredentials() error {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		return nil
	}

	firebaseCredentials := os.Getenv(constants.EnvFirebaseCredentials)
	if firebaseCredentials == "" {
		return fmt.Errorf("neither GOOGLE_APPLICATION_CREDENTIALS nor %s is set", constants.EnvFirebaseCredentials)
	}

	credFile := filepath.Join(os.TempDir(), "botm-bot-gcloud-credentials.json")
	if err := os.WriteFile(credFile, []byte(firebaseCredentials), 0600); err != nil {
		return fmt.Errorf("failed to write temporary credentials file: %v", err)
	}
	os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", credFile)

	utils.Debug("Created temporary Google Cloud credentials file: %s", credFile)
	return nil
}

// NoopReporter 아무것도 전송하지 않는 MetricsReporter입니다
type NoopReporter struct{}

func (NoopReporter) IncrementCounter(string, map[string]string) {}
func (NoopReporter) RecordDuration(string, time.Duration)      {}
