package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Offxc/Void-BOTM-Bot/config"
	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// RosterClient Google Sheets의 참가자 명단을 조회하는 클라이언트입니다.
// 시트 조회에 실패하면 설정된 백업 목록으로 대체합니다.
type RosterClient struct {
	service *sheets.Service
	ctx     context.Context
	cfg     config.RosterConfig
}

// NewRosterClient 새로운 명단 클라이언트를 생성합니다
func NewRosterClient(cfg config.RosterConfig) (*RosterClient, error) {
	ctx := context.Background()

	// Firebase 인증 정보 사용 (Google Cloud 프로젝트와 동일)
	credentialsJSON := os.Getenv(constants.EnvFirebaseCredentials)
	if credentialsJSON == "" {
		return nil, fmt.Errorf("Google credentials not available")
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	utils.Info("Google Sheets roster client initialized")
	return &RosterClient{
		service: service,
		ctx:     ctx,
		cfg:     cfg,
	}, nil
}

// IsOnRoster 주어진 사용자명이 빌더 명단에 있는지 확인합니다
func (c *RosterClient) IsOnRoster(username string) (bool, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, c.cfg.SheetRange).Do()
	if err != nil {
		if found, ok := c.checkBackupList(username); ok {
			return found, nil
		}
		return false, fmt.Errorf("failed to read roster spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		utils.Warn("Roster spreadsheet is empty")
		return false, nil
	}

	// 헤더 행에서 사용자명 컬럼 찾기
	headers := resp.Values[0]
	nameColumnIndex := -1
	for i, header := range headers {
		if headerStr, ok := header.(string); ok {
			if strings.Contains(headerStr, constants.RosterNameColumn) {
				nameColumnIndex = i
				break
			}
		}
	}

	if nameColumnIndex == -1 {
		return false, fmt.Errorf("roster column '%s' not found in spreadsheet", constants.RosterNameColumn)
	}

	target := normalizeUsername(username)
	for i := 1; i < len(resp.Values); i++ { // 헤더 행 제외
		row := resp.Values[i]
		if nameColumnIndex < len(row) {
			if cellValue, ok := row[nameColumnIndex].(string); ok {
				if normalizeUsername(cellValue) == target {
					utils.Debug("User '%s' found on roster at row %d", username, i+1)
					return true, nil
				}
			}
		}
	}

	utils.Debug("User '%s' not found on roster", username)
	return false, nil
}

// checkBackupList 시트 조회 실패 시 환경 변수로 받은 백업 명단을 확인합니다
func (c *RosterClient) checkBackupList(username string) (bool, bool) {
	if len(c.cfg.BackupList) == 0 {
		return false, false
	}
	utils.Warn("Roster spreadsheet unavailable, falling back to backup list (%d entries)", len(c.cfg.BackupList))
	target := normalizeUsername(username)
	for _, name := range c.cfg.BackupList {
		if normalizeUsername(name) == target {
			return true, true
		}
	}
	return false, true
}

// normalizeUsername 사용자명을 비교용으로 정규화합니다 (공백 제거, 소문자 통일)
func normalizeUsername(name string) string {
	normalized := strings.TrimSpace(name)
	normalized = strings.ReplaceAll(normalized, " ", "")
	return strings.ToLower(normalized)
}

// StaticRoster 고정 명단으로 동작하는 간단한 RosterChecker 구현입니다.
// 스프레드시트가 설정되지 않은 배포에서 사용합니다.
type StaticRoster struct {
	names map[string]struct{}
}

// NewStaticRoster 이름 목록으로 StaticRoster를 생성합니다.
// 목록이 비어 있으면 모든 사용자를 허용합니다.
func NewStaticRoster(names []string) *StaticRoster {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[normalizeUsername(n)] = struct{}{}
	}
	return &StaticRoster{names: set}
}

// IsOnRoster 명단이 비어 있으면 항상 true를 반환합니다
func (r *StaticRoster) IsOnRoster(username string) (bool, error) {
	if len(r.names) == 0 {
		return true, nil
	}
	_, ok := r.names[normalizeUsername(username)]
	return ok, nil
}
