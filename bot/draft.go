package bot

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Offxc/Void-BOTM-Bot/constants"
	"github.com/Offxc/Void-BOTM-Bot/errors"
	"github.com/Offxc/Void-BOTM-Bot/interfaces"
	"github.com/Offxc/Void-BOTM-Bot/models"
	"github.com/Offxc/Void-BOTM-Bot/utils"
)

// DraftState 제출 드래프트의 상태입니다
type DraftState int

const (
	// StateCollecting 폼이 열렸고 입력을 기다리는 중
	StateCollecting DraftState = iota
	// StatePreviewing 미리보기가 떠 있고 확정/수정/취소를 기다리는 중
	StatePreviewing
	// StateEditing 수정 폼이 다시 열린 상태
	StateEditing
)

// Draft 진행 중인 제출 드래프트입니다. 프로세스 메모리에만 존재하며
// 재시작하면 사라집니다. 확정 전에는 아무것도 저장소에 쓰지 않습니다.
type Draft struct {
	Token     string // 컴포넌트 커스텀 ID에 쓰는 불투명 토큰
	ContestID string
	AuthorID  string
	State     DraftState

	Title       string
	Body        string
	Images      []string
	Coordinates string

	StartedAt time.Time
}

// DraftFields 폼 제출로 들어온 입력값 묶음입니다
type DraftFields struct {
	Title       string
	Body        string
	Images      []string
	Coordinates string
}

// DraftManager 드래프트 상태 기계의 소유자입니다.
// 드래프트 맵은 이 타입이 단독으로 소유하며 뮤텍스로 직렬화합니다.
type DraftManager struct {
	mu     sync.Mutex
	store  interfaces.ContestStore
	clock  interfaces.Clock
	roster interfaces.RosterChecker
	drafts map[string]*Draft
}

// NewDraftManager 새 드래프트 매니저를 생성합니다. roster는 nil일 수 있습니다.
func NewDraftManager(store interfaces.ContestStore, clock interfaces.Clock, roster interfaces.RosterChecker) *DraftManager {
	return &DraftManager{
		store:  store,
		clock:  clock,
		roster: roster,
		drafts: make(map[string]*Draft),
	}
}

// Begin 자격 검사를 통과하면 새 드래프트를 시작합니다.
// 검사 순서: 대회 존재 → 제출 창 → 쿼터 → 명단.
func (m *DraftManager) Begin(contestID, authorID, username string) (*Draft, *errors.AppError) {
	contest, appErr := m.eligibleContest(contestID, authorID)
	if appErr != nil {
		return nil, appErr
	}

	if m.roster != nil {
		onRoster, err := m.roster.IsOnRoster(username)
		if err != nil {
			appErr := errors.NewCollaboratorError("ROSTER_CHECK_FAILED",
				fmt.Sprintf("roster lookup for %s failed: %v", username, err), err)
			appErr.UserMsg = constants.MsgRosterCheckFailed
			return nil, appErr
		}
		if !onRoster {
			return nil, errors.NewPermissionError("NOT_ON_ROSTER",
				fmt.Sprintf("user %s is not on the roster", username),
				constants.MsgNotOnRoster)
		}
	}

	draft := &Draft{
		Token:     uuid.NewString(),
		ContestID: contest.ID,
		AuthorID:  authorID,
		State:     StateCollecting,
		StartedAt: m.clock.Now(),
	}

	m.mu.Lock()
	m.drafts[draft.Token] = draft
	m.mu.Unlock()

	utils.Debug("Started draft %s for user %s in contest %s", draft.Token, authorID, contestID)
	return draft, nil
}

// eligibleContest 대회 존재/제출 창/쿼터를 검사하고 통과하면 대회를 반환합니다
func (m *DraftManager) eligibleContest(contestID, authorID string) (*models.Contest, *errors.AppError) {
	contest, err := m.store.FindContest(contestID)
	if err != nil {
		return nil, errors.NewCollaboratorError("CONTEST_LOAD_FAILED",
			fmt.Sprintf("failed to load contest %s: %v", contestID, err), err)
	}
	if contest == nil {
		return nil, errors.NewNotFoundError("CONTEST_NOT_FOUND",
			fmt.Sprintf("contest %s not found", contestID),
			constants.MsgContestNotFound)
	}

	now := m.clock.Now()
	if now.Before(contest.SubmissionOpen) {
		return nil, errors.NewValidationError("SUBMISSIONS_NOT_OPEN",
			fmt.Sprintf("submissions for %s open at %s", contestID, contest.SubmissionOpen),
			fmt.Sprintf(constants.MsgSubmissionOpensAt, contest.SubmissionOpen.Unix()))
	}
	if now.After(contest.SubmissionClose) {
		return nil, errors.NewValidationError("SUBMISSIONS_CLOSED",
			fmt.Sprintf("submissions for %s closed at %s", contestID, contest.SubmissionClose),
			fmt.Sprintf(constants.MsgSubmissionClosedAt, contest.SubmissionClose.Unix()))
	}

	submissions, err := m.store.ListSubmissions(contestID)
	if err != nil {
		return nil, errors.NewCollaboratorError("SUBMISSIONS_LOAD_FAILED",
			fmt.Sprintf("failed to load submissions of %s: %v", contestID, err), err)
	}
	mine := 0
	for _, sub := range submissions {
		if sub.AuthorID == authorID && sub.CountsTowardQuota() {
			mine++
		}
	}
	if mine >= contest.MaxSubmissionsPerUser {
		return nil, errors.NewValidationError("SUBMISSION_QUOTA_REACHED",
			fmt.Sprintf("user %s already has %d submissions in %s", authorID, mine, contestID),
			constants.MsgSubmissionQuota)
	}

	return contest, nil
}

// find 토큰으로 드래프트를 찾습니다. 종료됐거나 모르는 토큰이면 만료 에러입니다.
func (m *DraftManager) find(token string) (*Draft, *errors.AppError) {
	draft, ok := m.drafts[token]
	if !ok {
		return nil, errors.NewNotFoundError("DRAFT_EXPIRED",
			fmt.Sprintf("draft %s is not active", token),
			constants.MsgDraftExpired)
	}
	return draft, nil
}

// Collect 폼 입력을 검증해서 드래프트를 미리보기 상태로 옮깁니다.
// 검증 실패 시 드래프트는 그대로 남고 사용자는 다시 시도할 수 있습니다.
func (m *DraftManager) Collect(token string, contest *models.Contest, fields DraftFields) *errors.AppError {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, appErr := m.find(token)
	if appErr != nil {
		return appErr
	}

	if appErr := validateFields(contest.Kind, fields); appErr != nil {
		return appErr
	}

	draft.Title = fields.Title
	draft.Body = fields.Body
	draft.Images = append([]string(nil), fields.Images...)
	draft.Coordinates = fields.Coordinates
	draft.State = StatePreviewing
	return nil
}

// BeginEdit 미리보기에서 수정 폼으로 되돌립니다. 현재 값의 복사본을 돌려줘서
// 폼을 미리 채울 수 있게 합니다.
func (m *DraftManager) BeginEdit(token string) (*Draft, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, appErr := m.find(token)
	if appErr != nil {
		return nil, appErr
	}
	draft.State = StateEditing

	copied := *draft
	copied.Images = append([]string(nil), draft.Images...)
	return &copied, nil
}

// ApplyEdit 수정 폼 입력을 반영하고 미리보기로 돌아갑니다.
// 비워둔 필드는 이전 값을 유지하고, 이미지 목록은 새로 올린 경우에만 교체합니다.
func (m *DraftManager) ApplyEdit(token string, fields DraftFields) *errors.AppError {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, appErr := m.find(token)
	if appErr != nil {
		return appErr
	}

	if fields.Title != "" {
		draft.Title = fields.Title
	}
	if fields.Body != "" {
		draft.Body = fields.Body
	}
	if fields.Coordinates != "" {
		draft.Coordinates = fields.Coordinates
	}
	if len(fields.Images) > 0 {
		draft.Images = append([]string(nil), fields.Images...)
	}
	draft.State = StatePreviewing
	return nil
}

// Preview 현재 드래프트의 복사본을 반환합니다 (미리보기 렌더링용)
func (m *DraftManager) Preview(token string) (*Draft, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, appErr := m.find(token)
	if appErr != nil {
		return nil, appErr
	}
	copied := *draft
	copied.Images = append([]string(nil), draft.Images...)
	return &copied, nil
}

// Confirm 드래프트를 확정하고 Pending 제출물로 저장합니다.
// 드래프트가 떠 있는 동안 창이 닫혔거나 쿼터가 찼을 수 있으므로
// 자격을 다시 검사합니다. 성공하면 드래프트는 종료됩니다.
func (m *DraftManager) Confirm(token string) (*models.Submission, *errors.AppError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, appErr := m.find(token)
	if appErr != nil {
		return nil, appErr
	}

	if _, appErr := m.eligibleContest(draft.ContestID, draft.AuthorID); appErr != nil {
		return nil, appErr
	}

	submission := &models.Submission{
		ID:          uuid.NewString(),
		ContestID:   draft.ContestID,
		AuthorID:    draft.AuthorID,
		Status:      models.StatusPending,
		Title:       draft.Title,
		Body:        draft.Body,
		Images:      append([]string(nil), draft.Images...),
		Coordinates: draft.Coordinates,
		SubmittedAt: m.clock.Now(),
		MessageRef:  constants.PendingMessageRef,
	}

	if err := m.store.SaveSubmission(submission); err != nil {
		return nil, errors.NewCollaboratorError("SUBMISSION_SAVE_FAILED",
			fmt.Sprintf("failed to persist submission for draft %s: %v", token, err), err)
	}

	delete(m.drafts, token)
	utils.Info("Draft %s confirmed as submission %s in contest %s", token, submission.ID, submission.ContestID)
	return submission, nil
}

// Cancel 드래프트를 폐기합니다. 저장소에는 아무것도 남지 않습니다.
func (m *DraftManager) Cancel(token string) *errors.AppError {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, appErr := m.find(token); appErr != nil {
		return appErr
	}
	delete(m.drafts, token)
	utils.Debug("Draft %s cancelled", token)
	return nil
}

// ActiveCount 진행 중인 드래프트 수를 반환합니다 (상태 점검용)
func (m *DraftManager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}

// validateFields 종류별 필수 필드를 검증합니다
func validateFields(kind models.SubmissionKind, fields DraftFields) *errors.AppError {
	if kind == models.KindImage {
		if len(fields.Images) == 0 {
			return errors.NewValidationError("MISSING_IMAGES",
				"image submission without images", constants.MsgMissingImages)
		}
		if fields.Coordinates == "" {
			return errors.NewValidationError("MISSING_COORDINATES",
				"image submission without coordinates", constants.MsgMissingCoordinates)
		}
		return nil
	}

	if fields.Body == "" {
		return errors.NewValidationError("MISSING_BODY",
			"text submission without body", constants.MsgMissingBody)
	}
	return nil
}
