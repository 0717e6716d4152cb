package errors

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

// ErrorType 오류의 종류를 나타냅니다
type ErrorType int

const (
	// TypeValidation 잘못된 입력: 사용자에게 거부로 표면화되고 재시도하지 않습니다
	TypeValidation ErrorType = iota
	// TypeNotFound 단계 사이에 리소스가 사라진 경우: "다시 시도" 안내로 표면화됩니다
	TypeNotFound
	// TypePermission 권한 부족
	TypePermission
	// TypeCollaborator 외부 협력자(Discord, Firestore) 호출 실패: 호출 지점에서
	// 건너뛰고 로그하거나, 단건 작업이면 해당 단계만 중단하고 보고합니다
	TypeCollaborator
	// TypeSystem 내부 오류
	TypeSystem
)

// AppError 애플리케이션에서 발생하는 구조화된 오류를 표현합니다
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	UserMsg  string
	Internal error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// GetUserMessage 사용자에게 표시할 메시지를 반환합니다
func (e *AppError) GetUserMessage() string {
	if e.UserMsg != "" {
		return e.UserMsg
	}
	return e.Message
}

// IsValidation 검증 오류 여부를 확인합니다
func IsValidation(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == TypeValidation
}

// IsNotFound 리소스 부재 오류 여부를 확인합니다
func IsNotFound(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == TypeNotFound
}

// 오류 생성 함수들

// NewValidationError 입력값 검증 오류를 생성합니다
func NewValidationError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypeValidation,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewNotFoundError 리소스를 찾을 수 없는 오류를 생성합니다
func NewNotFoundError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypeNotFound,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewPermissionError 권한 관련 오류를 생성합니다
func NewPermissionError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypePermission,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewCollaboratorError 외부 협력자 호출 실패 오류를 생성합니다
func NewCollaboratorError(code, message string, err error) *AppError {
	return &AppError{
		Type:     TypeCollaborator,
		Code:     code,
		Message:  message,
		UserMsg:  constants.MsgTryAgain,
		Internal: err,
	}
}

// NewSystemError 시스템 내부 오류를 생성합니다
func NewSystemError(code, message string, err error) *AppError {
	return &AppError{
		Type:     TypeSystem,
		Code:     code,
		Message:  message,
		UserMsg:  constants.MsgTryAgain,
		Internal: err,
	}
}

// Discord 메시지 관련 헬퍼 함수들

// HandleDiscordError 오류를 처리하고 Discord 채널에 사용자 메시지를 전송합니다.
// 원시 내부 오류는 절대 사용자에게 노출하지 않습니다.
func HandleDiscordError(s *discordgo.Session, channelID string, err error) {
	if appErr, ok := err.(*AppError); ok {
		if appErr.Internal != nil {
			fmt.Printf("ERROR: %s - %s: %v\n", appErr.Code, appErr.Message, appErr.Internal)
		} else {
			fmt.Printf("ERROR: %s - %s\n", appErr.Code, appErr.Message)
		}

		if discordErr := SendDiscordMessageWithRetry(s, channelID, appErr.GetUserMessage()); discordErr != nil {
			fmt.Printf("DISCORD API ERROR: Failed to send error message after retries: %v\n", discordErr)
		}
		return
	}

	fmt.Printf("UNEXPECTED ERROR: %v\n", err)
	if discordErr := SendDiscordMessageWithRetry(s, channelID, constants.MsgTryAgain); discordErr != nil {
		fmt.Printf("DISCORD API ERROR: Failed to send error message after retries: %v\n", discordErr)
	}
}

// SendDiscordSuccess 성공 메시지를 Discord 채널에 전송합니다
func SendDiscordSuccess(s *discordgo.Session, channelID, message string) error {
	return SendDiscordMessageWithRetry(s, channelID, constants.EmojiSuccess+" "+message)
}

// SendDiscordInfo 정보 메시지를 Discord 채널에 전송합니다
func SendDiscordInfo(s *discordgo.Session, channelID, message string) error {
	return SendDiscordMessageWithRetry(s, channelID, message)
}

// SendDiscordMessageWithRetry Discord 메시지 전송을 재시도 로직과 함께 수행합니다
func SendDiscordMessageWithRetry(s *discordgo.Session, channelID, message string) error {
	var lastErr error
	for attempt := 0; attempt < constants.MaxDiscordRetries; attempt++ {
		_, err := s.ChannelMessageSend(channelID, message)
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt < constants.MaxDiscordRetries-1 {
			delay := time.Duration(1<<attempt) * constants.BaseRetryDelay
			fmt.Printf("Discord API call failed (attempt %d/%d): %v. Retrying in %v...\n",
				attempt+1, constants.MaxDiscordRetries, err, delay)
			time.Sleep(delay)
		}
	}

	fmt.Printf("DISCORD API ERROR: All retry attempts failed: %v\n", lastErr)
	return lastErr
}
