package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

type Logger struct {
	level  LogLevel
	logger *log.Logger
}

var globalLogger *Logger

func init() {
	globalLogger = NewLogger()
}

func NewLogger() *Logger {
	return &Logger{
		level:  getLogLevelFromEnv(),
		logger: log.New(os.Stdout, "", 0),
	}
}

func getLogLevelFromEnv() LogLevel {
	switch strings.ToUpper(os.Getenv(constants.EnvLogLevel)) {
	case constants.LogLevelDebug:
		return DEBUG
	case constants.LogLevelInfo:
		return INFO
	case constants.LogLevelWarn:
		return WARN
	case constants.LogLevelError:
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format(constants.DateTimeFormat)
	message := maskSensitiveInfo(fmt.Sprintf(format, args...))

	l.logger.Printf("[%s] %s %s", timestamp, l.getLevelString(level), message)
}

// maskSensitiveInfo 토큰 등 민감한 값이 로그에 남지 않도록 마스킹합니다
func maskSensitiveInfo(message string) string {
	words := strings.Fields(message)
	changed := false
	for i, word := range words {
		// Discord 봇 토큰은 점으로 구분된 긴 문자열입니다
		if len(word) > 50 && strings.Count(word, ".") >= 2 {
			words[i] = "***TOKEN***"
			changed = true
			continue
		}
		lower := strings.ToLower(word)
		for _, keyword := range []string{"token=", "key=", "secret=", "password="} {
			if idx := strings.Index(lower, keyword); idx != -1 {
				words[i] = word[:idx+len(keyword)] + "***MASKED***"
				changed = true
				break
			}
		}
	}
	if !changed {
		return message
	}
	return strings.Join(words, " ")
}

func (l *Logger) getLevelString(level LogLevel) string {
	switch level {
	case DEBUG:
		return constants.LogLevelDebug
	case INFO:
		return constants.LogLevelInfo
	case WARN:
		return constants.LogLevelWarn
	case ERROR:
		return constants.LogLevelError
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// 글로벌 로거 함수들
func Debug(format string, args ...interface{}) {
	globalLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.Error(format, args...)
}
