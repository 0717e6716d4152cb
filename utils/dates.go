package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/constants"
)

// FormatDate 단일 날짜를 포맷팅합니다
func FormatDate(date time.Time) string {
	return date.Format(constants.DateFormat)
}

// FormatDateTime 날짜와 시간을 포맷팅합니다
func FormatDateTime(dateTime time.Time) string {
	return dateTime.Format(constants.DateTimeFormat)
}

// DiscordRelativeTimestamp Discord의 상대 시각 표기("3일 후" 등)로 렌더링되는 토큰을 만듭니다
func DiscordRelativeTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

var dayFirstPattern = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})(?:[./-](\d{2,4}))?$`)

// ParseContestDate 대회 경계 날짜 입력을 파싱합니다.
// 유닉스 타임스탬프(초/밀리초), YYYY-MM-DD, 그리고 일-월 우선 형식(D/M 또는 D/M/YYYY)을
// 받아들입니다. 연도가 생략된 날짜가 이미 지났으면 다음 해로 넘깁니다.
func ParseContestDate(input string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	// 유닉스 타임스탬프 (10자리: 초, 13자리: 밀리초)
	if len(trimmed) >= 10 && len(trimmed) <= 13 && isAllDigits(trimmed) {
		numeric, err := strconv.ParseInt(trimmed, 10, 64)
		if err == nil {
			if len(trimmed) == 13 {
				return time.UnixMilli(numeric), nil
			}
			return time.Unix(numeric, 0), nil
		}
	}

	if parsed, err := time.ParseInLocation(constants.DateFormat, trimmed, now.Location()); err == nil {
		return parsed, nil
	}
	if parsed, err := time.ParseInLocation(constants.DateTimeFormat, trimmed, now.Location()); err == nil {
		return parsed, nil
	}

	if parsed, ok := parseDayFirstDate(trimmed, now); ok {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", trimmed)
}

// parseDayFirstDate D/M 또는 D/M/YYYY 형식을 파싱합니다
func parseDayFirstDate(input string, now time.Time) (time.Time, bool) {
	match := dayFirstPattern.FindStringSubmatch(input)
	if match == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	if day < 1 || month < 1 || month > 12 {
		return time.Time{}, false
	}

	hasYear := match[3] != ""
	year := now.Year()
	if hasYear {
		year, _ = strconv.Atoi(match[3])
		if year < 100 {
			year += 2000
		}
	}

	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// 2월 30일 같은 오버플로 날짜 거부
	if candidate.Day() != day || candidate.Month() != time.Month(month) {
		return time.Time{}, false
	}

	// 연도가 생략됐는데 이미 지난 날짜면 다음 해로 해석
	if !hasYear {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if candidate.Before(today) {
			candidate = candidate.AddDate(1, 0, 0)
		}
	}

	return candidate, true
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
