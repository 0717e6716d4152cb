package utils

import "strings"

// SanitizeString 사용자 입력에서 Discord 멘션과 마크다운을 무력화합니다
func SanitizeString(input string) string {
	replacer := strings.NewReplacer(
		"`", "'",
		"@everyone", "(at)everyone",
		"@here", "(at)here",
		"<@", "(at)",
		"<#", "(channel)",
		"<:", "(emoji)",
		"**", "",
		"__", "",
		"~~", "",
		"*", "",
		"||", "",
	)
	return strings.TrimSpace(replacer.Replace(input))
}

// TruncateForDiscord Discord 메시지 길이 제한에 맞게 문자열을 자릅니다
func TruncateForDiscord(input string, maxLen int) string {
	if len(input) <= maxLen {
		return input
	}
	if maxLen <= 3 {
		return input[:maxLen]
	}
	return input[:maxLen-3] + "..."
}
