package util

import (
	"strconv"
	"strings"
)

// MentionID extracts the user ID from a direct mention token (<@!123> or <@123>).
// Any other shape returns 0.
func MentionID(token string) uint64 {
	if !strings.HasPrefix(token, "<@") || !strings.HasSuffix(token, ">") {
		return 0
	}
	body := strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
	body = strings.TrimPrefix(body, "!")
	if body == "" || body[0] == '+' {
		return 0
	}

	id, err := strconv.ParseUint(body, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Mention formats a user ID as a direct mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
