package outlet

import (
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

var (
	codeFencePattern   = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")
	readOnlyStart      = regexp.MustCompile(`(?i)^(select|with)\b`)
	forbiddenStatement = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|truncate|grant|revoke|copy|merge|vacuum|call|execute|set)\b`)
)

// ExtractSQL pulls the statement out of a model reply that may wrap it in a code fence
// or a leading "SQL:" label.
func ExtractSQL(reply string) string {
	text := strings.TrimSpace(reply)
	if match := codeFencePattern.FindStringSubmatch(text); match != nil {
		text = match[1]
	}
	text = strings.TrimSpace(text)
	if len(text) >= 4 && strings.EqualFold(text[:4], "sql:") {
		text = text[4:]
	}
	return strings.TrimSpace(text)
}

// EnsureReadOnly accepts a single SELECT (or WITH ... SELECT) statement.
func EnsureReadOnly(statement string) (string, error) {
	statement = strings.TrimSpace(statement)
	statement = strings.TrimSpace(strings.TrimSuffix(statement, ";"))
	if statement == "" {
		return "", fmt.Errorf("%w: empty statement", contractx.ErrUnsafeQuery)
	}
	if strings.Contains(statement, ";") {
		return "", fmt.Errorf("%w: multiple statements", contractx.ErrUnsafeQuery)
	}
	if !readOnlyStart.MatchString(statement) {
		return "", fmt.Errorf("%w: statement must start with SELECT", contractx.ErrUnsafeQuery)
	}
	if word := forbiddenStatement.FindString(statement); word != "" {
		return "", fmt.Errorf("%w: %s is not allowed", contractx.ErrUnsafeQuery, strings.ToUpper(word))
	}
	return statement, nil
}
