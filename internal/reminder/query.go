package reminder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Intent is what a free-form reminder sentence asks for.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentSet
	IntentCountdown
	IntentList
	IntentCancel
)

// String returns the string representation of the intent
func (i Intent) String() string {
	switch i {
	case IntentSet:
		return "set"
	case IntentCountdown:
		return "countdown"
	case IntentList:
		return "list"
	case IntentCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Default texts used when a sentence names no content.
const (
	DefaultMessage          = "时间到了"
	DefaultCountdownMessage = "倒计时结束"
	CountdownTitle          = "倒计时"
)

// Parsed is a reminder sentence broken into its parts.
type Parsed struct {
	Intent     Intent
	Expression string
	Message    string
	ID         int64
}

var (
	listPattern      = regexp.MustCompile(`(?i)(列出|查看|显示|有哪些|list|show).*(提醒|闹钟|倒计时|reminders?|alarms?)`)
	cancelPattern    = regexp.MustCompile(`(?i)(取消|关闭|停止|删除|cancel|stop|delete|remove).*(提醒|闹钟|倒计时|reminder|alarm|countdown)`)
	idPattern        = regexp.MustCompile(`\d+`)
	countdownPattern = regexp.MustCompile(`(?i)倒计时|countdown|timer`)
	setPattern       = regexp.MustCompile(`(?i)提醒|闹钟|定时|记得|通知我|告诉我|remind|alarm`)

	// A number with a unit, optionally followed by a later-marker.
	timePattern = regexp.MustCompile(`(?i)(\d+)\s*(` + unitPattern + `)\s*(之后|以后|后|later)?`)
	// "10 提醒我起床": a bare number is seconds.
	bareNumberPattern = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	// Countdown time, unit optional.
	countdownTimePattern = regexp.MustCompile(`(?i)(\d+)\s*(` + unitPattern + `)?`)
	countdownTextPattern = regexp.MustCompile(`(?:并)?(?:提醒|告诉|通知)(?:我)?\s*(.+)`)
	leadingFiller        = regexp.MustCompile(`(?i)^(在|过|(in|after)\s+)`)
	trailingFiller       = regexp.MustCompile(`(?i)(\s+(in|after)|在|过)$`)
)

// Content prefixes dropped from the message, longest first.
var contentPrefixes = []string{
	"remind me to", "remind me", "tell me to", "notify me to",
	"提醒我", "通知我", "告诉我", "记得", "提醒", "to",
}

// Classify routes a sentence to an intent without extracting details.
func Classify(text string) Intent {
	switch {
	case listPattern.MatchString(text):
		return IntentList
	case cancelPattern.MatchString(text):
		return IntentCancel
	case countdownPattern.MatchString(text):
		return IntentCountdown
	case setPattern.MatchString(text), timePattern.MatchString(text):
		return IntentSet
	default:
		return IntentUnknown
	}
}

// ParseQuery classifies a sentence and extracts time, message and ID.
func ParseQuery(text string) (Parsed, error) {
	text = strings.TrimSpace(text)
	switch Classify(text) {
	case IntentList:
		return Parsed{Intent: IntentList}, nil
	case IntentCancel:
		digits := idPattern.FindString(text)
		if digits == "" {
			return Parsed{}, fmt.Errorf("%w: %q names no reminder id", ErrParse, text)
		}
		id, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Parsed{}, fmt.Errorf("%w: bad reminder id %q", ErrParse, digits)
		}
		return Parsed{Intent: IntentCancel, ID: id}, nil
	case IntentCountdown:
		return parseCountdown(text)
	case IntentSet:
		return parseReminder(text)
	default:
		return Parsed{}, fmt.Errorf("%w: %q is not a reminder request", ErrParse, text)
	}
}

// parseReminder handles "3分钟后提醒我起床", "提醒我在5分钟后喝水",
// "10 提醒我起床" and "remind me to stretch in 5 minutes".
func parseReminder(text string) (Parsed, error) {
	if loc := timePattern.FindStringIndex(text); loc != nil {
		expr := strings.TrimSpace(text[loc[0]:loc[1]])
		content := stripContentPrefix(text[loc[1]:])
		if content == "" {
			content = stripContentPrefix(trailingFiller.ReplaceAllString(strings.TrimSpace(text[:loc[0]]), ""))
		}
		if content == "" {
			content = DefaultMessage
		}
		return Parsed{Intent: IntentSet, Expression: expr, Message: content}, nil
	}

	if m := bareNumberPattern.FindStringSubmatch(text); m != nil {
		content := stripContentPrefix(m[2])
		if content == "" {
			content = DefaultMessage
		}
		return Parsed{Intent: IntentSet, Expression: m[1] + "秒", Message: content}, nil
	}

	return Parsed{}, fmt.Errorf("%w: no time found in %q, try \"X分钟后提醒我...\" or \"提醒我在X分钟后...\"", ErrParse, text)
}

// parseCountdown handles "倒计时60秒" and "倒计时5分钟并提醒我关火".
func parseCountdown(text string) (Parsed, error) {
	m := countdownTimePattern.FindStringSubmatch(text)
	if m == nil {
		return Parsed{}, fmt.Errorf("%w: no duration in %q, try \"倒计时X秒\" or \"倒计时X分钟\"", ErrParse, text)
	}
	expr := m[1] + m[2]
	if m[2] == "" {
		expr += "秒"
	}

	content := DefaultCountdownMessage
	if cm := countdownTextPattern.FindStringSubmatch(text); cm != nil {
		if c := strings.TrimSpace(cm[1]); c != "" {
			content = c
		}
	}
	return Parsed{Intent: IntentCountdown, Expression: expr, Message: content}, nil
}

func stripContentPrefix(s string) string {
	s = strings.TrimSpace(leadingFiller.ReplaceAllString(strings.TrimSpace(s), ""))
	lower := strings.ToLower(s)
	for _, p := range contentPrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			lower = strings.ToLower(s)
		}
	}
	return strings.TrimSpace(strings.Trim(s, "，,。.!！"))
}
