package system

import (
	"regexp"
	"strings"
)

// Action is what a spoken system command asks for
type Action string

const (
	ActionOpen  Action = "open"
	ActionClose Action = "close"
)

// Command is a parsed "打开记事本" style request. Whole is the unsplit
// remainder, kept for names that contain a list word such as 和平精英.
type Command struct {
	Action Action
	Names  []string
	Whole  string
}

var (
	openPattern  = regexp.MustCompile(`(?i)^(请|帮我|给我|麻烦)?\s*(打开|启动|运行|开启|(?:open|launch|start|run)\b)\s*(.+)$`)
	closePattern = regexp.MustCompile(`(?i)^(请|帮我|给我|麻烦)?\s*(关闭|关掉|退出|结束|(?:close|quit|exit|kill)\b)\s*(.+)$`)
	listSplit    = regexp.MustCompile(`(?i)\s*(?:和|跟|与|还有|以及|、|，|,|\band\b)\s*`)
	leadingAsk   = regexp.MustCompile(`^(一下|我的)\s*`)
	trailingAsk  = regexp.MustCompile(`(吧|一下|呢)+$`)
)

// ParseCommand splits a request into its verb and one or more application
// names. It reports false when the text starts with no open or close verb.
func ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), "。.!！"))

	var cmd Command
	var rest string
	if m := openPattern.FindStringSubmatch(text); m != nil {
		cmd.Action, rest = ActionOpen, m[3]
	} else if m := closePattern.FindStringSubmatch(text); m != nil {
		cmd.Action, rest = ActionClose, m[3]
	} else {
		return Command{}, false
	}

	rest = leadingAsk.ReplaceAllString(strings.TrimSpace(rest), "")
	rest = strings.TrimSpace(trailingAsk.ReplaceAllString(rest, ""))
	if rest == "" {
		return Command{}, false
	}
	cmd.Whole = rest
	cmd.Names = splitNames(rest)
	return cmd, true
}

// splitNames splits a list of names. A list word at either end or next to
// another one is part of a name, so the text is kept whole.
func splitNames(text string) []string {
	parts := listSplit.Split(text, -1)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
		if parts[i] == "" {
			return []string{text}
		}
	}
	return parts
}
