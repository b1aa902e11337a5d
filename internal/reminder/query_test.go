package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in   string
		want Parsed
	}{
		{"3分钟后提醒我起床", Parsed{Intent: IntentSet, Expression: "3分钟后", Message: "起床"}},
		{"提醒我在5分钟后喝水", Parsed{Intent: IntentSet, Expression: "5分钟后", Message: "喝水"}},
		{"1小时后提醒我开会", Parsed{Intent: IntentSet, Expression: "1小时后", Message: "开会"}},
		{"10 提醒我起床", Parsed{Intent: IntentSet, Expression: "10秒", Message: "起床"}},
		{"5分钟后提醒我", Parsed{Intent: IntentSet, Expression: "5分钟后", Message: DefaultMessage}},
		{"in 5 minutes remind me to stretch", Parsed{Intent: IntentSet, Expression: "5 minutes", Message: "stretch"}},
		{"remind me to call mom in 2 hours", Parsed{Intent: IntentSet, Expression: "2 hours", Message: "call mom"}},
		{"倒计时60秒", Parsed{Intent: IntentCountdown, Expression: "60秒", Message: DefaultCountdownMessage}},
		{"倒计时30", Parsed{Intent: IntentCountdown, Expression: "30秒", Message: DefaultCountdownMessage}},
		{"倒计时5分钟并提醒我关火", Parsed{Intent: IntentCountdown, Expression: "5分钟", Message: "关火"}},
		{"查看提醒", Parsed{Intent: IntentList}},
		{"有哪些闹钟", Parsed{Intent: IntentList}},
		{"list reminders", Parsed{Intent: IntentList}},
		{"取消提醒 3", Parsed{Intent: IntentCancel, ID: 3}},
		{"取消3号提醒", Parsed{Intent: IntentCancel, ID: 3}},
		{"cancel reminder 12", Parsed{Intent: IntentCancel, ID: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuery(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, in := range []string{"今天天气怎么样", "提醒我起床", "取消提醒", "倒计时"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseQuery(in)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParsedExpressionsAreValid(t *testing.T) {
	for _, in := range []string{"3分钟后提醒我起床", "提醒我在5分钟后喝水", "10 提醒我起床", "倒计时30", "remind me to call mom in 2 hours"} {
		p, err := ParseQuery(in)
		require.NoError(t, err)
		_, _, err = ParseTimeExpression(p.Expression)
		assert.NoError(t, err, in)
	}
}
