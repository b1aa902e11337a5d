package reminder

import (
	"strconv"
	"strings"
	"time"
)

// TimeLayout is how due times are shown to users.
const TimeLayout = "2006-01-02 15:04:05"

// FormatRemaining renders a remaining duration as "1小时2分钟3秒", or
// "已完成" when nothing remains.
func FormatRemaining(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return "已完成"
	}
	hours, rest := secs/3600, secs%3600
	minutes, seconds := rest/60, rest%60

	var b strings.Builder
	if hours > 0 {
		b.WriteString(strconv.FormatInt(hours, 10) + "小时")
	}
	if minutes > 0 {
		b.WriteString(strconv.FormatInt(minutes, 10) + "分钟")
	}
	if seconds > 0 || b.Len() == 0 {
		b.WriteString(strconv.FormatInt(seconds, 10) + "秒")
	}
	return b.String()
}
