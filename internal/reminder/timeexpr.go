package reminder

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ErrParse is returned for time expressions that do not describe a
// positive duration.
var ErrParse = errors.New("invalid time expression")

// unitPattern lists every accepted unit, longest spelling first so the
// alternation never stops at a prefix.
const unitPattern = `个小时|小时|钟头|hours|hour|hrs|hr|h|分钟|分|minutes|minute|mins|min|m|秒钟|秒|seconds|second|secs|sec|s`

var (
	tokenPattern  = regexp.MustCompile(`(\d+)(` + unitPattern + `)`)
	markerPattern = regexp.MustCompile(`(之后|以后|后|later|after|fromnow)$`)
	digitsPattern = regexp.MustCompile(`\d+`)
)

// Values larger than this are rejected instead of overflowing.
const maxValue = 1 << 31

// maxTotal is the longest delay, in seconds, a time.Duration can hold.
const maxTotal = math.MaxInt64 / int64(time.Second)

type unit struct {
	seconds int64
	zh      string
	en      string
}

var (
	unitHour   = unit{3600, "小时", "hour"}
	unitMinute = unit{60, "分钟", "minute"}
	unitSecond = unit{1, "秒", "second"}
)

func lookupUnit(token string) unit {
	switch token {
	case "个小时", "小时", "钟头", "hours", "hour", "hrs", "hr", "h":
		return unitHour
	case "分钟", "分", "minutes", "minute", "mins", "min", "m":
		return unitMinute
	default:
		return unitSecond
	}
}

// ParseTimeExpression parses "5分钟", "1小时30分钟", "90s", "2 hours later"
// and similar into a number of seconds plus a canonical description.
// Chinese units produce Chinese fragments ("5分钟"), Latin units English
// ones ("5 minutes"). Text without units is read as bare seconds.
func ParseTimeExpression(text string) (int64, string, error) {
	s := strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text))
	s = markerPattern.ReplaceAllString(s, "")

	var (
		total int64
		desc  strings.Builder
		latin bool
	)
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		value, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || value > maxValue {
			return 0, "", fmt.Errorf("%w: %q: value out of range", ErrParse, text)
		}
		u := lookupUnit(m[2])
		total += value * u.seconds
		if total > maxTotal {
			return 0, "", fmt.Errorf("%w: %q: duration too long", ErrParse, text)
		}

		isLatin := m[2][0] < 0x80
		if desc.Len() > 0 && (isLatin || latin) {
			desc.WriteByte(' ')
		}
		latin = isLatin
		desc.WriteString(fragment(value, u, isLatin))
	}

	if desc.Len() == 0 {
		digits := strings.Join(digitsPattern.FindAllString(s, -1), "")
		if digits != "" {
			value, err := strconv.ParseInt(digits, 10, 64)
			if err != nil || value > maxValue {
				return 0, "", fmt.Errorf("%w: %q: value out of range", ErrParse, text)
			}
			total = value
			desc.WriteString(fragment(value, unitSecond, false))
		}
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrParse, text)
	}
	return total, desc.String(), nil
}

func fragment(value int64, u unit, latin bool) string {
	if !latin {
		return strconv.FormatInt(value, 10) + u.zh
	}
	name := u.en
	if value != 1 {
		name += "s"
	}
	return strconv.FormatInt(value, 10) + " " + name
}
