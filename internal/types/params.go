package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Params are the parameters of a command.
type Params map[string]any

// Has reports whether name is present and not null
func (p Params) Has(name string) bool {
	v, ok := p[name]
	return ok && v != nil
}

// String returns a required, non-blank string parameter.
func (p Params) String(name string) (string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	return s, nil
}

// OptionalString returns a string parameter or def when absent or blank.
func (p Params) OptionalString(name, def string) (string, error) {
	if !p.Has(name) {
		return def, nil
	}
	s, err := toString(p[name])
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
	}
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return s, nil
}

// Int returns a required integer parameter. JSON numbers and numeric
// strings are accepted.
func (p Params) Int(name string) (int64, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
	}
	return n, nil
}

// OptionalInt returns an integer parameter or def when absent.
func (p Params) OptionalInt(name string, def int64) (int64, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.Int(name)
}

// Bool returns a boolean parameter or def when absent.
func (p Params) Bool(name string, def bool) (bool, error) {
	if !p.Has(name) {
		return def, nil
	}
	switch v := p[name].(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidParameter, name, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %s: %T is not a boolean", ErrInvalidParameter, name, v)
	}
}

// Duration returns a duration parameter given in seconds, or as a Go
// duration string ("90s", "5m"). Absent means def.
func (p Params) Duration(name string, def time.Duration) (time.Duration, error) {
	if !p.Has(name) {
		return def, nil
	}
	if s, ok := p[name].(string); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, nil
		}
	}
	n, err := p.Int(name)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > math.MaxInt64/int64(time.Second) {
		return 0, fmt.Errorf("%w: %s: %d seconds out of range", ErrInvalidParameter, name, n)
	}
	return time.Duration(n) * time.Second, nil
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case int, int64, int32:
		return fmt.Sprint(s), nil
	default:
		return "", fmt.Errorf("%T is not a string", v)
	}
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("%T is not an integer", v)
	}
}
