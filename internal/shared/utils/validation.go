package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Payload size limits (in bytes)
const (
	MaxPayloadSize = 1 * 1024 * 1024 // 1MB - maximum request body
	MaxFrameSize   = 256 * 1024      // 256KB - maximum websocket frame
	MaxParamsSize  = 64 * 1024       // 64KB - parameters of one command
)

// Command limits
const (
	MaxBatchSize      = 32
	MaxIdentifierLen  = 64
	MaxTextLength     = 2048
	MaxParameterDepth = 8
)

// IdentifierPattern matches service and method names such as SystemManager
// or SetReminder.
var IdentifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// JSONSizeValidator validates JSON size limits
type JSONSizeValidator struct {
	maxSize int
}

// NewJSONSizeValidator creates a new validator with the specified max size
func NewJSONSizeValidator(maxSize int) *JSONSizeValidator {
	return &JSONSizeValidator{maxSize: maxSize}
}

// ValidateSize checks if the data size is within limits
func (v *JSONSizeValidator) ValidateSize(data []byte) error {
	if len(data) > v.maxSize {
		return fmt.Errorf("payload size %d bytes exceeds maximum %d bytes", len(data), v.maxSize)
	}
	return nil
}

// ValidateJSONDepth checks if JSON nesting depth is within limits
func ValidateJSONDepth(data any, maxDepth int) error {
	return checkDepth(data, 0, maxDepth)
}

func checkDepth(data any, depth, maxDepth int) error {
	if depth > maxDepth {
		return fmt.Errorf("nesting depth %d exceeds maximum %d", depth, maxDepth)
	}

	switch v := data.(type) {
	case map[string]any:
		for _, value := range v {
			if err := checkDepth(value, depth+1, maxDepth); err != nil {
				return err
			}
		}
	case []any:
		for _, value := range v {
			if err := checkDepth(value, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateIdentifier validates a service or method name
func ValidateIdentifier(value, fieldName string) error {
	if err := ValidateString(value, fieldName, 1, MaxIdentifierLen, true); err != nil {
		return err
	}
	if !IdentifierPattern.MatchString(value) {
		return fmt.Errorf("%s contains invalid characters (letters, digits and underscores only)", fieldName)
	}
	return nil
}

// ValidateParameters checks the size and nesting of a parameter map
func ValidateParameters(params map[string]any) error {
	if len(params) == 0 {
		return nil
	}
	if err := ValidateJSONDepth(params, MaxParameterDepth); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	if err := NewJSONSizeValidator(MaxParamsSize).ValidateSize(data); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}

	for name, value := range params {
		if s, ok := value.(string); ok {
			if err := ValidateString(s, name, 0, MaxTextLength, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateBatchSize rejects empty or oversized batches
func ValidateBatchSize(n int) error {
	if n == 0 {
		return fmt.Errorf("batch is empty")
	}
	if n > MaxBatchSize {
		return fmt.Errorf("batch of %d commands exceeds maximum %d", n, MaxBatchSize)
	}
	return nil
}
