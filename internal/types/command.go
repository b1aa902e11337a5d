package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Command is one request to a service: {name, method, parameters}.
type Command struct {
	Name       string         `json:"name"`
	Method     string         `json:"method"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// String returns "Name.Method"
func (c Command) String() string {
	return c.Name + "." + c.Method
}

// Status of a command response
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Response is the result of one command. Data fields are flattened next to
// status and message on the wire.
type Response struct {
	Status    Status
	Message   string
	ErrorKind Kind
	Data      map[string]any
}

// Success builds a success response
func Success(message string, data map[string]any) *Response {
	return &Response{Status: StatusSuccess, Message: message, Data: data}
}

// Failure builds an error response carrying the error's kind
func Failure(err error) *Response {
	return &Response{Status: StatusError, Message: err.Error(), ErrorKind: KindOf(err)}
}

// Failuref builds an error response with a custom message
func Failuref(err error, format string, args ...any) *Response {
	return &Response{Status: StatusError, Message: fmt.Sprintf(format, args...), ErrorKind: KindOf(err)}
}

// OK reports whether the response is a success
func (r *Response) OK() bool {
	return r != nil && r.Status == StatusSuccess
}

// Get returns a flattened data field
func (r *Response) Get(key string) (any, bool) {
	if r == nil || r.Data == nil {
		return nil, false
	}
	v, ok := r.Data[key]
	return v, ok
}

var reservedKeys = map[string]bool{"status": true, "message": true, "error_kind": true}

// MarshalJSON flattens Data into the top-level object.
func (r Response) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Data)+3)
	for k, v := range r.Data {
		if !reservedKeys[k] {
			out[k] = v
		}
	}
	out["status"] = r.Status
	out["message"] = r.Message
	if r.ErrorKind != "" {
		out["error_kind"] = r.ErrorKind
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flattened response back.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	status, _ := raw["status"].(string)
	if status != string(StatusSuccess) && status != string(StatusError) {
		return errors.New("response: missing or invalid status")
	}
	r.Status = Status(status)
	r.Message, _ = raw["message"].(string)
	kind, _ := raw["error_kind"].(string)
	r.ErrorKind = Kind(kind)

	r.Data = nil
	for k, v := range raw {
		if reservedKeys[k] {
			continue
		}
		if r.Data == nil {
			r.Data = make(map[string]any)
		}
		r.Data[k] = v
	}
	return nil
}

// DecodeCommands reads either one command object or an array of them.
// batch reports which form was sent so replies can mirror it.
func DecodeCommands(data []byte) (cmds []Command, batch bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false, errors.New("empty command body")
	}

	if data[0] == '[' {
		if err := json.Unmarshal(data, &cmds); err != nil {
			return nil, true, fmt.Errorf("decode command batch: %w", err)
		}
		return cmds, true, nil
	}

	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, false, fmt.Errorf("decode command: %w", err)
	}
	return []Command{cmd}, false, nil
}
