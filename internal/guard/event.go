package guard

import (
	"encoding/json"
	"fmt"
	"io"
)

// Phase identifies whether the tool call has executed yet.
type Phase string

const (
	// PhaseBefore means the tool call is proposed but not yet executed.
	PhaseBefore Phase = "before"
	// PhaseAfter means the tool call has already executed.
	PhaseAfter Phase = "after"
)

// InvocationEvent represents one tool call observed by the agent runtime.
// It is constructed once per invocation and must not be mutated by checkers.
type InvocationEvent struct {
	Phase        Phase           `json:"-"`
	ToolName     string          `json:"tool_name"`
	ToolInput    json.RawMessage `json:"tool_input"`
	ToolResponse json.RawMessage `json:"tool_response"`

	input    map[string]interface{}
	response map[string]interface{}
}

// ParseEvent reads and parses an invocation event JSON from a reader.
// The phase is supplied by the caller since the runtime encodes it in
// which hook it invokes, not in the payload itself.
func ParseEvent(reader io.Reader, phase Phase) (*InvocationEvent, error) {
	var event InvocationEvent
	if err := json.NewDecoder(reader).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if event.ToolName == "" {
		return nil, fmt.Errorf("tool_name is required")
	}

	event.Phase = phase

	if len(event.ToolInput) > 0 {
		var parsed map[string]interface{}
		if err := json.Unmarshal(event.ToolInput, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse tool_input: %w", err)
		}
		event.input = parsed
	}

	if len(event.ToolResponse) > 0 {
		var parsed map[string]interface{}
		if err := json.Unmarshal(event.ToolResponse, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse tool_response: %w", err)
		}
		event.response = parsed
	}

	return &event, nil
}

// GetStringArg retrieves a string argument from the tool input.
// Returns the value and true if found, empty string and false if not found.
func (e *InvocationEvent) GetStringArg(name string) (string, bool) {
	if e.input == nil {
		return "", false
	}

	value, ok := e.input[name]
	if !ok {
		return "", false
	}

	strValue, ok := value.(string)
	if !ok {
		return "", false
	}

	return strValue, true
}

// FirstStringArg returns the first non-empty string value among the named
// arguments. Tools disagree on field names (file_path vs path, content vs
// new_string), so checkers probe the aliases in order.
func (e *InvocationEvent) FirstStringArg(names ...string) string {
	for _, name := range names {
		if value, ok := e.GetStringArg(name); ok && value != "" {
			return value
		}
	}
	return ""
}

// GetBoolArg retrieves a boolean argument from the tool input.
// Returns the value and true if found, false and false if not found.
func (e *InvocationEvent) GetBoolArg(name string) (bool, bool) {
	if e.input == nil {
		return false, false
	}

	value, ok := e.input[name]
	if !ok {
		return false, false
	}

	boolValue, ok := value.(bool)
	if !ok {
		return false, false
	}

	return boolValue, true
}

// InputFields returns a copy of the parsed tool input fields. Mutating the
// returned map does not affect the event.
func (e *InvocationEvent) InputFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(e.input))
	for key, value := range e.input {
		fields[key] = value
	}
	return fields
}

// ResponseSuccess reports whether an after-phase tool response indicates
// success. A missing response or missing indicator counts as success: the
// guard only skips work when the runtime explicitly reports a failure.
func (e *InvocationEvent) ResponseSuccess() bool {
	if e.response == nil {
		return true
	}

	if exitCode, ok := e.response["exitCode"]; ok {
		if code, ok := exitCode.(float64); ok {
			return code == 0
		}
	}

	if success, ok := e.response["success"]; ok {
		if flag, ok := success.(bool); ok {
			return flag
		}
	}

	return true
}
