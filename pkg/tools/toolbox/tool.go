package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler executes a tool with its JSON arguments and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is a named operation with a JSON Schema for its arguments.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// Decode unmarshals tool arguments into T. Empty input decodes as {}.
func Decode[T any](input json.RawMessage) (T, error) {
	var v T
	if len(input) == 0 {
		return v, nil
	}

	if err := json.Unmarshal(input, &v); err != nil {
		return v, fmt.Errorf("invalid arguments: %w", err)
	}

	return v, nil
}
