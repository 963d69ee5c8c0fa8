package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func requiredString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s parameter is required", key)
	}
	return v, nil
}

func optionalString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func optionalBool(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b || v == "1"
	}
	return false
}

// optionalBoolPtr distinguishes an absent or null flag from an explicit
// false.
func optionalBoolPtr(args map[string]any, key string) *bool {
	if args[key] == nil {
		return nil
	}
	b := optionalBool(args, key)
	return &b
}

func parseIntArgument(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, nil
	case float64:
		if v < 0 || v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a non-negative integer", key)
		}
		return int(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%s must be a non-negative integer", key)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

// scalarString renders a string, number or boolean argument as the string
// form Frappe stores in property values.
func scalarString(args map[string]any, key string) (string, error) {
	switch v := args[key].(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case nil:
		return "", fmt.Errorf("%s parameter is required", key)
	default:
		return "", fmt.Errorf("%s must be a string, number or boolean", key)
	}
}

// objectArgument returns a JSON object argument. Absent and null both yield
// nil.
func objectArgument(args map[string]any, key string) (map[string]any, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%s must be an object", key)
	}
}

func requiredObject(args map[string]any, key string) (map[string]any, error) {
	v, err := objectArgument(args, key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s parameter is required", key)
	}
	return v, nil
}

// decodeArgument re-decodes a loosely typed argument into out, so array and
// object arguments can be bound to typed structs.
func decodeArgument(args map[string]any, key string, out any) error {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s has an invalid shape: %w", key, err)
	}
	return nil
}

func jsonResult(v any) *mcp.CallToolResult {
	return mcp.NewToolResultText(string(mustMarshal(v)))
}

// adapterError hands the adapter's normalized message to the caller as is.
func adapterError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func argumentError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
