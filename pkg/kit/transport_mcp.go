package kit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Args are the arguments of one MCP tool call.
type Args map[string]any

// String returns a string argument, trimmed. Missing or non-string values
// give "".
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return strings.TrimSpace(s)
}

// Lines returns a list argument. Clients may send either a JSON array of
// strings or one newline-separated string; blank entries are dropped.
func (a Args) Lines(name string) []string {
	var raw []string
	switch v := a[name].(type) {
	case string:
		raw = strings.FieldsFunc(v, func(r rune) bool { return r == '\n' || r == '\r' })
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = v
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Indexed returns an object argument keyed by non-negative integers, such
// as {"0": "value"}. Entries with other keys or non-string values are an
// error.
func (a Args) Indexed(name string) (map[int]string, error) {
	raw, ok := a[name]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", name)
	}
	out := make(map[int]string, len(obj))
	for k, v := range obj {
		i, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%s: key %q is not an index", name, k)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%s] must be a string", name, k)
		}
		out[i] = s
	}
	return out, nil
}

// Require reports the first named argument that is missing or blank.
func (a Args) Require(names ...string) error {
	for _, n := range names {
		if a.String(n) == "" && len(a.Lines(n)) == 0 {
			return fmt.Errorf("%s is required", n)
		}
	}
	return nil
}

// MCPDecoder turns tool arguments into an endpoint request.
type MCPDecoder func(Args) (any, error)

// RegisterMCPTool registers an Endpoint as an MCP tool on the given server.
// Decode and endpoint errors, and endpoint panics, are reported as tool
// errors, not protocol errors.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode MCPDecoder) {
	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				res, err = mcp.NewToolResultError(fmt.Sprintf("internal error: %v", r)), nil
			}
		}()

		request, err := decode(Args(req.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		ctx = WithRequestID(WithTransport(ctx, "mcp"), uuid.NewString())

		resp, err := endpoint(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
