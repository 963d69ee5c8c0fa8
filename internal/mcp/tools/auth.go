package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (bool, error)
}

type AuthenticateHandler struct{ Service AuthService }

func (h *AuthenticateHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	username, err := requiredString(args, "username")
	if err != nil {
		return argumentError(err)
	}
	password, err := requiredString(args, "password")
	if err != nil {
		return argumentError(err)
	}

	ok, err := h.Service.Login(ctx, username, password)
	if err != nil {
		return adapterError(err)
	}
	if !ok {
		return mcp.NewToolResultError("Authentication failed: ERPNext did not confirm the login"), nil
	}
	return jsonResult(map[string]any{"authenticated": true, "user": username}), nil
}
