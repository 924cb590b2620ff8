package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// CheckConnectionTool probes the upstream health endpoint.
type CheckConnectionTool struct {
	session *Session
}

func NewCheckConnectionTool(s *Session) *CheckConnectionTool {
	return &CheckConnectionTool{session: s}
}

func (t *CheckConnectionTool) Definition() mcp.Tool {
	return mcp.NewTool("check_connection",
		mcp.WithDescription("Check connectivity to the resume service and report its health status."),
	)
}

func (t *CheckConnectionTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := t.session.Client().CheckConnection(ctx)
	if err != nil {
		return errResult("connection check failed", err), nil
	}

	out = strings.TrimSpace(out)
	if out == "" {
		out = "ok"
	}

	return mcp.NewToolResultText(fmt.Sprintf("connected to %s: %s", t.session.Client().BaseURL(), out)), nil
}

// SetBaseURLTool points the session at a different upstream instance,
// discarding any in-memory credentials.
type SetBaseURLTool struct {
	session *Session
}

func NewSetBaseURLTool(s *Session) *SetBaseURLTool {
	return &SetBaseURLTool{session: s}
}

func (t *SetBaseURLTool) Definition() mcp.Tool {
	return mcp.NewTool("set_base_url",
		mcp.WithDescription("Point the session at a different resume service instance. Discards any stored credentials."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Base URL of the resume service, e.g. https://resume.example.com"),
		),
	)
}

func (t *SetBaseURLTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := req.RequireString("url")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return mcp.NewToolResultError(fmt.Sprintf("invalid base url %q: must start with http:// or https://", rawURL)), nil
	}

	t.session.Reset(rawURL)

	return mcp.NewToolResultText(fmt.Sprintf("base url set to %s; previous session state discarded", rawURL)), nil
}

// AuthenticateTool stores an API key or performs the legacy email/password
// login.
type AuthenticateTool struct {
	session *Session
}

func NewAuthenticateTool(s *Session) *AuthenticateTool {
	return &AuthenticateTool{session: s}
}

func (t *AuthenticateTool) Definition() mcp.Tool {
	return mcp.NewTool("authenticate",
		mcp.WithDescription("Authenticate against the resume service. Provide an api_key (preferred) or an email/password pair for the legacy session flow."),
		mcp.WithString("api_key",
			mcp.Description("API key. Takes priority over any bearer-token session."),
		),
		mcp.WithString("email",
			mcp.Description("Account email for the legacy login flow."),
		),
		mcp.WithString("password",
			mcp.Description("Account password for the legacy login flow."),
		),
	)
}

func (t *AuthenticateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey := strings.TrimSpace(req.GetString("api_key", ""))
	email := strings.TrimSpace(req.GetString("email", ""))
	password := req.GetString("password", "")

	switch {
	case apiKey != "":
		t.session.Client().SetAPIKey(apiKey)
		return mcp.NewToolResultText("api key stored; all subsequent requests will use it"), nil
	case email != "" || password != "":
		if err := t.session.Client().Login(ctx, email, password); err != nil {
			return errResult("login failed", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("authenticated as %s with a legacy session", email)), nil
	default:
		return mcp.NewToolResultError("nothing to do: provide api_key or email/password"), nil
	}
}

// CurrentUserTool reports the account the held credentials belong to.
type CurrentUserTool struct {
	session *Session
}

func NewCurrentUserTool(s *Session) *CurrentUserTool {
	return &CurrentUserTool{session: s}
}

func (t *CurrentUserTool) Definition() mcp.Tool {
	return mcp.NewTool("get_current_user",
		mcp.WithDescription("Return the account the current credentials belong to."),
	)
}

func (t *CurrentUserTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := t.session.Client().Me(ctx)
	if err != nil {
		return errResult("getting current user", err), nil
	}

	return jsonResult(user), nil
}
