// Package tools declares the MCP tool menu. Each tool validates its
// arguments, delegates to the upstream client, and wraps the outcome into a
// textual tool result. Failures never propagate past a handler: every
// client-side or network error comes back as an error-flagged result.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/spigell/rxresume-mcp/internal/rxresume"
)

// Session holds the one live upstream client. The MCP stdio transport
// serializes tool calls, so the client pointer is only ever swapped between
// invocations and no locking is needed.
type Session struct {
	logger *zap.Logger
	client *rxresume.Client
	legacy bool
}

func NewSession(client *rxresume.Client, legacy bool, logger *zap.Logger) *Session {
	return &Session{
		logger: logger,
		client: client,
		legacy: legacy,
	}
}

func (s *Session) Client() *rxresume.Client {
	return s.client
}

// Reset replaces the client with a fresh one for the given base URL. Any
// in-memory session state is discarded with the old instance.
func (s *Session) Reset(baseURL string) {
	opts := []rxresume.Option{}
	if s.legacy {
		opts = append(opts, rxresume.WithLegacyAPI())
	}

	s.client = rxresume.New(baseURL, s.logger, opts...)
	s.logger.Info("upstream client replaced", zap.String("base_url", baseURL))
}

// jsonResult pretty-prints v as the tool's textual payload.
func jsonResult(v any) *mcp.CallToolResult {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %s", err))
	}

	return mcp.NewToolResultText(string(pretty))
}

func errResult(msg string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", msg, err))
}
