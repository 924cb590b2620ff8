// Package server wires the upstream client session and the MCP tool menu
// into a stdio server instance. No business logic lives here.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/spigell/rxresume-mcp/internal/tools"
)

const name = "rxresume-mcp"

// New creates the MCP server with the full tool menu registered against the
// given session.
func New(session *tools.Session, version string) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	// Connection and auth.
	checkConnection := tools.NewCheckConnectionTool(session)
	s.AddTool(checkConnection.Definition(), checkConnection.Handle)

	setBaseURL := tools.NewSetBaseURLTool(session)
	s.AddTool(setBaseURL.Definition(), setBaseURL.Handle)

	authenticate := tools.NewAuthenticateTool(session)
	s.AddTool(authenticate.Definition(), authenticate.Handle)

	currentUser := tools.NewCurrentUserTool(session)
	s.AddTool(currentUser.Definition(), currentUser.Handle)

	// Resume lifecycle.
	listResumes := tools.NewListResumesTool(session)
	s.AddTool(listResumes.Definition(), listResumes.Handle)

	getResume := tools.NewGetResumeTool(session)
	s.AddTool(getResume.Definition(), getResume.Handle)

	getSection := tools.NewGetResumeSectionTool(session)
	s.AddTool(getSection.Definition(), getSection.Handle)

	createResume := tools.NewCreateResumeTool(session)
	s.AddTool(createResume.Definition(), createResume.Handle)

	deleteResume := tools.NewDeleteResumeTool(session)
	s.AddTool(deleteResume.Definition(), deleteResume.Handle)

	exportResume := tools.NewExportResumeJSONTool(session)
	s.AddTool(exportResume.Definition(), exportResume.Handle)

	visibility := tools.NewUpdateResumeVisibilityTool(session)
	s.AddTool(visibility.Definition(), visibility.Handle)

	// Content editing.
	basics := tools.NewUpdateBasicsTool(session)
	s.AddTool(basics.Definition(), basics.Handle)

	summary := tools.NewUpdateSummaryTool(session)
	s.AddTool(summary.Definition(), summary.Handle)

	experience := tools.NewAddExperienceTool(session)
	s.AddTool(experience.Definition(), experience.Handle)

	education := tools.NewAddEducationTool(session)
	s.AddTool(education.Definition(), education.Handle)

	skill := tools.NewAddSkillTool(session)
	s.AddTool(skill.Definition(), skill.Handle)

	project := tools.NewAddProjectTool(session)
	s.AddTool(project.Definition(), project.Handle)

	updateItem := tools.NewUpdateSectionItemTool(session)
	s.AddTool(updateItem.Definition(), updateItem.Handle)

	removeItem := tools.NewRemoveSectionItemTool(session)
	s.AddTool(removeItem.Definition(), removeItem.Handle)

	toggleSection := tools.NewToggleSectionVisibilityTool(session)
	s.AddTool(toggleSection.Definition(), toggleSection.Handle)

	return s
}

// ServeStdio blocks serving the MCP protocol over stdin/stdout until the
// client disconnects. All logging goes to stderr: stdout carries the
// protocol stream.
func ServeStdio(s *server.MCPServer, logger *zap.Logger) error {
	errLogger, err := zap.NewStdLogAt(logger.Named("stdio"), zap.ErrorLevel)
	if err != nil {
		return err
	}

	return server.ServeStdio(s, server.WithErrorLogger(errLogger))
}

const instructions = `This server drives a Reactive-Resume-compatible resume service.

Start with check_connection to verify the upstream is reachable, then
authenticate (an api_key is preferred; email/password uses the legacy
session flow). Resume ids from list_resumes are required by every other
resume tool. delete_resume only acts when called with confirm=true.

Content tools (add_experience, update_section_item, ...) rewrite the whole
resume on each call, so apply edits one at a time.`
