package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spigell/rxresume-mcp/internal/rxresume"
)

// ListResumesTool lists all resumes of the authenticated account.
type ListResumesTool struct {
	session *Session
}

func NewListResumesTool(s *Session) *ListResumesTool {
	return &ListResumesTool{session: s}
}

func (t *ListResumesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_resumes",
		mcp.WithDescription("List all resumes of the authenticated account."),
	)
}

func (t *ListResumesTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resumes, err := t.session.Client().ListResumes(ctx)
	if err != nil {
		return errResult("listing resumes", err), nil
	}

	if len(resumes) == 0 {
		return mcp.NewToolResultText("no resumes found"), nil
	}

	return jsonResult(resumes), nil
}

// GetResumeTool fetches a single resume by id.
type GetResumeTool struct {
	session *Session
}

func NewGetResumeTool(s *Session) *GetResumeTool {
	return &GetResumeTool{session: s}
}

func (t *GetResumeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_resume",
		mcp.WithDescription("Fetch a single resume, including its full data payload."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
	)
}

func (t *GetResumeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	resume, err := t.session.Client().GetResume(ctx, id)
	if err != nil {
		return errResult("getting resume", err), nil
	}

	return jsonResult(resume), nil
}

// GetResumeSectionTool fetches one named section of a resume.
type GetResumeSectionTool struct {
	session *Session
}

func NewGetResumeSectionTool(s *Session) *GetResumeSectionTool {
	return &GetResumeSectionTool{session: s}
}

func (t *GetResumeSectionTool) Definition() mcp.Tool {
	return mcp.NewTool("get_resume_section",
		mcp.WithDescription("Fetch one named section of a resume, e.g. experience or skills."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section key, e.g. summary, experience, education, skills, projects.")),
	)
}

func (t *GetResumeSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	section, err := req.RequireString("section")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	sec, err := t.session.Client().GetSection(ctx, id, section)
	if err != nil {
		return errResult("getting section", err), nil
	}

	return jsonResult(sec), nil
}

// CreateResumeTool creates a resume, deriving the slug from the title when
// none is supplied.
type CreateResumeTool struct {
	session *Session
}

func NewCreateResumeTool(s *Session) *CreateResumeTool {
	return &CreateResumeTool{session: s}
}

func (t *CreateResumeTool) Definition() mcp.Tool {
	return mcp.NewTool("create_resume",
		mcp.WithDescription("Create a new resume. The slug is derived from the title when omitted."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Resume title.")),
		mcp.WithString("slug", mcp.Description("URL slug. Defaults to the lower-cased, hyphenated title.")),
		mcp.WithString("visibility",
			mcp.Description("public or private. Defaults to private."),
			mcp.Enum(rxresume.VisibilityPublic, rxresume.VisibilityPrivate),
		),
	)
}

func (t *CreateResumeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	resume, err := t.session.Client().CreateResume(ctx, title, req.GetString("slug", ""), req.GetString("visibility", ""))
	if err != nil {
		return errResult("creating resume", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"created resume %q (id: %s, slug: %s, visibility: %s)",
		resume.Title, resume.ID, resume.Slug, resume.Visibility,
	)), nil
}

// DeleteResumeTool deletes a resume. It refuses to act without an explicit
// confirmation argument.
type DeleteResumeTool struct {
	session *Session
}

func NewDeleteResumeTool(s *Session) *DeleteResumeTool {
	return &DeleteResumeTool{session: s}
}

func (t *DeleteResumeTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_resume",
		mcp.WithDescription("Permanently delete a resume. Requires confirm=true; without it the call is cancelled and nothing is sent upstream."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithBoolean("confirm", mcp.Description("Must be true to actually delete.")),
	)
}

func (t *DeleteResumeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	if !req.GetBool("confirm", false) {
		return mcp.NewToolResultText(fmt.Sprintf("deletion of resume %s cancelled: pass confirm=true to proceed", id)), nil
	}

	if err := t.session.Client().DeleteResume(ctx, id); err != nil {
		return errResult("deleting resume", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("resume %s deleted", id)), nil
}

// ExportResumeJSONTool returns the full resume as indented JSON.
type ExportResumeJSONTool struct {
	session *Session
}

func NewExportResumeJSONTool(s *Session) *ExportResumeJSONTool {
	return &ExportResumeJSONTool{session: s}
}

func (t *ExportResumeJSONTool) Definition() mcp.Tool {
	return mcp.NewTool("export_resume_json",
		mcp.WithDescription("Export the full resume as indented JSON in the normalized shape."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
	)
}

func (t *ExportResumeJSONTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	out, err := t.session.Client().ExportResumeJSON(ctx, id)
	if err != nil {
		return errResult("exporting resume", err), nil
	}

	return mcp.NewToolResultText(out), nil
}

// UpdateResumeVisibilityTool flips a resume between public and private.
type UpdateResumeVisibilityTool struct {
	session *Session
}

func NewUpdateResumeVisibilityTool(s *Session) *UpdateResumeVisibilityTool {
	return &UpdateResumeVisibilityTool{session: s}
}

func (t *UpdateResumeVisibilityTool) Definition() mcp.Tool {
	return mcp.NewTool("update_resume_visibility",
		mcp.WithDescription("Make a resume public or private."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("visibility",
			mcp.Required(),
			mcp.Description("public or private."),
			mcp.Enum(rxresume.VisibilityPublic, rxresume.VisibilityPrivate),
		),
	)
}

func (t *UpdateResumeVisibilityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	visibility, err := req.RequireString("visibility")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	resume, err := t.session.Client().SetVisibility(ctx, id, visibility)
	if err != nil {
		return errResult("updating visibility", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("resume %s is now %s", resume.ID, resume.Visibility)), nil
}
