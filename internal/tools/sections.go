package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spigell/rxresume-mcp/internal/rxresume"
)

// parsePatch decodes a caller-supplied free-form JSON object. Malformed input
// is a caller error, reported without touching the upstream.
func parsePatch(raw string) (map[string]any, error) {
	var patch map[string]any
	if err := json.Unmarshal([]byte(raw), &patch); err != nil {
		return nil, fmt.Errorf("patch is not a valid JSON object: %w", err)
	}

	return patch, nil
}

func splitKeywords(raw string) []string {
	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return keywords
}

// UpdateBasicsTool patches the resume's contact block.
type UpdateBasicsTool struct {
	session *Session
}

func NewUpdateBasicsTool(s *Session) *UpdateBasicsTool {
	return &UpdateBasicsTool{session: s}
}

func (t *UpdateBasicsTool) Definition() mcp.Tool {
	return mcp.NewTool("update_resume_basics",
		mcp.WithDescription("Patch the resume's basics block (name, headline, email, phone, location, url). Only the supplied fields change."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("patch",
			mcp.Required(),
			mcp.Description(`JSON object with the basics fields to change, e.g. {"name": "Jane Doe", "headline": "Engineer"}.`),
		),
	)
}

func (t *UpdateBasicsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	raw, err := req.RequireString("patch")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	patch, err := parsePatch(raw)
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	resume, err := t.session.Client().UpdateBasics(ctx, id, patch)
	if err != nil {
		return errResult("updating basics", err), nil
	}

	return jsonResult(resume.Data.Basics), nil
}

// UpdateSummaryTool replaces the summary section content.
type UpdateSummaryTool struct {
	session *Session
}

func NewUpdateSummaryTool(s *Session) *UpdateSummaryTool {
	return &UpdateSummaryTool{session: s}
}

func (t *UpdateSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("update_summary",
		mcp.WithDescription("Replace the resume's summary section content."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New summary content. HTML is allowed.")),
	)
}

func (t *UpdateSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	if _, err := t.session.Client().UpdateSummary(ctx, id, content); err != nil {
		return errResult("updating summary", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("summary of resume %s updated", id)), nil
}

// AddExperienceTool appends an experience item.
type AddExperienceTool struct {
	session *Session
}

func NewAddExperienceTool(s *Session) *AddExperienceTool {
	return &AddExperienceTool{session: s}
}

func (t *AddExperienceTool) Definition() mcp.Tool {
	return mcp.NewTool("add_experience",
		mcp.WithDescription("Add a work experience item to the resume."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("company", mcp.Required(), mcp.Description("Company name.")),
		mcp.WithString("position", mcp.Description("Job title.")),
		mcp.WithString("location", mcp.Description("Job location.")),
		mcp.WithString("date", mcp.Description(`Date range, e.g. "2020 - 2023".`)),
		mcp.WithString("summary", mcp.Description("What was done in the role.")),
		mcp.WithString("url", mcp.Description("Company or project link.")),
	)
}

func (t *AddExperienceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	company, err := req.RequireString("company")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	item := rxresume.ExperienceItem{
		Company:  company,
		Position: req.GetString("position", ""),
		Location: req.GetString("location", ""),
		Date:     req.GetString("date", ""),
		Summary:  req.GetString("summary", ""),
		URL:      rxresume.URL{Href: req.GetString("url", "")},
	}

	if _, err := t.session.Client().AddExperience(ctx, id, item); err != nil {
		return errResult("adding experience", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("experience at %q added to resume %s", company, id)), nil
}

// AddEducationTool appends an education item.
type AddEducationTool struct {
	session *Session
}

func NewAddEducationTool(s *Session) *AddEducationTool {
	return &AddEducationTool{session: s}
}

func (t *AddEducationTool) Definition() mcp.Tool {
	return mcp.NewTool("add_education",
		mcp.WithDescription("Add an education item to the resume."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("institution", mcp.Required(), mcp.Description("School or university name.")),
		mcp.WithString("study_type", mcp.Description("Degree or program type, e.g. Bachelor.")),
		mcp.WithString("area", mcp.Description("Field of study.")),
		mcp.WithString("score", mcp.Description("Grade or GPA.")),
		mcp.WithString("date", mcp.Description(`Date range, e.g. "2014 - 2018".`)),
		mcp.WithString("summary", mcp.Description("Additional notes.")),
		mcp.WithString("url", mcp.Description("Institution link.")),
	)
}

func (t *AddEducationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	institution, err := req.RequireString("institution")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	item := rxresume.EducationItem{
		Institution: institution,
		StudyType:   req.GetString("study_type", ""),
		Area:        req.GetString("area", ""),
		Score:       req.GetString("score", ""),
		Date:        req.GetString("date", ""),
		Summary:     req.GetString("summary", ""),
		URL:         rxresume.URL{Href: req.GetString("url", "")},
	}

	if _, err := t.session.Client().AddEducation(ctx, id, item); err != nil {
		return errResult("adding education", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("education at %q added to resume %s", institution, id)), nil
}

// AddSkillTool appends a skill item.
type AddSkillTool struct {
	session *Session
}

func NewAddSkillTool(s *Session) *AddSkillTool {
	return &AddSkillTool{session: s}
}

func (t *AddSkillTool) Definition() mcp.Tool {
	return mcp.NewTool("add_skill",
		mcp.WithDescription("Add a skill item to the resume."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Skill name.")),
		mcp.WithString("description", mcp.Description("Short qualifier, e.g. Advanced.")),
		mcp.WithNumber("level", mcp.Description("Proficiency from 0 to 5.")),
		mcp.WithString("keywords", mcp.Description("Comma-separated related keywords.")),
	)
}

func (t *AddSkillTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	item := rxresume.SkillItem{
		Name:        name,
		Description: req.GetString("description", ""),
		Level:       int(req.GetFloat("level", 0)),
		Keywords:    splitKeywords(req.GetString("keywords", "")),
	}

	if _, err := t.session.Client().AddSkill(ctx, id, item); err != nil {
		return errResult("adding skill", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("skill %q added to resume %s", name, id)), nil
}

// AddProjectTool appends a project item.
type AddProjectTool struct {
	session *Session
}

func NewAddProjectTool(s *Session) *AddProjectTool {
	return &AddProjectTool{session: s}
}

func (t *AddProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("add_project",
		mcp.WithDescription("Add a project item to the resume."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name.")),
		mcp.WithString("description", mcp.Description("One-line description.")),
		mcp.WithString("date", mcp.Description(`Date range, e.g. "2022 - present".`)),
		mcp.WithString("summary", mcp.Description("What the project does and your role in it.")),
		mcp.WithString("keywords", mcp.Description("Comma-separated technologies or topics.")),
		mcp.WithString("url", mcp.Description("Project link.")),
	)
}

func (t *AddProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	item := rxresume.ProjectItem{
		Name:        name,
		Description: req.GetString("description", ""),
		Date:        req.GetString("date", ""),
		Summary:     req.GetString("summary", ""),
		Keywords:    splitKeywords(req.GetString("keywords", "")),
		URL:         rxresume.URL{Href: req.GetString("url", "")},
	}

	if _, err := t.session.Client().AddProject(ctx, id, item); err != nil {
		return errResult("adding project", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("project %q added to resume %s", name, id)), nil
}

// UpdateSectionItemTool merges a free-form JSON patch into one section item.
type UpdateSectionItemTool struct {
	session *Session
}

func NewUpdateSectionItemTool(s *Session) *UpdateSectionItemTool {
	return &UpdateSectionItemTool{session: s}
}

func (t *UpdateSectionItemTool) Definition() mcp.Tool {
	return mcp.NewTool("update_section_item",
		mcp.WithDescription("Patch a single section item by id. Only the supplied fields change; the item id itself cannot be changed."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section key, e.g. experience.")),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Id of the item to patch.")),
		mcp.WithString("patch",
			mcp.Required(),
			mcp.Description(`JSON object with the fields to change, in normalized naming, e.g. {"summary": "Led the platform team"}.`),
		),
	)
}

func (t *UpdateSectionItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	section, err := req.RequireString("section")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	itemID, err := req.RequireString("item_id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	raw, err := req.RequireString("patch")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	patch, err := parsePatch(raw)
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	if _, err := t.session.Client().UpdateSectionItem(ctx, id, section, itemID, patch); err != nil {
		return errResult("updating section item", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("item %s in section %q updated", itemID, section)), nil
}

// RemoveSectionItemTool removes one section item by id.
type RemoveSectionItemTool struct {
	session *Session
}

func NewRemoveSectionItemTool(s *Session) *RemoveSectionItemTool {
	return &RemoveSectionItemTool{session: s}
}

func (t *RemoveSectionItemTool) Definition() mcp.Tool {
	return mcp.NewTool("remove_section_item",
		mcp.WithDescription("Remove a single item from a section by id. Removing an id that does not exist leaves the section unchanged."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section key, e.g. experience.")),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Id of the item to remove.")),
	)
}

func (t *RemoveSectionItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	section, err := req.RequireString("section")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	itemID, err := req.RequireString("item_id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	if _, err := t.session.Client().RemoveSectionItem(ctx, id, section, itemID); err != nil {
		return errResult("removing section item", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("item %s removed from section %q (no-op if it was absent)", itemID, section)), nil
}

// ToggleSectionVisibilityTool shows or hides a whole section.
type ToggleSectionVisibilityTool struct {
	session *Session
}

func NewToggleSectionVisibilityTool(s *Session) *ToggleSectionVisibilityTool {
	return &ToggleSectionVisibilityTool{session: s}
}

func (t *ToggleSectionVisibilityTool) Definition() mcp.Tool {
	return mcp.NewTool("toggle_section_visibility",
		mcp.WithDescription("Show or hide a whole section. Items inside the section are left untouched."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resume id.")),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section key, e.g. skills.")),
		mcp.WithBoolean("visible", mcp.Required(), mcp.Description("true to show the section, false to hide it.")),
	)
}

func (t *ToggleSectionVisibilityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	section, err := req.RequireString("section")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}
	visible, err := req.RequireBool("visible")
	if err != nil {
		return errResult("invalid arguments", err), nil
	}

	if _, err := t.session.Client().SetSectionVisibility(ctx, id, section, visible); err != nil {
		return errResult("toggling section visibility", err), nil
	}

	state := "hidden"
	if visible {
		state = "visible"
	}

	return mcp.NewToolResultText(fmt.Sprintf("section %q is now %s", section, state)), nil
}
