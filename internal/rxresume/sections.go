package rxresume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// Known section keys with dedicated add tools.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
)

// All section mutations are read-modify-write: fetch the full resume, splice
// the change into the in-memory copy, and push the whole resume back.

// GetSection returns a single named section of a resume.
func (c *Client) GetSection(ctx context.Context, resumeID, section string) (*Section, error) {
	resume, err := c.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	sec, ok := resume.Data.Sections[section]
	if !ok {
		return nil, fmt.Errorf("resume has no section %q", section)
	}

	return &sec, nil
}

// UpdateBasics applies a partial patch over the resume's basics block.
// Unknown keys are rejected so typos surface instead of silently vanishing.
func (c *Client) UpdateBasics(ctx context.Context, resumeID string, patch map[string]any) (*Resume, error) {
	if len(patch) == 0 {
		return nil, errors.New("basics patch must not be empty")
	}

	resume, err := c.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &resume.Data.Basics,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(patch); err != nil {
		return nil, fmt.Errorf("invalid basics patch: %w", err)
	}

	return c.UpdateResume(ctx, resume)
}

// UpdateSummary replaces the summary section's rich-text content.
func (c *Client) UpdateSummary(ctx context.Context, resumeID, content string) (*Resume, error) {
	resume, err := c.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	sec := resume.Data.Sections[SectionSummary]
	if sec.Name == "" {
		sec.Name = "Summary"
		sec.Visible = true
	}
	sec.Content = content
	setSection(resume, SectionSummary, sec)

	return c.UpdateResume(ctx, resume)
}

// AddExperience appends a typed experience item. Defaulted fields (visible
// flag, empty url pair) are filled before the write.
func (c *Client) AddExperience(ctx context.Context, resumeID string, item ExperienceItem) (*Resume, error) {
	if item.Company == "" {
		return nil, errors.New("experience company is required")
	}

	item.ID = newItemID(item.ID)
	item.Visible = true

	return c.addItem(ctx, resumeID, SectionExperience, "Experience", item)
}

func (c *Client) AddEducation(ctx context.Context, resumeID string, item EducationItem) (*Resume, error) {
	if item.Institution == "" {
		return nil, errors.New("education institution is required")
	}

	item.ID = newItemID(item.ID)
	item.Visible = true

	return c.addItem(ctx, resumeID, SectionEducation, "Education", item)
}

func (c *Client) AddSkill(ctx context.Context, resumeID string, item SkillItem) (*Resume, error) {
	if item.Name == "" {
		return nil, errors.New("skill name is required")
	}

	item.ID = newItemID(item.ID)
	item.Visible = true

	return c.addItem(ctx, resumeID, SectionSkills, "Skills", item)
}

func (c *Client) AddProject(ctx context.Context, resumeID string, item ProjectItem) (*Resume, error) {
	if item.Name == "" {
		return nil, errors.New("project name is required")
	}

	item.ID = newItemID(item.ID)
	item.Visible = true

	return c.addItem(ctx, resumeID, SectionProjects, "Projects", item)
}

// UpdateSectionItem merges a free-form patch into the item with the given ID.
// The item's ID itself cannot be patched away.
func (c *Client) UpdateSectionItem(ctx context.Context, resumeID, section, itemID string, patch map[string]any) (*Resume, error) {
	if itemID == "" {
		return nil, errors.New("item id is required")
	}
	if len(patch) == 0 {
		return nil, errors.New("item patch must not be empty")
	}

	resume, err := c.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	sec, ok := resume.Data.Sections[section]
	if !ok {
		return nil, fmt.Errorf("resume has no section %q", section)
	}

	found := false
	for _, item := range sec.Items {
		if itemIDOf(item) != itemID {
			continue
		}
		for key, value := range patch {
			if key == "id" {
				continue
			}
			item[key] = value
		}
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("section %q has no item %q", section, itemID)
	}

	setSection(resume, section, sec)

	return c.UpdateResume(ctx, resume)
}

// RemoveSectionItem removes exactly the item matching the ID, preserving the
// relative order of the rest. Removing a nonexistent ID is a no-op rather
// than a failure.
func (c *Client) RemoveSectionItem(ctx context.Context, resumeID, section, itemID string) (*Resume, error) {
	if itemID == "" {
		return nil, errors.New("item id is required")
	}

	resume, err := c.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	sec, ok := resume.Data.Sections[section]
	if !ok {
		return nil, fmt.Errorf("resume has no section %q", section)
	}

	kept := make([]map[string]any, 0, len(sec.Items))
	removed := false
	for _, item := range sec.Items {
		if !removed && itemIDOf(item) == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}

	if !removed {
		return resume, nil
	}

	sec.Items = kept
	setSection(resume, section, sec)

	return c.UpdateResume(ctx, resume)
}

// SetSectionVisibility flips the section's visibility flag, leaving its items
// untouched.
func (c *Client) SetSectionVisibility(ctx context.Context, resumeID, section string, visible bool) (*Resume, error) {
	resume, err := c.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	sec, ok := resume.Data.Sections[section]
	if !ok {
		return nil, fmt.Errorf("resume has no section %q", section)
	}

	sec.Visible = visible
	setSection(resume, section, sec)

	return c.UpdateResume(ctx, resume)
}

func (c *Client) addItem(ctx context.Context, resumeID, section, sectionName string, item any) (*Resume, error) {
	resume, err := c.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	entry, err := itemAsMap(item)
	if err != nil {
		return nil, err
	}

	sec := resume.Data.Sections[section]
	if sec.Name == "" {
		sec.Name = sectionName
		sec.Visible = true
	}
	sec.Items = append(sec.Items, entry)
	setSection(resume, section, sec)

	return c.UpdateResume(ctx, resume)
}

func setSection(resume *Resume, key string, sec Section) {
	if resume.Data.Sections == nil {
		resume.Data.Sections = make(map[string]Section)
	}
	resume.Data.Sections[key] = sec
}

// itemAsMap round-trips a typed item through JSON so defaulted zero-value
// fields (empty url pair, visible flag) are materialized in the stored map.
func itemAsMap(item any) (map[string]any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}

	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func itemIDOf(item map[string]any) string {
	id, _ := item["id"].(string)
	return id
}

func newItemID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
