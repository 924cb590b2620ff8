package rxresume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const apiResumePath = "/api/resume"

// ListResumes returns all resumes of the authenticated account in the
// normalized shape.
func (c *Client) ListResumes(ctx context.Context) ([]*Resume, error) {
	if c.legacy {
		var resumes []*Resume
		if err := c.do(ctx, http.MethodGet, apiResumePath, nil, nil, &resumes); err != nil {
			return nil, err
		}
		return resumes, nil
	}

	var upstream []v5Resume
	if err := c.do(ctx, http.MethodGet, apiResumePath, nil, nil, &upstream); err != nil {
		return nil, err
	}

	resumes := make([]*Resume, 0, len(upstream))
	for _, v := range upstream {
		resumes = append(resumes, resumeFromV5(v))
	}

	return resumes, nil
}

func (c *Client) GetResume(ctx context.Context, id string) (*Resume, error) {
	if id == "" {
		return nil, errors.New("resume id is required")
	}

	path := fmt.Sprintf("%s/%s", apiResumePath, id)

	if c.legacy {
		var resume Resume
		if err := c.do(ctx, http.MethodGet, path, nil, nil, &resume); err != nil {
			return nil, err
		}
		return &resume, nil
	}

	var upstream v5Resume
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &upstream); err != nil {
		return nil, err
	}

	return resumeFromV5(upstream), nil
}

// CreateResume creates a resume with the given title. An empty slug is
// derived from the title by lower-casing and hyphenating it.
func (c *Client) CreateResume(ctx context.Context, title, slug, visibility string) (*Resume, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("resume title is required")
	}

	if slug = strings.TrimSpace(slug); slug == "" {
		slug = Slugify(title)
	}
	if visibility == "" {
		visibility = VisibilityPrivate
	}

	draft := &Resume{Title: title, Slug: slug, Visibility: visibility}

	if c.legacy {
		body := map[string]any{
			"title":      draft.Title,
			"slug":       draft.Slug,
			"visibility": draft.Visibility,
		}
		var resume Resume
		if err := c.do(ctx, http.MethodPost, apiResumePath, nil, body, &resume); err != nil {
			return nil, err
		}
		return &resume, nil
	}

	body := map[string]any{
		"name":     draft.Title,
		"slug":     draft.Slug,
		"isPublic": visibilityToV5(draft.Visibility),
	}

	var upstream v5Resume
	if err := c.do(ctx, http.MethodPost, apiResumePath, nil, body, &upstream); err != nil {
		return nil, err
	}

	return resumeFromV5(upstream), nil
}

// UpdateResume pushes the full resume back upstream. Section mutations are
// all funneled through here: there is no partial-update endpoint and no
// optimistic-concurrency check, so a concurrent writer can overwrite another's
// change.
func (c *Client) UpdateResume(ctx context.Context, resume *Resume) (*Resume, error) {
	if resume == nil || resume.ID == "" {
		return nil, errors.New("resume id is required")
	}

	path := fmt.Sprintf("%s/%s", apiResumePath, resume.ID)

	if c.legacy {
		var updated Resume
		if err := c.do(ctx, http.MethodPatch, path, nil, resume, &updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	var upstream v5Resume
	if err := c.do(ctx, http.MethodPatch, path, nil, resumeToV5(resume), &upstream); err != nil {
		return nil, err
	}

	return resumeFromV5(upstream), nil
}

func (c *Client) DeleteResume(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("resume id is required")
	}

	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", apiResumePath, id), nil, nil, nil)
}

// SetVisibility flips the public/private flag, leaving the rest of the
// resume untouched.
func (c *Client) SetVisibility(ctx context.Context, id, visibility string) (*Resume, error) {
	if visibility != VisibilityPublic && visibility != VisibilityPrivate {
		return nil, fmt.Errorf("invalid visibility %q: must be %q or %q", visibility, VisibilityPublic, VisibilityPrivate)
	}

	resume, err := c.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}

	resume.Visibility = visibility

	return c.UpdateResume(ctx, resume)
}

// ExportResumeJSON fetches the resume and returns it as indented JSON in the
// normalized shape.
func (c *Client) ExportResumeJSON(ctx context.Context, id string) (string, error) {
	resume, err := c.GetResume(ctx, id)
	if err != nil {
		return "", err
	}

	pretty, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", err
	}

	return string(pretty), nil
}

// Slugify lower-cases the title and replaces every run of non-alphanumeric
// characters with a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
