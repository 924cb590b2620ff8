package rxresume

// The upstream service speaks two schemas. The v5 OpenAPI surface names the
// resume title "name" and carries "isPublic"/"isLocked" booleans, and its
// section items use period/website/description/hidden. The legacy v4 surface
// matches the normalized naming used by the tool layer (title, visibility,
// locked, date/url/summary/visible), so legacy mode is a passthrough.
// Every mapping here is a pure function over its input.

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Resume is the normalized, version-independent shape exposed to the tool layer.
type Resume struct {
	ID         string     `json:"id,omitempty"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug,omitempty"`
	Visibility string     `json:"visibility,omitempty"`
	Locked     bool       `json:"locked,omitempty"`
	UserID     string     `json:"userId,omitempty"`
	Data       ResumeData `json:"data"`
	CreatedAt  string     `json:"createdAt,omitempty"`
	UpdatedAt  string     `json:"updatedAt,omitempty"`
}

type ResumeData struct {
	Basics   Basics             `json:"basics"`
	Sections map[string]Section `json:"sections"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

type Basics struct {
	Name         string        `json:"name"`
	Headline     string        `json:"headline,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Location     string        `json:"location,omitempty"`
	URL          URL           `json:"url"`
	Picture      Picture       `json:"picture"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

type URL struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Picture struct {
	URL string `json:"url"`
}

type CustomField struct {
	ID    string `json:"id,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Section is a named, ordered collection of items within a resume's data
// payload. Items stay as loose maps so unknown section types survive a
// read-modify-write cycle untouched.
type Section struct {
	ID      string           `json:"id,omitempty"`
	Name    string           `json:"name"`
	Visible bool             `json:"visible"`
	Columns int              `json:"columns,omitempty"`
	Content string           `json:"content,omitempty"`
	Items   []map[string]any `json:"items,omitempty"`
}

// Typed items for the dedicated add_* tools. Field naming follows the
// normalized (v4) shape; translation to v5 happens at the wire boundary.

type ExperienceItem struct {
	ID       string `json:"id,omitempty"`
	Visible  bool   `json:"visible"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Location string `json:"location,omitempty"`
	Date     string `json:"date,omitempty"`
	Summary  string `json:"summary,omitempty"`
	URL      URL    `json:"url"`
}

type EducationItem struct {
	ID          string `json:"id,omitempty"`
	Visible     bool   `json:"visible"`
	Institution string `json:"institution"`
	StudyType   string `json:"studyType,omitempty"`
	Area        string `json:"area,omitempty"`
	Score       string `json:"score,omitempty"`
	Date        string `json:"date,omitempty"`
	Summary     string `json:"summary,omitempty"`
	URL         URL    `json:"url"`
}

type SkillItem struct {
	ID          string   `json:"id,omitempty"`
	Visible     bool     `json:"visible"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Level       int      `json:"level,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

type ProjectItem struct {
	ID          string   `json:"id,omitempty"`
	Visible     bool     `json:"visible"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	URL         URL      `json:"url"`
}

// User is the authenticated account returned by the me endpoint.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// v5Resume is the upstream v5 envelope.
type v5Resume struct {
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug,omitempty"`
	IsPublic  bool         `json:"isPublic"`
	IsLocked  bool         `json:"isLocked,omitempty"`
	UserID    string       `json:"userId,omitempty"`
	Data      v5ResumeData `json:"data"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
}

type v5ResumeData struct {
	Basics   Basics               `json:"basics"`
	Sections map[string]v5Section `json:"sections"`
	Metadata map[string]any       `json:"metadata,omitempty"`
}

type v5Section struct {
	ID      string           `json:"id,omitempty"`
	Name    string           `json:"name"`
	Hidden  bool             `json:"hidden"`
	Columns int              `json:"columns,omitempty"`
	Content string           `json:"content,omitempty"`
	Items   []map[string]any `json:"items,omitempty"`
}

// v5 item keys that differ from the normalized naming.
var itemKeyToV5 = map[string]string{
	"date":    "period",
	"url":     "website",
	"summary": "description",
}

var itemKeyFromV5 = map[string]string{
	"period":      "date",
	"website":     "url",
	"description": "summary",
}

func resumeFromV5(v v5Resume) *Resume {
	return &Resume{
		ID:         v.ID,
		Title:      v.Name,
		Slug:       v.Slug,
		Visibility: visibilityFromV5(v.IsPublic),
		Locked:     v.IsLocked,
		UserID:     v.UserID,
		Data:       dataFromV5(v.Data),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func resumeToV5(r *Resume) v5Resume {
	return v5Resume{
		ID:        r.ID,
		Name:      r.Title,
		Slug:      r.Slug,
		IsPublic:  visibilityToV5(r.Visibility),
		IsLocked:  r.Locked,
		UserID:    r.UserID,
		Data:      dataToV5(r.Data),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func dataFromV5(d v5ResumeData) ResumeData {
	sections := make(map[string]Section, len(d.Sections))
	for key, sec := range d.Sections {
		items := make([]map[string]any, 0, len(sec.Items))
		for _, item := range sec.Items {
			items = append(items, itemFromV5(item))
		}
		if len(items) == 0 {
			items = nil
		}
		sections[key] = Section{
			ID:      sec.ID,
			Name:    sec.Name,
			Visible: !sec.Hidden,
			Columns: sec.Columns,
			Content: sec.Content,
			Items:   items,
		}
	}

	return ResumeData{
		Basics:   d.Basics,
		Sections: sections,
		Metadata: d.Metadata,
	}
}

func dataToV5(d ResumeData) v5ResumeData {
	sections := make(map[string]v5Section, len(d.Sections))
	for key, sec := range d.Sections {
		items := make([]map[string]any, 0, len(sec.Items))
		for _, item := range sec.Items {
			items = append(items, itemToV5(item))
		}
		if len(items) == 0 {
			items = nil
		}
		sections[key] = v5Section{
			ID:      sec.ID,
			Name:    sec.Name,
			Hidden:  !sec.Visible,
			Columns: sec.Columns,
			Content: sec.Content,
			Items:   items,
		}
	}

	return v5ResumeData{
		Basics:   d.Basics,
		Sections: sections,
		Metadata: d.Metadata,
	}
}

// itemFromV5 renames v5 item fields to the normalized naming. An item with no
// hidden flag is treated as visible.
func itemFromV5(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for key, value := range item {
		if renamed, ok := itemKeyFromV5[key]; ok {
			key = renamed
		}
		if key == "hidden" {
			out["visible"] = !asBool(value)
			continue
		}
		out[key] = value
	}

	if _, ok := out["visible"]; !ok {
		out["visible"] = true
	}

	return out
}

func itemToV5(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for key, value := range item {
		if renamed, ok := itemKeyToV5[key]; ok {
			key = renamed
		}
		if key == "visible" {
			out["hidden"] = !asBool(value)
			continue
		}
		out[key] = value
	}

	if _, ok := out["hidden"]; !ok {
		out["hidden"] = false
	}

	return out
}

func visibilityFromV5(isPublic bool) string {
	if isPublic {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

func visibilityToV5(visibility string) bool {
	return visibility == VisibilityPublic
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
