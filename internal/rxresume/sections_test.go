package rxresume

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"
)

// fakeUpstream is a minimal v5 server holding a single resume in memory.
type fakeUpstream struct {
	mu      sync.Mutex
	resume  v5Resume
	patches int
}

func newFakeUpstream(resume v5Resume) *fakeUpstream {
	return &fakeUpstream{resume: resume}
}

func (f *fakeUpstream) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if r.URL.Path != apiResumePath+"/"+f.resume.ID {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
		case http.MethodPatch:
			f.patches++
			var updated v5Resume
			if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
				t.Errorf("decoding patch: %v", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.resume = updated
		default:
			t.Errorf("unexpected method: %s", r.Method)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.resume)
	}
}

func testResume() v5Resume {
	return v5Resume{
		ID:       "r1",
		Name:     "Backend Engineer",
		Slug:     "backend-engineer",
		IsPublic: false,
		Data: v5ResumeData{
			Sections: map[string]v5Section{
				"skills": {
					Name: "Skills",
					Items: []map[string]any{
						{"id": "s1", "name": "Go", "hidden": false},
						{"id": "s2", "name": "Postgres", "hidden": false},
						{"id": "s3", "name": "Kafka", "hidden": false},
					},
				},
			},
		},
	}
}

func TestAddExperienceRoundTrip(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	_, err := c.AddExperience(context.Background(), "r1", ExperienceItem{
		Company:  "Acme",
		Position: "Engineer",
		Date:     "2020 - 2023",
		Summary:  "Built services",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The item must come back from a subsequent full fetch with every field
	// matching what was sent, including defaulted ones.
	resume, err := c.GetResume(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := resume.Data.Sections[SectionExperience].Items
	if len(items) != 1 {
		t.Fatalf("expected 1 experience item, got %d", len(items))
	}

	item := items[0]
	if item["company"] != "Acme" || item["position"] != "Engineer" {
		t.Fatalf("unexpected item: %#v", item)
	}
	if item["date"] != "2020 - 2023" {
		t.Fatalf("date did not round-trip: %#v", item["date"])
	}
	if item["summary"] != "Built services" {
		t.Fatalf("summary did not round-trip: %#v", item["summary"])
	}
	if item["visible"] != true {
		t.Fatalf("expected visible item, got %#v", item["visible"])
	}
	if item["id"] == "" || item["id"] == nil {
		t.Fatal("expected generated item id")
	}

	url, ok := item["url"].(map[string]any)
	if !ok {
		t.Fatalf("expected defaulted url pair, got %#v", item["url"])
	}
	if url["label"] != "" || url["href"] != "" {
		t.Fatalf("expected empty url defaults, got %#v", url)
	}

	// On the wire the item must carry the v5 naming.
	wire := upstream.resume.Data.Sections["experience"].Items[0]
	if _, ok := wire["period"]; !ok {
		t.Fatalf("expected v5 period field on the wire: %#v", wire)
	}
	if _, ok := wire["website"]; !ok {
		t.Fatalf("expected v5 website field on the wire: %#v", wire)
	}
	if wire["hidden"] != false {
		t.Fatalf("expected v5 hidden=false on the wire: %#v", wire)
	}
}

func TestRemoveSectionItemPreservesOrder(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resume, err := c.RemoveSectionItem(context.Background(), "r1", SectionSkills, "s2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := resume.Data.Sections[SectionSkills].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 items left, got %d", len(items))
	}
	if items[0]["id"] != "s1" || items[1]["id"] != "s3" {
		t.Fatalf("relative order not preserved: %#v", items)
	}
	if upstream.patches != 1 {
		t.Fatalf("expected exactly one update call, got %d", upstream.patches)
	}
}

func TestRemoveSectionItemIdempotentOnAbsence(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resume, err := c.RemoveSectionItem(context.Background(), "r1", SectionSkills, "no-such-item")
	if err != nil {
		t.Fatalf("removing an absent id must not fail: %v", err)
	}

	if got := len(resume.Data.Sections[SectionSkills].Items); got != 3 {
		t.Fatalf("section must be unchanged, got %d items", got)
	}
	if upstream.patches != 0 {
		t.Fatalf("no update call expected for an absent id, got %d", upstream.patches)
	}
}

func TestSetSectionVisibilityLeavesItemsUntouched(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resume, err := c.SetSectionVisibility(context.Background(), "r1", SectionSkills, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sec := resume.Data.Sections[SectionSkills]
	if sec.Visible {
		t.Fatal("expected hidden section")
	}
	if len(sec.Items) != 3 {
		t.Fatalf("items must be untouched, got %d", len(sec.Items))
	}
	if upstream.patches != 1 {
		t.Fatalf("expected exactly one update call, got %d", upstream.patches)
	}
	if !upstream.resume.Data.Sections["skills"].Hidden {
		t.Fatal("expected hidden=true persisted upstream")
	}
}

func TestUpdateSectionItemMergesPatch(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resume, err := c.UpdateSectionItem(context.Background(), "r1", SectionSkills, "s1", map[string]any{
		"name": "Golang",
		"id":   "evil-overwrite",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := resume.Data.Sections[SectionSkills].Items[0]
	if item["name"] != "Golang" {
		t.Fatalf("patch not applied: %#v", item)
	}
	if item["id"] != "s1" {
		t.Fatalf("item id must not be patchable, got %#v", item["id"])
	}
}

func TestUpdateSectionItemUnknownID(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	if _, err := c.UpdateSectionItem(context.Background(), "r1", SectionSkills, "nope", map[string]any{"name": "x"}); err == nil {
		t.Fatal("expected error for unknown item id")
	}
	if upstream.patches != 0 {
		t.Fatalf("no update call expected, got %d", upstream.patches)
	}
}

func TestUpdateBasicsRejectsUnknownKeys(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	if _, err := c.UpdateBasics(context.Background(), "r1", map[string]any{"nmae": "typo"}); err == nil {
		t.Fatal("expected error for unknown basics key")
	}

	resume, err := c.UpdateBasics(context.Background(), "r1", map[string]any{
		"name":     "Jane Doe",
		"headline": "Engineer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resume.Data.Basics.Name != "Jane Doe" || resume.Data.Basics.Headline != "Engineer" {
		t.Fatalf("patch not applied: %+v", resume.Data.Basics)
	}
}

func TestUpdateSummaryCreatesSection(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resume, err := c.UpdateSummary(context.Background(), "r1", "<p>Seasoned engineer</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sec := resume.Data.Sections[SectionSummary]
	if sec.Content != "<p>Seasoned engineer</p>" {
		t.Fatalf("unexpected summary content: %q", sec.Content)
	}
	if !sec.Visible {
		t.Fatal("fresh summary section must be visible")
	}
}
