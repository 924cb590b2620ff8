package rxresume

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Backend Engineer", "backend-engineer"},
		{"  Senior   Go  Dev  ", "senior-go-dev"},
		{"C++ / Rust (2024)", "c-rust-2024"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCreateResumeDerivesSlug(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != apiResumePath {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding create body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v5Resume{
			ID:       "r9",
			Name:     gotBody["name"].(string),
			Slug:     gotBody["slug"].(string),
			IsPublic: false,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resume, err := c.CreateResume(context.Background(), "My Great Resume", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBody["name"] != "My Great Resume" {
		t.Fatalf("unexpected upstream name: %v", gotBody["name"])
	}
	if gotBody["slug"] != "my-great-resume" {
		t.Fatalf("slug not derived from title: %v", gotBody["slug"])
	}
	if gotBody["isPublic"] != false {
		t.Fatalf("expected private default: %v", gotBody["isPublic"])
	}

	if resume.ID != "r9" || resume.Title != "My Great Resume" || resume.Slug != "my-great-resume" {
		t.Fatalf("unexpected resume: %+v", resume)
	}
	if resume.Visibility != VisibilityPrivate {
		t.Fatalf("unexpected visibility: %q", resume.Visibility)
	}
}

func TestListResumesTranslatesV5(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]v5Resume{
			{ID: "r1", Name: "One", IsPublic: true},
			{ID: "r2", Name: "Two", IsPublic: false, IsLocked: true},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resumes, err := c.ListResumes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resumes) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(resumes))
	}
	if resumes[0].Title != "One" || resumes[0].Visibility != VisibilityPublic {
		t.Fatalf("unexpected first resume: %+v", resumes[0])
	}
	if resumes[1].Visibility != VisibilityPrivate || !resumes[1].Locked {
		t.Fatalf("unexpected second resume: %+v", resumes[1])
	}
}

func TestListResumesLegacyPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"r1","title":"Legacy","visibility":"public"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop(), WithLegacyAPI())

	resumes, err := c.ListResumes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resumes) != 1 || resumes[0].Title != "Legacy" || resumes[0].Visibility != VisibilityPublic {
		t.Fatalf("unexpected resumes: %+v", resumes[0])
	}
}

func TestDeleteResumeIssuesSingleDelete(t *testing.T) {
	var deletes int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method: %s", r.Method)
		}
		deletes++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	if err := c.DeleteResume(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletes != 1 {
		t.Fatalf("expected exactly one delete call, got %d", deletes)
	}
}

func TestSetVisibilityReadsThenWrites(t *testing.T) {
	upstream := newFakeUpstream(testResume())
	srv := httptest.NewServer(upstream.handler(t))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())

	resume, err := c.SetVisibility(context.Background(), "r1", VisibilityPublic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resume.Visibility != VisibilityPublic {
		t.Fatalf("unexpected visibility: %q", resume.Visibility)
	}
	if !upstream.resume.IsPublic {
		t.Fatal("expected isPublic persisted upstream")
	}

	if _, err := c.SetVisibility(context.Background(), "r1", "friends-only"); err == nil {
		t.Fatal("expected error for invalid visibility")
	}
}
