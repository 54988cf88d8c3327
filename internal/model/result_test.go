package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewResult(t *testing.T) {
	t.Parallel()

	r := NewResult("http://example.com")

	t.Run("base url is recorded", func(t *testing.T) {
		t.Parallel()
		if r.Metadata.BaseURL != "http://example.com" {
			t.Errorf("expected base url 'http://example.com', got %q", r.Metadata.BaseURL)
		}
	})

	t.Run("empty result serializes empty arrays", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		out := string(data)
		if !strings.Contains(out, `"links":[]`) {
			t.Errorf("expected empty links array, got %s", out)
		}
		if !strings.Contains(out, `"page_data":[]`) {
			t.Errorf("expected empty page_data array, got %s", out)
		}
		if strings.Contains(out, "partial") {
			t.Errorf("expected partial to be omitted, got %s", out)
		}
	})
}

func TestResultAddPage(t *testing.T) {
	t.Parallel()

	r := NewResult("http://example.com")
	r.AddPage(PageRecord{URL: "http://example.com", Title: "Home", Description: "Welcome", Text: "hello world"})
	r.AddPage(PageRecord{URL: "http://example.com/about", Title: "About", Description: "About us", Text: "about text"})

	if r.Metadata.Title != "Home" {
		t.Errorf("expected title from first page, got %q", r.Metadata.Title)
	}
	if r.Metadata.Description != "Welcome" {
		t.Errorf("expected description from first page, got %q", r.Metadata.Description)
	}

	want := "\n\n--- Home ---\nhello world\n\n--- About ---\nabout text"
	if r.Text != want {
		t.Errorf("unexpected text:\n got %q\nwant %q", r.Text, want)
	}
	if len(r.PageData) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(r.PageData))
	}
}

func TestResultFinish(t *testing.T) {
	t.Parallel()

	r := NewResult("http://example.com")
	r.AddPage(PageRecord{Title: "Home", Text: "x"})
	r.Finish(3, 1234*time.Millisecond)

	if r.Metadata.PagesCrawled != 1 {
		t.Errorf("expected 1 page crawled, got %d", r.Metadata.PagesCrawled)
	}
	if r.Metadata.PagesVisited != 3 {
		t.Errorf("expected 3 pages visited, got %d", r.Metadata.PagesVisited)
	}
	if r.Metadata.CrawlTime != 1.23 {
		t.Errorf("expected crawl time 1.23, got %v", r.Metadata.CrawlTime)
	}
}

func TestResultSummary(t *testing.T) {
	t.Parallel()

	r := NewResult("http://example.com")
	r.AddPage(PageRecord{Title: "Home", Text: "one two three"})
	r.AddLink(LinkRecord{URL: "http://example.com/a", Text: "A", Depth: 1})

	// "--- Home ---" contributes three words.
	if got := r.WordCount(); got != 6 {
		t.Errorf("expected 6 words, got %d", got)
	}
	if got := r.Summary(); got != "Crawled 1 links, 6 words" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestTextSample(t *testing.T) {
	t.Parallel()

	t.Run("short text is unchanged", func(t *testing.T) {
		t.Parallel()
		if got := TextSample("short"); got != "short" {
			t.Errorf("expected 'short', got %q", got)
		}
	})

	t.Run("exactly 200 characters is unchanged", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("a", 200)
		if got := TextSample(text); got != text {
			t.Errorf("expected text unchanged, got length %d", len(got))
		}
	})

	t.Run("long text is truncated with ellipsis", func(t *testing.T) {
		t.Parallel()
		got := TextSample(strings.Repeat("a", 201))
		if got != strings.Repeat("a", 200)+"..." {
			t.Errorf("unexpected sample %q", got)
		}
	})

	t.Run("truncation counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		got := TextSample(strings.Repeat("é", 250))
		if got != strings.Repeat("é", 200)+"..." {
			t.Errorf("unexpected sample length %d", len([]rune(got)))
		}
	})
}

func TestResultJSONRoundTrip(t *testing.T) {
	t.Parallel()

	r := NewResult("http://example.com")
	r.AddPage(PageRecord{
		URL:        "http://example.com",
		Title:      "Home",
		Text:       "body",
		TextSample: "body",
		Images:     []string{"/logo.png"},
		Headings:   []Heading{{Level: 1, Text: "Welcome"}},
	})
	r.AddLink(LinkRecord{URL: "http://example.com/a", Text: "A", Depth: 1})
	r.Finish(1, time.Second)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if !reflect.DeepEqual(*r, decoded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, *r)
	}
}

func TestPageRecordJSONKeepsTrackingState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		page     PageRecord
		wantJSON []string
	}{
		{
			name:     "tracking off",
			page:     PageRecord{URL: "http://example.com"},
			wantJSON: []string{`"images":null`, `"headings":null`},
		},
		{
			name:     "tracking on with nothing found",
			page:     PageRecord{URL: "http://example.com", Images: []string{}, Headings: []Heading{}},
			wantJSON: []string{`"images":[]`, `"headings":[]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewResult("http://example.com")
			r.AddPage(tt.page)
			r.Finish(1, time.Second)

			data, err := json.Marshal(r)
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}
			for _, want := range tt.wantJSON {
				if !strings.Contains(string(data), want) {
					t.Errorf("expected %s in %s", want, data)
				}
			}

			var decoded Result
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if !reflect.DeepEqual(*r, decoded) {
				t.Errorf("round trip mismatch:\n got %#v\nwant %#v", decoded.PageData, r.PageData)
			}
		})
	}
}
