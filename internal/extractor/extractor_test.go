package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fieldservice-ai/internal/service"
)

func TestExtract_TextTypes(t *testing.T) {
	e := New()
	ctx := context.Background()

	tests := []struct {
		name     string
		data     string
		mimeType string
		want     string
	}{
		{
			name:     "plain text verbatim",
			data:     "Pump inspection notes.\nSeal replaced.",
			mimeType: "text/plain",
			want:     "Pump inspection notes.\nSeal replaced.",
		},
		{
			name:     "plain text with charset parameter",
			data:     "hello",
			mimeType: "text/plain; charset=utf-8",
			want:     "hello",
		},
		{
			name:     "csv verbatim",
			data:     "part,qty\nseal,2",
			mimeType: "text/csv",
			want:     "part,qty\nseal,2",
		},
		{
			name:     "mixed case media type",
			data:     "case test",
			mimeType: "Text/Plain",
			want:     "case test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(ctx, []byte(tt.data), tt.mimeType, "test.txt")
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_JSON(t *testing.T) {
	e := New()
	ctx := context.Background()

	t.Run("valid JSON is pretty-printed", func(t *testing.T) {
		got, err := e.Extract(ctx, []byte(`{"task":"repair","priority":1}`), "application/json", "task.json")
		if err != nil {
			t.Fatalf("Extract() unexpected error: %v", err)
		}
		if !strings.Contains(got, "\n") {
			t.Errorf("Extract() = %q, want indented output", got)
		}
		if !strings.Contains(got, `"task": "repair"`) {
			t.Errorf("Extract() = %q, missing formatted field", got)
		}
	})

	t.Run("invalid JSON falls back to raw text", func(t *testing.T) {
		raw := `{"broken": `
		got, err := e.Extract(ctx, []byte(raw), "application/json", "broken.json")
		if err != nil {
			t.Fatalf("Extract() unexpected error: %v", err)
		}
		if got != raw {
			t.Errorf("Extract() = %q, want raw input %q", got, raw)
		}
	})
}

func TestExtract_HTML(t *testing.T) {
	e := New()

	got, err := e.Extract(context.Background(),
		[]byte("<html><body><h1>Report</h1>\n<p>All   systems  nominal.</p></body></html>"),
		"text/html", "report.html")
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if got != "Report All systems nominal." {
		t.Errorf("Extract() = %q, want tags stripped and whitespace collapsed", got)
	}
}

func TestExtract_Markdown(t *testing.T) {
	e := New()
	ctx := context.Background()

	t.Run("headings and paragraphs", func(t *testing.T) {
		md := "# Maintenance Log\n\nReplaced the pump seal.\n\n- checked valves\n- flushed lines\n"
		got, err := e.Extract(ctx, []byte(md), "text/markdown", "log.md")
		if err != nil {
			t.Fatalf("Extract() unexpected error: %v", err)
		}
		for _, want := range []string{"Maintenance Log", "Replaced the pump seal.", "checked valves", "flushed lines"} {
			if !strings.Contains(got, want) {
				t.Errorf("Extract() missing %q in %q", want, got)
			}
		}
		if strings.Contains(got, "#") || strings.Contains(got, "- ") {
			t.Errorf("Extract() = %q, markdown syntax should be gone", got)
		}
	})

	t.Run("tables render as piped rows", func(t *testing.T) {
		md := "| Part | Qty |\n| --- | --- |\n| seal | 2 |\n"
		got, err := e.Extract(ctx, []byte(md), "text/x-markdown", "parts.md")
		if err != nil {
			t.Fatalf("Extract() unexpected error: %v", err)
		}
		if !strings.Contains(got, "Part | Qty") {
			t.Errorf("Extract() = %q, want piped header row", got)
		}
		if !strings.Contains(got, "seal | 2") {
			t.Errorf("Extract() = %q, want piped data row", got)
		}
	})

	t.Run("fenced code blocks are kept", func(t *testing.T) {
		md := "Config:\n\n```\nthreshold=0.78\n```\n"
		got, err := e.Extract(ctx, []byte(md), "text/markdown", "config.md")
		if err != nil {
			t.Fatalf("Extract() unexpected error: %v", err)
		}
		if !strings.Contains(got, "threshold=0.78") {
			t.Errorf("Extract() = %q, want code block content", got)
		}
	})
}

func TestExtract_BinaryDocumentPlaceholder(t *testing.T) {
	e := New()
	ctx := context.Background()

	for _, mimeType := range []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	} {
		t.Run(mimeType, func(t *testing.T) {
			got, err := e.Extract(ctx, []byte{0x25, 0x50, 0x44, 0x46}, mimeType, "manual.pdf")
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			want := "Document: manual.pdf. Full text extraction for this format requires additional processing."
			if got != want {
				t.Errorf("Extract() = %q, want %q", got, want)
			}
		})
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), []byte("data"), "image/png", "photo.png")
	if err == nil {
		t.Fatal("Extract() expected error for unsupported type")
	}
	if !errors.Is(err, service.ErrUnsupportedType) {
		t.Errorf("Extract() error = %v, want ErrUnsupportedType", err)
	}
}
