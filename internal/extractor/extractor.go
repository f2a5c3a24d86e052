package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"fieldservice-ai/internal/contextutil"
	"fieldservice-ai/internal/service"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Extractor converts raw file bytes plus a declared media type into plain text
// suitable for chunking and embedding.
type Extractor struct {
	markdown goldmark.Markdown
}

// New creates a new text extractor.
func New() *Extractor {
	return &Extractor{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extract converts data into plain text based on the declared media type.
// Returns service.ErrUnsupportedType for media types it cannot handle.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType, filename string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	switch normalizeMediaType(mimeType) {
	case "text/plain", "text/csv":
		return string(data), nil

	case "application/json":
		// Pretty-print valid JSON; fall back to the raw text on parse failure
		// rather than failing the whole extraction.
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			logger.WarnContext(ctx, "invalid JSON, using raw text", "filename", filename, "error", err)
			return string(data), nil
		}
		pretty, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return string(data), nil
		}
		return string(pretty), nil

	case "text/html":
		stripped := htmlTagPattern.ReplaceAllString(string(data), " ")
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(stripped, " ")), nil

	case "text/markdown", "text/x-markdown":
		return e.extractMarkdown(data), nil

	case "application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		// Stubbed capability: callers treat this placeholder as low-value text,
		// not as an extraction error.
		return fmt.Sprintf("Document: %s. Full text extraction for this format requires additional processing.", filename), nil

	default:
		return "", fmt.Errorf("cannot extract text from %q: %w", mimeType, service.ErrUnsupportedType)
	}
}

// normalizeMediaType lowercases a media type and drops any parameters
// (e.g. "text/plain; charset=utf-8" -> "text/plain").
func normalizeMediaType(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// extractMarkdown walks the goldmark AST and collects plain text from
// headings, paragraphs, lists, code blocks and tables.
func (e *Extractor) extractMarkdown(content []byte) string {
	doc := e.markdown.Parser().Parse(text.NewReader(content))

	var builder strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteString("\n")
			}
			return ast.WalkContinue, nil

		case *ast.Text:
			builder.Write(node.Segment.Value(content))
			return ast.WalkContinue, nil

		case *ast.String:
			builder.Write(node.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteString("\n")
			}
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				builder.Write(line.Value(content))
			}
			return ast.WalkContinue, nil

		case *ast.FencedCodeBlock:
			if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteString("\n")
			}
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				builder.Write(line.Value(content))
			}
			return ast.WalkContinue, nil

		default:
			// Table extension nodes are identified by kind name; cells are
			// separated with pipes to keep rows readable as text.
			kindName := n.Kind().String()
			if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
				if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
					builder.WriteString("\n")
				}
				builder.WriteString(extractTableRowText(n, content))
				builder.WriteString("\n")
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return strings.TrimSpace(builder.String())
}

// extractTableRowText extracts text from a table row, formatting cells with pipe separators.
func extractTableRowText(row ast.Node, content []byte) string {
	var rowBuilder strings.Builder
	cellCount := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if strings.Contains(node.Kind().String(), "TableCell") {
			cellText := extractTextFromNode(node, content)
			if cellCount > 0 {
				rowBuilder.WriteString(" | ")
			}
			rowBuilder.WriteString(cellText)
			cellCount++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return rowBuilder.String()
}

// extractTextFromNode extracts text content from a node and its children.
func extractTextFromNode(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			textBuilder.Write(v.Segment.Value(content))
		case *ast.String:
			textBuilder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}
