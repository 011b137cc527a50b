package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Render writes meta as a YAML frontmatter block followed by body. meta is
// any value yaml.v3 can marshal, usually a struct with yaml tags.
func Render(meta any, body string) ([]byte, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(raw)
	buf.WriteString(fence + "\n\n")
	buf.WriteString(strings.TrimLeft(body, "\n"))
	return buf.Bytes(), nil
}

// Parse decodes the frontmatter of content into meta and returns the body.
// Content without frontmatter is returned unchanged and meta is untouched.
func Parse(content []byte, meta any) (string, error) {
	text := string(content)
	if !strings.HasPrefix(text, fence+"\n") {
		return text, nil
	}
	rest := text[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		return "", fmt.Errorf("frontmatter: missing closing %q", fence)
	}
	if meta != nil {
		if err := yaml.Unmarshal([]byte(rest[:end]), meta); err != nil {
			return "", fmt.Errorf("unmarshal frontmatter: %w", err)
		}
	}
	return strings.TrimLeft(rest[end+len(fence)+2:], "\n"), nil
}
