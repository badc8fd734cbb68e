package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Field is one frontmatter entry. Fields render in the order given so notes
// read the same way every time they are written.
type Field struct {
	Key   string
	Value any
}

// Render writes fields as a YAML frontmatter block followed by body. Fields
// with a nil value are skipped; no fields means no block at all.
func Render(fields []Field, body string) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		var value yaml.Node
		if err := value.Encode(f.Value); err != nil {
			return "", fmt.Errorf("encode frontmatter %s: %w", f.Key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}, &value)
	}
	if len(doc.Content) == 0 {
		return body, nil
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(raw)
	buf.WriteString(fence + "\n")
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// Split separates a leading frontmatter block from the body. CRLF line
// endings are accepted. Content without a block yields an empty map.
func Split(content string) (map[string]any, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return map[string]any{}, content, nil
	}
	rest := content[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		return nil, "", fmt.Errorf("frontmatter is not closed")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return meta, rest[end+len(fence)+2:], nil
}
