package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Journal stores saved reflections as markdown files with YAML frontmatter.
type Journal struct {
	Root string // e.g., ~/.local/share/unfold
}

// NewJournal creates a Journal rooted at the given data directory.
func NewJournal(root string) *Journal {
	return &Journal{Root: root}
}

// Dir returns the path to the reflections directory.
func (j *Journal) Dir() string {
	return filepath.Join(j.Root, "reflections")
}

// Save writes r to the journal and returns it with FilePath set.
func (j *Journal) Save(r Reflection) (Reflection, error) {
	if err := os.MkdirAll(j.Dir(), 0755); err != nil {
		return r, fmt.Errorf("creating reflections directory: %w", err)
	}
	if r.ID == "" {
		r.ID = NewID()
	}

	content, err := SerializeReflection(r)
	if err != nil {
		return r, err
	}

	short := r.ID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("%s-%s.md", r.Date.Format("2006-01-02"), short)
	path := filepath.Join(j.Dir(), name)
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return r, fmt.Errorf("writing reflection: %w", err)
	}
	r.FilePath = path
	return r, nil
}

// List loads every saved reflection, newest first. Files that fail to parse
// are skipped.
func (j *Journal) List() ([]Reflection, error) {
	entries, err := os.ReadDir(j.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading reflections directory: %w", err)
	}

	var out []Reflection
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(j.Dir(), e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		r, err := ParseReflection(string(data))
		if err != nil {
			continue
		}
		r.FilePath = path
		out = append(out, *r)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Date.After(out[b].Date)
	})
	return out, nil
}

// ParseReflection splits a journal file into YAML frontmatter and body.
func ParseReflection(content string) (*Reflection, error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		// No frontmatter, treat entire content as the reflection
		return &Reflection{Content: content}, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent := rest[:idx]
	body := rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")

	var r Reflection
	if err := yaml.Unmarshal([]byte(yamlContent), &r); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	r.Content = strings.TrimRight(body, "\n")
	return &r, nil
}

// SerializeReflection renders a Reflection as markdown with YAML frontmatter.
func SerializeReflection(r Reflection) (string, error) {
	yamlBytes, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if r.Content != "" {
		b.WriteString("\n")
		b.WriteString(r.Content)
		if !strings.HasSuffix(r.Content, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}
