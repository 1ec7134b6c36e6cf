package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/auditkit/internal/schema"
)

// DefaultName is the built-in catalog used when none is configured.
const DefaultName = "dlgs81"

// file is the on-disk YAML shape of a catalog.
type file struct {
	Name     string        `yaml:"name"`
	Title    string        `yaml:"title"`
	Roles    []string      `yaml:"roles,omitempty"`
	Sections []sectionFile `yaml:"sections"`
}

type sectionFile struct {
	Name         string            `yaml:"name"`
	Requirements []requirementFile `yaml:"requirements"`
}

type requirementFile struct {
	Text      string `yaml:"text"`
	Reference string `yaml:"reference"`
}

// Get returns the built-in catalog for the given name.
func Get(name string) (*schema.Catalog, error) {
	switch name {
	case DefaultName, "":
		return dlgs81(), nil
	default:
		return nil, fmt.Errorf("unknown catalog %q: built-in catalogs are %s", name, DefaultName)
	}
}

// Resolve returns a built-in catalog by name, or loads ref as a YAML file
// when it looks like a path.
func Resolve(ref string) (*schema.Catalog, error) {
	if IsPath(ref) {
		return Load(ref)
	}
	return Get(ref)
}

// IsPath reports whether ref names a catalog file rather than a built-in.
func IsPath(ref string) bool {
	return strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") || strings.ContainsRune(ref, os.PathSeparator)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*schema.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and assigns 1-based indices per section.
func Parse(data []byte) (*schema.Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	c := &schema.Catalog{Name: f.Name, Title: f.Title, Roles: f.Roles}
	seen := make(map[string]bool, len(f.Sections))
	for i, s := range f.Sections {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("section[%d]: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("section[%d]: duplicate section %q", i, name)
		}
		seen[name] = true
		sec := schema.Section{Name: name}
		for j, r := range s.Requirements {
			if strings.TrimSpace(r.Text) == "" {
				return nil, fmt.Errorf("section %q requirement[%d]: text is required", name, j)
			}
			sec.Entries = append(sec.Entries, schema.CatalogEntry{
				Section:     name,
				Index:       j + 1,
				Requirement: r.Text,
				Reference:   r.Reference,
			})
		}
		c.Sections = append(c.Sections, sec)
	}
	return c, nil
}

// Marshal encodes c in the same YAML shape Parse accepts.
func Marshal(c *schema.Catalog) ([]byte, error) {
	f := file{Name: c.Name, Title: c.Title, Roles: c.Roles}
	for _, s := range c.Sections {
		sf := sectionFile{Name: s.Name}
		for _, e := range s.Entries {
			sf.Requirements = append(sf.Requirements, requirementFile{Text: e.Requirement, Reference: e.Reference})
		}
		f.Sections = append(f.Sections, sf)
	}
	return yaml.Marshal(&f)
}

// build turns (section, pairs) literals into a catalog.
func build(name, title string, roles []string, sections []sectionFile) *schema.Catalog {
	c := &schema.Catalog{Name: name, Title: title, Roles: roles}
	for _, s := range sections {
		sec := schema.Section{Name: s.Name}
		for j, r := range s.Requirements {
			sec.Entries = append(sec.Entries, schema.CatalogEntry{
				Section:     s.Name,
				Index:       j + 1,
				Requirement: r.Text,
				Reference:   r.Reference,
			})
		}
		c.Sections = append(c.Sections, sec)
	}
	return c
}
