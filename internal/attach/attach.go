// Package attach loads evidence files and the report logo from disk.
package attach

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/auditkit/internal/schema"
)

// Ref points at an attachment file. In YAML it is either a bare path or a
// mapping with path and an optional MIME type.
type Ref struct {
	Path string `yaml:"path" json:"path"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (r *Ref) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Path = node.Value
		r.Type = ""
		return nil
	}
	type plain Ref
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// Load reads every referenced file. Relative paths are resolved against
// baseDir. A file that cannot be read is an input error.
func Load(refs []Ref, baseDir string) ([]schema.Attachment, error) {
	files := make([]schema.Attachment, 0, len(refs))
	for i, ref := range refs {
		if strings.TrimSpace(ref.Path) == "" {
			return nil, fmt.Errorf("%w: attachment[%d]: path is required", schema.ErrInvalidInput, i)
		}
		path := resolve(ref.Path, baseDir)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: loading attachment %q: %v", schema.ErrInvalidInput, ref.Path, err)
		}
		files = append(files, schema.Attachment{
			Name:     filepath.Base(path),
			MIMEType: DetectType(path, ref.Type, data),
			Data:     data,
		})
	}
	return files, nil
}

// LoadLogo reads the logo file. The logo is optional: an empty path yields
// nil, and a file that cannot be read is reported to warn and yields nil.
func LoadLogo(path, baseDir string, warn io.Writer) *schema.Attachment {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	full := resolve(path, baseDir)
	data, err := os.ReadFile(full)
	if err != nil {
		if warn != nil {
			fmt.Fprintf(warn, "WARN: logo %q not loaded, report continues without it: %v\n", path, err)
		}
		return nil
	}
	return &schema.Attachment{
		Name:     filepath.Base(full),
		MIMEType: DetectType(full, "", data),
		Data:     data,
	}
}

// DetectType returns the declared type when given, else the type implied by
// the file extension, else the type sniffed from the content.
func DetectType(name, declared string, data []byte) string {
	if declared != "" {
		return declared
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func resolve(path, baseDir string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
