package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init writes the embedded templates under spec.Root and makes sure .gitignore
// keeps the private key out of version control. Existing files are kept unless force.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) ([]string, error) {
	root := filepath.Clean(spec.Root)

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: root, Err: err}
	}

	var written []string

	updated, err := ensureGitignore(root)
	if err != nil {
		return nil, &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: filepath.Join(root, ".gitignore"), Err: err}
	}
	if updated {
		written = append(written, filepath.Join(root, ".gitignore"))
	}

	err = fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, rel)

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}

		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return err
		}
		written = append(written, dst)
		return nil
	})
	if err != nil {
		return written, &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: root, Err: err}
	}
	return written, nil
}

// ensureGitignore reports whether .gitignore was created or changed.
func ensureGitignore(root string) (bool, error) {
	const header = "# casg"
	entries := []string{
		domain.DefaultKeyFile,
		"*.log",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return true, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return false, err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 32)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return true, os.WriteFile(path, []byte(out.String()), 0o644)
}
