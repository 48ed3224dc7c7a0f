package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteMarkdown saves r as a markdown file.
func WriteMarkdown(r Report, outputPath string) error {
	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		r.Title,
		time.Now().Format("2006-01-02 15:04"),
		strings.TrimSpace(r.Body),
	)
	return os.WriteFile(outputPath, []byte(md), 0644)
}

// WriteFiles writes each report into dir as "<name>.<variant>.<ext>" and returns the paths.
// format is "markdown" or "docx".
func WriteFiles(dir, name, format string, reports []Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	write, ext := WriteMarkdown, ".md"
	if format == "docx" {
		write, ext = WriteDocx, ".docx"
	}

	paths := make([]string, 0, len(reports))
	for _, r := range reports {
		path := filepath.Join(dir, name+"."+string(r.Variant)+ext)
		if err := write(r, path); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
