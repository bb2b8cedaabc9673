package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// markdownPattern selects FAQ source files under the data directory.
const markdownPattern = "**/*.md"

// File is one Markdown FAQ document read from disk.
type File struct {
	Path    string // path on disk
	Name    string // base filename, stored as chunk Source metadata
	Content []byte
}

// LoadMarkdownFiles reads every .md file under dataPath recursively.
// A missing directory or an empty match set is a configuration error.
func LoadMarkdownFiles(dataPath string) ([]File, error) {
	info, err := os.Stat(dataPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data folder not found: %s", dataPath)
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dataPath, markdownPattern))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataPath, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no Markdown files found in: %s", dataPath)
	}

	files := make([]File, 0, len(matches))
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, File{
			Path:    path,
			Name:    filepath.Base(path),
			Content: content,
		})
	}

	return files, nil
}
