package reader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// LocalStoreReader walks a local directory tree and loads every regular
// file as one document. The relative directory path becomes the document's
// FolderID so the folder tree can be reconstructed later.
type LocalStoreReader struct {
	path string
}

// NewLocalStoreReader creates an unconfigured local filesystem reader
func NewLocalStoreReader() *LocalStoreReader {
	return &LocalStoreReader{}
}

// Configure sets the root path. The path must exist and be a directory.
func (r *LocalStoreReader) Configure(options map[string]string) error {
	path, ok := options["path"]
	if !ok || path == "" {
		return fmt.Errorf("no path provided for local store: %w", types.ErrInvalidSource)
	}

	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s: %w", path, types.ErrInvalidSource)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s: %w", path, types.ErrInvalidSource)
	}

	r.path = path
	return nil
}

// LoadDocuments reads the entire corpus under the configured root
func (r *LocalStoreReader) LoadDocuments() ([]*types.Document, error) {
	if r.path == "" {
		return nil, fmt.Errorf("reader not configured: %w", types.ErrInvalidSource)
	}

	var docs []*types.Document

	err := filepath.WalkDir(r.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Skip dotfiles
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		rel, err := filepath.Rel(r.path, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		folderID := ""
		if dir := filepath.ToSlash(filepath.Dir(rel)); dir != "." {
			folderID = dir
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		docs = append(docs, &types.Document{
			ID:       rel,
			Title:    d.Name(),
			Type:     strings.TrimPrefix(filepath.Ext(d.Name()), "."),
			Date:     info.ModTime().Format(time.RFC3339),
			Tags:     []string{},
			Source:   "local_store",
			URL:      path,
			FolderID: folderID,
			Original: &types.OriginalDoc{
				ID: rel,
				Metadata: map[string]string{
					"file_name": d.Name(),
					"file_path": path,
				},
				Text: string(content),
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %v: %w", r.path, err, types.ErrReaderFailed)
	}

	return docs, nil
}
