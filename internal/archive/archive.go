// Package archive builds the deterministic zip artifact of a component
// directory.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
)

// epoch is the fixed modification time written into every entry.
// A constant timestamp keeps archives of identical trees byte-identical
// across runs.
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build packages all regular files under sourceDir into a zip archive
// at outPath, overwriting any prior artifact there. Entries are rooted
// at the directory's base name (archiving custom_components/places
// yields places/...), use forward slashes, and are sorted by path so
// identical trees produce identical archives. Returns the number of
// files archived. A missing source directory surfaces the underlying
// os error (errors.Is(err, os.ErrNotExist) holds).
func Build(sourceDir, outPath string) (int, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("source path is not a directory: %s", sourceDir)
	}

	files, err := collectFiles(sourceDir)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	root := filepath.Base(filepath.Clean(sourceDir))
	for _, rel := range files {
		if err := addFile(zw, sourceDir, root, rel); err != nil {
			zw.Close()
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("failed to write archive: %w", err)
	}

	return len(files), nil
}

// collectFiles returns the sorted slash-separated relative paths of all
// regular files under dir. Directories and symlinks are skipped:
// directory structure is implied by entry names.
func collectFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// addFile writes one file entry with normalized metadata.
func addFile(zw *zip.Writer, sourceDir, root, rel string) error {
	hdr := &zip.FileHeader{
		Name:     root + "/" + rel,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	hdr.SetMode(0644)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", rel, err)
	}

	f, err := os.Open(filepath.Join(sourceDir, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to compress %s: %w", rel, err)
	}
	return nil
}

// Extract unpacks an archive into destDir, reproducing the archived
// file tree. Entry paths are validated against directory traversal.
func Extract(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.Contains(f.Name, "..") || strings.HasPrefix(f.Name, "/") {
			return fmt.Errorf("archive entry has unsafe path: %s", f.Name)
		}

		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return out.Close()
}
