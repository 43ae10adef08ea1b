package wfdir

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// distDir is where packages are written, relative to the workflow root.
const distDir = "dist"

// junkNames never ship in a workflow package.
var junkNames = map[string]bool{
	".git":      true,
	".github":   true,
	".env":      true,
	".DS_Store": true,
	distDir:     true,
}

// BuildPackage zips the workflow rooted at root into outPath and
// returns the package path. An empty outPath defaults to
// dist/<name>-<version>.alfredworkflow under the root. Entries are
// written in sorted order so repeated builds of the same tree produce
// identical archives.
func BuildPackage(root, name, version, outPath string, logger hclog.Logger) (string, error) {
	if outPath == "" {
		filename := fmt.Sprintf("%s-%s.alfredworkflow", strings.ReplaceAll(name, " ", "-"), version)
		outPath = filepath.Join(root, distDir, filename)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o700); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
	}

	files, err := collectFiles(root)
	if err != nil {
		return "", err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", fmt.Errorf("relativizing %s: %w", path, err)
		}
		if err := addFile(zw, path, rel); err != nil {
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing %s: %w", outPath, err)
	}

	logger.Info("📦 Workflow packaged", "path", outPath, "files", len(files))
	return outPath, nil
}

// collectFiles walks the workflow tree, skipping junk, and returns the
// file paths in sorted order.
func collectFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if junkNames[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		// Logs and earlier packages never ship.
		if strings.HasSuffix(d.Name(), ".log") || strings.HasSuffix(d.Name(), ".alfredworkflow") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking workflow directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// addFile writes one file into the archive, preserving its mode so
// bundled scripts stay executable after import.
func addFile(zw *zip.Writer, path, rel string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return fmt.Errorf("header for %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(rel)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", rel, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copying %s: %w", rel, err)
	}
	return nil
}
