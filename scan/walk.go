package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/vsx"
)

// DefaultExtensions lists the stencil formats the scanner picks up.
var DefaultExtensions = []string{".vss", ".vssx", ".vssm", ".vst", ".vstx"}

// walkRoot traverses root recursively and returns file metadata for every
// entry whose extension is in the allow-list. Paths are resolved through
// symlinks to a canonical absolute form so the same file reached via
// different prefixes is reported once.
//
// Per-entry errors (unreadable directories, broken links) are reported via
// onError and traversal continues. Only a missing or unreadable root fails
// the walk.
func walkRoot(root string, extensions []string, onError func(path string, err error)) ([]vsx.FileInfo, error) {
	canonicalRoot, err := canonicalPath(root)
	if err != nil {
		return nil, vsx.Errorf(vsx.EINVALID, "scan root %q is not accessible: %v", root, err)
	}
	info, err := os.Stat(canonicalRoot)
	if err != nil {
		return nil, vsx.Errorf(vsx.EINVALID, "scan root %q is not accessible: %v", root, err)
	}
	if !info.IsDir() {
		return nil, vsx.Errorf(vsx.EINVALID, "scan root %q is not a directory", root)
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var files []vsx.FileInfo
	visited := make(map[string]struct{})

	walkErr := filepath.WalkDir(canonicalRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			onError(path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !allowed[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		canonical, err := canonicalPath(path)
		if err != nil {
			onError(path, err)
			return nil
		}
		if _, ok := visited[canonical]; ok {
			return nil
		}
		visited[canonical] = struct{}{}

		stat, err := os.Stat(canonical)
		if err != nil {
			onError(path, err)
			return nil
		}

		files = append(files, vsx.FileInfo{
			Path:    canonical,
			Size:    stat.Size(),
			ModTime: stat.ModTime(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return files, nil
}

// canonicalPath resolves symlinks and returns an absolute cleaned path.
func canonicalPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
