// Package locate discovers manifest directories and document paths on
// disk. The binding engine never touches the filesystem; only this
// package and the CLI do.
package locate

import (
	"os"
	"path/filepath"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
)

// ManifestDir walks up from start and returns the nearest directory
// containing a go.mod.
func ManifestDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fuseerr.Wrap(err, fuseerr.ErrManifestNotFound, "cannot resolve start directory")
	}
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fuseerr.Newf(fuseerr.ErrManifestNotFound,
				"no go.mod found above %s", start)
		}
		dir = parent
	}
}

// WorkspaceRoot walks up from start and returns the outermost directory
// containing a go.work, falling back to the topmost go.mod.
func WorkspaceRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fuseerr.Wrap(err, fuseerr.ErrManifestNotFound, "cannot resolve start directory")
	}

	var workRoot, modRoot string
	for {
		if fileExists(filepath.Join(dir, "go.work")) {
			workRoot = dir
		}
		if fileExists(filepath.Join(dir, "go.mod")) {
			modRoot = dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	switch {
	case workRoot != "":
		return workRoot, nil
	case modRoot != "":
		return modRoot, nil
	default:
		return "", fuseerr.Newf(fuseerr.ErrManifestNotFound,
			"no go.work or go.mod found above %s", start)
	}
}

// FindDocument resolves a document path. An explicit path is tried as
// given, then relative to start, then relative to the workspace root.
// An empty explicit path is an error; discovery never guesses filenames.
func FindDocument(explicit, start string) (string, error) {
	logger := logging.GetLogger("locate")

	if explicit == "" {
		return "", fuseerr.New(fuseerr.ErrFileNotFound, "no document path given")
	}

	candidates := []string{explicit}
	if !filepath.IsAbs(explicit) {
		candidates = append(candidates, filepath.Join(start, explicit))
		if root, err := WorkspaceRoot(start); err == nil {
			candidates = append(candidates, filepath.Join(root, explicit))
		}
	}

	for _, path := range candidates {
		if fileExists(path) {
			abs, err := filepath.Abs(path)
			if err != nil {
				return "", fuseerr.Wrapf(err, fuseerr.ErrFileNotFound, "cannot resolve %s", path)
			}
			logger.Debug().Str("path", abs).Msg("Document located")
			return abs, nil
		}
	}
	return "", fuseerr.Newf(fuseerr.ErrFileNotFound,
		"document %s not found relative to %s", explicit, start).WithPath(explicit)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
