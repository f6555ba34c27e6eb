// Package collector expands user-selected files and directories into the
// ordered list of XML files a batch will process.
package collector

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rezonia/nfse-processor/internal/logger"
	"github.com/rezonia/nfse-processor/internal/model"
)

// CollectPaths expands entries (file or directory paths) into an ordered,
// deduplicated sequence of absolute .xml file paths.
//
// Directory entries are walked recursively in lexicographic order.
// Directory symlinks are not followed; a canonical-path visited set guards
// against revisiting the same directory through different entries. An
// unreadable directory yields a Diagnostic and traversal continues with
// its siblings. Only stat/list operations touch the filesystem here; no
// file contents are read.
func CollectPaths(entries []string) ([]string, []model.Diagnostic) {
	var (
		paths       []string
		diagnostics []model.Diagnostic
		seenFiles   = make(map[string]struct{})
		seenDirs    = make(map[string]struct{})
	)

	addFile := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, dup := seenFiles[abs]; dup {
			return
		}
		seenFiles[abs] = struct{}{}
		paths = append(paths, abs)
	}

	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			diagnostics = append(diagnostics, model.Diagnostic{Path: entry, Err: err})
			continue
		}

		if !info.IsDir() {
			if isXMLFile(entry) {
				addFile(entry)
			}
			continue
		}

		err = filepath.WalkDir(entry, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				diagnostics = append(diagnostics, model.Diagnostic{Path: path, Err: walkErr})
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				canonical, cerr := filepath.EvalSymlinks(path)
				if cerr != nil {
					canonical = path
				}
				if _, visited := seenDirs[canonical]; visited {
					return filepath.SkipDir
				}
				seenDirs[canonical] = struct{}{}
				return nil
			}
			if isXMLFile(path) {
				// Stat follows file symlinks; directory symlinks are never
				// descended into by WalkDir.
				if fi, serr := os.Stat(path); serr == nil && fi.Mode().IsRegular() {
					addFile(path)
				}
			}
			return nil
		})
		if err != nil {
			diagnostics = append(diagnostics, model.Diagnostic{Path: entry, Err: err})
		}
	}

	logger.Debug("collected %d xml files from %d entries (%d diagnostics)",
		len(paths), len(entries), len(diagnostics))

	return paths, diagnostics
}

func isXMLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}
