// Package scan discovers the subfolders and bill files under a tracked root.
// It is the folder-scanning collaborator of the tracker: it never touches the
// store, it only produces the SET_SUBFOLDERS and SET_ALL_FILES actions.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"billtrack/internal/analysis"
	"billtrack/internal/config"
	"billtrack/internal/errors"
	"billtrack/internal/log"
	"billtrack/internal/tracker"
)

// Options controls what a scan includes.
type Options struct {
	IgnorePatterns []string
	IncludeHidden  bool
	DetectContent  bool
	MaxDepth       int
}

// OptionsFrom converts the scan section of the configuration.
func OptionsFrom(cfg config.ScanConfig) Options {
	return Options{
		IgnorePatterns: cfg.IgnorePatterns,
		IncludeHidden:  cfg.IncludeHidden,
		DetectContent:  cfg.DetectContent,
		MaxDepth:       cfg.MaxDepth,
	}
}

// Result is everything one scan found.
type Result struct {
	Root       string
	Subfolders []tracker.SubfolderEntry
	Tree       []tracker.TreeNode
	Files      []tracker.FileEntry
	ScannedAt  time.Time
}

// Actions returns the actions that load the result into a store.
func (r *Result) Actions() []tracker.Action {
	return []tracker.Action{
		tracker.SetSubfolders{Subfolders: r.Subfolders, TreeStructure: r.Tree},
		tracker.SetAllFiles{Files: r.Files},
	}
}

// Scanner walks a root folder.
type Scanner struct {
	opts    Options
	ignore  []glob.Glob
	engine  *analysis.Engine
	logger  log.Logging
	nowFunc func() time.Time
}

// New compiles the ignore patterns.
func New(opts Options) (*Scanner, error) {
	s := &Scanner{
		opts:    opts,
		logger:  log.LogWithFields(log.F("component", "scan")),
		nowFunc: time.Now,
	}
	for _, p := range opts.IgnorePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.NewConfigError("invalid ignore pattern", p, errors.InvalidConfig, err)
		}
		s.ignore = append(s.ignore, g)
	}
	if opts.DetectContent {
		s.engine = analysis.New()
	}
	return s, nil
}

// Scan walks root and returns its subfolders and files. Unreadable entries
// below the root are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("tracked folder does not exist", root, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("failed to stat tracked folder", root, errors.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("tracked folder is not a directory", root, errors.InvalidPath, nil)
	}

	logger := s.logger.With(log.F("root", root))
	res := &Result{Root: root, ScannedAt: s.nowFunc()}
	counts := make(map[string]int)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.With(log.F("path", path)).Warnf("Skipping unreadable entry: %v", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			depth := strings.Count(rel, "/") + 1
			if s.skipDir(d.Name(), rel, depth) {
				return filepath.SkipDir
			}
			res.Subfolders = append(res.Subfolders, tracker.SubfolderEntry{
				Path:  path,
				Name:  d.Name(),
				Depth: depth,
			})
			return nil
		}

		if !d.Type().IsRegular() || s.skipFile(d.Name(), rel) {
			return nil
		}

		entry, err := s.fileEntry(path, d)
		if err != nil {
			logger.With(log.F("path", path)).Warnf("Skipping file: %v", err)
			return nil
		}
		res.Files = append(res.Files, entry)
		counts[entry.Folder]++
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewFileError("failed to scan tracked folder", root, errors.FileAccessDenied, err)
	}

	for i := range res.Subfolders {
		res.Subfolders[i].FileCount = counts[res.Subfolders[i].Path]
	}
	res.Tree = buildTree(root, res.Subfolders)

	logger.Debugf("Scanned %d subfolders and %d files", len(res.Subfolders), len(res.Files))
	return res, nil
}

func (s *Scanner) skipDir(name, rel string, depth int) bool {
	if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if s.opts.MaxDepth > 0 && depth > s.opts.MaxDepth {
		return true
	}
	return s.ignored(rel, "/"+rel+"/")
}

func (s *Scanner) skipFile(name, rel string) bool {
	if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return s.ignored(rel, "/"+rel)
}

// ignored matches patterns against the relative path and its rooted form, so
// "**/x" also matches at the top level.
func (s *Scanner) ignored(candidates ...string) bool {
	for _, g := range s.ignore {
		for _, c := range candidates {
			if g.Match(c) {
				return true
			}
		}
	}
	return false
}

func (s *Scanner) fileEntry(path string, d fs.DirEntry) (tracker.FileEntry, error) {
	info, err := d.Info()
	if err != nil {
		return tracker.FileEntry{}, err
	}

	entry := tracker.FileEntry{
		Path:         path,
		Name:         d.Name(),
		Folder:       filepath.Dir(path),
		Size:         info.Size(),
		CreatedDate:  info.ModTime(),
		ModifiedDate: info.ModTime(),
		Extension:    strings.ToLower(filepath.Ext(d.Name())),
	}

	if s.engine != nil {
		meta, err := s.engine.Inspect(path)
		if err != nil {
			return entry, err
		}
		entry.ContentType = meta.ContentType
		if !meta.CapturedAt.IsZero() {
			entry.CreatedDate = meta.CapturedAt
		}
	}
	return entry, nil
}

func buildTree(root string, subs []tracker.SubfolderEntry) []tracker.TreeNode {
	children := make(map[string][]tracker.SubfolderEntry)
	for _, sub := range subs {
		parent := filepath.Dir(sub.Path)
		children[parent] = append(children[parent], sub)
	}

	var build func(dir string) []tracker.TreeNode
	build = func(dir string) []tracker.TreeNode {
		kids := children[dir]
		if len(kids) == 0 {
			return nil
		}
		nodes := make([]tracker.TreeNode, 0, len(kids))
		for _, k := range kids {
			nodes = append(nodes, tracker.TreeNode{Path: k.Path, Name: k.Name, Children: build(k.Path)})
		}
		return nodes
	}

	tree := build(root)
	if tree == nil {
		tree = []tracker.TreeNode{}
	}
	return tree
}
