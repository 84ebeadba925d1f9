package checks

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/grovetools/preflight/errors"
)

// DefaultMaxScanSize is the largest file the secret scanner reads.
const DefaultMaxScanSize = 1 << 20

// SecretFinding locates one detected credential. The secret itself is never
// kept.
type SecretFinding struct {
	File        string
	Line        int
	RuleID      string
	Description string
}

func (f SecretFinding) String() string {
	return fmt.Sprintf("%s:%d: %s (%s)", f.File, f.Line, f.RuleID, f.Description)
}

// GitleaksScanner walks a working tree with the default gitleaks rule set.
type GitleaksScanner struct {
	MaxFileSize int64
	SkipDirs    []string
	// Gitignore skips paths matched by the tree's .gitignore files and
	// .git/info/exclude.
	Gitignore bool
}

// NewGitleaksScanner returns a scanner that skips VCS metadata, build
// output directories and git-ignored files.
func NewGitleaksScanner() *GitleaksScanner {
	return &GitleaksScanner{
		MaxFileSize: DefaultMaxScanSize,
		SkipDirs:    []string{".git", "target", "node_modules"},
		Gitignore:   true,
	}
}

// Scan implements SecretScanner. A tree that cannot be read fails the check
// like a finding would; only cancellation is returned as an error.
func (g *GitleaksScanner) Scan(ctx context.Context, root string) (Result, error) {
	findings, err := g.Findings(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, err
		}
		return Result{Output: err.Error()}, nil
	}
	if len(findings) == 0 {
		return Result{Success: true}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "found %d potential secret(s):\n", len(findings))
	for _, f := range findings {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	return Result{Output: b.String()}, nil
}

// Findings returns every detection under root, sorted by file and line.
func (g *GitleaksScanner) Findings(ctx context.Context, root string) ([]SecretFinding, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to initialise secret detector")
	}

	skip := make(map[string]bool, len(g.SkipDirs))
	for _, d := range g.SkipDirs {
		skip[d] = true
	}

	var ignored gitignore.Matcher
	if g.Gitignore {
		ignored = ignoreMatcher(root)
	}

	var findings []SecretFinding
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() && skip[d.Name()] {
			return filepath.SkipDir
		}
		if ignored != nil && ignored.Match(strings.Split(rel, "/"), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if g.MaxFileSize > 0 && info.Size() > g.MaxFileSize {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if bytes.IndexByte(data, 0) >= 0 {
			return nil
		}

		content := string(data)
		seen := make(map[string]int)
		for _, f := range detector.DetectString(content) {
			key := f.RuleID + "\x00" + f.Match
			line, next := lineOf(content, f.Match, seen[key], f.StartLine)
			seen[key] = next
			findings = append(findings, SecretFinding{
				File:        rel,
				Line:        line,
				RuleID:      f.RuleID,
				Description: f.Description,
			})
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.CommandFailed("secret scan", ctx.Err())
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "secret scan failed").WithDetail("root", root)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})
	return findings, nil
}

// ignoreMatcher loads the ignore rules git applies to the tree at root. A
// tree whose rules cannot be read is scanned in full.
func ignoreMatcher(root string) gitignore.Matcher {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

// lineOf returns the 1-based line of the first occurrence of match at or
// after offset, and the offset just past it. Repeated findings for the same
// text walk forward through the file. When match cannot be located the
// detector's own line number is used.
func lineOf(content, match string, offset, fallback int) (int, int) {
	if match != "" && offset <= len(content) {
		if idx := strings.Index(content[offset:], match); idx >= 0 {
			idx += offset
			return strings.Count(content[:idx], "\n") + 1, idx + len(match)
		}
	}
	return fallback + 1, offset
}
