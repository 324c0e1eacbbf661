package pathguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrRootInvalid = errors.New("invalid serving root")

// Mode selects how an escaped candidate is detected.
type Mode int

const (
	// Strict requires the canonical candidate to be the root or a
	// descendant of it.
	Strict Mode = iota
	// Depth only requires the canonical candidate to have at least as many
	// path components as the root. A sibling of equal depth passes.
	Depth
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Depth:
		return "depth"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return Strict, nil
	case "depth":
		return Depth, nil
	default:
		return 0, fmt.Errorf("unknown guard mode %q", s)
	}
}

// Guard confines resource paths to a canonical root directory.
type Guard struct {
	root string
	mode Mode
}

// New canonicalizes root once; it must be an existing directory.
func New(root string, mode Mode) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootInvalid, err)
	}

	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootInvalid, err)
	}

	info, err := os.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootInvalid, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootInvalid, canon)
	}

	return &Guard{root: canon, mode: mode}, nil
}

// Root returns the canonical serving root.
func (g *Guard) Root() string {
	return g.root
}

func (g *Guard) Mode() Mode {
	return g.mode
}

// Resolve joins resource onto the root and returns the path to serve.
// A candidate that escapes the root is replaced by the root itself.
// A candidate that does not exist is returned lexically cleaned so the
// caller sees it as missing; any other canonicalization error is returned.
func (g *Guard) Resolve(resource string) (string, error) {
	candidate := filepath.Join(g.root, filepath.FromSlash(resource))

	canon, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("canonicalize %s: %w", candidate, err)
		}
		canon = candidate
	}

	if g.escapes(canon) {
		return g.root, nil
	}
	return canon, nil
}

func (g *Guard) escapes(canon string) bool {
	switch g.mode {
	case Depth:
		return depth(canon) < depth(g.root)
	default:
		rel, err := filepath.Rel(g.root, canon)
		if err != nil {
			return true
		}
		return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
}

// depth counts the non-empty components of a cleaned absolute path.
func depth(p string) int {
	n := 0
	for _, part := range strings.Split(filepath.Clean(p), string(filepath.Separator)) {
		if part != "" {
			n++
		}
	}
	return n
}
