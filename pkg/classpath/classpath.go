// Package classpath resolves a builtin or user class name to its .som
// source file by searching an ordered list of directories, first match
// wins.
package classpath

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Path is a search path of class directories, in priority order.
type Path struct {
	dirs []string
	log  *zap.Logger
}

// New creates a Path over dirs, searched front to back. A nil logger is
// replaced with a no-op one.
func New(dirs []string, log *zap.Logger) *Path {
	if log == nil {
		log = zap.NewNop()
	}
	return &Path{dirs: dirs, log: log}
}

// Dirs returns the configured search directories, in order.
func (p *Path) Dirs() []string { return p.dirs }

// Resolve returns the path to className's ".som" file, the first one
// found walking the configured directories in order.
func (p *Path) Resolve(className string) (string, error) {
	fname := className + ".som"
	for _, d := range p.dirs {
		candidate := filepath.Join(d, fname)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			p.log.Debug("resolved class file", zap.String("class", className), zap.String("path", candidate))
			return candidate, nil
		}
	}
	return "", errors.Errorf("class %q not found on classpath %v", className, p.dirs)
}

// Load resolves and reads className's source text.
func (p *Path) Load(className string) (string, error) {
	path, err := p.Resolve(className)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}
