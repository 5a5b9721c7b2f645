// Package output persists rendered units as Markdown files.
package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/reoring/oasmd"
)

// Ext is the file extension of written units.
const Ext = ".md"

// Writer maps units onto files named <key>.md in Dir.
type Writer struct {
	Dir string // Dir is created when missing.
	FS  afero.Fs
	// Prune removes *.md files in Dir that no unit produced.
	Prune  bool
	Logger *zap.Logger
}

// New returns a Writer. A nil logger is replaced by a no-op logger.
func New(dir string, fs afero.Fs, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{Dir: dir, FS: fs, Logger: logger}
}

// Summary reports what a Write call did, by file path.
type Summary struct {
	Written   []string
	Unchanged []string
	Removed   []string
}

// Write persists every unit. Each file is replaced atomically through a
// temporary file and a rename; files whose content is already current are not
// touched. A failing unit does not stop the others; all failures are
// returned together.
func (w *Writer) Write(units []oasmd.Unit) (Summary, error) {
	var sum Summary
	if ok, _ := afero.DirExists(w.FS, w.Dir); !ok {
		if err := w.FS.MkdirAll(w.Dir, 0o755); err != nil {
			return sum, errors.Wrapf(err, "create output directory %s", w.Dir)
		}
	}

	var errs error
	keep := make(map[string]bool, len(units))
	for _, u := range units {
		name := filepath.Join(w.Dir, u.Key+Ext)
		keep[filepath.Base(name)] = true
		updated, err := w.writeIfChanged(name, []byte(u.Text))
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "write %s", name))
			continue
		}
		if updated {
			w.logger().Debug("wrote file", zap.String("file", name), zap.Int("bytes", len(u.Text)))
			sum.Written = append(sum.Written, name)
		} else {
			sum.Unchanged = append(sum.Unchanged, name)
		}
	}

	if w.Prune && errs == nil {
		removed, err := w.prune(keep)
		sum.Removed = removed
		errs = multierr.Append(errs, err)
	}
	return sum, errs
}

func (w *Writer) writeIfChanged(name string, data []byte) (bool, error) {
	if _, err := w.FS.Stat(name); err == nil {
		current, err := afero.ReadFile(w.FS, name)
		if err != nil {
			return false, err
		}
		if bytes.Equal(current, data) {
			return false, nil
		}
	} else if !os.IsNotExist(err) {
		return false, err
	}

	tmp := filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+".tmp")
	if err := afero.WriteFile(w.FS, tmp, data, 0o644); err != nil {
		return false, err
	}
	if err := w.FS.Rename(tmp, name); err != nil {
		_ = w.FS.Remove(tmp)
		return false, err
	}
	return true, nil
}

func (w *Writer) prune(keep map[string]bool) ([]string, error) {
	entries, err := afero.ReadDir(w.FS, w.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", w.Dir)
	}
	var removed []string
	var errs error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) || keep[e.Name()] {
			continue
		}
		name := filepath.Join(w.Dir, e.Name())
		if err := w.FS.Remove(name); err != nil {
			w.logger().Warn("unable to remove stale file", zap.String("file", name), zap.Error(err))
			errs = multierr.Append(errs, errors.Wrapf(err, "remove %s", name))
			continue
		}
		w.logger().Info("removed stale file", zap.String("file", name))
		removed = append(removed, name)
	}
	return removed, errs
}

func (w *Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
