// Package workspace is the pipeline-local directory agents persist job logs
// and downloaded datasets into, and read workspace-relative content from.
package workspace

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/zdevops/zdevops/pkg/logging"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// Workspace is a directory on an afero filesystem.
type Workspace struct {
	fs   afero.Fs
	root string
	log  logging.Interface
}

// New returns a workspace rooted at root, creating the directory if needed.
func New(fs afero.Fs, root string, log logging.Interface) (*Workspace, error) {
	if root == "" {
		return nil, errors.New("workspace root cannot be empty")
	}
	if err := fs.MkdirAll(root, dirMode); err != nil {
		return nil, errors.Wrapf(err, "creating workspace %s", root)
	}
	return &Workspace{fs: fs, root: filepath.Clean(root), log: log}, nil
}

// Root is the absolute or cwd-relative workspace directory.
func (w *Workspace) Root() string { return w.root }

// Fs exposes the underlying filesystem.
func (w *Workspace) Fs() afero.Fs { return w.fs }

// Path joins name under the workspace root.
func (w *Workspace) Path(name string) (string, error) {
	p := filepath.Join(w.root, name)
	if p != w.root && !strings.HasPrefix(p, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%q escapes workspace %s", name, w.root)
	}
	return p, nil
}

// Persist writes data to name inside the workspace and returns its path.
func (w *Workspace) Persist(name string, data []byte) (string, error) {
	p, err := w.Path(name)
	if err != nil {
		return "", err
	}
	dir, file := filepath.Split(p)
	if err := w.fs.MkdirAll(dir, dirMode); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}
	if err := AtomicFileUpdate(w.fs, dir, file, data, fileMode, w.log); err != nil {
		return "", err
	}
	return p, nil
}

// Read returns the content of a workspace-relative file.
func (w *Workspace) Read(name string) ([]byte, error) {
	p, err := w.Path(name)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(w.fs, p)
}

// AtomicFileUpdate replaces destDir/destFile with data through a temporary
// file and a rename. Unchanged content only has its mode refreshed.
func AtomicFileUpdate(fs afero.Fs, destDir, destFile string, data []byte, mode os.FileMode, log logging.Interface) error {
	destPath := filepath.Join(destDir, destFile)
	if old, err := afero.ReadFile(fs, destPath); err == nil && bytes.Equal(old, data) {
		return fs.Chmod(destPath, mode)
	}

	log.WithField("destPath", destPath).Debug("Writing file...")

	// HACK: MemMapFs loses data on rename, write in place there.
	if _, mem := fs.(*afero.MemMapFs); mem {
		return errors.Wrap(afero.WriteFile(fs, destPath, data, mode), "writing file")
	}

	tmp, err := afero.TempFile(fs, destDir, "."+destFile+"~")
	if err != nil {
		return fmt.Errorf("creating tmp file for atomic write: %w", err)
	}
	defer func() { _ = tmp.Close() }()
	defer func() { _ = fs.Remove(tmp.Name()) }()

	if err := afero.WriteFile(fs, tmp.Name(), data, mode); err != nil {
		return fmt.Errorf("error writing into a temp file: %w", err)
	}
	return fs.Rename(tmp.Name(), destPath)
}
