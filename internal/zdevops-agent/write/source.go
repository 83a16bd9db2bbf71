package write

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// SourceKind names where write content comes from.
type SourceKind string

const (
	SourceLocal     SourceKind = "local"
	SourceWorkspace SourceKind = "workspace"
	SourceText      SourceKind = "text"
)

// Source is the content of a write. It is one of LocalFile, WorkspaceFile
// or Text.
type Source interface {
	Load(ws *workspace.Workspace) ([]byte, error)
	String() string
	source()
}

// LocalFile is a file on the agent host, absolute or relative to the
// working directory.
type LocalFile struct {
	Path string
}

// WorkspaceFile is a file relative to the workspace root.
type WorkspaceFile struct {
	Path string
}

// Text is inline content.
type Text struct {
	Value string
}

func (LocalFile) source()     {}
func (WorkspaceFile) source() {}
func (Text) source()          {}

func (s LocalFile) String() string     { return "file " + s.Path }
func (s WorkspaceFile) String() string { return "workspace file " + s.Path }
func (Text) String() string            { return "input text" }

// Load reads the file from the filesystem backing ws.
func (s LocalFile) Load(ws *workspace.Workspace) ([]byte, error) {
	data, err := afero.ReadFile(ws.Fs(), s.Path)
	return data, errors.Wrapf(err, "reading %s", s.Path)
}

func (s WorkspaceFile) Load(ws *workspace.Workspace) ([]byte, error) {
	data, err := ws.Read(s.Path)
	return data, errors.Wrapf(err, "reading %s from the workspace", s.Path)
}

func (s Text) Load(*workspace.Workspace) ([]byte, error) {
	return []byte(s.Value), nil
}

// ParseSource resolves a kind and its value into a Source. File kinds need a
// path; text may be empty.
func ParseSource(kind SourceKind, value string) (Source, error) {
	switch kind {
	case SourceLocal, SourceWorkspace:
		if value == "" {
			return nil, fmt.Errorf("%w: %s source needs a file path", zosmf.ErrValidation, kind)
		}
		if kind == SourceLocal {
			return LocalFile{Path: value}, nil
		}
		return WorkspaceFile{Path: value}, nil
	case SourceText:
		return Text{Value: value}, nil
	default:
		return nil, fmt.Errorf("%w: invalid content source %q", zosmf.ErrValidation, kind)
	}
}
