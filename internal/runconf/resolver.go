// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/MKhiriev/cartesius/configs"
)

// Candidate is one strategy for turning a configuration name into file
// content. Read returns the content together with an origin label that
// uniquely identifies the file that was read.
//
// A candidate that has no file for name must return an error matching
// [fs.ErrNotExist]; the resolver then moves on to the next candidate.
type Candidate interface {
	Read(name string) (data []byte, origin string, err error)
}

// fsCandidate reads names from a directory tree exposed as an fs.FS.
type fsCandidate struct {
	label string
	fsys  fs.FS
}

// BundledCandidate looks names up in the bundled configuration directory.
// Names that are not valid inside fsys (absolute paths, paths escaping the
// root) are reported as missing.
func BundledCandidate(fsys fs.FS) Candidate {
	return &fsCandidate{label: "bundled", fsys: fsys}
}

func (c *fsCandidate) Read(name string) ([]byte, string, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if !fs.ValidPath(clean) {
		return nil, "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	info, err := fs.Stat(c.fsys, clean)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return nil, "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	data, err := fs.ReadFile(c.fsys, clean)
	if err != nil {
		return nil, "", err
	}
	return data, c.label + ":" + clean, nil
}

// workDirCandidate reads names as file-system paths.
type workDirCandidate struct{}

// WorkDirCandidate treats the name as a path, relative names being resolved
// from the process working directory.
func WorkDirCandidate() Candidate {
	return workDirCandidate{}
}

func (workDirCandidate) Read(name string) ([]byte, string, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return nil, "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, "", err
	}

	origin, err := filepath.Abs(name)
	if err != nil {
		origin = filepath.Clean(name)
	}
	return data, origin, nil
}

// DefaultCandidates returns the standard two-tier lookup: the bundled
// configuration directory first, then the working directory. configDir
// replaces the embedded bundle with a directory on disk when non-empty.
func DefaultCandidates(configDir string) []Candidate {
	bundle := fs.FS(configs.FS)
	if configDir != "" {
		bundle = os.DirFS(configDir)
	}
	return []Candidate{BundledCandidate(bundle), WorkDirCandidate()}
}

// PathResolver decides which concrete file a configuration name refers to by
// trying its candidates in order.
type PathResolver struct {
	candidates []Candidate
}

// NewPathResolver builds a resolver over candidates, highest priority first.
func NewPathResolver(candidates ...Candidate) *PathResolver {
	return &PathResolver{candidates: candidates}
}

// Read returns the content and origin of the first candidate that has name.
//
// A missing file moves on to the next candidate; any other read error is
// returned immediately. When no candidate has the file the error wraps
// [ErrConfigNotFound] and the last candidate's error.
func (r *PathResolver) Read(name string) ([]byte, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("%w: empty configuration name", ErrConfigNotFound)
	}

	var lastErr error
	for _, c := range r.candidates {
		data, origin, err := c.Read(name)
		if err == nil {
			return data, origin, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("reading configuration %q: %w", name, err)
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("no lookup locations configured")
	}
	return nil, "", fmt.Errorf("%w: %q: %w", ErrConfigNotFound, name, lastErr)
}

// Load reads name and parses it into a Mapping.
func (r *PathResolver) Load(name string) (*Mapping, string, error) {
	data, origin, err := r.Read(name)
	if err != nil {
		return nil, "", err
	}

	conf, err := ParseYAML(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", origin, err)
	}
	return conf, origin, nil
}
