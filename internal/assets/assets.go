// Package assets locates and decodes bundled data assets.
//
// Assets may ship either plain or gzip-compressed under the same logical
// name; callers pass candidate names in preference order and get back a
// decoded UTF-8 text stream.
package assets

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrNotFound is returned when none of the candidate assets exist.
var ErrNotFound = errors.New("assets: no candidate asset found")

// CorruptError wraps a decode failure on an asset that was found. A found
// but broken asset is a hard failure, not a reason to try fallbacks.
type CorruptError struct {
	Name string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("assets: %s is corrupt: %v", e.Name, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Source resolves asset names against a filesystem. Tests inject an
// fstest.MapFS; production uses the configured asset directory.
type Source struct {
	fsys fs.FS
}

// NewSource creates a Source over the given filesystem.
func NewSource(fsys fs.FS) *Source {
	return &Source{fsys: fsys}
}

// NewDirSource creates a Source over a directory on disk.
func NewDirSource(dir string) *Source {
	return &Source{fsys: os.DirFS(dir)}
}

type decodedAsset struct {
	io.Reader
	closers []io.Closer
}

func (d *decodedAsset) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open tries each candidate name in order and returns a decoded text
// stream for the first one that exists, along with the name that matched.
// The first two bytes are sniffed for the gzip magic number; compressed
// assets are decompressed transparently. A candidate that exists but fails
// to decode stops the search with a CorruptError. ErrNotFound is returned
// only after every candidate is missing.
func (s *Source) Open(candidates ...string) (io.ReadCloser, string, error) {
	for _, name := range candidates {
		f, err := s.fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", &CorruptError{Name: name, Err: err}
		}

		buffered := bufio.NewReader(f)
		magic, err := buffered.Peek(2)
		if err != nil && err != io.EOF {
			f.Close()
			return nil, "", &CorruptError{Name: name, Err: err}
		}

		if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
			gz, err := gzip.NewReader(buffered)
			if err != nil {
				f.Close()
				return nil, "", &CorruptError{Name: name, Err: err}
			}
			return &decodedAsset{Reader: gz, closers: []io.Closer{gz, f}}, name, nil
		}

		return &decodedAsset{Reader: buffered, closers: []io.Closer{f}}, name, nil
	}
	return nil, "", ErrNotFound
}

// ReadText opens the first existing candidate and reads it fully as UTF-8
// text. Decode and read failures surface as CorruptError.
func (s *Source) ReadText(candidates ...string) (string, string, error) {
	rc, name, err := s.Open(candidates...)
	if err != nil {
		return "", "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", "", &CorruptError{Name: name, Err: err}
	}
	return string(data), name, nil
}
