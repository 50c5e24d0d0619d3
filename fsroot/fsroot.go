// Package fsroot is the filesystem collaborator the spec treats as
// external: "directory open, file open relative to a root, read,
// rewind, stat for size, close".
package fsroot

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is a single open file handle as the default/SSI/CGI handlers need
// it: sequential reads, a rewind for the shared index file, and a size
// for Content-Length.
type File interface {
	io.ReadCloser
	Rewind() error
	Size() (int64, error)
}

// Root opens paths relative to a configured directory, refusing to
// escape it (the spec does not ask for this, but "open relative to a
// root" is meaningless without containment, and the host project is an
// embedded HTTP server serving a filesystem to untrusted clients).
type Root interface {
	Open(relPath string) (File, error)
	Close() error
}

type root struct {
	base string
}

// Open resolves dir as the root directory.
func Open(dir string) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(abs); err != nil || !fi.IsDir() {
		if err == nil {
			err = os.ErrInvalid
		}
		return nil, err
	}
	return &root{base: abs}, nil
}

func (r *root) Close() error { return nil }

func (r *root) Open(relPath string) (File, error) {
	clean := filepath.Clean("/" + strings.TrimPrefix(relPath, "/"))
	full := filepath.Join(r.base, clean)

	if !strings.HasPrefix(full, r.base) {
		return nil, os.ErrPermission
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	return &osFile{f: f}, nil
}

type osFile struct {
	f *os.File
}

func (o *osFile) Read(p []byte) (int, error) { return o.f.Read(p) }
func (o *osFile) Close() error                { return o.f.Close() }
func (o *osFile) Rewind() error {
	_, err := o.f.Seek(0, io.SeekStart)
	return err
}

func (o *osFile) Size() (int64, error) {
	fi, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
