package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
)

// ErrNotFound reports a table file absent from its source.
var ErrNotFound = errors.New("reference file not found")

// Source yields the decoded rows of one reference table.
type Source interface {
	Rows(ctx context.Context, key growth.TableKey) (Decoded, error)
	Describe() string
}

// Opener reads named blobs from a directory or bucket.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Describe() string
}

type decoder func(io.Reader) (Decoded, error)

// Extensions are tried in order; the first one present is used.
var fileFormats = []struct {
	ext    string
	decode decoder
}{
	{ext: ".csv", decode: decodeDelimited},
	{ext: ".tsv", decode: decodeDelimited},
	{ext: ".txt", decode: decodeDelimited},
	{ext: ".xlsx", decode: decodeXLSX},
}

// FileSource decodes table files named by Stem from an Opener.
type FileSource struct {
	opener Opener
}

// NewFileSource wraps an opener.
func NewFileSource(opener Opener) *FileSource {
	return &FileSource{opener: opener}
}

// Rows implements Source.
func (s *FileSource) Rows(ctx context.Context, key growth.TableKey) (Decoded, error) {
	stem := Stem(key)
	for _, format := range fileFormats {
		name := stem + format.ext
		rc, err := s.opener.Open(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Decoded{}, fmt.Errorf("open %s: %w", name, err)
		}
		decoded, err := format.decode(rc)
		rc.Close()
		if err != nil {
			return Decoded{}, fmt.Errorf("decode %s: %w", name, err)
		}
		return decoded, nil
	}
	return Decoded{}, fmt.Errorf("%w: %s.{csv,tsv,txt,xlsx} in %s", ErrNotFound, stem, s.opener.Describe())
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return s.opener.Describe()
}

// DirOpener reads files from a local directory.
type DirOpener struct {
	root string
}

// NewDirOpener constructs an opener rooted at dir.
func NewDirOpener(dir string) *DirOpener {
	return &DirOpener{root: filepath.Clean(dir)}
}

// Open implements Opener.
func (o *DirOpener) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid file name %q", name)
	}
	f, err := os.Open(filepath.Join(o.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Describe implements Opener.
func (o *DirOpener) Describe() string {
	return "dir:" + o.root
}
