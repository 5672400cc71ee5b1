package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/pgload/pkg/pgload"
)

// Reader yields the non-blank lines of an events file as records.
type Reader struct {
	path string
	name string
}

// Open checks that path is a readable regular file. The file itself is opened
// anew by every iteration of Records.
func Open(path string) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, pgload.ErrInputNotFound)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected an events file: %w", path, pgload.ErrInputNotFound)
	}
	return &Reader{path: path, name: filepath.Base(path)}, nil
}

// Path returns the path the reader was opened with.
func (r *Reader) Path() string { return r.path }

// Name returns the file's base name, stored as source_file_name.
func (r *Reader) Name() string { return r.name }

// Records returns a finite, restartable sequence of records. Ranging over it
// twice reads the file twice and yields the same records.
func (r *Reader) Records() iter.Seq2[pgload.Record, error] {
	return func(yield func(pgload.Record, error) bool) {
		f, err := os.Open(r.path)
		if err != nil {
			yield(pgload.Record{}, fmt.Errorf("failed to open %s: %w", r.path, err))
			return
		}
		defer f.Close()

		for rec, err := range ReadRecords(f, r.name) {
			if err != nil {
				err = fmt.Errorf("failed to read %s: %w", r.path, err)
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// ReadRecords splits rd into lines, drops blank and whitespace-only ones,
// and pairs the rest with name. Line terminators (\n, \r\n) are removed;
// everything else is kept as-is.
func ReadRecords(rd io.Reader, name string) iter.Seq2[pgload.Record, error] {
	return func(yield func(pgload.Record, error) bool) {
		sc := bufio.NewScanner(rd)
		sc.Buffer(make([]byte, 0, 64*1024), pgload.MaxLineSize)

		for sc.Scan() {
			line := sc.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !yield(pgload.Record{Data: line, SourceFile: name}, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(pgload.Record{}, err)
		}
	}
}
