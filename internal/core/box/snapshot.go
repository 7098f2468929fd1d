package box

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// compressed reports whether path names a gzip snapshot.
func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// SaveFile writes b's state to path, gzip-compressed when path ends in .gz.
func SaveFile(b *Box, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	var w io.Writer = f
	if compressed(path) {
		zw := gzip.NewWriter(f)
		defer func() {
			err = errors.Join(err, zw.Close())
		}()
		w = zw
	}
	return b.SaveState(w)
}

// RestoreFile restores b from a file written by SaveFile.
func RestoreFile(b *Box, path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	var r io.Reader = f
	if compressed(path) {
		zr, zerr := gzip.NewReader(f)
		if zerr != nil {
			return zerr
		}
		defer func() {
			err = errors.Join(err, zr.Close())
		}()
		r = zr
	}
	return b.RestoreState(r)
}
