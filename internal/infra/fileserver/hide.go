package fileserver

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

var errHidden = fmt.Errorf("hidden file: %w", fs.ErrNotExist)

// hidingFS compares every opened file with the hidden set by identity, so
// symlinked roots and links inside the tree cannot reach a hidden file.
type hidingFS struct {
	dir    http.Dir
	hidden []os.FileInfo
}

func (h hidingFS) Open(name string) (http.File, error) {
	f, err := h.dir.Open(name)
	if err != nil || len(h.hidden) == 0 {
		return f, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if h.isHidden(fi) {
		_ = f.Close()
		return nil, errHidden
	}
	if fi.IsDir() {
		return hidingDir{File: f, fs: h}, nil
	}
	return f, nil
}

func (h hidingFS) isHidden(fi os.FileInfo) bool {
	for _, hidden := range h.hidden {
		if os.SameFile(hidden, fi) {
			return true
		}
	}
	return false
}

type hidingDir struct {
	http.File
	fs hidingFS
}

func (d hidingDir) Readdir(count int) ([]fs.FileInfo, error) {
	entries, err := d.File.Readdir(count)
	out := entries[:0]
	for _, e := range entries {
		if !d.fs.isHidden(e) {
			out = append(out, e)
		}
	}
	return out, err
}
