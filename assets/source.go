// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package assets finds shader and texture data in a directory,
// a kar archive or a packr box.
package assets

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"

	"github.com/koru3d/vkr/core"
	"github.com/koru3d/vkr/utility/kar"
)

// ErrNotFound is returned when no source has the asset
var ErrNotFound = errors.New("asset not found")

// Source opens assets by slash separated names
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// cleanName keeps names inside the source root
func cleanName(name string) string {
	return path.Clean("/" + name)[1:]
}

// DirSource reads assets from a directory
type DirSource string

// Open implements Source
func (d DirSource) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(string(d), filepath.FromSlash(cleanName(name))))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	return f, err
}

// OpenArchive memory maps the kar archive at path
func OpenArchive(path string) (*ArchiveSource, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "mmap")
	}
	ar, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, errors.Wrap(err, path)
	}
	log.WithFields(log.Fields{
		"archive": path,
		"files":   len(ar.Names()),
		"version": ar.Header().Version,
	}).Debug("opened asset archive")
	return &ArchiveSource{mapped: r, archive: ar}, nil
}

// ArchiveSource reads assets from a memory mapped kar archive
type ArchiveSource struct {
	mapped  *mmap.ReaderAt
	archive *kar.Archive
}

// Archive returns the opened archive
func (a *ArchiveSource) Archive() *kar.Archive {
	return a.archive
}

// Open implements Source
func (a *ArchiveSource) Open(name string) (io.ReadCloser, error) {
	r, err := a.archive.Open(cleanName(name))
	if errors.Is(err, kar.ErrNotFound) {
		return nil, errors.Wrap(ErrNotFound, name)
	} else if err != nil {
		return nil, err
	}
	return ioutil.NopCloser(r), nil
}

// Close unmaps the archive. Readers opened before are invalid afterwards.
func (a *ArchiveSource) Close() error {
	return a.mapped.Close()
}

// BoxSource reads assets from a packr box
type BoxSource struct {
	Box packr.Box
}

// Open implements Source
func (b BoxSource) Open(name string) (io.ReadCloser, error) {
	name = cleanName(name)
	if !b.Box.Has(name) {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	data, err := b.Box.Find(name)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

// Chain tries every source in order, moving on only when an
// asset is not found
type Chain []Source

// Open implements Source
func (c Chain) Open(name string) (io.ReadCloser, error) {
	for _, src := range c {
		r, err := src.Open(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return r, err
	}
	return nil, errors.Wrap(ErrNotFound, name)
}

// NewSource picks the archive when one is configured, the data
// directory otherwise. The returned close function is never nil.
func NewSource(cfg core.RendererConfiguration) (Source, func() error, error) {
	if cfg.Archive != "" {
		ar, err := OpenArchive(cfg.Archive)
		if err != nil {
			return nil, nil, err
		}
		return ar, ar.Close, nil
	}
	return DirSource(cfg.DataDirectory), func() error { return nil }, nil
}
