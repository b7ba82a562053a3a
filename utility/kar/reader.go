// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"io"
	"io/ioutil"
	"sort"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

// Open opens the kar archived from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	prelude := make([]byte, dataStart)
	if num, err := r.ReadAt(prelude, 0); num < dataStart {
		if err == nil || err == io.EOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}
	if !bytes.Equal(prelude[:MagicLength], magic[:]) {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToint64(prelude[MagicLength:])
	if err != nil || headerSize <= 0 {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, dataStart); int64(num) < headerSize {
		if err == nil || err == io.EOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, errors.Wrap(ErrFileFormat, err.Error())
	}

	ar := &Archive{
		reader: r,
		header: header,
		index:  make(map[string]IndexEntry, len(header.Index)),
	}
	for _, e := range header.Index {
		if e.Offset < dataStart+headerSize || e.CompressedSize < 0 {
			return nil, ErrFileFormat
		}
		ar.index[e.Name] = e
	}
	return ar, nil
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader io.ReaderAt
	header Header
	index  map[string]IndexEntry
}

// Header returns the archive's header
func (a *Archive) Header() Header {
	return a.header
}

// Names lists the files in the archive, sorted
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.index))
	for name := range a.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stat returns the index entry of the named file
func (a *Archive) Stat(name string) (IndexEntry, error) {
	e, ok := a.index[name]
	if !ok {
		return IndexEntry{}, errors.Wrap(ErrNotFound, name)
	}
	return e, nil
}

// Open returns a reader for the named file. Readers
// of the same archive can be used concurrently.
func (a *Archive) Open(name string) (*Reader, error) {
	e, err := a.Stat(name)
	if err != nil {
		return nil, err
	}
	section := io.NewSectionReader(a.reader, e.Offset, e.CompressedSize)
	return &Reader{
		Entry:  e,
		reader: lz4.NewReader(section),
	}, nil
}

// ReadAll decompresses the named file in full
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	if int64(len(data)) != r.Entry.Size {
		return nil, errors.Wrapf(ErrFileFormat, "%s: %d bytes, expected %d", name, len(data), r.Entry.Size)
	}
	return data, nil
}

// Reader decompresses a single file of the archive
type Reader struct {
	Entry  IndexEntry
	reader *lz4.Reader
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}
