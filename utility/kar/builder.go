// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"runtime"
	"sync"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

// NewBuilder creates a new Builder. Do not fill the Index in
// the header, it will be overwritten anyway.
func NewBuilder(header Header) (*Builder, error) {
	temp, err := ioutil.TempDir("", "karBuilder")
	if err != nil {
		return nil, errors.Wrap(err, "temporary directory")
	}
	builder := &Builder{
		tempDir: temp,
		header:  header,
	}
	// Close is the way to clean up, this only catches the forgotten ones
	runtime.SetFinalizer(builder, func(builder *Builder) {
		os.RemoveAll(builder.tempDir)
	})
	return builder, nil
}

type tempFile struct {

	// Name is the actual name of the file
	Name string

	// TempName is the temporary file holding the compressed data
	TempName string

	// Size in uncompressed state
	Size int64

	Compressed int64
}

// Builder is the high level builder for the archive format.
// Arhives are versioned and cannot be appended to, This Builder
// is the way to create an archive. Whenever Add is called, Builder
// will store the compressed file in its temporary dir, then finally
// bundle them togeter and write them out with WriteTo.
type Builder struct {
	tempDir string
	header  Header

	mutex sync.Mutex
	files []tempFile
}

// Add appends data to the builder with a given name.
// Will block until lz4 finishes compression. Is safe
// to use concurrently in different goroutines.
func (b *Builder) Add(name string, data io.Reader) error {
	f, err := ioutil.TempFile(b.tempDir, "entry")
	if err != nil {
		return errors.Wrap(err, "temporary file")
	}
	defer f.Close()

	writer := lz4.NewWriter(f)
	written, err := io.Copy(writer, data)
	if err != nil {
		return errors.Wrapf(err, "compressing %s", name)
	}
	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "compressing %s", name)
	}
	if err := f.Sync(); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, existing := range b.files {
		if existing.Name == name {
			os.Remove(f.Name())
			return errors.Errorf("%s added twice", name)
		}
	}
	b.files = append(b.files, tempFile{
		Name:       name,
		TempName:   f.Name(),
		Size:       written,
		Compressed: info.Size(),
	})
	return nil
}

// Len is the number of files added so far
func (b *Builder) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.files)
}

// header lays out the index behind a header area of reserved bytes
// and encodes it. The encoding has to fit into the reserved area.
func (b *Builder) encodeHeader() ([]byte, error) {
	header := b.header
	header.Index = make([]IndexEntry, len(b.files))
	for idx, v := range b.files {
		header.Index[idx] = IndexEntry{
			Name:           v.Name,
			Size:           v.Size,
			CompressedSize: v.Compressed,
		}
	}

	reserved := header.MaxExpectedSize()
	for {
		offset := dataStart + reserved
		for idx := range header.Index {
			header.Index[idx].Offset = offset
			offset += header.Index[idx].CompressedSize
		}

		raw, err := gobEncode(header)
		if err != nil {
			return nil, errors.Wrap(err, "encoding header")
		}
		if int64(len(raw)) <= reserved {
			return append(raw, make([]byte, reserved-int64(len(raw)))...), nil
		}
		reserved = int64(len(raw)) + 64
	}
}

// WriteTo bundles and writes all of the files added to the Builder
// into a kar archive that is ready to use.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	rawHeader, err := b.encodeHeader()
	if err != nil {
		return 0, err
	}

	var prelude bytes.Buffer
	prelude.Write(magic[:])
	prelude.Write(int64ToBinary(int64(len(rawHeader))))
	prelude.Write(rawHeader)

	total, err := prelude.WriteTo(w)
	if err != nil {
		return total, err
	}

	for _, v := range b.files {
		f, err := os.Open(v.TempName)
		if err != nil {
			return total, err
		}
		written, err := io.Copy(w, f)
		f.Close()
		total += written
		if err != nil {
			return total, errors.Wrapf(err, "writing %s", v.Name)
		}
	}
	return total, nil
}

// Close removes the temporary files. The Builder is
// unusable afterwards.
func (b *Builder) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = nil
	return os.RemoveAll(b.tempDir)
}
