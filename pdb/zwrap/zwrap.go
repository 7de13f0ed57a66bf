// Package zwrap takes a file pointer and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying file.
// Open decides by looking at the first bytes, not at the name, so a
// compressed file called x.cif still works.
// Create goes by the name, so out.cif.gz gets compressed.

package zwrap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
)

var gzMagic = []byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   io.ReadCloser
	rdr  io.Reader // what Read uses, if not the decompressor
	zrdr *gzip.Reader
}

// Close closes the compressor, then the underlying backing readCloser.
// It should work if the source is a file or an http stream.
func (fc *FpGzip) Close() error {
	if fc.zrdr == nil {
		return fc.fp.Close()
	}
	return errors.Join(fc.zrdr.Close(), fc.fp.Close())
}

// Read makes sure we read from the compressed stream and
// not the underlying file stream.
func (fc *FpGzip) Read(p []byte) (int, error) {
	switch {
	case fc.zrdr != nil:
		return fc.zrdr.Read(p)
	case fc.rdr != nil:
		return fc.rdr.Read(p)
	}
	return fc.fp.Read(p)
}

// Wrap takes a source like a file pointer or http stream and wraps it
// so the correct Close and Read will be called. Although we use the
// name fp, it should be happy if it is fed an http stream.
func Wrap(fp io.ReadCloser) (*FpGzip, error) {
	var fpz FpGzip
	var err error
	fpz.fp = fp
	fpz.zrdr, err = gzip.NewReader(fpz.fp) // No need to check error.
	return &fpz, err                       // Just pass it back
}

// WrapMaybe will decide if the underlying stream is compressed
// and wrap it if necessary. It peeks at the first bytes, so it does
// not need to seek and works on http bodies and pipes.
func WrapMaybe(fp io.ReadCloser) (*FpGzip, error) {
	br := bufio.NewReader(fp)
	head, err := br.Peek(len(gzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, gzMagic) {
		return &FpGzip{fp: fp, rdr: br}, nil // Leave the zrdr implicitly nil
	}
	z, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, zrdr: z}, nil
}

// mapped is a file mapped into memory
type mapped struct {
	*bytes.Reader
	mm mmap.MMap
	fp *os.File
}

// Close unmaps, then closes the file.
func (m *mapped) Close() error {
	return errors.Join(m.mm.Unmap(), m.fp.Close())
}

// Open opens a file for reading and decompresses it if it starts with
// the gzip magic number. Regular files are mapped into memory. Things
// that cannot be mapped, like pipes or empty files, are read normally.
func Open(fname string) (io.ReadCloser, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if fi.IsDir() {
		fp.Close()
		return nil, fmt.Errorf("%s is a directory", fname)
	}
	if !fi.Mode().IsRegular() || fi.Size() == 0 {
		return wrapOrClose(fp)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return wrapOrClose(fp)
	}
	m := &mapped{Reader: bytes.NewReader(mm), mm: mm, fp: fp}
	if !bytes.HasPrefix(mm, gzMagic) {
		return m, nil
	}
	z, err := Wrap(m)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return z, nil
}

func wrapOrClose(fp *os.File) (io.ReadCloser, error) {
	r, err := WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("%s: %w", fp.Name(), err)
	}
	return r, nil
}

// gzWriter closes the compressor and then the file
type gzWriter struct {
	*gzip.Writer
	fp *os.File
}

func (g *gzWriter) Close() error {
	return errors.Join(g.Writer.Close(), g.fp.Close())
}

// Create makes a file for writing. If the name ends in .gz, what is
// written gets compressed.
func Create(fname string) (io.WriteCloser, error) {
	fp, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(fname), ".gz") {
		return fp, nil
	}
	return &gzWriter{Writer: gzip.NewWriter(fp), fp: fp}, nil
}
