package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// Compression identifies the container a database image was found in.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionXZ   Compression = "xz"
	CompressionZstd Compression = "zstd"
	CompressionGzip Compression = "gzip"
)

var (
	magicXZ   = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
	magicZstd = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicGzip = []byte{0x1F, 0x8B}
)

// DetectCompression classifies the leading bytes of a file.
func DetectCompression(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, magicXZ):
		return CompressionXZ
	case bytes.HasPrefix(head, magicZstd):
		return CompressionZstd
	case bytes.HasPrefix(head, magicGzip):
		return CompressionGzip
	default:
		return CompressionNone
	}
}

type source struct {
	io.Reader
	closers []func() error
}

func (s *source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenSource opens path read-only and returns a reader over the database
// image, decompressing it when the file is an xz, zstd or gzip stream.
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to open %s", path), err)
	}

	br := bufio.NewReaderSize(f, 64*1024)
	head, err := br.Peek(len(magicXZ))
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to read %s", path), err)
	}

	src, err := wrapSource(br, DetectCompression(head))
	if err != nil {
		f.Close()
		return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to open compressed %s", path), err)
	}
	src.closers = append([]func() error{f.Close}, src.closers...)
	return src, nil
}

func wrapSource(r io.Reader, c Compression) (*source, error) {
	switch c {
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &source{Reader: xr}, nil

	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &source{Reader: zr, closers: []func() error{func() error {
			zr.Close()
			return nil
		}}}, nil

	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &source{Reader: gr, closers: []func() error{gr.Close}}, nil

	default:
		return &source{Reader: r}, nil
	}
}
