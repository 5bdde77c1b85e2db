package store

import (
	"context"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/liquers-go/liquers/pkg/query"
)

// CompressedStore wraps a ByteStore, zstd-compressing every payload on
// Set and transparently decompressing it on Get. A single fixed
// encoding is enough here -- a byte store never needs to read back a
// foreign producer's chosen encoding, so there is nothing to negotiate.
type CompressedStore struct {
	ByteStore
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCompressedStore wraps inner with zstd compression. The returned
// store shares inner's directory/metadata semantics verbatim; only
// Get/Set are intercepted.
func NewCompressedStore(inner ByteStore) (*CompressedStore, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &CompressedStore{ByteStore: inner, encoder: enc, decoder: dec}, nil
}

// Close releases the encoder/decoder's internal goroutines and buffers.
func (c *CompressedStore) Close() {
	c.encoder.Close()
	c.decoder.Close()
}

func (c *CompressedStore) Get(ctx context.Context, key query.Key) ([]byte, error) {
	compressed, err := c.ByteStore.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.decoder.DecodeAll(compressed, nil)
}

func (c *CompressedStore) Set(ctx context.Context, key query.Key, data []byte) error {
	return c.ByteStore.Set(ctx, key, c.encoder.EncodeAll(data, nil))
}

// DecompressReader exposes the store's decoder as a streaming
// io.ReadCloser for callers that want to avoid buffering an entire
// decompressed value.
func (c *CompressedStore) DecompressReader(r io.ReadCloser) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{Reader: zr, Closer: closerFunc(func() error { zr.Close(); return r.Close() })}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var _ ByteStore = (*CompressedStore)(nil)
