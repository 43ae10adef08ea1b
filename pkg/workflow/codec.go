package workflow

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// Codec transforms cache entries on their way to and from disk. The
// zero-cost default stores bytes as-is; compressing codecs trade CPU
// for space on large entries. A codec's extension tags its files so a
// store never decodes with the wrong one.
type Codec interface {
	// Name returns the codec identifier used for registry lookup
	Name() string

	// Ext returns the file extension appended to entry names ("" for raw)
	Ext() string

	// Encode transforms data for storage
	Encode(data []byte) ([]byte, error)

	// Decode reverses Encode
	Decode(data []byte) ([]byte, error)
}

// codecRegistry maps codec names to implementations
var codecRegistry = make(map[string]Codec)

// RegisterCodec registers a codec implementation.
func RegisterCodec(c Codec) {
	codecRegistry[c.Name()] = c
}

// CodecByName retrieves a registered codec.
func CodecByName(name string) (Codec, error) {
	c, ok := codecRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

func init() {
	RegisterCodec(RawCodec{})
	RegisterCodec(GzipCodec{})
	RegisterCodec(Bzip2Codec{})
}

// RawCodec stores entries unchanged.
type RawCodec struct{}

func (RawCodec) Name() string { return "raw" }
func (RawCodec) Ext() string  { return "" }

func (RawCodec) Encode(data []byte) ([]byte, error) { return data, nil }
func (RawCodec) Decode(data []byte) ([]byte, error) { return data, nil }

// GzipCodec compresses entries with gzip.
type GzipCodec struct{}

func (GzipCodec) Name() string { return "gzip" }
func (GzipCodec) Ext() string  { return ".gz" }

// Encode compresses data using GZIP
func (GzipCodec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		gw.Close()
		return nil, fmt.Errorf("writing gzip data: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode decompresses GZIP data
func (GzipCodec) Decode(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gr.Close()

	out, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("reading gzip data: %w", err)
	}
	return out, nil
}

// Bzip2Codec compresses entries with bzip2. The standard library only
// ships a bzip2 reader, so writing goes through dsnet/compress.
type Bzip2Codec struct{}

func (Bzip2Codec) Name() string { return "bzip2" }
func (Bzip2Codec) Ext() string  { return ".bz2" }

// Encode compresses data using BZIP2
func (Bzip2Codec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	bw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: 9})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 writer: %w", err)
	}
	if _, err := bw.Write(data); err != nil {
		bw.Close()
		return nil, fmt.Errorf("writing bzip2 data: %w", err)
	}
	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("closing bzip2 writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode decompresses BZIP2 data
func (Bzip2Codec) Decode(data []byte) ([]byte, error) {
	br, err := bzip2.NewReader(bytes.NewReader(data), &bzip2.ReaderConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 reader: %w", err)
	}
	defer br.Close()

	out, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("reading bzip2 data: %w", err)
	}
	return out, nil
}
