package protocol

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Payload buffer encodings.
const (
	EncodingRaw  = "base64"
	EncodingZstd = "zstd+base64"
)

// PayloadCodec turns mesh buffers into wire strings: little-endian bytes,
// optionally zstd-compressed, base64 encoded. One codec per session; the
// zstd encoder is stateful and not safe for concurrent use.
type PayloadCodec struct {
	enc      *zstd.Encoder
	dec      *zstd.Decoder
	compress bool
}

func NewPayloadCodec(compress bool) (*PayloadCodec, error) {
	c := &PayloadCodec{compress: compress}
	if compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("protocol: zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("protocol: zstd decoder: %w", err)
		}
		c.enc = enc
		c.dec = dec
	}
	return c, nil
}

// Encoding names the wire encoding this codec produces.
func (c *PayloadCodec) Encoding() string {
	if c.compress {
		return EncodingZstd
	}
	return EncodingRaw
}

func (c *PayloadCodec) encodeBytes(b []byte) string {
	if c.compress {
		b = c.enc.EncodeAll(b, nil)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func (c *PayloadCodec) decodeBytes(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("protocol: base64 payload: %w", err)
	}
	if c.compress {
		b, err = c.dec.DecodeAll(b, nil)
		if err != nil {
			return nil, fmt.Errorf("protocol: zstd payload: %w", err)
		}
	}
	return b, nil
}

// EncodeFloats packs a float32 buffer for the wire.
func (c *PayloadCodec) EncodeFloats(v []float32) string {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return c.encodeBytes(b)
}

// DecodeFloats is the inverse of EncodeFloats.
func (c *PayloadCodec) DecodeFloats(s string) ([]float32, error) {
	b, err := c.decodeBytes(s)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("protocol: float payload length %d not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}

// EncodeIndices packs a uint32 index buffer for the wire.
func (c *PayloadCodec) EncodeIndices(v []uint32) string {
	b := make([]byte, 4*len(v))
	for i, u := range v {
		binary.LittleEndian.PutUint32(b[4*i:], u)
	}
	return c.encodeBytes(b)
}

// DecodeIndices is the inverse of EncodeIndices.
func (c *PayloadCodec) DecodeIndices(s string) ([]uint32, error) {
	b, err := c.decodeBytes(s)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("protocol: index payload length %d not a multiple of 4", len(b))
	}
	v := make([]uint32, len(b)/4)
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return v, nil
}
