package protocol

import "testing"

func TestPayloadCodecRoundTrip(t *testing.T) {
	floats := []float32{0, 1.5, -3.25, 16, 0.001, -0.0}
	indices := []uint32{0, 1, 2, 0, 2, 3, 4094967295}

	for _, compress := range []bool{false, true} {
		c, err := NewPayloadCodec(compress)
		if err != nil {
			t.Fatalf("NewPayloadCodec(%v): %v", compress, err)
		}

		gotF, err := c.DecodeFloats(c.EncodeFloats(floats))
		if err != nil {
			t.Fatalf("compress=%v DecodeFloats: %v", compress, err)
		}
		if len(gotF) != len(floats) {
			t.Fatalf("compress=%v float length %d, want %d", compress, len(gotF), len(floats))
		}
		for i := range floats {
			if gotF[i] != floats[i] {
				t.Fatalf("compress=%v float[%d]=%f, want %f", compress, i, gotF[i], floats[i])
			}
		}

		gotI, err := c.DecodeIndices(c.EncodeIndices(indices))
		if err != nil {
			t.Fatalf("compress=%v DecodeIndices: %v", compress, err)
		}
		if len(gotI) != len(indices) {
			t.Fatalf("compress=%v index length %d, want %d", compress, len(gotI), len(indices))
		}
		for i := range indices {
			if gotI[i] != indices[i] {
				t.Fatalf("compress=%v index[%d]=%d, want %d", compress, i, gotI[i], indices[i])
			}
		}
	}
}

func TestPayloadCodecEmpty(t *testing.T) {
	for _, compress := range []bool{false, true} {
		c, err := NewPayloadCodec(compress)
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.DecodeFloats(c.EncodeFloats(nil))
		if err != nil {
			t.Fatalf("compress=%v empty round trip: %v", compress, err)
		}
		if len(got) != 0 {
			t.Fatalf("compress=%v empty decoded to %d floats", compress, len(got))
		}
	}
}

func TestPayloadCodecEncodingName(t *testing.T) {
	raw, _ := NewPayloadCodec(false)
	z, _ := NewPayloadCodec(true)
	if raw.Encoding() != EncodingRaw {
		t.Errorf("raw encoding %q", raw.Encoding())
	}
	if z.Encoding() != EncodingZstd {
		t.Errorf("zstd encoding %q", z.Encoding())
	}
}

func TestPayloadCodecRejectsGarbage(t *testing.T) {
	c, _ := NewPayloadCodec(false)
	if _, err := c.DecodeFloats("not base64!!"); err == nil {
		t.Error("invalid base64 should fail")
	}
	// 3 bytes is not a whole float32.
	if _, err := c.DecodeFloats("YWJj"); err == nil {
		t.Error("truncated float payload should fail")
	}

	z, _ := NewPayloadCodec(true)
	// Valid base64, not a zstd frame.
	if _, err := z.DecodeFloats("YWJjZA=="); err == nil {
		t.Error("non-zstd payload should fail under zstd encoding")
	}
}

func TestDecodeBase(t *testing.T) {
	base, err := DecodeBase([]byte(`{"type":"move","x":1,"z":2}`))
	if err != nil {
		t.Fatalf("DecodeBase: %v", err)
	}
	if base.Type != TypeMove {
		t.Errorf("Type=%q, want move", base.Type)
	}
	if _, err := DecodeBase([]byte(`{}`)); err == nil {
		t.Error("missing type should fail")
	}
	if _, err := DecodeBase([]byte(`not json`)); err == nil {
		t.Error("malformed json should fail")
	}
}
