package cbor

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
)

func scanAll(t *testing.T, bs []byte) []Token {
	t.Helper()
	s := NewScanner()
	var toks []Token
	for _, b := range bs {
		tok, err := s.Consume(b)
		if err != nil {
			t.Fatalf("Consume(%#x): %v", b, err)
		}
		if tok != nil {
			toks = append(toks, *tok)
		}
	}
	return toks
}

func TestScannerSingleByteHeads(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Token
	}{
		{"uint_0", []byte{0x00}, UintToken(0)},
		{"uint_23", []byte{0x17}, UintToken(23)},
		{"nint_0", []byte{0x20}, NintToken(0)},
		{"bstr_empty", []byte{0x40}, BstrToken(nil)},
		{"tstr_empty", []byte{0x60}, TstrToken(nil)},
		{"array_empty", []byte{0x80}, ArrayToken(0)},
		{"map_empty", []byte{0xa0}, MapToken(0)},
		{"tag_0", []byte{0xc0}, TagToken(0)},
		{"simple_22", []byte{0xf6}, SimpleToken(22)},
		{"simple_true", []byte{encodeInitialByte(MajorTypeSimpleOrFloat, byte(SimpleValueTrue))}, SimpleToken(byte(SimpleValueTrue))},
		{"tag_unix_time", []byte{encodeInitialByte(MajorTypeTag, byte(TagUnixTime))}, TagToken(uint64(TagUnixTime))},
		{"break", []byte{breakByte}, BreakToken()},
		{"bstrx_start", []byte{0x5f}, BstrXToken()},
		{"arrayx_start", []byte{0x9f}, ArrayXToken()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := scanAll(t, tt.in)
			if len(toks) != 1 {
				t.Fatalf("got %d tokens, want 1: %v", len(toks), toks)
			}
			if diff := deep.Equal(tt.want, toks[0]); diff != nil {
				t.Errorf("diff: %v", diff)
			}
		})
	}
}

func TestScannerMultiByteArgument(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Token
	}{
		{"uint_1byte", []byte{0x18, 0x01}, UintToken(1)},
		{"uint_2byte", []byte{0x19, 0x01, 0x02}, UintToken(0x0102)},
		{"uint_4byte", []byte{0x1a, 0x01, 0x02, 0x03, 0x04}, UintToken(0x01020304)},
		{"uint_8byte", []byte{0x1b, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, UintToken(0x0102030405060708)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := scanAll(t, tt.in)
			if len(toks) != 1 {
				t.Fatalf("got %d tokens, want 1", len(toks))
			}
			if diff := deep.Equal(tt.want, toks[0]); diff != nil {
				t.Errorf("diff: %v", diff)
			}
		})
	}
}

func TestScannerByteStringChunking(t *testing.T) {
	in := []byte{0x5f, 0x42, 0x01, 0x02, 0x42, 0x03, 0x04, 0xff}
	want := []Token{
		BstrXToken(),
		BstrToken([]byte{0x01, 0x02}),
		BstrToken([]byte{0x03, 0x04}),
		BreakToken(),
	}
	toks := scanAll(t, in)
	if diff := deep.Equal(want, toks); diff != nil {
		t.Errorf("diff: %v", diff)
	}
}

func TestScannerUnexpectedHead(t *testing.T) {
	s := NewScanner()
	_, err := s.Consume(0x1c)
	var target *UnexpectedHeadError
	assert.ErrorAs(t, err, &target)
}

func TestScannerReset(t *testing.T) {
	s := NewScanner()
	_, err := s.Consume(0x18) // expects one more byte
	assert.NoError(t, err)
	s.Reset()
	tok, err := s.Consume(0x00)
	assert.NoError(t, err)
	assert.NotNil(t, tok)
	assert.Equal(t, KindUint, tok.Kind())
}

func TestConsumeUntilComplete(t *testing.T) {
	s := NewScanner()
	r := bytes.NewReader([]byte{0x19, 0x01, 0x02})
	tok, err := s.ConsumeUntilComplete(r)
	assert.NoError(t, err)
	if diff := deep.Equal(UintToken(0x0102), *tok); diff != nil {
		t.Errorf("diff: %v", diff)
	}
}

func TestConsumeUntilCompleteExhausted(t *testing.T) {
	s := NewScanner()
	r := bytes.NewReader([]byte{0x19, 0x01})
	tok, err := s.ConsumeUntilComplete(r)
	assert.NoError(t, err)
	assert.Nil(t, tok)
}

func TestInitialByteCodecRoundTrips(t *testing.T) {
	for _, b := range []byte{0x00, 0x17, 0x5f, 0x9f, 0xc1, 0xf5, 0xff} {
		mt, ai := decodeInitialByte(b)
		if got := encodeInitialByte(mt, ai); got != b {
			t.Errorf("encodeInitialByte(decodeInitialByte(%#x)) = %#x, want %#x", b, got, b)
		}
	}
}

func TestScannerExcessiveCount(t *testing.T) {
	s := NewScanner()
	_, err := s.Consume(0x5b) // bstr, 8-byte length argument follows
	assert.NoError(t, err)
	big := []byte{0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	var err2 error
	for _, b := range big {
		_, err2 = s.Consume(b)
	}
	var target *ExcessiveError
	assert.ErrorAs(t, err2, &target)
}
