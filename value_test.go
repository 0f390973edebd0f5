package cbor

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
)

func TestValueStringDisplayLaw(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"uint", NewUint(5), "uint(5)"},
		{"nint", NewNint(0), "nint(0)"},
		{"bstr", NewBstr([]byte{0x01, 0x02}), "bstr[1, 2]"},
		{"tstr_elided", NewTstr([]byte("hello")), "tstr(…)"},
		{"tag", NewTag(0, NewUint(5)), "tag(0, uint(5))"},
		{"array", NewArray([]Value{NewUint(1), NewUint(2)}), "array(uint(1), uint(2))"},
		{"map", NewMap([]Pair{{Key: NewNint(0), Val: NewUint(0)}}), "map(nint(0): uint(0))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValueFromTokenScalars(t *testing.T) {
	tests := []struct {
		name string
		tok  Token
		want Value
	}{
		{"uint", UintToken(7), NewUint(7)},
		{"nint_raw", NintToken(3), NewNint(3)},
		{"bstr", BstrToken([]byte{1, 2}), NewBstr([]byte{1, 2})},
		{"tstr", TstrToken([]byte("hi")), NewTstr([]byte("hi"))},
		{"simple", SimpleToken(22), NewSimple(22)},
		{"float", FloatToken(0x4000000000000000), NewFloat(0x4000000000000000)},
		{"bstrx_empty", BstrXToken(), NewBstr(nil)},
		{"arrayx_empty", ArrayXToken(), NewArray(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueFromToken(tt.tok)
			if err != nil {
				t.Fatalf("ValueFromToken: %v", err)
			}
			if diff := deep.Equal(tt.want, got); diff != nil {
				t.Errorf("diff: %v", diff)
			}
		})
	}
}

func TestValueFromTokenUndefinedKinds(t *testing.T) {
	tests := []Token{
		ArrayToken(1),
		MapToken(1),
		TagToken(0),
		BreakToken(),
	}
	for _, tok := range tests {
		t.Run(tok.Kind().String(), func(t *testing.T) {
			_, err := ValueFromToken(tok)
			var target *ValueFromTokenError
			assert.ErrorAs(t, err, &target)
		})
	}
}

func TestTstrNeverValidatesUTF8(t *testing.T) {
	invalid := []byte{0xff, 0xfe, 0x00}
	v := NewTstr(invalid)
	got, ok := v.AsTstr()
	assert.True(t, ok)
	if diff := deep.Equal(invalid, got); diff != nil {
		t.Errorf("diff: %v", diff)
	}
}

func TestNintAccessorReturnsRawArgument(t *testing.T) {
	v := NewNint(23)
	n, ok := v.AsNint()
	assert.True(t, ok)
	assert.Equal(t, uint64(23), n)
}
