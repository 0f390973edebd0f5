package cbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{"uint", KindUint, "%uint"},
		{"nint", KindNint, "%nint"},
		{"bstr", KindBstr, "%bstr"},
		{"bstrx", KindBstrX, "%bstrx"},
		{"break", KindBreak, "%break"},
		{"unknown", Kind(99), "%unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestTokenStringDisplayLaw(t *testing.T) {
	tests := []struct {
		name string
		tok  Token
		want string
	}{
		{"uint", UintToken(12345), "%uint(12345)"},
		{"bstr", BstrToken([]byte{1, 2, 3, 4, 5}), "%bstr[1, 2, 3, 4, 5]"},
		{"break", BreakToken(), "%break"},
		{"bstrx", BstrXToken(), "%bstrx"},
		{"simple", SimpleToken(22), "%simple(22)"},
		{"tag", TagToken(0), "%tag(0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tok.String())
		})
	}
}

func TestTokenFromInt64(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		kind Kind
		arg  uint64
	}{
		{"zero", 0, KindUint, 0},
		{"positive", 41, KindUint, 41},
		{"negative_one", -1, KindNint, 0},
		{"negative_24", -24, KindNint, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := TokenFromInt64(tt.in)
			assert.Equal(t, tt.kind, tok.Kind())
			arg, ok := tok.Arg()
			assert.True(t, ok)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func TestTokenArgUndefinedForPayloadlessKinds(t *testing.T) {
	_, ok := BreakToken().Arg()
	assert.False(t, ok)
	_, ok = BstrToken(nil).Arg()
	assert.False(t, ok)
}
