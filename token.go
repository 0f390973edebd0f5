package cbor

import (
	"fmt"
	"strings"
)

// Kind identifies which of the fourteen shapes a Token takes. Kind is
// also the terminal-symbol alphabet of the grammar both parsers drive.
type Kind int

const (
	// KindUint indicates a natural number.
	KindUint Kind = iota
	// KindNint indicates a negative integer.
	KindNint
	// KindBstrX indicates a byte string of indefinite length.
	KindBstrX
	// KindBstr indicates a byte string of definite length.
	KindBstr
	// KindTstrX indicates a text string of indefinite length.
	KindTstrX
	// KindTstr indicates a text string of definite length.
	KindTstr
	// KindArrayX indicates an array of indefinite length.
	KindArrayX
	// KindArray indicates an array of definite length.
	KindArray
	// KindMapX indicates a map of indefinite length.
	KindMapX
	// KindMap indicates a map of definite length.
	KindMap
	// KindTag indicates a semantic tag.
	KindTag
	// KindSimple indicates a simple value.
	KindSimple
	// KindFloat indicates a binary floating-point value.
	KindFloat
	// KindBreak indicates the end of an indefinite-length item.
	KindBreak
)

var kindNames = [...]string{
	KindUint:   "uint",
	KindNint:   "nint",
	KindBstrX:  "bstrx",
	KindBstr:   "bstr",
	KindTstrX:  "tstrx",
	KindTstr:   "tstr",
	KindArrayX: "arrayx",
	KindArray:  "array",
	KindMapX:   "mapx",
	KindMap:    "map",
	KindTag:    "tag",
	KindSimple: "simple",
	KindFloat:  "float",
	KindBreak:  "break",
}

// String returns the kind's Display form, "%name".
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "%unknown"
	}
	return "%" + kindNames[k]
}

// Token is the unit the Scanner produces and either Parser consumes. A
// Token pairs a Kind with whatever payload that kind carries; unused
// payload fields are left at their zero value.
type Token struct {
	kind  Kind
	arg   uint64
	sim   byte
	bytes []byte
}

// Kind returns the token's kind.
func (t Token) Kind() Kind { return t.kind }

// Arg returns the token's scalar argument (valid for Uint, Nint, Array,
// Map, Tag, Float) and whether that argument applies to this token.
func (t Token) Arg() (uint64, bool) {
	switch t.kind {
	case KindUint, KindNint, KindArray, KindMap, KindTag, KindFloat:
		return t.arg, true
	default:
		return 0, false
	}
}

// Simple returns the token's simple-value byte and whether this token
// is a Simple token.
func (t Token) Simple() (byte, bool) {
	if t.kind == KindSimple {
		return t.sim, true
	}
	return 0, false
}

// Bytes returns the token's byte-string payload (valid for Bstr and
// Tstr) and whether this token carries one.
func (t Token) Bytes() ([]byte, bool) {
	switch t.kind {
	case KindBstr, KindTstr:
		return t.bytes, true
	default:
		return nil, false
	}
}

// UintToken returns a Token of kind Uint.
func UintToken(n uint64) Token { return Token{kind: KindUint, arg: n} }

// NintToken returns a Token of kind Nint carrying the raw argument n
// (not the semantic value -1-n; see DESIGN.md).
func NintToken(n uint64) Token { return Token{kind: KindNint, arg: n} }

// BstrXToken returns a Token of kind BstrX.
func BstrXToken() Token { return Token{kind: KindBstrX} }

// BstrToken returns a Token of kind Bstr.
func BstrToken(bytes []byte) Token { return Token{kind: KindBstr, bytes: bytes} }

// TstrXToken returns a Token of kind TstrX.
func TstrXToken() Token { return Token{kind: KindTstrX} }

// TstrToken returns a Token of kind Tstr.
func TstrToken(bytes []byte) Token { return Token{kind: KindTstr, bytes: bytes} }

// ArrayXToken returns a Token of kind ArrayX.
func ArrayXToken() Token { return Token{kind: KindArrayX} }

// ArrayToken returns a Token of kind Array with the given element count.
func ArrayToken(n uint64) Token { return Token{kind: KindArray, arg: n} }

// MapXToken returns a Token of kind MapX.
func MapXToken() Token { return Token{kind: KindMapX} }

// MapToken returns a Token of kind Map with the given pair count.
func MapToken(n uint64) Token { return Token{kind: KindMap, arg: n} }

// TagToken returns a Token of kind Tag with the given tag number.
func TagToken(n uint64) Token { return Token{kind: KindTag, arg: n} }

// SimpleToken returns a Token of kind Simple.
func SimpleToken(s byte) Token { return Token{kind: KindSimple, sim: s} }

// FloatToken returns a Token of kind Float carrying the raw bit pattern.
func FloatToken(bits uint64) Token { return Token{kind: KindFloat, arg: bits} }

// BreakToken returns a Token of kind Break.
func BreakToken() Token { return Token{kind: KindBreak} }

// TokenFromUint64 returns Token(Uint).
func TokenFromUint64(v uint64) Token { return UintToken(v) }

// TokenFromInt64 returns Token(Nint) if v is negative, Token(Uint) otherwise.
func TokenFromInt64(v int64) Token {
	if v < 0 {
		return NintToken(uint64(-1 - v))
	}
	return UintToken(uint64(v))
}

// TokenFromBytes returns Token(Bstr).
func TokenFromBytes(v []byte) Token { return BstrToken(v) }

// TokenFromString returns Token(Tstr).
func TokenFromString(v string) Token { return TstrToken([]byte(v)) }

// String formats the token per the Display law: "%kind" for payload-less
// kinds, "%kind(arg)" for scalar payloads, "%kind[b0, b1, ...]" (decimal,
// comma-space separated) for byte-string payloads.
func (t Token) String() string {
	switch t.kind {
	case KindUint, KindNint, KindArray, KindMap, KindTag, KindFloat:
		return fmt.Sprintf("%s(%d)", t.kind, t.arg)
	case KindSimple:
		return fmt.Sprintf("%s(%d)", t.kind, t.sim)
	case KindBstr, KindTstr:
		return fmt.Sprintf("%s%s", t.kind, byteList(t.bytes))
	default:
		return t.kind.String()
	}
}

func byteList(bs []byte) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
