package cbor

import (
	"fmt"
	"strings"
)

// ValueKind identifies which of the nine shapes a Value takes.
type ValueKind int

const (
	// ValueUint indicates a non-negative integer.
	ValueUint ValueKind = iota
	// ValueNint indicates a negative integer, carried as its raw
	// argument (see DESIGN.md's Open Question resolution).
	ValueNint
	// ValueFloat indicates a floating-point number, carried as its raw
	// bit pattern.
	ValueFloat
	// ValueBstr indicates a byte string.
	ValueBstr
	// ValueTstr indicates a text string. UTF-8 is never validated.
	ValueTstr
	// ValueSimple indicates a simple value.
	ValueSimple
	// ValueTag indicates a tagged value.
	ValueTag
	// ValueArray indicates a sequence of values.
	ValueArray
	// ValueMap indicates a sequence of key/value pairs.
	ValueMap
)

// Pair is one key/value entry of a Value of kind ValueMap. Pairs
// preserve encounter order; duplicate or out-of-order keys are not
// rejected.
type Pair struct {
	Key Value
	Val Value
}

// Value is a decoded CBOR data item.
type Value struct {
	kind   ValueKind
	num    uint64
	sim    byte
	bytes  []byte
	tagged *Value
	array  []Value
	pairs  []Pair
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// NewUint returns a Value of kind Uint.
func NewUint(n uint64) Value { return Value{kind: ValueUint, num: n} }

// NewNint returns a Value of kind Nint carrying the raw argument n.
func NewNint(n uint64) Value { return Value{kind: ValueNint, num: n} }

// NewFloat returns a Value of kind Float carrying the raw bit pattern.
func NewFloat(bits uint64) Value { return Value{kind: ValueFloat, num: bits} }

// NewBstr returns a Value of kind Bstr.
func NewBstr(bytes []byte) Value { return Value{kind: ValueBstr, bytes: bytes} }

// NewTstr returns a Value of kind Tstr. The bytes are not validated as UTF-8.
func NewTstr(bytes []byte) Value { return Value{kind: ValueTstr, bytes: bytes} }

// NewSimple returns a Value of kind Simple.
func NewSimple(s byte) Value { return Value{kind: ValueSimple, sim: s} }

// NewTag returns a Value of kind Tag.
func NewTag(tag uint64, tagged Value) Value {
	return Value{kind: ValueTag, num: tag, tagged: &tagged}
}

// NewArray returns a Value of kind Array.
func NewArray(elements []Value) Value { return Value{kind: ValueArray, array: elements} }

// NewMap returns a Value of kind Map.
func NewMap(pairs []Pair) Value { return Value{kind: ValueMap, pairs: pairs} }

// AsUint returns the payload of a Uint value.
func (v Value) AsUint() (uint64, bool) {
	if v.kind != ValueUint {
		return 0, false
	}
	return v.num, true
}

// AsNint returns the raw argument of a Nint value (not the semantic
// -1-n; see DESIGN.md).
func (v Value) AsNint() (uint64, bool) {
	if v.kind != ValueNint {
		return 0, false
	}
	return v.num, true
}

// AsFloat returns the raw bit pattern of a Float value.
func (v Value) AsFloat() (uint64, bool) {
	if v.kind != ValueFloat {
		return 0, false
	}
	return v.num, true
}

// AsBstr returns the payload of a Bstr value.
func (v Value) AsBstr() ([]byte, bool) {
	if v.kind != ValueBstr {
		return nil, false
	}
	return v.bytes, true
}

// AsTstr returns the payload of a Tstr value as raw bytes. The bytes
// are never validated as UTF-8; invalid sequences round-trip silently.
func (v Value) AsTstr() ([]byte, bool) {
	if v.kind != ValueTstr {
		return nil, false
	}
	return v.bytes, true
}

// AsSimple returns the payload of a Simple value.
func (v Value) AsSimple() (byte, bool) {
	if v.kind != ValueSimple {
		return 0, false
	}
	return v.sim, true
}

// AsTag returns the tag number and tagged value of a Tag value.
func (v Value) AsTag() (uint64, Value, bool) {
	if v.kind != ValueTag {
		return 0, Value{}, false
	}
	return v.num, *v.tagged, true
}

// AsArray returns the elements of an Array value.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != ValueArray {
		return nil, false
	}
	return v.array, true
}

// AsMap returns the entries of a Map value.
func (v Value) AsMap() ([]Pair, bool) {
	if v.kind != ValueMap {
		return nil, false
	}
	return v.pairs, true
}

// String formats the value per its Display law: "kind(n)" for scalars,
// "bstr[hex, hex, ...]" (lowercase, no 0x prefix) for byte strings,
// "tstr(…)" (contents always elided) for text strings, "tag(t, v)",
// "array(v, v, ...)", "map(k: v, k: v, ...)".
func (v Value) String() string {
	switch v.kind {
	case ValueUint:
		return fmt.Sprintf("uint(%d)", v.num)
	case ValueNint:
		return fmt.Sprintf("nint(%d)", v.num)
	case ValueFloat:
		return fmt.Sprintf("float(%d)", v.num)
	case ValueBstr:
		parts := make([]string, len(v.bytes))
		for i, b := range v.bytes {
			parts[i] = fmt.Sprintf("%x", b)
		}
		return "bstr[" + strings.Join(parts, ", ") + "]"
	case ValueTstr:
		return "tstr(…)"
	case ValueSimple:
		return fmt.Sprintf("simple(%d)", v.sim)
	case ValueTag:
		return fmt.Sprintf("tag(%d, %s)", v.num, v.tagged.String())
	case ValueArray:
		parts := make([]string, len(v.array))
		for i, e := range v.array {
			parts[i] = e.String()
		}
		return "array(" + strings.Join(parts, ", ") + ")"
	case ValueMap:
		parts := make([]string, len(v.pairs))
		for i, p := range v.pairs {
			parts[i] = fmt.Sprintf("%s: %s", p.Key.String(), p.Val.String())
		}
		return "map(" + strings.Join(parts, ", ") + ")"
	default:
		return "unknown"
	}
}

// ValueFromToken constructs a Value from a Token. The construction is
// undefined for Array, Map, Tag, and Break tokens (those require parser-
// level collection); ValueFromToken returns a *ValueFromTokenError for
// them. Float converts unconditionally, carrying its raw bit pattern
// through unchanged (see DESIGN.md's Open Question resolution).
func ValueFromToken(t Token) (Value, error) {
	switch t.kind {
	case KindArray, KindMap, KindTag, KindBreak:
		return Value{}, &ValueFromTokenError{Kind: t.kind}
	case KindUint:
		return NewUint(t.arg), nil
	case KindNint:
		return NewNint(t.arg), nil
	case KindBstrX:
		return NewBstr(nil), nil
	case KindBstr:
		return NewBstr(t.bytes), nil
	case KindTstrX:
		return NewTstr(nil), nil
	case KindTstr:
		return NewTstr(t.bytes), nil
	case KindArrayX:
		return NewArray(nil), nil
	case KindMapX:
		return NewMap(nil), nil
	case KindSimple:
		return NewSimple(t.sim), nil
	case KindFloat:
		return NewFloat(t.arg), nil
	default:
		return Value{}, &ValueFromTokenError{Kind: t.kind}
	}
}
