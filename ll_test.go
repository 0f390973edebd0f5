package cbor

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
)

func feedLL(t *testing.T, p *LLParser, toks []Token) (*Value, error) {
	t.Helper()
	var v *Value
	var err error
	for _, tok := range toks {
		v, err = p.Consume(tok)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	return nil, nil
}

func TestLLParserUninitializedRejectsConsume(t *testing.T) {
	p := NewLLParser()
	_, err := p.Consume(UintToken(0))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLLParserScenarios(t *testing.T) {
	tests := []struct {
		name string
		toks []Token
		want Value
	}{
		{"uint_zero", []Token{UintToken(0)}, NewUint(0)},
		{"empty_array", []Token{ArrayToken(0)}, NewArray(nil)},
		{"empty_arrayx", []Token{ArrayXToken(), BreakToken()}, NewArray(nil)},
		{
			"arrayx_of_uints",
			[]Token{
				ArrayXToken(),
				UintToken(0x17), UintToken(0x01), UintToken(0x0102),
				UintToken(0x01020304), UintToken(0x0102030405060708),
				BreakToken(),
			},
			NewArray([]Value{
				NewUint(0x17), NewUint(0x01), NewUint(0x0102),
				NewUint(0x01020304), NewUint(0x0102030405060708),
			}),
		},
		{
			"indefinite_bstr",
			[]Token{
				BstrXToken(),
				BstrToken([]byte{0x01, 0x02}),
				BstrToken([]byte{0x03, 0x04}),
				BreakToken(),
			},
			NewBstr([]byte{0x01, 0x02, 0x03, 0x04}),
		},
		{
			"tag_of_empty_tstr",
			[]Token{TagToken(0), TstrToken(nil)},
			NewTag(0, NewTstr(nil)),
		},
		{
			"nested_tags",
			[]Token{TagToken(0), TagToken(0), TagToken(0), UintToken(5)},
			NewTag(0, NewTag(0, NewTag(0, NewUint(5)))),
		},
		{
			"indefinite_map",
			[]Token{
				MapXToken(),
				NintToken(0), UintToken(0),
				NintToken(1), UintToken(1),
				BreakToken(),
			},
			NewMap([]Pair{
				{Key: NewNint(0), Val: NewUint(0)},
				{Key: NewNint(1), Val: NewUint(1)},
			}),
		},
		{
			"nested_indefinite_bstr_chunk",
			[]Token{
				BstrXToken(),
				BstrToken([]byte{0xaa}),
				BstrXToken(),
				BstrToken([]byte{0xbb}),
				BreakToken(),
				BreakToken(),
			},
			NewBstr([]byte{0xaa, 0xbb}),
		},
		{
			"definite_map",
			[]Token{
				MapToken(2),
				NintToken(0), UintToken(0),
				NintToken(1), UintToken(1),
			},
			NewMap([]Pair{
				{Key: NewNint(0), Val: NewUint(0)},
				{Key: NewNint(1), Val: NewUint(1)},
			}),
		},
		{
			"definite_map_of_array",
			[]Token{
				MapToken(1),
				UintToken(0),
				ArrayToken(2), UintToken(1), UintToken(2),
			},
			NewMap([]Pair{
				{Key: NewUint(0), Val: NewArray([]Value{NewUint(1), NewUint(2)})},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := CborLL()
			got, err := feedLL(t, p, tt.toks)
			if err != nil {
				t.Fatalf("Consume: %v", err)
			}
			if got == nil {
				t.Fatalf("expected a completed value")
			}
			if diff := deep.Equal(tt.want, *got); diff != nil {
				t.Errorf("diff: %v", diff)
			}
		})
	}
}

func TestLLParserTrailingInput(t *testing.T) {
	p := CborLL()
	_, err := p.Consume(UintToken(0))
	assert.NoError(t, err)
	_, err = p.Consume(UintToken(1))
	assert.ErrorIs(t, err, ErrTrailingInput)
}

func TestLLParserUnexpectedToken(t *testing.T) {
	p := CborLL()
	_, err := p.Consume(BreakToken())
	var target *UnexpectedTokenError
	assert.ErrorAs(t, err, &target)
}

// countingVisitor records how often each hook fires; it must observe
// the parse without altering its result.
type countingVisitor struct {
	LLVisitorBase
	inits, inputs, flushes int
	actions                []string
}

func (v *countingVisitor) OnInit(*llContextStack, *llValueStack)          { v.inits++ }
func (v *countingVisitor) OnInput(*llContextStack, *llValueStack, Token)  { v.inputs++ }
func (v *countingVisitor) OnFlush(*llContextStack, *llValueStack)         { v.flushes++ }
func (v *countingVisitor) OnAction(_ *llContextStack, _ *llValueStack, name string) {
	v.actions = append(v.actions, name)
}

func TestLLParserVisitorObservesParse(t *testing.T) {
	visitor := &countingVisitor{}
	p := NewLLParser()
	p.SetVisitor(visitor)
	if _, err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	got, err := feedLL(t, p, []Token{TagToken(1), ArrayToken(1), UintToken(7)})
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	want := NewTag(1, NewArray([]Value{NewUint(7)}))
	if diff := deep.Equal(want, *got); diff != nil {
		t.Errorf("diff: %v", diff)
	}
	assert.Equal(t, 1, visitor.inits)
	assert.Equal(t, 3, visitor.inputs)
	assert.Greater(t, visitor.flushes, 0)
	assert.Equal(t, []string{"collect_array", "tag_set"}, visitor.actions)
}

func TestLLParserStackBound(t *testing.T) {
	p := NewLLParser()
	p.cxt = newLLContextStack(4)
	p.val = newLLValueStack(4)
	if _, err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var err error
	for i := 0; i < 8; i++ {
		_, err = p.Consume(ArrayXToken())
		if err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, ErrInsufficientStackSize)
}
