package cbor

// lrFrameKind identifies what an open frame on the LR parser's frame
// stack is accumulating. Each frame corresponds to one non-terminal of
// the shared grammar currently being reduced: the frame stack plays the
// role a canonical LR(1) automaton's state stack plays, and each
// frame's accumulator fields play the role its value stack plays.
// The two are merged because this parser never needs to inspect a
// state that isn't the top of the stack (see DESIGN.md for the full
// rationale).
type lrFrameKind int

const (
	// lrFrameRoot is the bottom frame: it expects exactly one Value
	// and then the parse is complete.
	lrFrameRoot lrFrameKind = iota
	// lrFrameArray accumulates a definite-length array's remaining elements.
	lrFrameArray
	// lrFrameArrayX accumulates an indefinite-length array until Break.
	lrFrameArrayX
	// lrFrameMap accumulates a definite-length map's remaining key/value items.
	lrFrameMap
	// lrFrameMapX accumulates an indefinite-length map's pairs until Break.
	lrFrameMapX
	// lrFrameTag awaits exactly one Value to wrap in a tag.
	lrFrameTag
	// lrFrameBstrX accumulates an indefinite byte string's chunks until Break.
	lrFrameBstrX
	// lrFrameTstrX accumulates an indefinite text string's chunks until Break.
	lrFrameTstrX
)

// lrFrame is one entry of the LR parser's frame stack.
type lrFrame struct {
	kind      lrFrameKind
	tag       uint64
	remaining uint64 // lrFrameArray/lrFrameMap: remaining <VALUE>s expected (2 per map pair)
	array     []Value
	pairs     []Pair
	havingKey bool
	key       Value
	bytes     []byte
}

// LRParser is a bottom-up shift/reduce parser for CBOR. Each incoming
// token either shifts a new frame onto the stack (the token starts a
// container or tagged value) or reduces: it completes a Value which is
// delivered into the frame beneath it, possibly cascading through
// several reductions in one step (e.g. a tag wrapping an array wrapping
// a tag).
type LRParser struct {
	frames   []lrFrame
	upper    int
	accepted bool
}

// CborLR returns an LR parser ready to decode one top-level value.
func CborLR() *LRParser {
	return &LRParser{
		frames: []lrFrame{{kind: lrFrameRoot}},
		upper:  defaultStackBound,
	}
}

func (p *LRParser) push(f lrFrame) error {
	if len(p.frames) >= p.upper {
		return ErrInsufficientStackSize
	}
	p.frames = append(p.frames, f)
	return nil
}

func (p *LRParser) top() (*lrFrame, error) {
	if len(p.frames) == 0 {
		return nil, ErrInternal
	}
	return &p.frames[len(p.frames)-1], nil
}

// Consume feeds one token into the parser. It returns (nil, nil)
// mid-parse, (v, nil) once the top-level value is complete, or an
// error.
func (p *LRParser) Consume(tok Token) (*Value, error) {
	if p.accepted {
		return nil, ErrTrailingInput
	}
	frame, err := p.top()
	if err != nil {
		return nil, err
	}
	switch frame.kind {
	case lrFrameArrayX:
		if tok.Kind() == KindBreak {
			return p.reduceXSeq(frame.kind)
		}
		return p.shiftValue(tok, valueFirstSet)
	case lrFrameMapX:
		if tok.Kind() == KindBreak {
			if frame.havingKey {
				return nil, &UnexpectedTokenError{Expected: valueFirstSet, Actual: tok}
			}
			return p.reduceXSeq(frame.kind)
		}
		return p.shiftValue(tok, valueFirstSet)
	case lrFrameBstrX:
		if tok.Kind() == KindBreak {
			return p.reduceXSeq(frame.kind)
		}
		if tok.Kind() != KindBstr && tok.Kind() != KindBstrX {
			return nil, &UnexpectedTokenError{Expected: bstrXSeqFirstSet, Actual: tok}
		}
		return p.shiftValue(tok, bstrXSeqFirstSet)
	case lrFrameTstrX:
		if tok.Kind() == KindBreak {
			return p.reduceXSeq(frame.kind)
		}
		if tok.Kind() != KindTstr && tok.Kind() != KindTstrX {
			return nil, &UnexpectedTokenError{Expected: tstrXSeqFirstSet, Actual: tok}
		}
		return p.shiftValue(tok, tstrXSeqFirstSet)
	case lrFrameRoot, lrFrameArray, lrFrameMap, lrFrameTag:
		if tok.Kind() == KindBreak {
			return nil, &UnexpectedTokenError{Expected: valueFirstSet, Actual: tok}
		}
		return p.shiftValue(tok, valueFirstSet)
	default:
		return nil, ErrInternal
	}
}

// shiftValue processes a token known to start (or wholly be) a Value:
// scalars and definite byte/text strings reduce immediately and are
// delivered into the enclosing frame; everything else shifts a new
// frame to accumulate the container or tagged value's contents.
func (p *LRParser) shiftValue(tok Token, allowed []Kind) (*Value, error) {
	switch tok.Kind() {
	case KindUint:
		n, _ := tok.Arg()
		return p.deliver(NewUint(n))
	case KindNint:
		n, _ := tok.Arg()
		return p.deliver(NewNint(n))
	case KindSimple:
		s, _ := tok.Simple()
		return p.deliver(NewSimple(s))
	case KindFloat:
		n, _ := tok.Arg()
		return p.deliver(NewFloat(n))
	case KindBstr:
		b, _ := tok.Bytes()
		return p.deliver(NewBstr(b))
	case KindBstrX:
		if err := p.push(lrFrame{kind: lrFrameBstrX}); err != nil {
			return nil, err
		}
		return nil, nil
	case KindTstr:
		b, _ := tok.Bytes()
		return p.deliver(NewTstr(b))
	case KindTstrX:
		if err := p.push(lrFrame{kind: lrFrameTstrX}); err != nil {
			return nil, err
		}
		return nil, nil
	case KindArray:
		n, _ := tok.Arg()
		if n == 0 {
			return p.deliver(NewArray(nil))
		}
		if n > uint64(p.upper) {
			return nil, ErrInsufficientStackSize
		}
		if err := p.push(lrFrame{kind: lrFrameArray, remaining: n}); err != nil {
			return nil, err
		}
		return nil, nil
	case KindArrayX:
		if err := p.push(lrFrame{kind: lrFrameArrayX}); err != nil {
			return nil, err
		}
		return nil, nil
	case KindMap:
		n, _ := tok.Arg()
		if n == 0 {
			return p.deliver(NewMap(nil))
		}
		if n > uint64(p.upper)/2 {
			return nil, ErrInsufficientStackSize
		}
		if err := p.push(lrFrame{kind: lrFrameMap, remaining: 2 * n}); err != nil {
			return nil, err
		}
		return nil, nil
	case KindMapX:
		if err := p.push(lrFrame{kind: lrFrameMapX}); err != nil {
			return nil, err
		}
		return nil, nil
	case KindTag:
		t, _ := tok.Arg()
		if err := p.push(lrFrame{kind: lrFrameTag, tag: t}); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, &UnexpectedTokenError{Expected: allowed, Actual: tok}
	}
}

// reduceXSeq closes the top frame on a Break token and delivers its
// accumulated value into the frame beneath it.
func (p *LRParser) reduceXSeq(kind lrFrameKind) (*Value, error) {
	frame, err := p.top()
	if err != nil {
		return nil, err
	}
	var v Value
	switch kind {
	case lrFrameArrayX:
		v = NewArray(frame.array)
	case lrFrameMapX:
		if frame.havingKey {
			return nil, ErrInternal
		}
		v = NewMap(frame.pairs)
	case lrFrameBstrX:
		v = NewBstr(frame.bytes)
	case lrFrameTstrX:
		v = NewTstr(frame.bytes)
	default:
		return nil, ErrInternal
	}
	p.frames = p.frames[:len(p.frames)-1]
	return p.deliver(v)
}

// deliver hands a completed Value to the frame now on top of the
// stack. Delivering into a Tag, completed Array, or completed Map frame
// itself produces a new completed Value, so delivery cascades until it
// reaches a frame that stays open (an X-seq frame awaiting Break, or an
// Array/Map frame still short of elements) or the root frame, which
// signals acceptance.
func (p *LRParser) deliver(v Value) (*Value, error) {
	for {
		frame, err := p.top()
		if err != nil {
			return nil, err
		}
		switch frame.kind {
		case lrFrameRoot:
			p.frames = p.frames[:len(p.frames)-1]
			p.accepted = true
			return &v, nil

		case lrFrameTag:
			tag := frame.tag
			p.frames = p.frames[:len(p.frames)-1]
			v = NewTag(tag, v)
			continue

		case lrFrameArray:
			frame.array = append(frame.array, v)
			frame.remaining--
			if frame.remaining == 0 {
				p.frames = p.frames[:len(p.frames)-1]
				v = NewArray(frame.array)
				continue
			}
			return nil, nil

		case lrFrameArrayX:
			frame.array = append(frame.array, v)
			return nil, nil

		case lrFrameMap:
			frame.remaining--
			if !frame.havingKey {
				frame.key = v
				frame.havingKey = true
				return nil, nil
			}
			frame.pairs = append(frame.pairs, Pair{Key: frame.key, Val: v})
			frame.havingKey = false
			if frame.remaining == 0 {
				p.frames = p.frames[:len(p.frames)-1]
				v = NewMap(frame.pairs)
				continue
			}
			return nil, nil

		case lrFrameMapX:
			if !frame.havingKey {
				frame.key = v
				frame.havingKey = true
				return nil, nil
			}
			frame.pairs = append(frame.pairs, Pair{Key: frame.key, Val: v})
			frame.havingKey = false
			return nil, nil

		case lrFrameBstrX:
			b, ok := v.AsBstr()
			if !ok {
				return nil, ErrInternal
			}
			frame.bytes = append(frame.bytes, b...)
			return nil, nil

		case lrFrameTstrX:
			b, ok := v.AsTstr()
			if !ok {
				return nil, ErrInternal
			}
			frame.bytes = append(frame.bytes, b...)
			return nil, nil

		default:
			return nil, ErrInternal
		}
	}
}
