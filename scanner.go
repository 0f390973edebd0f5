package cbor

import (
	"io"
	"math"
)

// scanPhase identifies what byte the Scanner is expecting next.
type scanPhase int

const (
	// scanHead expects the next byte to start a new item.
	scanHead scanPhase = iota
	// scanArg expects the next byte to be part of a big-endian argument.
	scanArg
	// scanPay expects the next byte to be part of a binary payload.
	scanPay
)

// Scanner is a byte-at-a-time CBOR lexical scanner. The zero value is
// ready to use.
//
// Scanner.Consume reads one byte at a time and, once enough bytes have
// accumulated to identify a complete Token, returns it. See
// (*Scanner).Consume for the exact contract.
type Scanner struct {
	phase   scanPhase
	kind    Kind
	arg     uint64
	pending int
	bytes   []byte
}

// NewScanner returns a Scanner ready to scan from the start of an item.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Reset returns the scanner to its initial state, discarding any
// partially decoded item. Use after an error to resynchronize at the
// next byte boundary.
func (s *Scanner) Reset() {
	*s = Scanner{}
}

// Consume consumes one byte and maybe produces a Token.
//
// It returns (tok, nil) if byte completed a token, (nil, nil) if the
// scanner needs more bytes to identify a token, or (nil, err) if byte
// was invalid in the scanner's current state. After an error the
// scanner's state is unspecified; call Reset before reusing it.
func (s *Scanner) Consume(b byte) (*Token, error) {
	switch s.phase {
	case scanHead:
		return s.consumeHead(b)
	case scanArg:
		return s.consumeArg(b)
	case scanPay:
		return s.consumePay(b)
	default:
		return nil, ErrInternal
	}
}

// ConsumeUntilComplete drains r one byte at a time until a Token
// completes or r is exhausted. It returns (nil, nil) if r reached EOF
// without completing a token.
func (s *Scanner) ConsumeUntilComplete(r io.ByteReader) (*Token, error) {
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		tok, err := s.Consume(b)
		if err != nil {
			return nil, err
		}
		if tok != nil {
			return tok, nil
		}
	}
}

func (s *Scanner) gatherArgument(kind Kind, n int) (*Token, error) {
	s.phase = scanArg
	s.kind = kind
	s.arg = 0
	s.pending = n
	return nil, nil
}

func (s *Scanner) gatherBytes(kind Kind, count uint64) (*Token, error) {
	if count > math.MaxInt32 {
		s.phase = scanHead
		return nil, &ExcessiveError{Count: count}
	}
	s.phase = scanPay
	s.kind = kind
	s.pending = int(count)
	s.bytes = make([]byte, 0, count)
	return nil, nil
}

func (s *Scanner) emit(kind Kind, arg uint64, payload []byte) (*Token, error) {
	s.phase = scanHead
	var tok Token
	switch kind {
	case KindUint:
		tok = UintToken(arg)
	case KindNint:
		tok = NintToken(arg)
	case KindBstrX:
		tok = BstrXToken()
	case KindBstr:
		tok = BstrToken(payload)
	case KindTstrX:
		tok = TstrXToken()
	case KindTstr:
		tok = TstrToken(payload)
	case KindArrayX:
		tok = ArrayXToken()
	case KindArray:
		tok = ArrayToken(arg)
	case KindMapX:
		tok = MapXToken()
	case KindMap:
		tok = MapToken(arg)
	case KindTag:
		tok = TagToken(arg)
	case KindSimple:
		tok = SimpleToken(byte(arg))
	case KindFloat:
		tok = FloatToken(arg)
	case KindBreak:
		tok = BreakToken()
	default:
		return nil, ErrInternal
	}
	return &tok, nil
}

// consumeHead decodes the initial byte into a major type and an
// additional-info value and dispatches on that pair rather than on raw
// hex ranges.
func (s *Scanner) consumeHead(b byte) (*Token, error) {
	mt, ai := decodeInitialByte(b)
	switch mt {
	case MajorTypeUnsignedInteger:
		return s.consumeIntHead(KindUint, b, ai)
	case MajorTypeNegativeInteger:
		return s.consumeIntHead(KindNint, b, ai)
	case MajorTypeByteString:
		return s.consumeStringHead(KindBstr, KindBstrX, b, ai)
	case MajorTypeTextString:
		return s.consumeStringHead(KindTstr, KindTstrX, b, ai)
	case MajorTypeArray:
		return s.consumeContainerHead(KindArray, KindArrayX, b, ai)
	case MajorTypeMap:
		return s.consumeContainerHead(KindMap, KindMapX, b, ai)
	case MajorTypeTag:
		return s.consumeTagHead(b, ai)
	case MajorTypeSimpleOrFloat:
		return s.consumeSimpleOrFloatHead(b, ai)
	default:
		return nil, &UnexpectedHeadError{Head: b}
	}
}

// consumeIntHead handles the Uint/Nint major types: additional info
// 0-23 is the value directly, 24/25/26/27 introduce an 8/16/32/64-bit
// big-endian argument, anything else is reserved.
func (s *Scanner) consumeIntHead(kind Kind, b, ai byte) (*Token, error) {
	switch {
	case ai <= 23:
		return s.emit(kind, uint64(ai), nil)
	case ai == byte(AdditionalInfo8Bit):
		return s.gatherArgument(kind, 1)
	case ai == byte(AdditionalInfo16Bit):
		return s.gatherArgument(kind, 2)
	case ai == byte(AdditionalInfo32Bit):
		return s.gatherArgument(kind, 4)
	case ai == byte(AdditionalInfo64Bit):
		return s.gatherArgument(kind, 8)
	default:
		return nil, &UnexpectedHeadError{Head: b}
	}
}

// consumeStringHead handles the Bstr/Tstr major types: additional info
// 0-23 is a direct payload length, 24-27 introduce a big-endian length
// argument, 31 opens an indefinite-length sequence of chunks, anything
// else is reserved.
func (s *Scanner) consumeStringHead(definite, indefinite Kind, b, ai byte) (*Token, error) {
	switch {
	case ai == 0:
		return s.emit(definite, 0, nil)
	case ai <= 23:
		return s.gatherBytes(definite, uint64(ai))
	case ai == byte(AdditionalInfo8Bit):
		return s.gatherArgument(definite, 1)
	case ai == byte(AdditionalInfo16Bit):
		return s.gatherArgument(definite, 2)
	case ai == byte(AdditionalInfo32Bit):
		return s.gatherArgument(definite, 4)
	case ai == byte(AdditionalInfo64Bit):
		return s.gatherArgument(definite, 8)
	case ai == byte(AdditionalInfoIndefiniteLength):
		return s.emit(indefinite, 0, nil)
	default:
		return nil, &UnexpectedHeadError{Head: b}
	}
}

// consumeContainerHead handles the Array/Map major types: additional
// info 0-23 is a direct item count, 24-27 introduce a big-endian count
// argument, 31 opens an indefinite-length sequence, anything else is
// reserved.
func (s *Scanner) consumeContainerHead(definite, indefinite Kind, b, ai byte) (*Token, error) {
	switch {
	case ai <= 23:
		return s.emit(definite, uint64(ai), nil)
	case ai == byte(AdditionalInfo8Bit):
		return s.gatherArgument(definite, 1)
	case ai == byte(AdditionalInfo16Bit):
		return s.gatherArgument(definite, 2)
	case ai == byte(AdditionalInfo32Bit):
		return s.gatherArgument(definite, 4)
	case ai == byte(AdditionalInfo64Bit):
		return s.gatherArgument(definite, 8)
	case ai == byte(AdditionalInfoIndefiniteLength):
		return s.emit(indefinite, 0, nil)
	default:
		return nil, &UnexpectedHeadError{Head: b}
	}
}

// consumeTagHead handles the Tag major type: additional info 0-23 is a
// direct tag number, 24-27 introduce a big-endian tag argument; Tag has
// no indefinite-length form, so 28-31 are all reserved.
func (s *Scanner) consumeTagHead(b, ai byte) (*Token, error) {
	switch {
	case ai <= 23:
		return s.emit(KindTag, uint64(ai), nil)
	case ai == byte(AdditionalInfo8Bit):
		return s.gatherArgument(KindTag, 1)
	case ai == byte(AdditionalInfo16Bit):
		return s.gatherArgument(KindTag, 2)
	case ai == byte(AdditionalInfo32Bit):
		return s.gatherArgument(KindTag, 4)
	case ai == byte(AdditionalInfo64Bit):
		return s.gatherArgument(KindTag, 8)
	default:
		return nil, &UnexpectedHeadError{Head: b}
	}
}

// consumeSimpleOrFloatHead handles major type 7: additional info 0-23
// is a direct Simple value (including the well-known SimpleValueFalse/
// True/Null/Undefined), 24 introduces a one-byte Simple argument, 25/26/27
// introduce a 16/32/64-bit Float argument, 31 is Break, 28-30 are
// reserved.
func (s *Scanner) consumeSimpleOrFloatHead(b, ai byte) (*Token, error) {
	switch {
	case ai <= 23:
		return s.emit(KindSimple, uint64(ai), nil)
	case ai == byte(AdditionalInfo8Bit):
		return s.gatherArgument(KindSimple, 1)
	case ai == byte(AdditionalInfo16Bit):
		return s.gatherArgument(KindFloat, 2)
	case ai == byte(AdditionalInfo32Bit):
		return s.gatherArgument(KindFloat, 4)
	case ai == byte(AdditionalInfo64Bit):
		return s.gatherArgument(KindFloat, 8)
	case ai == byte(AdditionalInfoIndefiniteLength):
		return s.emit(KindBreak, 0, nil)
	default:
		return nil, &UnexpectedHeadError{Head: b}
	}
}

func (s *Scanner) consumeArg(b byte) (*Token, error) {
	s.arg = s.arg<<8 | uint64(b)
	s.pending--
	if s.pending > 0 {
		return nil, nil
	}
	if s.arg == 0 {
		switch s.kind {
		case KindBstr:
			return s.emit(KindBstr, 0, nil)
		case KindTstr:
			return s.emit(KindTstr, 0, nil)
		case KindArray:
			return s.emit(KindArray, 0, nil)
		case KindMap:
			return s.emit(KindMap, 0, nil)
		default:
			return s.emit(s.kind, s.arg, nil)
		}
	}
	switch s.kind {
	case KindBstr, KindTstr:
		return s.gatherBytes(s.kind, s.arg)
	default:
		return s.emit(s.kind, s.arg, nil)
	}
}

func (s *Scanner) consumePay(b byte) (*Token, error) {
	s.bytes = append(s.bytes, b)
	s.pending--
	if s.pending > 0 {
		return nil, nil
	}
	switch s.kind {
	case KindBstr, KindTstr:
		return s.emit(s.kind, uint64(len(s.bytes)), s.bytes)
	default:
		return nil, ErrInternal
	}
}
