package cbor

import "io"

// Parser is the contract both LLParser and LRParser satisfy: feed one
// Token at a time, get back a completed Value once the top-level item
// is recognised.
type Parser interface {
	Consume(tok Token) (*Value, error)
}

// Decode drains r one byte at a time through a fresh Scanner, feeding
// each produced Token to p, until p completes a Value or r is
// exhausted before that happens. A Scanner failure is wrapped as a
// *ScanError so callers can tell a malformed byte sequence from a
// parser-level grammar violation; a Parser failure is returned as-is.
//
// This is the one place in this package where a scanner and a parser
// are composed into a single call.
func Decode(r io.ByteReader, p Parser) (*Value, error) {
	s := NewScanner()
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, ErrIncomplete
			}
			return nil, err
		}
		tok, err := s.Consume(b)
		if err != nil {
			return nil, NewScanError(err, "decoding byte stream")
		}
		if tok == nil {
			continue
		}
		v, err := p.Consume(*tok)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
}

// DecodeLL decodes one top-level CBOR value from r using the LL parser.
func DecodeLL(r io.ByteReader) (*Value, error) {
	return Decode(r, CborLL())
}

// DecodeLR decodes one top-level CBOR value from r using the LR parser.
func DecodeLR(r io.ByteReader) (*Value, error) {
	return Decode(r, CborLR())
}
