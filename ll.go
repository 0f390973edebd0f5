package cbor

// defaultStackBound is the default upper bound on the LL parser's
// context and value stacks and on the LR parser's frame stack.
const defaultStackBound = 16384

// llAction is a deferred semantic action: a named function over the
// value stack, applied once the non-terminal it was queued for has
// finished producing its sub-values. The name is carried only for the
// visitor's OnAction hook.
type llAction struct {
	name string
	run  func(*llValueStack) error
}

// llContextEntryKind distinguishes the three shapes an LL parsing
// context can take.
type llContextEntryKind int

const (
	llCtxAction llContextEntryKind = iota
	llCtxTerminal
	llCtxNonTerminal
)

// llContext is one entry of the LL parser's context stack: either an
// expectation (a terminal Kind or a NonTerm to expand) or a deferred
// action to run once its dependents have been parsed.
type llContext struct {
	entryKind llContextEntryKind
	term      Kind
	nonTerm   NonTerm
	action    llAction
}

func llContextTerminal(k Kind) llContext {
	return llContext{entryKind: llCtxTerminal, term: k}
}

func llContextNonTerminal(nt NonTerm) llContext {
	return llContext{entryKind: llCtxNonTerminal, nonTerm: nt}
}

func llContextAction(a llAction) llContext {
	return llContext{entryKind: llCtxAction, action: a}
}

// llContextStack is the LL parser's context stack, bounded to prevent
// unbounded recursion on adversarial input.
type llContextStack struct {
	entries []llContext
	upper   int
}

func newLLContextStack(upper int) *llContextStack {
	return &llContextStack{upper: upper}
}

// Len returns the number of entries on the stack.
func (s *llContextStack) Len() int { return len(s.entries) }

func (s *llContextStack) pop() (llContext, bool) {
	n := len(s.entries)
	if n == 0 {
		return llContext{}, false
	}
	e := s.entries[n-1]
	s.entries = s.entries[:n-1]
	return e, true
}

func (s *llContextStack) pushEntry(e llContext) error {
	if len(s.entries) >= s.upper {
		return ErrInsufficientStackSize
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *llContextStack) pushKind(k Kind) error {
	return s.pushEntry(llContextTerminal(k))
}

func (s *llContextStack) pushNonTerm(nt NonTerm) error {
	return s.pushEntry(llContextNonTerminal(nt))
}

func (s *llContextStack) pushMultipleNonTerm(nt NonTerm, count int) error {
	if count < 0 || count > s.upper || len(s.entries) >= s.upper-count {
		return ErrInsufficientStackSize
	}
	for i := 0; i < count; i++ {
		s.entries = append(s.entries, llContextNonTerminal(nt))
	}
	return nil
}

func (s *llContextStack) pushAction(name string, run func(*llValueStack) error) error {
	return s.pushEntry(llContextAction(llAction{name: name, run: run}))
}

// llValueStack is the LL parser's value stack: partially built Values
// awaiting collection by a deferred action, bounded identically to the
// context stack.
type llValueStack struct {
	entries []Value
	upper   int
}

func newLLValueStack(upper int) *llValueStack {
	return &llValueStack{upper: upper}
}

// Len returns the number of values on the stack.
func (s *llValueStack) Len() int { return len(s.entries) }

func (s *llValueStack) pop() (Value, bool) {
	n := len(s.entries)
	if n == 0 {
		return Value{}, false
	}
	v := s.entries[n-1]
	s.entries = s.entries[:n-1]
	return v, true
}

func (s *llValueStack) push(v Value) error {
	if len(s.entries) >= s.upper {
		return ErrInsufficientStackSize
	}
	s.entries = append(s.entries, v)
	return nil
}

func (s *llValueStack) doArrayCollect(n uint64) error {
	if n == 0 {
		return s.push(NewArray(nil))
	}
	values := make([]Value, n)
	for i := uint64(0); i < n; i++ {
		v, ok := s.pop()
		if !ok {
			return ErrInternal
		}
		values[n-1-i] = v
	}
	return s.push(NewArray(values))
}

func (s *llValueStack) doArrayPush() error {
	value, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	arrayVal, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	values, ok := arrayVal.AsArray()
	if !ok {
		return ErrInternal
	}
	return s.push(NewArray(append(values, value)))
}

func (s *llValueStack) doBstrAppend() error {
	child, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	childBytes, ok := child.AsBstr()
	if !ok {
		return ErrInternal
	}
	parent, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	parentBytes, ok := parent.AsBstr()
	if !ok {
		return ErrInternal
	}
	return s.push(NewBstr(append(parentBytes, childBytes...)))
}

func (s *llValueStack) doMapCollect(n uint64) error {
	if n == 0 {
		return s.push(NewMap(nil))
	}
	pairs := make([]Pair, n)
	for i := uint64(0); i < n; i++ {
		value, ok := s.pop()
		if !ok {
			return ErrInternal
		}
		label, ok := s.pop()
		if !ok {
			return ErrInternal
		}
		pairs[n-1-i] = Pair{Key: label, Val: value}
	}
	return s.push(NewMap(pairs))
}

func (s *llValueStack) doMapPush() error {
	value, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	label, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	mapVal, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	pairs, ok := mapVal.AsMap()
	if !ok {
		return ErrInternal
	}
	return s.push(NewMap(append(pairs, Pair{Key: label, Val: value})))
}

func (s *llValueStack) doTagSet(tag uint64) error {
	value, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	return s.push(NewTag(tag, value))
}

func (s *llValueStack) doTstrAppend() error {
	child, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	childBytes, ok := child.AsTstr()
	if !ok {
		return ErrInternal
	}
	parent, ok := s.pop()
	if !ok {
		return ErrInternal
	}
	parentBytes, ok := parent.AsTstr()
	if !ok {
		return ErrInternal
	}
	return s.push(NewTstr(append(parentBytes, childBytes...)))
}

// LLVisitor is notified as the LL parser transitions from one state to
// another. It is strictly observational: none of its methods can
// influence the parse. The zero value of any implementation that
// embeds nothing is not required — implement only the methods you need
// and leave the rest to the embedded default via LLVisitorBase.
type LLVisitor interface {
	OnInit(cxt *llContextStack, val *llValueStack)
	OnInput(cxt *llContextStack, val *llValueStack, tok Token)
	OnFlush(cxt *llContextStack, val *llValueStack)
	OnAction(cxt *llContextStack, val *llValueStack, name string)
}

// LLVisitorBase implements LLVisitor with no-op methods; embed it to
// override only the hooks you care about.
type LLVisitorBase struct{}

func (LLVisitorBase) OnInit(*llContextStack, *llValueStack)         {}
func (LLVisitorBase) OnInput(*llContextStack, *llValueStack, Token) {}
func (LLVisitorBase) OnFlush(*llContextStack, *llValueStack)        {}
func (LLVisitorBase) OnAction(*llContextStack, *llValueStack, string) {
}

// LLParser is a top-down predictive parser for CBOR built on the
// non-terminal dispatch rules of the shared grammar.
type LLParser struct {
	cxt         *llContextStack
	val         *llValueStack
	visitor     LLVisitor
	initialized bool
}

// NewLLParser returns an uninitialized LL parser. Consume returns
// ErrInvalid until Init is called; CborLL builds and initializes a
// parser in one step for the common case.
func NewLLParser() *LLParser {
	return &LLParser{
		cxt: newLLContextStack(defaultStackBound),
		val: newLLValueStack(defaultStackBound),
	}
}

// CborLL returns an LL parser ready to decode one top-level value.
func CborLL() *LLParser {
	p := NewLLParser()
	_, _ = p.Init()
	return p
}

// SetVisitor attaches a visitor to the parser.
func (p *LLParser) SetVisitor(v LLVisitor) { p.visitor = v }

// Init seeds the parser's context stack with a single "expect Value"
// entry and notifies the visitor. Consume returns ErrInvalid before
// Init has been called.
//
// Init resets the content of both stacks but preserves whatever bound
// they were already configured with (NewLLParser's default, or a
// caller-substituted stack with a different bound) — it must not
// re-stamp defaultStackBound over a deliberately narrowed stack.
func (p *LLParser) Init() (*Value, error) {
	cxtBound := defaultStackBound
	if p.cxt != nil {
		cxtBound = p.cxt.upper
	}
	valBound := defaultStackBound
	if p.val != nil {
		valBound = p.val.upper
	}
	p.cxt = newLLContextStack(cxtBound)
	p.val = newLLValueStack(valBound)
	if err := p.cxt.pushNonTerm(NonTermValue); err != nil {
		return nil, err
	}
	p.initialized = true
	if p.visitor != nil {
		p.visitor.OnInit(p.cxt, p.val)
	}
	return nil, nil
}

// Consume feeds one token into the parser. It returns (nil, nil)
// mid-parse, (v, nil) once the top-level value is complete, or an
// error.
func (p *LLParser) Consume(tok Token) (*Value, error) {
	if !p.initialized {
		return nil, ErrInvalid
	}
	if p.visitor != nil {
		p.visitor.OnInput(p.cxt, p.val, tok)
	}
	if err := p.doConsume(tok); err != nil {
		return nil, err
	}
	if p.cxt.Len() > 0 {
		return nil, nil
	}
	if p.val.Len() != 1 {
		return nil, ErrInternal
	}
	v, ok := p.val.pop()
	if !ok {
		return nil, ErrInternal
	}
	return &v, nil
}

func (p *LLParser) doFlush() error {
	if p.visitor != nil {
		p.visitor.OnFlush(p.cxt, p.val)
	}
	ctx, ok := p.cxt.pop()
	if !ok {
		return nil
	}
	return p.doFlush_(ctx)
}

func (p *LLParser) doFlush_(ctx llContext) error {
	switch ctx.entryKind {
	case llCtxAction:
		if p.visitor != nil {
			p.visitor.OnAction(p.cxt, p.val, ctx.action.name)
		}
		if err := ctx.action.run(p.val); err != nil {
			return err
		}
		return p.doFlush()
	case llCtxTerminal:
		return p.cxt.pushKind(ctx.term)
	case llCtxNonTerminal:
		return p.cxt.pushNonTerm(ctx.nonTerm)
	default:
		return ErrInternal
	}
}

func (p *LLParser) doConsume(tok Token) error {
	ctx, ok := p.cxt.pop()
	if !ok {
		return ErrTrailingInput
	}
	return p.doConsume_(ctx, tok)
}

func (p *LLParser) doConsume_(ctx llContext, tok Token) error {
	switch ctx.entryKind {
	case llCtxAction:
		if p.visitor != nil {
			p.visitor.OnAction(p.cxt, p.val, ctx.action.name)
		}
		if err := ctx.action.run(p.val); err != nil {
			return err
		}
		return p.doConsume(tok)

	case llCtxTerminal:
		if ctx.term == tok.Kind() {
			if value, err := ValueFromToken(tok); err == nil {
				if pushErr := p.val.push(value); pushErr != nil {
					return pushErr
				}
			}
			return p.doFlush()
		}
		if err := p.cxt.pushKind(ctx.term); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: []Kind{ctx.term}, Actual: tok}

	case llCtxNonTerminal:
		return p.doConsumeNonTerm(ctx.nonTerm, tok)

	default:
		return ErrInternal
	}
}

func (p *LLParser) doConsumeNonTerm(nt NonTerm, tok Token) error {
	switch nt {
	case NonTermValue:
		return p.doConsumeValue(tok)
	case NonTermArray:
		return p.doConsumeArray(tok)
	case NonTermArrayXSeq:
		return p.doConsumeArrayXSeq(tok)
	case NonTermBstr:
		return p.doConsumeBstr(tok)
	case NonTermBstrXSeq:
		return p.doConsumeBstrXSeq(tok)
	case NonTermMap:
		return p.doConsumeMap(tok)
	case NonTermMapXSeq:
		return p.doConsumeMapXSeq(tok)
	case NonTermTag:
		return p.doConsumeTag(tok)
	case NonTermTstr:
		return p.doConsumeTstr(tok)
	case NonTermTstrXSeq:
		return p.doConsumeTstrXSeq(tok)
	default:
		return ErrInternal
	}
}

// doConsumeValue implements <VALUE> = %uint / %nint / %simple / %float
// / <BSTR> / <TSTR> / <ARRAY> / <MAP> / <TAG>.
func (p *LLParser) doConsumeValue(tok Token) error {
	switch tok.Kind() {
	case KindBreak:
		if err := p.cxt.pushNonTerm(NonTermValue); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: valueFirstSet, Actual: tok}
	case KindUint, KindNint, KindSimple, KindFloat:
		if err := p.cxt.pushKind(tok.Kind()); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindBstr, KindBstrX:
		if err := p.cxt.pushNonTerm(NonTermBstr); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindTstr, KindTstrX:
		if err := p.cxt.pushNonTerm(NonTermTstr); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindArray, KindArrayX:
		if err := p.cxt.pushNonTerm(NonTermArray); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindMap, KindMapX:
		if err := p.cxt.pushNonTerm(NonTermMap); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindTag:
		if err := p.cxt.pushNonTerm(NonTermTag); err != nil {
			return err
		}
		return p.doConsume(tok)
	default:
		return ErrInternal
	}
}

// doConsumeArray implements <ARRAY> = %array(n) {n}<VALUE> / %arrayx <ARRAYXSEQ>.
func (p *LLParser) doConsumeArray(tok Token) error {
	switch tok.Kind() {
	case KindArray:
		n, _ := tok.Arg()
		if err := p.cxt.pushAction("collect_array", func(v *llValueStack) error {
			return v.doArrayCollect(n)
		}); err != nil {
			return err
		}
		if err := p.cxt.pushMultipleNonTerm(NonTermValue, int(n)); err != nil {
			return err
		}
		if err := p.cxt.pushKind(KindArray); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindArrayX:
		if err := p.cxt.pushNonTerm(NonTermArrayXSeq); err != nil {
			return err
		}
		if err := p.cxt.pushKind(KindArrayX); err != nil {
			return err
		}
		return p.doConsume(tok)
	default:
		if err := p.cxt.pushNonTerm(NonTermArray); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: arrayFirstSet, Actual: tok}
	}
}

// doConsumeArrayXSeq implements <ARRAYXSEQ> = %break / <VALUE> <ARRAYXSEQ>.
func (p *LLParser) doConsumeArrayXSeq(tok Token) error {
	if tok.Kind() == KindBreak {
		if err := p.cxt.pushKind(KindBreak); err != nil {
			return err
		}
		return p.doConsume(tok)
	}
	if err := p.cxt.pushNonTerm(NonTermArrayXSeq); err != nil {
		return err
	}
	if err := p.cxt.pushAction("array_push", func(v *llValueStack) error {
		return v.doArrayPush()
	}); err != nil {
		return err
	}
	if err := p.cxt.pushNonTerm(NonTermValue); err != nil {
		return err
	}
	return p.doConsume(tok)
}

// doConsumeBstr implements <BSTR> = %bstr(bytes) / %bstrx <BSTRXSEQ>.
func (p *LLParser) doConsumeBstr(tok Token) error {
	switch tok.Kind() {
	case KindBstr:
		if err := p.cxt.pushKind(KindBstr); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindBstrX:
		if err := p.cxt.pushNonTerm(NonTermBstrXSeq); err != nil {
			return err
		}
		if err := p.cxt.pushKind(KindBstrX); err != nil {
			return err
		}
		return p.doConsume(tok)
	default:
		if err := p.cxt.pushNonTerm(NonTermBstr); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: bstrFirstSet, Actual: tok}
	}
}

// doConsumeBstrXSeq implements <BSTRXSEQ> = %break / <BSTR> <BSTRXSEQ>.
func (p *LLParser) doConsumeBstrXSeq(tok Token) error {
	switch tok.Kind() {
	case KindBreak:
		if err := p.cxt.pushKind(KindBreak); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindBstr, KindBstrX:
		if err := p.cxt.pushNonTerm(NonTermBstrXSeq); err != nil {
			return err
		}
		if err := p.cxt.pushAction("bstr_append", func(v *llValueStack) error {
			return v.doBstrAppend()
		}); err != nil {
			return err
		}
		if err := p.cxt.pushNonTerm(NonTermBstr); err != nil {
			return err
		}
		return p.doConsume(tok)
	default:
		if err := p.cxt.pushNonTerm(NonTermBstrXSeq); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: bstrXSeqFirstSet, Actual: tok}
	}
}

// doConsumeMap implements <MAP> = %map(n) {2n}<VALUE> / %mapx <MAPXSEQ>.
func (p *LLParser) doConsumeMap(tok Token) error {
	switch tok.Kind() {
	case KindMap:
		n, _ := tok.Arg()
		if n > uint64(p.cxt.upper)/2 {
			return ErrInsufficientStackSize
		}
		if err := p.cxt.pushAction("map_collect", func(v *llValueStack) error {
			return v.doMapCollect(n)
		}); err != nil {
			return err
		}
		if err := p.cxt.pushMultipleNonTerm(NonTermValue, int(2*n)); err != nil {
			return err
		}
		if err := p.cxt.pushKind(KindMap); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindMapX:
		if err := p.cxt.pushNonTerm(NonTermMapXSeq); err != nil {
			return err
		}
		if err := p.cxt.pushKind(KindMapX); err != nil {
			return err
		}
		return p.doConsume(tok)
	default:
		if err := p.cxt.pushNonTerm(NonTermMap); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: mapFirstSet, Actual: tok}
	}
}

// doConsumeMapXSeq implements <MAPXSEQ> = %break / <VALUE> <VALUE> <MAPXSEQ>.
func (p *LLParser) doConsumeMapXSeq(tok Token) error {
	if tok.Kind() == KindBreak {
		if err := p.cxt.pushKind(KindBreak); err != nil {
			return err
		}
		return p.doConsume(tok)
	}
	if err := p.cxt.pushNonTerm(NonTermMapXSeq); err != nil {
		return err
	}
	if err := p.cxt.pushAction("map_push", func(v *llValueStack) error {
		return v.doMapPush()
	}); err != nil {
		return err
	}
	if err := p.cxt.pushNonTerm(NonTermValue); err != nil { // item
		return err
	}
	if err := p.cxt.pushNonTerm(NonTermValue); err != nil { // label
		return err
	}
	return p.doConsume(tok)
}

// doConsumeTag implements <TAG> = %tag(t) <VALUE>.
func (p *LLParser) doConsumeTag(tok Token) error {
	if tok.Kind() != KindTag {
		if err := p.cxt.pushNonTerm(NonTermTag); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: tagFirstSet, Actual: tok}
	}
	tag, _ := tok.Arg()
	if err := p.cxt.pushAction("tag_set", func(v *llValueStack) error {
		return v.doTagSet(tag)
	}); err != nil {
		return err
	}
	if err := p.cxt.pushNonTerm(NonTermValue); err != nil {
		return err
	}
	if err := p.cxt.pushKind(KindTag); err != nil {
		return err
	}
	return p.doConsume(tok)
}

// doConsumeTstr implements <TSTR> = %tstr(bytes) / %tstrx <TSTRXSEQ>.
func (p *LLParser) doConsumeTstr(tok Token) error {
	switch tok.Kind() {
	case KindTstr:
		if err := p.cxt.pushKind(KindTstr); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindTstrX:
		if err := p.cxt.pushNonTerm(NonTermTstrXSeq); err != nil {
			return err
		}
		if err := p.cxt.pushKind(KindTstrX); err != nil {
			return err
		}
		return p.doConsume(tok)
	default:
		if err := p.cxt.pushNonTerm(NonTermTstr); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: tstrFirstSet, Actual: tok}
	}
}

// doConsumeTstrXSeq implements <TSTRXSEQ> = %break / <TSTR> <TSTRXSEQ>.
func (p *LLParser) doConsumeTstrXSeq(tok Token) error {
	switch tok.Kind() {
	case KindBreak:
		if err := p.cxt.pushKind(KindBreak); err != nil {
			return err
		}
		return p.doConsume(tok)
	case KindTstr, KindTstrX:
		if err := p.cxt.pushNonTerm(NonTermTstrXSeq); err != nil {
			return err
		}
		if err := p.cxt.pushAction("tstr_append", func(v *llValueStack) error {
			return v.doTstrAppend()
		}); err != nil {
			return err
		}
		if err := p.cxt.pushNonTerm(NonTermTstr); err != nil {
			return err
		}
		return p.doConsume(tok)
	default:
		if err := p.cxt.pushNonTerm(NonTermTstrXSeq); err != nil {
			return err
		}
		return &UnexpectedTokenError{Expected: tstrXSeqFirstSet, Actual: tok}
	}
}
