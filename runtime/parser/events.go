package parser

import "kodelang.dev/cellc/runtime/lexer"

type EventKind int

const (
	EventOpen EventKind = iota
	EventClose
	EventToken
)

// Event is one step of the flat builder stream that ParseTree replays into
// a nested tree. Kept flat (rather than built as a tree directly) so
// start_at can retroactively insert a parent around already-emitted events
// without restructuring anything but this slice.
type Event struct {
	Kind     EventKind
	Node     NodeKind // valid when Kind == EventOpen
	TokenIdx int      // valid when Kind == EventToken: index into ParseTree.Tokens
}

// Checkpoint marks a position in the event stream that can later be
// retroactively wrapped in a parent node via Parser.StartAt. Grounded on
// original_source/rue-parser/src/grammar.rs's p.checkpoint()/p.start_at().
type Checkpoint int

// Marker is returned by Start; nothing further needs to be done with it
// besides the matching Finish, but it documents the open/close pairing at
// call sites the way rue's grammar.rs does.
type Marker int

// Parser drives token consumption and builds the flat Event stream. The
// grammar functions in grammar.go are the only callers of its methods.
type Parser struct {
	src    []byte
	tokens []lexer.Token // full stream, trivia included
	sig    []int         // indices into tokens of non-trivia tokens, terminated by EOF's index

	pos         int // index into sig
	lastEmitted int // last index into tokens attached as an event (-1 initially)

	events []Event
	errors []ParseError

	// extraRecovery is appended to every call-site recovery set (in
	// addition to exprRecoverySet/typeRecoverySet), letting config.Options
	// widen recovery without grammar.go itself changing per deployment.
	extraRecovery []lexer.Kind
}

func newParser(src []byte, tokens []lexer.Token, extraRecovery []lexer.Kind) *Parser {
	sig := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		if !tok.Kind.IsTrivia() {
			sig = append(sig, i)
		}
	}
	return &Parser{src: src, tokens: tokens, sig: sig, lastEmitted: -1, extraRecovery: extraRecovery}
}

func (p *Parser) current() lexer.Kind { return p.tokens[p.sig[p.pos]].Kind }

func (p *Parser) currentRange() lexer.Range { return p.tokens[p.sig[p.pos]].Range }

func (p *Parser) atEnd() bool { return p.current() == lexer.EOF }

func (p *Parser) at(kind lexer.Kind) bool { return p.current() == kind }

func (p *Parser) atAny(kinds ...lexer.Kind) bool {
	for _, k := range kinds {
		if p.at(k) {
			return true
		}
	}
	return false
}

// Start opens a new node of kind and returns a marker for documentation
// symmetry with Finish; the actual close position is determined by call
// order, not by the marker value.
func (p *Parser) start(kind NodeKind) Marker {
	m := Marker(len(p.events))
	p.events = append(p.events, Event{Kind: EventOpen, Node: kind})
	return m
}

// Finish closes the most recently opened (and not yet closed) node.
func (p *Parser) finish() {
	p.events = append(p.events, Event{Kind: EventClose})
}

// Checkpoint records the current event-stream position for a later StartAt.
func (p *Parser) checkpoint() Checkpoint { return Checkpoint(len(p.events)) }

// StartAt retroactively inserts an Open event for kind at cp, so everything
// emitted since cp becomes kind's first children. The matching Finish is
// still appended normally at the current end once the rest of kind's
// content (if any) has been parsed.
func (p *Parser) startAt(cp Checkpoint, kind NodeKind) {
	i := int(cp)
	p.events = append(p.events, Event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = Event{Kind: EventOpen, Node: kind}
}

// bump attaches any skipped trivia since the last emitted token, then
// consumes and attaches the current significant token.
func (p *Parser) bump() {
	sigIdx := p.sig[p.pos]
	p.attachTriviaUpTo(sigIdx)
	p.events = append(p.events, Event{Kind: EventToken, TokenIdx: sigIdx})
	p.lastEmitted = sigIdx
	p.pos++
}

func (p *Parser) attachTriviaUpTo(idx int) {
	for t := p.lastEmitted + 1; t < idx; t++ {
		p.events = append(p.events, Event{Kind: EventToken, TokenIdx: t})
	}
	if idx > p.lastEmitted {
		p.lastEmitted = idx - 1
	}
}

// tryEat consumes the current token and returns true iff it matches kind.
func (p *Parser) tryEat(kind lexer.Kind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	return false
}

// expect consumes the current token if it matches kind; otherwise records a
// ParseError without consuming, leaving recovery to the caller.
func (p *Parser) expect(kind lexer.Kind) {
	if p.at(kind) {
		p.bump()
		return
	}
	p.errors = append(p.errors, ParseError{
		Range:    p.currentRange(),
		Message:  "unexpected token",
		Expected: []lexer.Kind{kind},
		Got:      p.current(),
	})
}

// errorRecover records a ParseError at the current token, then (unless
// already at a recovery token or end of input) wraps every token up to the
// next recovery token in an Error node so the CST stays complete.
func (p *Parser) errorRecover(recoverySet []lexer.Kind) {
	p.errors = append(p.errors, ParseError{
		Range:   p.currentRange(),
		Message: "unexpected token, no matching production",
		Got:     p.current(),
	})
	if p.atEnd() || p.atAny(recoverySet...) || p.atAny(p.extraRecovery...) {
		return
	}
	p.start(Error)
	for !p.atEnd() && !p.atAny(recoverySet...) && !p.atAny(p.extraRecovery...) {
		p.bump()
	}
	p.finish()
}

// finalize attaches any trailing trivia (and EOF) after the last emitted
// token.
func (p *Parser) finalize() {
	p.attachTriviaUpTo(len(p.tokens) - 1)
	p.events = append(p.events, Event{Kind: EventToken, TokenIdx: len(p.tokens) - 1})
}
