package parser

import "kodelang.dev/cellc/runtime/lexer"

// Option configures a single Parse call. The only current option widens
// error recovery beyond exprRecoverySet/typeRecoverySet, for callers (the
// config package) that want recovery to also stop at project-specific
// tokens without grammar.go itself changing per deployment.
type Option func(*parseConfig)

type parseConfig struct {
	extraRecovery []lexer.Kind
}

// WithExtraRecovery widens every recovery set used during this Parse call
// to also stop at kinds.
func WithExtraRecovery(kinds ...lexer.Kind) Option {
	return func(c *parseConfig) { c.extraRecovery = append(c.extraRecovery, kinds...) }
}

// Parse lexes and parses source in full, returning a lossless ParseTree.
// Parsing never aborts (spec.md §4.2): on a failed match it records a
// ParseError and recovers to the nearest recovery-set token, so downstream
// consumers always get a complete tree even for malformed input.
func Parse(source []byte, opts ...Option) *ParseTree {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	p := newParser(source, lexer.Lex(source), cfg.extraRecovery)
	root(p)
	p.finalize()
	return &ParseTree{Source: source, Tokens: p.tokens, Events: p.events, Errors: p.errors}
}

func root(p *Parser) {
	p.start(Root)
	for !p.atEnd() {
		item(p)
	}
	p.finish()
}

func item(p *Parser) {
	switch {
	case p.at(lexer.Fun):
		functionItem(p)
	case p.at(lexer.Const):
		constItem(p)
	default:
		before := p.pos
		p.errorRecover(nil)
		if p.pos == before && !p.atEnd() {
			// Recovery stopped on its first token; wrap it so root advances.
			p.start(Error)
			p.bump()
			p.finish()
		}
	}
}

func functionItem(p *Parser) {
	p.start(FunctionItem)
	p.expect(lexer.Fun)
	p.expect(lexer.Ident)
	functionParams(p)
	p.expect(lexer.Arrow)
	ty(p)
	block(p)
	p.finish()
}

func functionParams(p *Parser) {
	p.start(FunctionParamList)
	p.expect(lexer.LParen)
	for !p.at(lexer.RParen) && !p.atEnd() {
		functionParam(p)
		if !p.tryEat(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen)
	p.finish()
}

func functionParam(p *Parser) {
	p.start(FunctionParam)
	p.expect(lexer.Ident)
	p.expect(lexer.Colon)
	ty(p)
	p.finish()
}

func constItem(p *Parser) {
	p.start(ConstItem)
	p.expect(lexer.Const)
	p.expect(lexer.Ident)
	p.expect(lexer.Colon)
	ty(p)
	p.expect(lexer.Assign)
	expr(p)
	p.expect(lexer.Semicolon)
	p.finish()
}

func block(p *Parser) {
	p.start(Block)
	p.expect(lexer.LBrace)
	for p.at(lexer.Let) {
		letStmt(p)
	}
	expr(p)
	p.expect(lexer.RBrace)
	p.finish()
}

func letStmt(p *Parser) {
	p.start(LetStmt)
	p.expect(lexer.Let)
	p.expect(lexer.Ident)
	if p.tryEat(lexer.Colon) {
		ty(p)
	}
	p.expect(lexer.Assign)
	expr(p)
	p.expect(lexer.Semicolon)
	p.finish()
}

// bindingPower gives the (left, right) binding power of a binary operator
// token, matching spec.md §4.2's precedence table exactly:
// comparisons (1,2), add/sub (3,4), mul/div/mod (5,6).
func bindingPower(kind lexer.Kind) (left, right int, ok bool) {
	switch kind {
	case lexer.Lt, lexer.Gt, lexer.LtEq, lexer.GtEq, lexer.EqEq, lexer.NotEq:
		return 1, 2, true
	case lexer.Plus, lexer.Minus:
		return 3, 4, true
	case lexer.Star, lexer.Slash, lexer.Percent:
		return 5, 6, true
	default:
		return 0, 0, false
	}
}

var exprRecoverySet = []lexer.Kind{lexer.LBrace, lexer.RBrace}

func expr(p *Parser) { exprBindingPower(p, 0) }

func exprBindingPower(p *Parser, minBP int) {
	if p.at(lexer.Not) {
		p.start(PrefixExpr)
		p.bump()
		exprBindingPower(p, 255)
		p.finish()
		return
	}

	cp := p.checkpoint()

	switch {
	case p.atAny(lexer.Int, lexer.String, lexer.Ident, lexer.True, lexer.False, lexer.Nil):
		if tok := p.tokens[p.sig[p.pos]]; tok.Kind == lexer.String && tok.HasFlag(lexer.FlagUnterminated) {
			p.errors = append(p.errors, ParseError{Range: tok.Range, Message: "unterminated string", Got: tok.Kind})
		}
		p.start(LiteralExpr)
		p.bump()
		p.finish()
	case p.at(lexer.LBracket):
		listExpr(p)
	case p.at(lexer.If):
		ifExpr(p)
	case p.at(lexer.LParen):
		p.start(ParenExpr)
		p.bump()
		expr(p)
		p.expect(lexer.RParen)
		p.finish()
	default:
		p.errorRecover(exprRecoverySet)
		return
	}

	// Postfix calls and indexing bind tighter than any binary operator and
	// chain left-to-right: f(x)[0](y) parses as ((f(x))[0])(y).
	for p.atAny(lexer.LParen, lexer.LBracket) {
		if p.at(lexer.LParen) {
			p.startAt(cp, FunctionCall)
			p.start(FunctionCallArgs)
			p.bump()
			for !p.at(lexer.RParen) && !p.atEnd() {
				expr(p)
				if !p.tryEat(lexer.Comma) {
					break
				}
			}
			p.expect(lexer.RParen)
			p.finish()
			p.finish()
		} else {
			p.startAt(cp, IndexExpr)
			p.bump()
			expr(p)
			p.expect(lexer.RBracket)
			p.finish()
		}
	}

	for {
		left, right, ok := bindingPower(p.current())
		if !ok || left < minBP {
			return
		}
		p.bump()
		p.startAt(cp, BinaryExpr)
		exprBindingPower(p, right)
		p.finish()
	}
}

func listExpr(p *Parser) {
	p.start(ListExpr)
	p.expect(lexer.LBracket)
	for !p.at(lexer.RBracket) && !p.atEnd() {
		expr(p)
		if !p.tryEat(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBracket)
	p.finish()
}

func ifExpr(p *Parser) {
	p.start(IfExpr)
	p.expect(lexer.If)
	expr(p)
	block(p)
	p.expect(lexer.Else)
	block(p)
	p.finish()
}

var typeRecoverySet = []lexer.Kind{lexer.LBrace, lexer.RBrace}

func ty(p *Parser) {
	cp := p.checkpoint()

	switch {
	case p.at(lexer.Ident):
		p.start(LiteralType)
		p.bump()
		p.finish()
	case p.at(lexer.Fun):
		p.start(FunctionType)
		p.bump()
		functionTypeParams(p)
		p.expect(lexer.Arrow)
		ty(p)
		p.finish()
	default:
		p.errorRecover(typeRecoverySet)
		return
	}

	if p.at(lexer.LBracket) {
		p.startAt(cp, ListType)
		p.bump()
		p.expect(lexer.RBracket)
		p.finish()
	}
}

func functionTypeParams(p *Parser) {
	p.start(FunctionTypeParams)
	p.expect(lexer.LParen)
	for !p.at(lexer.RParen) && !p.atEnd() {
		ty(p)
		if !p.tryEat(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen)
	p.finish()
}
