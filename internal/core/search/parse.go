package search

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError is returned for queries the grammar rejects
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

func syntaxf(pos int, format string, a ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, a...)}
}

// Parse turns raw into a predicate; an empty query yields an empty predicate
func Parse(raw string) (Predicate, error) {
	p := &parser{src: Normalize(raw)}
	var terms []Term
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		t, err := p.term()
		if err != nil {
			return Predicate{}, err
		}
		terms = append(terms, t)
	}
	return Predicate{terms: terms}, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += n
	}
}

func (p *parser) term() (Term, error) {
	start := p.pos
	neg := false
	if p.peek() == '!' {
		neg = true
		p.pos++
		if p.eof() || isSpaceByte(p.peek()) {
			return Term{}, syntaxf(start, "Expected a term after '!'")
		}
	}

	if p.peek() == '"' {
		v, err := p.quoted()
		if err != nil {
			return Term{}, err
		}
		return Term{Op: OpEq, Values: []string{v}, Negated: neg}, nil
	}

	keyStart := p.pos
	key, ok := p.key()
	if !ok {
		// plain word, rewind past whatever key() consumed
		p.pos = keyStart
		w := p.word()
		if w == "" {
			return Term{}, syntaxf(start, "unexpected character %q", p.peek())
		}
		return Term{Op: OpEq, Values: []string{w}, Negated: neg}, nil
	}

	key = FoldKey(key)
	if !KnownKey(key) {
		return Term{}, syntaxf(keyStart, "Invalid key for this search: %s", key)
	}

	op := p.op()
	if p.eof() || isSpaceByte(p.peek()) {
		return Term{}, syntaxf(p.pos, "Empty string after '%s:'", key)
	}

	switch p.peek() {
	case '[':
		if op != OpEq {
			return Term{}, syntaxf(p.pos, "Invalid operator %s for list value on %s", op, key)
		}
		vals, err := p.list()
		if err != nil {
			return Term{}, err
		}
		return Term{Key: key, Op: OpIn, Values: vals, Negated: neg}, nil
	case '"':
		v, err := p.quoted()
		if err != nil {
			return Term{}, err
		}
		return Term{Key: key, Op: op, Values: []string{v}, Negated: neg}, nil
	default:
		v := p.word()
		if key == "has" && op != OpEq {
			return Term{}, syntaxf(keyStart, "Invalid operator %s for has", op)
		}
		if key == "has" {
			v = FoldKey(v)
		}
		return Term{Key: key, Op: op, Values: []string{v}, Negated: neg}, nil
	}
}

// key reads an identifier followed by ':'; ok is false when the token is not a key
func (p *parser) key() (string, bool) {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ':':
			if p.pos == start {
				return "", false
			}
			k := p.src[start:p.pos]
			p.pos++
			return k, true
		case c == '[':
			// only tags[...] may carry brackets in a key
			if !strings.EqualFold(p.src[start:p.pos], "tags") {
				return "", false
			}
			end := strings.IndexByte(p.src[p.pos:], ']')
			if end < 0 {
				return "", false
			}
			p.pos += end + 1
		case isKeyByte(c):
			p.pos++
		default:
			return "", false
		}
	}
	return "", false
}

func (p *parser) op() Op {
	switch {
	case strings.HasPrefix(p.src[p.pos:], ">="):
		p.pos += 2
		return OpGte
	case strings.HasPrefix(p.src[p.pos:], "<="):
		p.pos += 2
		return OpLte
	case p.peek() == '>':
		p.pos++
		return OpGt
	case p.peek() == '<':
		p.pos++
		return OpLt
	}
	return OpEq
}

// word reads up to the next whitespace
func (p *parser) word() string {
	start := p.pos
	for !p.eof() {
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if unicode.IsSpace(r) {
			break
		}
		p.pos += n
	}
	return p.src[start:p.pos]
}

// quoted reads a double quoted string with backslash escapes
func (p *parser) quoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case '\\':
			if p.pos+1 < len(p.src) {
				b.WriteByte(p.src[p.pos+1])
				p.pos += 2
				continue
			}
			p.pos++
		case '"':
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", syntaxf(start, "Unterminated quoted string")
}

// list reads [a, b, "c d"]
func (p *parser) list() ([]string, error) {
	start := p.pos
	p.pos++ // [
	var vals []string
	for {
		p.skipSpace()
		if p.eof() {
			return nil, syntaxf(start, "Unterminated list")
		}
		if p.peek() == ']' {
			p.pos++
			break
		}
		var v string
		if p.peek() == '"' {
			q, err := p.quoted()
			if err != nil {
				return nil, err
			}
			v = q
		} else {
			s := p.pos
			for !p.eof() && p.peek() != ',' && p.peek() != ']' {
				p.pos++
			}
			v = strings.TrimSpace(p.src[s:p.pos])
		}
		if v == "" {
			return nil, syntaxf(p.pos, "Empty value in list")
		}
		vals = append(vals, v)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
		}
	}
	if len(vals) == 0 {
		return nil, syntaxf(start, "Empty list")
	}
	if !p.eof() && !isSpaceByte(p.peek()) {
		return nil, syntaxf(p.pos, "Unexpected %q after list", p.peek())
	}
	return vals, nil
}

func isKeyByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '(' || c == ')' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
