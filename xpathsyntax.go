package locate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// checkXPath reports whether expr is a complete XPath 1.0 expression.
//
// xpath.Compile stops at the end of the longest valid prefix and ignores the
// rest of its input ("//div]" compiles as "//div"), so the whole expression is
// recognised here first. Only syntax is checked; function names and arities
// are left to the compiler.
func checkXPath(expr string) error {
	toks, err := lexXPath(expr)
	if err != nil {
		return err
	}
	p := &xpathParser{toks: toks}
	if err := p.expr(); err != nil {
		return err
	}
	if t := p.peek(); t.kind != xtEOF {
		return fmt.Errorf("unexpected %q at offset %d", t.s, t.pos)
	}
	return nil
}

type xtokKind int

const (
	xtEOF      xtokKind = iota
	xtName              // name test: QName, prefix:* or *
	xtFunc              // function name, followed by (
	xtNodeType          // comment, text, node or processing-instruction, followed by (
	xtAxis              // axis name, followed by ::
	xtOpName            // and, or, div, mod
	xtOp                // / // | + - = != < <= > >= and the multiply *
	xtPunct             // ( ) [ ] . .. @ , ::
	xtLiteral
	xtNumber
	xtVar
)

type xtok struct {
	kind xtokKind
	s    string
	pos  int
}

var xpathNodeTypes = map[string]bool{
	"comment":                true,
	"text":                   true,
	"node":                   true,
	"processing-instruction": true,
}

var xpathAxes = map[string]bool{
	"ancestor":           true,
	"ancestor-or-self":   true,
	"attribute":          true,
	"child":              true,
	"descendant":         true,
	"descendant-or-self": true,
	"following":          true,
	"following-sibling":  true,
	"namespace":          true,
	"parent":             true,
	"preceding":          true,
	"preceding-sibling":  true,
	"self":               true,
}

var xpathOpNames = map[string]bool{
	"and": true,
	"or":  true,
	"div": true,
	"mod": true,
}

// lexXPath splits expr into tokens, applying the XPath 1.0 disambiguation
// rules for * and names that depend on the preceding token.
func lexXPath(expr string) ([]xtok, error) {
	var toks []xtok
	// operand reports whether the previous token ends an operand, in which
	// case * is a multiplication and a name must be an operator name.
	operand := func() bool {
		if len(toks) == 0 {
			return false
		}
		switch t := toks[len(toks)-1]; t.kind {
		case xtOp, xtOpName:
			return false
		case xtPunct:
			switch t.s {
			case "@", "::", "(", "[", ",":
				return false
			}
		}
		return true
	}
	add := func(kind xtokKind, start, end int) {
		toks = append(toks, xtok{kind: kind, s: expr[start:end], pos: start})
	}

	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(' || c == ')' || c == '[' || c == ']' || c == ',' || c == '@':
			add(xtPunct, i, i+1)
			i++

		case c == '.':
			switch {
			case strings.HasPrefix(expr[i:], ".."):
				add(xtPunct, i, i+2)
				i += 2
			case i+1 < len(expr) && isDigit(expr[i+1]):
				j := scanDigits(expr, i+1)
				add(xtNumber, i, j)
				i = j
			default:
				add(xtPunct, i, i+1)
				i++
			}

		case isDigit(c):
			j := scanDigits(expr, i)
			if j < len(expr) && expr[j] == '.' {
				j = scanDigits(expr, j+1)
			}
			add(xtNumber, i, j)
			i = j

		case c == '"' || c == '\'':
			j := strings.IndexByte(expr[i+1:], c)
			if j == -1 {
				return nil, fmt.Errorf("unterminated string literal at offset %d", i)
			}
			add(xtLiteral, i, i+j+2)
			i += j + 2

		case c == ':':
			if !strings.HasPrefix(expr[i:], "::") {
				return nil, fmt.Errorf("unexpected \":\" at offset %d", i)
			}
			add(xtPunct, i, i+2)
			i += 2

		case c == '/':
			if strings.HasPrefix(expr[i:], "//") {
				add(xtOp, i, i+2)
				i += 2
			} else {
				add(xtOp, i, i+1)
				i++
			}

		case c == '|' || c == '+' || c == '-' || c == '=':
			add(xtOp, i, i+1)
			i++

		case c == '!' || c == '<' || c == '>':
			j := i + 1
			if j < len(expr) && expr[j] == '=' {
				j++
			} else if c == '!' {
				return nil, fmt.Errorf("unexpected \"!\" at offset %d", i)
			}
			add(xtOp, i, j)
			i = j

		case c == '*':
			if operand() {
				add(xtOp, i, i+1)
			} else {
				add(xtName, i, i+1)
			}
			i++

		case c == '$':
			j := scanQName(expr, i+1)
			if j == i+1 {
				return nil, fmt.Errorf("missing variable name at offset %d", i)
			}
			add(xtVar, i, j)
			i = j

		default:
			j := scanNCName(expr, i)
			if j == i {
				r, _ := utf8.DecodeRuneInString(expr[i:])
				return nil, fmt.Errorf("unexpected %q at offset %d", r, i)
			}
			if operand() {
				if !xpathOpNames[expr[i:j]] {
					return nil, fmt.Errorf("unexpected %q at offset %d", expr[i:j], i)
				}
				add(xtOpName, i, j)
				i = j
				continue
			}
			// prefix:local and prefix:*
			if j+1 < len(expr) && expr[j] == ':' && expr[j+1] != ':' {
				if expr[j+1] == '*' {
					add(xtName, i, j+2)
					i = j + 2
					continue
				}
				k := scanNCName(expr, j+1)
				if k == j+1 {
					return nil, fmt.Errorf("unexpected \":\" at offset %d", j)
				}
				j = k
			}
			rest := strings.TrimLeft(expr[j:], " \t\n\r")
			switch {
			case strings.HasPrefix(rest, "::"):
				if !xpathAxes[expr[i:j]] {
					return nil, fmt.Errorf("unknown axis %q at offset %d", expr[i:j], i)
				}
				add(xtAxis, i, j)
			case strings.HasPrefix(rest, "("):
				if xpathNodeTypes[expr[i:j]] {
					add(xtNodeType, i, j)
				} else {
					add(xtFunc, i, j)
				}
			default:
				add(xtName, i, j)
			}
			i = j
		}
	}
	return toks, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func scanDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// scanNCName returns the end of the NCName starting at i, or i when there is
// none.
func scanNCName(s string, i int) int {
	j := i
	for j < len(s) {
		r, n := utf8.DecodeRuneInString(s[j:])
		start := r == '_' || unicode.IsLetter(r)
		if !start && (j == i || !(r == '-' || r == '.' || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r))) {
			break
		}
		j += n
	}
	return j
}

func scanQName(s string, i int) int {
	j := scanNCName(s, i)
	if j > i && j+1 < len(s) && s[j] == ':' && s[j+1] != ':' {
		if k := scanNCName(s, j+1); k > j+1 {
			return k
		}
	}
	return j
}

// xpathParser is a recursive descent recogniser for the XPath 1.0 grammar.
type xpathParser struct {
	toks []xtok
	i    int
}

func (p *xpathParser) peek() xtok {
	if p.i >= len(p.toks) {
		return xtok{kind: xtEOF, s: "end of expression", pos: -1}
	}
	return p.toks[p.i]
}

func (p *xpathParser) is(kind xtokKind, s ...string) bool {
	t := p.peek()
	if t.kind != kind {
		return false
	}
	if len(s) == 0 {
		return true
	}
	for _, v := range s {
		if t.s == v {
			return true
		}
	}
	return false
}

func (p *xpathParser) expect(kind xtokKind, s string) error {
	if !p.is(kind, s) {
		return p.unexpected("expected " + quote(s))
	}
	p.i++
	return nil
}

func (p *xpathParser) unexpected(want string) error {
	t := p.peek()
	if t.kind == xtEOF {
		return fmt.Errorf("%s, got end of expression", want)
	}
	return fmt.Errorf("%s, got %q at offset %d", want, t.s, t.pos)
}

// binaryLevels lists the binary operators by increasing precedence.
var binaryLevels = []struct {
	kind xtokKind
	ops  []string
}{
	{xtOpName, []string{"or"}},
	{xtOpName, []string{"and"}},
	{xtOp, []string{"=", "!="}},
	{xtOp, []string{"<", "<=", ">", ">="}},
	{xtOp, []string{"+", "-"}},
	{xtOp, []string{"*"}},
}

func (p *xpathParser) expr() error {
	return p.binary(0)
}

func (p *xpathParser) binary(level int) error {
	if level == len(binaryLevels) {
		return p.unary()
	}
	lv := binaryLevels[level]
	for {
		if err := p.binary(level + 1); err != nil {
			return err
		}
		switch {
		case p.is(lv.kind, lv.ops...):
		case lv.ops[0] == "*" && p.is(xtOpName, "div", "mod"):
		default:
			return nil
		}
		p.i++
	}
}

func (p *xpathParser) unary() error {
	for p.is(xtOp, "-") {
		p.i++
	}
	for {
		if err := p.path(); err != nil {
			return err
		}
		if !p.is(xtOp, "|") {
			return nil
		}
		p.i++
	}
}

func (p *xpathParser) startsStep() bool {
	return p.is(xtName) || p.is(xtAxis) || p.is(xtNodeType) || p.is(xtPunct, "@", ".", "..")
}

func (p *xpathParser) path() error {
	switch {
	case p.is(xtOp, "/"):
		p.i++
		if p.startsStep() {
			return p.relative()
		}
		return nil
	case p.is(xtOp, "//"):
		p.i++
		return p.relative()
	case p.startsStep():
		return p.relative()
	}

	// filter expression
	if err := p.primary(); err != nil {
		return err
	}
	for p.is(xtPunct, "[") {
		if err := p.predicate(); err != nil {
			return err
		}
	}
	if p.is(xtOp, "/", "//") {
		p.i++
		return p.relative()
	}
	return nil
}

func (p *xpathParser) primary() error {
	switch {
	case p.is(xtVar), p.is(xtLiteral), p.is(xtNumber):
		p.i++
		return nil
	case p.is(xtPunct, "("):
		p.i++
		if err := p.expr(); err != nil {
			return err
		}
		return p.expect(xtPunct, ")")
	case p.is(xtFunc):
		p.i++
		if err := p.expect(xtPunct, "("); err != nil {
			return err
		}
		if p.is(xtPunct, ")") {
			p.i++
			return nil
		}
		for {
			if err := p.expr(); err != nil {
				return err
			}
			if !p.is(xtPunct, ",") {
				break
			}
			p.i++
		}
		return p.expect(xtPunct, ")")
	}
	return p.unexpected("expected an expression")
}

func (p *xpathParser) relative() error {
	for {
		if err := p.step(); err != nil {
			return err
		}
		if !p.is(xtOp, "/", "//") {
			return nil
		}
		p.i++
	}
}

func (p *xpathParser) step() error {
	switch {
	case p.is(xtPunct, ".", ".."):
		p.i++
		return nil
	case p.is(xtAxis):
		p.i++
		if err := p.expect(xtPunct, "::"); err != nil {
			return err
		}
	case p.is(xtPunct, "@"):
		p.i++
	}

	switch {
	case p.is(xtName):
		p.i++
	case p.is(xtNodeType):
		pi := p.peek().s == "processing-instruction"
		p.i++
		if err := p.expect(xtPunct, "("); err != nil {
			return err
		}
		if pi && p.is(xtLiteral) {
			p.i++
		}
		if err := p.expect(xtPunct, ")"); err != nil {
			return err
		}
	default:
		return p.unexpected("expected a node test")
	}

	for p.is(xtPunct, "[") {
		if err := p.predicate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *xpathParser) predicate() error {
	if err := p.expect(xtPunct, "["); err != nil {
		return err
	}
	if err := p.expr(); err != nil {
		return err
	}
	return p.expect(xtPunct, "]")
}
