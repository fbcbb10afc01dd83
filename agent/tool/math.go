package tool

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokPow
	tokSlash
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

// maxExactBits caps integer powers so a short expression cannot allocate unbounded memory.
const maxExactBits = 1 << 16

type token struct {
	kind  tokenKind
	text  string
	value Number
	pos   int
}

// Number is an evaluation result. Integer literals stay exact through +, -, *, **
// with a non-negative exponent, abs and round; anything touching a decimal literal
// or true division is a float64.
type Number struct {
	exact *big.Int
	f     float64
}

func intNumber(v *big.Int) Number { return Number{exact: v} }

func floatNumber(v float64) Number { return Number{f: v} }

// IsExact reports whether the value is an arbitrary-precision integer.
func (n Number) IsExact() bool { return n.exact != nil }

// Float64 returns the nearest float64. Integers beyond the float64 range become ±Inf.
func (n Number) Float64() float64 {
	if n.exact == nil {
		return n.f
	}
	f, _ := new(big.Float).SetInt(n.exact).Float64()
	return f
}

// String renders integers in full and floats via FormatNumber.
func (n Number) String() string {
	if n.exact != nil {
		return n.exact.String()
	}
	return FormatNumber(n.f)
}

func (n Number) isZero() bool {
	if n.exact != nil {
		return n.exact.Sign() == 0
	}
	return n.f == 0
}

type mathFunc struct {
	arity [2]int
	call  func(args []Number) (Number, error)
}

// Only these names resolve. Anything else is rejected before evaluation.
var mathFuncs = map[string]mathFunc{
	"abs": {arity: [2]int{1, 1}, call: func(a []Number) (Number, error) {
		if a[0].exact != nil {
			return intNumber(new(big.Int).Abs(a[0].exact)), nil
		}
		return floatNumber(math.Abs(a[0].f)), nil
	}},
	"round": {arity: [2]int{1, 2}, call: roundHalfEven},
	"pow": {arity: [2]int{2, 2}, call: func(a []Number) (Number, error) {
		return raise(a[0], a[1])
	}},
}

// EvaluateExpression evaluates a restricted arithmetic expression. Any rejection is
// reported as contractx.ErrInvalidExpression; the reason is only logged.
func EvaluateExpression(expression string) (Number, error) {
	expression = strings.TrimSpace(expression)
	value, err := evaluate(expression)
	if err != nil {
		log.Debug().Err(err).Str("expression", expression).Msg("expression rejected")
		return Number{}, contractx.ErrInvalidExpression
	}
	return value, nil
}

// FormatNumber renders a float result without trailing zeros ("1800", "0.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func evaluate(expression string) (Number, error) {
	if expression == "" {
		return Number{}, errors.New("expression is empty")
	}
	tokens, err := lex(expression)
	if err != nil {
		return Number{}, err
	}

	ev := &evaluator{tokens: tokens}
	value, err := ev.sum()
	if err != nil {
		return Number{}, err
	}
	if next := ev.peek(); next.kind != tokEOF {
		return Number{}, fmt.Errorf("unexpected %q at position %d", next.text, next.pos)
	}
	if value.exact == nil && (math.IsNaN(value.f) || math.IsInf(value.f, 0)) {
		return Number{}, errors.New("result is not a finite number")
	}
	return value, nil
}

func lex(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case isDigit(ch) || ch == '.':
			start := i
			dots := 0
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				if src[i] == '.' {
					dots++
				}
				i++
			}
			text := src[start:i]
			if dots > 1 || text == "." {
				return nil, fmt.Errorf("malformed number %q at position %d", text, start)
			}
			v, err := parseLiteral(text)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: v, pos: start})
		case isIdentByte(ch):
			start := i
			for i < len(src) && (isIdentByte(src[i]) || isDigit(src[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			kind, width, err := lexOperator(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: kind, text: src[i : i+width], pos: i})
			i += width
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(src)}), nil
}

func parseLiteral(text string) (Number, error) {
	if !strings.Contains(text, ".") {
		v, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return Number{}, fmt.Errorf("malformed number %q", text)
		}
		return intNumber(v), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Number{}, fmt.Errorf("malformed number %q: %w", text, err)
	}
	return floatNumber(v), nil
}

func lexOperator(src string, i int) (tokenKind, int, error) {
	two := ""
	if i+1 < len(src) {
		two = src[i : i+2]
	}
	switch {
	case two == "**":
		return tokPow, 2, nil
	case two == "//":
		return 0, 0, fmt.Errorf("floor division is not supported at position %d", i)
	}

	switch src[i] {
	case '+':
		return tokPlus, 1, nil
	case '-':
		return tokMinus, 1, nil
	case '*':
		return tokStar, 1, nil
	case '/':
		return tokSlash, 1, nil
	case '(':
		return tokLParen, 1, nil
	case ')':
		return tokRParen, 1, nil
	case ',':
		return tokComma, 1, nil
	}
	return 0, 0, fmt.Errorf("character %q is not allowed at position %d", src[i], i)
}

// evaluator is a precedence-climbing parser that computes while it parses:
//
//	sum     = product { ("+" | "-") product }
//	product = signed { ("*" | "/") signed }
//	signed  = ("+" | "-") signed | power
//	power   = atom [ "**" signed ]
//	atom    = number | "(" sum ")" | ident "(" [ sum { "," sum } ] ")"
//
// Unary minus binds looser than **, so -2 ** 2 == -4, and ** is right-associative.
type evaluator struct {
	tokens []token
	at     int
}

func (e *evaluator) peek() token {
	return e.tokens[e.at]
}

func (e *evaluator) next() token {
	t := e.tokens[e.at]
	if t.kind != tokEOF {
		e.at++
	}
	return t
}

func (e *evaluator) accept(kind tokenKind) bool {
	if e.peek().kind == kind {
		e.at++
		return true
	}
	return false
}

func (e *evaluator) sum() (Number, error) {
	acc, err := e.product()
	if err != nil {
		return Number{}, err
	}
	for {
		switch {
		case e.accept(tokPlus):
			rhs, err := e.product()
			if err != nil {
				return Number{}, err
			}
			acc = add(acc, rhs)
		case e.accept(tokMinus):
			rhs, err := e.product()
			if err != nil {
				return Number{}, err
			}
			acc = add(acc, negate(rhs))
		default:
			return acc, nil
		}
	}
}

func (e *evaluator) product() (Number, error) {
	acc, err := e.signed()
	if err != nil {
		return Number{}, err
	}
	for {
		switch {
		case e.accept(tokStar):
			rhs, err := e.signed()
			if err != nil {
				return Number{}, err
			}
			acc = multiply(acc, rhs)
		case e.accept(tokSlash):
			rhs, err := e.signed()
			if err != nil {
				return Number{}, err
			}
			if rhs.isZero() {
				return Number{}, errors.New("division by zero")
			}
			acc = floatNumber(acc.Float64() / rhs.Float64())
		default:
			return acc, nil
		}
	}
}

func (e *evaluator) signed() (Number, error) {
	switch {
	case e.accept(tokPlus):
		return e.signed()
	case e.accept(tokMinus):
		v, err := e.signed()
		return negate(v), err
	}
	return e.power()
}

func (e *evaluator) power() (Number, error) {
	base, err := e.atom()
	if err != nil {
		return Number{}, err
	}
	if !e.accept(tokPow) {
		return base, nil
	}
	exponent, err := e.signed()
	if err != nil {
		return Number{}, err
	}
	return raise(base, exponent)
}

func (e *evaluator) atom() (Number, error) {
	t := e.next()
	switch t.kind {
	case tokNumber:
		return t.value, nil
	case tokLParen:
		v, err := e.sum()
		if err != nil {
			return Number{}, err
		}
		if !e.accept(tokRParen) {
			return Number{}, fmt.Errorf("missing ')' at position %d", e.peek().pos)
		}
		return v, nil
	case tokIdent:
		return e.call(t)
	case tokEOF:
		return Number{}, errors.New("unexpected end of expression")
	}
	return Number{}, fmt.Errorf("unexpected %q at position %d", t.text, t.pos)
}

func (e *evaluator) call(name token) (Number, error) {
	fn, ok := mathFuncs[name.text]
	if !ok {
		return Number{}, fmt.Errorf("name %q is not allowed", name.text)
	}
	if !e.accept(tokLParen) {
		return Number{}, fmt.Errorf("%s must be called at position %d", name.text, name.pos)
	}

	var args []Number
	if !e.accept(tokRParen) {
		for {
			v, err := e.sum()
			if err != nil {
				return Number{}, err
			}
			args = append(args, v)
			if e.accept(tokComma) {
				continue
			}
			if e.accept(tokRParen) {
				break
			}
			return Number{}, fmt.Errorf("expected ',' or ')' at position %d", e.peek().pos)
		}
	}

	if len(args) < fn.arity[0] || len(args) > fn.arity[1] {
		return Number{}, fmt.Errorf("%s takes %d to %d arguments, got %d", name.text, fn.arity[0], fn.arity[1], len(args))
	}
	return fn.call(args)
}

func add(a, b Number) Number {
	if a.exact != nil && b.exact != nil {
		return intNumber(new(big.Int).Add(a.exact, b.exact))
	}
	return floatNumber(a.Float64() + b.Float64())
}

func multiply(a, b Number) Number {
	if a.exact != nil && b.exact != nil {
		return intNumber(new(big.Int).Mul(a.exact, b.exact))
	}
	return floatNumber(a.Float64() * b.Float64())
}

func negate(n Number) Number {
	if n.exact != nil {
		return intNumber(new(big.Int).Neg(n.exact))
	}
	return floatNumber(-n.f)
}

// roundHalfEven rounds on the exact binary value of the float, so round(2.675, 2)
// is 2.67 because 2.675 is stored as 2.67499999...
func roundHalfEven(a []Number) (Number, error) {
	x := a[0]
	if len(a) == 1 {
		if x.exact != nil {
			return x, nil
		}
		return floatNumber(math.RoundToEven(x.f)), nil
	}

	digits := a[1].Float64()
	if a[1].exact == nil && digits != math.Trunc(digits) {
		return Number{}, errors.New("round digits must be an integer")
	}
	if x.exact != nil && digits >= 0 {
		return x, nil
	}
	if digits < 0 {
		scale := math.Pow(10, -digits)
		return floatNumber(math.RoundToEven(x.Float64()/scale) * scale), nil
	}
	if digits > 340 {
		return floatNumber(x.f), nil
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x.f, 'f', int(digits), 64), 64)
	if err != nil {
		return Number{}, fmt.Errorf("round %v: %w", x.f, err)
	}
	return floatNumber(rounded), nil
}

func raise(base, exponent Number) (Number, error) {
	if base.isZero() && exponent.Float64() < 0 {
		return Number{}, errors.New("zero cannot be raised to a negative power")
	}
	if base.exact == nil || exponent.exact == nil || exponent.exact.Sign() < 0 {
		return floatNumber(math.Pow(base.Float64(), exponent.Float64())), nil
	}
	if new(big.Int).Abs(base.exact).Cmp(big.NewInt(1)) > 0 {
		if !exponent.exact.IsInt64() || int64(base.exact.BitLen())*exponent.exact.Int64() > maxExactBits {
			return Number{}, errors.New("integer power is too large")
		}
	}
	return intNumber(new(big.Int).Exp(base.exact, exponent.exact, nil)), nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || ch == '_'
}
