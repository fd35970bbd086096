// Package expr evaluates compile-time integer arithmetic for the assembler.
//
// Expressions are normalised so that 0x, 0b and zero padded decimal
// literals become plain decimal, then parsed as a single Starlark
// expression. Only integer literals, parentheses and the arithmetic and
// bitwise operators are accepted. Division truncates toward zero.
package expr

import (
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/devcpu/lexer"
)

// prefixedLiteral matches literals starting with 0: the 0x and 0b forms,
// and decimals with leading zeros.
var prefixedLiteral = regexp.MustCompile(`\b0[0-9A-Za-z_]*\b`)

// allowed is the alphabet of a normalised expression.
const allowed = "0123456789+-*/%&|^~<>() \t"

// binaryOps are the accepted binary operators.
var binaryOps = map[syntax.Token]bool{
	syntax.PLUS:       true,
	syntax.MINUS:      true,
	syntax.STAR:       true,
	syntax.SLASH:      true,
	syntax.SLASHSLASH: true,
	syntax.PERCENT:    true,
	syntax.AMP:        true,
	syntax.PIPE:       true,
	syntax.LTLT:       true,
	syntax.GTGT:       true,
}

// unaryOps are the accepted unary operators.
var unaryOps = map[syntax.Token]bool{
	syntax.PLUS:  true,
	syntax.MINUS: true,
	syntax.TILDE: true,
}

// Normalize rewrites every 0x, 0b or zero padded literal in text into its
// decimal digits, leaving all other text untouched. Malformed literals are
// left as they are.
func Normalize(text string) string {
	return prefixedLiteral.ReplaceAllStringFunc(text, func(word string) string {
		n, err := lexer.ParseNumber(word)
		if err != nil {
			return word
		}
		return fmt.Sprintf("%d", n)
	})
}

// Evaluate computes the integer value of an arithmetic expression.
func Evaluate(text string) (value int, err error) {
	norm := strings.TrimSpace(Normalize(text))
	if norm == "" {
		err = &ErrEvaluation{Text: text}
		return
	}
	if strings.ContainsFunc(norm, func(r rune) bool {
		return !strings.ContainsRune(allowed, r)
	}) {
		err = &ErrEvaluation{Text: text}
		return
	}

	opts := syntax.FileOptions{}
	tree, _err := opts.ParseExpr("expr", norm, 0)
	if _err != nil {
		err = &ErrEvaluation{Text: text, Err: _err}
		return
	}

	result, _err := eval(tree)
	if _err != nil {
		err = &ErrEvaluation{Text: text, Err: _err}
		return
	}

	st_int64, ok := result.Int64()
	if !ok {
		err = &ErrEvaluation{Text: text}
		return
	}

	value = int(st_int64)
	return
}

// eval computes an expression tree of integer literals and operators.
func eval(node syntax.Expr) (result starlark.Int, err error) {
	switch node := node.(type) {
	case *syntax.Literal:
		switch v := node.Value.(type) {
		case int64:
			result = starlark.MakeInt64(v)
			return
		}
	case *syntax.ParenExpr:
		return eval(node.X)
	case *syntax.UnaryExpr:
		if !unaryOps[node.Op] {
			break
		}
		var x starlark.Int
		x, err = eval(node.X)
		if err != nil {
			return
		}
		return toInt(starlark.Unary(node.Op, x))
	case *syntax.BinaryExpr:
		if !binaryOps[node.Op] {
			break
		}
		var x, y starlark.Int
		x, err = eval(node.X)
		if err != nil {
			return
		}
		y, err = eval(node.Y)
		if err != nil {
			return
		}
		if node.Op == syntax.SLASH {
			return divide(x, y)
		}
		return toInt(starlark.Binary(node.Op, x, y))
	}

	start, _ := node.Span()
	err = fmt.Errorf("%v: not integer arithmetic", start)
	return
}

// divide is integer division truncated toward zero.
func divide(x, y starlark.Int) (q starlark.Int, err error) {
	q, err = toInt(starlark.Binary(syntax.SLASHSLASH, x, y))
	if err != nil {
		return
	}
	r, err := toInt(starlark.Binary(syntax.PERCENT, x, y))
	if err != nil {
		return
	}
	if r.Sign() != 0 && x.Sign() != y.Sign() {
		q = q.Add(starlark.MakeInt(1))
	}
	return
}

func toInt(v starlark.Value, err error) (n starlark.Int, _err error) {
	if err != nil {
		_err = err
		return
	}
	n, ok := v.(starlark.Int)
	if !ok {
		_err = fmt.Errorf("%v is not an integer", v)
	}
	return
}
