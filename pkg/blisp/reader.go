package blisp

import (
	"strconv"

	"github.com/InsulaLabs/blisp/pkg/grammar"
)

// Read lowers a parse tree into an unevaluated Value. The root node and
// parenthesized groups become expression lists, braced groups become quoted
// lists, punctuation and anchors are skipped.
func Read(node *grammar.Node) *Value {
	switch node.Tag {
	case grammar.TagNumber:
		return readNum(node.Contents)
	case grammar.TagSymbol:
		return Sym(node.Contents)
	}

	var x *Value
	switch node.Tag {
	case grammar.TagRoot, grammar.TagSExpr:
		x = SExpr()
	case grammar.TagQExpr:
		x = QExpr()
	default:
		return Errorf("cannot read node %q", string(node.Tag))
	}

	for _, child := range node.Children {
		if isPunctuation(child) {
			continue
		}
		x.Add(Read(child))
	}
	return x
}

func isPunctuation(node *grammar.Node) bool {
	if node.Tag == grammar.TagRegex || node.Tag == grammar.TagChar {
		return true
	}
	switch node.Contents {
	case "(", ")", "{", "}":
		return node.Tag != grammar.TagSymbol
	}
	return false
}

func readNum(s string) *Value {
	x, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Err(ErrInvalidNumber)
	}
	return Num(x)
}

// ReadString parses src and lowers it. Parse failures are returned as a
// *grammar.ParseError.
func ReadString(src string) (*Value, error) {
	tree, err := grammar.Parse(src)
	if err != nil {
		return nil, err
	}
	return Read(tree), nil
}

// EvalString reads src and evaluates it in e.
func (e *Env) EvalString(src string) (*Value, error) {
	v, err := ReadString(src)
	if err != nil {
		return nil, err
	}
	return e.Eval(v), nil
}
