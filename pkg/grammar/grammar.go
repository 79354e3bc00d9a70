package grammar

import (
	"fmt"
	"strings"
)

/*
	The concrete syntax of blisp:

		number : /-?[0-9]+/
		symbol : /[a-zA-Z0-9_+\-*\/\\=<>!&^%]+/
		sexpr  : '(' <expr>* ')'
		qexpr  : '{' <expr>* '}'
		expr   : <number> | <symbol> | <sexpr> | <qexpr>
		blisp  : /^/ <expr>* /$/

	Parse produces a tagged tree. Consumers only look at Tag and Contents,
	structural punctuation is kept in the tree as "char" nodes.
*/

type Tag string

const (
	TagRoot   Tag = ">"
	TagNumber Tag = "number"
	TagSymbol Tag = "symbol"
	TagSExpr  Tag = "sexpr"
	TagQExpr  Tag = "qexpr"
	TagChar   Tag = "char"
	TagRegex  Tag = "regex"
)

type Node struct {
	Tag      Tag
	Contents string
	Position int
	Children []*Node
}

// ParseError represents an error during parsing, with position.
type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

type parser struct {
	input string
	pos   int
}

// Parse turns a line of source into a parse tree rooted at a TagRoot node.
func Parse(input string) (*Node, error) {
	p := &parser{input: input}
	root := &Node{Tag: TagRoot, Position: 0}
	root.Children = append(root.Children, &Node{Tag: TagRegex, Position: 0})

	for {
		p.skipWhitespace()
		if p.isAtEnd() {
			break
		}
		child, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}

	root.Children = append(root.Children, &Node{Tag: TagRegex, Position: p.pos})
	return root, nil
}

func (p *parser) isAtEnd() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.isAtEnd() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() {
	if !p.isAtEnd() {
		p.pos++
	}
}

func (p *parser) skipWhitespace() {
	for !p.isAtEnd() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.advance()
		default:
			return
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSymbolChar(c byte) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) {
		return true
	}
	return strings.IndexByte("_+-*/\\=<>!&^%", c) >= 0
}

// isNumber reports whether tok matches -?[0-9]+ in full.
func isNumber(tok string) bool {
	if strings.HasPrefix(tok, "-") {
		tok = tok[1:]
	}
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if !isDigit(tok[i]) {
			return false
		}
	}
	return true
}

func (p *parser) parseExpr() (*Node, error) {
	pos := p.pos
	switch c := p.peek(); c {
	case '(':
		return p.parseGroup(TagSExpr, '(', ')')
	case '{':
		return p.parseGroup(TagQExpr, '{', '}')
	case ')', '}':
		return nil, &ParseError{Position: pos, Message: fmt.Sprintf("unexpected '%c'", c)}
	default:
		if !isSymbolChar(c) {
			return nil, &ParseError{Position: pos, Message: fmt.Sprintf("unexpected character '%c'", c)}
		}
		for !p.isAtEnd() && isSymbolChar(p.peek()) {
			p.advance()
		}
		tok := p.input[pos:p.pos]
		if isNumber(tok) {
			return &Node{Tag: TagNumber, Contents: tok, Position: pos}, nil
		}
		return &Node{Tag: TagSymbol, Contents: tok, Position: pos}, nil
	}
}

func (p *parser) parseGroup(tag Tag, open, close byte) (*Node, error) {
	node := &Node{Tag: tag, Position: p.pos}
	node.Children = append(node.Children, &Node{Tag: TagChar, Contents: string(open), Position: p.pos})
	p.advance() // consume opener

	for {
		p.skipWhitespace()
		if p.isAtEnd() {
			return nil, &ParseError{Position: p.pos, Message: fmt.Sprintf("unexpected end of input, expected '%c'", close)}
		}
		if p.peek() == close {
			node.Children = append(node.Children, &Node{Tag: TagChar, Contents: string(close), Position: p.pos})
			p.advance()
			return node, nil
		}
		child, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
}

// String renders the tree in an indented debugging form.
func (n *Node) String() string {
	var b strings.Builder
	n.print(&b, 0)
	return b.String()
}

func (n *Node) print(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(n.Tag))
	if n.Contents != "" {
		b.WriteString(" '")
		b.WriteString(n.Contents)
		b.WriteString("'")
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		c.print(b, depth+1)
	}
}
