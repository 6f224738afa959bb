package scene

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	r    *bufio.Reader
	line int
}

func (l *lexer) next() (token, error) {
	for {
		c, _, err := l.r.ReadRune()
		if err == io.EOF {
			return token{kind: tokEOF, line: l.line}, nil
		}
		if err != nil {
			return token{}, err
		}
		switch {
		case c == '\n':
			l.line++
		case c == ' ' || c == '\t' || c == '\r':
		case c == '{':
			return token{kind: tokOpen, line: l.line}, nil
		case c == '}':
			return token{kind: tokClose, line: l.line}, nil
		case c == '/':
			nc, _, err := l.r.ReadRune()
			if err != nil || nc != '/' {
				return token{}, fmt.Errorf("scene: line %d: unexpected '/'", l.line)
			}
			if _, err := l.r.ReadString('\n'); err != nil && err != io.EOF {
				return token{}, err
			}
			l.line++
		case c == '"':
			return l.quoted()
		default:
			return l.bare(c)
		}
	}
}

func (l *lexer) quoted() (token, error) {
	var sb strings.Builder
	start := l.line
	for {
		c, _, err := l.r.ReadRune()
		if err != nil {
			return token{}, fmt.Errorf("scene: line %d: unterminated string", start)
		}
		switch c {
		case '"':
			return token{kind: tokString, text: sb.String(), line: start}, nil
		case '\\':
			nc, _, err := l.r.ReadRune()
			if err != nil {
				return token{}, fmt.Errorf("scene: line %d: unterminated string", start)
			}
			sb.WriteRune(nc)
		case '\n':
			l.line++
			sb.WriteRune(c)
		default:
			sb.WriteRune(c)
		}
	}
}

func (l *lexer) bare(first rune) (token, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		c, _, err := l.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '{' || c == '}' || c == '"' {
			_ = l.r.UnreadRune()
			break
		}
		sb.WriteRune(c)
	}
	return token{kind: tokString, text: sb.String(), line: l.line}, nil
}

// Parse reads the block format from r into an unnamed root node.
func Parse(r io.Reader) (*Node, error) {
	l := &lexer{r: bufio.NewReader(r), line: 1}
	root := &Node{}
	stack := []*Node{root}

	pending, err := l.next()
	if err != nil {
		return nil, err
	}
	for {
		tok := pending
		switch tok.kind {
		case tokEOF:
			if len(stack) != 1 {
				return nil, fmt.Errorf("scene: unexpected end of input, %d unclosed blocks", len(stack)-1)
			}
			return root, nil
		case tokOpen:
			return nil, fmt.Errorf("scene: line %d: block without a name", tok.line)
		case tokClose:
			if len(stack) == 1 {
				return nil, fmt.Errorf("scene: line %d: unmatched '}'", tok.line)
			}
			stack = stack[:len(stack)-1]
			if pending, err = l.next(); err != nil {
				return nil, err
			}
			continue
		}

		following, err := l.next()
		if err != nil {
			return nil, err
		}
		parent := stack[len(stack)-1]
		switch following.kind {
		case tokOpen:
			n := &Node{Name: tok.text}
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case tokString:
			parent.Fields = append(parent.Fields, Field{Key: tok.text, Value: following.text})
		default:
			return nil, fmt.Errorf("scene: line %d: key %q has no value", tok.line, tok.text)
		}
		if pending, err = l.next(); err != nil {
			return nil, err
		}
	}
}
