// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ErrInvalidSyntax is the sentinel error wrapped by InvalidSyntaxError.
var ErrInvalidSyntax = errors.New("invalid python syntax")

// InvalidSyntaxError is returned when module source does not parse as Python.
// Line and Column are 1-based and point at the first offending token.
type InvalidSyntaxError struct {
	Path   string
	Line   uint
	Column uint
}

// Error implements the error interface.
func (e *InvalidSyntaxError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d:%d: invalid syntax", e.Path, e.Line, e.Column)
	}
	return fmt.Sprintf("line %d, column %d: invalid syntax", e.Line, e.Column)
}

// Unwrap returns ErrInvalidSyntax for errors.Is() compatibility.
func (e *InvalidSyntaxError) Unwrap() error { return ErrInvalidSyntax }

// ParseDocstring parses src as a Python module and returns its docstring.
// ok is false when the module has none. The docstring is cleaned the way
// Python's inspect.cleandoc does it: continuation lines are dedented and
// surrounding blank lines are dropped.
func ParseDocstring(src []byte) (doc string, ok bool, err error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(sitter.NewLanguage(python.Language())); err != nil {
		return "", false, fmt.Errorf("loading python grammar: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return "", false, errors.New("python parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		pos := firstErrorPosition(root)
		return "", false, &InvalidSyntaxError{Line: pos.Row + 1, Column: pos.Column + 1}
	}
	if bad := findRejectedNode(root, src); bad != nil {
		pos := bad.StartPosition()
		return "", false, &InvalidSyntaxError{Line: pos.Row + 1, Column: pos.Column + 1}
	}

	raw, ok := moduleDocstring(root, src)
	if !ok {
		return "", false, nil
	}
	return cleanDoc(raw), true, nil
}

// firstErrorPosition returns the start of the first ERROR or MISSING node in
// document order. The root position is returned if none is found.
func firstErrorPosition(n *sitter.Node) sitter.Point {
	if found := findErrorNode(n); found != nil {
		return found.StartPosition()
	}
	return n.StartPosition()
}

func findErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if found := findErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// findRejectedNode returns the first node the grammar accepts but Python 3
// does not: print and exec statements, and a bare generator expression
// sharing a call's parentheses with other arguments.
func findRejectedNode(n *sitter.Node, src []byte) *sitter.Node {
	switch n.Kind() {
	case "print_statement", "exec_statement":
		return n
	case "generator_expression":
		if isBareGeneratorArgument(n, src) {
			return n
		}
	}
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if found := findRejectedNode(child, src); found != nil {
			return found
		}
	}
	return nil
}

func isBareGeneratorArgument(gen *sitter.Node, src []byte) bool {
	parent := gen.Parent()
	if parent == nil || parent.Kind() != "argument_list" {
		return false
	}
	if strings.HasPrefix(gen.Utf8Text(src), "(") {
		return false
	}
	args := 0
	for i := range parent.NamedChildCount() {
		if arg := parent.NamedChild(i); arg != nil && arg.Kind() != "comment" {
			args++
		}
	}
	return args > 1
}

// moduleDocstring returns the undecoded docstring of a module node: the first
// statement must be an expression statement made of a plain string literal.
func moduleDocstring(root *sitter.Node, src []byte) (string, bool) {
	for i := range root.NamedChildCount() {
		stmt := root.NamedChild(i)
		if stmt == nil || stmt.Kind() == "comment" {
			continue
		}
		if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return "", false
		}
		expr := stmt.NamedChild(0)
		switch expr.Kind() {
		case "string":
			return stringValue(expr.Utf8Text(src))
		case "concatenated_string":
			var b strings.Builder
			for j := range expr.NamedChildCount() {
				part := expr.NamedChild(j)
				if part.Kind() != "string" {
					continue
				}
				s, ok := stringValue(part.Utf8Text(src))
				if !ok {
					return "", false
				}
				b.WriteString(s)
			}
			return b.String(), true
		default:
			return "", false
		}
	}
	return "", false
}

// stringValue decodes a Python string literal. Byte, format and template
// strings are not docstrings and report false.
func stringValue(literal string) (string, bool) {
	quoteAt := strings.IndexAny(literal, `'"`)
	if quoteAt < 0 {
		return "", false
	}
	prefix := strings.ToLower(literal[:quoteAt])
	if strings.ContainsAny(prefix, "bft") {
		return "", false
	}

	body := literal[quoteAt:]
	quote := body[:1]
	if triple := strings.Repeat(quote, 3); strings.HasPrefix(body, triple) && len(body) >= 6 {
		quote = triple
	}
	body = strings.TrimSuffix(strings.TrimPrefix(body, quote), quote)

	if strings.Contains(prefix, "r") {
		return body, true
	}
	return unescape(body), true
}

var hexEscapeWidth = map[byte]int{'x': 2, 'u': 4, 'U': 8}

// unescape resolves Python escape sequences. Unknown escapes keep their
// backslash, as Python does.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
			// line continuation
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 1
			for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			v, _ := strconv.ParseUint(s[i:end], 8, 32)
			b.WriteRune(rune(v))
			i = end - 1
		case 'x', 'u', 'U':
			width := hexEscapeWidth[e]
			if i+width < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
					b.WriteRune(rune(v))
					i += width
					continue
				}
			}
			b.WriteByte('\\')
			b.WriteByte(e)
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

// cleanDoc mirrors inspect.cleandoc.
func cleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "        "), "\n")

	indent := -1
	for _, line := range lines[1:] {
		stripped := strings.TrimLeft(line, " ")
		if stripped == "" {
			continue
		}
		if n := len(line) - len(stripped); indent < 0 || n < indent {
			indent = n
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if indent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= indent {
				lines[i] = lines[i][indent:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
