package main

import (
	"strings"
)

//
// Low-level scanning over a statement.  Statements are short (at
// most maxLineLen bytes) and plain ASCII as far as the grammar is
// concerned, so we work in bytes.  peek returns 0 at end of text,
// which never matches anything the grammar wants
//

func newCursor(line string) *cursor {

	return &cursor{line: line}
}

func (c *cursor) atEnd() bool {

	return c.pos >= len(c.line)
}

func (c *cursor) peek() byte {

	if c.atEnd() {
		return 0
	}

	return c.line[c.pos]
}

func (c *cursor) advance() byte {

	ch := c.peek()
	if !c.atEnd() {
		c.pos++
	}

	return ch
}

func (c *cursor) rest() string {

	return c.line[c.pos:]
}

//
// Skip a run of characters drawn from set, returning what was
// skipped
//

func (c *cursor) span(set string) string {

	start := c.pos

	for !c.atEnd() && strings.IndexByte(set, c.line[c.pos]) >= 0 {
		c.pos++
	}

	return c.line[start:c.pos]
}

func (c *cursor) skipWhitespace() int {

	return len(c.span(whitespace))
}

func isWhitespace(ch byte) bool {

	return ch == ' ' || ch == '\t'
}

func isDigit(ch byte) bool {

	return ch >= '0' && ch <= '9'
}

//
// Unwind the whole statement.  Nothing above us gets a chance to
// use a partial result
//

func (c *cursor) syntaxError() {

	runtimeError(ESYNTAX)
}

func (c *cursor) expect(ch byte) {

	if c.peek() != ch {
		c.syntaxError()
	}

	c.pos++
}

//
// Trailing garbage check: only blanks may follow
//

func (c *cursor) requireEnd() {

	c.skipWhitespace()

	if !c.atEnd() {
		c.syntaxError()
	}
}

//
// Something that must be a keyword on its own, followed by blanks
// or the end of the text
//

func (c *cursor) requireKeyword(word string) {

	n := len(word)

	if len(c.line)-c.pos < n || !strings.EqualFold(c.line[c.pos:c.pos+n], word) {
		c.syntaxError()
	}

	c.pos += n

	if !c.atEnd() && !isWhitespace(c.peek()) {
		c.syntaxError()
	}
}

func (c *cursor) variable() byte {

	ch := c.peek()
	if !isLetter(ch) {
		c.syntaxError()
	}

	c.pos++

	return ch
}

//
// The statement keyword is the leading run of non-blank characters.
// Matching the whole word (rather than a prefix) is what makes
// 'GOTOX' a syntax error instead of GOTO X
//

func (c *cursor) word() string {

	start := c.pos

	for !c.atEnd() && !isWhitespace(c.line[c.pos]) {
		c.pos++
	}

	return c.line[start:c.pos]
}

//
// Accumulate a run of decimal digits.  Wraps silently, as 32 bit
// arithmetic does everywhere else
//

func (c *cursor) digits() int32 {

	var n int32

	if !isDigit(c.peek()) {
		c.syntaxError()
	}

	for isDigit(c.peek()) {
		n = n*10 + int32(c.advance()-'0')
	}

	return n
}

//
// Parse a leading integer the forgiving way, for INPUT: leading
// blanks, optional sign, then digits.  Anything unparsable is 0
//

func parseLeadingInt(s string) int32 {

	var n int32

	s = strings.TrimLeft(s, " \t\r\n\v\f")

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	for i := 0; i < len(s) && isDigit(s[i]); i++ {
		n = n*10 + int32(s[i]-'0')
	}

	if neg {
		n = -n
	}

	return n
}

//
// Same idea for line numbers typed at the prompt, except that we
// saturate instead of wrapping, so a huge number is reported as out
// of range rather than folding back into it
//

func parseLineNumber(s string) (int, int) {

	var n int
	var i int

	for i = 0; i < len(s) && isDigit(s[i]); i++ {
		if n < maxLineNo {
			n = n*10 + int(s[i]-'0')
		}
	}

	return n, i
}
