package main

//
// Expression evaluator.  Predictive recursive descent: the first
// character decides which production we are in, and we compute the
// value on the way back up, so there is no tree.  The grammar is
//
//   expr      := addlevel
//   addlevel  := mullevel (('+'|'-') mullevel)*
//   mullevel  := primary  (('*'|'/'|'%') primary)*
//   primary   := '(' expr ')' | letter | [('+'|'-')] digits
//
// Blanks are allowed around every token.  A failure anywhere panics
// out through every level (see cursor.syntaxError), so a caller
// either gets a complete value or nothing at all
//

func (ip *interp) evaluateExpr(c *cursor) int32 {

	return ip.evaluateAddLevel(c)
}

func (ip *interp) evaluateAddLevel(c *cursor) int32 {

	num := ip.evaluateMulLevel(c)

	for {
		c.skipWhitespace()

		switch c.peek() {
		case '+':
			c.advance()
			num += ip.evaluateMulLevel(c)

		case '-':
			c.advance()
			num -= ip.evaluateMulLevel(c)

		default:
			return num
		}
	}
}

func (ip *interp) evaluateMulLevel(c *cursor) int32 {

	num := ip.evaluatePrimary(c)

	for {
		c.skipWhitespace()

		switch c.peek() {
		case '*':
			c.advance()
			num *= ip.evaluatePrimary(c)

		case '/':
			c.advance()
			divisor := ip.evaluatePrimary(c)
			runtimeCheck(divisor != 0, EDIVISIONBYZERO)
			num /= divisor

		case '%':
			c.advance()
			divisor := ip.evaluatePrimary(c)
			runtimeCheck(divisor != 0, EDIVISIONBYZERO)
			num %= divisor

		default:
			return num
		}
	}
}

func (ip *interp) evaluatePrimary(c *cursor) int32 {

	var num int32

	c.skipWhitespace()

	ch := c.peek()

	switch {
	case ch == '(':
		c.advance()
		num = ip.evaluateExpr(c)
		c.skipWhitespace()
		c.expect(')')

	case isLetter(ch):
		c.advance()
		num = ip.lookupVar(ch)

	//
	// A sign only counts as part of a number, so '+-5' and '-(5)'
	// are both errors.  digits() insists on at least one digit
	//

	case ch == '+' || ch == '-':
		c.advance()
		num = c.digits()
		if ch == '-' {
			num = -num
		}

	case isDigit(ch):
		num = c.digits()

	default:
		c.syntaxError()
	}

	c.skipWhitespace()

	return num
}
