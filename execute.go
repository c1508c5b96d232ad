package main

import (
	"fmt"
	"strings"
)

//
// Statement table for the tiny profile.  Handlers are entered with
// the cursor just past the keyword; the keyword lookup guarantees it
// is sitting on a blank or at the end of the text
//

var tinyKeywords = []keyword{
	{"END", executeEnd, "Stop the running program"},
	{"GOSUB", executeGosub, "Call the subroutine at a line number expression"},
	{"GOTO", executeGoto, "Continue at a line number expression"},
	{"IF", executeIf, "IF expr relop expr THEN statement"},
	{"INPUT", executeInput, "Read an integer into a variable"},
	{"LET", executeLet, "LET variable = expr"},
	{"LIST", executeList, "List the stored program"},
	{"NEW", executeNew, "Erase the stored program"},
	{"PRINT", executePrint, "Print the value of an expression"},
	{"REM", executeRem, "Remark; ignored"},
	{"RETURN", executeReturn, "Return from a subroutine"},
	{"RUN", executeRun, "Run the stored program from the lowest line"},
}

//
// The hello profile is the same executor with everything but RUN
// taken out, plus a fallback that just echoes the line back
//

var helloKeywords = []keyword{
	{"RUN", executeRun, "Run the stored program from the lowest line"},
}

func executeEcho(ip *interp, c *cursor) {

	fmt.Fprintf(ip.out, "line: %s\n", c.line)
}

func buildKeywordMap(keywords []keyword) map[string]*keyword {

	m := make(map[string]*keyword)

	for i := range keywords {
		m[keywords[i].name] = &keywords[i]
	}

	return m
}

//
// Execute one trimmed statement.  Errors panic out of here; callers
// run us under call() (see guard)
//

func (ip *interp) executeStatement(text string) {

	c := newCursor(text)

	word := strings.ToUpper(c.word())

	kw, ok := ip.keywordMap[word]
	if !ok {
		if ip.fallback != nil {
			ip.fallback(ip, c)
			return
		}

		c.syntaxError()
	}

	c.skipWhitespace()

	kw.handler(ip, c)
}

func executeEnd(ip *interp, c *cursor) {

	c.requireEnd()

	ip.stopRun()
	ip.state.PC = 0

	ip.signalReady()
}

//
// GOTO and GOSUB targets are full expressions, so computed jumps
// (GOTO 100+N*10) work
//

func (ip *interp) evaluateTarget(c *cursor) int {

	n := int(ip.evaluateExpr(c))

	runtimeCheck(validLineNo(n), ELINENUMOVERFLOW)

	c.requireEnd()

	return n
}

func executeGoto(ip *interp, c *cursor) {

	ip.state.PC = ip.evaluateTarget(c)
}

//
// We save the line of the GOSUB itself.  RETURN resumes one past it
//

func executeGosub(ip *interp, c *cursor) {

	target := ip.evaluateTarget(c)

	ip.stack.push(ip.state.LastLine)

	ip.state.PC = target
}

func executeReturn(ip *interp, c *cursor) {

	c.requireEnd()

	ip.state.PC = ip.stack.pop() + 1
}

//
// Every character of the relop run is a comparison of its own, and
// the test passes if any of them does.  So '<=' is less or equal,
// '<>' is less or greater (i.e. not equal), and '<<' is just '<'
//

func compareRelop(relop string, num1, num2 int32) bool {

	result := false

	for i := 0; i < len(relop); i++ {
		switch relop[i] {
		case '<':
			result = result || num1 < num2

		case '>':
			result = result || num1 > num2

		case '=':
			result = result || num1 == num2

		default:
			fatalError(fmt.Sprintf("bad relop character %q", relop[i]))
		}
	}

	return result
}

func executeIf(ip *interp, c *cursor) {

	num1 := ip.evaluateExpr(c)

	relop := c.span(relopChars)
	if len(relop) < 1 || len(relop) > maxRelopLen {
		c.syntaxError()
	}

	num2 := ip.evaluateExpr(c)

	c.skipWhitespace()
	c.requireKeyword("THEN")
	c.skipWhitespace()

	clause := c.rest()
	if clause == "" {
		c.syntaxError()
	}

	//
	// The THEN clause is a statement in its own right, and may be
	// another IF.  Nesting is bounded by the line length
	//

	if compareRelop(relop, num1, num2) {
		ip.executeStatement(clause)
	}
}

func executeInput(ip *interp, c *cursor) {

	ch := c.variable()

	c.requireEnd()

	line, err := ip.console.readLine(executePrompt)
	if err != nil {
		shutdown(err)
	}

	ip.storeVar(ch, parseLeadingInt(line))
}

func executeLet(ip *interp, c *cursor) {

	ch := c.variable()

	c.skipWhitespace()
	c.expect('=')

	num := ip.evaluateExpr(c)

	c.requireEnd()

	ip.storeVar(ch, num)
}

func executeList(ip *interp, c *cursor) {

	c.requireEnd()

	for n, text := range ip.program.all() {
		fmt.Fprintf(ip.out, "%5d %s\n", n, text)
	}
}

func executeNew(ip *interp, c *cursor) {

	c.requireEnd()

	ip.program.clearAll()
}

func executePrint(ip *interp, c *cursor) {

	num := ip.evaluateExpr(c)

	c.requireEnd()

	fmt.Fprintf(ip.out, "%d\n", num)
}

//
// REM only needs its separator, which the keyword lookup already
// checked.  Whatever follows is the remark
//

func executeRem(ip *interp, c *cursor) {
}

//
// A run starts with an empty call stack and no pending interrupt.
// With an echo fallback, only a bare RUN runs; anything longer is
// echoed like any other line
//

func executeRun(ip *interp, c *cursor) {

	if ip.fallback != nil && !c.atEnd() {
		ip.fallback(ip, c)
		return
	}

	c.requireEnd()

	ip.state = execState{Running: true}

	ip.stack.reset()

	if ip.interrupted != nil {
		ip.interrupted.Store(false)
	}

	ip.log.Debug().Int("lines", ip.program.len()).Msg("run")

	ip.resetStatistics()
}

//
// The call stack.  Bounded at gosubStackMax frames; both overflow
// and underflow throw away whatever frames there are
//

func (cs *callStack) push(lineNo int) {

	basicAssert(validLineNo(lineNo), "return address out of range")

	if len(cs.frames) >= gosubStackMax {
		cs.reset()
		runtimeError(EGOSUBOVERFLOW)
	}

	cs.frames = append(cs.frames, lineNo)
}

func (cs *callStack) pop() int {

	if len(cs.frames) == 0 {
		cs.reset()
		runtimeError(ERETURNUNDERFLOW)
	}

	ret := cs.frames[len(cs.frames)-1]

	cs.frames = cs.frames[:len(cs.frames)-1]

	return ret
}

func (cs *callStack) reset() {

	cs.frames = cs.frames[:0]
}

func (cs *callStack) depth() int {

	return len(cs.frames)
}

//
// The execution driver.  One step fetches the line at the program
// counter and runs it.  The counter is bumped *before* the line runs,
// so GOTO, GOSUB and RETURN simply overwrite it.  Empty line numbers
// are stepped over one at a time, like any other line that does
// nothing
//

func (ip *interp) step() error {

	if !validLineNo(ip.state.PC) {
		ip.stopRun()
		ip.signalReady()
		return nil
	}

	return ip.guard(func() {

		if ip.interrupted != nil && ip.interrupted.Swap(false) {
			runtimeError(EINTERRUPTED)
		}

		ip.state.LastLine = ip.state.PC

		text, ok := ip.program.get(ip.state.PC)

		ip.state.PC++

		if !ok {
			return
		}

		if ip.traceExec {
			ip.log.Info().
				Int("line", ip.state.LastLine).
				Int("depth", ip.stack.depth()).
				Str("stmt", text).
				Msg("exec")
		}

		ip.stats.numStatements++

		ip.executeStatement(text)

		if ip.traceDump {
			ip.dumpState()
		}
	})
}

//
// Step until the program stops.  Only a dried-up line source (INPUT
// hitting end of file) comes back as an error
//

func (ip *interp) runProgram() error {

	for ip.state.Running {
		if err := ip.step(); err != nil {
			ip.stopRun()
			return err
		}
	}

	return nil
}

//
// Leave run mode.  Statistics are printed once per run, on the way
// out, whatever the reason for stopping
//

func (ip *interp) stopRun() {

	wasRunning := ip.state.Running

	ip.state.Running = false

	if wasRunning && ip.printStats {
		ip.printStatistics()
	}
}

func (ip *interp) signalReady() {

	fmt.Fprintf(ip.out, "\n%s\n", readySignal)
}

//
// Report a BASIC error.  While running, the run is over: say where
// we were, and drop any pending GOSUB frames
//

func (ip *interp) fault(err error) {

	fmt.Fprintf(ip.out, "ERR: %s\n", err.Error())

	if ip.state.Running {
		fmt.Fprintf(ip.out, "BREAK at %d\n", ip.state.LastLine)
		ip.stack.reset()
		ip.stopRun()
	}
}

//
// Run f, turning a BASIC error into a report.  Anything that means
// the input is gone is handed back to the caller
//

func (ip *interp) guard(f func()) error {

	err := ip.call(f)
	if err == nil {
		return nil
	}

	if isShutdown(err) {
		return err
	}

	if _, ok := errorKindOf(err); !ok {
		ip.log.Error().Err(err).Msg("internal error")
	}

	ip.fault(err)

	return nil
}
