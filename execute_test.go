package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrograms(t *testing.T) {

	cases := []struct {
		name, in, out string
	}{
		{
			"counting loop",
			"10 LET A=0\n20 LET A=A+1\n30 PRINT A\n40 IF A<3 THEN GOTO 20\n50 END\nRUN\n",
			"1\n2\n3\n\nREADY\n",
		},
		{
			"gosub and return",
			"10 GOSUB 100\n20 PRINT 1\n30 END\n100 PRINT 2\n110 RETURN\nRUN\n",
			"2\n1\n\nREADY\n",
		},
		{
			"fall off the end",
			"10 GOSUB 100\n20 PRINT 1\n100 PRINT 2\n110 RETURN\nRUN\n",
			"2\n1\n2\nERR: RETURN underflow\nBREAK at 110\n",
		},
		{
			"computed goto",
			"10 LET N=3\n20 GOTO 100+N*10\n110 PRINT 1\n130 PRINT 3\nRUN\n",
			"3\n\nREADY\n",
		},
		{
			"nested gosub",
			"10 GOSUB 100\n20 END\n100 GOSUB 200\n110 PRINT 1\n120 RETURN\n200 PRINT 2\n210 RETURN\nRUN\n",
			"2\n1\n\nREADY\n",
		},
		{
			"lower case",
			"10 let a = 7\n20 print a * 2\nrun\n",
			"14\n\nREADY\n",
		},
		{
			"run twice",
			"10 PRINT 1\n20 END\nRUN\nRUN\n",
			"1\n\nREADY\n1\n\nREADY\n",
		},
		{
			"variables survive a run",
			"LET B=4\n10 PRINT B\n20 END\nRUN\n",
			"4\n\nREADY\n",
		},
		{
			"syntax error while running",
			"10 PRINT 1\n20 PRNT 2\n30 PRINT 3\nRUN\n",
			"1\nERR: syntax error\nBREAK at 20\n",
		},
		{
			"division by zero while running",
			"10 LET A=5\n20 LET A=A/0\n30 PRINT A\nRUN\nPRINT A\n",
			"ERR: division by zero\nBREAK at 20\n5\n",
		},
		{
			"goto out of range while running",
			"10 GOTO 65536\nRUN\n",
			"ERR: linenum overflow\nBREAK at 10\n",
		},
		{
			"end immediately",
			"END\n",
			"\nREADY\n",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ip, out := runScript(t, c.in)
			assert.Equal(t, c.out, out)
			assert.False(t, ip.state.Running)
		})
	}
}

func TestGosubOverflow(t *testing.T) {

	ip, out := runScript(t, "10 GOSUB 10\nRUN\n")

	assert.Equal(t, "ERR: GOSUB overflow\nBREAK at 10\n", out)
	assert.False(t, ip.state.Running)
	assert.Equal(t, 0, ip.stack.depth())
}

//
// 63 nested calls are fine; the 64th is one too many
//

func TestGosubDepth(t *testing.T) {

	prog := "10 LET D=D+1\n20 IF D<64 THEN GOSUB 10\n30 PRINT D\n40 END\nRUN\n"

	_, out := runScript(t, prog)
	assert.Equal(t, "64\n\nREADY\n", out)

	prog = "10 LET D=D+1\n20 IF D<65 THEN GOSUB 10\n30 PRINT D\n40 END\nRUN\n"

	_, out = runScript(t, prog)
	assert.Equal(t, "ERR: GOSUB overflow\nBREAK at 20\n", out)
}

func TestReturnUnderflow(t *testing.T) {

	ip, out := runScript(t, "RETURN\n")

	assert.Equal(t, "ERR: RETURN underflow\n", out)
	assert.Equal(t, 0, ip.stack.depth())
}

func TestCallStack(t *testing.T) {

	var cs callStack

	cs.push(10)
	cs.push(20)
	assert.Equal(t, 2, cs.depth())
	assert.Equal(t, 20, cs.pop())
	assert.Equal(t, 10, cs.pop())

	for i := 0; i < gosubStackMax; i++ {
		cs.push(i)
	}

	assert.Panics(t, func() { cs.push(1) })
	assert.Equal(t, 0, cs.depth())

	assert.Panics(t, func() { cs.pop() })
	assert.Equal(t, 0, cs.depth())
}

func TestIf(t *testing.T) {

	cases := []struct {
		name, in, out string
	}{
		{"less or equal", "IF 1<=2 THEN PRINT 1\n", "1\n"},
		{"equal", "IF 2=2 THEN PRINT 1\n", "1\n"},
		{"not equal false", "IF 3<>3 THEN PRINT 1\n", ""},
		{"not equal true", "IF 3<>4 THEN PRINT 1\n", "1\n"},
		{"greater false", "IF 1>2 THEN PRINT 1\n", ""},
		{"repeated relop", "IF 1<<2 THEN PRINT 1\n", "1\n"},
		{"three character relop", "IF 2<>=2 THEN PRINT 1\n", "1\n"},
		{"lower case then", "if 1<2 then print 5\n", "5\n"},
		{"blanks", "IF  1 + 1  =  2  THEN   PRINT 9\n", "9\n"},
		{"nested", "IF 1<2 THEN IF 2<3 THEN PRINT 5\n", "5\n"},
		{"nested false", "IF 1<2 THEN IF 3<2 THEN PRINT 5\n", ""},
		{"false clause is not checked", "IF 1>2 THEN BOGUS\n", ""},
		{"four character relop", "IF 1<<<<2 THEN PRINT 1\n", "ERR: syntax error\n"},
		{"missing relop", "IF 1 2 THEN PRINT 1\n", "ERR: syntax error\n"},
		{"missing then", "IF 1<2 PRINT 1\n", "ERR: syntax error\n"},
		{"then glued", "IF 1<2 THENPRINT 1\n", "ERR: syntax error\n"},
		{"empty then", "IF 1<2 THEN\n", "ERR: syntax error\n"},
		{"empty then false", "IF 1>2 THEN   \n", "ERR: syntax error\n"},
		{"bad clause", "IF 1<2 THEN BOGUS\n", "ERR: syntax error\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, out := runScript(t, c.in)
			assert.Equal(t, c.out, out)
		})
	}
}

func TestCompareRelop(t *testing.T) {

	assert.True(t, compareRelop("<", 1, 2))
	assert.False(t, compareRelop("<", 2, 2))
	assert.True(t, compareRelop("<=", 2, 2))
	assert.True(t, compareRelop(">=", 3, 2))
	assert.False(t, compareRelop("<>", 2, 2))
	assert.True(t, compareRelop("=<", 1, 2))
	assert.False(t, compareRelop("=", -1, 1))
}

func TestStatementSyntax(t *testing.T) {

	cases := []struct {
		name, in, out string
	}{
		{"glued keyword", "GOTOX\n", "ERR: syntax error\n"},
		{"glued let", "LETA=1\n", "ERR: syntax error\n"},
		{"glued rem", "REMARK\n", "ERR: syntax error\n"},
		{"rem", "REM anything at all (even this)\n", ""},
		{"bare rem", "REM\n", ""},
		{"unknown", "FOO 1\n", "ERR: syntax error\n"},
		{"let without equals", "LET A 1\n", "ERR: syntax error\n"},
		{"let two letters", "LET AB=1\n", "ERR: syntax error\n"},
		{"let to number", "LET 1=1\n", "ERR: syntax error\n"},
		{"print trailing garbage", "PRINT 1 2\n", "ERR: syntax error\n"},
		{"print nothing", "PRINT\n", "ERR: syntax error\n"},
		{"list with argument", "LIST 10\n", "ERR: syntax error\n"},
		{"end with argument", "END 1\n", "ERR: syntax error\n"},
		{"goto too far", "GOTO 70000\n", "ERR: linenum overflow\n"},
		{"goto negative", "GOTO -1\n", "ERR: linenum overflow\n"},
		{"goto garbage", "GOTO 10 20\n", "ERR: syntax error\n"},
		{"input without variable", "INPUT\n", "ERR: syntax error\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, out := runScript(t, c.in)
			assert.Equal(t, c.out, out)
		})
	}
}

//
// A failed LET leaves the variable alone
//

func TestFailedAssignment(t *testing.T) {

	ip, out := runScript(t, "LET A=5\nLET A=1/0\nLET A=2+\nPRINT A\n")

	assert.Equal(t, "ERR: division by zero\nERR: syntax error\n5\n", out)
	assert.Equal(t, int32(5), ip.vars.get('A'))
}

func TestListAndNew(t *testing.T) {

	_, out := runScript(t, "20 PRINT 2\n5 REM first\n10 PRINT 1\nLIST\n")
	assert.Equal(t, "    5 REM first\n   10 PRINT 1\n   20 PRINT 2\n", out)

	_, out = runScript(t, "10 PRINT 1\n10 PRINT 1\nLIST\n")
	assert.Equal(t, "   10 PRINT 1\n", out)

	_, out = runScript(t, "10 PRINT 1\n10 PRINT 2\nLIST\n")
	assert.Equal(t, "   10 PRINT 2\n", out)

	ip, out := runScript(t, "10 PRINT 1\n20 PRINT 2\nNEW\nLIST\n")
	assert.Empty(t, out)
	assert.Equal(t, 0, ip.program.len())
}

func TestInput(t *testing.T) {

	cases := []struct {
		name, in, out string
	}{
		{"number", "INPUT A\n42\nPRINT A\n", "? 42\n"},
		{"negative", "INPUT A\n  -17 apples\nPRINT A\n", "? -17\n"},
		{"garbage", "INPUT A\nabc\nPRINT A\n", "? 0\n"},
		{"empty", "LET A=9\nINPUT A\n\nPRINT A\n", "? 0\n"},
		{"in a program", "10 INPUT X\n20 PRINT X*2\nRUN\n21\n", "? 42\n\nREADY\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, out := runScript(t, c.in)
			assert.Equal(t, c.out, out)
		})
	}
}

func TestInputEOF(t *testing.T) {

	ip, out := runScript(t, "10 INPUT A\n20 PRINT A\nRUN\n")

	assert.Equal(t, "? ", out)
	assert.True(t, ip.exiting)
	assert.False(t, ip.state.Running)
}

func TestInterrupt(t *testing.T) {

	ip, out := newTestInterp(profileTiny, "")

	require.NoError(t, ip.submit("10 GOTO 10"))
	require.NoError(t, ip.submit("RUN"))
	require.True(t, ip.state.Running)

	for ip.state.LastLine != 10 {
		require.NoError(t, ip.step())
	}

	ip.interrupted.Store(true)

	require.NoError(t, ip.step())

	assert.Equal(t, "ERR: interrupted\nBREAK at 10\n", out.String())
	assert.False(t, ip.state.Running)
	assert.False(t, ip.interrupted.Load())
}

func TestStatistics(t *testing.T) {

	_, out := runScript(t, "STATS\n10 PRINT 1\n20 END\nRUN\n")

	assert.Contains(t, out, "statistics ON\n1\n\n")
	assert.Contains(t, out, "2 statements executed\n")
	assert.Contains(t, out, "\nREADY\n")
}

func TestTraceDump(t *testing.T) {

	_, out := runScript(t, "TRACE DUMP\n10 LET A=5\n20 GOSUB 100\n30 END\n100 RETURN\nRUN\n")

	assert.Contains(t, out, "LastLine")
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "Stack")
}

func TestHelloExecutor(t *testing.T) {

	ip, out := newTestInterp(profileHello, "")

	ip.executeStatement("PRINT 1")
	assert.Equal(t, "line: PRINT 1\n", out.String())

	out.Reset()
	ip.executeStatement("RUN 10")
	assert.Equal(t, "line: RUN 10\n", out.String())
	assert.False(t, ip.state.Running)

	out.Reset()
	ip.executeStatement("run")
	assert.Empty(t, out.String())
	assert.True(t, ip.state.Running)
}

//
// A Ctrl-C that came in while idle must not break the next run
//

func TestRunClearsInterrupt(t *testing.T) {

	ip, out := newTestInterp(profileTiny, "")

	require.NoError(t, ip.submit("10 PRINT 1"))
	require.NoError(t, ip.submit("20 END"))

	ip.interrupted.Store(true)

	require.NoError(t, ip.submit("RUN"))
	require.NoError(t, ip.runProgram())

	assert.Equal(t, "1\n\nREADY\n", out.String())
	assert.False(t, ip.interrupted.Load())
}

//
// END inside a subroutine leaves a frame behind; the next RUN
// starts over with an empty stack
//

func TestRunResetsCallStack(t *testing.T) {

	ip, out := newTestInterp(profileTiny, "")

	require.NoError(t, ip.submit("10 GOSUB 100"))
	require.NoError(t, ip.submit("100 END"))

	for i := 0; i < gosubStackMax+1; i++ {
		require.NoError(t, ip.submit("RUN"))
		require.NoError(t, ip.runProgram())
		assert.Equal(t, 1, ip.stack.depth())
	}

	assert.NotContains(t, out.String(), "ERR:")
}
