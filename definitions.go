package main

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/danswartzendruber/avl"
	"github.com/rs/zerolog"
)

//
// Constants
//

const VERSION = "1.0.0"

const basFileSuffix = ".bas"

// Line numbers (and GOTO/GOSUB targets) live in [0, maxLineNo)

const maxLineNo = 65536

const gosubStackMax = 63

const maxLineLen = 255

const numVariables = 26

const maxRelopLen = 3

const whitespace = " \t"

const relopChars = "<>="

const readySignal = "READY"

const executePrompt = "? "

const commandPrompt = ""

//
// Interpreter profiles.  The hello profile only knows RUN, and
// echoes everything else back
//

const (
	profileTiny  = "tiny"
	profileHello = "hello"
)

//
// Type definitions
//

//
// A stored program line.  The AVL header must stay embedded, as
// the tree links through it
//

type stmtNode struct {
	avl    avl.AvlNode
	lineNo int
	text   string
}

type programStore struct {
	root  *avl.AvlNode
	count int
}

type varBank [numVariables]int32

type callStack struct {
	frames []int
}

//
// Exported field names so godump shows them in TRACE DUMP output
//

type execState struct {
	Running  bool
	PC       int
	LastLine int
}

type traceSnapshot struct {
	State execState
	Stack []int
	Vars  map[string]int32
}

//
// Parse position within a single statement.  There is no failure
// flag: a syntax error panics, so a cursor never outlives one
//

type cursor struct {
	line string
	pos  int
}

type stmtHandler func(ip *interp, c *cursor)

type keyword struct {
	name    string
	handler stmtHandler
	help    string
}

type sysCommand struct {
	name    string
	handler func(ip *interp, args []string)
	help    string
}

//
// Anything that can hand us a line of text.  The Front End uses one
// for command entry, INPUT uses another (they may be the same)
//

type lineReader interface {
	readLine(prompt string) (string, error)
}

type config struct {
	profile    string
	stats      bool
	traceExec  bool
	traceVars  bool
	traceDump  bool
	logLevel   string
	programArg string
}

type runStats struct {
	elapsed       time.Time
	utime         int64
	stime         int64
	numStatements int64
}

//
// The interpreter context.  Everything a running program can touch
// hangs off of this, so independent instances never share state
//

type interp struct {
	program     programStore
	vars        varBank
	stack       callStack
	state       execState
	keywordMap  map[string]*keyword
	fallback    stmtHandler
	commandMap  map[string]*sysCommand
	source      lineReader
	console     lineReader
	out         io.Writer
	log         zerolog.Logger
	stats       runStats
	printStats  bool
	traceExec   bool
	traceVars   bool
	traceDump   bool
	interrupted *atomic.Bool
	exiting     bool
}
