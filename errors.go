package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

//
// Error kinds.  Every one of them is non-fatal to the process: the
// current statement (or the current run) is abandoned and we go back
// to waiting for input
//

type errorKind int

const (
	ESYNTAX errorKind = iota
	ELINENUMOVERFLOW
	EINPUTOVERFLOW
	EMISSINGSEPARATOR
	EGOSUBOVERFLOW
	ERETURNUNDERFLOW
	EDIVISIONBYZERO
	EINTERRUPTED
)

var errorMsgs = map[errorKind]string{
	ESYNTAX:           "syntax error",
	ELINENUMOVERFLOW:  "linenum overflow",
	EINPUTOVERFLOW:    "eval buf overflow",
	EMISSINGSEPARATOR: "need space after linenum",
	EGOSUBOVERFLOW:    "GOSUB overflow",
	ERETURNUNDERFLOW:  "RETURN underflow",
	EDIVISIONBYZERO:   "division by zero",
	EINTERRUPTED:      "interrupted",
}

func (k errorKind) String() string {

	msg, ok := errorMsgs[k]
	if !ok {
		return fmt.Sprintf("error %d", int(k))
	}

	return msg
}

type basicError struct {
	kind errorKind
}

func (e *basicError) Error() string {
	return e.kind.String()
}

//
// Internal botches (failed assertions).  We record where they were
// raised, since the message alone is rarely enough to go on
//

type basicErrorInfo struct {
	msg  string
	file string
	line int
}

func (e *basicErrorInfo) Error() string {
	return fmt.Sprintf("%s at %s line %d", e.msg, e.file, e.line)
}

//
// Raised when the line source runs dry in the middle of something
// (e.g. INPUT).  Carries the underlying reader error so callers can
// check for io.EOF with errors.Cause
//

type shutdownException struct {
	err error
}

func (e *shutdownException) Error() string {
	return e.err.Error()
}

func (e *shutdownException) Cause() error {
	return e.err
}

//
// Returns the kind of a BASIC error, and false for anything else
//

func errorKindOf(err error) (errorKind, bool) {

	var be *basicError

	if errors.As(err, &be) {
		return be.kind, true
	}

	return 0, false
}

func isShutdown(err error) bool {

	var se *shutdownException

	return errors.As(err, &se) || errors.Cause(err) == io.EOF
}

func runtimeError(kind errorKind) {

	panic(&basicError{kind: kind})
}

func runtimeCheck(chk bool, kind errorKind) {

	if !chk {
		runtimeError(kind)
	}
}

func basicAssert(chk bool, msg string) {

	if !chk {
		fatalError(msg)
	}
}

//
// We find the filename and line number of our caller, and stuff those
// into the basicErrorInfo structure before calling panic
//

func fatalError(msg string) {

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "???"
	}

	panic(&basicErrorInfo{msg: strings.TrimRight(msg, "\n"), file: file, line: line})
}

func shutdown(err error) {

	panic(&shutdownException{err: errors.Wrap(err, "read line")})
}
