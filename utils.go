package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danswartzendruber/liner"
	"github.com/goforj/godump"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
)

//
// Line sources.  On a terminal we use two Liner instances, one for
// command entry and one for INPUT statements, because we want a
// scrollback history for the former but not the latter.  Otherwise
// both read from one shared buffered reader, so INPUT sees the next
// line of a piped script
//

type linerReader struct {
	state   *liner.State
	history bool
	input   bool
}

type streamReader struct {
	r      *bufio.Reader
	prompt io.Writer
}

type consoleSet struct {
	commands  lineReader
	input     lineReader
	liners    []*liner.State
	closeOnce sync.Once
}

func newStreamReader(r io.Reader, prompt io.Writer) *streamReader {

	return &streamReader{r: bufio.NewReader(r), prompt: prompt}
}

//
// A final line with no newline still counts; EOF is only reported
// once there is nothing left at all
//

func (sr *streamReader) readLine(prompt string) (string, error) {

	if sr.prompt != nil && prompt != "" {
		fmt.Fprint(sr.prompt, prompt)
	}

	line, err := sr.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", err
	}

	return strings.TrimSuffix(line, "\n"), nil
}

//
// Annoyingly, a non-nil error here can be totally okay.  io.EOF is
// the user typing ^D at the beginning of the line.  ^C at the command
// prompt just throws the line away; ^C in an INPUT statement stops
// the program, same as ^C while it is running
//

func (lr *linerReader) readLine(prompt string) (string, error) {

	s, err := lr.state.Prompt(prompt)
	if err != nil {
		if err == liner.ErrPromptAborted {
			runtimeCheck(!lr.input, EINTERRUPTED)
			return "", nil
		}

		return "", err
	}

	if lr.history && strings.TrimSpace(s) != "" {
		lr.state.AppendHistory(s)
	}

	return s, nil
}

func setupLiner() *liner.State {

	l := liner.NewLiner()

	l.SetCtrlCAborts(true)

	return l
}

func isInteractive() bool {

	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func setupConsole() *consoleSet {

	cs := &consoleSet{}

	if !isInteractive() {
		sr := newStreamReader(os.Stdin, os.Stdout)
		cs.commands = sr
		cs.input = sr
		return cs
	}

	parserLiner := setupLiner()
	inputLiner := setupLiner()

	cs.liners = []*liner.State{parserLiner, inputLiner}
	cs.commands = &linerReader{state: parserLiner, history: true}
	cs.input = &linerReader{state: inputLiner, input: true}

	return cs
}

//
// Restore terminal state.  The Close method is documented as
// 'restoring the terminal to its previous state', so the instances
// have to go in the reverse of the order they were created
//

func (cs *consoleSet) close() {

	cs.closeOnce.Do(func() {
		for i := len(cs.liners) - 1; i >= 0; i-- {
			cs.liners[i].Close()
		}
	})
}

//
// Trace and diagnostic output goes to standard error, so it never
// mixes with what the BASIC program prints
//

func setupLogger(level string) zerolog.Logger {

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

//
// Print a fatal message and abort the process.  We write to standard
// error, since the user may have redirected standard output
//

func crash(msg string) {

	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	os.Exit(1)
}

//
// Return valid suffix if present
//

func getFilenameSuffix(filename string) (string, bool) {

	strs := strings.Split(filename, ".")

	switch len(strs) {
	default:
		return "", false

	case 1:
		return "", true

	case 2:
		return "." + strs[1], true
	}
}

//
// Take a filename for a source program and sanity check any
// possible suffix.  If no suffix, append ".bas" and return
// the new filename
//

func validateProgramFilename(filename string) (string, bool) {

	suffix, ok := getFilenameSuffix(filename)
	if !ok || (suffix != "" && suffix != basFileSuffix) {
		return "", false
	} else if suffix == "" {
		return filename + basFileSuffix, true
	} else {
		return filename, true
	}
}

func pluralize(str string, num int64) string {

	//
	// Oddity: 0 is considered plural
	//

	if num != 1 {
		return str + "s"
	}

	return str
}

func switchSetting(b bool) string {

	if b {
		return "ON"
	} else {
		return "OFF"
	}
}

//
// Run statistics
//

func (ip *interp) resetStatistics() {

	ip.stats = runStats{elapsed: time.Now()}

	if utime, stime, err := getCPUInfo(); err == nil {
		ip.stats.utime, ip.stats.stime = utime, stime
	}
}

func (ip *interp) printStatistics() {

	fmt.Fprintln(ip.out)

	if utime, stime, err := getCPUInfo(); err != nil {
		ip.log.Debug().Err(err).Msg("no CPU usage available")
	} else {
		elapsed := time.Since(ip.stats.elapsed)

		fmt.Fprintf(ip.out, "CPU Usage: elapsed = %s / user = %s / system = %s\n",
			formatCPUTime(int64(elapsed.Seconds())),
			formatCPUTime(utime-ip.stats.utime),
			formatCPUTime(stime-ip.stats.stime))
	}

	fmt.Fprintf(ip.out, "%d %s executed\n", ip.stats.numStatements,
		pluralize("statement", ip.stats.numStatements))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// User and system CPU seconds for this process, from /proc.  Only
// Linux has that, so elsewhere the caller just skips the CPU line
//

func getCPUInfo() (int64, int64, error) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0, errors.Wrap(err, "sysconf")
	}

	if clktck <= 0 {
		return 0, 0, errors.Errorf("bad clock tick rate %d", clktck)
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0, errors.Wrap(err, "read /proc/self/stat")
	}

	//
	// The command name (field 2) is in parentheses and may contain
	// blanks, so start counting after the closing one
	//

	stat := string(contents)
	if idx := strings.LastIndexByte(stat, ')'); idx >= 0 {
		stat = stat[idx+1:]
	}

	fields := strings.Fields(stat)
	if len(fields) < 13 {
		return 0, 0, errors.New("short /proc/self/stat")
	}

	utime, err := strconv.ParseInt(fields[11], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrap(err, "utime")
	}

	stime, err := strconv.ParseInt(fields[12], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrap(err, "stime")
	}

	return utime / clktck, stime / clktck, nil
}

//
// TRACE DUMP: the execution state, call stack and nonzero variables
// after each executed line
//

func (ip *interp) snapshot() traceSnapshot {

	return traceSnapshot{
		State: ip.state,
		Stack: append([]int(nil), ip.stack.frames...),
		Vars:  ip.vars.snapshot(),
	}
}

func (ip *interp) dumpState() {

	godump.Fdump(ip.out, ip.snapshot())
}
