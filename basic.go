package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func main() {

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		crash(err.Error())
	}

	log := setupLogger(cfg.logLevel)

	//
	// We need to close the Liner instances in reverse order, to make
	// sure we end up back in normal (cooked) terminal mode
	//

	console := setupConsole()

	defer func() {
		console.close()
	}()

	ip := newInterp(cfg, console.commands, console.input, os.Stdout, log)

	//
	// Run the signal handling code in a goroutine
	//

	go sigHdlr(ip.interrupted, console)

	printVersionInfo(ip.out, cfg.profile)

	fmt.Fprintln(ip.out, readySignal)

	if cfg.programArg != "" {
		if err := ip.loadProgram(cfg.programArg); err != nil {
			log.Error().Err(err).Msg("load failed")
		}
	}

	if err := ip.repl(); err != nil {
		log.Error().Err(err).Msg("input failed")
		console.close()
		os.Exit(1)
	}
}

func parseFlags(args []string) (config, error) {

	var cfg config
	var trace string

	fs := flag.NewFlagSet("tinybasic", flag.ContinueOnError)

	fs.StringVar(&cfg.profile, "profile", profileTiny, "statement set: tiny or hello")
	fs.BoolVar(&cfg.stats, "stats", false, "print statistics when a run stops")
	fs.StringVar(&trace, "trace", "", "comma separated trace flags: exec, vars, dump")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level for trace and diagnostic output")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: tinybasic [flags] [program]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch cfg.profile {
	case profileTiny, profileHello:
		// ok

	default:
		return cfg, errors.Errorf("unknown profile %q", cfg.profile)
	}

	if trace != "" {
		for _, t := range strings.Split(trace, ",") {
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "exec":
				cfg.traceExec = true

			case "vars":
				cfg.traceVars = true

			case "dump":
				cfg.traceDump = true

			default:
				return cfg, errors.Errorf("unknown trace flag %q", t)
			}
		}
	}

	switch fs.NArg() {
	case 0:
		// nothing to do

	case 1:
		fname, ok := validateProgramFilename(fs.Arg(0))
		if !ok {
			return cfg, errors.Errorf("invalid program filename %q", fs.Arg(0))
		}
		cfg.programArg = fname

	default:
		fs.Usage()
		return cfg, errors.New("too many arguments")
	}

	return cfg, nil
}

//
// Build an interpreter with everything empty: no program, all
// variables 0, nothing on the call stack, idle
//

func newInterp(cfg config, source, console lineReader, out io.Writer,
	log zerolog.Logger) *interp {

	ip := &interp{
		source:      source,
		console:     console,
		out:         out,
		log:         log,
		printStats:  cfg.stats,
		traceExec:   cfg.traceExec,
		traceVars:   cfg.traceVars,
		traceDump:   cfg.traceDump,
		interrupted: new(atomic.Bool),
	}

	if cfg.profile == profileHello {
		ip.keywordMap = buildKeywordMap(helloKeywords)
		ip.fallback = executeEcho
	} else {
		ip.keywordMap = buildKeywordMap(tinyKeywords)
	}

	ip.commandMap = buildCommandMap(sysCommands)

	return ip
}

func printVersionInfo(w io.Writer, profile string) {

	fmt.Fprintf(w, "TINY BASIC version %s - %s profile\n", VERSION, profile)
}

//
// Wrapper routine for a function.  We need this so that panic calls
// can be caught and decoded before returning to our caller.  BASIC
// errors and end of input come back as errors; so do internal
// botches, which also get a stack trace in the log
//

func (ip *interp) call(f func()) (err error) {

	defer func() {
		e := recover()
		if e == nil {
			return
		}

		switch e := e.(type) {
		default:
			panic(e)

		case *basicError:
			err = e

		case *shutdownException:
			err = e

		case *basicErrorInfo:
			ip.log.Debug().Str("stack", string(debug.Stack())).Msg(e.msg)
			err = e

		case runtime.Error:
			ip.log.Debug().Str("stack", string(debug.Stack())).Msg(e.Error())
			err = errors.Wrap(e, "internal error")
		}
	}()

	f()

	return nil
}

//
// The front end.  Decide what a raw line is: blank (ignored), a
// program edit (leading line number), a system command, or a
// statement to run right now
//

func (ip *interp) submit(raw string) error {

	return ip.guard(func() {
		ip.processLine(raw)
	})
}

func (ip *interp) processLine(raw string) {

	line := strings.TrimRight(raw, "\r\n")

	ps := strings.TrimLeft(line, whitespace)
	if strings.TrimRight(ps, whitespace) == "" {
		return
	}

	runtimeCheck(len(line) <= maxLineLen, EINPUTOVERFLOW)

	if isDigit(ps[0]) {
		ip.editProgram(ps)
		return
	}

	ps = strings.TrimRight(ps, whitespace)

	if ip.systemCommand(ps) {
		return
	}

	ip.executeStatement(ps)
}

//
// A numbered line.  The number alone deletes the line; the number,
// some blanks and a statement store it
//

func (ip *interp) editProgram(ps string) {

	lineNo, n := parseLineNumber(ps)

	runtimeCheck(validLineNo(lineNo), ELINENUMOVERFLOW)

	rest := ps[n:]
	text := strings.Trim(rest, whitespace)

	switch {
	case text == "":
		ip.program.clear(lineNo)

	case isWhitespace(rest[0]):
		ip.program.insert(lineNo, text)

	default:
		runtimeError(EMISSINGSEPARATOR)
	}
}

//
// Read and process lines until the source runs dry or the user says
// BYE.  End of input is a normal way to stop, not an error
//

func (ip *interp) repl() error {

	for !ip.exiting {
		line, err := ip.source.readLine(commandPrompt)
		if err != nil {
			if errors.Cause(err) == io.EOF {
				return nil
			}
			return errors.Wrap(err, "read command")
		}

		if err := ip.submit(line); err != nil {
			return ip.shutdownError(err)
		}

		if err := ip.runProgram(); err != nil {
			return ip.shutdownError(err)
		}
	}

	return nil
}

func (ip *interp) shutdownError(err error) error {

	ip.exiting = true

	if errors.Cause(err) == io.EOF {
		return nil
	}

	return err
}

//
// Feed a program file through the front end, exactly as if it had
// been typed.  INPUT statements still read from the console
//

func (ip *interp) loadProgram(fname string) error {

	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrapf(err, "open %s", fname)
	}

	defer f.Close()

	saved := ip.source
	ip.source = newStreamReader(f, nil)

	defer func() {
		ip.source = saved
	}()

	return ip.repl()
}

func writeGoroutineStacks() {

	name := "goroutines-stacks"
	mode := (os.O_CREATE | os.O_WRONLY)

	dumpFile, err := os.OpenFile(name, mode, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s (%v)\n", name, err)
		return
	}

	_ = pprof.Lookup("goroutine").WriteTo(dumpFile, 2)

	crash(fmt.Sprintf("Dumping goroutine stacks to %v and exiting", name))
}

//
// SIGINT only raises a flag; the driver checks it between lines so
// a runaway program can be stopped.  SIGQUIT dumps the goroutine
// stacks
//

func sigHdlr(interrupted *atomic.Bool, console *consoleSet) {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)

	signal.Notify(ch, syscall.SIGQUIT)
	signal.Notify(ch, syscall.SIGINT)

	for {
		sig := <-ch

		switch sig {
		default:
			console.close()
			crash(fmt.Sprintf("Unexpected signal %d", sig))

		case syscall.SIGQUIT:
			console.close()
			writeGoroutineStacks() // does not return

		case syscall.SIGINT:
			interrupted.Store(true)
		}
	}
}
