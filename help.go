package main

import (
	"fmt"
	"sort"
	"strings"
)

//
// System commands.  These belong to the front end rather than the
// language: they are only recognized on an immediate line, never
// stored, and never seen by a running program
//

var sysCommands = []sysCommand{
	{"BYE", executeBye, "Exit from TINY BASIC"},
	{"HELP", executeHelp, "List statements and commands, or describe one"},
	{"STATS", executeStats, "Toggle printing execution statistics when a run stops"},
	{"TRACE", executeTrace, "Toggle tracing: TRACE EXEC, TRACE VARS, TRACE DUMP"},
}

func buildCommandMap(cmds []sysCommand) map[string]*sysCommand {

	m := make(map[string]*sysCommand)

	for i := range cmds {
		m[cmds[i].name] = &cmds[i]
	}

	return m
}

//
// Returns true if the line was a system command (which has then
// already been carried out)
//

func (ip *interp) systemCommand(ps string) bool {

	fields := strings.Fields(ps)
	if len(fields) == 0 {
		return false
	}

	cmd, ok := ip.commandMap[strings.ToUpper(fields[0])]
	if !ok {
		return false
	}

	cmd.handler(ip, fields[1:])

	return true
}

func executeBye(ip *interp, args []string) {

	ip.exiting = true
}

func executeStats(ip *interp, args []string) {

	ip.printStats = !ip.printStats

	fmt.Fprintf(ip.out, "statistics %s\n", switchSetting(ip.printStats))
}

//
// Toggle trace flags
//

func executeTrace(ip *interp, args []string) {

	if len(args) == 0 {
		fmt.Fprintf(ip.out, "trace exec %s\n", switchSetting(ip.traceExec))
		fmt.Fprintf(ip.out, "trace vars %s\n", switchSetting(ip.traceVars))
		fmt.Fprintf(ip.out, "trace dump %s\n", switchSetting(ip.traceDump))
		return
	}

	for _, arg := range args {
		switch strings.ToUpper(arg) {
		default:
			fmt.Fprintf(ip.out, "unknown trace flag %q\n", arg)

		case "EXEC":
			ip.traceExec = !ip.traceExec
			fmt.Fprintf(ip.out, "toggling trace exec %s\n", switchSetting(ip.traceExec))

		case "VARS":
			ip.traceVars = !ip.traceVars
			fmt.Fprintf(ip.out, "toggling trace vars %s\n", switchSetting(ip.traceVars))

		case "DUMP":
			ip.traceDump = !ip.traceDump
			fmt.Fprintf(ip.out, "toggling trace dump %s\n", switchSetting(ip.traceDump))
		}
	}
}

func executeHelp(ip *interp, args []string) {

	if len(args) == 0 {
		fmt.Fprintln(ip.out, "statements:")
		for _, name := range sortedNames(ip.keywordMap) {
			fmt.Fprintf(ip.out, "\t%s\n", strings.ToLower(name))
		}

		fmt.Fprintln(ip.out, "commands:")
		for _, name := range sortedNames(ip.commandMap) {
			fmt.Fprintf(ip.out, "\t%s\n", strings.ToLower(name))
		}
		return
	}

	name := strings.ToUpper(args[0])

	if kw, ok := ip.keywordMap[name]; ok {
		fmt.Fprintln(ip.out, kw.help)
	} else if cmd, ok := ip.commandMap[name]; ok {
		fmt.Fprintln(ip.out, cmd.help)
	} else {
		fmt.Fprintf(ip.out, "no help for %q\n", args[0])
	}
}

func sortedNames[T any](m map[string]T) []string {

	names := make([]string, 0, len(m))

	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
