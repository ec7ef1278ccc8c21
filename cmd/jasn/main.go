// Command jasn is the JASN interpreter front end: a file runner and a REPL.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	jasn "github.com/JasonTulp/AST-interpreter"
)

const (
	appName     = "jasn"
	historyFile = ".jasn_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("JASN %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", jasn.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(jasn.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`JASN %s

Usage:
  %s run <file.jasn>    Run a script.
  %s repl               Start the REPL.
  %s version            Print the version.

`, jasn.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.jasn>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := jasn.NewRuntime()
	ok, staticErrs := ip.RunSource(string(src))
	if len(staticErrs) > 0 {
		for _, e := range staticErrs {
			fmt.Fprintln(os.Stderr, red(jasn.WrapErrorWithSource(e, string(src)).Error()))
		}
		return 65
	}
	if !ok {
		return 70
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// One interpreter for the whole session: top-level names accumulate in
	// the global frame, so definitions survive across inputs.
	ip := jasn.NewRuntime()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		if _, staticErrs := ip.RunSource(code); len(staticErrs) > 0 {
			for _, e := range staticErrs {
				fmt.Fprintln(os.Stderr, red(jasn.WrapErrorWithSource(e, code).Error()))
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates lines until the input parses as a complete
// program (or fails with a real error, which the evaluation path will report
// properly). Incomplete constructs — an open block, a dangling operator, an
// unterminated string — produce a continuation prompt.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if inputComplete(b.String()) {
			return b.String(), true
		}
	}
}

// inputComplete reports whether src stands on its own as a program. An
// unterminated string or an EOF-flagged parse error means the user is mid
// construct and should get a continuation prompt.
func inputComplete(src string) bool {
	tokens, scanErrs := jasn.NewScanner(src).ScanTokens()
	for _, e := range scanErrs {
		var se *jasn.ScanError
		if errors.As(e, &se) && se.Msg == "Unterminated string." {
			return false
		}
	}
	if len(scanErrs) > 0 {
		return true // real scan error; report it via the evaluation path
	}

	_, parseErrs := jasn.ParseInteractive(tokens)
	for _, e := range parseErrs {
		if jasn.IsIncomplete(e) {
			return false
		}
	}
	return true
}
