// Package prog provides the entry point to mqls. Its sibling packages
// correspond to subprograms: the checker and the language server.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Flags keeps command-line flags common to all subprograms.
type Flags struct {
	Help, Version bool

	// Locale names the message-template table used for diagnostics.
	Locale string

	// LSP selects the language-server subprogram.
	LSP bool
	// LSPLog is a file the language server writes its request log to.
	LSPLog string

	// Dump pretty-prints the syntax tree after a successful check.
	Dump bool
	// Cache is the path to the check-result cache; empty disables it.
	Cache string
	// Config is the path to an optional YAML config file.
	Config string
}

func newFlagSet(f *Flags) *flag.FlagSet {
	fs := flag.NewFlagSet("mqls", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	fs.BoolVar(&f.Help, "help", false, "show usage help and quit")
	fs.BoolVar(&f.Version, "version", false, "show version and quit")
	fs.StringVar(&f.Locale, "locale", "", "locale for diagnostic messages")

	fs.BoolVar(&f.LSP, "lsp", false, "run the language server instead of checking files")
	fs.StringVar(&f.LSPLog, "lsp-log", "", "file to write the language server request log to")

	fs.BoolVar(&f.Dump, "dump", false, "pretty-print the syntax tree after checking")
	fs.StringVar(&f.Cache, "cache", "", "path to the check-result cache")
	fs.StringVar(&f.Config, "config", "", "path to a config file")

	return fs
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: mqls [flags] [file...]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs the first applicable subprogram.
// It returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	f := &Flags{}
	fs := newFlagSet(f)
	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h was requested
			// but not defined. Handle this by printing the same message as
			// an undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if f.Help {
		usage(fds[1], fs)
		return 0
	}

	err = p.Run(fds, f, fs.Args())
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return ErrNotSuitable.
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, f, args)
		if err != ErrNotSuitable {
			return err
		}
	}
	// If we have reached here, all subprograms have returned ErrNotSuitable.
	return ErrNotSuitable
}

// ErrNotSuitable is a special error that may be returned by Program.Run, to
// signify that this Program should not be run. It is useful when a Program
// is used in Composite.
var ErrNotSuitable = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It
// causes the main function to exit with the given code without printing any
// error messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

// Program represents a subprogram.
type Program interface {
	// Run runs the subprogram.
	Run(fds [3]*os.File, f *Flags, args []string) error
}
