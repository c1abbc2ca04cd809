// Mqls is a parser and static-analysis toolkit for the M formula language.
// It checks documents from the command line and speaks the language server
// protocol for editors.
package main

import (
	"os"

	"src.mql.sh/pkg/check"
	"src.mql.sh/pkg/lsp"
	"src.mql.sh/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(lsp.Program{}, check.Program{})))
}
