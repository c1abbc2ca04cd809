// Package lsp implements a language server for the M formula language.
package lsp

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/jsonrpc2"

	"src.mql.sh/pkg/parse"
	"src.mql.sh/pkg/prog"
)

// Program is the LSP subprogram, selected by the -lsp flag.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.LSP {
		return prog.ErrNotSuitable
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if f.LSPLog != "" {
		file, err := os.OpenFile(f.LSPLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer file.Close()
		logger.SetOutput(file)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newServer(parse.Settings{Locale: f.Locale}, logger)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	<-conn.DisconnectNotify()
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
