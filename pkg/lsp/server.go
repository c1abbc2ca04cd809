package lsp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.mql.sh/pkg/diag"
	"src.mql.sh/pkg/inspect"
	"src.mql.sh/pkg/nodemap"
	"src.mql.sh/pkg/parse"
	"src.mql.sh/pkg/token"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// document is the analyzed state of one open document.
type document struct {
	content  string
	snapshot *token.Snapshot
	result   *parse.Result
	parseErr error
	cache    *inspect.TypeCache
}

type server struct {
	settings  parse.Settings
	logger    *logrus.Logger
	documents map[lsp.DocumentURI]*document
}

func newServer(settings parse.Settings, logger *logrus.Logger) *server {
	return &server{settings, logger, make(map[lsp.DocumentURI]*document)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"textDocument/didClose": noop,
		// Required by spec.
		"initialized": noop,
		// Called by clients even when the server doesn't advertise support.
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
			HoverProvider:      true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.update(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	// ContentChanges includes the full text since the server only
	// advertises full sync; see the initialize method.
	s.update(ctx, conn, params.TextDocument.URI, params.ContentChanges[0].Text)
	return nil, nil
}

// update re-analyzes a document and publishes its diagnostics. A new
// inspection cache starts with each content change; caches are per document
// version.
func (s *server) update(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	started := time.Now()
	doc := &document{content: content, cache: inspect.NewTypeCache()}

	snapshot, err := token.Tokenize(string(uri), content)
	if err != nil {
		doc.parseErr = err
	} else {
		doc.snapshot = snapshot
		doc.result, doc.parseErr = parse.TryParse(s.settings, snapshot)
	}
	s.documents[uri] = doc

	s.logger.WithFields(logrus.Fields{
		"uri":      uri,
		"ok":       doc.parseErr == nil,
		"duration": time.Since(started),
	}).Info("analyzed")

	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(doc)})
}

func diagnostics(doc *document) []lsp.Diagnostic {
	if doc.parseErr == nil {
		return []lsp.Diagnostic{}
	}
	rg := diag.PointRanging(0)
	if r, ok := doc.parseErr.(diag.Ranger); ok {
		rg = r.Range()
	}
	return []lsp.Diagnostic{{
		Range:    lspRangeFromRange(doc.content, rg),
		Severity: lsp.Error,
		Source:   "parse",
		Message:  doc.parseErr.Error(),
	}}
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok || doc.snapshot == nil {
		return []lsp.CompletionItem{}, nil
	}
	offset := lspPositionToIdx(doc.content, params.Position)
	suggestions := inspect.AutocompleteKeyword(doc.snapshot, doc.result, doc.parseErr, offset)

	items := make([]lsp.CompletionItem, len(suggestions))
	for i, suggestion := range suggestions {
		items[i] = lsp.CompletionItem{
			Label: suggestion,
			Kind:  lsp.CIKKeyword,
		}
	}
	return items, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok || doc.result == nil {
		return lsp.Hover{}, nil
	}
	offset := lspPositionToIdx(doc.content, params.Position)
	x, ok := nodeAt(doc, offset)
	if !ok {
		return lsp.Hover{}, nil
	}
	t, err := inspect.TryType(s.settings, doc.result.Nodes, doc.result.LeafIDs, x, doc.cache)
	if err != nil {
		s.logger.WithError(err).Warn("hover type failed")
		return lsp.Hover{}, nil
	}
	return lsp.Hover{
		Contents: []lsp.MarkedString{{Language: "", Value: t.String()}},
	}, nil
}

// nodeAt finds the innermost expression around the leaf covering the given
// offset: the leaf's parent, since the type of a bare keyword or bracket
// constant is not interesting.
func nodeAt(doc *document, offset int) (nodemap.XorNode, bool) {
	tokenIndex := -1
	for i, t := range doc.snapshot.Tokens {
		if t.Start.Offset <= offset && offset <= t.End.Offset {
			tokenIndex = i
			break
		}
	}
	if tokenIndex == -1 {
		return nodemap.XorNode{}, false
	}
	for id := range doc.result.LeafIDs {
		leaf, ok := doc.result.Nodes.AST(id)
		if !ok {
			continue
		}
		span := leaf.Base().Tokens
		if span.From <= tokenIndex && tokenIndex < span.To {
			if parent, ok := doc.result.Nodes.Parent(id); ok {
				if x, ok := doc.result.Nodes.Xor(parent); ok {
					return x, true
				}
			}
			return nodemap.AstXor(leaf), true
		}
	}
	return nodemap.XorNode{}, false
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
