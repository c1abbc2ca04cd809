// Package check implements the checker subprogram: it parses the given
// files (or stdin), reports diagnostics, and optionally dumps the syntax
// tree. Results for unchanged sources are served from an on-disk cache.
package check

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/diag"
	"src.mql.sh/pkg/parse"
	"src.mql.sh/pkg/prog"
	"src.mql.sh/pkg/store"
)

// Config is the YAML config file read when -config is given.
type Config struct {
	Locale string `yaml:"locale"`
	Cache  string `yaml:"cache"`
}

// Program is the checker subprogram.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.LSP {
		return prog.ErrNotSuitable
	}
	if f.Version {
		fmt.Fprintln(fds[1], version)
		return nil
	}

	cfg, err := loadConfig(f.Config)
	if err != nil {
		return err
	}
	settings := parse.Settings{Locale: firstNonEmpty(f.Locale, cfg.Locale)}
	cachePath := firstNonEmpty(f.Cache, cfg.Cache)

	var cache *store.Store
	if cachePath != "" {
		cache, err = store.Open(cachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	color := isatty.IsTerminal(fds[2].Fd())

	failed := false
	for _, source := range sourcesFromArgs(fds, args) {
		name, src, err := source.read()
		if err != nil {
			return err
		}
		ok, err := checkOne(fds, f, settings, cache, color, name, src)
		if err != nil {
			return err
		}
		if !ok {
			failed = true
		}
	}
	if failed {
		return prog.Exit(1)
	}
	return nil
}

const version = "mqls 0.1.0"

func checkOne(fds [3]*os.File, f *prog.Flags, settings parse.Settings,
	cache *store.Store, color bool, name, src string) (bool, error) {

	if cache != nil {
		digest := store.Digest(src)
		if outcome, found, err := cache.Get(digest); err != nil {
			return false, err
		} else if found {
			for _, d := range outcome.Diagnostics {
				showStored(fds[2], color, name, src, d)
			}
			return len(outcome.Diagnostics) == 0, nil
		}
	}

	result, parseErr := parse.TryParseText(settings, name, src)
	outcome := store.Outcome{}
	ok := parseErr == nil
	if parseErr != nil {
		showError(fds[2], color, parseErr)
		if r, isRanger := parseErr.(diag.Ranger); isRanger {
			rg := r.Range()
			outcome.Diagnostics = append(outcome.Diagnostics,
				store.Diagnostic{From: rg.From, To: rg.To, Message: parseErr.Error()})
		}
	} else if f.Dump {
		ast.PprintTo(fds[1], result.Root)
	}

	if cache != nil {
		if err := cache.Put(store.Digest(src), outcome); err != nil {
			return false, err
		}
	}
	return ok, nil
}

func showError(w io.Writer, color bool, err error) {
	if shower, ok := err.(diag.Shower); ok && color {
		fmt.Fprintln(w, shower.Show(""))
		return
	}
	fmt.Fprintln(w, err.Error())
}

func showStored(w io.Writer, color bool, name, src string, d store.Diagnostic) {
	if color {
		e := diag.Error{
			Type:    "parse error",
			Message: d.Message,
			Context: *diag.NewContext(name, src, diag.Ranging{From: d.From, To: d.To}),
		}
		fmt.Fprintln(w, e.Show(""))
		return
	}
	fmt.Fprintln(w, d.Message)
}

type source struct {
	name string
	file *os.File // stdin
	path string   // file on disk
}

func (s source) read() (string, string, error) {
	if s.file != nil {
		data, err := io.ReadAll(s.file)
		return s.name, string(data), err
	}
	data, err := os.ReadFile(s.path)
	return s.name, string(data), err
}

func sourcesFromArgs(fds [3]*os.File, args []string) []source {
	if len(args) == 0 {
		return []source{{name: "<stdin>", file: fds[0]}}
	}
	sources := make([]source, len(args))
	for i, arg := range args {
		sources[i] = source{name: arg, path: arg}
	}
	return sources
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
