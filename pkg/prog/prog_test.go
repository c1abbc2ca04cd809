package prog

import (
	"errors"
	"os"
	"strings"
	"testing"
)

type fixedProgram struct {
	err error
	ran *bool
}

func (p fixedProgram) Run(_ [3]*os.File, _ *Flags, _ []string) error {
	if p.ran != nil {
		*p.ran = true
	}
	return p.err
}

func testFds(t *testing.T) ([3]*os.File, *os.File) {
	t.Helper()
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	out, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { devNull.Close(); out.Close() })
	return [3]*os.File{devNull, out, out}, out
}

func TestRunExitCodes(t *testing.T) {
	fds, _ := testFds(t)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"exit error", Exit(3), 3},
		{"plain error", errors.New("boom"), 2},
		{"bad usage", BadUsage("bad"), 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Run(fds, []string{"mqls"}, fixedProgram{err: test.err})
			if got != test.want {
				t.Errorf("Run -> %d, want %d", got, test.want)
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	fds, out := testFds(t)
	ran := false
	if got := Run(fds, []string{"mqls", "-help"}, fixedProgram{ran: &ran}); got != 0 {
		t.Errorf("Run(-help) -> %d", got)
	}
	if ran {
		t.Error("subprogram ran despite -help")
	}
	data, _ := os.ReadFile(out.Name())
	if !strings.Contains(string(data), "Usage: mqls") {
		t.Errorf("help output: %q", data)
	}
}

func TestRunBadFlag(t *testing.T) {
	fds, _ := testFds(t)
	if got := Run(fds, []string{"mqls", "-no-such-flag"}, fixedProgram{}); got != 2 {
		t.Errorf("Run(bad flag) -> %d, want 2", got)
	}
}

func TestComposite(t *testing.T) {
	fds, _ := testFds(t)
	second := false
	p := Composite(
		fixedProgram{err: ErrNotSuitable},
		fixedProgram{ran: &second},
	)
	if got := Run(fds, []string{"mqls"}, p); got != 0 {
		t.Errorf("Run(composite) -> %d", got)
	}
	if !second {
		t.Error("composite did not fall through to the second program")
	}
}

func TestExitZeroIsNil(t *testing.T) {
	if Exit(0) != nil {
		t.Error("Exit(0) is not nil")
	}
}
