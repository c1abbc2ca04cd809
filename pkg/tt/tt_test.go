package tt

import (
	"fmt"
	"testing"
)

// testT implements the T interface and records calls to Errorf.
type testT []string

func (t *testT) Helper() {}

func (t *testT) Errorf(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

func add(x, y int) int { return x + y }

func divmod(x, y int) (int, int) { return x / y, x % y }

func TestPass(t *testing.T) {
	var mockT testT
	Test(&mockT, Fn("add", add), Table{
		Args(1, 2).Rets(3),
	})
	if len(mockT) != 0 {
		t.Errorf("passing case reported errors: %v", mockT)
	}
}

func TestFailure(t *testing.T) {
	var mockT testT
	Test(&mockT, Fn("add", add), Table{
		Args(1, 2).Rets(4),
	})
	if len(mockT) != 1 {
		t.Fatalf("failing case reported %d errors", len(mockT))
	}
	if want := "add(1, 2) -> 3, want 4"; mockT[0] != want {
		t.Errorf("error message %q, want %q", mockT[0], want)
	}
}

func TestMultipleReturns(t *testing.T) {
	var mockT testT
	Test(&mockT, Fn("divmod", divmod), Table{
		Args(7, 2).Rets(3, 1),
	})
	if len(mockT) != 0 {
		t.Errorf("passing case reported errors: %v", mockT)
	}
}

func TestAnyMatcher(t *testing.T) {
	var mockT testT
	Test(&mockT, Fn("divmod", divmod), Table{
		Args(7, 2).Rets(Any, 1),
	})
	if len(mockT) != 0 {
		t.Errorf("Any matcher did not match: %v", mockT)
	}
}

func TestCustomFmt(t *testing.T) {
	var mockT testT
	Test(&mockT, Fn("add", add).ArgsFmt("x = %d, y = %d").RetsFmt("%d"), Table{
		Args(1, 2).Rets(4),
	})
	if len(mockT) != 1 {
		t.Fatalf("failing case reported %d errors", len(mockT))
	}
	if want := "add(x = 1, y = 2) -> 3, want 4"; mockT[0] != want {
		t.Errorf("error message %q, want %q", mockT[0], want)
	}
}
