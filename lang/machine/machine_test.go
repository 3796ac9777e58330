package machine_test

import (
	"bytes"
	"testing"

	"github.com/bluebat-lang/bluebat/lang/machine"
	"github.com/bluebat-lang/bluebat/lang/parser"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T) (*machine.Machine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	m := machine.New(&out, &out, bytes.NewReader(nil), machine.DefaultGCThreshold, 1000)
	return m, &out
}

func runSrc(t *testing.T, m *machine.Machine, src string) {
	t.Helper()
	prog, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	_, err = m.Eval(prog, m.RootScope())
	require.NoError(t, err)
}

func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"println(1 + 2 * 3)", "7\n"},
		{"a := 1; while a < 5 { a += 1 }; println(a)", "5\n"},
		{"f := |x, y| { x + y }; println(f(3, 4))", "7\n"},
		{"counter := || { n := 0; || { n += 1; n } }(); println(counter()); println(counter())", "1\n2\n"},
		{"[a, b, c] = [10, 20, 30]; println(a + b + c)", "60\n"},
		{"v := [1,2,3,4,5]; [h, ..t] = v; println(t)", "[2,3,4,5]\n"},
	}
	for _, tc := range cases {
		m, out := newMachine(t)
		runSrc(t, m, tc.src)
		require.Equal(t, tc.want, out.String(), tc.src)
	}
}

func TestLookupShadowing(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `a := 1; { a := 2; println(a) }; println(a)`)
	require.Equal(t, "2\n1\n", out.String())
}

func TestClosureCapture(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `make := || { x := 0; || { x += 1; x } }; c := make(); c(); c(); println(c())`)
	require.Equal(t, "3\n", out.String())
}

func TestArrayAliasing(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `a := [1,2]; b := a; b[0] = 9; println(a[0])`)
	require.Equal(t, "9\n", out.String())
}

func TestShortCircuitNoError(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `println(false && undefined_var)`)
	require.Equal(t, "False\n", out.String())
}

func TestCyclicPrintTermination(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `a := [0]; a[0] = a; println(a)`)
	require.Equal(t, "[[...]]\n", out.String())
}

func TestStringIndexReadOnly(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `s := "abc"; println(s[0])`)
	require.Equal(t, "a\n", out.String())

	prog, err := parser.Parse([]byte(`s := "abc"; s[0] = "z"`))
	require.NoError(t, err)
	m2, _ := newMachine(t)
	_, err = m2.Eval(prog, m2.RootScope())
	require.Error(t, err)
}

func TestCastRoundTrip(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `println("3.5" as #number == 3.5); println((3.5 as #string) == "3.5")`)
	require.Equal(t, "True\nTrue\n", out.String())
}

func TestGCCorrectness(t *testing.T) {
	m, _ := newMachine(t)
	runSrc(t, m, `i := 0; while i < 20 { tmp := [i, i, i]; i += 1 }`)

	before := m.Heap.Len()
	m.Collect(m.RootScope())
	after := m.Heap.Len()
	require.Less(t, after, before, "per-iteration tmp arrays should be swept once their loop scope is gone")

	var out bytes.Buffer
	m.Stdout = &out
	runSrc(t, m, `println(i)`)
	require.Equal(t, "20\n", out.String())
}

// TestGCKeepsCyclicClosureAlive exercises the design note's central case
// (spec.md §9): a function captures the scope that binds it, and GC must
// not collect that cycle while it is still reachable through a live
// binding.
func TestGCKeepsCyclicClosureAlive(t *testing.T) {
	m, _ := newMachine(t)
	runSrc(t, m, `make := || { n := 0; self := || { n += 1; n }; self }; c := make()`)
	m.Collect(m.RootScope())

	var out bytes.Buffer
	m.Stdout = &out
	runSrc(t, m, `println(c()); println(c())`)
	require.Equal(t, "1\n2\n", out.String())
}

func TestDestructuringSpreadDistribution(t *testing.T) {
	m, out := newMachine(t)
	runSrc(t, m, `[a, ..b, c] = [1,2,3,4,5]; println(a); println(b); println(c)`)
	require.Equal(t, "1\n[2,3,4]\n5\n", out.String())

	m2, out2 := newMachine(t)
	runSrc(t, m2, `[..x, ..y] = [1,2,3]; println(x); println(y)`)
	require.Equal(t, "[1,2]\n[3]\n", out2.String())
}

func TestUndefinedNameError(t *testing.T) {
	m, _ := newMachine(t)
	prog, err := parser.Parse([]byte(`println(nope)`))
	require.NoError(t, err)
	_, err = m.Eval(prog, m.RootScope())
	require.Error(t, err)
}

func TestArityError(t *testing.T) {
	m, _ := newMachine(t)
	prog, err := parser.Parse([]byte(`f := |x| { x }; f(1, 2)`))
	require.NoError(t, err)
	_, err = m.Eval(prog, m.RootScope())
	require.Error(t, err)
}
