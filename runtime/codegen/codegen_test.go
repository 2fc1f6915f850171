package codegen_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"kodelang.dev/cellc/core/cell"
	"kodelang.dev/cellc/core/db"
	"kodelang.dev/cellc/runtime/codegen"
	"kodelang.dev/cellc/runtime/cst"
	"kodelang.dev/cellc/runtime/lower"
	"kodelang.dev/cellc/runtime/optimize"
	"kodelang.dev/cellc/runtime/parser"
)

func compile(t *testing.T, src string) cell.Tree {
	t.Helper()
	tree := parser.Parse([]byte(src))
	require.Empty(t, tree.Errors)

	root := cst.Build(tree)
	database := db.New()
	result, errs := lower.Lower(database, root, tree.Source)
	require.Empty(t, errs)

	mainLir := optimize.OptimizeMain(database, result.Main)
	return codegen.Generate(database, mainLir)
}

// TestGenerateSimpleArithmeticMatchesGoldenTree is a structural snapshot: it
// diffs the generated cell.Tree against a hand-built expected shape with
// go-cmp, the same "diff the whole tree in one shot" use go-cmp is grounded
// for, rather than asserting only the evaluated integer result.
// `fun main() -> Int { 1 + 2 }` has no let-scopes, captures or parameters,
// so its Curry takes no args and its body is a bare `(+ (q . 1) (q . 2))`
// opcode form wrapped in the main-emission formula `(a (q . body) 1)`.
func TestGenerateSimpleArithmeticMatchesGoldenTree(t *testing.T) {
	got := compile(t, "fun main() -> Int { 1 + 2 }")

	one := cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.AtomInt64(1)}
	two := cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.AtomInt64(2)}
	body := cell.List(cell.AtomInt64(cell.OpAdd), one, two)
	quotedBody := cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: body}
	argList := cell.AtomInt64(1) // no Curry args: runtime_list of [] onto path 1 is just path 1
	want := cell.List(cell.AtomInt64(cell.OpApply), quotedBody, argList)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generated tree mismatch (-want +got):\n%s", diff)
	}
}

func compileAndRun(t *testing.T, src string) cell.Tree {
	t.Helper()
	tree := parser.Parse([]byte(src))
	require.Empty(t, tree.Errors)

	root := cst.Build(tree)
	database := db.New()
	result, errs := lower.Lower(database, root, tree.Source)
	require.Empty(t, errs)

	mainLir := optimize.OptimizeMain(database, result.Main)
	program := codegen.Generate(database, mainLir)

	out, err := cell.Eval(program, cell.Nil)
	require.NoError(t, err)
	return out
}

func asInt(t *testing.T, tree cell.Tree) int64 {
	t.Helper()
	atom, ok := tree.(cell.Atom)
	require.True(t, ok)
	return cell.DecodeInt(atom.Bytes).Int64()
}

func TestEndToEndScenario1SimpleArithmetic(t *testing.T) {
	out := compileAndRun(t, "fun main() -> Int { 1 + 2 }")
	require.Equal(t, int64(3), asInt(t, out))
}

func TestEndToEndScenario2LessThanComparison(t *testing.T) {
	out := compileAndRun(t, "fun main() -> Int { if 1 < 2 { 10 } else { 20 } }")
	require.Equal(t, int64(10), asInt(t, out))
}

func TestEndToEndScenario3DirectFunctionCall(t *testing.T) {
	out := compileAndRun(t,
		"fun add(a: Int, b: Int) -> Int { a + b }\nfun main() -> Int { add(2, 3) }")
	require.Equal(t, int64(5), asInt(t, out))
}

func TestEndToEndScenario4NestedClosureCapturingTopLevelFunction(t *testing.T) {
	src := "fun inc(x: Int) -> Int { x + 1 }\n" +
		"fun twice(f: fun(Int) -> Int, x: Int) -> Int { f(f(x)) }\n" +
		"fun main() -> Int { twice(inc, 5) }"
	out := compileAndRun(t, src)
	require.Equal(t, int64(7), asInt(t, out))
}

func TestEndToEndScenario5ListIndexAndArithmetic(t *testing.T) {
	out := compileAndRun(t, "fun main() -> Int { [10, 20, 30][1] + 1 }")
	require.Equal(t, int64(21), asInt(t, out))
}

func TestEndToEndScenario6ComparisonDesugaring(t *testing.T) {
	out := compileAndRun(t, "fun main() -> Int { if 3 >= 3 { 1 } else { 0 } }")
	require.Equal(t, int64(1), asInt(t, out))
}

func TestEndToEndSelfRecursiveFunction(t *testing.T) {
	src := "fun fact(n: Int) -> Int { if n == 0 { 1 } else { n * fact(n - 1) } }\n" +
		"fun main() -> Int { fact(4) }"
	out := compileAndRun(t, src)
	require.Equal(t, int64(24), asInt(t, out))
}

func TestEndToEndLetScopesAndModulo(t *testing.T) {
	out := compileAndRun(t, "fun main() -> Int { let x = 17; let y = 5; x % y }")
	require.Equal(t, int64(2), asInt(t, out))
}

func TestEndToEndNotEqualsAndNegative(t *testing.T) {
	out := compileAndRun(t, "fun main() -> Int { if 3 != 4 { 0 - 1 } else { 1 } }")
	require.Equal(t, big.NewInt(-1).Int64(), asInt(t, out))
}
