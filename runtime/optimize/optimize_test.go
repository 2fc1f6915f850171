package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kodelang.dev/cellc/core/db"
	"kodelang.dev/cellc/core/ids"
	"kodelang.dev/cellc/core/lir"
	"kodelang.dev/cellc/runtime/cst"
	"kodelang.dev/cellc/runtime/lower"
	"kodelang.dev/cellc/runtime/optimize"
	"kodelang.dev/cellc/runtime/parser"
)

func optimizeSource(t *testing.T, src string) (*db.Database, ids.LirID) {
	t.Helper()
	tree := parser.Parse([]byte(src))
	require.Empty(t, tree.Errors)
	root := cst.Build(tree)
	database := db.New()
	result, errs := lower.Lower(database, root, tree.Source)
	require.Empty(t, errs)
	main := optimize.OptimizeMain(database, result.Main)
	return database, main
}

func TestOptimizeSimpleArithmeticProducesAddOfTwoAtoms(t *testing.T) {
	database, main := optimizeSource(t, "fun main() -> Int { 1 + 2 }")

	curry, ok := database.Lir(main).(lir.Curry)
	require.True(t, ok)
	require.Empty(t, curry.Args)

	add, ok := database.Lir(curry.Body).(lir.Add)
	require.True(t, ok)
	require.Len(t, add.Operands, 2)
	_, ok = database.Lir(add.Operands[0]).(lir.Atom)
	require.True(t, ok)
}

func TestOptimizeDirectCallUsesPathNotClosure(t *testing.T) {
	database, main := optimizeSource(t,
		"fun add(a: Int, b: Int) -> Int { a + b }\nfun main() -> Int { add(2, 3) }")

	curry := database.Lir(main).(lir.Curry)
	run, ok := database.Lir(curry.Body).(lir.Run)
	require.True(t, ok)
	require.Len(t, run.Args, 2)

	_, ok = database.Lir(run.Callee).(lir.Path)
	require.True(t, ok, "a direct call to a known function must address it by Path, not Closure")
}

func TestOptimizeIndirectReferenceIsWrappedInClosure(t *testing.T) {
	src := "fun inc(x: Int) -> Int { x + 1 }\n" +
		"fun twice(f: fun(Int) -> Int, x: Int) -> Int { f(f(x)) }\n" +
		"fun main() -> Int { twice(inc, 5) }"
	database, main := optimizeSource(t, src)

	curry := database.Lir(main).(lir.Curry)
	run, ok := database.Lir(curry.Body).(lir.Run)
	require.True(t, ok)

	_, ok = database.Lir(run.Callee).(lir.Path)
	require.True(t, ok, "twice is called directly and must use Path")

	require.Len(t, run.Args, 2)
	_, ok = database.Lir(run.Args[0]).(lir.Closure)
	require.True(t, ok, "inc is passed as a first-class value and must be Closure-wrapped")
}

func TestOptimizeLetScopesNestCurries(t *testing.T) {
	database, main := optimizeSource(t, "fun main() -> Int { let x = 1; let y = 2; x + y }")

	outer := database.Lir(main).(lir.Curry)
	innerID := outer.Body
	inner, ok := database.Lir(innerID).(lir.Curry)
	require.True(t, ok, "a let-scope boundary must emit its own Curry")

	innermost, ok := database.Lir(inner.Body).(lir.Curry)
	require.True(t, ok, "the second let introduces a second, nested Curry")

	_, ok = database.Lir(innermost.Body).(lir.Add)
	require.True(t, ok)
}

func TestOptimizeGreaterThanOrEqualDesugarsToAnyOfEqAndGt(t *testing.T) {
	database, main := optimizeSource(t, "fun main() -> Int { if 3 >= 3 { 1 } else { 0 } }")

	curry := database.Lir(main).(lir.Curry)
	iff, ok := database.Lir(curry.Body).(lir.If)
	require.True(t, ok)

	any, ok := database.Lir(iff.Cond).(lir.Any)
	require.True(t, ok)
	require.Len(t, any.Operands, 2)
	_, ok = database.Lir(any.Operands[0]).(lir.Eq)
	require.True(t, ok)
	_, ok = database.Lir(any.Operands[1]).(lir.Gt)
	require.True(t, ok)
}

func TestOptimizeLessThanSwapsOperandsIntoGt(t *testing.T) {
	database, main := optimizeSource(t, "fun main() -> Int { if 1 < 2 { 10 } else { 20 } }")

	curry := database.Lir(main).(lir.Curry)
	iff := database.Lir(curry.Body).(lir.If)

	gt, ok := database.Lir(iff.Cond).(lir.Gt)
	require.True(t, ok, "< desugars to a swapped Gt")
	lhs, ok := database.Lir(gt.Lhs).(lir.Atom)
	require.True(t, ok)
	require.Equal(t, []byte{2}, lhs.Bytes, "1 < 2 becomes Gt(2, 1)")
}

func TestOptimizeLessThanOrEqualIsNotOfGtWithoutSwap(t *testing.T) {
	database, main := optimizeSource(t, "fun main() -> Int { if 1 <= 2 { 10 } else { 20 } }")

	curry := database.Lir(main).(lir.Curry)
	iff := database.Lir(curry.Body).(lir.If)

	not, ok := database.Lir(iff.Cond).(lir.Not)
	require.True(t, ok)
	_, ok = database.Lir(not.Value).(lir.Gt)
	require.True(t, ok, "<= is Not(Gt(lhs, rhs)) with no operand swap, per the original source")
}

func TestOptimizeListIndexProducesFirstOverRestChain(t *testing.T) {
	database, main := optimizeSource(t, "fun main() -> Int { [10, 20, 30][1] + 1 }")

	curry := database.Lir(main).(lir.Curry)
	add := database.Lir(curry.Body).(lir.Add)

	first, ok := database.Lir(add.Operands[0]).(lir.First)
	require.True(t, ok)
	rest, ok := database.Lir(first.Value).(lir.Rest)
	require.True(t, ok, "index 1 unwraps exactly one Rest before the First")
	_, ok = database.Lir(rest.Value).(lir.List)
	require.True(t, ok)
}

func TestOptimizeSelfRecursiveFunctionCapturesItselfAsFirstArg(t *testing.T) {
	database, main := optimizeSource(t,
		"fun fact(n: Int) -> Int { if n == 0 { 1 } else { n * fact(n - 1) } }\nfun main() -> Int { fact(4) }")

	curry := database.Lir(main).(lir.Curry)
	fb := database.Lir(curry.Args[0]).(lir.FunctionBody)
	iff := database.Lir(fb.Body).(lir.If)
	mul := database.Lir(iff.Else).(lir.Mul)

	run, ok := database.Lir(mul.Operands[1]).(lir.Run)
	require.True(t, ok)
	require.Len(t, run.Args, 2, "the recursive call must prepend fact's own captured self-reference")

	_, ok = database.Lir(run.Callee).(lir.Path)
	require.True(t, ok)
	_, ok = database.Lir(run.Args[0]).(lir.Path)
	require.True(t, ok, "fact captures itself by Path, not by re-wrapping a Closure")
}

func TestOptimizeConstBindingIsInlinedNotPathed(t *testing.T) {
	database, main := optimizeSource(t, "const limit: Int = 10;\nfun main() -> Int { limit + 1 }")

	curry := database.Lir(main).(lir.Curry)
	add := database.Lir(curry.Body).(lir.Add)

	_, ok := database.Lir(add.Operands[0]).(lir.Atom)
	require.True(t, ok, "a ConstBinding reference is inlined as its own value, never an environment Path")
}
