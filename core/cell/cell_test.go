package cell_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"kodelang.dev/cellc/core/cell"
)

func TestIntRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 127, 128, -128, -129, 255, 256, 1 << 20, -(1 << 20)} {
		b := cell.EncodeInt(big.NewInt(n))
		got := cell.DecodeInt(b)
		require.Equal(t, n, got.Int64(), "round-trip %d via %x", n, b)
	}
}

func TestWireRoundTrip(t *testing.T) {
	tree := cell.List(cell.AtomInt64(1), cell.AtomInt64(2), cell.Pair{First: cell.AtomInt64(3), Rest: cell.Nil})
	encoded := cell.Encode(tree)
	decoded, n, err := cell.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.Equal(t, cell.Encode(tree), cell.Encode(decoded))
}

func TestEvalQuoteIsSelfInverse(t *testing.T) {
	body := cell.AtomInt64(42)
	quoted := cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: body}
	result, err := cell.Eval(quoted, cell.Nil)
	require.NoError(t, err)
	require.Equal(t, body, result)
}

func TestEvalArithmetic(t *testing.T) {
	// (+ (q . 1) (q . 2)) evaluated against any env: 1 + 2 = 3
	expr := cell.List(
		cell.AtomInt64(cell.OpAdd),
		cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.AtomInt64(1)},
		cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.AtomInt64(2)},
	)
	result, err := cell.Eval(expr, cell.Nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), cell.DecodeInt(result.(cell.Atom).Bytes).Int64())
}

func TestEvalIfTakesChosenBranchOnly(t *testing.T) {
	// (a (i (q . 1) (q . (q . 10)) (q . (q . 20))) 1) -> 10
	cond := cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.AtomInt64(1)}
	thenBranch := cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.AtomInt64(10)}}
	elseBranch := cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: cell.AtomInt64(20)}}
	ifForm := cell.List(cell.AtomInt64(cell.OpIf), cond, thenBranch, elseBranch)
	program := cell.List(cell.AtomInt64(cell.OpApply), ifForm, cell.AtomInt64(1))

	result, err := cell.Eval(program, cell.Nil)
	require.NoError(t, err)
	require.Equal(t, int64(10), cell.DecodeInt(result.(cell.Atom).Bytes).Int64())
}

func TestEvalPathIntoEnv(t *testing.T) {
	// env = (10 . (20 . (30 . nil))); path 2 -> first element, path 5 -> second, path 11 -> third.
	env := cell.List(cell.AtomInt64(10), cell.AtomInt64(20), cell.AtomInt64(30))

	for path, want := range map[int64]int64{2: 10, 5: 20, 11: 30} {
		got, err := cell.Eval(cell.AtomInt64(path), env)
		require.NoError(t, err)
		require.Equal(t, want, cell.DecodeInt(got.(cell.Atom).Bytes).Int64(), "path %d", path)
	}
}

func TestFingerprintIsDeterministic(t *testing.T) {
	tree := cell.List(cell.AtomInt64(1), cell.AtomInt64(2))
	f1, err := cell.Fingerprint(tree)
	require.NoError(t, err)
	f2, err := cell.Fingerprint(tree)
	require.NoError(t, err)
	require.Equal(t, f1, f2)

	other, err := cell.Fingerprint(cell.List(cell.AtomInt64(1), cell.AtomInt64(3)))
	require.NoError(t, err)
	require.NotEqual(t, f1, other)
}
