package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kodelang.dev/cellc/compiler"
	"kodelang.dev/cellc/core/cell"
)

func TestCompileProducesRunnableProgram(t *testing.T) {
	result := compiler.Compile([]byte("fun main() -> Int { 1 + 2 }"))
	require.Empty(t, result.Diagnostics)
	require.NotNil(t, result.Program)

	out, err := cell.Eval(result.Program, cell.Nil)
	require.NoError(t, err)
	atom, ok := out.(cell.Atom)
	require.True(t, ok)
	require.Equal(t, int64(3), cell.DecodeInt(atom.Bytes).Int64())
}

func TestCompileSkipsLoweringOnParseError(t *testing.T) {
	result := compiler.Compile([]byte("fun main() -> Int { 1 + }"))
	require.NotEmpty(t, result.Diagnostics)
	require.Nil(t, result.Program)
	require.Equal(t, compiler.StageParse, result.Diagnostics[0].Stage)
}

func TestCompileSkipsCodegenOnLoweringError(t *testing.T) {
	result := compiler.Compile([]byte("fun main() -> Int { undefinedVariable }"))
	require.NotEmpty(t, result.Diagnostics)
	require.Nil(t, result.Program)
	require.Equal(t, compiler.StageLower, result.Diagnostics[0].Stage)
}

func TestCompileReportsUnterminatedString(t *testing.T) {
	result := compiler.Compile([]byte(`fun main() -> Int { "unterminated`))
	require.NotEmpty(t, result.Diagnostics)
	require.Equal(t, compiler.StageLex, result.Diagnostics[0].Stage)
	require.Equal(t, "unterminated string", result.Diagnostics[0].Kind)
}
