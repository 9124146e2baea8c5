// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package asm

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/register"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const SAMPLE_FILE = `Before: [3, 2, 1, 1]
9 2 1 2
After:  [3, 2, 2, 1]

Before: [0, 1, 2, 3]
0 0 1 3
After:  [0, 1, 2, 1]



7 3 2 0
7 2 1 1
`

const PROGRAM_FILE = `#ip 0
seti 5 0 1
seti 6 0 2
addi 0 1 0
addr 1 2 3
setr 1 0 0
seti 8 0 4
seti 9 0 5
`

func TestLex_00(t *testing.T) {
	tokens, errs := Lex(srcfile("Before: [1, -2]\n;; done"))
	require.Empty(t, errs)
	//
	kinds := make([]uint, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	//
	expected := []uint{IDENTIFIER, COLON, LSQUARE, NUMBER, COMMA, SUB, NUMBER, RSQUARE, NEWLINE, END_OF}
	assert.Equal(t, expected, kinds)
}

func TestLex_01(t *testing.T) {
	_, errs := Lex(srcfile("1 2 $ 4"))
	//
	require.Len(t, errs, 1)
	assert.Equal(t, "unknown text encountered", errs[0].Message())
	span := errs[0].Span()
	assert.Equal(t, 4, span.Start())
}

func TestParseSamples_00(t *testing.T) {
	samples, program, errs := ParseSamples(srcfile(SAMPLE_FILE))
	//
	require.Empty(t, errs)
	require.Len(t, samples, 2)
	assert.Equal(t, register.Of(3, 2, 1, 1), samples[0].Before)
	assert.Equal(t, instruction.Raw{Opcode: 9, A: 2, B: 1, C: 2}, samples[0].Raw)
	assert.Equal(t, register.Of(3, 2, 2, 1), samples[0].After)
	assert.Equal(t, []instruction.Raw{{Opcode: 7, A: 3, B: 2, C: 0}, {Opcode: 7, A: 2, B: 1, C: 1}}, program)
}

func TestParseSamples_01(t *testing.T) {
	// Windows line endings, comments and no trailing newline
	input := ";; header\r\nBefore: [3, 2, 1, 1]\r\n9 2 1 2 ;; mulr\r\nAfter:  [3, 2, 2, 1]\r\n\r\n5 0 0 0"
	samples, program, errs := ParseSamples(srcfile(input))
	//
	require.Empty(t, errs)
	assert.Len(t, samples, 1)
	assert.Len(t, program, 1)
}

func TestParseSamples_02(t *testing.T) {
	samples, program, errs := ParseSamples(srcfile(""))
	//
	assert.Empty(t, errs)
	assert.Empty(t, samples)
	assert.Empty(t, program)
}

func TestParseSamples_03(t *testing.T) {
	checkSampleError(t, "Before: [3, 2, 1\n9 2 1 2\nAfter:  [3, 2, 2, 1]\n", 1, "unexpected end of line")
}

func TestParseSamples_04(t *testing.T) {
	checkSampleError(t, "Before: [3, 2, 1, 1]\n16 2 1 2\nAfter:  [3, 2, 2, 1]\n", 2, "unknown opcode")
}

func TestParseSamples_05(t *testing.T) {
	checkSampleError(t, "Before: [3, 2, 1, 1]\n9 2 1 2\nAfter:  [3, 2, 2]\n", 1, "register banks differ in width")
}

func TestParseSamples_06(t *testing.T) {
	checkSampleError(t, "Before: [3, 2, 1, 1]\n9 2 1 7\nAfter:  [3, 2, 2, 1]\n", 1, "operand exceeds register bank")
}

func TestParseSamples_07(t *testing.T) {
	checkSampleError(t, "1 2 3 0\n\nBefore: [3, 2, 1, 1]\n9 2 1 2\nAfter:  [3, 2, 2, 1]\n", 3, "sample follows program")
}

func TestParseSamples_08(t *testing.T) {
	checkSampleError(t, "Before: [3, 2, 1, 1]\n9 2 1 2\nLater:  [3, 2, 2, 1]\n", 3, "expected \"After\"")
}

func TestParseSamples_09(t *testing.T) {
	// Errors are reported for every offending line
	_, _, errs := ParseSamples(srcfile("1 2 3\n4 5 6 7\n8 9 x 1\n"))
	//
	require.Len(t, errs, 2)
	assert.Equal(t, 1, lineOf(errs[0]))
	assert.Equal(t, 3, lineOf(errs[1]))
}

func TestParseSamples_10(t *testing.T) {
	input := "Before: [3, 2, 1, 1]\n9 2 1 2\nAfter:  [3, 2, 2, 1]\n\n" +
		"Before: [3, 2, 1]\n9 2 1 2\nAfter:  [3, 2, 2]\n\n" +
		"Before: [1, 2, 3, 4]\n9 2 1 2\nAfter:  [1, 2, 2, 4]\n"
	//
	checkSampleError(t, input, 5, "register bank width differs from first sample")
}

func TestParseSamples_11(t *testing.T) {
	// Wider banks are fine, provided every sample agrees.
	input := "Before: [3, 2, 1, 1, 0]\n9 2 1 4\nAfter:  [3, 2, 1, 1, 2]\n\n" +
		"Before: [0, 0, 0, 0, 0]\n1 0 0 0\nAfter:  [0, 0, 0, 0, 0]\n"
	samples, _, errs := ParseSamples(srcfile(input))
	//
	require.Empty(t, errs)
	require.Len(t, samples, 2)
	assert.Equal(t, uint(5), samples[1].Before.Width())
}

func TestParseProgram_00(t *testing.T) {
	program, errs := ParseProgram(srcfile(PROGRAM_FILE))
	//
	require.Empty(t, errs)
	require.True(t, program.Binding.HasValue())
	assert.Equal(t, uint(0), program.Binding.Unwrap())
	require.Len(t, program.Instructions, 7)
	assert.Equal(t, instruction.New(instruction.SETI, 5, 0, 1), program.Instructions[0])
	assert.Equal(t, instruction.New(instruction.ADDR, 1, 2, 3), program.Instructions[3])
	assert.NoError(t, program.Validate(6))
	assert.Equal(t, PROGRAM_FILE, program.String())
}

func TestParseProgram_01(t *testing.T) {
	program, errs := ParseProgram(srcfile("\n;; loop\nseti -1 0 0\n\naddi 1 1 1\n"))
	//
	require.Empty(t, errs)
	assert.True(t, program.Binding.IsEmpty())
	assert.Equal(t, []instruction.Instruction{
		instruction.New(instruction.SETI, -1, 0, 0),
		instruction.New(instruction.ADDI, 1, 1, 1),
	}, program.Instructions)
}

func TestParseProgram_02(t *testing.T) {
	checkProgramError(t, "#ip 0\nfoo 1 2 3\n", 2, "unknown operation \"foo\"")
}

func TestParseProgram_03(t *testing.T) {
	checkProgramError(t, "seti 1 2 3\n#ip 0\n", 2, "ip binding must precede instructions")
}

func TestParseProgram_04(t *testing.T) {
	checkProgramError(t, "#ip 0\n#ip 1\n", 2, "ip binding must precede instructions")
}

func TestParseProgram_05(t *testing.T) {
	checkProgramError(t, "addi 1 2\nseti 0 0 0\n", 1, "unexpected end of line")
}

func TestParseProgram_06(t *testing.T) {
	checkProgramError(t, "#iq 0\n", 1, "expected \"ip\"")
}

func TestParseProgram_07(t *testing.T) {
	checkProgramError(t, "addi 1 2 3 4\n", 1, "expected end of line")
}

func TestParseProgram_08(t *testing.T) {
	checkProgramError(t, "seti 99999999999999999999 0 0\n", 1, "invalid number")
}

func TestParseProgram_09(t *testing.T) {
	// The reported span covers the sign as well as the digits.
	_, errs := ParseProgram(srcfile("seti -99999999999999999999 0 0\n"))
	//
	require.Len(t, errs, 1)
	//
	span := errs[0].Span()
	assert.Equal(t, 5, span.Start())
	assert.Equal(t, 26, span.End())
	assert.Equal(t, "test.txt", errs[0].SourceFile().Filename())
	assert.Equal(t, "test.txt:1: invalid number", errs[0].Error())
}

func TestProgram_00(t *testing.T) {
	program, errs := ParseProgram(srcfile("#ip 6\naddr 1 2 3\n"))
	require.Empty(t, errs)
	// Binding out of range
	assert.Error(t, program.Validate(6))
	assert.NoError(t, program.Validate(7))
	//
	program, errs = ParseProgram(srcfile("addr 1 2 3\naddi 7 2 3\n"))
	require.Empty(t, errs)
	//
	err := program.Validate(6)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "instruction 1"))
}

// ===================================================================
// Test Helpers
// ===================================================================

func srcfile(contents string) *source.File {
	return source.NewSourceFile("test.txt", []byte(contents))
}

func lineOf(err source.SyntaxError) int {
	line := err.FirstEnclosingLine()
	return line.Number()
}

func checkSampleError(t *testing.T, input string, line int, msg string) {
	_, _, errs := ParseSamples(srcfile(input))
	checkErrors(t, errs, line, msg)
}

func checkProgramError(t *testing.T, input string, line int, msg string) {
	_, errs := ParseProgram(srcfile(input))
	checkErrors(t, errs, line, msg)
}

func checkErrors(t *testing.T, errs []source.SyntaxError, line int, msg string) {
	require.Len(t, errs, 1, "%v", errs)
	assert.Equal(t, msg, errs[0].Message())
	assert.Equal(t, line, lineOf(errs[0]))
}

func TestParseTestdata_00(t *testing.T) {
	files, err := source.ReadFiles("../../testdata/samples/example.txt")
	require.NoError(t, err)
	//
	samples, program, errs := ParseSamples(&files[0])
	require.Empty(t, errs)
	assert.Len(t, samples, 1)
	assert.Len(t, program, 2)
}

func TestParseTestdata_01(t *testing.T) {
	filenames, err := filepath.Glob("../../testdata/programs/*.prog")
	require.NoError(t, err)
	require.NotEmpty(t, filenames)
	//
	files, err := source.ReadFiles(filenames...)
	require.NoError(t, err)
	//
	for _, file := range files {
		program, errs := ParseProgram(&file)
		require.Empty(t, errs, file.Filename())
		assert.True(t, program.Binding.HasValue(), file.Filename())
		assert.NoError(t, program.Validate(6), file.Filename())
	}
}
