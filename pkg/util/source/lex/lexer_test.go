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
package lex

import (
	"slices"
	"testing"

	"github.com/consensys/go-regvm/pkg/util/source"
)

func TestLexer_00(t *testing.T) {
	checkLexer(t, "", 0, Token{END_OF, source.NewSpan(0, 0)})
}

func TestLexer_01(t *testing.T) {
	checkLexer(t, "[", 0,
		Token{LSQUARE, source.NewSpan(0, 1)},
		Token{END_OF, source.NewSpan(1, 1)})
}

func TestLexer_02(t *testing.T) {
	checkLexer(t, "[12]", 0,
		Token{LSQUARE, source.NewSpan(0, 1)},
		Token{NUMBER, source.NewSpan(1, 3)},
		Token{RSQUARE, source.NewSpan(3, 4)},
		Token{END_OF, source.NewSpan(4, 4)})
}

func TestLexer_03(t *testing.T) {
	checkLexer(t, "x", 1)
}

func TestLexer_04(t *testing.T) {
	checkLexer(t, "1  2", 0,
		Token{NUMBER, source.NewSpan(0, 1)},
		Token{WSPACE, source.NewSpan(1, 3)},
		Token{NUMBER, source.NewSpan(3, 4)},
		Token{END_OF, source.NewSpan(4, 4)})
}

func TestLexer_05(t *testing.T) {
	checkLexer(t, "1\n;; note\n", 0,
		Token{NUMBER, source.NewSpan(0, 1)},
		Token{NEWLINE, source.NewSpan(1, 2)},
		Token{COMMENT, source.NewSpan(2, 9)},
		Token{NEWLINE, source.NewSpan(9, 10)},
		Token{END_OF, source.NewSpan(10, 10)})
}

func TestLexer_06(t *testing.T) {
	checkLexer(t, ";;\n", 0,
		Token{COMMENT, source.NewSpan(0, 2)},
		Token{NEWLINE, source.NewSpan(2, 3)},
		Token{END_OF, source.NewSpan(3, 3)})
}

// ==================================================================
// Framework
// ==================================================================

const END_OF uint = 0
const WSPACE uint = 1
const NEWLINE uint = 2
const LSQUARE uint = 3
const RSQUARE uint = 4
const NUMBER uint = 5
const COMMENT uint = 6

var rules = []LexRule{
	Rule(Then(String(";;"), Until('\n')), COMMENT),
	Rule(Unit('['), LSQUARE),
	Rule(Unit(']'), RSQUARE),
	Rule(Unit('\n'), NEWLINE),
	Rule(Many(Or(Unit(' '), Unit('\t'))), WSPACE),
	Rule(Many(Within('0', '9')), NUMBER),
	Rule(Eof(), END_OF),
}

func checkLexer(t *testing.T, input string, remainder uint, expected ...Token) {
	items := []rune(input)
	// Construct text lexer
	lexer := NewLexer(items, rules...)
	// Apply lexer
	tokens := lexer.Collect()
	// Check what we got
	if len(expected) > 0 && !slices.Equal(tokens, expected) {
		t.Errorf("got %v, expected %v", tokens, expected)
	} else if lexer.Remaining() != remainder {
		n := len(items) - int(lexer.Remaining())
		t.Errorf("unmatched items: %v", items[n:])
	}
}
