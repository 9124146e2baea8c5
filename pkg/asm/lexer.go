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
	"slices"

	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals spaces or tabs (but not newlines)
const WHITESPACE uint = 1

// NEWLINE signals "\n"
const NEWLINE uint = 2

// COMMENT signals ";; ... \n"
const COMMENT uint = 3

// LSQUARE signals "["
const LSQUARE uint = 4

// RSQUARE signals "]"
const RSQUARE uint = 5

// COMMA signals ","
const COMMA uint = 6

// COLON signals ":"
const COLON uint = 7

// HASH signals "#"
const HASH uint = 8

// SUB signals "-"
const SUB uint = 9

// NUMBER signals a decimal number
const NUMBER uint = 10

// IDENTIFIER signals a mnemonic or keyword
const IDENTIFIER uint = 11

// Rule for describing whitespace.  Carriage returns are treated as whitespace
// so that files with Windows line endings are accepted.
var whitespace lex.Scanner = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r')))

var number lex.Scanner = lex.Many(lex.Within('0', '9'))

var identifierStart lex.Scanner = lex.Or(
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner = lex.Then(identifierStart, identifierRest)

// Comments start with ';;' and continue until a newline or EOF.
var comment lex.Scanner = lex.Then(lex.String(";;"), lex.Until('\n'))

// lexing rules
var rules []lex.LexRule = []lex.LexRule{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('#'), HASH),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof(), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace and comments are discarded, but
// newlines are retained since both input formats are line oriented.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+1
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Remove any whitespace and comments
	tokens = slices.DeleteFunc(tokens, func(t lex.Token) bool {
		return t.Kind == WHITESPACE || t.Kind == COMMENT
	})
	// Done
	return tokens, nil
}
