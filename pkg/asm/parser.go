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
	"fmt"
	"strconv"

	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/util/source/lex"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Parser provides the machinery shared by the sample and program parsers.
// Both formats are line oriented, and a syntax error on one line does not
// prevent subsequent lines from being parsed.  Thus, as many errors as
// possible are reported in one go.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
	// Errors accumulated so far
	errors []source.SyntaxError
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, nil, 0, nil}
}

// Tokenize the source file, recording any errors arising.
func (p *Parser) tokenize() bool {
	var errs []source.SyntaxError
	//
	if p.tokens, errs = Lex(p.srcfile); len(errs) > 0 {
		p.errors = append(p.errors, errs...)
		return false
	}
	//
	return true
}

// Skip over any blank lines.
func (p *Parser) skipBlankLines() {
	for p.lookahead().Kind == NEWLINE {
		p.index++
	}
}

// Recover from a syntax error by skipping to the start of the next line.
func (p *Parser) recover(errs []source.SyntaxError) {
	p.errors = append(p.errors, errs...)
	//
	for kind := p.lookahead().Kind; kind != NEWLINE && kind != END_OF; kind = p.lookahead().Kind {
		p.index++
	}
}

// Recover from a syntax error within a multi-line block by skipping to the
// next blank line.
func (p *Parser) recoverBlock(errs []source.SyntaxError) {
	p.recover(errs)
	//
	for p.match(NEWLINE) {
		if kind := p.lookahead().Kind; kind == NEWLINE || kind == END_OF {
			return
		}
		//
		p.recover(nil)
	}
}

// Parse the end of a line, which is either a newline or the end of the file.
func (p *Parser) parseEndOfLine() []source.SyntaxError {
	switch p.lookahead().Kind {
	case END_OF:
		return nil
	case NEWLINE:
		p.index++
		return nil
	default:
		return p.syntaxErrors(p.lookahead(), "expected end of line")
	}
}

// Parse a register bank of the form "[a, b, c, d]".
func (p *Parser) parseBank() (register.Bank, []source.SyntaxError) {
	var (
		bank register.Bank
		val  int64
		errs []source.SyntaxError
	)
	//
	if _, errs = p.expect(LSQUARE); len(errs) > 0 {
		return nil, errs
	}
	//
	for len(bank) == 0 || p.match(COMMA) {
		if val, errs = p.parseInt(); len(errs) > 0 {
			return nil, errs
		}
		//
		bank = append(bank, val)
	}
	//
	if _, errs = p.expect(RSQUARE); len(errs) > 0 {
		return nil, errs
	}
	//
	return bank, nil
}

// Parse a keyword followed by a colon, such as "Before:".
func (p *Parser) parseLabel(keyword string) []source.SyntaxError {
	if errs := p.parseKeyword(keyword); len(errs) > 0 {
		return errs
	}
	//
	_, errs := p.expect(COLON)
	//
	return errs
}

// Parse a given keyword.
func (p *Parser) parseKeyword(keyword string) []source.SyntaxError {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != IDENTIFIER || p.string(lookahead) != keyword {
		return p.syntaxErrors(lookahead, fmt.Sprintf("expected \"%s\"", keyword))
	}
	//
	p.index++
	//
	return nil
}

// Parse a (possibly negative) decimal integer.
func (p *Parser) parseInt() (int64, []source.SyntaxError) {
	var (
		start    = p.lookahead()
		negative = p.match(SUB)
	)
	//
	tok, errs := p.expect(NUMBER)
	if len(errs) > 0 {
		return 0, errs
	}
	//
	text := p.string(tok)
	if negative {
		text = "-" + text
	}
	//
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		span := start.Span.Join(tok.Span)
		return 0, []source.SyntaxError{*p.srcfile.SyntaxError(span, "invalid number")}
	}
	//
	return val, nil
}

// Parse a non-negative decimal integer.
func (p *Parser) parseUint() (uint, lex.Token, []source.SyntaxError) {
	tok, errs := p.expect(NUMBER)
	if len(errs) > 0 {
		return 0, tok, errs
	}
	//
	val, err := strconv.ParseUint(p.string(tok), 10, 64)
	if err != nil {
		return 0, tok, p.syntaxErrors(tok, "invalid number")
	}
	//
	return uint(val), tok, nil
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected "+describe(lookahead.Kind))
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}

func describe(kind uint) string {
	switch kind {
	case END_OF:
		return "end of file"
	case NEWLINE:
		return "end of line"
	case LSQUARE:
		return "\"[\""
	case RSQUARE:
		return "\"]\""
	case COMMA:
		return "\",\""
	case COLON:
		return "\":\""
	case HASH:
		return "\"#\""
	case SUB:
		return "\"-\""
	case NUMBER:
		return "number"
	case IDENTIFIER:
		return "identifier"
	default:
		return "token"
	}
}
