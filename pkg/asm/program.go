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
	"strings"

	"github.com/consensys/go-regvm/pkg/util"
	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/pkg/errors"
)

// Program is a sequence of resolved instructions, along with an optional
// register to which the instruction pointer is bound.
type Program struct {
	Binding      util.Option[uint]
	Instructions []instruction.Instruction
}

// Validate checks that every register referenced by this program (including
// the bound register) exists within a bank of the given width.
func (p *Program) Validate(width uint) error {
	if p.Binding.HasValue() && p.Binding.Unwrap() >= width {
		return errors.Errorf("ip bound to register %d, but only %d registers", p.Binding.Unwrap(), width)
	}
	//
	for i, insn := range p.Instructions {
		if err := insn.Validate(width); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	//
	return nil
}

func (p *Program) String() string {
	var builder strings.Builder
	//
	if p.Binding.HasValue() {
		builder.WriteString(fmt.Sprintf("#ip %d\n", p.Binding.Unwrap()))
	}
	//
	for _, insn := range p.Instructions {
		builder.WriteString(insn.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// ParseProgram parses a program file.  This consists of an optional "#ip N"
// declaration binding the instruction pointer to register N, followed by zero
// or more instructions of the form "mnemonic a b c".
func ParseProgram(srcfile *source.File) (Program, []source.SyntaxError) {
	var (
		p       = NewParser(srcfile)
		program = Program{Binding: util.None[uint]()}
	)
	//
	if !p.tokenize() {
		return program, p.errors
	}
	//
	for p.skipBlankLines(); p.lookahead().Kind != END_OF; p.skipBlankLines() {
		lookahead := p.lookahead()
		//
		switch lookahead.Kind {
		case HASH:
			if program.Binding.HasValue() || len(program.Instructions) > 0 {
				p.recover(p.syntaxErrors(lookahead, "ip binding must precede instructions"))
			} else if reg, errs := p.parseBinding(); len(errs) > 0 {
				p.recover(errs)
			} else {
				program.Binding = util.Some(reg)
			}
		case IDENTIFIER:
			if insn, errs := p.parseInstruction(); len(errs) > 0 {
				p.recover(errs)
			} else {
				program.Instructions = append(program.Instructions, insn)
			}
		default:
			p.recover(p.syntaxErrors(lookahead, "expected instruction"))
		}
	}
	//
	if len(p.errors) > 0 {
		return program, p.errors
	}
	//
	return program, nil
}

// Parse "#ip N".
func (p *Parser) parseBinding() (uint, []source.SyntaxError) {
	if _, errs := p.expect(HASH); len(errs) > 0 {
		return 0, errs
	} else if errs := p.parseKeyword("ip"); len(errs) > 0 {
		return 0, errs
	}
	//
	reg, _, errs := p.parseUint()
	if len(errs) > 0 {
		return 0, errs
	}
	//
	return reg, p.parseEndOfLine()
}

// Parse "mnemonic a b c".
func (p *Parser) parseInstruction() (instruction.Instruction, []source.SyntaxError) {
	var insn instruction.Instruction
	//
	tok, errs := p.expect(IDENTIFIER)
	if len(errs) > 0 {
		return insn, errs
	}
	//
	op, ok := instruction.Lookup(p.string(tok))
	if !ok {
		return insn, p.syntaxErrors(tok, fmt.Sprintf("unknown operation \"%s\"", p.string(tok)))
	}
	//
	insn.Op = op
	//
	for _, operand := range []*int64{&insn.A, &insn.B, &insn.C} {
		if *operand, errs = p.parseInt(); len(errs) > 0 {
			return insn, errs
		}
	}
	//
	return insn, p.parseEndOfLine()
}
