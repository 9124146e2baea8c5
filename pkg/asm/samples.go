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
	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/resolve"
)

// ParseSamples parses a sample file.  This consists of zero or more sample
// blocks, followed by zero or more raw instructions making up a program whose
// opcode numbers are not yet resolved.  Each sample block has the form:
//
//	Before: [3, 2, 1, 1]
//	9 2 1 2
//	After:  [3, 2, 2, 1]
//
// Blank lines between blocks (and elsewhere) are ignored.
func ParseSamples(srcfile *source.File) ([]resolve.Sample, []instruction.Raw, []source.SyntaxError) {
	var (
		p       = NewParser(srcfile)
		samples []resolve.Sample
		program []instruction.Raw
	)
	//
	if !p.tokenize() {
		return nil, nil, p.errors
	}
	//
	for p.skipBlankLines(); p.lookahead().Kind != END_OF; p.skipBlankLines() {
		lookahead := p.lookahead()
		//
		switch {
		case lookahead.Kind == IDENTIFIER && p.string(lookahead) == "Before":
			if len(program) > 0 {
				p.recoverBlock(p.syntaxErrors(lookahead, "sample follows program"))
			} else if sample, errs := p.parseSample(); len(errs) > 0 {
				p.recoverBlock(errs)
			} else if len(samples) > 0 && sample.Before.Width() != samples[0].Before.Width() {
				// Samples share one machine, hence one bank width.
				p.errors = append(p.errors, p.syntaxErrors(lookahead, "register bank width differs from first sample")...)
			} else {
				samples = append(samples, sample)
			}
		case lookahead.Kind == NUMBER:
			if raw, errs := p.parseRawLine(); len(errs) > 0 {
				p.recover(errs)
			} else {
				program = append(program, raw)
			}
		default:
			p.recover(p.syntaxErrors(lookahead, "expected sample or instruction"))
		}
	}
	//
	if len(p.errors) > 0 {
		return nil, nil, p.errors
	}
	//
	return samples, program, nil
}

func (p *Parser) parseSample() (resolve.Sample, []source.SyntaxError) {
	var sample resolve.Sample
	// Before: [...]
	if errs := p.parseLabel("Before"); len(errs) > 0 {
		return sample, errs
	}
	//
	start := p.lookahead()
	before, errs := p.parseBank()
	//
	if len(errs) == 0 {
		errs = p.parseEndOfLine()
	}
	//
	if len(errs) > 0 {
		return sample, errs
	}
	// Instruction
	raw, errs := p.parseRawLine()
	if len(errs) > 0 {
		return sample, errs
	}
	// After: [...]
	if errs = p.parseLabel("After"); len(errs) > 0 {
		return sample, errs
	}
	//
	after, errs := p.parseBank()
	if len(errs) > 0 {
		return sample, errs
	} else if len(before) != len(after) {
		return sample, p.syntaxErrors(start, "register banks differ in width")
	} else if !operandsFit(raw, before.Width()) {
		return sample, p.syntaxErrors(start, "operand exceeds register bank")
	}
	//
	return resolve.NewSample(before, raw, after), p.parseEndOfLine()
}

// Parse a line holding a raw instruction "opcode a b c".
func (p *Parser) parseRawLine() (instruction.Raw, []source.SyntaxError) {
	var raw instruction.Raw
	//
	opcode, tok, errs := p.parseUint()
	if len(errs) > 0 {
		return raw, errs
	} else if opcode >= resolve.NUM_OPCODES {
		return raw, p.syntaxErrors(tok, "unknown opcode")
	}
	//
	raw.Opcode = opcode
	//
	for _, operand := range []*int64{&raw.A, &raw.B, &raw.C} {
		if *operand, errs = p.parseInt(); len(errs) > 0 {
			return raw, errs
		}
	}
	//
	return raw, p.parseEndOfLine()
}

// Sample instructions are executed against every operation, hence any operand
// which might be read as a register (or written) must be within the bank.
func operandsFit(raw instruction.Raw, width uint) bool {
	for _, operand := range []int64{raw.A, raw.B, raw.C} {
		if operand < 0 || uint64(operand) >= uint64(width) {
			return false
		}
	}
	//
	return true
}
