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
package instruction

import (
	"fmt"

	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Instruction is a resolved machine instruction of the form "op A B C", where
// C is the index of the destination register.  Whether A and B denote
// registers or values is determined by the operation.
type Instruction struct {
	Op Operation
	A  int64
	B  int64
	C  int64
}

// New constructs an instruction for a given operation and operands.
func New(op Operation, a, b, c int64) Instruction {
	return Instruction{op, a, b, c}
}

// Execute this instruction against a given register bank, overwriting exactly
// the destination register.  All register operands must be valid indices
// into the bank, otherwise this panics.
func (p Instruction) Execute(regs register.Bank) {
	regs[p.C] = p.Op.Apply(regs, p.A, p.B)
}

// Uses returns the set of registers used (i.e. read) by this instruction.
func (p Instruction) Uses() []uint {
	var (
		uses []uint
		a, b = p.Op.Modes()
	)
	//
	if a == REGISTER {
		uses = append(uses, uint(p.A))
	}
	//
	if b == REGISTER {
		uses = append(uses, uint(p.B))
	}
	//
	return uses
}

// Definitions returns the set of registers defined (i.e. written) by this
// instruction.
func (p Instruction) Definitions() []uint {
	return []uint{uint(p.C)}
}

// Validate that this instruction is well-formed for a bank of a given width.
// That is, every register it reads or writes must exist.
func (p Instruction) Validate(width uint) error {
	if p.Op >= NUM_OPERATIONS {
		return fmt.Errorf("unknown operation %d", p.Op)
	}
	//
	a, b := p.Op.Modes()
	//
	if a == REGISTER && !isRegister(p.A, width) {
		return fmt.Errorf("%s: register r%d out of bounds (width %d)", p, p.A, width)
	} else if b == REGISTER && !isRegister(p.B, width) {
		return fmt.Errorf("%s: register r%d out of bounds (width %d)", p, p.B, width)
	} else if !isRegister(p.C, width) {
		return fmt.Errorf("%s: register r%d out of bounds (width %d)", p, p.C, width)
	}
	//
	return nil
}

func (p Instruction) String() string {
	return fmt.Sprintf("%s %d %d %d", p.Op, p.A, p.B, p.C)
}

func isRegister(index int64, width uint) bool {
	return index >= 0 && uint64(index) < uint64(width)
}
