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

// Operation identifies one of the sixteen machine operations.  Each operation
// is a pure function from a register bank and two operands to a result value.
// The addressing mode of each operand (i.e. whether it names a register or is a
// literal) is fixed by the operation itself.
type Operation uint8

// ADDR stores into C the result of adding register A and register B.
const ADDR Operation = 0

// ADDI stores into C the result of adding register A and value B.
const ADDI Operation = 1

// MULR stores into C the result of multiplying register A and register B.
const MULR Operation = 2

// MULI stores into C the result of multiplying register A and value B.
const MULI Operation = 3

// BANR stores into C the bitwise AND of register A and register B.
const BANR Operation = 4

// BANI stores into C the bitwise AND of register A and value B.
const BANI Operation = 5

// BORR stores into C the bitwise OR of register A and register B.
const BORR Operation = 6

// BORI stores into C the bitwise OR of register A and value B.
const BORI Operation = 7

// SETR copies register A into C (B is ignored).
const SETR Operation = 8

// SETI stores value A into C (B is ignored).
const SETI Operation = 9

// GTIR sets C to 1 if value A is greater than register B, otherwise 0.
const GTIR Operation = 10

// GTRI sets C to 1 if register A is greater than value B, otherwise 0.
const GTRI Operation = 11

// GTRR sets C to 1 if register A is greater than register B, otherwise 0.
const GTRR Operation = 12

// EQIR sets C to 1 if value A is equal to register B, otherwise 0.
const EQIR Operation = 13

// EQRI sets C to 1 if register A is equal to value B, otherwise 0.
const EQRI Operation = 14

// EQRR sets C to 1 if register A is equal to register B, otherwise 0.
const EQRR Operation = 15

// NUM_OPERATIONS is the number of distinct operations.
const NUM_OPERATIONS = 16

// Mode determines how an operand is interpreted.
type Mode uint8

// REGISTER indicates the operand is a register index whose contents are read.
const REGISTER Mode = 0

// IMMEDIATE indicates the operand is used directly as a value.
const IMMEDIATE Mode = 1

// UNUSED indicates the operand is ignored altogether.
const UNUSED Mode = 2

type opInfo struct {
	mnemonic string
	a, b     Mode
}

var operations = [NUM_OPERATIONS]opInfo{
	ADDR: {"addr", REGISTER, REGISTER},
	ADDI: {"addi", REGISTER, IMMEDIATE},
	MULR: {"mulr", REGISTER, REGISTER},
	MULI: {"muli", REGISTER, IMMEDIATE},
	BANR: {"banr", REGISTER, REGISTER},
	BANI: {"bani", REGISTER, IMMEDIATE},
	BORR: {"borr", REGISTER, REGISTER},
	BORI: {"bori", REGISTER, IMMEDIATE},
	SETR: {"setr", REGISTER, UNUSED},
	SETI: {"seti", IMMEDIATE, UNUSED},
	GTIR: {"gtir", IMMEDIATE, REGISTER},
	GTRI: {"gtri", REGISTER, IMMEDIATE},
	GTRR: {"gtrr", REGISTER, REGISTER},
	EQIR: {"eqir", IMMEDIATE, REGISTER},
	EQRI: {"eqri", REGISTER, IMMEDIATE},
	EQRR: {"eqrr", REGISTER, REGISTER},
}

// Operations returns all operations in order of their identifier.
func Operations() []Operation {
	ops := make([]Operation, NUM_OPERATIONS)
	//
	for i := range ops {
		ops[i] = Operation(i)
	}
	//
	return ops
}

// Lookup finds the operation with a given mnemonic (e.g. "addr").
func Lookup(mnemonic string) (Operation, bool) {
	for i, info := range operations {
		if info.mnemonic == mnemonic {
			return Operation(i), true
		}
	}
	//
	return 0, false
}

// Mnemonic returns the four letter name of this operation.
func (op Operation) Mnemonic() string {
	return operations[op].mnemonic
}

// Modes returns the addressing modes of operands A and B respectively.
func (op Operation) Modes() (Mode, Mode) {
	info := operations[op]
	return info.a, info.b
}

// Apply this operation to a given register bank and operands, returning the
// value to be written to the destination register.  The bank is not modified.
// Register operands must be valid indices into the bank.
func (op Operation) Apply(regs register.Bank, a, b int64) int64 {
	switch op {
	case ADDR:
		return regs[a] + regs[b]
	case ADDI:
		return regs[a] + b
	case MULR:
		return regs[a] * regs[b]
	case MULI:
		return regs[a] * b
	case BANR:
		return regs[a] & regs[b]
	case BANI:
		return regs[a] & b
	case BORR:
		return regs[a] | regs[b]
	case BORI:
		return regs[a] | b
	case SETR:
		return regs[a]
	case SETI:
		return a
	case GTIR:
		return truth(a > regs[b])
	case GTRI:
		return truth(regs[a] > b)
	case GTRR:
		return truth(regs[a] > regs[b])
	case EQIR:
		return truth(a == regs[b])
	case EQRI:
		return truth(regs[a] == b)
	case EQRR:
		return truth(regs[a] == regs[b])
	}
	//
	panic(fmt.Sprintf("unknown operation %d", op))
}

func (op Operation) String() string {
	if op < NUM_OPERATIONS {
		return op.Mnemonic()
	}
	//
	return fmt.Sprintf("op#%d", uint8(op))
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	//
	return 0
}
