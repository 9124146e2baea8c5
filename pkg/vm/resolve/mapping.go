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
package resolve

import (
	"fmt"
	"strings"

	"github.com/consensys/go-regvm/pkg/vm/instruction"
)

// Mapping is a resolved bijection from opcode numbers to operations.
type Mapping [NUM_OPCODES]instruction.Operation

// Get returns the operation denoted by a given opcode number.
func (p *Mapping) Get(opcode uint) instruction.Operation {
	return p[opcode]
}

// Decode a raw instruction into an executable instruction.  The opcode number
// must be less than NUM_OPCODES, otherwise this panics.
func (p *Mapping) Decode(raw instruction.Raw) instruction.Instruction {
	if raw.Opcode >= NUM_OPCODES {
		panic(fmt.Sprintf("unknown opcode %d", raw.Opcode))
	}
	//
	return raw.As(p[raw.Opcode])
}

// DecodeAll decodes a sequence of raw instructions.
func (p *Mapping) DecodeAll(raws []instruction.Raw) []instruction.Instruction {
	insns := make([]instruction.Instruction, len(raws))
	//
	for i, raw := range raws {
		insns[i] = p.Decode(raw)
	}
	//
	return insns
}

// IsBijection checks that every operation is denoted by exactly one opcode
// number.
func (p *Mapping) IsBijection() bool {
	var seen [instruction.NUM_OPERATIONS]bool
	//
	for _, op := range p {
		if op >= instruction.NUM_OPERATIONS || seen[op] {
			return false
		}
		//
		seen[op] = true
	}
	//
	return true
}

func (p *Mapping) String() string {
	var builder strings.Builder
	//
	for i, op := range p {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%d=%s", i, op))
	}
	//
	return builder.String()
}
