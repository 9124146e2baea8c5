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

	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Sample is an observation of a single instruction being executed: the
// registers before, the raw instruction (whose opcode number is opaque) and the
// registers after.
type Sample struct {
	Before register.Bank
	Raw    instruction.Raw
	After  register.Bank
}

// NewSample constructs a new sample.  The banks are copied, such that the
// sample cannot be modified afterwards through them.
func NewSample(before register.Bank, insn instruction.Raw, after register.Bank) Sample {
	return Sample{before.Clone(), insn, after.Clone()}
}

// Consistent checks whether executing the given operation with this sample's
// operands against its before state produces exactly its after state.
func (p Sample) Consistent(op instruction.Operation) bool {
	regs := p.Before.Clone()
	p.Raw.As(op).Execute(regs)
	//
	return regs.Equal(p.After)
}

// Matches returns every operation consistent with this sample.
func (p Sample) Matches() []instruction.Operation {
	var matches []instruction.Operation
	//
	for _, op := range instruction.Operations() {
		if p.Consistent(op) {
			matches = append(matches, op)
		}
	}
	//
	return matches
}

func (p Sample) String() string {
	return fmt.Sprintf("%s %s %s", p.Before, p.Raw, p.After)
}

// CountAmbiguous returns the number of samples consistent with at least
// threshold operations.
func CountAmbiguous(samples []Sample, threshold uint) uint {
	var count uint
	//
	for _, s := range samples {
		if uint(len(s.Matches())) >= threshold {
			count++
		}
	}
	//
	return count
}
