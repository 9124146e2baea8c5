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
package register

import (
	"slices"
	"strconv"
	"strings"
)

// Bank is an ordered, fixed-size sequence of signed integer registers, indexed
// from 0.  A bank is exclusively owned by whichever machine (or sample) is
// using it, and is mutated in place by executing instructions.
type Bank []int64

// NewBank constructs a bank of n registers, all holding zero.
func NewBank(n uint) Bank {
	return make(Bank, n)
}

// Of constructs a bank holding exactly the given values.
func Of(values ...int64) Bank {
	return Bank(slices.Clone(values))
}

// Width returns the number of registers in this bank.
func (p Bank) Width() uint {
	return uint(len(p))
}

// Clone creates a true copy of this bank which ensures no aliasing between
// this bank and the result.
func (p Bank) Clone() Bank {
	return slices.Clone(p)
}

// Equal checks whether two banks have the same width and hold the same values.
func (p Bank) Equal(other Bank) bool {
	return slices.Equal(p, other)
}

// Reset overwrites every register with zero.
func (p Bank) Reset() {
	clear(p)
}

// String returns the bank in its textual form, e.g. "[3, 2, 1, 1]".
func (p Bank) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, v := range p {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(strconv.FormatInt(v, 10))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
