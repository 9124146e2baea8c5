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

import "fmt"

// Raw is an instruction whose operation is identified only by an opaque opcode
// number, as found in observed samples.  Such an instruction cannot be executed
// until its opcode number has been resolved into an Operation.
type Raw struct {
	Opcode uint
	A      int64
	B      int64
	C      int64
}

// As constructs the executable instruction obtained by interpreting this raw
// instruction's opcode number as the given operation.
func (p Raw) As(op Operation) Instruction {
	return Instruction{op, p.A, p.B, p.C}
}

func (p Raw) String() string {
	return fmt.Sprintf("%d %d %d %d", p.Opcode, p.A, p.B, p.C)
}
