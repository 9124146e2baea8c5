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
package machine_test

import (
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	isa "github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// Jumps over instructions 3 and 5 by writing to the bound register.
var jumpy = []isa.Instruction{
	isa.New(isa.SETI, 5, 0, 1),
	isa.New(isa.SETI, 6, 0, 2),
	isa.New(isa.ADDI, 0, 1, 0),
	isa.New(isa.ADDR, 1, 2, 3),
	isa.New(isa.SETR, 1, 0, 0),
	isa.New(isa.SETI, 8, 0, 4),
	isa.New(isa.SETI, 9, 0, 5),
}

// Counts r1 through 1, 2, 3, 0, 1, ... forever.
var counter = []isa.Instruction{
	isa.New(isa.ADDI, 1, 1, 1),
	isa.New(isa.BANI, 1, 3, 1),
	isa.New(isa.SETI, -1, 0, 0),
}

var _ = Describe("Machine", func() {
	Context("without an instruction pointer binding", func() {
		It("should run straight-line code to completion", func() {
			m := machine.New(4,
				isa.New(isa.SETI, 5, 0, 0),
				isa.New(isa.SETI, 6, 0, 1),
				isa.New(isa.ADDR, 0, 1, 2))
			//
			Expect(m.Run()).To(Equal(machine.HALTED))
			Expect(m.Registers()).To(Equal(register.Of(5, 6, 11, 0)))
			Expect(m.Steps()).To(Equal(uint(3)))
			Expect(m.Step()).To(BeFalse())
		})

		It("should start from the given registers", func() {
			m := machine.New(4, isa.New(isa.ADDI, 0, 1, 0)).WithRegisters(41)
			//
			Expect(m.Run()).To(Equal(machine.HALTED))
			Expect(m.Registers()[0]).To(Equal(int64(42)))
		})

		It("should halt immediately on an empty program", func() {
			m := machine.New(4)
			//
			Expect(m.Halted()).To(BeTrue())
			Expect(m.Run()).To(Equal(machine.HALTED))
		})

		It("should ignore breakpoints outside the program", func() {
			m := machine.New(4, isa.New(isa.SETI, 1, 0, 0)).Break(1 << 32)
			//
			Expect(m.Run()).To(Equal(machine.HALTED))
			Expect(m.Registers()[0]).To(Equal(int64(1)))
		})

		It("should not skip the next breakpoint after single stepping", func() {
			m := machine.New(4,
				isa.New(isa.SETI, 5, 0, 0),
				isa.New(isa.SETI, 6, 0, 1),
				isa.New(isa.ADDR, 0, 1, 2)).Break(0, 1)
			//
			Expect(m.Run()).To(Equal(machine.BREAK))
			Expect(m.IP()).To(Equal(int64(0)))
			Expect(m.Step()).To(BeTrue())
			Expect(m.Run()).To(Equal(machine.BREAK))
			Expect(m.IP()).To(Equal(int64(1)))
			Expect(m.Run()).To(Equal(machine.HALTED))
			Expect(m.Registers()).To(Equal(register.Of(5, 6, 11, 0)))
		})

		It("should reject too many initial values", func() {
			Expect(func() { machine.New(2).WithRegisters(1, 2, 3) }).To(Panic())
		})
	})

	Context("with an instruction pointer binding", func() {
		It("should jump to one past the value written to the bound register", func() {
			m := machine.New(6, jumpy...).Bind(0)
			//
			Expect(m.Run()).To(Equal(machine.HALTED))
			Expect(m.Binding().Unwrap()).To(Equal(uint(0)))
			Expect(m.Registers()).To(Equal(register.Of(6, 5, 6, 0, 0, 9)))
			Expect(m.Steps()).To(Equal(uint(5)))
			Expect(m.IP()).To(Equal(int64(7)))
		})

		It("should suspend and resume at a breakpoint", func() {
			m := machine.New(6, jumpy...).Bind(0).Break(4)
			//
			Expect(m.Run()).To(Equal(machine.BREAK))
			Expect(m.IP()).To(Equal(int64(4)))
			Expect(m.Registers()).To(Equal(register.Of(4, 5, 6, 0, 0, 0)))
			//
			Expect(m.Run()).To(Equal(machine.HALTED))
			Expect(m.Registers()).To(Equal(register.Of(6, 5, 6, 0, 0, 9)))
		})

		It("should stop at the step limit", func() {
			m := machine.New(3, counter...).Bind(0).WithStepLimit(10)
			//
			Expect(m.Run()).To(Equal(machine.LIMIT))
			Expect(m.Steps()).To(Equal(uint(10)))
		})

		It("should reject binding a missing register", func() {
			Expect(func() { machine.New(2).Bind(2) }).To(Panic())
		})
	})

	Context("with a tracer", func() {
		var ctrl *gomock.Controller

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
		})

		AfterEach(func() {
			ctrl.Finish()
		})

		It("should report each executed instruction in order", func() {
			tracer := NewMockTracer(ctrl)
			program := []isa.Instruction{
				isa.New(isa.SETI, 5, 0, 0),
				isa.New(isa.SETI, 6, 0, 1),
				isa.New(isa.ADDR, 0, 1, 2),
			}
			//
			gomock.InOrder(
				tracer.EXPECT().Trace(int64(0), program[0], gomock.Any()),
				tracer.EXPECT().Trace(int64(1), program[1], gomock.Any()),
				tracer.EXPECT().Trace(int64(2), program[2], gomock.Any()),
			)
			//
			m := machine.New(4, program...).WithTracer(tracer)
			Expect(m.Run()).To(Equal(machine.HALTED))
		})

		It("should skip instructions jumped over", func() {
			tracer := NewMockTracer(ctrl)
			//
			for _, ip := range []int64{0, 1, 2, 4, 6} {
				tracer.EXPECT().Trace(ip, jumpy[ip], gomock.Any())
			}
			//
			m := machine.New(6, jumpy...).Bind(0).WithTracer(tracer)
			Expect(m.Run()).To(Equal(machine.HALTED))
		})
	})

	Describe("Watch", func() {
		It("should stop when the watched value repeats", func() {
			m := machine.New(3, counter...).Bind(0)
			//
			obs, err := machine.Watch(m, 2, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs).To(Equal(machine.Observation{First: 1, Last: 0, Distinct: 4, Repeated: true}))
		})

		It("should stop when the machine halts", func() {
			m := machine.New(6, jumpy...).Bind(0)
			//
			obs, err := machine.Watch(m, 4, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs).To(Equal(machine.Observation{First: 5, Last: 5, Distinct: 1}))
		})

		It("should fail when the position is never reached", func() {
			m := machine.New(6, jumpy...).Bind(0)
			//
			_, err := machine.Watch(m, 3, 1)
			Expect(errors.Is(err, machine.ErrUnreached)).To(BeTrue())
		})

		It("should fail at once for a position outside the program", func() {
			m := machine.New(3, counter...).Bind(0)
			//
			_, err := machine.Watch(m, 1<<32, 1)
			Expect(errors.Is(err, machine.ErrUnreached)).To(BeTrue())
			Expect(m.Steps()).To(Equal(uint(0)))
		})

		It("should fail when the step limit is exhausted", func() {
			m := machine.New(3, counter...).Bind(0).WithStepLimit(100)
			//
			_, err := machine.Watch(m, 5, 1)
			Expect(errors.Is(err, machine.ErrStepLimit)).To(BeTrue())
		})
	})
})
