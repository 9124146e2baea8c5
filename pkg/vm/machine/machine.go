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
package machine

import (
	"fmt"

	"github.com/consensys/go-regvm/pkg/util"
	"github.com/consensys/go-regvm/pkg/util/collection/bit"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/register"
)

// CHUNK_SIZE determines how many instructions Run executes between checks of
// its overall status.
const CHUNK_SIZE = 1024

// Status describes why a machine stopped executing.
type Status uint8

// RUNNING indicates that execution stopped only because the requested number
// of steps was exhausted.
const RUNNING Status = 0

// HALTED indicates that the instruction pointer left the program.
const HALTED Status = 1

// BREAK indicates that execution reached a breakpoint.  The instruction at the
// breakpoint has not yet been executed.
const BREAK Status = 2

// LIMIT indicates that the machine's step limit was reached.
const LIMIT Status = 3

func (s Status) String() string {
	switch s {
	case RUNNING:
		return "running"
	case HALTED:
		return "halted"
	case BREAK:
		return "break"
	case LIMIT:
		return "limit"
	}
	//
	return fmt.Sprintf("status#%d", uint8(s))
}

// Tracer is notified after each instruction executed by a machine.  The ip
// given is that of the instruction just executed, and the bank holds the
// registers after execution.  The bank is owned by the machine and must not be
// retained.
type Tracer interface {
	Trace(ip int64, insn instruction.Instruction, regs register.Bank)
}

// Machine executes a program over a register bank.  Optionally, one register
// can be bound to the instruction pointer: before each instruction its value
// is written into that register, and afterwards the instruction pointer is set
// to one past whatever value that register then holds.  Thus, writing to the
// bound register is how a program jumps.
type Machine struct {
	program []instruction.Instruction
	regs    register.Bank
	ip      int64
	// Register bound to the instruction pointer (if any)
	binding util.Option[uint]
	// Positions at which execution is suspended
	breakpoints bit.Set
	// Indicates execution is suspended at a breakpoint, such that resuming
	// must first execute the instruction at that breakpoint.
	paused bool
	// Maximum number of steps to execute (or zero for unlimited)
	limit uint
	// Number of steps executed so far
	steps  uint
	tracer Tracer
}

// New constructs a machine with a zeroed bank of a given width for executing a
// given program, starting from its first instruction.
func New(width uint, program ...instruction.Instruction) *Machine {
	return &Machine{
		program:     program,
		regs:        register.NewBank(width),
		binding:     util.None[uint](),
		breakpoints: bit.NewSet(uint(len(program))),
	}
}

// Bind the instruction pointer to a given register.
func (p *Machine) Bind(reg uint) *Machine {
	if reg >= p.regs.Width() {
		panic(fmt.Sprintf("cannot bind ip to r%d (width %d)", reg, p.regs.Width()))
	}
	//
	p.binding = util.Some(reg)
	//
	return p
}

// WithRegisters initialises the first registers of the bank with the given
// values, leaving the remainder unchanged.
func (p *Machine) WithRegisters(values ...int64) *Machine {
	if uint(len(values)) > p.regs.Width() {
		panic(fmt.Sprintf("too many initial values (%d) for bank of width %d", len(values), p.regs.Width()))
	}
	//
	copy(p.regs, values)
	//
	return p
}

// WithStepLimit bounds the total number of instructions this machine will
// execute, where zero means unbounded.
func (p *Machine) WithStepLimit(limit uint) *Machine {
	p.limit = limit
	return p
}

// WithTracer registers a tracer to be notified after every step.
func (p *Machine) WithTracer(tracer Tracer) *Machine {
	p.tracer = tracer
	return p
}

// Break sets a breakpoint at each of the given instruction positions.
// Positions outside the program are ignored, since execution halts before
// reaching them.
func (p *Machine) Break(ips ...uint) *Machine {
	for _, ip := range ips {
		if ip < uint(len(p.program)) {
			p.breakpoints.Insert(ip)
		}
	}
	//
	return p
}

// Registers returns the register bank of this machine.  Observe that this is
// not a copy.
func (p *Machine) Registers() register.Bank {
	return p.regs
}

// Program returns the instructions being executed by this machine.
func (p *Machine) Program() []instruction.Instruction {
	return p.program
}

// IP returns the current instruction pointer.
func (p *Machine) IP() int64 {
	return p.ip
}

// Binding returns the register bound to the instruction pointer (if any).
func (p *Machine) Binding() util.Option[uint] {
	return p.binding
}

// Steps returns the number of instructions executed so far.
func (p *Machine) Steps() uint {
	return p.steps
}

// Halted checks whether the instruction pointer has left the program.
func (p *Machine) Halted() bool {
	return p.ip < 0 || p.ip >= int64(len(p.program))
}

// Step executes exactly one instruction (ignoring breakpoints and the step
// limit), returning false if the machine had already halted.
func (p *Machine) Step() bool {
	if p.Halted() {
		return false
	}
	//
	var (
		ip   = p.ip
		insn = p.program[ip]
	)
	// Any breakpoint here has now been passed
	p.paused = false
	//
	if p.binding.HasValue() {
		r := p.binding.Unwrap()
		p.regs[r] = ip
		insn.Execute(p.regs)
		p.ip = p.regs[r] + 1
	} else {
		insn.Execute(p.regs)
		p.ip = ip + 1
	}
	//
	p.steps++
	//
	if p.tracer != nil {
		p.tracer.Trace(ip, insn, p.regs)
	}
	//
	return true
}

// Execute the machine for at most the given number of steps, returning the
// actual number of steps executed and the status at that point.
func (p *Machine) Execute(steps uint) (uint, Status) {
	var nsteps uint
	//
	for ; nsteps < steps; nsteps++ {
		if p.Halted() {
			return nsteps, HALTED
		} else if p.limit != 0 && p.steps >= p.limit {
			return nsteps, LIMIT
		} else if !p.paused && p.breakpoints.Contains(uint(p.ip)) {
			// Make the ip visible to whoever inspects the registers.
			if p.binding.HasValue() {
				p.regs[p.binding.Unwrap()] = p.ip
			}
			//
			p.paused = true
			//
			return nsteps, BREAK
		}
		//
		p.Step()
	}
	//
	return nsteps, RUNNING
}

// Run executes the machine in chunks until it halts, reaches a breakpoint or
// exhausts its step limit.
func (p *Machine) Run() Status {
	for {
		if _, status := p.Execute(CHUNK_SIZE); status != RUNNING {
			return status
		}
	}
}
