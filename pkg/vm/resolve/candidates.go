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

	"github.com/consensys/go-regvm/pkg/util/collection/bit"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NUM_OPCODES is the number of opaque opcode numbers, which matches the number
// of operations.
const NUM_OPCODES = instruction.NUM_OPERATIONS

// ErrContradiction signals that the samples rule out every operation for some
// opcode number.
var ErrContradiction = errors.New("no operation consistent with samples")

// ErrUnderConstrained signals that the samples are not sufficient to identify a
// unique operation for some opcode number.
var ErrUnderConstrained = errors.New("samples do not identify a unique operation")

// Candidates records, for each opcode number, the set of operations which it
// could still denote.  Initially every opcode number could denote any
// operation.  Sets only ever shrink, either through observing samples or
// through elimination.
type Candidates struct {
	sets [NUM_OPCODES]bit.Set
}

// NewCandidates constructs a set of candidates where every opcode number could
// denote any operation.
func NewCandidates() *Candidates {
	var p Candidates
	//
	for i := range p.sets {
		p.sets[i] = bit.FullSet(instruction.NUM_OPERATIONS)
	}
	//
	return &p
}

// Clone creates a true copy of these candidates.
func (p *Candidates) Clone() *Candidates {
	var q Candidates
	//
	for i := range p.sets {
		q.sets[i] = p.sets[i].Clone()
	}
	//
	return &q
}

// Get returns the operations still possible for a given opcode number.
func (p *Candidates) Get(opcode uint) []instruction.Operation {
	var ops []instruction.Operation
	//
	for _, v := range p.sets[opcode].Values() {
		ops = append(ops, instruction.Operation(v))
	}
	//
	return ops
}

// Count returns the number of operations still possible for a given opcode
// number.
func (p *Candidates) Count(opcode uint) uint {
	return p.sets[opcode].Count()
}

// Observe a given sample, removing every operation inconsistent with it from
// the candidates of its opcode number.  This returns the number of operations
// removed.  The sample's opcode number must be less than NUM_OPCODES.
func (p *Candidates) Observe(sample Sample) uint {
	var (
		removed uint
		opcode  = sample.Raw.Opcode
		set     = &p.sets[opcode]
	)
	//
	for _, v := range set.Values() {
		if op := instruction.Operation(v); !sample.Consistent(op) && set.Remove(v) {
			removed++
		}
	}
	//
	return removed
}

// ObserveAll observes each of a given set of samples in turn, returning the
// total number of operations removed.
func (p *Candidates) ObserveAll(samples []Sample) uint {
	var removed uint
	//
	for _, s := range samples {
		removed += p.Observe(s)
	}
	//
	return removed
}

// Eliminate performs one full elimination pass: for every opcode number with
// exactly one candidate operation, that operation is removed from the
// candidates of every other opcode number.  This returns the number of
// operations removed.
func (p *Candidates) Eliminate() uint {
	var removed uint
	//
	for i := range p.sets {
		if p.sets[i].Count() != 1 {
			continue
		}
		//
		op, _ := p.sets[i].First()
		//
		for j := range p.sets {
			if i != j && p.sets[j].Remove(op) {
				removed++
			}
		}
	}
	//
	return removed
}

// Propagate repeatedly applies elimination until a full pass removes nothing,
// returning the number of passes made.  Since each pass that continues must
// remove at least one of finitely many operations, this always terminates.
func (p *Candidates) Propagate() uint {
	var passes uint
	//
	for {
		passes++
		//
		removed := p.Eliminate()
		log.Debugf("elimination pass %d removed %d candidates", passes, removed)
		//
		if removed == 0 {
			return passes
		}
	}
}

// Converged checks whether every opcode number has exactly one candidate.
func (p *Candidates) Converged() bool {
	for i := range p.sets {
		if p.sets[i].Count() != 1 {
			return false
		}
	}
	//
	return true
}

// Mapping returns the resolved mapping, provided every opcode number has
// exactly one candidate.  Otherwise, an error is returned identifying the first
// opcode number which is either contradictory or ambiguous.
func (p *Candidates) Mapping() (Mapping, error) {
	var mapping Mapping
	//
	for i := range p.sets {
		switch p.sets[i].Count() {
		case 0:
			return mapping, errors.Wrapf(ErrContradiction, "opcode %d", i)
		case 1:
			op, _ := p.sets[i].First()
			mapping[i] = instruction.Operation(op)
		default:
			return mapping, errors.Wrapf(ErrUnderConstrained, "opcode %d could be any of %v", i, p.Get(uint(i)))
		}
	}
	//
	return mapping, nil
}

func (p *Candidates) String() string {
	var str string
	//
	for i := range p.sets {
		if i != 0 {
			str += "; "
		}
		//
		str += fmt.Sprintf("%d:%v", i, p.Get(uint(i)))
	}
	//
	return str
}

// Resolve determines the unique operation denoted by each opcode number from a
// given set of samples.  If the samples are contradictory, or insufficient to
// identify every opcode number, then an error is returned.
func Resolve(samples []Sample) (Mapping, error) {
	candidates := NewCandidates()
	//
	removed := candidates.ObserveAll(samples)
	log.Debugf("observing %d samples removed %d candidates", len(samples), removed)
	//
	candidates.Propagate()
	//
	return candidates.Mapping()
}
