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
package bit

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Set provides a straightforward bitset implementation. That is, a set of
// (unsigned) integer values implemented as an array of bits.
type Set struct {
	words []uint64
}

// NewSet creates a Set large enough to hold values 0..size-1 without
// reallocation.
func NewSet(size uint) Set {
	return Set{make([]uint64, (size+63)/64)}
}

// FullSet creates a Set containing exactly the values 0..size-1.
func FullSet(size uint) Set {
	set := NewSet(size)
	//
	for i := uint(0); i < size; i++ {
		set.Insert(i)
	}
	//
	return set
}

// Clone creates a true copy of this bitset which ensures no aliasing between
// this set and the result.
func (p *Set) Clone() Set {
	return Set{slices.Clone(p.words)}
}

// Insert a given value into this set.
func (p *Set) Insert(val uint) {
	word := val / 64
	bit := val % 64
	//
	for uint(len(p.words)) <= word {
		p.words = append(p.words, 0)
	}
	// Set bit
	mask := uint64(1) << bit
	p.words[word] = p.words[word] | mask
}

// Remove a given value from this set, returning true if it was present.
func (p *Set) Remove(val uint) bool {
	word := val / 64
	bit := val % 64
	// Check whether we need to do anything.
	if uint(len(p.words)) <= word {
		return false
	}
	//
	mask := uint64(1) << bit
	present := p.words[word]&mask != 0
	p.words[word] = p.words[word] & ^mask
	//
	return present
}

// Contains checks whether a given value is contained, or not.
func (p *Set) Contains(val uint) bool {
	word := val / 64
	bit := val % 64
	//
	if uint(len(p.words)) <= word {
		return false
	}
	// Set mask
	mask := uint64(1) << bit
	//
	return (p.words[word] & mask) != 0
}

// Count returns the number of bits in the bitset which are set to one.
func (p *Set) Count() uint {
	count := 0
	//
	for _, w := range p.words {
		count += bits.OnesCount64(w)
	}
	//
	return uint(count)
}

// First returns the smallest value in this set, and false if it is empty.
func (p *Set) First() (uint, bool) {
	for i, w := range p.words {
		if w != 0 {
			return uint(i*64 + bits.TrailingZeros64(w)), true
		}
	}
	//
	return 0, false
}

// Values returns the elements of this set in ascending order.
func (p *Set) Values() []uint {
	var vals []uint
	//
	for i, w := range p.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			vals = append(vals, uint(i*64+bit))
			w &= w - 1
		}
	}
	//
	return vals
}

// Equals checks whether two sets hold exactly the same values, irrespective of
// how many words each has allocated.
func (p *Set) Equals(other Set) bool {
	n := max(len(p.words), len(other.words))
	//
	for i := 0; i < n; i++ {
		var lhs, rhs uint64
		//
		if i < len(p.words) {
			lhs = p.words[i]
		}
		//
		if i < len(other.words) {
			rhs = other.words[i]
		}
		//
		if lhs != rhs {
			return false
		}
	}
	//
	return true
}

func (p *Set) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, v := range p.Values() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(fmt.Sprintf("%d", v))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
