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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// ErrStepLimit signals that a machine exhausted its step limit before
// producing a result.
var ErrStepLimit = errors.New("step limit reached")

// ErrUnreached signals that a machine halted without ever reaching the
// watched position.
var ErrUnreached = errors.New("watched position never reached")

// Observation summarises the values held by a watched register across
// successive visits to a given position.
type Observation struct {
	// Value held on the first visit.
	First int64
	// Last value seen before some value was seen a second time (or before the
	// machine halted).
	Last int64
	// Number of distinct values seen.
	Distinct uint
	// Indicates whether a value repeated (as opposed to the machine halting).
	Repeated bool
}

// Watch runs a given machine, sampling register reg every time execution
// reaches position ip, until a sampled value repeats or the machine halts.
// Since the machine is deterministic, a repeated value at the same position
// typically signals that the program has entered a cycle.
func Watch(m *Machine, ip uint, reg uint) (Observation, error) {
	var (
		obs  Observation
		seen = mapset.NewThreadUnsafeSet[int64]()
	)
	//
	if reg >= m.Registers().Width() {
		return obs, errors.Errorf("cannot watch r%d (width %d)", reg, m.Registers().Width())
	}
	// Execution halts before reaching any position outside the program.
	if ip >= uint(len(m.Program())) {
		return obs, errors.Wrapf(ErrUnreached, "ip %d outside program", ip)
	}
	//
	m.Break(ip)
	//
	for {
		switch m.Run() {
		case BREAK:
			if m.IP() != int64(ip) {
				// Some other breakpoint
				continue
			}
			//
			value := m.Registers()[reg]
			//
			if seen.Contains(value) {
				obs.Repeated = true
				return obs, nil
			} else if seen.Cardinality() == 0 {
				obs.First = value
			}
			//
			seen.Add(value)
			obs.Last = value
			obs.Distinct = uint(seen.Cardinality())
		case LIMIT:
			return obs, errors.Wrapf(ErrStepLimit, "after %d steps watching ip %d", m.Steps(), ip)
		default:
			if seen.Cardinality() == 0 {
				return obs, errors.Wrapf(ErrUnreached, "ip %d", ip)
			}
			//
			return obs, nil
		}
	}
}
