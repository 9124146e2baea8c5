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
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DEFAULT_REGISTERS is the bank width used when none is given.  Programs which
// bind the instruction pointer conventionally use six registers.
const DEFAULT_REGISTERS = 6

// Profile captures the settings for running a program, such that these can be
// kept alongside the program itself rather than repeated on the command line.
type Profile struct {
	// Number of registers in the bank.
	Registers uint `yaml:"registers"`
	// Initial register values, starting from r0.  Registers not given are zero.
	Initial []int64 `yaml:"initial,omitempty"`
	// Maximum number of steps before the run is abandoned (0 means no limit).
	MaxSteps uint `yaml:"max_steps,omitempty"`
	// Instruction addresses at which execution pauses.
	Breakpoints []uint `yaml:"breakpoints,omitempty"`
	// Register whose final value is reported.
	Report uint `yaml:"report"`
	// Optional register to watch.
	Watch *WatchPoint `yaml:"watch,omitempty"`
	// Optional override of how the Part 2 target is found.
	Part2 *FactorTarget `yaml:"part2,omitempty"`
}

// WatchPoint identifies a register to sample each time execution reaches a
// given instruction.
type WatchPoint struct {
	IP       uint `yaml:"ip"`
	Register uint `yaml:"register"`
}

// FactorTarget identifies a number whose divisors are summed.  The program is
// rerun from the given initial registers until it reaches a breakpoint, at
// which point the number is read from a register.  This finds the number a
// program is about to factorise by brute force, without waiting for it.
type FactorTarget struct {
	Initial []int64 `yaml:"initial,omitempty"`
	Break   uint    `yaml:"break"`
	// Register holding the number, or nil to use whichever register holds the
	// largest value.
	Register *uint `yaml:"register,omitempty"`
}

// DefaultFactorTarget returns the target used when none is given: r0 starts at
// one, and the number is the largest value held on first reaching position 1.
func DefaultFactorTarget() FactorTarget {
	return FactorTarget{Initial: []int64{1}, Break: 1}
}

// Default returns the profile used when no profile file is given.
func Default() Profile {
	return Profile{Registers: DEFAULT_REGISTERS}
}

// Load a profile from a given YAML file.  Fields not present in the file take
// their default values.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.Wrapf(err, "reading profile %s", path)
	}
	//
	profile, err := Parse(data)
	if err != nil {
		return Profile{}, errors.Wrapf(err, "profile %s", path)
	}
	//
	return profile, nil
}

// Parse a profile from YAML.  Unknown fields are rejected, since they most
// likely indicate a typo.
func Parse(data []byte) (Profile, error) {
	var (
		profile = Default()
		decoder = yaml.NewDecoder(bytes.NewReader(data))
	)
	//
	decoder.KnownFields(true)
	// An empty document leaves the defaults untouched.
	if err := decoder.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, errors.Wrap(err, "malformed profile")
	}
	//
	return profile, profile.Validate()
}

// Validate checks that every register named in this profile exists.
func (p *Profile) Validate() error {
	switch {
	case p.Registers == 0:
		return errors.New("at least one register required")
	case uint(len(p.Initial)) > p.Registers:
		return errors.Errorf("%d initial values given for %d registers", len(p.Initial), p.Registers)
	case p.Report >= p.Registers:
		return errors.Errorf("report register r%d out of bounds (width %d)", p.Report, p.Registers)
	case p.Watch != nil && p.Watch.Register >= p.Registers:
		return errors.Errorf("watch register r%d out of bounds (width %d)", p.Watch.Register, p.Registers)
	case p.Part2 != nil && uint(len(p.Part2.Initial)) > p.Registers:
		return errors.Errorf("%d part2 initial values given for %d registers", len(p.Part2.Initial), p.Registers)
	case p.Part2 != nil && p.Part2.Register != nil && *p.Part2.Register >= p.Registers:
		return errors.Errorf("part2 register r%d out of bounds (width %d)", *p.Part2.Register, p.Registers)
	}
	//
	return nil
}

// Encode this profile as YAML.
func (p *Profile) Encode() ([]byte, error) {
	return yaml.Marshal(p)
}
