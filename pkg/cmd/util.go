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
package cmd

import (
	"fmt"
	"strings"

	"github.com/consensys/go-regvm/pkg/asm"
	"github.com/consensys/go-regvm/pkg/config"
	"github.com/consensys/go-regvm/pkg/util/source"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// EXIT_USAGE indicates the command line was malformed.
const EXIT_USAGE = 1

// EXIT_INPUT indicates an input file could not be read, or was malformed.
const EXIT_INPUT = 2

// EXIT_RESOLVE indicates the samples did not determine every opcode.
const EXIT_RESOLVE = 3

// EXIT_RUNTIME indicates a program failed to run to completion.
const EXIT_RUNTIME = 4

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fail(EXIT_USAGE, err)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error
// arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fail(EXIT_USAGE, err)
	}
	//
	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fail(EXIT_USAGE, err)
	}
	//
	return r
}

// GetUintArray gets an expected unsigned integer array flag, or exits if an
// error arises.
func GetUintArray(cmd *cobra.Command, flag string) []uint {
	r, err := cmd.Flags().GetUintSlice(flag)
	if err != nil {
		fail(EXIT_USAGE, err)
	}
	//
	return r
}

// GetIntArray gets an expected integer array flag, or exits if an error
// arises.
func GetIntArray(cmd *cobra.Command, flag string) []int64 {
	r, err := cmd.Flags().GetInt64Slice(flag)
	if err != nil {
		fail(EXIT_USAGE, err)
	}
	//
	return r
}

// Configure the log level from the verbose flag.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// Report an error and exit with a given code.
func fail(code int, err error) {
	log.Error(err)
	atexit.Exit(code)
}

// Read a source file, or exit if this fails.
func readSourceFile(filename string) *source.File {
	log.Debugf("reading source file %s", filename)
	//
	files, err := source.ReadFiles(filename)
	if err != nil {
		fail(EXIT_INPUT, err)
	}
	//
	return &files[0]
}

// Read and parse a program file, or exit if this fails.
func readProgramFile(filename string) asm.Program {
	program, errs := asm.ParseProgram(readSourceFile(filename))
	//
	if len(errs) > 0 {
		printSyntaxErrors(errs)
		atexit.Exit(EXIT_INPUT)
	}
	//
	log.Debugf("parsed %d instructions (ip bound to %s)", len(program.Instructions), program.Binding)
	//
	return program
}

// Determine the run profile from the profile file (if given) and any flags
// explicitly set, with the latter taking precedence.  Exits if the profile file
// cannot be read, or the result is invalid.
func loadProfile(cmd *cobra.Command) config.Profile {
	profile, err := readProfile(cmd)
	if err != nil {
		fail(EXIT_INPUT, err)
	}
	//
	if profile, err = mergeFlags(cmd, profile); err != nil {
		fail(EXIT_USAGE, err)
	}
	//
	if data, err := profile.Encode(); err == nil {
		log.Debugf("using profile:\n%s", data)
	}
	//
	return profile
}

// Read the profile file named by the config flag, or return the default profile
// if there is none.
func readProfile(cmd *cobra.Command) (config.Profile, error) {
	if path := GetString(cmd, "config"); path != "" {
		return config.Load(path)
	}
	//
	return config.Default(), nil
}

// Overwrite profile settings with those flags explicitly set.  Flags which a
// command does not define are ignored.  The merged profile is validated.
func mergeFlags(cmd *cobra.Command, profile config.Profile) (config.Profile, error) {
	if changed(cmd, "registers") {
		profile.Registers = GetUint(cmd, "registers")
	}
	//
	if changed(cmd, "init") {
		profile.Initial = GetIntArray(cmd, "init")
	}
	//
	if changed(cmd, "max-steps") {
		profile.MaxSteps = GetUint(cmd, "max-steps")
	}
	//
	if changed(cmd, "break") {
		profile.Breakpoints = GetUintArray(cmd, "break")
	}
	//
	if changed(cmd, "report") {
		profile.Report = GetUint(cmd, "report")
	}
	//
	if changed(cmd, "part2-init") || changed(cmd, "part2-break") || changed(cmd, "part2-register") {
		target := config.DefaultFactorTarget()
		//
		if profile.Part2 != nil {
			target = *profile.Part2
		}
		//
		if changed(cmd, "part2-init") {
			target.Initial = GetIntArray(cmd, "part2-init")
		}
		//
		if changed(cmd, "part2-break") {
			target.Break = GetUint(cmd, "part2-break")
		}
		//
		if changed(cmd, "part2-register") {
			reg := GetUint(cmd, "part2-register")
			target.Register = &reg
		}
		//
		profile.Part2 = &target
	}
	//
	return profile, profile.Validate()
}

// Check whether a flag is both defined by a command, and explicitly set.
func changed(cmd *cobra.Command, flag string) bool {
	f := cmd.Flags().Lookup(flag)
	return f != nil && f.Changed
}

// Construct a machine for a given program under a given profile.
func newMachine(program asm.Program, profile config.Profile) (*machine.Machine, error) {
	if err := program.Validate(profile.Registers); err != nil {
		return nil, err
	}
	//
	m := machine.New(profile.Registers, program.Instructions...).
		WithRegisters(profile.Initial...).
		WithStepLimit(profile.MaxSteps)
	//
	if program.Binding.HasValue() {
		m.Bind(program.Binding.Unwrap())
	}
	//
	return m, nil
}

// Add the flags common to commands which run a program.
func addMachineFlags(cmd *cobra.Command) {
	cmd.Flags().Uint("registers", config.DEFAULT_REGISTERS, "number of registers")
	cmd.Flags().Int64Slice("init", nil, "initial register values (from r0)")
	cmd.Flags().Uint("max-steps", 0, "abandon execution after this many steps (0 for no limit)")
	cmd.Flags().String("config", "", "read run profile from YAML file")
}

// Print syntax errors with appropriate highlighting.
func printSyntaxErrors(errs []source.SyntaxError) {
	for _, err := range errs {
		printSyntaxError(&err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := max(0, min(span.Start()-line.Start(), line.Length()))
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Println(err.Error())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
