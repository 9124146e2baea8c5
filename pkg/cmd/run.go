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
	"slices"

	"github.com/consensys/go-regvm/pkg/asm"
	"github.com/consensys/go-regvm/pkg/config"
	"github.com/consensys/go-regvm/pkg/util"
	"github.com/consensys/go-regvm/pkg/util/math"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program_file",
	Short: "run a program until it halts.",
	Long: `Run a program written using operation mnemonics until it halts (or
	reaches a breakpoint), then report the value of a given register.  The
	program may bind the instruction pointer to a register using "#ip N".  Part 2
	reruns the program from a second initial bank until it reaches a given
	breakpoint, and reports the sum of the divisors of the number it holds.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			atexit.Exit(EXIT_USAGE)
		}
		//
		configureLogging(cmd)
		//
		program := readProgramFile(args[0])
		profile := loadProfile(cmd)
		//
		m, err := newMachine(program, profile)
		if err != nil {
			fail(EXIT_INPUT, err)
		}
		//
		m.Break(profile.Breakpoints...)
		//
		if GetFlag(cmd, "trace") {
			log.SetLevel(log.TraceLevel)
			m.WithTracer(machine.LogTracer{})
		}
		//
		stats := util.NewPerfStats()
		status := m.Run()
		stats.Log("Execution")
		//
		log.Debugf("%s after %d steps at ip %d (bound to %s)", status, m.Steps(), m.IP(), m.Binding())
		//
		if status == machine.LIMIT {
			fail(EXIT_RUNTIME, errors.Wrapf(machine.ErrStepLimit, "%d steps executed", m.Steps()))
		}
		//
		target, err := factorTarget(program, profile)
		if err != nil {
			fail(EXIT_RUNTIME, err)
		}
		//
		fmt.Printf("Part 1: %d\n", m.Registers()[profile.Report])
		fmt.Printf("Part 2: %d\n", math.SumOfDivisors(target))
	},
}

// Determine the number whose divisors are summed for Part 2, by rerunning the
// program from the Part 2 initial bank until it reaches the Part 2 breakpoint.
// The number is read from the Part 2 register or, if none is given, is the
// largest value in the bank.  A program which halts before reaching the
// breakpoint is read as it halted.
func factorTarget(program asm.Program, profile config.Profile) (int64, error) {
	target := config.DefaultFactorTarget()
	//
	if profile.Part2 != nil {
		target = *profile.Part2
	}
	//
	profile.Initial = target.Initial
	//
	m, err := newMachine(program, profile)
	if err != nil {
		return 0, err
	}
	//
	stats := util.NewPerfStats()
	status := m.Break(target.Break).Run()
	stats.Log("Part 2 execution")
	//
	if status == machine.LIMIT {
		return 0, errors.Wrapf(machine.ErrStepLimit, "%d steps executed before ip %d", m.Steps(), target.Break)
	}
	//
	regs := m.Registers()
	//
	log.Debugf("part 2 %s at ip %d with registers %s", status, m.IP(), regs)
	//
	if target.Register != nil {
		return regs[*target.Register], nil
	}
	//
	return slices.Max(regs), nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

// Add the flags of the run command.
func addRunFlags(cmd *cobra.Command) {
	addMachineFlags(cmd)
	cmd.Flags().UintSlice("break", nil, "pause before executing the instruction at each given address")
	cmd.Flags().Uint("report", 0, "register whose final value is reported")
	cmd.Flags().Bool("trace", false, "log every executed instruction")
	cmd.Flags().Int64Slice("part2-init", nil, "initial register values for part 2 (default r0=1)")
	cmd.Flags().Uint("part2-break", 1, "address at which part 2 reads its target")
	cmd.Flags().Uint("part2-register", 0, "register holding the part 2 target (default: largest)")
}
