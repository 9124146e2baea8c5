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
	"os"

	"github.com/consensys/go-regvm/pkg/asm"
	"github.com/consensys/go-regvm/pkg/util"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/consensys/go-regvm/pkg/vm/register"
	"github.com/consensys/go-regvm/pkg/vm/resolve"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// SAMPLE_WIDTH is the bank width assumed for a sample file without samples.
const SAMPLE_WIDTH = 4

var decodeCmd = &cobra.Command{
	Use:   "decode [flags] sample_file",
	Short: "resolve opcode numbers from samples, then run the decoded program.",
	Long: `Determine which operation each opcode number denotes, using the samples
	given at the start of the file.  Then, decode and run the program which
	follows the samples on a zeroed register bank.  Part 1 reports how many
	samples are consistent with at least threshold operations, whilst Part 2
	reports the final value of the chosen register.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			atexit.Exit(EXIT_USAGE)
		}
		//
		configureLogging(cmd)
		//
		threshold := GetUint(cmd, "threshold")
		report := GetUint(cmd, "register")
		stats := util.NewPerfStats()
		// Parse samples and program
		samples, raws, errs := asm.ParseSamples(readSourceFile(args[0]))
		if len(errs) > 0 {
			printSyntaxErrors(errs)
			atexit.Exit(EXIT_INPUT)
		}
		//
		log.Debugf("parsed %d samples and %d instructions", len(samples), len(raws))
		// Part 1
		ambiguous := resolve.CountAmbiguous(samples, threshold)
		// Part 2
		mapping, err := resolve.Resolve(samples)
		if err != nil {
			fail(EXIT_RESOLVE, err)
		}
		//
		log.Debugf("resolved mapping: %s", mapping.String())
		//
		regs := runDecoded(mapping, raws, sampleWidth(samples), report)
		stats.Log("Decoding")
		//
		fmt.Fprintf(os.Stdout, "Part 1: %d\n", ambiguous)
		fmt.Fprintf(os.Stdout, "Part 2: %d\n", regs[report])
	},
}

// Run a raw program after decoding it with a given mapping.
func runDecoded(mapping resolve.Mapping, raws []instruction.Raw, width uint, report uint) register.Bank {
	if report >= width {
		fail(EXIT_USAGE, errors.Errorf("register r%d out of bounds (width %d)", report, width))
	}
	//
	program := asm.Program{Binding: util.None[uint](), Instructions: mapping.DecodeAll(raws)}
	if err := program.Validate(width); err != nil {
		fail(EXIT_INPUT, err)
	}
	//
	m := machine.New(width, program.Instructions...)
	// Straight-line programs always halt.
	m.Run()
	//
	return m.Registers()
}

func sampleWidth(samples []resolve.Sample) uint {
	if len(samples) == 0 {
		return SAMPLE_WIDTH
	}
	//
	return samples[0].Before.Width()
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Uint("threshold", 3, "minimum number of consistent operations for Part 1")
	decodeCmd.Flags().Uint("register", 0, "register whose final value is reported by Part 2")
}
