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
	"strings"

	"github.com/consensys/go-regvm/pkg/asm"
	"github.com/consensys/go-regvm/pkg/util/termio"
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/resolve"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates [flags] sample_file",
	Short: "print the candidate operations for each opcode number.",
	Long: `Print, for each opcode number, the operations consistent with every
	sample, both before and after elimination.  This is useful for determining
	why a given set of samples fails to resolve.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			atexit.Exit(EXIT_USAGE)
		}
		//
		configureLogging(cmd)
		//
		samples, _, errs := asm.ParseSamples(readSourceFile(args[0]))
		if len(errs) > 0 {
			printSyntaxErrors(errs)
			atexit.Exit(EXIT_INPUT)
		}
		//
		observed := resolve.NewCandidates()
		observed.ObserveAll(samples)
		//
		eliminated := observed.Clone()
		passes := eliminated.Propagate()
		//
		tp := candidatesTable(observed, eliminated)
		tp.AnsiEscapes(GetFlag(cmd, "ansi-escapes") && termio.IsTerminal())
		tp.Print(os.Stdout)
		//
		fmt.Printf("\n%d samples, %d elimination passes\n", len(samples), passes)
	},
}

// Construct a table with one row per opcode number, showing its candidates
// after observation and after elimination.
func candidatesTable(observed, eliminated *resolve.Candidates) *termio.TablePrinter {
	tp := termio.NewTablePrinter(3, resolve.NUM_OPCODES+1)
	tp.SetRow(0, "opcode", "observed", "eliminated")
	//
	for col := uint(0); col < 3; col++ {
		tp.SetEscape(col, 0, termio.BoldAnsiEscape().Build())
	}
	//
	for i := uint(0); i < resolve.NUM_OPCODES; i++ {
		row := i + 1
		tp.SetRow(row, fmt.Sprintf("%d", i), mnemonics(observed.Get(i)), mnemonics(eliminated.Get(i)))
		//
		switch eliminated.Count(i) {
		case 0:
			tp.SetEscape(2, row, termio.NewAnsiEscape().FgColour(termio.TERM_RED).Build())
		case 1:
			tp.SetEscape(2, row, termio.NewAnsiEscape().FgColour(termio.TERM_GREEN).Build())
		default:
			tp.SetEscape(2, row, termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW).Build())
		}
	}
	//
	return tp
}

func mnemonics(ops []instruction.Operation) string {
	if len(ops) == 0 {
		return "-"
	}
	//
	names := make([]string, len(ops))
	//
	for i, op := range ops {
		names[i] = op.Mnemonic()
	}
	//
	return strings.Join(names, " ")
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.Flags().Bool("ansi-escapes", true, "use ANSI escapes when printing to a terminal")
}
