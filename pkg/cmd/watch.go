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

	"github.com/consensys/go-regvm/pkg/config"
	"github.com/consensys/go-regvm/pkg/vm/machine"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] program_file",
	Short: "sample a register each time execution reaches a given address.",
	Long: `Run a program, sampling a register each time execution reaches a given
	instruction address, until a sampled value repeats.  Part 1 reports the
	first value sampled, whilst Part 2 reports the last value sampled before the
	first repetition.  The watch point is taken from the flags, or otherwise from
	the run profile.`,
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
		point, err := watchPoint(cmd, profile)
		if err != nil {
			fail(EXIT_USAGE, err)
		}
		//
		m, err := newMachine(program, profile)
		if err != nil {
			fail(EXIT_INPUT, err)
		}
		//
		obs, err := machine.Watch(m, point.IP, point.Register)
		if err != nil {
			fail(EXIT_RUNTIME, errors.Wrapf(err, "watching r%d at ip %d", point.Register, point.IP))
		}
		//
		if !obs.Repeated {
			log.Debugf("program halted after %d distinct values", obs.Distinct)
		}
		//
		fmt.Printf("Part 1: %d\n", obs.First)
		fmt.Printf("Part 2: %d\n", obs.Last)
	},
}

// Determine the watch point from the flags, falling back to the profile.
func watchPoint(cmd *cobra.Command, profile config.Profile) (config.WatchPoint, error) {
	var point config.WatchPoint
	//
	if profile.Watch != nil {
		point = *profile.Watch
	} else if !changed(cmd, "ip") {
		return point, errors.New("no watch point given (use --ip or a profile)")
	}
	//
	if changed(cmd, "ip") {
		point.IP = GetUint(cmd, "ip")
	}
	//
	if changed(cmd, "register") {
		point.Register = GetUint(cmd, "register")
	}
	//
	if point.Register >= profile.Registers {
		return point, errors.Errorf("register r%d out of bounds (width %d)", point.Register, profile.Registers)
	}
	//
	return point, nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addWatchFlags(watchCmd)
}

// Add the flags of the watch command.
func addWatchFlags(cmd *cobra.Command) {
	addMachineFlags(cmd)
	cmd.Flags().Uint("ip", 0, "instruction address at which to sample")
	cmd.Flags().Uint("register", 0, "register to sample")
}
