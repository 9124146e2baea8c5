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
	"github.com/consensys/go-regvm/pkg/vm/instruction"
	"github.com/consensys/go-regvm/pkg/vm/register"
	log "github.com/sirupsen/logrus"
)

// LogTracer reports every executed instruction at trace level.
type LogTracer struct{}

// Trace implementation for the Tracer interface.
func (LogTracer) Trace(ip int64, insn instruction.Instruction, regs register.Bank) {
	log.WithFields(log.Fields{
		"ip":   ip,
		"insn": insn.String(),
	}).Trace(regs.String())
}
