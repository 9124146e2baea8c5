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
package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBank_00(t *testing.T) {
	bank := NewBank(4)
	//
	assert.Equal(t, uint(4), bank.Width())
	assert.Equal(t, "[0, 0, 0, 0]", bank.String())
}

func TestBank_01(t *testing.T) {
	bank := Of(3, 2, 1, 1)
	clone := bank.Clone()
	clone[0] = 7
	//
	assert.Equal(t, int64(3), bank[0])
	assert.False(t, bank.Equal(clone))
	assert.True(t, bank.Equal(Of(3, 2, 1, 1)))
	assert.False(t, bank.Equal(Of(3, 2, 1)))
}

func TestBank_02(t *testing.T) {
	bank := Of(-5, 6)
	assert.Equal(t, "[-5, 6]", bank.String())
	//
	bank.Reset()
	assert.Equal(t, "[0, 0]", bank.String())
}
