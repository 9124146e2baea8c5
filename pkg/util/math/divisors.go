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
package math

// SumOfDivisors returns the sum of all positive divisors of n (including n
// itself), or zero if n is not positive.
func SumOfDivisors(n int64) int64 {
	var sum int64
	//
	for d := int64(1); d <= n/d; d++ {
		if n%d != 0 {
			continue
		}
		//
		sum += d
		// Avoid counting the square root twice
		if e := n / d; e != d {
			sum += e
		}
	}
	//
	return sum
}
