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
package lex

// Scanner is a function which accepts some prefix of a given sequence of
// characters, returning the length of the prefix accepted (or 0 for no match).
type Scanner func(items []rune) uint

// Or combines zero or more scanners such that the resulting scanner succeeds if
// any of the scanners succeeds, trying them left-to-right.
func Or(scanners ...Scanner) Scanner {
	return func(items []rune) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		// fail
		return 0
	}
}

// Unit accepts a given sequence of characters.  That is, for this scanner to
// match, it must match all the given characters (one after the other) in their
// given order.
func Unit(chars ...rune) Scanner {
	return func(items []rune) uint {
		if len(items) < len(chars) {
			return 0
		}
		//
		for i := 0; i < len(chars); i++ {
			if items[i] != chars[i] {
				return 0
			}
		}
		//
		return uint(len(chars))
	}
}

// String expects a given string s.  It is equivalent to Unit(s[0], s[1], ...).
func String(s string) Scanner {
	return Unit([]rune(s)...)
}

// Within accepts any character within a given (inclusive) range.
func Within(lowest rune, highest rune) Scanner {
	return func(items []rune) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		// fail
		return 0
	}
}

// Many matches zero or more of a given item.
func Many(acceptor Scanner) Scanner {
	return func(items []rune) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			n := acceptor(items[index:])
			if n == 0 {
				break
			}
			//
			index += n
		}
		//
		return index
	}
}

// Until matches everything until a particular item is matched.
func Until(item rune) Scanner {
	return func(items []rune) uint {
		index := uint(0)
		//
		for index < uint(len(items)) && items[index] != item {
			index++
		}
		//
		return index
	}
}

// Eof matches the end of the input stream.
func Eof() Scanner {
	return func(items []rune) uint {
		if len(items) == 0 {
			return 1
		}
		//
		return 0
	}
}

// Then matches a given scanner followed by an optional second scanner.  The
// first scanner must match at least one character, whilst the second may match
// nothing at all.
func Then(first Scanner, rest Scanner) Scanner {
	return func(items []rune) uint {
		n := first(items)
		if n == 0 {
			return 0
		}
		//
		return n + rest(items[n:])
	}
}
