// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rules holds the built-in table of known emoji corruptions.
package rules

import "github.com/walteh/emojifix/pkg/text"

// 🎯 DefaultTarget is the file fixed when no path is given
const DefaultTarget = "src/components/AdminPanel.jsx"

// Two shapes of damage show up in the icon map:
//   - the whole emoji became a single U+FFFD, so the keyword list that follows is
//     the only thing identifying it
//   - U+FFFD was inserted in front of a code point that survived, either the
//     emoji itself or its variation selector
var known = []text.ReplacementRule{
	{Pattern: `'\x{FFFD}': \['soap',`, Replacement: "'\U0001F9FC': ['soap',"},
	{Pattern: `'\x{FFFD}': \['laundry',`, Replacement: "'\U0001F9FA': ['laundry',"},
	{Pattern: `'\x{FFFD}': \['bar soap',`, Replacement: "'\U0001F9F4': ['bar soap',"},
	{Pattern: `'\x{FFFD}': \['can',`, Replacement: "'\U0001F96B': ['can',"},
	{Pattern: `'\x{FFFD}\x{1F9C2}'`, Replacement: "'\U0001F9C2'"},
	{Pattern: `'\x{FFFD}': \['razor',`, Replacement: "'\U0001FA92': ['razor',"},
	{Pattern: `'\x{FFFD}': \['nail', 'polish'`, Replacement: "'\U0001F485': ['nail', 'polish'"},
	{Pattern: `'\x{FFFD}\x{FE0F}': \['pen',`, Replacement: "'\U0001F58A\uFE0F': ['pen',"},
	{Pattern: `'\x{FFFD}': \['clip',`, Replacement: "'\U0001F4CE': ['clip',"},
	{Pattern: `'\x{FFFD}': \['wrench',`, Replacement: "'\U0001F527': ['wrench',"},
}

// 📋 Known returns the known corruptions in the order they must run.
// The slice is a copy and may be modified by the caller.
func Known() []text.ReplacementRule {
	out := make([]text.ReplacementRule, len(known))
	copy(out, known)
	return out
}
