// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package jsonscan locates JSON values embedded in free-form text.
//
// Model responses are supposed to be a bare JSON object but routinely arrive
// wrapped in prose, markdown fences, or with trailing commentary. A greedy
// first-brace-to-last-brace match over-captures in all of those cases, so
// this package walks the text once, tracking brace depth and string/escape
// state, and returns the first syntactically complete object.
package jsonscan

import "encoding/json"

// FirstObject returns the first complete top-level JSON object in text and
// true, or "" and false when no balanced object exists.
//
// Braces inside string literals (including escaped quotes) do not affect the
// depth tracking. The candidate is verified with encoding/json before being
// returned, so a structurally balanced but invalid object (for example bare
// keys) is skipped and the scan continues at the next opening brace.
func FirstObject(text string) (string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end, ok := scanBalanced(text, start)
		if !ok {
			// No balanced object starts here or anywhere later; every
			// subsequent '{' is inside this unterminated run.
			return "", false
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
		// Balanced but not valid JSON; resume after this opening brace.
	}
	return "", false
}

// scanBalanced scans from the '{' at start and returns the index of the
// matching '}'.
func scanBalanced(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
