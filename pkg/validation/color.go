// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for values that
// cross trust boundaries: user-supplied segment edits and model-generated
// segment payloads.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// hexColorPattern matches CSS hex colors in 3 or 6 digit form, e.g.
// "#fff" or "#6b7280". The leading '#' is required.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor checks that color is a displayable hex color string.
//
// Model output is the usual source here, so the error message names the
// offending value for the pipeline's malformed-data diagnostics.
func ValidateHexColor(color string) error {
	if color == "" {
		return fmt.Errorf("color cannot be empty")
	}
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid hex color: %q (must be #rgb or #rrggbb)", color)
	}
	return nil
}

// MaxSegmentNameLength bounds segment names. Long names come from model
// output gone wrong and would break legend layout downstream.
const MaxSegmentNameLength = 120

// ValidateSegmentName checks that a segment name is non-empty, printable
// prose of a displayable length.
func ValidateSegmentName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("segment name cannot be empty")
	}
	if len(name) > MaxSegmentNameLength {
		return fmt.Errorf("segment name exceeds %d characters", MaxSegmentNameLength)
	}
	if strings.ContainsAny(name, "\n\r") {
		return fmt.Errorf("segment name cannot contain line breaks")
	}
	return nil
}
