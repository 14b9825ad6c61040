// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHexColor_Valid(t *testing.T) {
	for _, color := range []string{"#fff", "#FFF", "#6b7280", "#00FF00", "#123abc"} {
		assert.NoError(t, ValidateHexColor(color), color)
	}
}

func TestValidateHexColor_Invalid(t *testing.T) {
	for _, color := range []string{"", "fff", "#ff", "#fffff", "#gggggg", "red", "#6b7280 ", "rgb(1,2,3)"} {
		assert.Error(t, ValidateHexColor(color), color)
	}
}

func TestValidateSegmentName(t *testing.T) {
	assert.NoError(t, ValidateSegmentName("Not in market"))
	assert.NoError(t, ValidateSegmentName("Early adopters (US)"))

	assert.Error(t, ValidateSegmentName(""))
	assert.Error(t, ValidateSegmentName("   "))
	assert.Error(t, ValidateSegmentName("line\nbreak"))
	assert.Error(t, ValidateSegmentName(strings.Repeat("x", MaxSegmentNameLength+1)))
}
