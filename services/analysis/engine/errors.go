// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tamgridhq/tamgrid/services/llm"
)

// Pipeline error taxonomy. Every failure mode of an analysis call maps to
// exactly one of these, so handlers can translate errors to HTTP statuses
// without string matching.
var (
	// ErrInvalidInput rejects a request before any provider call is made.
	ErrInvalidInput = errors.New("invalid request")

	// ErrContentFlagged means the moderation gate rejected the model
	// output. Carried by ModerationError, which adds the category codes.
	ErrContentFlagged = errors.New("response flagged by content moderation")

	// ErrUnparsableResponse means no valid JSON object could be extracted
	// from the model output.
	ErrUnparsableResponse = errors.New("failed to parse AI response")

	// ErrMalformedSegmentData means the extracted JSON decoded but the
	// segment payload failed validation.
	ErrMalformedSegmentData = errors.New("AI response contained malformed segment data")
)

// ModerationError wraps ErrContentFlagged with the hazard categories the
// classifier reported.
type ModerationError struct {
	Categories []string
}

func (e *ModerationError) Error() string {
	if len(e.Categories) == 0 {
		return ErrContentFlagged.Error()
	}
	return fmt.Sprintf("%s: %s", ErrContentFlagged, strings.Join(e.Categories, ", "))
}

func (e *ModerationError) Unwrap() error {
	return ErrContentFlagged
}

// HTTPStatus maps a pipeline error to its response status code.
//
// Client mistakes (bad input, asking for an unconfigured provider) are 400.
// Flagged content is 422: the request was fine, the output is not servable.
// Everything else, including a server that has no providers at all, is 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, llm.ErrProviderUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, ErrContentFlagged):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
