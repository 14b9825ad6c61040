// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tamgridhq/tamgrid/pkg/quantize"
)

// runAllocate reads a segment JSON file and prints the dot allocation the
// grid would render.
func runAllocate(cmd *cobra.Command, args []string) error {
	var reader io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open segment file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read segments: %w", err)
	}

	var segments []quantize.Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return fmt.Errorf("failed to parse segments: %w", err)
	}
	if len(segments) == 0 {
		return fmt.Errorf("no segments in input")
	}

	counts := quantize.Counts(segments, allocateDotCount)

	if allocateJSON {
		out := make(map[string]int, len(segments))
		for i, s := range segments {
			key := s.ID
			if key == "" {
				key = s.Name
			}
			out[key] = counts[i]
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	var total int64
	for _, s := range segments {
		total += s.Count
	}
	fmt.Printf("Population %s across %d dots:\n", quantize.FormatCount(total), allocateDotCount)
	for i, s := range segments {
		fmt.Printf("  %-30s %6s -> %d dots\n", s.Name, quantize.FormatCount(s.Count), counts[i])
	}
	return nil
}
