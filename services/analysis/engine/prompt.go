// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"fmt"

	"github.com/tamgridhq/tamgrid/pkg/quantize"
)

// DefaultPopulation is the world population used when a request does not
// supply its own base.
const DefaultPopulation int64 = 8_100_000_000

// SystemPrompt frames every market analysis completion. The exact-sum rule
// is stated twice on purpose; models drop it otherwise.
const SystemPrompt = `You are a market analysis expert. You will be given a population base and a market description. Your job is to break the ENTIRE population into segments that show how tiny the real addressable market is within the total population.

CRITICAL: Segments MUST sum to EXACTLY the total population number provided. The population is the whole — you are showing what fraction of it is your actual TAM.

Return ONLY valid JSON with this exact structure:
{
  "totalPopulation": <number>,
  "segments": [
    { "name": "<segment name>", "count": <number>, "color": "<hex color>" }
  ]
}

Rules:
- Use 3-6 segments. The largest segment should be "Not in market" or similar — the majority of the population.
- Use distinct hex colors. Use gray (#6b7280) for the "not in market" segment.
- Segments MUST sum to EXACTLY the totalPopulation number provided.
- Order from largest to smallest.
- Be realistic with numbers based on real market data.
- The point is to show how small the real TAM is compared to the total population.`

// BuildUserPrompt embeds the population base and market description into
// the per-request prompt. The population appears three times: grouped with
// separators, abbreviated, and as the bare number the segments must sum to.
func BuildUserPrompt(population int64, query string) string {
	return fmt.Sprintf(`Population base: %s (%s)
Market: %s

Break this population of %s into segments showing TAM for %q. Segments must sum to exactly %d.`,
		quantize.FormatExact(population),
		quantize.FormatCount(population),
		query,
		quantize.FormatCount(population),
		query,
		population,
	)
}
