// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// Tests for analysis datatypes

package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRequest_Validate(t *testing.T) {
	assert.NoError(t, (&AnalyzeRequest{Query: "smart fridges"}).Validate())
	assert.Error(t, (&AnalyzeRequest{}).Validate())
	assert.Error(t, (&AnalyzeRequest{Query: "x", Population: -1}).Validate())
}

func TestAnalysisPayload_Validate(t *testing.T) {
	good := &AnalysisPayload{
		TotalPopulation: 1000,
		Segments: []SegmentPayload{
			{Name: "Not in market", Count: 900, Color: "#6b7280"},
			{Name: "Addressable", Count: 100, Color: "#3b82f6"},
		},
	}
	assert.NoError(t, good.Validate())
	assert.Equal(t, int64(1000), good.SegmentSum())

	bad := &AnalysisPayload{TotalPopulation: 1000}
	assert.Error(t, bad.Validate())
}

func TestAnalysisPayload_ToSegments(t *testing.T) {
	p := &AnalysisPayload{
		TotalPopulation: 10,
		Segments: []SegmentPayload{
			{Name: "A", Count: 6, Color: "#111111"},
			{Name: "B", Count: 4, Color: "#222222"},
		},
	}

	segments := p.ToSegments()
	require.Len(t, segments, 2)
	assert.NotEmpty(t, segments[0].ID)
	assert.NotEqual(t, segments[0].ID, segments[1].ID)
	assert.Equal(t, "A", segments[0].Name)
	assert.Equal(t, int64(4), segments[1].Count)
}
