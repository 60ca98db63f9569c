package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileName(t *testing.T) {
	meta, err := parseFileName("Notes_CSC231_Firewalls_2024_01")
	require.NoError(t, err)
	assert.Equal(t, "Notes", meta.category)
	assert.Equal(t, "CSC231", meta.unitCode)
	assert.Equal(t, "Firewalls", meta.topic)
	assert.Equal(t, "2024", meta.year)

	meta, err = parseFileName("PastPaper_csc231_Network_Security_2023_02")
	require.NoError(t, err)
	assert.Equal(t, "CSC231", meta.unitCode)
	assert.Equal(t, "Network Security", meta.topic)
	assert.Equal(t, "2023", meta.year)

	meta, err = parseFileName("Notes_PHY101_Optics")
	require.NoError(t, err)
	assert.Equal(t, "Optics", meta.topic)
	assert.Empty(t, meta.year)

	_, err = parseFileName("loose-file")
	assert.Error(t, err)
}
