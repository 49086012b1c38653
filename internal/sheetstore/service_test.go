package sheetstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSpreadsheetID(t *testing.T) {
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		ExtractSpreadsheetID("https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0"))

	// Bare ids pass through untouched.
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		ExtractSpreadsheetID("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"))
}

func TestRowFromRange(t *testing.T) {
	row, err := rowFromRange("Invoices!A42:Q42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), row)

	_, err = rowFromRange("garbage")
	assert.Error(t, err)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "T", columnLetter(20))
	assert.Equal(t, "U", columnLetter(21))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
	assert.Equal(t, "AZ", columnLetter(52))
}
