package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type status string

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	id := uint64(9)
	due := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	err := WriteXLSX(&buf, "Offers",
		[]string{"Number", "Status", "Total", "Valid until", "Contact"},
		[][]any{
			{"OF-1", status("sent"), decimal.RequireFromString("1250.5"), &due, &id},
			{"OF-2", status("draft"), decimal.NullDecimal{}, (*time.Time)(nil), (*uint64)(nil)},
		},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Offers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Number", "Status", "Total", "Valid until", "Contact"}, rows[0])
	assert.Equal(t, []string{"OF-1", "sent", "1250.5", "2024-02-29", "9"}, rows[1])
	assert.Equal(t, []string{"OF-2", "draft"}, rows[2])
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 1, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "offers_20240131_150405.xlsx", Filename("offers", now))
}
