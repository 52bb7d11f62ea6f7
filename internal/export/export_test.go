package export

import (
	"bytes"
	"testing"
	"time"

	"sharehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookingsXLSX(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	bookings := []*models.Booking{
		{
			ID: 1, ItemName: "Drill", BookerName: "Alice",
			Start: now, End: now.Add(time.Hour),
			Status: models.StatusApproved, CreatedAt: now,
		},
		{
			ID: 2, ItemName: "Tent", BookerName: "Bob",
			Start: now.Add(24 * time.Hour), End: now.Add(48 * time.Hour),
			Status: models.StatusWaiting, CreatedAt: now,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookingsXLSX(&buf, bookings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Drill", rows[1][1])
	assert.Equal(t, "Alice", rows[1][2])
	assert.Equal(t, models.StatusApproved, rows[1][5])
	assert.Equal(t, "Tent", rows[2][1])
}

func TestWriteBookingsXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookingsXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
