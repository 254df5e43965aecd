package reporting

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TestWriteWorkbook tests the four-sheet layout round trip
func TestWriteWorkbook(t *testing.T) {
	r := NewExcelReporter([]string{"fast", "slow"})
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, r.WriteWorkbook(sampleResult(t), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	assert.ElementsMatch(t, []string{"Folds", "Metrics", "Stitched", "Static"}, fx.GetSheetList())

	rows, err := fx.GetRows("Folds")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "fold", rows[0][0])

	stitched, err := fx.GetRows("Stitched")
	require.NoError(t, err)
	require.Len(t, stitched, 3)
	assert.Equal(t, "2023-01-02", stitched[1][0])
}

// TestWriteWorkbook_EmptyStaticSheet tests that an absent baseline still writes headers
func TestWriteWorkbook_EmptyStaticSheet(t *testing.T) {
	r := NewExcelReporter(nil)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, r.WriteWorkbook(sampleResult(t), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	rows, err := fx.GetRows("Static")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "date", rows[0][0])
}
