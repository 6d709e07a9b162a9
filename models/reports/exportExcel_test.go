package reports

import (
	"testing"

	"github.com/mmdatafocus/devitrack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportExcel(t *testing.T) {
	records := []*models.Deviation{
		deviation("Ana", "Centro", models.CheckCategoryDispenser),
		deviation("Bruno", "Centro"),
	}
	f, err := ExportExcel(records, nil)
	require.NoError(t, err)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	back, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer back.Close()

	assert.Equal(t, []string{SheetDeviations, SheetRanking, SheetLocations, SheetEquipment}, back.GetSheetList())

	rows, err := back.GetRows(SheetDeviations)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Analista", rows[0][1])
	assert.Equal(t, "Saques", rows[0][8])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "Sim", rows[1][8])
	assert.Equal(t, "Não", rows[2][8])
	assert.Equal(t, "2024-01-15T09:00:00Z", rows[1][len(rows[1])-1])

	rows, err = back.GetRows(SheetLocations)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Centro", "2", "100"}, rows[1])

	rows, err = back.GetRows(SheetEquipment)
	require.NoError(t, err)
	require.Len(t, rows, len(models.CheckCategories)+1)
	assert.Equal(t, []string{"Saques", "1", "50"}, rows[1])
}

func TestExportExcel_Empty(t *testing.T) {
	f, err := ExportExcel(nil, nil)
	require.NoError(t, err)
	rows, err := f.GetRows(SheetRanking)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFillWorkbook_MissingSheetFails(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Other"))

	records := []*models.Deviation{deviation("Ana", "Centro")}
	assert.Error(t, fillWorkbook(f, records, BuildDashboardStats(records)))
}
