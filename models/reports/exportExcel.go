package reports

import (
	"time"

	"github.com/mmdatafocus/devitrack/models"
	"github.com/mmdatafocus/devitrack/utils"
	"github.com/xuri/excelize/v2"
)

const (
	SheetDeviations = "Desvios"
	SheetRanking    = "Ranking"
	SheetLocations  = "Locais"
	SheetEquipment  = "Equipamentos"
)

const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportExcel writes the records and their statistics to a workbook with
// one sheet per table. Stats are computed from records when nil.
func ExportExcel(records []*models.Deviation, stats *DashboardStats) (*excelize.File, error) {
	if stats == nil {
		stats = BuildDashboardStats(records)
	}

	f := excelize.NewFile()
	if err := fillWorkbook(f, records, stats); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, records []*models.Deviation, stats *DashboardStats) error {
	if err := f.SetSheetName("Sheet1", SheetDeviations); err != nil {
		return err
	}
	for _, name := range []string{SheetRanking, SheetLocations, SheetEquipment} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	headings := []interface{}{
		"ID", "Analista", "Escalada", "Chamado", "Local", "Data de Encerramento",
		"Cliente Contatado", "Equipamento Avaliado",
	}
	for _, c := range models.CheckCategories {
		headings = append(headings, c.Label())
	}
	headings = append(headings, "Autorizado por", "Departamento", "Criado em")

	rows := make([][]interface{}, 0, len(records))
	for _, d := range records {
		if d == nil {
			continue
		}
		row := []interface{}{
			d.ID, d.AnalystName, string(d.EscalationLevel), d.TicketNumber, d.Location, d.ClosingDate,
			yesNo(d.Validation.CalledCustomer), yesNo(d.Validation.EvaluatedEquipment),
		}
		for _, c := range models.CheckCategories {
			row = append(row, yesNo(d.Validation.Checked(c)))
		}
		row = append(row,
			d.Validation.ClosureAuth.Name,
			d.Validation.ClosureAuth.Department,
			d.CreatedAt.UTC().Format(time.RFC3339),
		)
		rows = append(rows, row)
	}
	if err := writeTable(f, SheetDeviations, headings, rows); err != nil {
		return err
	}

	if err := writeTable(f, SheetRanking, []interface{}{"Analista", "Desvios", "%"}, countRows(stats.AnalystRanking)); err != nil {
		return err
	}
	if err := writeTable(f, SheetLocations, []interface{}{"Local", "Desvios", "%"}, countRows(stats.LocationStats)); err != nil {
		return err
	}

	alertRows := make([][]interface{}, 0, len(stats.EquipmentAlerts))
	for _, a := range stats.EquipmentAlerts {
		share, _ := a.Share.Float64()
		alertRows = append(alertRows, []interface{}{a.Label, a.Count, share})
	}
	if err := writeTable(f, SheetEquipment, []interface{}{"Categoria", "Pendentes", "%"}, alertRows); err != nil {
		return err
	}

	return nil
}

func countRows(entries []*CountEntry) [][]interface{} {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		share, _ := e.Share.Float64()
		rows = append(rows, []interface{}{utils.ValueOrBlank(e.Name, "-"), e.Count, share})
	}
	return rows
}

func writeTable(f *excelize.File, sheet string, headings []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &headings); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
