package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/feedtrack/internal/domain"
)

const changesSheet = "Changes"

// WriteXLSX emits the same table as WriteCSV as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []domain.ChangeRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(changesSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]any, len(ChangeHeaders))
	for i, h := range ChangeHeaders {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		cells := changeCells(row)
		values := make([]any, len(cells))
		for j, cell := range cells {
			values[j] = cell
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(changesSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
