package report

import (
	"fmt"

	"github.com/expenseflow/approval-engine/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Approval Trail"

// Exporter renders a claim's approval trail as an Excel workbook
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new report exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Build produces a workbook with a claim header block followed by one row
// per ledger action. The caller owns closing the returned file.
func (e *Exporter) Build(claim *entity.Claim, actions []*entity.Action) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		e.logger.Warn("Failed to remove default sheet", zap.Error(err))
	}

	e.setCell(f, "A1", "Claim ID")
	e.setCell(f, "B1", claim.ID)
	e.setCell(f, "A2", "Submitter")
	e.setCell(f, "B2", claim.SubmitterID)
	e.setCell(f, "A3", "Amount")
	e.setCell(f, "B3", fmt.Sprintf("%.2f %s", float64(claim.AmountCents)/100, claim.Currency))
	e.setCell(f, "A4", "Status")
	e.setCell(f, "B4", claim.Status.String())
	e.setCell(f, "A5", "Submitted")
	e.setCell(f, "B5", claim.CreatedAt.Format("2006-01-02 15:04:05"))

	header := []string{"Step", "Actor", "Decision", "Comment", "Recorded At"}
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 7)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		e.setCell(f, cell, title)
	}

	for i, action := range actions {
		row := 8 + i
		e.setCell(f, fmt.Sprintf("A%d", row), fmt.Sprintf("%d", action.Step))
		e.setCell(f, fmt.Sprintf("B%d", row), action.ActorID)
		e.setCell(f, fmt.Sprintf("C%d", row), string(action.Decision))
		e.setCell(f, fmt.Sprintf("D%d", row), action.Comment)
		e.setCell(f, fmt.Sprintf("E%d", row), action.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	e.logger.Info("Approval trail report built",
		zap.String("claim_id", claim.ID),
		zap.Int("actions", len(actions)))

	return f, nil
}

// setCell sets a cell value in the workbook
func (e *Exporter) setCell(f *excelize.File, cell, value string) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
