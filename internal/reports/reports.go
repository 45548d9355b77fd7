// Package reports builds the contract register export.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/storage"
)

const sheetName = "Contract Register"

var headers = []string{
	"Contract Number", "Title", "Category", "Status", "Vendor",
	"Value", "SLA Days", "SLA Deadline", "Current Handler", "Uploaded",
}

// Service renders contract data to spreadsheets.
type Service struct {
	contracts storage.ContractStorage
	users     storage.UserStorage
}

func NewService(contracts storage.ContractStorage, users storage.UserStorage) *Service {
	return &Service{contracts: contracts, users: users}
}

// Filter narrows the register export. Nil fields mean no restriction; From
// and To bound the upload date inclusively.
type Filter struct {
	Status *model.ContractStatus
	From   *time.Time
	To     *time.Time
}

func (f Filter) match(c *model.Contract) bool {
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	if f.From != nil && c.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !c.CreatedAt.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Register exports the full register, optionally filtered, as an xlsx
// workbook. The caller owns closing the returned file.
func (s *Service) Register(ctx context.Context, filter Filter) (*excelize.File, error) {
	contracts, err := s.contracts.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, style)
	}

	row := 2
	for _, c := range contracts {
		if !filter.match(&c) {
			continue
		}
		handler := ""
		if c.CurrentHandlerID != nil {
			if u, err := s.users.FindByID(ctx, *c.CurrentHandlerID); err == nil {
				handler = u.FullName
			}
		}
		values := []any{
			c.ContractNumber, c.Title, c.Category, string(c.Status), c.VendorName,
			floatOrEmpty(c.ContractValue), c.SLADays, dateOrEmpty(c.SLADeadline),
			handler, c.CreatedAt.Format("2006-01-02"),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
		row++
	}

	f.SetColWidth(sheetName, "A", "B", 24)
	f.SetColWidth(sheetName, "C", "J", 16)
	return f, nil
}

// Summary appends a status-breakdown sheet to the dashboard report.
func (s *Service) Summary(ctx context.Context) (*excelize.File, error) {
	byStatus, err := s.contracts.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Summary")
	f.SetCellValue("Summary", "A1", "Status")
	f.SetCellValue("Summary", "B1", "Contracts")

	row := 2
	total := 0
	for _, st := range []model.ContractStatus{
		model.StatusDraft, model.StatusInReview, model.StatusVendorFeedback,
		model.StatusApproved, model.StatusSigned,
	} {
		f.SetCellValue("Summary", fmt.Sprintf("A%d", row), string(st))
		f.SetCellValue("Summary", fmt.Sprintf("B%d", row), byStatus[st])
		total += byStatus[st]
		row++
	}
	f.SetCellValue("Summary", fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue("Summary", fmt.Sprintf("B%d", row), total)
	return f, nil
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func dateOrEmpty(t *time.Time) any {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
