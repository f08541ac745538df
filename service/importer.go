package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
)

// ImportService handles spreadsheet import/export for the two master-data
// types maintained in bulk: users and license pricing.
type ImportService struct {
	db    *gorm.DB
	users *UserService
}

func NewImportService(db *gorm.DB, users *UserService) *ImportService {
	return &ImportService{db: db, users: users}
}

// RowError reports a validation problem on one spreadsheet row. Row numbers
// are 1-based and account for the header row, so data row 0 reports as row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
}

var userColumns = []string{"name", "email", "role"}
var priceColumns = []string{"product", "license type", "unit price"}

// readSheet opens the workbook, takes the first sheet, and maps the required
// header columns case-insensitively. Returns the data rows and a column-name
// to index map.
func readSheet(r io.Reader, required []string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot read spreadsheet: %v", ErrValidation, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", ErrValidation)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet is empty", ErrValidation)
	}

	columns := make(map[string]int)
	for i, cell := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, nil, fmt.Errorf("%w: missing required column %q", ErrValidation, col)
		}
	}

	return rows[1:], columns, nil
}

// cell returns the trimmed value at the named column, or "" when the row is
// short.
func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ImportUsers reads the first sheet of an xlsx workbook and creates one user
// per valid row. Rows with any required cell empty are silently skipped; rows
// with an unknown role are reported with their spreadsheet row number.
func (s *ImportService) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, columns, err := readSheet(r, userColumns)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		rowNum := i + 2 // 1-based plus header

		name := cell(row, columns, "name")
		email := cell(row, columns, "email")
		roleRaw := cell(row, columns, "role")
		if name == "" || email == "" || roleRaw == "" {
			continue
		}

		role := model.UserRole(strings.ToLower(roleRaw))
		if !role.Valid() {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("invalid role %q", roleRaw),
			})
			continue
		}

		_, err := s.users.Create(ctx, CreateUserInput{
			Name:  name,
			Email: email,
			Role:  role,
		})
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: err.Error(),
			})
			continue
		}
		result.Imported++
	}

	logger.Info(ctx, "user import finished",
		"imported", result.Imported,
		"errors", len(result.Errors),
	)
	return result, nil
}

// ExportUsers writes all users as an xlsx workbook.
func (s *ImportService) ExportUsers(ctx context.Context, w io.Writer) error {
	users, err := s.users.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	headers := []string{"Name", "Email", "Role", "Code", "Active"}
	for col, h := range headers {
		cellName, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cellName, h)
	}
	for i, u := range users {
		values := []interface{}{u.Name, u.Email, string(u.Role), u.Code, u.Active}
		for col, v := range values {
			cellName, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cellName, v)
		}
	}

	return f.Write(w)
}

// ImportLicensePrices reads the first sheet and creates one pricing row per
// valid data row. Rows missing a required cell are skipped; non-numeric
// prices are reported with their row number.
func (s *ImportService) ImportLicensePrices(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, columns, err := readSheet(r, priceColumns)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		rowNum := i + 2

		product := cell(row, columns, "product")
		licenseType := cell(row, columns, "license type")
		priceRaw := cell(row, columns, "unit price")
		if product == "" || licenseType == "" || priceRaw == "" {
			continue
		}

		price, err := strconv.ParseFloat(priceRaw, 64)
		if err != nil {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("invalid unit price %q", priceRaw),
			})
			continue
		}

		currency := cell(row, columns, "currency")
		entry := model.LicensePrice{
			ID:          uuid.New().String(),
			Product:     product,
			LicenseType: licenseType,
			UnitPrice:   price,
		}
		if currency != "" {
			entry.Currency = strings.ToUpper(currency)
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported++
	}

	logger.Info(ctx, "license price import finished",
		"imported", result.Imported,
		"errors", len(result.Errors),
	)
	return result, nil
}

// ExportLicensePrices writes all pricing rows as an xlsx workbook.
func (s *ImportService) ExportLicensePrices(ctx context.Context, w io.Writer) error {
	var prices []model.LicensePrice
	if err := s.db.WithContext(ctx).Order("product").Find(&prices).Error; err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	headers := []string{"Product", "License Type", "Unit Price", "Currency"}
	for col, h := range headers {
		cellName, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cellName, h)
	}
	for i, p := range prices {
		values := []interface{}{p.Product, p.LicenseType, p.UnitPrice, p.Currency}
		for col, v := range values {
			cellName, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cellName, v)
		}
	}

	return f.Write(w)
}
