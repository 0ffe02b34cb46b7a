package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const historySheet = "History"

var historyHeaders = []string{"No. Order", "Tanggal", "Nama", "Tipe Pesan", "Room", "Metode Bayar", "Status", "Total Item", "Total Harga", "Pesanan"}

// ExportService writes order history workbooks
type ExportService struct {
	orderService *OrderService
}

// NewExportService creates a new export service
func NewExportService(orderService *OrderService) *ExportService {
	return &ExportService{orderService: orderService}
}

// ExportHistory returns an .xlsx workbook with every finished order of a month
// and the file name to serve it under.
func (s *ExportService) ExportHistory(ctx context.Context, month string) (*bytes.Buffer, string, error) {
	orders, _, err := s.orderService.History(ctx, &HistoryInput{Month: month})
	if err != nil {
		return nil, "", err
	}
	from, _, err := s.orderService.MonthRange(month)
	if err != nil {
		return nil, "", err
	}

	buf, err := s.buildWorkbook(orders)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("history-%s.xlsx", from.Format("2006-01")), nil
}

func (s *ExportService) buildWorkbook(orders []entity.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 3})
	if err != nil {
		return nil, err
	}

	for col, title := range historyHeaders {
		if err := setCell(f, col+1, 1, title); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(historyHeaders), 1)
	if err := f.SetCellStyle(historySheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	loc := s.orderService.location
	var grand int64
	for i, o := range orders {
		row := i + 2
		room := ""
		if o.RoomNumber != nil {
			room = *o.RoomNumber
		}
		values := []interface{}{
			fmt.Sprintf("#%05d", o.ID),
			o.CreatedAt.In(loc).Format("02/01/2006 15:04"),
			o.CustomerName,
			strings.ReplaceAll(string(o.OrderType), "_", " "),
			room,
			strings.ReplaceAll(string(o.PaymentMethod), "_", " "),
			string(o.Status),
			o.TotalOrder,
			o.TotalPrice,
			itemSummary(o.Items),
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return nil, err
			}
		}
		priceCell, _ := excelize.CoordinatesToCellName(9, row)
		if err := f.SetCellStyle(historySheet, priceCell, priceCell, moneyStyle); err != nil {
			return nil, err
		}
		grand += o.TotalPrice
	}

	totalRow := len(orders) + 2
	if err := setCell(f, 8, totalRow, "TOTAL"); err != nil {
		return nil, err
	}
	if err := setCell(f, 9, totalRow, grand); err != nil {
		return nil, err
	}
	labelCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(9, totalRow)
	if err := f.SetCellStyle(historySheet, labelCell, totalCell, totalStyle); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(historySheet, "B", "B", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(historySheet, "J", "J", 60); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(historySheet, cell, value)
}

func itemSummary(items []entity.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.MenuItem.Name))
	}
	return strings.Join(parts, ", ")
}
