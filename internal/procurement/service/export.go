package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var orderExportHeaders = []string{
	"PO Code", "Order Type", "Purpose", "Status", "Supplier",
	"Total Amount", "Payment Method", "Purchase Date", "Max Payment Date",
	"Work Order", "Plant", "Items", "Notes",
}

// ExportOrders writes the filtered purchase order list to an xlsx workbook
func (s *ProcurementService) ExportOrders(ctx context.Context, params repository.OrderListParams) (*excelize.File, string, error) {
	// Export ignores paging; cap at a single large page.
	params.Page = 1
	params.Size = 10000

	orders, _, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, "", fmt.Errorf("list orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Purchase Orders"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range orderExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	total := decimal.Zero
	for rowIdx, po := range orders {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), po.POCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), po.OrderType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), po.Purpose)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), po.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), po.SupplierName)
		amount, _ := po.TotalAmount.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), amount)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), po.PaymentMethod)
		if po.PurchaseDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), po.PurchaseDate.Format("2006-01-02"))
		}
		if po.MaxPaymentDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), po.MaxPaymentDate.Format("2006-01-02"))
		}
		if po.WorkOrderID != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *po.WorkOrderID)
		}
		if po.PlantID != nil {
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), *po.PlantID)
		}
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), len(po.Items))
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), po.Notes)
		total = total.Add(po.TotalAmount)
	}

	summaryRow := len(orders) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("orders: %d", len(orders)))
	totalFloat, _ := total.Float64()
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), totalFloat)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("M%d", summaryRow), summaryStyle)

	colWidths := []float64{18, 16, 20, 24, 24, 12, 12, 12, 14, 36, 36, 8, 30}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("purchase_orders_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
