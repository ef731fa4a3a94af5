package excel

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type cellKind int

const (
	kindText cellKind = iota
	kindInt
	kindDate
	kindMoney
)

type cell struct {
	kind  cellKind
	value any
}

func cellText(s string) cell          { return cell{kindText, s} }
func cellInt(n int) cell              { return cell{kindInt, n} }
func cellDate(t time.Time) cell       { return cell{kindDate, t} }
func cellMoney(d decimal.Decimal) cell { return cell{kindMoney, d.Round(2).InexactFloat64()} }

// sheetWriter acumula el primer error para no chequear cada celda.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(ref string, v any, style int) {
	if w.err != nil {
		return
	}
	if w.err = w.f.SetCellValue(w.sheet, ref, v); w.err != nil {
		return
	}
	if style != 0 {
		w.err = w.f.SetCellStyle(w.sheet, ref, ref, style)
	}
}

func (w *sheetWriter) setMoney(ref string, d decimal.Decimal, style int) {
	w.set(ref, d.Round(2).InexactFloat64(), style)
}

func (w *sheetWriter) headers(row int, titles []string, style int) {
	for i, t := range titles {
		ref, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			w.err = err
			return
		}
		w.set(ref, t, style)
	}
}

func (w *sheetWriter) setRow(row int, s styles, cells ...cell) {
	for i, c := range cells {
		ref, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			w.err = err
			return
		}
		style := 0
		switch c.kind {
		case kindDate:
			style = s.date
		case kindMoney:
			style = s.money
		}
		w.set(ref, c.value, style)
	}
}

func (w *sheetWriter) widths(cols map[string]float64) {
	for col, width := range cols {
		if w.err != nil {
			return
		}
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}
