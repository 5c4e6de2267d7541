// Package pdf implementa la impresión del ticket de venta en PDF.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Sucursal + N° Factura + Fecha        │
//	│  Cliente / Vendedor / Tasa del día            │
//	│  ───────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Subt    │
//	│  (líneas REGALO marcadas, subtotal 0)         │
//	│  ───────────────────────────────────────────  │
//	│  TOTALES: C$ y US$ + estado de cobranza       │
//	│  Marca de agua ANULADA si aplica              │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/orangetec/calzapos/internal/application/sales"
	"github.com/orangetec/calzapos/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 30, Green: 30, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 200, Green: 30, Blue: 30}
)

var _ sales.TicketGenerator = (*MarotoTicketGenerator)(nil)

// MarotoTicketGenerator implementa sales.TicketGenerator usando Maroto v2.
type MarotoTicketGenerator struct{}

// NewMarotoTicketGenerator construye el generador.
func NewMarotoTicketGenerator() *MarotoTicketGenerator { return &MarotoTicketGenerator{} }

// GenerateTicket genera el ticket en PDF y devuelve sus bytes.
func (g *MarotoTicketGenerator) GenerateTicket(_ context.Context, data sales.TicketData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Ticket de venta "+data.Invoice.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(data)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(tableHeaderRow())
	for _, it := range data.Items {
		m.AddRows(itemRow(it, data.Descriptions[it.ProductID]))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(totalsRows(data.Invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRows(data sales.TicketData) []core.Row {
	inv := data.Invoice
	rows := []core.Row{
		row.New(14).Add(
			col.New(7).Add(
				text.New(data.BranchName, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary}),
				text.New("Ticket de venta", props.Text{Size: 8, Top: 7, Color: colorGray}),
			),
			col.New(5).Add(
				text.New(inv.Number, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
				text.New(inv.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 6, Align: align.Right, Color: colorGray}),
			),
		),
		row.New(10).Add(
			col.New(7).Add(
				text.New("Cliente: "+orDefault(data.CustomerName, "Consumidor final"), props.Text{Size: 8}),
				text.New("Atendió: "+inv.CreatedBy, props.Text{Size: 8, Top: 4, Color: colorGray}),
			),
			col.New(5).Add(
				text.New("Tasa: "+inv.ExchangeRate.StringFixed(4), props.Text{Size: 8, Align: align.Right}),
			),
		),
	}
	if inv.Status == entity.InvoiceStatusVoid {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(
				text.New("*** FACTURA ANULADA ***", props.Text{
					Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorRed,
				}),
			),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := props.Text{Style: fontstyle.Bold, Size: 8}
	hr := props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}
	return row.New(6).Add(
		col.New(2).Add(text.New("Cant", h)),
		col.New(5).Add(text.New("Descripción", h)),
		col.New(2).Add(text.New("P.Unit", hr)),
		col.New(3).Add(text.New("Subtotal", hr)),
	)
}

func itemRow(it *entity.InvoiceItem, description string) core.Row {
	desc := description
	if desc == "" {
		desc = it.ProductID
	}
	if it.ComboRole == entity.ComboRoleGift {
		desc += " (REGALO)"
	}
	r := props.Text{Size: 8, Align: align.Right}
	return row.New(5).Add(
		col.New(2).Add(text.New(it.Quantity.String(), props.Text{Size: 8})),
		col.New(5).Add(text.New(desc, props.Text{Size: 8})),
		col.New(2).Add(text.New(it.UnitPriceCS.StringFixed(2), r)),
		col.New(3).Add(text.New(it.SubtotalCS.StringFixed(2), r)),
	)
}

func totalsRows(inv *entity.Invoice) []core.Row {
	right := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}
	return []core.Row{
		row.New(6).Add(
			col.New(7).Add(text.New("TOTAL C$", props.Text{Style: fontstyle.Bold, Size: 10})),
			col.New(5).Add(text.New(inv.TotalCS.StringFixed(2), right)),
		),
		row.New(6).Add(
			col.New(7).Add(text.New("TOTAL US$", props.Text{Size: 9})),
			col.New(5).Add(text.New(inv.TotalUSD.StringFixed(2), props.Text{Size: 9, Align: align.Right})),
		),
		row.New(6).Add(
			col.New(12).Add(text.New("Cobranza: "+inv.CollectionStatus, props.Text{Size: 8, Color: colorGray})),
		),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
