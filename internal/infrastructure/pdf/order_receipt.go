// Package pdf genera el comprobante de órdenes de venta y compra con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de orden + N° orden │ Fecha + Estado           │
//	│  TERCERO: Nombre + NIT/CC + contacto                          │
//	│  TABLA: Cant | SKU | Descripción | P.Unit | Subtotal          │
//	│  TOTALES: Subtotal / Impuesto / Total / Pagado / Saldo        │
//	│  PAGOS + QR con el número de orden                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	entity.OrderStatusPending:   "Pendiente",
	entity.OrderStatusCompleted: "Completada",
	entity.OrderStatusPartial:   "Recepción parcial",
	entity.OrderStatusReceived:  "Recibida",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa orders.OrderPDFGenerator usando Maroto v2.
type ReceiptGenerator struct {
	issuer  string
	printer *message.Printer
}

// NewReceiptGenerator construye el generador. issuer aparece como autor del PDF.
func NewReceiptGenerator(issuer string) *ReceiptGenerator {
	return &ReceiptGenerator{
		issuer:  issuer,
		printer: message.NewPrinter(language.MustParse("es-CO")),
	}
}

// GenerateOrderPDF genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateOrderPDF(
	_ context.Context,
	order *entity.Order,
	counterparty *entity.Counterparty,
	lines []orders.OrderLineForPDF,
	payments []*entity.Payment,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(order.Type)+" "+order.OrderNumber, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(counterpartyRow(order.Type, counterparty))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	purchase := order.Type == entity.OrderTypePurchase
	m.AddRows(tableHeaderRow(purchase))
	m.AddRows(g.tableRows(lines, purchase)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(g.paymentRows(payments)...)
	m.AddRows(qrRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(o *entity.Order) core.Row {
	status := statusLabels[o.Status]
	if status == "" {
		status = o.Status
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title(o.Type), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(o.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 12, Top: 8}),
		),
		col.New(5).Add(
			text.New("Fecha: "+o.OrderDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Estado: "+status, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Pago: "+nonEmpty(o.PaymentMethod, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func counterpartyRow(orderType string, cp *entity.Counterparty) core.Row {
	label := "CLIENTE"
	if orderType == entity.OrderTypePurchase {
		label = "PROVEEDOR"
	}
	if cp == nil {
		return row.New(10).Add(col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New("Consumidor final", props.Text{Size: 9, Top: 5}),
		))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(cp.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(cp.TaxID, "-"),
				nonEmpty(cp.Phone, "-"),
				nonEmpty(cp.Email, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow(purchase bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	qty := h("Cant.", 1, align.Center)
	if purchase {
		qty = h("Rec./Cant.", 1, align.Center)
	}
	return row.New(8).Add(
		qty,
		h("SKU", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func (g *ReceiptGenerator) tableRows(lines []orders.OrderLineForPDF, purchase bool) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		qty := fmt.Sprintf("%d", l.Quantity)
		if purchase {
			qty = fmt.Sprintf("%d/%d", l.ReceivedQuantity, l.Quantity)
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(l.SKU, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.money(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.money(l.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *ReceiptGenerator) totalsRow(o *entity.Order) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(30).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Impuesto ("+o.TaxRate.String()+"%):", 5),
			label("TOTAL:", 10),
			label("Pagado:", 16),
			label("Saldo:", 21),
		),
		col.New(3).Add(
			value(g.money(o.Subtotal), 0),
			value(g.money(o.TaxAmount), 5),
			text.New(g.money(o.TotalAmount), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 10,
			}),
			value(g.money(o.PaidAmount), 16),
			value(g.money(o.RemainingAmount()), 21),
		),
	)
}

func (g *ReceiptGenerator) paymentRows(payments []*entity.Payment) []core.Row {
	if len(payments) == 0 {
		return nil
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("PAGOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, p := range payments {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(p.PaymentDate.Format("02/01/2006"), props.Text{Size: 8, Left: 2})),
			col.New(3).Add(text.New(nonEmpty(p.Method, "-"), props.Text{Size: 8})),
			col.New(3).Add(text.New(nonEmpty(p.ReferenceNumber, ""), props.Text{Size: 8, Color: colorGray})),
			col.New(3).Add(text.New(g.money(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func qrRow(o *entity.Order) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(o.OrderNumber, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(text.New("Conserve este comprobante para cualquier reclamación.", props.Text{
			Size: 7, Top: 12, Left: 3, Color: colorGray,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func title(orderType string) string {
	if orderType == entity.OrderTypePurchase {
		return "ORDEN DE COMPRA"
	}
	return "ORDEN DE VENTA"
}

// money formatea con separadores de miles de es-CO y dos decimales.
func (g *ReceiptGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%v", number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
