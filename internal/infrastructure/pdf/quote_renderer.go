// Package pdf genera el documento PDF de una cotización enviada al cliente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título de la cotización  │  N° + Fecha + Vigencia   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Empresa / Dirección / Contacto            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Designación | P.Unit | IVA | Total línea      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                       │
//	│  FOOTER: condiciones de aceptación                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/domain/entity"
)

var _ crm.DocumentRenderer = (*QuoteRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var hundred = decimal.NewFromInt(100)

// QuoteRenderer implementa crm.DocumentRenderer usando Maroto v2.
type QuoteRenderer struct {
	issuer  string
	printer *message.Printer
}

// NewQuoteRenderer construye el generador. issuer aparece como autor del documento.
func NewQuoteRenderer(issuer string) *QuoteRenderer {
	return &QuoteRenderer{issuer: issuer, printer: message.NewPrinter(language.Spanish)}
}

// RenderQuote genera el PDF y devuelve sus bytes.
func (g *QuoteRenderer) RenderQuote(
	_ context.Context,
	quote *entity.Quote,
	contact *entity.Contact,
	items []*entity.QuoteItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización "+quote.Number, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(quote))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(contact))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.itemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(quote))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(quote))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar cotización: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *QuoteRenderer) headerRow(q *entity.Quote) core.Row {
	validity := "Vigencia: -"
	if q.ValidUntil != nil {
		validity = "Válida hasta: " + q.ValidUntil.Format("02/01/2006")
	}
	date := q.CreatedAt
	if q.SentAt != nil {
		date = *q.SentAt
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(q.Title, "Cotización"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(g.issuer, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(q.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(validity, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func clientRow(c *entity.Contact) core.Row {
	addr := strings.TrimSpace(strings.Join(nonBlank(c.Address, c.PostalCode, c.City, c.Country), ", "))
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.DisplayName(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   Email: %s   |   Tel: %s",
				nonEmpty(addr, "-"),
				nonEmpty(c.Email, "-"),
				nonEmpty(c.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Designación", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Total línea", 3, align.Right),
	)
}

func (g *QuoteRenderer) itemRows(items []*entity.QuoteItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Designation,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.money(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				ratePercent(it.TaxRate),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				g.money(it.LineTotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func (g *QuoteRenderer) totalsRow(q *entity.Quote) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impuestos:", 7),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 13,
			}),
		),
		col.New(3).Add(
			value(g.money(q.Subtotal), 1),
			value(g.money(q.Tax), 7),
			text.New(g.money(q.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}

func footerRow(q *entity.Quote) core.Row {
	legend := "Para aceptar esta cotización responda al correo de envío indicando su número."
	if q.ValidUntil != nil {
		legend += " Pasada la fecha de vigencia los precios deben confirmarse de nuevo."
	}
	return row.New(10).Add(col.New(12).Add(
		text.New(legend, props.Text{Size: 7, Color: colorGray, Top: 2}),
	))
}

// money formatea un importe con separadores locales y dos decimales.
func (g *QuoteRenderer) money(d decimal.Decimal) string {
	f, _ := d.Float64()
	return g.printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// ratePercent 0.055 -> "5.5%".
func ratePercent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String() + "%"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
