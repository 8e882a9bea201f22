// Package pdf genera la hoja de trabajo imprimible de un pedido.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  ORDEN DE TRABAJO          │  Sección / Estado │
//	│  Nombre del pedido                              │
//	│  ─────────────────────────────────────────────  │
//	│  Cliente / Creado / Actualizado                 │
//	│  ─────────────────────────────────────────────  │
//	│  NOTAS (bloque libre)                           │
//	│  ─────────────────────────────────────────────  │
//	│  QR con el id  │  id + carpeta de archivos      │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

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

	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

var _ orders.WorkOrderPDFGenerator = (*MarotoWorkOrderGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006 15:04"

// MarotoWorkOrderGenerator implementa orders.WorkOrderPDFGenerator usando Maroto v2.
type MarotoWorkOrderGenerator struct {
	shopName     string
	uploadsLabel string
}

// NewMarotoWorkOrderGenerator construye el generador. shopName encabeza la hoja y
// uploadsLabel indica dónde buscar los archivos del pedido.
func NewMarotoWorkOrderGenerator(shopName, uploadsLabel string) *MarotoWorkOrderGenerator {
	return &MarotoWorkOrderGenerator{shopName: shopName, uploadsLabel: uploadsLabel}
}

// GenerateWorkOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoWorkOrderGenerator) GenerateWorkOrderPDF(_ context.Context, o *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de trabajo "+o.Nombre, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(notesRows(o.Notas)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(o))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoWorkOrderGenerator) headerRow(o *entity.Order) core.Row {
	return row.New(20).Add(
		col.New(8).Add(
			text.New(strings.ToUpper(nonEmpty(g.shopName, "Orden de trabajo")), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1,
			}),
			text.New(o.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New("Sección: "+nonEmpty(o.Seccion, "—"), props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(strings.ToUpper(nonEmpty(o.Estado, entity.EstadoNuevo)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 9, Color: colorPrimary,
			}),
		),
	)
}

func detailsRow(o *entity.Order) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(o.Cliente, "—"), props.Text{Size: 10, Top: 6}),
		),
		col.New(6).Add(
			text.New("Creado: "+formatDate(o.CreatedAt), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Actualizado: "+formatDate(o.UpdatedAt), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func notesRows(notas string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
		)),
	}
	lines := strings.Split(strings.TrimSpace(notas), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = []string{"Sin notas."}
	}
	for _, l := range lines {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 9, Top: 0.5, Left: 2}),
		)))
	}
	// espacio para anotaciones a mano en el taller
	rows = append(rows, row.New(20))
	return rows
}

func (g *MarotoWorkOrderGenerator) footerRow(o *entity.Order) core.Row {
	return row.New(34).Add(
		col.New(4).Add(code.NewQr(o.ID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("ID del pedido", props.Text{Style: fontstyle.Bold, Size: 7, Top: 4, Left: 3, Color: colorPrimary}),
			text.New(o.ID, props.Text{Size: 7, Top: 9, Left: 3, Color: colorGray}),
			text.New("Archivos en: "+nonEmpty(g.uploadsLabel, "—"), props.Text{Size: 7, Top: 18, Left: 3, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format(dateLayout)
}
