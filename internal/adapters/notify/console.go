package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alejandrodnm/polyladder/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Format es el modo de salida de la consola.
type Format string

const (
	FormatTable   Format = "table"
	FormatCompact Format = "compact"
	FormatJSON    Format = "json"
)

// ParseFormat valida el modo de salida. Vacío equivale a FormatTable.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatCompact, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("notify.ParseFormat: unknown format %q (table|compact|json)", s)
	}
}

// Console implementa ports.Notifier.
type Console struct {
	out    io.Writer
	format Format
}

// NewConsole crea un notificador que escribe en w (stdout si es nil).
func NewConsole(w io.Writer, format Format) *Console {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = FormatTable
	}
	return &Console{out: w, format: format}
}

// NotifyMirror imprime el resultado de un ciclo en el modo configurado.
func (c *Console) NotifyMirror(_ context.Context, r domain.MirrorReport) error {
	switch c.format {
	case FormatJSON:
		return c.printJSON(r)
	case FormatCompact:
		c.printCompact(r)
	default:
		c.printFull(r)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(r domain.MirrorReport) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s=%s | %d orders cost $%.2f maxloss $%.2f | %d pairs",
		r.GeneratedAt.Format("15:04:05"), r.Slug, r.Asset, priceLabel(r.Anchor),
		r.Summary.NumOrders, r.Summary.TotalCost, r.Summary.MaxLoss, len(r.Pairs))

	shown := 0
	for _, k := range domain.SortedKeys(r.Pairs) {
		if !r.Highlights[k] || shown >= 3 {
			continue
		}
		p := r.Pairs[k]
		fmt.Fprintf(&sb, " | *%s pnl %s¢ apy %.0f%%", priceLabel(p.Strike), domain.FormatCentsNoRound(p.PnL), p.APY)
		shown++
	}
	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime cabecera, órdenes, resumen y pares.
func (c *Console) printFull(r domain.MirrorReport) {
	fmt.Fprintf(c.out, "\n[%s] %s\n", r.GeneratedAt.Format("15:04:05"), r.Title)
	fmt.Fprintf(c.out, "  https://polymarket.com/event/%s\n", r.Slug)
	fmt.Fprintf(c.out, "  Anchor %s %s (%s) | budget $%.2f | bias %+.2f | expiry %dd",
		r.Asset, priceLabel(r.Anchor), r.AnchorSource, r.Budget, r.Bias, r.DaysToExpiry)
	if r.RiskCap > 0 {
		fmt.Fprintf(c.out, " | risk cap $%.2f", r.RiskCap)
	}
	fmt.Fprintln(c.out)

	if len(r.Orders) == 0 {
		fmt.Fprintln(c.out, "\n  No orders: no markets with a usable strike.")
	} else {
		c.printOrders(r.Orders)
		c.printSummary(r.Summary)
	}

	if len(r.Pairs) > 0 {
		c.printPairs(r)
	}
	fmt.Fprintln(c.out)
}

func (c *Console) printOrders(orders []domain.OrderRecommendation) {
	hasEV := false
	for _, o := range orders {
		if o.EV != nil {
			hasEV = true
			break
		}
	}

	table := tablewriter.NewWriter(c.out)
	header := []any{"#", "Strike", "Side", "Units", "Price¢", "Limit", "Cost", "MaxProfit", "MaxLoss"}
	if hasEV {
		header = append(header, "EV")
	}
	table.Header(header...)

	for i, o := range orders {
		price := 0.0
		if o.Units > 0 {
			price = o.Cost / float64(o.Units)
		}
		row := []any{
			fmt.Sprintf("%d", i+1),
			priceLabel(o.Strike),
			string(o.Side),
			fmt.Sprintf("%d", o.Units),
			domain.FormatCentsNoRound(price),
			fmt.Sprintf("%.3f", o.LimitPrice),
			fmt.Sprintf("$%.2f", o.Cost),
			fmt.Sprintf("$%.2f", o.MaxProfit),
			fmt.Sprintf("$%.2f", o.MaxLoss),
		}
		if hasEV {
			ev := "-"
			if o.EV != nil {
				ev = fmt.Sprintf("$%.2f", *o.EV)
			}
			row = append(row, ev)
		}
		table.Append(row...)
	}
	table.Render()
}

func (c *Console) printSummary(s domain.PortfolioSummary) {
	fmt.Fprintf(c.out, "  %d orders | cost $%.2f (floor YES $%.2f / ceiling NO $%.2f) | max profit $%.2f | max loss $%.2f\n",
		s.NumOrders, s.TotalCost, s.DownSideCost, s.UpSideCost, s.MaxProfit, s.MaxLoss)
}

func (c *Console) printPairs(r domain.MirrorReport) {
	fmt.Fprintf(c.out, "\n  Delta-neutral pairs (YES neighbour + NO strike, ¢ truncated)\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("", "Strike", "Dir", "YES @", "YES¢", "NO¢", "Cost¢", "PnL¢", "APY%")
	for _, k := range domain.SortedKeys(r.Pairs) {
		p := r.Pairs[k]
		mark := ""
		if r.Highlights[k] {
			mark = "*"
		}
		table.Append(
			mark,
			priceLabel(p.Strike),
			string(p.Direction),
			priceLabel(p.YesStrike),
			domain.FormatCentsNoRound(p.YesPrice),
			domain.FormatCentsNoRound(p.NoPrice),
			domain.FormatCentsNoRound(p.Cost),
			domain.FormatCentsNoRound(p.PnL),
			fmt.Sprintf("%.1f", p.APY),
		)
	}
	table.Render()
	fmt.Fprintln(c.out, "  * = PnL above threshold away from the strike nearest the anchor")
}

type jsonReport struct {
	Event struct {
		Title      string `json:"title"`
		Slug       string `json:"slug"`
		NumMarkets int    `json:"num_markets"`
	} `json:"event"`
	Asset        string                       `json:"asset"`
	Anchor       float64                      `json:"anchor"`
	AnchorSource domain.AnchorSource          `json:"anchor_source"`
	DaysToExpiry int                          `json:"days_to_expiry"`
	Orders       []domain.OrderRecommendation `json:"orders"`
	Summary      domain.PortfolioSummary      `json:"summary"`
	Pairs        []jsonPair                   `json:"pairs"`
	SnapshotID   string                       `json:"snapshot_id,omitempty"`
}

type jsonPair struct {
	domain.DeltaNeutralPair
	Highlight bool `json:"highlight"`
}

func (c *Console) printJSON(r domain.MirrorReport) error {
	var out jsonReport
	out.Event.Title = r.Title
	out.Event.Slug = r.Slug
	out.Event.NumMarkets = len(r.Markets)
	out.Asset = r.Asset
	out.Anchor = r.Anchor
	out.AnchorSource = r.AnchorSource
	out.DaysToExpiry = r.DaysToExpiry
	out.Orders = r.Orders
	if out.Orders == nil {
		out.Orders = []domain.OrderRecommendation{}
	}
	out.Summary = r.Summary
	out.Pairs = make([]jsonPair, 0, len(r.Pairs))
	for _, k := range domain.SortedKeys(r.Pairs) {
		out.Pairs = append(out.Pairs, jsonPair{DeltaNeutralPair: r.Pairs[k], Highlight: r.Highlights[k]})
	}
	out.SnapshotID = r.SnapshotID

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("notify.NotifyMirror: encode json: %w", err)
	}
	return nil
}

// PrintEvents imprime el listado de eventos escalera.
func (c *Console) PrintEvents(events []domain.EventSummary) {
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No ladder events found")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Asset", "Event", "Slug", "Mkts", "Volume")
	for i, e := range events {
		table.Append(
			fmt.Sprintf("%d", i+1),
			e.Asset,
			domain.TruncateQuestion(e.Title, e.Slug, 45),
			e.Slug,
			fmt.Sprintf("%d", e.NumMarkets),
			domain.FormatVolume(e.Volume),
		)
	}
	table.Render()
}

// PrintHistory imprime los snapshots guardados de un evento.
func (c *Console) PrintHistory(slug string, snaps []domain.LadderSnapshot) {
	if len(snaps) == 0 {
		fmt.Fprintf(c.out, "No snapshots for %s\n", slug)
		return
	}

	fmt.Fprintf(c.out, "\n%s (%d snapshots)\n", slug, len(snaps))
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Taken at", "Asset", "Anchor", "ID")
	for i, snap := range snaps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			snap.TakenAt.UTC().Format("2006-01-02 15:04:05"),
			snap.Asset,
			priceLabel(snap.Anchor),
			snap.ID,
		)
	}
	table.Render()
}

// PrintScenario imprime el grid de escenarios de un par: valor de cada pata en
// céntimos y retorno total por precio hipotético del subyacente.
func (c *Console) PrintScenario(s domain.ScenarioResult) {
	if len(s.Prices) == 0 {
		fmt.Fprintln(c.out, "No scenario: invalid anchor")
		return
	}

	title := fmt.Sprintf("%s %s x%d + %s x%d", s.Asset, s.YesLabel, s.YesUnits, s.NoLabel, s.NoUnits)
	if s.PairLabel != "" {
		title += fmt.Sprintf(" (pair %s %s)", s.PairLabel, s.Direction)
	}
	fmt.Fprintf(c.out, "\n%s\n", title)
	fmt.Fprintf(c.out, "  Anchor %s | invested $%.2f\n", priceLabel(s.AnchorPrice), s.Invested)

	header := []any{""}
	for i, p := range s.Prices {
		label := priceLabel(p)
		if i == s.HighlightIndex {
			label = "*" + label
		}
		header = append(header, label)
	}

	table := tablewriter.NewWriter(c.out)
	table.Header(header...)
	for _, row := range s.Rows {
		cells := []any{row.Label}
		for _, v := range row.Values {
			cells = append(cells, domain.FormatCentsNoRound(v))
		}
		table.Append(cells...)
	}
	returns := []any{"Return $"}
	for _, v := range s.ReturnRow {
		returns = append(returns, fmt.Sprintf("%.2f", v))
	}
	table.Append(returns...)
	table.Render()
}

// --- helpers ---

func priceLabel(v float64) string {
	switch {
	case v >= 1000:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}
