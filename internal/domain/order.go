package domain

// Side es el lado del contrato binario que se compra.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// OrderRecommendation es una orden sugerida por el motor de asignación.
// Se crea en cada cálculo y nunca se modifica después.
type OrderRecommendation struct {
	MarketID   string   `json:"market_id"`
	Question   string   `json:"question"`
	Strike     float64  `json:"strike"`
	Side       Side     `json:"side"`
	Units      int      `json:"units"`
	LimitPrice float64  `json:"limit_price"` // precio + slippage, máx 0.99
	Cost       float64  `json:"cost"`        // units × precio
	MaxProfit  float64  `json:"max_profit"`  // posición completa, neto de fee de settlement
	MaxLoss    float64  `json:"max_loss"`    // posición completa
	EV         *float64 `json:"ev,omitempty"`
}

// PortfolioSummary agrega una lista de órdenes.
// UpSideCost = órdenes NO (techo), DownSideCost = órdenes YES (suelo).
type PortfolioSummary struct {
	TotalCost    float64 `json:"total_cost"`
	MaxLoss      float64 `json:"max_loss"`
	MaxProfit    float64 `json:"max_profit"`
	UpSideCost   float64 `json:"up_side_cost"`
	DownSideCost float64 `json:"down_side_cost"`
	NumOrders    int     `json:"num_orders"`
}

// Summarize calcula el PortfolioSummary de una lista de órdenes.
func Summarize(orders []OrderRecommendation) PortfolioSummary {
	var s PortfolioSummary
	for _, o := range orders {
		s.TotalCost += o.Cost
		s.MaxLoss += o.MaxLoss
		s.MaxProfit += o.MaxProfit
		switch o.Side {
		case SideNo:
			s.UpSideCost += o.Cost
		case SideYes:
			s.DownSideCost += o.Cost
		}
	}
	s.NumOrders = len(orders)
	return s
}
