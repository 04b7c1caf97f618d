package domain

import (
	"errors"
	"time"
)

// ErrSnapshotNotFound indica que no hay snapshot guardado para el evento.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// AnchorSource indica de dónde salió el anchor de un cálculo.
type AnchorSource string

const (
	AnchorSpot     AnchorSource = "spot"
	AnchorSnapshot AnchorSource = "snapshot"
	AnchorManual   AnchorSource = "manual"
)

// MirrorReport es el resultado de un ciclo de mirror sobre un evento.
type MirrorReport struct {
	Slug         string
	Title        string
	Asset        string
	Anchor       float64
	AnchorSource AnchorSource
	Budget       float64
	Bias         float64
	RiskCap      float64
	DaysToExpiry int
	Markets      []Market
	Orders       []OrderRecommendation
	Summary      PortfolioSummary
	Pairs        map[StrikeKey]DeltaNeutralPair
	Highlights   map[StrikeKey]bool
	SnapshotID   string
	GeneratedAt  time.Time
}
