package storage

// sqlite.go: snapshots de inputs para replay.
//
// Tablas:
//   - `snapshots`: una fila por cálculo (slug, asset, anchor, instante).
//   - `snapshot_markets`: los mercados tal como se usaron en ese cálculo.
//   - Cache en memoria: si el anchor y los precios no cambiaron respecto al último
//     snapshot del evento, no se escribe nada y se devuelve el ID existente.
//   - Prune automático al arrancar: snapshots > 30d.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alejandrodnm/polyladder/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id        TEXT PRIMARY KEY,
    slug      TEXT    NOT NULL,
    asset     TEXT    NOT NULL DEFAULT '',
    anchor    REAL    NOT NULL,
    taken_at  INTEGER NOT NULL  -- unix nanos UTC
);

CREATE TABLE IF NOT EXISTS snapshot_markets (
    snapshot_id  TEXT    NOT NULL,
    position     INTEGER NOT NULL,
    market_id    TEXT    NOT NULL,
    question     TEXT,
    outcome_type TEXT,
    strike_raw   TEXT,
    strike       REAL    NOT NULL DEFAULT 0,
    strike_unit  TEXT,
    yes_price    REAL    NOT NULL,
    no_price     REAL    NOT NULL,
    spread       REAL    NOT NULL DEFAULT 0,
    liquidity    REAL,
    end_date     TEXT,
    PRIMARY KEY (snapshot_id, position)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_slug ON snapshots(slug, taken_at DESC);
CREATE INDEX IF NOT EXISTS idx_snapshots_at   ON snapshots(taken_at);
`

const retentionSnapshots = 30 * 24 * time.Hour

// savedState es lo último que se guardó para un evento.
type savedState struct {
	id          string
	fingerprint string
}

// SQLiteStorage implementa ports.SnapshotStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[string]savedState // slug → último snapshot
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:    db,
		cache: make(map[string]savedState),
	}
	s.pruneOld(context.Background(), time.Now())
	return s, nil
}

// SaveSnapshot persiste el snapshot y sus mercados en una transacción.
// Si el evento ya tiene un snapshot idéntico (mismo anchor y precios) no escribe y
// devuelve el ID existente.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snap domain.LadderSnapshot) (string, error) {
	if snap.Slug == "" {
		return "", fmt.Errorf("storage.SaveSnapshot: empty slug")
	}

	fp := fingerprint(snap)
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.cache[snap.Slug]; ok && prev.fingerprint == fp {
		return prev.id, nil
	}

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("storage.SaveSnapshot: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, slug, asset, anchor, taken_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Slug, snap.Asset, snap.Anchor, snap.TakenAt.UTC().UnixNano(),
	); err != nil {
		return "", fmt.Errorf("storage.SaveSnapshot: insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_markets
			(snapshot_id, position, market_id, question, outcome_type, strike_raw,
			 strike, strike_unit, yes_price, no_price, spread, liquidity, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("storage.SaveSnapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for i, m := range snap.Markets {
		var liquidity sql.NullFloat64
		if m.Liquidity != nil {
			liquidity = sql.NullFloat64{Float64: *m.Liquidity, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			snap.ID, i, m.ID, m.Question, m.OutcomeType, m.Strike.Raw,
			m.Strike.Value, m.Strike.Unit, m.YesPrice, m.NoPrice, m.Spread,
			liquidity, m.EndDate,
		); err != nil {
			return "", fmt.Errorf("storage.SaveSnapshot: insert market %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage.SaveSnapshot: commit: %w", err)
	}
	s.cache[snap.Slug] = savedState{id: snap.ID, fingerprint: fp}
	return snap.ID, nil
}

// LatestSnapshot devuelve el snapshot más reciente del evento con sus mercados.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context, slug string) (domain.LadderSnapshot, error) {
	var snap domain.LadderSnapshot
	var takenAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, asset, anchor, taken_at
		FROM snapshots
		WHERE slug = ?
		ORDER BY taken_at DESC, rowid DESC
		LIMIT 1
	`, slug).Scan(&snap.ID, &snap.Slug, &snap.Asset, &snap.Anchor, &takenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LadderSnapshot{}, fmt.Errorf("storage.LatestSnapshot: %s: %w", slug, domain.ErrSnapshotNotFound)
	}
	if err != nil {
		return domain.LadderSnapshot{}, fmt.Errorf("storage.LatestSnapshot: query: %w", err)
	}
	snap.TakenAt = time.Unix(0, takenAt).UTC()

	markets, err := s.loadMarkets(ctx, snap.ID)
	if err != nil {
		return domain.LadderSnapshot{}, fmt.Errorf("storage.LatestSnapshot: %w", err)
	}
	snap.Markets = markets
	return snap, nil
}

// ListSnapshots devuelve los snapshots del evento tomados en [from, to], del más
// antiguo al más reciente. No carga los mercados.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context, slug string, from, to time.Time) ([]domain.LadderSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, asset, anchor, taken_at
		FROM snapshots
		WHERE slug = ? AND taken_at BETWEEN ? AND ?
		ORDER BY taken_at ASC, rowid ASC
	`, slug, from.UTC().UnixNano(), to.UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("storage.ListSnapshots: query: %w", err)
	}
	defer rows.Close()

	var snaps []domain.LadderSnapshot
	for rows.Next() {
		var snap domain.LadderSnapshot
		var takenAt int64
		if err := rows.Scan(&snap.ID, &snap.Slug, &snap.Asset, &snap.Anchor, &takenAt); err != nil {
			return nil, fmt.Errorf("storage.ListSnapshots: scan row: %w", err)
		}
		snap.TakenAt = time.Unix(0, takenAt).UTC()
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func (s *SQLiteStorage) loadMarkets(ctx context.Context, snapshotID string) ([]domain.Market, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT market_id, question, outcome_type, strike_raw, strike, strike_unit,
		       yes_price, no_price, spread, liquidity, end_date
		FROM snapshot_markets
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query markets: %w", err)
	}
	defer rows.Close()

	var markets []domain.Market
	for rows.Next() {
		var m domain.Market
		var question, outcomeType, strikeRaw, strikeUnit, endDate sql.NullString
		var liquidity sql.NullFloat64
		if err := rows.Scan(
			&m.ID, &question, &outcomeType, &strikeRaw, &m.Strike.Value, &strikeUnit,
			&m.YesPrice, &m.NoPrice, &m.Spread, &liquidity, &endDate,
		); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		m.Question = question.String
		m.OutcomeType = outcomeType.String
		m.Strike.Raw = strikeRaw.String
		m.Strike.Unit = strikeUnit.String
		m.EndDate = endDate.String
		if liquidity.Valid {
			v := liquidity.Float64
			m.Liquidity = &v
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

// pruneOld elimina snapshots antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context, now time.Time) {
	cutoff := now.UTC().Add(-retentionSnapshots).UnixNano()
	s.db.ExecContext(ctx,
		`DELETE FROM snapshot_markets WHERE snapshot_id IN (SELECT id FROM snapshots WHERE taken_at < ?)`,
		cutoff,
	)
	s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE taken_at < ?`, cutoff)
}

// fingerprint resume anchor y precios de un snapshot para detectar repeticiones.
func fingerprint(snap domain.LadderSnapshot) string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(snap.Anchor, 'g', -1, 64))
	for _, m := range snap.Markets {
		b.WriteByte('|')
		b.WriteString(m.ID)
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(m.Strike.Value, 'g', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(m.YesPrice, 'g', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(m.NoPrice, 'g', -1, 64))
	}
	return b.String()
}
