package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polyladder/internal/adapters/notify"
	"github.com/alejandrodnm/polyladder/internal/application/mirror"
	"github.com/alejandrodnm/polyladder/internal/domain"
)

func runList(ctx context.Context, svc *mirror.Service, console *notify.Console, asset string) error {
	events, err := svc.ListEvents(ctx, asset)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		slog.Warn("no active ladder events found", "asset", asset)
		return nil
	}
	console.PrintEvents(events)
	return nil
}

type scenarioArgs struct {
	asset     string
	anchor    float64
	yesPrice  float64
	noPrice   float64
	yesStrike float64
	noStrike  float64
	yesUnits  int
	noUnits   int
}

func runScenario(ctx context.Context, svc *mirror.Service, console *notify.Console, a scenarioArgs) error {
	if a.asset == "" {
		return errors.New("scenario: -asset is required")
	}
	if a.yesPrice <= 0 || a.noPrice <= 0 || a.yesStrike <= 0 || a.noStrike <= 0 {
		return errors.New("scenario: -yes-price, -no-price, -yes-strike and -no-strike are required")
	}

	result, err := svc.Scenario(ctx, domain.ScenarioRequest{
		Asset:     a.asset,
		Anchor:    a.anchor,
		YesPrice:  a.yesPrice,
		NoPrice:   a.noPrice,
		YesStrike: a.yesStrike,
		NoStrike:  a.noStrike,
		YesUnits:  a.yesUnits,
		NoUnits:   a.noUnits,
	})
	if err != nil {
		return err
	}
	console.PrintScenario(result)
	return nil
}

// runReplay recalcula cada evento desde su último snapshot, sin red.
func runReplay(ctx context.Context, svc *mirror.Service, console *notify.Console, reqs []mirror.Request) error {
	if len(reqs) == 0 {
		return errors.New("replay: no slugs given")
	}
	failed := 0
	for _, req := range reqs {
		report, err := svc.Replay(ctx, req)
		if err != nil {
			slog.Error("replay failed", "slug", req.Slug, "err", err)
			failed++
			continue
		}
		if err := console.NotifyMirror(ctx, report); err != nil {
			slog.Warn("notifier error", "slug", req.Slug, "err", err)
		}
	}
	if failed == len(reqs) {
		return errors.New("replay: every snapshot lookup failed")
	}
	return nil
}

// runHistory imprime los snapshots guardados de cada slug en la ventana since.
func runHistory(ctx context.Context, svc *mirror.Service, console *notify.Console, slugs []string, since time.Duration) error {
	if len(slugs) == 0 {
		return errors.New("history: no slugs given")
	}
	if since <= 0 {
		return errors.New("history: -since must be positive")
	}
	for _, slug := range slugs {
		snaps, err := svc.History(ctx, slug, since)
		if err != nil {
			return err
		}
		console.PrintHistory(slug, snaps)
	}
	return nil
}
