package services

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
	"github.com/jiaming2012/sim-trading/src/eventpubsub"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

// NarrativeComposer turns trading facts into display text. Implementations
// may fail or panic; the generator contains both.
type NarrativeComposer interface {
	Rationale(position models.Position, reason models.OrderReason, variant int) (string, error)
	Commentary(symbol eventmodels.StockSymbol, closes []float64, variant int) (string, error)
}

type NarrativeGeneratorConfig struct {
	Delay           uint64
	CommentaryEvery uint64
	HistoryLimit    int
	AdvisoryCap     int
	AnalysisCap     int
	Seed            int64
}

// NarrativeGenerator writes rationales and market commentary to its own
// lists. Nothing on the trading path reads them, and it keeps its own lock,
// random source and scheduler.
type NarrativeGenerator struct {
	mu         sync.Mutex
	cfg        NarrativeGeneratorConfig
	rng        RandomSource
	scheduler  *models.Scheduler
	composer   NarrativeComposer
	symbols    []eventmodels.StockSymbol
	history    map[eventmodels.StockSymbol][]float64
	advisories *models.RingBuffer[models.Advisory]
	analyses   *models.RingBuffer[models.Advisory]
	tick       uint64
	now        time.Time
	stopped    bool
}

// Subscribe attaches the generator to position-open and candle-close events.
func (g *NarrativeGenerator) Subscribe(bus *eventpubsub.Bus) error {
	if err := bus.Subscribe("NarrativeGenerator", eventpubsub.PositionOpenedEvent, g.onPositionOpened); err != nil {
		return err
	}

	return bus.Subscribe("NarrativeGenerator", eventpubsub.CandleClosedEvent, g.onCandleClosed)
}

func (g *NarrativeGenerator) onPositionOpened(event *models.PositionOpenedEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped {
		return
	}

	position := event.Position
	reason := event.Reason
	g.scheduler.Schedule(event.Tick+g.cfg.Delay, fmt.Sprintf("rationale %s", position.Symbol), func() {
		variant := g.rng.Intn(rationaleVariants)
		text, err := g.composer.Rationale(position, reason, variant)
		if err != nil {
			log.Warnf("NarrativeGenerator: rationale for %s: %v", position.Symbol, err)
			return
		}

		g.advisories.Push(models.Advisory{
			Timestamp: g.now,
			Tick:      g.tick,
			Kind:      models.AdvisoryKindRationale,
			Symbol:    position.Symbol.String(),
			Text:      text,
		})
	})
}

func (g *NarrativeGenerator) onCandleClosed(event *models.CandleClosedEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for symbol, price := range event.Prices {
		closes := append(g.history[symbol], price)
		if g.cfg.HistoryLimit > 0 && len(closes) > g.cfg.HistoryLimit {
			closes = closes[len(closes)-g.cfg.HistoryLimit:]
		}

		g.history[symbol] = closes
	}
}

// SeedHistory replaces the close history of symbol, e.g. with warm-up candles.
func (g *NarrativeGenerator) SeedHistory(symbol eventmodels.StockSymbol, closes []float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cfg.HistoryLimit > 0 && len(closes) > g.cfg.HistoryLimit {
		closes = closes[len(closes)-g.cfg.HistoryLimit:]
	}

	g.history[symbol] = append([]float64(nil), closes...)
}

// Advance runs the narrative work due on tick. It never returns an error:
// failures are logged and dropped.
func (g *NarrativeGenerator) Advance(tick uint64, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped {
		return
	}

	g.now = now
	g.tick = tick

	for {
		due, found := g.scheduler.NextDue()
		if !found || due > tick {
			break
		}

		g.safely("scheduled narrative", func() {
			g.scheduler.RunDue(due)
		})
	}

	if g.cfg.CommentaryEvery > 0 && tick > 0 && tick%g.cfg.CommentaryEvery == 0 {
		g.safely("market commentary", g.commentary)
	}
}

func (g *NarrativeGenerator) commentary() {
	if len(g.symbols) == 0 {
		return
	}

	symbol := g.symbols[g.rng.Intn(len(g.symbols))]
	variant := g.rng.Intn(commentaryVariants)

	closes := make([]float64, len(g.history[symbol]))
	copy(closes, g.history[symbol])

	text, err := g.composer.Commentary(symbol, closes, variant)
	if err != nil {
		log.Warnf("NarrativeGenerator: commentary for %s: %v", symbol, err)
		return
	}

	g.analyses.Push(models.Advisory{
		Timestamp: g.now,
		Tick:      g.tick,
		Kind:      models.AdvisoryKindCommentary,
		Symbol:    symbol.String(),
		Text:      text,
	})
}

func (g *NarrativeGenerator) safely(label string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("NarrativeGenerator: recovered from panic in %s: %v", label, r)
		}
	}()

	fn()
}

func (g *NarrativeGenerator) Advisories() []models.Advisory {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.advisories.Items()
}

func (g *NarrativeGenerator) Analyses() []models.Advisory {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.analyses.Items()
}

// Pending is the number of rationales waiting for their delay to pass.
func (g *NarrativeGenerator) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.scheduler.Len()
}

// Stop drops every scheduled narrative. Later events and ticks are ignored.
func (g *NarrativeGenerator) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopped = true
	g.scheduler.Clear()
}

func NewNarrativeGenerator(cfg NarrativeGeneratorConfig, symbols []eventmodels.StockSymbol, composer NarrativeComposer) *NarrativeGenerator {
	if composer == nil {
		composer = NewTemplateComposer()
	}

	return &NarrativeGenerator{
		cfg:        cfg,
		rng:        NewRandomSource(cfg.Seed),
		scheduler:  models.NewScheduler(),
		composer:   composer,
		symbols:    symbols,
		history:    make(map[eventmodels.StockSymbol][]float64),
		advisories: models.NewRingBuffer[models.Advisory](cfg.AdvisoryCap),
		analyses:   models.NewRingBuffer[models.Advisory](cfg.AnalysisCap),
	}
}
