// Package session hosts a multi-realm research game over one shared catalog.
// Every realm owns its ledger and random stream.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/events"
	"github.com/napolitain/techtree/internal/ledger"
	"github.com/napolitain/techtree/internal/models"
	"github.com/napolitain/techtree/internal/progression"
	"github.com/napolitain/techtree/internal/savegame"
)

var (
	// ErrUnknownFaction is returned for a realm whose faction the catalog does not declare
	ErrUnknownFaction = errors.New("session: unknown faction")

	// ErrNoRealms is returned when a game would have no realms
	ErrNoRealms = errors.New("session: no realms")
)

// RealmConfig describes a realm at game start
type RealmConfig struct {
	Name           string
	Faction        models.FactionID
	ResearchPoints int // research output per turn
}

// Realm is one player's research state
type Realm struct {
	Name           string
	ResearchPoints int
	Ledger         *ledger.Ledger

	pcg *rand.PCG
	rng *rand.Rand
}

// Options configures a Game
type Options struct {
	Seed     uint64
	MaxTurns int // configured game length in turns, 0 for standard
	Logger   *slog.Logger
}

// Game is a running session. Methods are not safe for concurrent use;
// PlayTurn parallelizes across realms internally.
type Game struct {
	catalog  *catalog.Catalog
	driver   *progression.Driver
	feed     *events.Feed
	logger   *slog.Logger
	realms   []*Realm
	turn     int
	seed     uint64
	maxTurns int
}

// realmStream derives the random stream of realm i. Streams depend only on
// the seed and the realm index.
func realmStream(seed uint64, i int) *rand.PCG {
	return rand.NewPCG(seed, uint64(i)+1)
}

func newGame(cat *catalog.Catalog, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	feed := events.NewFeed()
	return &Game{
		catalog:  cat,
		feed:     feed,
		logger:   logger,
		seed:     opts.Seed,
		maxTurns: opts.MaxTurns,
		driver:   progression.NewDriver(progression.WithNotifier(feed), progression.WithLogger(logger)),
	}
}

// New starts a game at turn 0
func New(cat *catalog.Catalog, realms []RealmConfig, opts Options) (*Game, error) {
	if len(realms) == 0 {
		return nil, ErrNoRealms
	}
	g := newGame(cat, opts)
	for i, rc := range realms {
		if !cat.KnowsFaction(rc.Faction) {
			return nil, fmt.Errorf("%w: %q (realm %q)", ErrUnknownFaction, rc.Faction, rc.Name)
		}
		pcg := realmStream(opts.Seed, i)
		g.realms = append(g.realms, &Realm{
			Name:           rc.Name,
			ResearchPoints: rc.ResearchPoints,
			Ledger:         ledger.New(cat, rc.Faction, ledger.WithLogger(g.logger)),
			pcg:            pcg,
			rng:            rand.New(pcg),
		})
	}
	return g, nil
}

// Turn returns the number of the last played turn
func (g *Game) Turn() int { return g.turn }

// Seed returns the game seed
func (g *Game) Seed() uint64 { return g.seed }

// Catalog returns the shared catalog
func (g *Game) Catalog() *catalog.Catalog { return g.catalog }

// Realms returns the realms in index order
func (g *Game) Realms() []*Realm { return g.realms }

// Feed returns the event feed
func (g *Game) Feed() *events.Feed { return g.feed }

// Length returns the game-length bucket used for costs
func (g *Game) Length() models.GameLength {
	return models.GameLengthForTurns(g.maxTurns)
}

// PlayTurn advances every realm by one turn in parallel and returns the
// per-realm results in realm order.
func (g *Game) PlayTurn(ctx context.Context) ([]progression.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.turn++
	length := g.Length()

	results := make([]progression.Result, len(g.realms))
	var wg sync.WaitGroup
	for i, r := range g.realms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = g.driver.Advance(r.Ledger, progression.Turn{
				Number:         g.turn,
				Realm:          i,
				ResearchPoints: r.ResearchPoints,
				Length:         length,
			}, r.rng)
		}()
	}
	wg.Wait()
	return results, nil
}

// Run plays n turns, stopping early when ctx is cancelled
func (g *Game) Run(ctx context.Context, n int) error {
	for range n {
		if _, err := g.PlayTurn(ctx); err != nil {
			return err
		}
	}
	g.logger.Debug("session run finished", "turn", g.turn, "events", g.feed.Len())
	return nil
}

// Save encodes the game. Pending events are not saved.
func (g *Game) Save(c savegame.Compression) ([]byte, error) {
	s := &savegame.Game{Turn: g.turn, MaxTurns: g.maxTurns, Seed: g.seed}
	for _, r := range g.realms {
		state, err := r.pcg.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("session: realm %q random state: %w", r.Name, err)
		}
		s.Realms = append(s.Realms, savegame.Realm{
			Name:           r.Name,
			ResearchPoints: r.ResearchPoints,
			RNG:            state,
			Ledger:         r.Ledger.Snapshot(),
		})
	}
	return savegame.Encode(s, c)
}

// Load restores a game saved with Save. Technologies the catalog no longer
// knows are dropped with a warning, but a faction it does not declare is
// ErrUnknownFaction. A realm without random state restarts its stream from
// the seed.
func Load(cat *catalog.Catalog, blob []byte, logger *slog.Logger) (*Game, error) {
	s, err := savegame.Decode(blob)
	if err != nil {
		return nil, err
	}
	if len(s.Realms) == 0 {
		return nil, ErrNoRealms
	}

	g := newGame(cat, Options{Seed: s.Seed, MaxTurns: s.MaxTurns, Logger: logger})
	g.turn = s.Turn
	for i, sr := range s.Realms {
		if faction := models.FactionID(sr.Ledger.Faction); !cat.KnowsFaction(faction) {
			return nil, fmt.Errorf("%w: %q (realm %q)", ErrUnknownFaction, faction, sr.Name)
		}
		pcg := realmStream(s.Seed, i)
		if len(sr.RNG) > 0 {
			if err := pcg.UnmarshalBinary(sr.RNG); err != nil {
				return nil, fmt.Errorf("session: realm %q random state: %w", sr.Name, err)
			}
		} else {
			g.logger.Warn("realm has no random state, reseeding", "realm", sr.Name)
		}
		g.realms = append(g.realms, &Realm{
			Name:           sr.Name,
			ResearchPoints: sr.ResearchPoints,
			Ledger:         ledger.Restore(cat, sr.Ledger, ledger.WithLogger(g.logger)),
			pcg:            pcg,
			rng:            rand.New(pcg),
		})
	}
	return g, nil
}
