// Package progression runs the per-turn research step of a realm.
package progression

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/napolitain/techtree/internal/events"
	"github.com/napolitain/techtree/internal/ledger"
	"github.com/napolitain/techtree/internal/models"
	"github.com/napolitain/techtree/internal/rarechain"
)

// Notifier receives research events as they happen
type Notifier interface {
	Notify(events.Event)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(events.Event)

// Notify calls f(e)
func (f NotifierFunc) Notify(e events.Event) { f(e) }

// Driver advances ledgers one turn at a time. A Driver holds no per-realm
// state and may be shared by realms running in parallel as long as its
// Notifier is safe for concurrent use.
type Driver struct {
	notifier Notifier
	logger   *slog.Logger
}

// Option configures a Driver
type Option func(*Driver)

// WithNotifier sets where discovery and level-advance events go
func WithNotifier(n Notifier) Option {
	return func(d *Driver) {
		d.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDriver creates a driver
func NewDriver(opts ...Option) *Driver {
	d := &Driver{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Turn is the input of one research step
type Turn struct {
	Number         int
	Realm          int
	ResearchPoints int // total research output of the realm this turn
	Length         models.GameLength
}

// Discovery is a technology granted by research
type Discovery struct {
	Name     string
	Category models.Category
	Level    int
}

// LevelAdvance is a category whose level rose because nothing was left to draw
type LevelAdvance struct {
	Category models.Category
	Level    int // the new level
}

// Result summarizes one turn of one realm
type Result struct {
	Discoveries []Discovery
	Advances    []LevelAdvance
}

// Advance runs one research turn on l, drawing every random choice from rng.
//
// Each category in research order receives its focus share of the turn's
// research points. When the accumulator covers the cost of the current
// level, the cost is spent and one technology is drawn uniformly from the
// missing eligible names of the current slot plus any unlockable rare tier.
// If there is nothing to draw, the cost is refunded and the level rises by
// one instead. At most one draw happens per category per turn.
func (d *Driver) Advance(l *ledger.Ledger, turn Turn, rng *rand.Rand) Result {
	var res Result
	cat := l.Catalog()
	resolver := rarechain.New(cat)

	for _, c := range models.AllCategories() {
		l.Accumulate(c, float64(l.GetFocus(c))*float64(turn.ResearchPoints)/models.FocusTotal)

		level := l.GetLevel(c)
		cost := float64(cat.CostOf(level, turn.Length))
		if l.GetPoints(c) < cost {
			continue
		}

		// An empty pool refunds the cost, so only spend once there is a draw.
		pool := candidatePool(l, resolver, c, level)
		if len(pool) == 0 {
			if level >= models.MaxLevel {
				continue
			}
			l.SetLevel(c, level+1)
			adv := LevelAdvance{Category: c, Level: l.GetLevel(c)}
			res.Advances = append(res.Advances, adv)
			d.logger.Debug("slot exhausted, level advanced",
				"turn", turn.Number, "realm", turn.Realm, "category", c, "level", adv.Level)
			d.notify(events.Event{
				Turn: turn.Number, Realm: turn.Realm, Kind: events.KindLevelAdvance,
				Category: c, Level: adv.Level,
			})
			continue
		}

		l.Spend(c, cost)
		name := pool[rng.IntN(len(pool))]
		def, _ := cat.Lookup(name)
		l.AddTech(def)
		res.Discoveries = append(res.Discoveries, Discovery{Name: name, Category: c, Level: def.Level})
		d.logger.Debug("technology discovered",
			"turn", turn.Number, "realm", turn.Realm, "name", name, "category", c, "level", def.Level)
		d.notify(events.Event{
			Turn: turn.Number, Realm: turn.Realm, Kind: events.KindDiscovery,
			Name: name, Category: c, Level: def.Level,
		})
	}
	return res
}

// candidatePool is the missing names of the slot followed by the
// unlockable rare tiers, without duplicates or owned names.
func candidatePool(l *ledger.Ledger, resolver *rarechain.Resolver, c models.Category, level int) []string {
	pool := l.GetMissing(c, level)
	for _, name := range resolver.Unlockable(l, c) {
		if l.HasTech(name) || slices.Contains(pool, name) {
			continue
		}
		pool = append(pool, name)
	}
	return pool
}

func (d *Driver) notify(e events.Event) {
	if d.notifier != nil {
		d.notifier.Notify(e)
	}
}
