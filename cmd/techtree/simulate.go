package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/events"
	"github.com/napolitain/techtree/internal/loader"
	"github.com/napolitain/techtree/internal/models"
	"github.com/napolitain/techtree/internal/selection"
	"github.com/napolitain/techtree/internal/session"
	"github.com/napolitain/techtree/internal/store"
)

var (
	saveName   string
	resumeName string
	showEvents int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play research turns and report the result",
	Long: `Plays a number of research turns for one or more realms and prints
their levels, discoveries and best equipment. A game can be resumed from
and saved to the save database.`,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.String("faction", "", "faction of every realm")
	f.Int("realms", 0, "number of realms")
	f.Int("turns", 0, "turns to play")
	f.Uint64("seed", 0, "random seed")
	f.Int("max-turns", 0, "configured game length in turns (shifts research costs)")
	f.Int("research-output", 0, "research points per realm per turn")
	f.String("compression", "", "save compression: none, lz4 or zstd")
	f.StringVar(&saveName, "save", "", "save the game under this name when done")
	f.StringVar(&resumeName, "resume", "", "resume the latest save with this name")
	f.IntVar(&showEvents, "events", 20, "number of most recent events to print")

	bindFlag(simulateCmd, "faction", "faction")
	bindFlag(simulateCmd, "realms", "realms")
	bindFlag(simulateCmd, "turns", "turns")
	bindFlag(simulateCmd, "seed", "seed")
	bindFlag(simulateCmd, "max_turns", "max-turns")
	bindFlag(simulateCmd, "research_output", "research-output")
	bindFlag(simulateCmd, "compression", "compression")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loader.Load(cfg.Catalog, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  Technology Research      │")
	titleColor.Println("│  Progression Simulator    │")
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()

	var game *session.Game
	if resumeName != "" {
		game, err = resume(ctx, cfg.SaveDB, resumeName, cat, logger)
		if err != nil {
			return err
		}
		infoColor.Printf("📂 Resumed %q at turn %d\n", resumeName, game.Turn())
	} else {
		realms := make([]session.RealmConfig, cfg.Realms)
		for i := range realms {
			realms[i] = session.RealmConfig{
				Name:           fmt.Sprintf("Realm %d", i+1),
				Faction:        models.FactionID(cfg.Faction),
				ResearchPoints: cfg.ResearchOutput,
			}
		}
		game, err = session.New(cat, realms, session.Options{Seed: cfg.Seed, MaxTurns: cfg.MaxTurns, Logger: logger})
		if err != nil {
			return err
		}
	}
	infoColor.Printf("📦 %d technologies, %d realms, %s game, seed %d\n\n",
		cat.Len(), len(game.Realms()), game.Length(), game.Seed())

	start := game.Turn()
	if err := game.Run(ctx, cfg.Turns); err != nil {
		return err
	}
	successColor.Printf("✓ Played turns %d to %d\n", start+1, game.Turn())

	printEvents(game.Feed().Drain(), showEvents)
	printRealms(game)
	if err := printEquipment(game); err != nil {
		return err
	}

	if saveName != "" {
		blob, err := game.Save(cfg.SaveCompression())
		if err != nil {
			return err
		}
		st, err := store.Open(ctx, cfg.SaveDB)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Put(ctx, saveName, game.Turn(), blob)
		if err != nil {
			return err
		}
		successColor.Printf("\n💾 Saved %q as #%d (%d bytes, %s)\n", saveName, id, len(blob), cfg.SaveCompression())
	}
	return nil
}

// resume loads the latest save stored under name
func resume(ctx context.Context, db, name string, cat *catalog.Catalog, logger *slog.Logger) (*session.Game, error) {
	st, err := store.Open(ctx, db)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	_, blob, err := st.Latest(ctx, name)
	if err != nil {
		return nil, err
	}
	return session.Load(cat, blob, logger)
}

func printEvents(evs []events.Event, limit int) {
	if limit <= 0 || len(evs) == 0 {
		return
	}
	fmt.Printf("\n📜 Last %d of %d events:\n", min(limit, len(evs)), len(evs))
	for _, e := range evs[max(0, len(evs)-limit):] {
		if e.Kind == events.KindLevelAdvance {
			color.Magenta("   %s", e)
			continue
		}
		fmt.Printf("   %s\n", e)
	}
}

func printRealms(game *session.Game) {
	fmt.Println("\n🔬 Research Levels:")
	header := []string{"Realm", "Faction", "Techs", "Avg Level"}
	for _, c := range models.AllCategories() {
		header = append(header, c.Title())
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for _, r := range game.Realms() {
		row := []string{
			r.Name,
			string(r.Ledger.Faction()),
			fmt.Sprintf("%d", r.Ledger.TechCount()),
			fmt.Sprintf("%.1f", r.Ledger.Progress()),
		}
		for _, c := range models.AllCategories() {
			row = append(row, fmt.Sprintf("%d (%d)", r.Ledger.GetLevel(c), r.Ledger.CountIn(c)))
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func printEquipment(game *session.Game) error {
	stats, err := loader.DefaultComponents()
	if err != nil {
		return err
	}
	queries := []struct {
		label string
		query selection.Query[selection.ComponentStats]
	}{
		{"Weapon", selection.WeaponQuery},
		{"Engine", selection.EngineSpeedQuery},
		{"FTL", selection.EngineFTLQuery},
		{"Tactical", selection.TacticalEngineQuery},
		{"Power", selection.PowerSourceQuery},
		{"Lab", selection.StarbaseResearchQuery},
		{"Market", selection.StarbaseCreditQuery},
	}

	fmt.Println("\n🚀 Best Equipment:")
	header := []string{"Realm"}
	for _, q := range queries {
		header = append(header, q.label)
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	// Stream 0 is never used by a realm.
	rng := rand.New(rand.NewPCG(game.Seed(), 0))
	for _, r := range game.Realms() {
		row := []string{r.Name}
		for _, q := range queries {
			def, ok := selection.Best(r.Ledger, q.query, stats, rng)
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, def.Name)
		}
		_ = table.Append(row)
	}
	_ = table.Render()
	return nil
}
