package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/loader"
	"github.com/napolitain/techtree/internal/models"
)

var (
	listCategory string
	listLevel    int
	listFaction  string
	listRare     bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the technology catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List technologies, optionally filtered",
	RunE:  runCatalogList,
}

var catalogLookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Show one technology",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogLookup,
}

var catalogCostsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Show research costs per level and game length",
	RunE:  runCatalogCosts,
}

var catalogWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Reload a catalog file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogWatch,
}

func init() {
	f := catalogListCmd.Flags()
	f.StringVarP(&listCategory, "category", "c", "", "only this category")
	f.IntVarP(&listLevel, "level", "l", 0, "only this level")
	f.StringVarP(&listFaction, "faction", "f", "", "only technologies this faction may research")
	f.BoolVar(&listRare, "rare", false, "list rare technologies instead")

	catalogCmd.AddCommand(catalogListCmd, catalogLookupCmd, catalogCostsCmd, catalogWatchCmd)
}

func loadCatalog() (*catalog.Catalog, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return loader.Load(cfg.Catalog, logger)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	var category *models.Category
	if listCategory != "" {
		c, err := models.ParseCategory(listCategory)
		if err != nil {
			return err
		}
		category = &c
	}
	if listLevel != 0 && (listLevel < models.MinLevel || listLevel > models.MaxLevel) {
		return fmt.Errorf("level must be between %d and %d", models.MinLevel, models.MaxLevel)
	}

	var defs []models.TechDefinition
	if listRare {
		defs = cat.Rare()
	} else {
		for _, c := range models.AllCategories() {
			for level := models.MinLevel; level <= models.MaxLevel; level++ {
				defs = append(defs, cat.Slot(c, level)...)
			}
		}
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Name", "Category", "Level", "Artifact", "Factions", "Tradeable"}),
	)
	shown := 0
	for _, def := range defs {
		if category != nil && def.Category != *category {
			continue
		}
		if listLevel != 0 && def.Level != listLevel {
			continue
		}
		if listFaction != "" && !def.Eligibility.Admits(models.FactionID(listFaction)) {
			continue
		}
		_ = table.Append([]string{
			def.Name,
			def.Category.String(),
			fmt.Sprintf("%d", def.Level),
			formatArtifact(def.Artifact),
			def.Eligibility.String(),
			yesNo(def.Tradeable),
		})
		shown++
	}
	_ = table.Render()
	color.Yellow("%d of %d technologies", shown, cat.Len())
	return nil
}

func runCatalogLookup(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	def, ok := cat.Lookup(args[0])
	if !ok {
		color.Red("No technology named %q", args[0])
		if suggestions := cat.Suggest(args[0], 5); len(suggestions) > 0 {
			fmt.Printf("Did you mean: %s?\n", strings.Join(suggestions, ", "))
		}
		return fmt.Errorf("unknown technology %q", args[0])
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println(def.Name)
	fmt.Printf("   Category:  %s\n", def.Category)
	fmt.Printf("   Level:     %d\n", def.Level)
	fmt.Printf("   Artifact:  %s\n", formatArtifact(def.Artifact))
	fmt.Printf("   Factions:  %s\n", def.Eligibility)
	fmt.Printf("   Tradeable: %s\n", yesNo(def.Tradeable))
	if def.Rare {
		fmt.Printf("   Rare:      %s family\n", def.Family)
		if def.HasChain() {
			fmt.Printf("   Next tier: %s (from level %d)\n", def.Chain.Next, def.Chain.Level)
		}
	}
	return nil
}

func runCatalogCosts(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	header := []string{"Level"}
	for _, g := range models.AllGameLengths() {
		header = append(header, g.String())
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for level := models.MinLevel; level <= models.MaxLevel+1; level++ {
		label := fmt.Sprintf("%d", level)
		if level > models.MaxLevel {
			label = fmt.Sprintf("%d+", level)
		}
		row := []string{label}
		for _, g := range models.AllGameLengths() {
			row = append(row, fmt.Sprintf("%d", cat.CostOf(level, g)))
		}
		_ = table.Append(row)
	}
	_ = table.Render()
	return nil
}

func runCatalogWatch(cmd *cobra.Command, args []string) error {
	_, logger, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := loader.NewWatcher(args[0], logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	color.Cyan("👀 Watching %s (Ctrl-C to stop)", w.Path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-w.Reloads:
			if !ok {
				return nil
			}
			if r.Err != nil {
				color.Red("✗ %v", r.Err)
				continue
			}
			color.Green("✓ Reloaded: %d technologies, %d rare families", r.Catalog.Len(), len(r.Catalog.Families()))
		}
	}
}

func formatArtifact(a models.Artifact) string {
	if a.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Kind)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
