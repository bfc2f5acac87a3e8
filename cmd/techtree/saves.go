package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/techtree/internal/models"
	"github.com/napolitain/techtree/internal/savegame"
	"github.com/napolitain/techtree/internal/store"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage saved games",
}

var savesListCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List saved games, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSavesList,
}

var savesInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Verify a saved game and show its realms",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavesInspect,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved game",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesListCmd, savesInspectCmd, savesDeleteCmd)
}

func openStore(ctx context.Context) (*store.Store, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.SaveDB)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid save id %q", arg)
	}
	return id, nil
}

func runSavesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	entries, err := st.List(ctx, name)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		color.Yellow("No saved games")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Name", "Turn", "Compression", "Size", "Saved"}),
	)
	for _, e := range entries {
		_ = table.Append([]string{
			fmt.Sprintf("%d", e.ID),
			e.Name,
			fmt.Sprintf("%d", e.Turn),
			e.Compression.String(),
			fmt.Sprintf("%d B", e.Size),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()
	return nil
}

func runSavesInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	blob, err := st.Get(ctx, id)
	if err != nil {
		return err
	}
	h, err := savegame.ReadHeader(blob)
	if err != nil {
		return err
	}
	g, err := savegame.Decode(blob)
	if err != nil {
		return err
	}

	color.Green("✓ Save #%d verified", id)
	fmt.Printf("   Format:      v%d, %s, %d bytes (%d uncompressed)\n", h.Version, h.Compression, len(blob), h.Size)
	fmt.Printf("   Digest:      %x\n", h.Digest[:8])
	fmt.Printf("   Turn:        %d\n", g.Turn)
	fmt.Printf("   Seed:        %d\n", g.Seed)
	fmt.Printf("   Game length: %s\n", models.GameLengthForTurns(g.MaxTurns))
	fmt.Println()

	header := []string{"Realm", "Faction", "Research"}
	for _, c := range models.AllCategories() {
		header = append(header, c.Title())
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for _, r := range g.Realms {
		row := []string{r.Name, r.Ledger.Faction, fmt.Sprintf("%d", r.ResearchPoints)}
		for c := range models.NumCategories {
			owned := 0
			for _, names := range r.Ledger.Slots[c] {
				owned += len(names)
			}
			row = append(row, fmt.Sprintf("L%d %d%% %d", r.Ledger.Levels[c], r.Ledger.Focus[c], owned))
		}
		_ = table.Append(row)
	}
	_ = table.Render()
	return nil
}

func runSavesDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Delete(ctx, id); err != nil {
		return err
	}
	color.Green("✓ Deleted save #%d", id)
	return nil
}
