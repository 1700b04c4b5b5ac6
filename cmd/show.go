package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/extract"
	"github.com/riftlens/riftlens/internal/report"
)

var (
	showPUUID       string
	showEarlyWindow int
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show the derived metrics of one stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPUUID, "puuid", "", "highlight this player's row")
	showCmd.Flags().IntVar(&showEarlyWindow, "early-window", 0, "early-game cutoff in minutes (0 = config default)")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	doc, err := db.GetMatch(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	ex := extract.New(cfg)
	if showEarlyWindow > 0 {
		ex = ex.WithEarlyWindow(showEarlyWindow)
	}
	rows, err := ex.Rows(doc.Match, doc.Timeline)
	if err != nil {
		return fmt.Errorf("extract metrics: %w", err)
	}
	report.PrintMatchRows(os.Stdout, doc.Match, rows, showPUUID)
	if doc.Timeline == nil {
		fmt.Println("\nNo timeline stored: snapshot and early-game metrics are unavailable.")
	}
	return nil
}
