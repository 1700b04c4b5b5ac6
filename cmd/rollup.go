package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/report"
	"github.com/riftlens/riftlens/internal/role"
	"github.com/riftlens/riftlens/internal/rollup"
)

var (
	rollupChampion string
	rollupRole     string
	rollupQueues   []int
	rollupFrom     string
	rollupTo       string
	rollupLimit    int
)

var rollupCmd = &cobra.Command{
	Use:   "rollup <puuid>",
	Short: "Aggregate a player's stored matches per champion and role",
	Args:  cobra.ExactArgs(1),
	RunE:  runRollup,
}

func init() {
	rollupCmd.Flags().StringVar(&rollupChampion, "champion", "", "restrict to one champion")
	rollupCmd.Flags().StringVar(&rollupRole, "role", "", "restrict to one role (TOP/JUNGLE/MIDDLE/BOTTOM/UTILITY)")
	rollupCmd.Flags().IntSliceVar(&rollupQueues, "queue", nil, "restrict to queue ids (default from config)")
	rollupCmd.Flags().StringVar(&rollupFrom, "from", "", "earliest game date (YYYY-MM-DD)")
	rollupCmd.Flags().StringVar(&rollupTo, "to", "", "latest game date, exclusive (YYYY-MM-DD)")
	rollupCmd.Flags().IntVar(&rollupLimit, "limit", 0, "only the N most recent matches (0 = all)")
}

func runRollup(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	c := openCache(log)
	defer c.Close()

	f, err := rollupFilter(args[0])
	if err != nil {
		return err
	}
	out, err := rollup.NewAggregator(db, c, cfg).Rollup(cmd.Context(), f)
	if err != nil {
		return err
	}
	report.PrintRollup(os.Stdout, out)
	return nil
}

func rollupFilter(puuid string) (rollup.Filter, error) {
	f := rollup.Filter{
		PUUID:    puuid,
		Champion: rollupChampion,
		Queues:   rollupQueues,
		Limit:    rollupLimit,
	}
	if rollupRole != "" {
		r, ok := role.Parse(rollupRole)
		if !ok {
			return f, fmt.Errorf("%w: unknown role %q", model.ErrInvalidParameter, rollupRole)
		}
		f.Role = r
	}
	var err error
	if f.WindowStart, err = parseDay(rollupFrom); err != nil {
		return f, err
	}
	if f.WindowEnd, err = parseDay(rollupTo); err != nil {
		return f, err
	}
	return f, nil
}
