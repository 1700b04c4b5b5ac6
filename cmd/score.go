package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/badge"
	"github.com/riftlens/riftlens/internal/cohort"
	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/report"
	"github.com/riftlens/riftlens/internal/role"
	"github.com/riftlens/riftlens/internal/rollup"
	"github.com/riftlens/riftlens/internal/score"
)

var (
	scoreWinsOnly bool
	scoreSample   int
	scoreLimit    int
)

var scoreCmd = &cobra.Command{
	Use:   "score <puuid> <champion> <role>",
	Short: "Score a player's champion+role performance against the cohort",
	Args:  cobra.ExactArgs(3),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreWinsOnly, "wins-only", false, "compare against winning games only")
	scoreCmd.Flags().IntVar(&scoreSample, "sample", 0, "cohort sample size (0 = config default)")
	scoreCmd.Flags().IntVar(&scoreLimit, "limit", 0, "only the player's N most recent matches (0 = all)")
}

func runScore(cmd *cobra.Command, args []string) error {
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

	r, ok := role.Parse(args[2])
	if !ok || r == model.RoleUnknown {
		return fmt.Errorf("%w: unknown role %q", model.ErrInvalidParameter, args[2])
	}

	ctx := cmd.Context()
	out, err := rollup.NewAggregator(db, c, cfg).Rollup(ctx, rollup.Filter{
		PUUID:    args[0],
		Champion: args[1],
		Role:     r,
		Limit:    scoreLimit,
	})
	if err != nil {
		return err
	}
	if len(out.Groups) == 0 {
		return fmt.Errorf("%w: no matches for %s as %s %s", model.ErrDataUnavailable, args[0], args[1], r)
	}
	group := &out.Groups[0]

	cohortStats, err := cohort.NewBuilder(db, c, cfg).Build(ctx, cohort.Spec{
		Champion:   args[1],
		Role:       r,
		WinsOnly:   scoreWinsOnly,
		SampleSize: scoreSample,
	})
	if err != nil {
		return err
	}

	report.PrintScore(os.Stdout, score.Score(group, cohortStats))

	catalog, err := badge.LoadCatalog()
	if err != nil {
		return err
	}
	report.PrintBadges(os.Stdout, badge.NewClassifier(catalog).Classify(group, cohortStats))
	return nil
}
