package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/cohort"
	"github.com/riftlens/riftlens/internal/model"
)

var warmMinGames int

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Precompute cohort distributions for every stored champion+role pair",
	Long: `Warm rebuilds the cohort percentile cache in bulk, with bounded concurrency
and a long TTL, so interactive score/cohort calls hit warm entries.`,
	Args: cobra.NoArgs,
	RunE: runWarm,
}

func init() {
	warmCmd.Flags().IntVar(&warmMinGames, "min-games", model.MinReliableSample, "skip pairs with fewer stored rows")
}

func runWarm(cmd *cobra.Command, args []string) error {
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

	keys, err := db.CohortKeys(cmd.Context())
	if err != nil {
		return fmt.Errorf("list cohorts: %w", err)
	}

	specs := make([]cohort.Spec, 0, len(keys))
	for _, k := range keys {
		if k.Games < warmMinGames {
			continue
		}
		specs = append(specs, cohort.Spec{Champion: k.Champion, Role: k.Role})
	}
	if len(specs) == 0 {
		fmt.Println("Nothing to warm: no champion+role pair has enough stored rows.")
		return nil
	}

	b := cohort.NewBuilder(db, c, cfg).WithTTL(cfg.Cache.BulkCohortTTL)
	stats, err := b.BuildMany(cmd.Context(), specs)
	if err != nil {
		return err
	}
	for _, s := range stats {
		log.Info().Str("champion", s.Champion).Str("role", s.Role.String()).
			Int("sample", s.SampleSize).Msg("cohort warmed")
	}
	log.Info().Int("cohorts", len(stats)).Msg("warm complete")
	return nil
}
