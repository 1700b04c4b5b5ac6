package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/cohort"
	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/report"
	"github.com/riftlens/riftlens/internal/role"
)

var (
	cohortWinsOnly bool
	cohortSample   int
	cohortQueues   []int
	cohortFrom     string
	cohortTo       string
)

var cohortCmd = &cobra.Command{
	Use:   "cohort <champion> <role>",
	Short: "Build percentile distributions for a champion+role cohort",
	Args:  cobra.ExactArgs(2),
	RunE:  runCohort,
}

func init() {
	cohortCmd.Flags().BoolVar(&cohortWinsOnly, "wins-only", false, "sample winning games only")
	cohortCmd.Flags().IntVar(&cohortSample, "sample", 0, "sample size (0 = config default)")
	cohortCmd.Flags().IntSliceVar(&cohortQueues, "queue", nil, "restrict to queue ids (default from config)")
	cohortCmd.Flags().StringVar(&cohortFrom, "from", "", "earliest game date (YYYY-MM-DD)")
	cohortCmd.Flags().StringVar(&cohortTo, "to", "", "latest game date, exclusive (YYYY-MM-DD)")
}

func runCohort(cmd *cobra.Command, args []string) error {
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

	spec, err := cohortSpec(args[0], args[1])
	if err != nil {
		return err
	}
	stats, err := cohort.NewBuilder(db, c, cfg).Build(cmd.Context(), spec)
	if err != nil {
		return err
	}
	report.PrintCohort(os.Stdout, stats)
	return nil
}

func cohortSpec(champ, roleArg string) (cohort.Spec, error) {
	r, ok := role.Parse(roleArg)
	if !ok || r == model.RoleUnknown {
		return cohort.Spec{}, fmt.Errorf("%w: unknown role %q", model.ErrInvalidParameter, roleArg)
	}
	spec := cohort.Spec{
		Champion:   champ,
		Role:       r,
		WinsOnly:   cohortWinsOnly,
		SampleSize: cohortSample,
		Queues:     cohortQueues,
	}
	var err error
	if spec.WindowStart, err = parseDay(cohortFrom); err != nil {
		return spec, err
	}
	if spec.WindowEnd, err = parseDay(cohortTo); err != nil {
		return spec, err
	}
	return spec, nil
}
