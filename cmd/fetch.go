package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/riot"
	"github.com/riftlens/riftlens/internal/storage"
)

var (
	fetchCount     int
	fetchStart     int
	fetchTimelines bool
	fetchAPIKey    string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <riot-id|puuid>",
	Short: "Fetch a player's recent matches from the Riot API into the local store",
	Long: `Fetch downloads match and timeline documents for a player and stores them.
The player is a Riot ID (gameName#tagLine) or a raw PUUID.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchCount, "count", 20, "number of recent matches to fetch")
	fetchCmd.Flags().IntVar(&fetchStart, "start", 0, "offset into the player's match history")
	fetchCmd.Flags().BoolVar(&fetchTimelines, "timelines", true, "also fetch match timelines")
	fetchCmd.Flags().StringVar(&fetchAPIKey, "api-key", "", "Riot API key (falls back to $RIFTLENS_RIOT_API_KEY)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if fetchAPIKey != "" {
		cfg.Riot.APIKey = fetchAPIKey
	}
	if cfg.Riot.APIKey == "" {
		return fmt.Errorf("no Riot API key: set RIFTLENS_RIOT_API_KEY or use --api-key")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	client := riot.NewClient(cfg.Riot, log)

	puuid := args[0]
	if name, tag, ok := strings.Cut(args[0], "#"); ok {
		acct, err := client.AccountByRiotID(ctx, name, tag)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", args[0], err)
		}
		puuid = acct.PUUID
		log.Info().Str("riot_id", args[0]).Str("puuid", puuid).Msg("resolved account")
	}

	ids, err := client.MatchIDs(ctx, puuid, fetchStart, fetchCount)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	var stored, skipped int
	for _, id := range ids {
		ok, err := db.MatchExists(ctx, id)
		if err != nil {
			return err
		}
		if ok {
			skipped++
			continue
		}
		if err := ingestMatch(ctx, client, db, id, log); err != nil {
			return err
		}
		stored++
	}
	log.Info().Int("stored", stored).Int("skipped", skipped).Msg("fetch complete")
	return nil
}

func ingestMatch(ctx context.Context, client *riot.Client, db *storage.DB, id string, log zerolog.Logger) error {
	m, err := client.Match(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch match %s: %w", id, err)
	}
	if err := db.InsertMatch(ctx, m); err != nil {
		return fmt.Errorf("store match %s: %w", id, err)
	}

	if !fetchTimelines {
		log.Info().Str("match", id).Msg("stored match")
		return nil
	}
	tl, err := client.Timeline(ctx, id)
	if errors.Is(err, model.ErrDataUnavailable) {
		// Some queues never expose timelines; timeline-derived metrics will
		// simply come back null.
		log.Warn().Str("match", id).Msg("no timeline available")
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch timeline %s: %w", id, err)
	}
	if err := db.InsertTimeline(ctx, tl); err != nil {
		return fmt.Errorf("store timeline %s: %w", id, err)
	}
	log.Info().Str("match", id).Msg("stored match with timeline")
	return nil
}
