package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/riftlens/riftlens/internal/badge"
	"github.com/riftlens/riftlens/internal/cache"
	"github.com/riftlens/riftlens/internal/cohort"
	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/role"
	"github.com/riftlens/riftlens/internal/rollup"
	"github.com/riftlens/riftlens/internal/score"
	"github.com/riftlens/riftlens/internal/storage"
)

const analyzeSystemPrompt = `You are a League of Legends performance coach. You are given structured data
from a match-analytics tool and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- Percentiles compare the player to a cohort of the same champion and role.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: focus on what the player can actually improve.
- Avoid generic League advice unless it directly explains a pattern in the data.

Metrics glossary:
- gold@10 / cs@10: gold and creep score at the 10-minute mark. Laning-phase health.
- *_diff: player minus direct lane opponent (same role, other team). Positive = ahead.
- damage_share: fraction of the team's champion damage dealt by the player.
- objective_participation: fraction of team objective takes the player was part of.
- early_gank_death_rate: fraction of pre-15:00 deaths caused by ganks. Below 0.35 is normal.
- KDA: (kills + assists) / deaths.
- Score: 0-100, 50 is cohort-average; percentile buckets and role weights move it.
- Badges: rule-based labels earned from thresholds, never invented.`

var (
	analyzeModelID  string
	analyzeAPIKey   string
	analyzeChampion string
	analyzeRole     string
	analyzeLimit    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <puuid> <question>",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
	Long: `Analyze builds the player's rollup, cohort comparison, score, and badges,
then asks an LLM the question grounded strictly in those numbers. The numeric
score and badges are computed locally; the LLM only narrates them.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModelID, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().StringVar(&analyzeChampion, "champion", "", "restrict to one champion")
	analyzeCmd.Flags().StringVar(&analyzeRole, "role", "", "restrict to one role")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "only the N most recent matches (0 = all)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	f := rollup.Filter{PUUID: args[0], Champion: analyzeChampion, Limit: analyzeLimit}
	if analyzeRole != "" {
		r, ok := role.Parse(analyzeRole)
		if !ok {
			return fmt.Errorf("%w: unknown role %q", model.ErrInvalidParameter, analyzeRole)
		}
		f.Role = r
	}

	ctx := cmd.Context()
	out, err := rollup.NewAggregator(db, c, cfg).Rollup(ctx, f)
	if err != nil {
		return err
	}
	if out.TotalMatches == 0 {
		return fmt.Errorf("%w: no matches for %s (after filters)", model.ErrDataUnavailable, args[0])
	}

	payload, err := buildAnalysisContext(ctx, db, c, cfg, out)
	if err != nil {
		return err
	}
	return callAnthropic(ctx, analyzeAPIKey, analyzeModelID, payload, args[1])
}

// buildAnalysisContext serializes the rollup plus, for the main group, the
// cohort comparison, deterministic score, and earned badges into compact JSON.
// LLM availability never influences these numbers; they are computed first and
// only narrated.
func buildAnalysisContext(ctx context.Context, db *storage.DB, c cache.Cache, cfg *config.Config, out *model.Rollup) (string, error) {
	doc := map[string]any{
		"puuid":              out.PUUID,
		"total_matches":      out.TotalMatches,
		"most_weighted_role": out.MostWeightedRole,
		"role_share":         out.RoleShare,
		"groups":             groupSummaries(out.Groups),
	}

	main := &out.Groups[0]
	cohortStats, err := cohort.NewBuilder(db, c, cfg).Build(ctx, cohort.Spec{
		Champion: main.Champion,
		Role:     main.Role,
	})
	if err != nil {
		return "", fmt.Errorf("build cohort: %w", err)
	}
	doc["cohort"] = cohortStats
	doc["score"] = score.Score(main, cohortStats)

	catalog, err := badge.LoadCatalog()
	if err != nil {
		return "", err
	}
	doc["badges"] = badge.NewClassifier(catalog).Classify(main, cohortStats)

	b, err := json.Marshal(doc)
	return string(b), err
}

func groupSummaries(groups []model.RollupGroup) []map[string]any {
	out := make([]map[string]any, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		out = append(out, map[string]any{
			"champion":       g.Champion,
			"role":           g.Role,
			"matches":        g.Matches,
			"win_rate":       g.WinRate,
			"kda":            g.AvgKDA,
			"cs_per_min":     g.CSPerMin,
			"gold_per_min":   g.GoldPerMin,
			"damage_per_min": g.DamagePerMin,
			"gold_at10":      g.AvgGoldAt10,
			"gold_at10_diff": g.AvgGoldAt10Diff,
			"cs_at10":        g.AvgCSAt10,
			"cs_at10_diff":   g.AvgCSAt10Diff,
			"damage_share":   g.AvgDamageShare,
			"objective_part": g.AvgObjectivePart,
			"gank_rate":      g.AvgEarlyGankDeathRate,
		})
	}
	return out
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
