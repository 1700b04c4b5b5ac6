// Package report renders rollups, cohort distributions, scores, and badges as
// terminal tables. Proportions become percentages here and nowhere earlier.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/riftlens/riftlens/internal/badge"
	"github.com/riftlens/riftlens/internal/metrics"
	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/score"
	"github.com/riftlens/riftlens/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// null placeholder for metrics that could not be derived.
const na = "—"

func f1(v float64) string  { return fmt.Sprintf("%.1f", v) }
func f2(v float64) string  { return fmt.Sprintf("%.2f", v) }
func pct(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }

func pf1(p *float64) string {
	if p == nil {
		return na
	}
	return f1(*p)
}

func ppct(p *float64) string {
	if p == nil {
		return na
	}
	return pct(*p)
}

// PrintMatchList writes the stored-match listing.
func PrintMatchList(w io.Writer, list []storage.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "QUEUE", "DATE", "LENGTH", "PATCH", "TIMELINE")
	for _, s := range list {
		tl := " "
		if s.HasTimeline {
			tl = "yes"
		}
		table.Append(
			s.MatchID,
			strconv.Itoa(s.QueueID),
			time.UnixMilli(s.GameCreation).UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d:%02d", s.GameDuration/60, s.GameDuration%60),
			s.GameVersion,
			tl,
		)
	}
	table.Render()
}

// PrintMatchRows writes the derived per-participant metrics of one match.
// The focus PUUID's row, if any, is marked with ">".
func PrintMatchRows(w io.Writer, m *model.Match, rows []model.MetricRow, focusPUUID string) {
	fmt.Fprintf(w, "\nMatch: %s  |  Queue: %d  |  Length: %d:%02d  |  Patch: %s\n\n",
		m.Metadata.MatchID, m.Info.QueueID,
		m.Info.GameDuration/60, m.Info.GameDuration%60, m.Info.GameVersion)

	table := newTable(w)
	table.Header(" ", "CHAMPION", "ROLE", "WIN", "K", "D", "A", "KDA", "CS/M", "GOLD/M", "DMG/M",
		"GOLD@10", "G@10 DIFF", "DMG%", "OBJ%", "GANK%")
	for i := range rows {
		r := &rows[i]
		marker := " "
		if focusPUUID != "" && r.PUUID == focusPUUID {
			marker = ">"
		}
		win := " "
		if r.Win {
			win = "W"
		}
		table.Append(
			marker,
			r.Champion,
			r.Role.String(),
			win,
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Assists),
			f2(r.KDA()),
			f1(r.CSPerMin),
			f1(r.GoldPerMin),
			f1(r.DamagePerMin),
			pf1(r.GoldAt10),
			pf1(r.GoldAt10Diff),
			ppct(r.DamageShare),
			objPct(r),
			ppct(r.EarlyGankDeathRate),
		)
	}
	table.Render()
}

func objPct(r *model.MetricRow) string {
	if v, ok := metrics.RowValue(r, metrics.ObjectivePart); ok {
		return pct(v)
	}
	return na
}

// PrintRollup writes a player's per-(champion, role) groups.
func PrintRollup(w io.Writer, r *model.Rollup) {
	fmt.Fprintf(w, "\nPlayer: %s  |  Matches: %d  |  Main role: %s\n\n",
		r.PUUID, r.TotalMatches, r.MostWeightedRole)

	table := newTable(w)
	table.Header("CHAMPION", "ROLE", "GAMES", "WIN%", "KDA", "CS/M", "GOLD/M", "DMG/M", "VS/M",
		"GOLD@10", "CS@10", "G@10 DIFF", "DMG%", "OBJ%", "GANK%")
	for _, g := range r.Groups {
		table.Append(
			g.Champion,
			g.Role.String(),
			strconv.Itoa(g.Matches),
			pct(g.WinRate),
			f2(g.AvgKDA),
			f1(g.CSPerMin),
			f1(g.GoldPerMin),
			f1(g.DamagePerMin),
			f2(g.VisionPerMin),
			pf1(g.AvgGoldAt10),
			pf1(g.AvgCSAt10),
			pf1(g.AvgGoldAt10Diff),
			ppct(g.AvgDamageShare),
			ppct(g.AvgObjectivePart),
			ppct(g.AvgEarlyGankDeathRate),
		)
	}
	table.Render()

	if len(r.RoleShare) > 0 {
		fmt.Fprintln(w)
		roles := newTable(w)
		roles.Header("ROLE", "SHARE")
		for _, role := range model.Roles {
			if share, ok := r.RoleShare[role]; ok {
				roles.Append(role.String(), pct(share))
			}
		}
		roles.Render()
	}
}

// PrintCohort writes one cohort's percentile distributions in metric order.
func PrintCohort(w io.Writer, c *model.CohortStats) {
	wins := ""
	if c.WinsOnly {
		wins = "  |  wins only"
	}
	fmt.Fprintf(w, "\nCohort: %s %s  |  Sample: %d%s\n", c.Champion, c.Role, c.SampleSize, wins)
	if c.SampleSize < model.MinReliableSample {
		fmt.Fprintf(w, "WARNING: fewer than %d rows, percentiles are unreliable\n", model.MinReliableSample)
	}
	fmt.Fprintln(w)

	table := newTable(w)
	table.Header("METRIC", "P50", "P75", "P90", "P95")
	names := append([]string{metrics.WinRate}, metrics.RowNames...)
	for _, name := range names {
		d, ok := c.Metrics[name]
		if !ok {
			table.Append(name, na, na, na, na)
			continue
		}
		table.Append(name, f2(d.P50), f2(d.P75), f2(d.P90), f2(d.P95))
	}
	table.Render()
}

// PrintScore writes the score total and its contribution breakdown.
func PrintScore(w io.Writer, res *score.Result) {
	fmt.Fprintf(w, "\n%s %s  |  Games: %d  |  Score: %d/100\n\n",
		res.Champion, res.Role, res.Matches, res.Total)

	table := newTable(w)
	table.Header("METRIC", "GROUP", "VALUE", "BUCKET", "WEIGHT", "POINTS")
	for _, c := range res.Contributions {
		if c.Skipped {
			table.Append(c.Metric, string(c.Group), na, na, na, "0.0")
			continue
		}
		table.Append(
			c.Metric,
			string(c.Group),
			f2(c.Value),
			f1(c.Raw),
			f2(c.Weight),
			f1(c.Weighted),
		)
	}
	table.Append("volume", "general", strconv.Itoa(res.Matches), na, na, f1(res.Volume))
	table.Render()
}

// PrintBadges writes earned badges with their evidence, strongest first.
func PrintBadges(w io.Writer, awards []badge.Award) {
	if len(awards) == 0 {
		fmt.Fprintln(w, "\nNo badges earned.")
		return
	}
	sorted := make([]badge.Award, len(awards))
	copy(sorted, awards)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Strength > sorted[j].Strength })

	fmt.Fprintln(w)
	for _, a := range sorted {
		fmt.Fprintf(w, "[%s] %s\n", a.Name, a.Description)
		for _, reason := range a.Reasons {
			fmt.Fprintf(w, "    %s\n", reason)
		}
	}
}
