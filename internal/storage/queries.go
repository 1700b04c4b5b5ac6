package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/riftlens/riftlens/internal/champion"
	"github.com/riftlens/riftlens/internal/cohort"
	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/role"
	"github.com/riftlens/riftlens/internal/rollup"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(ctx context.Context, matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores a match document and rebuilds its participant index rows.
// Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(ctx context.Context, m *model.Match) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match %s: %w", m.Metadata.MatchID, err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO matches(match_id, queue_id, game_creation, game_duration, game_version, doc)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Metadata.MatchID, m.Info.QueueID, m.Info.GameCreation,
		m.Info.GameDuration, m.Info.GameVersion, string(doc),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO participants(match_id, puuid, champion, role, team_id, win, queue_id, game_creation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range m.Info.Participants {
		p := &m.Info.Participants[i]
		_, err = stmt.ExecContext(ctx,
			m.Metadata.MatchID, p.PUUID,
			champion.Canonical(p.ChampionName), role.ForParticipant(p).String(),
			p.TeamID, boolInt(p.Win), m.Info.QueueID, m.Info.GameCreation,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InsertTimeline stores a timeline document alongside its match.
func (db *DB) InsertTimeline(ctx context.Context, tl *model.Timeline) error {
	doc, err := json.Marshal(tl)
	if err != nil {
		return fmt.Errorf("marshal timeline %s: %w", tl.Metadata.MatchID, err)
	}
	_, err = db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO timelines(match_id, doc) VALUES (?, ?)",
		tl.Metadata.MatchID, string(doc),
	)
	return err
}

// GetMatch loads one match with its timeline (nil when never ingested).
func (db *DB) GetMatch(ctx context.Context, matchID string) (*model.MatchDoc, error) {
	var raw string
	err := db.conn.QueryRowContext(ctx, "SELECT doc FROM matches WHERE match_id = ?", matchID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: match %s", model.ErrDataUnavailable, matchID)
	}
	if err != nil {
		return nil, err
	}

	var m model.Match
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", matchID, err)
	}
	doc := &model.MatchDoc{Match: &m}

	err = db.conn.QueryRowContext(ctx, "SELECT doc FROM timelines WHERE match_id = ?", matchID).Scan(&raw)
	if err == nil {
		var tl model.Timeline
		if err := json.Unmarshal([]byte(raw), &tl); err != nil {
			return nil, fmt.Errorf("decode timeline %s: %w", matchID, err)
		}
		doc.Timeline = &tl
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return doc, nil
}

// MatchSummary is a lightweight listing row.
type MatchSummary struct {
	MatchID      string
	QueueID      int
	GameCreation int64
	GameDuration int
	GameVersion  string
	HasTimeline  bool
}

// ListMatches returns stored matches, most recent first.
func (db *DB) ListMatches(ctx context.Context, limit int) ([]MatchSummary, error) {
	q := `
		SELECT m.match_id, m.queue_id, m.game_creation, m.game_duration, m.game_version,
		       EXISTS(SELECT 1 FROM timelines t WHERE t.match_id = m.match_id)
		FROM matches m
		ORDER BY m.game_creation DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		var s MatchSummary
		var hasTL int
		if err := rows.Scan(&s.MatchID, &s.QueueID, &s.GameCreation, &s.GameDuration, &s.GameVersion, &hasTL); err != nil {
			return nil, err
		}
		s.HasTimeline = hasTL != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// MatchesByChampionRole returns the documents of matches featuring the
// champion in the role, most recent first. Implements the cohort source.
func (db *DB) MatchesByChampionRole(ctx context.Context, champ string, r model.Role, q cohort.SourceQuery) ([]model.MatchDoc, error) {
	// Inserts canonicalize champion names, but databases written by older
	// builds or external importers may hold alias spellings; match them all.
	variants := champion.Variants(champ)
	ph := make([]string, len(variants))
	args := make([]any, 0, len(variants)+1)
	for i, v := range variants {
		ph[i] = "?"
		args = append(args, v)
	}
	where := []string{fmt.Sprintf("champion IN (%s)", strings.Join(ph, ",")), "role = ?"}
	args = append(args, r.String())
	appendWindow(&where, &args, q.Queues, q.StartMS, q.EndMS)

	ids, err := db.matchIDs(ctx, where, args, q.Limit)
	if err != nil {
		return nil, err
	}
	return db.loadDocs(ctx, ids)
}

// MatchesByPlayer returns a player's match documents, most recent first.
// Implements the rollup source.
func (db *DB) MatchesByPlayer(ctx context.Context, puuid string, q rollup.SourceQuery) ([]model.MatchDoc, error) {
	where := []string{"puuid = ?"}
	args := []any{puuid}
	appendWindow(&where, &args, q.Queues, q.StartMS, q.EndMS)

	ids, err := db.matchIDs(ctx, where, args, q.Limit)
	if err != nil {
		return nil, err
	}
	return db.loadDocs(ctx, ids)
}

func appendWindow(where *[]string, args *[]any, queues []int, startMS, endMS int64) {
	if len(queues) > 0 {
		ph := make([]string, len(queues))
		for i, qid := range queues {
			ph[i] = "?"
			*args = append(*args, qid)
		}
		*where = append(*where, fmt.Sprintf("queue_id IN (%s)", strings.Join(ph, ",")))
	}
	if startMS > 0 {
		*where = append(*where, "game_creation >= ?")
		*args = append(*args, startMS)
	}
	if endMS > 0 {
		*where = append(*where, "game_creation < ?")
		*args = append(*args, endMS)
	}
}

func (db *DB) matchIDs(ctx context.Context, where []string, args []any, limit int) ([]string, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT match_id, game_creation FROM participants
		WHERE %s
		ORDER BY game_creation DESC`, strings.Join(where, " AND "))
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var creation int64
		if err := rows.Scan(&id, &creation); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) loadDocs(ctx context.Context, ids []string) ([]model.MatchDoc, error) {
	docs := make([]model.MatchDoc, 0, len(ids))
	for _, id := range ids {
		doc, err := db.GetMatch(ctx, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// CohortKey identifies a (champion, role) population present in the store.
type CohortKey struct {
	Champion string
	Role     model.Role
	Games    int
}

// CohortKeys lists every (champion, role) pair in the participant index with
// its row count, biggest first. Used to precompute cohort distributions.
func (db *DB) CohortKeys(ctx context.Context) ([]CohortKey, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT champion, role, COUNT(1)
		FROM participants
		WHERE role != 'UNKNOWN'
		GROUP BY champion, role
		ORDER BY COUNT(1) DESC, champion, role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CohortKey
	for rows.Next() {
		var k CohortKey
		var r string
		if err := rows.Scan(&k.Champion, &r, &k.Games); err != nil {
			return nil, err
		}
		k.Role = model.Role(r)
		out = append(out, k)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
