package model

import "errors"

// Sentinel errors for the engine's failure taxonomy.
var (
	// ErrDataUnavailable means the base Match record for a required id could
	// not be found (a missing timeline is NOT this error; timeline-derived
	// metrics simply come back null).
	ErrDataUnavailable = errors.New("match data unavailable")

	// ErrInvalidParameter means a request failed validation before any
	// data-source query was issued.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Role is the canonical 5-role taxonomy (plus UNKNOWN for unmatched labels).
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleUtility Role = "UTILITY"
	RoleUnknown Role = "UNKNOWN"
)

// Roles lists the canonical roles in map order, UNKNOWN excluded.
var Roles = []Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleUtility}

func (r Role) String() string { return string(r) }

// ---- Raw match/timeline documents (Riot Match-V5 shapes) ----

// Match is one completed game. Immutable once ingested.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation int64         `json:"gameCreation"` // ms epoch
	GameDuration int           `json:"gameDuration"` // seconds
	GameVersion  string        `json:"gameVersion"`
	QueueID      int           `json:"queueId"`
	Participants []Participant `json:"participants"`
}

// Participant is a player's per-game record embedded in a Match.
type Participant struct {
	ParticipantID int    `json:"participantId"` // 1..10
	PUUID         string `json:"puuid"`
	TeamID        int    `json:"teamId"` // 100 or 200
	ChampionName  string `json:"championName"`

	// Raw, pre-normalization position labels.
	TeamPosition string `json:"teamPosition"`
	Lane         string `json:"lane"`
	Role         string `json:"role"`

	Win     bool `json:"win"`
	Kills   int  `json:"kills"`
	Deaths  int  `json:"deaths"`
	Assists int  `json:"assists"`

	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`

	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	PhysicalDamageDealtToChamps int `json:"physicalDamageDealtToChampions"`
	MagicDamageDealtToChamps    int `json:"magicDamageDealtToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`

	VisionScore      int    `json:"visionScore"`
	WardsPlaced      int    `json:"wardsPlaced"`
	WardsKilled      int    `json:"wardsKilled"`
	DoubleKills      int    `json:"doubleKills"`
	TripleKills      int    `json:"tripleKills"`
	QuadraKills      int    `json:"quadraKills"`
	PentaKills       int    `json:"pentaKills"`
	TurretTakedowns  int    `json:"turretTakedowns"`
	DragonTakedowns  int    `json:"dragonTakedowns"`
	BaronTakedowns   int    `json:"baronTakedowns"`
	ObjectivesStolen int    `json:"objectivesStolen"`
	LongestTimeAlive int    `json:"longestTimeSpentLiving"`
	TimeCCingOthers  int    `json:"timeCCingOthers"`
	ChampLevel       int    `json:"champLevel"`
	SummonerName     string `json:"summonerName"`
	RiotIDGameName   string `json:"riotIdGameName"`
	RiotIDTagline    string `json:"riotIdTagline"`
}

// CS returns lane minions plus jungle monsters killed.
func (p *Participant) CS() int {
	return p.TotalMinionsKilled + p.NeutralMinionsKilled
}

// Timeline is the per-match minute-indexed frame sequence. Frame index i is
// approximately game-minute i, but event timestamps (ms) are authoritative
// for any time-windowed filter.
type Timeline struct {
	Metadata TimelineMetadata `json:"metadata"`
	Info     TimelineInfo     `json:"info"`
}

type TimelineMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type TimelineInfo struct {
	FrameInterval int     `json:"frameInterval"` // ms, nominally 60000
	Frames        []Frame `json:"frames"`
}

type Frame struct {
	Timestamp         int                         `json:"timestamp"` // ms
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
	Events            []TimelineEvent             `json:"events"`
}

type ParticipantFrame struct {
	ParticipantID       int      `json:"participantId"`
	TotalGold           int      `json:"totalGold"`
	XP                  int      `json:"xp"`
	Level               int      `json:"level"`
	MinionsKilled       int      `json:"minionsKilled"`
	JungleMinionsKilled int      `json:"jungleMinionsKilled"`
	Position            Position `json:"position"`
}

// Position is a Summoner's Rift world coordinate (roughly 0..14870 on both axes).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TimelineEvent is a typed event. Fields are type-specific; unused ones are
// zero-valued.
type TimelineEvent struct {
	Type      string `json:"type"`
	Timestamp int    `json:"timestamp"` // ms

	ParticipantID           int      `json:"participantId,omitempty"`
	KillerID                int      `json:"killerId,omitempty"`
	VictimID                int      `json:"victimId,omitempty"`
	AssistingParticipantIDs []int    `json:"assistingParticipantIds,omitempty"`
	KillerTeamID            int      `json:"killerTeamId,omitempty"`
	TeamID                  int      `json:"teamId,omitempty"`
	MonsterType             string   `json:"monsterType,omitempty"`
	BuildingType            string   `json:"buildingType,omitempty"`
	TowerType               string   `json:"towerType,omitempty"`
	LaneType                string   `json:"laneType,omitempty"`
	ItemID                  int      `json:"itemId,omitempty"`
	Position                Position `json:"position,omitempty"`
}

// Timeline event types this engine cares about.
const (
	EventChampionKill         = "CHAMPION_KILL"
	EventEliteMonsterKill     = "ELITE_MONSTER_KILL"
	EventBuildingKill         = "BUILDING_KILL"
	EventWardKill             = "WARD_KILL"
	EventTurretPlateDestroyed = "TURRET_PLATE_DESTROYED"
)

// MatchDoc pairs a match with its timeline as returned by the data source.
// Timeline is nil when the source never ingested one for this match.
type MatchDoc struct {
	Match    *Match
	Timeline *Timeline
}

// ---- Derived metric rows ----

// MetricRow is the derived, flattened record for a single participant in a
// single match. Recomputed from source documents on every query; it has no
// identity or persistence of its own.
//
// Nullable fields are *float64: null means "not derivable for this match"
// (game too short, timeline missing, zero denominator) and MUST be skipped,
// never coerced to 0, by every averaging step downstream.
//
// All rates and shares are 0–1 proportions internally; conversion to
// percentages happens only at presentation boundaries.
type MetricRow struct {
	MatchID      string
	PUUID        string
	Champion     string
	Role         Role
	QueueID      int
	GameCreation int64
	DurationSec  int
	TeamID       int
	Win          bool
	HasTimeline  bool

	// Match-level counters, available even without a timeline.
	Kills, Deaths, Assists int
	CS                     int
	GoldEarned             int
	DamageDealt            int
	DamageTaken            int
	VisionScore            int
	DoubleKills            int
	TripleKills            int
	QuadraKills            int
	PentaKills             int

	// Per-minute rates over floored duration (min 1 minute).
	KillsPerMin       float64
	DeathsPerMin      float64
	AssistsPerMin     float64
	KAPerMin          float64 // (kills+assists)/min
	CSPerMin          float64
	GoldPerMin        float64
	DamagePerMin      float64
	DamageTakenPerMin float64
	VisionPerMin      float64

	// Minute-N snapshots; null when the game never reached minute N or the
	// timeline is missing.
	GoldAt10, GoldAt15, GoldAt20, GoldAt30 *float64
	CSAt10, CSAt15, CSAt20, CSAt30         *float64
	XPAt10, XPAt15                         *float64

	// Early-window event counters (event timestamps, not frame indices).
	EarlyKills     *float64
	EarlyDeaths    *float64
	EarlySoloKills *float64
	EarlyWardKills *float64

	// EarlyGankDeathRate is the fraction of the participant's early deaths
	// classified as gank-assisted. Null for JUNGLE participants, when the
	// timeline is missing, or when there were no early deaths.
	EarlyGankDeathRate *float64

	// Objective participation per category: involvement / team takes.
	// Null when the team took zero of that category.
	DragonPart   *float64
	HeraldPart   *float64
	BaronPart    *float64
	VoidgrubPart *float64
	AtakhanPart  *float64
	TowerPart    *float64
	PlatePart    *float64

	// Team-relative shares; null when the team total is zero.
	DamageShare      *float64
	DamageTakenShare *float64

	// Diffs vs the direct lane opponent (same normalized role, opposite
	// team). Null when no unique opponent exists or the snapshot is null on
	// either side.
	GoldAt10Diff *float64
	CSAt10Diff   *float64
	GoldAt15Diff *float64
	CSAt15Diff   *float64
	XPAt10Diff   *float64
	KillsDiff    *float64
	DeathsDiff   *float64
	DamageDiff   *float64
	VisionDiff   *float64
}

// KDA returns (kills+assists)/deaths, with the usual deathless convention.
func (r *MetricRow) KDA() float64 {
	if r.Deaths == 0 {
		return float64(r.Kills + r.Assists)
	}
	return float64(r.Kills+r.Assists) / float64(r.Deaths)
}

// Minutes returns the floored duration in minutes used for rate normalization.
// A 10-second remake and a 70-second remake both floor to 1 minute.
func (r *MetricRow) Minutes() float64 {
	m := float64(r.DurationSec) / 60.0
	if m < 1 {
		return 1
	}
	return m
}

// ---- Percentile distributions ----

// Distribution is the {p50,p75,p90,p95} summary of one metric's spread.
type Distribution struct {
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// CohortStats is the percentile output for one (champion, role, window,
// winsOnly, sampleSize) cohort. SampleSize is the number of rows actually
// used; callers must treat small samples as low-confidence rather than
// expecting an error.
type CohortStats struct {
	Champion   string                  `json:"champion"`
	Role       Role                    `json:"role"`
	SampleSize int                     `json:"sampleSize"`
	WinsOnly   bool                    `json:"winsOnly"`
	Metrics    map[string]Distribution `json:"metrics"`
}

// MinReliableSample is the row count below which cohort percentiles are
// statistically unreliable. Not enforced as an error; the scorer's volume
// adjustment and the SampleSize field carry the signal.
const MinReliableSample = 5

// ---- Player rollups ----

// RollupGroup is a player's matches for one (champion, role) pair folded into
// averages. Avg* pointers are null when no match in the group produced the
// underlying metric.
type RollupGroup struct {
	PUUID    string
	Champion string
	Role     Role

	Matches int
	Wins    int

	// Always-present averages.
	WinRate           float64
	AvgKills          float64
	AvgDeaths         float64
	AvgAssists        float64
	AvgKDA            float64
	KillsPerMin       float64
	DeathsPerMin      float64
	AssistsPerMin     float64
	KAPerMin          float64
	CSPerMin          float64
	GoldPerMin        float64
	DamagePerMin      float64
	DamageTakenPerMin float64
	VisionPerMin      float64

	// Null-skipping averages of nullable row metrics.
	AvgGoldAt10, AvgGoldAt15, AvgGoldAt20, AvgGoldAt30 *float64
	AvgCSAt10, AvgCSAt15, AvgCSAt20, AvgCSAt30         *float64

	AvgEarlyDeaths        *float64
	AvgEarlySoloKills     *float64
	AvgEarlyWardKills     *float64
	AvgEarlyGankDeathRate *float64
	AvgDragonPart         *float64
	AvgHeraldPart         *float64
	AvgBaronPart          *float64
	AvgVoidgrubPart       *float64
	AvgAtakhanPart        *float64
	AvgTowerPart          *float64
	AvgPlatePart          *float64
	AvgObjectivePart      *float64 // mean of the non-null per-category rates
	AvgDamageShare        *float64
	AvgDamageTakenShare   *float64

	// Opponent diffs, null-skipping.
	AvgGoldAt10Diff *float64
	AvgCSAt10Diff   *float64
	AvgGoldAt15Diff *float64
	AvgCSAt15Diff   *float64
	AvgXPAt10Diff   *float64
	AvgKillsDiff    *float64
	AvgDeathsDiff   *float64
	AvgDamageDiff   *float64
	AvgVisionDiff   *float64

	// Self percentile distribution over the player's own matches, for
	// consistency-style badges.
	Self map[string]Distribution
}

// Rollup is the full aggregator output for one player.
type Rollup struct {
	PUUID  string
	Groups []RollupGroup

	// RoleShare maps canonical role → fraction of total games (0–1 proportion).
	RoleShare map[Role]float64

	// MostWeightedRole is the role with the largest fraction of games.
	// Ties break toward more total games, then alphabetically.
	MostWeightedRole Role

	TotalMatches int
}
