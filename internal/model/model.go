package model

import (
	"math"
	"time"
)

// Half identifies which side of an inning is being played.
type Half string

const (
	HalfTop    Half = "Top"
	HalfBottom Half = "Bot"
)

// Missing marks an absent numeric value. It propagates through arithmetic.
var Missing = math.NaN()

// IsMissing reports whether v carries the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// DateLayout is the game_date format used by statcast and the persisted tables.
const DateLayout = "2006-01-02"

// ---- Raw events from the statcast feed ----

// PitchEvent is one statcast row. Event is empty unless the pitch ends a plate appearance.
type PitchEvent struct {
	GamePK   int64
	GameDate string
	Inning   int
	Half     Half

	BatterID   int64
	PitcherID  int64
	PlayerName string // pitcher name in pitcher-view statcast exports
	HomeTeam   string
	AwayTeam   string
	PThrows    string

	LaunchSpeed   float64 // mph, Missing if not tracked
	LaunchAngle   float64 // degrees, Missing if not tracked
	EstimatedWOBA float64
	EstimatedBA   float64

	Event string

	HomeScore   float64
	AwayScore   float64
	DeltaRunExp float64
}

// LabeledEvent is a first-inning, plate-appearance-terminal event with its derived fields.
type LabeledEvent struct {
	PitchEvent
	Outcome      Outcome
	Barrel       float64 // 1, 0 or Missing
	FieldingTeam string
}

// ---- Aggregated records ----

// HalfInningRecord summarizes one (game, half) first inning.
type HalfInningRecord struct {
	GamePK       int64
	Half         Half
	GameDate     string
	PlayerName   string
	PitcherID    int64
	HomeTeam     string
	AwayTeam     string
	PThrows      string
	FieldingTeam string
	HittingTeam  string

	LaunchSpeed   float64
	EstimatedWOBA float64
	EstimatedBA   float64
	HomeScore     float64
	AwayScore     float64
	HittingRuns   float64
	DeltaRunExp   float64
	Barrel        float64

	Counts OutcomeCounts

	// Derived.
	Hits        int
	Outs        int
	Walks       int
	XBH         int
	AVG         float64
	SLG         float64
	OBP         float64
	OPS         float64
	WHIP        float64
	ERA         float64
	GamesPlayed int
	HR9         float64
}

// Count returns the number of events in the record with the given outcome.
func (r *HalfInningRecord) Count(o Outcome) int {
	return r.Counts.Get(o)
}

// Date parses GameDate. The zero time is returned for unparseable dates.
func (r *HalfInningRecord) Date() time.Time {
	t, err := time.Parse(DateLayout, r.GameDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PlayerSummary holds a pitcher's first-inning statistics across every stored half-inning.
type PlayerSummary struct {
	PlayerName          string
	GamesPlayed         int
	FirstInningsPitched int
	Strikeouts          int
	Walks               int
	ERA                 float64
	WHIP                float64
	HomeRunsAllowed     int
	HitsAllowed         int
	RunsAllowed         int
	NRFIRecord          string  // "wins-losses"
	NRFIStreak          int
	StrikeoutRate       float64 // K%
	WalkRate            float64 // BB%
	BAA                 float64
	OBP                 float64
	SLG                 float64
	OPS                 float64
	NRFIRating          int
}

// ZeroSummary is the summary reported for a pitcher with no stored half-innings.
func ZeroSummary(name string) PlayerSummary {
	return PlayerSummary{
		PlayerName: name,
		NRFIRecord: "0-0",
	}
}

// IngestRun records one aggregate or fetch invocation.
type IngestRun struct {
	ID                 string
	Source             string
	StartDate          string
	EndDate            string
	EventsRead         int
	EventsKept         int
	HalfInningsWritten int
	CreatedAt          time.Time
}
