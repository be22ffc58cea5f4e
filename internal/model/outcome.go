package model

// OutcomeVersion is bumped whenever the Outcome enumeration changes, since the persisted
// column set follows it.
const OutcomeVersion = 1

// Outcome is a plate-appearance result counted per half-inning.
type Outcome int

const (
	Strikeout Outcome = iota
	GroundedIntoDoublePlay
	Single
	Double
	Triple
	HomeRun
	Walk
	FieldOut
	FieldersChoiceOut
	HitByPitch
	SacFly
	FieldError
	CaughtStealing2B
	CatcherInterference
	FieldersChoice
	DoublePlay
	SacBunt
	CaughtStealingHome
	CaughtStealing3B
	OtherOut // remainder bucket for any label not listed above

	numOutcomes
)

// Outcomes lists every counted outcome in persisted column order.
var Outcomes = func() []Outcome {
	out := make([]Outcome, numOutcomes)
	for i := range out {
		out[i] = Outcome(i)
	}
	return out
}()

var outcomeLabels = [numOutcomes]string{
	Strikeout:              "strikeout",
	GroundedIntoDoublePlay: "grounded_into_double_play",
	Single:                 "single",
	Double:                 "double",
	Triple:                 "triple",
	HomeRun:                "home_run",
	Walk:                   "walk",
	FieldOut:               "field_out",
	FieldersChoiceOut:      "fielders_choice_out",
	HitByPitch:             "hit_by_pitch",
	SacFly:                 "sac_fly",
	FieldError:             "field_error",
	CaughtStealing2B:       "caught_stealing_2b",
	CatcherInterference:    "catcher_interf",
	FieldersChoice:         "fielders_choice",
	DoublePlay:             "double_play",
	SacBunt:                "sac_bunt",
	CaughtStealingHome:     "caught_stealing_home",
	CaughtStealing3B:       "caught_stealing_3b",
	OtherOut:               "other_out",
}

var outcomeByLabel = func() map[string]Outcome {
	m := make(map[string]Outcome, numOutcomes)
	for i, label := range outcomeLabels {
		m[label] = Outcome(i)
	}
	return m
}()

// String returns the statcast event label, which doubles as the column name.
func (o Outcome) String() string {
	if o < 0 || o >= numOutcomes {
		return outcomeLabels[OtherOut]
	}
	return outcomeLabels[o]
}

// ParseOutcome maps a statcast event label to its Outcome. The second return value is false
// when the label is not enumerated and was folded into OtherOut.
func ParseOutcome(label string) (Outcome, bool) {
	o, ok := outcomeByLabel[label]
	if !ok {
		return OtherOut, false
	}
	return o, true
}

// OutcomeCounts holds one counter per Outcome. The zero value counts nothing.
type OutcomeCounts [numOutcomes]int

// Get returns the count for o.
func (c *OutcomeCounts) Get(o Outcome) int {
	if o < 0 || o >= numOutcomes {
		return 0
	}
	return c[o]
}

// Add increments the count for o by n.
func (c *OutcomeCounts) Add(o Outcome, n int) {
	if o < 0 || o >= numOutcomes {
		o = OtherOut
	}
	c[o] += n
}
