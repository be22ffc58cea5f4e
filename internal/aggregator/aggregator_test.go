package aggregator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/nrfi-metrics/internal/model"
)

// makeEvent creates a first-inning plate-appearance-ending event with untracked batted ball data.
func makeEvent(gamePK int64, half model.Half, event string) model.PitchEvent {
	return model.PitchEvent{
		GamePK:        gamePK,
		GameDate:      "2024-04-01",
		Inning:        1,
		Half:          half,
		PitcherID:     605483,
		PlayerName:    "Snell, Blake",
		HomeTeam:      "SF",
		AwayTeam:      "LAD",
		PThrows:       "L",
		LaunchSpeed:   model.Missing,
		LaunchAngle:   model.Missing,
		EstimatedWOBA: model.Missing,
		EstimatedBA:   model.Missing,
		Event:         event,
		DeltaRunExp:   model.Missing,
	}
}

// batted sets launch speed and angle on an event.
func batted(e model.PitchEvent, speed, angle float64) model.PitchEvent {
	e.LaunchSpeed = speed
	e.LaunchAngle = angle
	return e
}

// sinkRecorder is a Sink that keeps every batch it receives.
type sinkRecorder struct {
	batches [][]model.HalfInningRecord
	err     error
}

func (s *sinkRecorder) WriteHalfInnings(records []model.HalfInningRecord) error {
	s.batches = append(s.batches, records)
	return s.err
}

// withReducer swaps one column's reducer for the duration of a test.
func withReducer(t *testing.T, column string, r Reducer) {
	t.Helper()
	old, ok := Reducers[column]
	require.True(t, ok, "no reducer for %s", column)
	Reducers[column] = r
	t.Cleanup(func() { Reducers[column] = old })
}

// ---- Filter ----

func TestFilter_KeepsFirstInningTerminalEvents(t *testing.T) {
	second := makeEvent(1, model.HalfTop, "single")
	second.Inning = 2
	midPA := makeEvent(1, model.HalfTop, "")

	out := Filter([]model.PitchEvent{
		makeEvent(1, model.HalfTop, "strikeout"),
		second,
		midPA,
		makeEvent(1, model.HalfBottom, "walk"),
	})

	require.Len(t, out, 2)
	assert.Equal(t, model.Strikeout, out[0].Outcome)
	assert.Equal(t, model.Walk, out[1].Outcome)
}

func TestFilter_FieldingTeam(t *testing.T) {
	out := Filter([]model.PitchEvent{
		makeEvent(1, model.HalfTop, "strikeout"),
		makeEvent(1, model.HalfBottom, "strikeout"),
	})
	require.Len(t, out, 2)
	assert.Equal(t, "SF", out[0].FieldingTeam, "top half: home team fields")
	assert.Equal(t, "LAD", out[1].FieldingTeam, "bottom half: away team fields")
}

func TestBarrel_Boundaries(t *testing.T) {
	cases := []struct {
		name         string
		speed, angle float64
		want         float64
	}{
		{"speed exactly 98.0", 98.0, 28, 0},
		{"just over speed", 98.1, 28, 1},
		{"angle lower bound inclusive", 105, 25.9, 1},
		{"angle upper bound inclusive", 105, 30.1, 1},
		{"angle below range", 105, 25.8, 0},
		{"angle above range", 105, 30.2, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, barrel(tc.speed, tc.angle), tc.name)
	}

	assert.True(t, model.IsMissing(barrel(model.Missing, 28)), "missing speed")
	assert.True(t, model.IsMissing(barrel(105, model.Missing)), "missing angle")
}

// ---- Grouping ----

func TestGroup_OneRecordPerHalf(t *testing.T) {
	events := []model.PitchEvent{
		makeEvent(10, model.HalfTop, "strikeout"),
		makeEvent(10, model.HalfTop, "single"),
		makeEvent(10, model.HalfBottom, "field_out"),
		makeEvent(11, model.HalfTop, "home_run"),
	}
	records, res := Build(events)

	require.Len(t, records, 3)
	assert.Equal(t, 4, res.EventsRead)
	assert.Equal(t, 4, res.EventsKept)

	seen := make(map[string]bool)
	for _, r := range records {
		key := fmt.Sprintf("%d/%s", r.GamePK, r.Half)
		assert.False(t, seen[key], "duplicate record for %s", key)
		seen[key] = true
	}
}

func TestGroup_HittingSideIsComplementOfFielding(t *testing.T) {
	top := makeEvent(10, model.HalfTop, "single")
	top2 := makeEvent(10, model.HalfTop, "home_run")
	top2.HomeScore, top2.AwayScore = 0, 1

	bot := makeEvent(10, model.HalfBottom, "strikeout")
	bot.HomeScore, bot.AwayScore = 3, 2

	records, _ := Build([]model.PitchEvent{top, top2, bot})
	require.Len(t, records, 2)
	for _, r := range records {
		switch r.Half {
		case model.HalfTop:
			assert.Equal(t, "SF", r.FieldingTeam)
			assert.Equal(t, "LAD", r.HittingTeam)
			assert.Equal(t, 1.0, r.HittingRuns, "max away score")
		case model.HalfBottom:
			assert.Equal(t, "LAD", r.FieldingTeam)
			assert.Equal(t, "SF", r.HittingTeam)
			assert.Equal(t, 3.0, r.HittingRuns, "max home score")
		}
	}
}

func TestGroup_UnknownLabelCountsAsOtherOut(t *testing.T) {
	records, res := Build([]model.PitchEvent{
		makeEvent(1, model.HalfTop, "foo"),
		makeEvent(1, model.HalfTop, "strikeout"),
	})
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Count(model.OtherOut))
	assert.Equal(t, 1, res.UnknownLabels["foo"])
}

func TestGroup_UnobservedOutcomeIsZero(t *testing.T) {
	records, _ := Build([]model.PitchEvent{makeEvent(1, model.HalfTop, "walk")})
	require.Len(t, records, 1)
	for _, o := range model.Outcomes {
		want := 0
		if o == model.Walk {
			want = 1
		}
		assert.Equal(t, want, records[0].Count(o), o.String())
	}
}

// Summed per-record counts must equal the number of filtered events carrying each label.
func TestGroup_CountsMatchFilteredEvents(t *testing.T) {
	labels := []string{"single", "strikeout", "walk", "field_out", "double", "strikeout", "home_run", "force_out"}
	var events []model.PitchEvent
	for g := int64(1); g <= 4; g++ {
		for i, l := range labels {
			half := model.HalfTop
			if i%2 == 1 {
				half = model.HalfBottom
			}
			events = append(events, makeEvent(g, half, l))
		}
	}

	records, _ := Build(events)
	want := make(map[model.Outcome]int)
	for _, e := range Filter(events) {
		want[e.Outcome]++
	}
	for _, o := range model.Outcomes {
		got := 0
		for _, r := range records {
			got += r.Count(o)
		}
		assert.Equal(t, want[o], got, o.String())
	}
}

func TestGroup_MeansSkipMissing(t *testing.T) {
	records, _ := Build([]model.PitchEvent{
		batted(makeEvent(1, model.HalfTop, "double"), 100, 28),
		batted(makeEvent(1, model.HalfTop, "field_out"), 90, 10),
		makeEvent(1, model.HalfTop, "strikeout"),
	})
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, 95.0, r.LaunchSpeed)
	assert.Equal(t, 0.5, r.Barrel)
	assert.True(t, model.IsMissing(r.EstimatedWOBA), "xwOBA with every value missing")
	assert.Equal(t, 0.0, r.DeltaRunExp, "summed run value with every value missing")
}

func TestGroup_TextColumnsFirstNonEmpty(t *testing.T) {
	first := makeEvent(1, model.HalfTop, "single")
	first.PThrows = ""
	second := makeEvent(1, model.HalfTop, "strikeout")
	second.PThrows = "R"
	third := makeEvent(1, model.HalfTop, "walk")
	third.PThrows = "L"

	records, _ := Build([]model.PitchEvent{first, second, third})
	require.Len(t, records, 1)
	assert.Equal(t, "R", records[0].PThrows)
}

func TestGroup_TextColumnsFollowReducers(t *testing.T) {
	a := makeEvent(1, model.HalfTop, "single")
	a.PlayerName = "Bello, Brayan"
	b := makeEvent(1, model.HalfTop, "strikeout")
	b.PlayerName = "Whitlock, Garrett"

	withReducer(t, "player_name", Max)
	records, _ := Build([]model.PitchEvent{a, b})
	require.Len(t, records, 1)
	assert.Equal(t, "Whitlock, Garrett", records[0].PlayerName)

	withReducer(t, "player_name", Mean)
	records, _ = Build([]model.PitchEvent{a, b})
	require.Len(t, records, 1)
	assert.Empty(t, records[0].PlayerName, "mean does not apply to text")
}

func TestReduceText(t *testing.T) {
	vals := []string{"", "2024-04-02", "2024-04-09", "2024-04-01"}
	assert.Equal(t, "2024-04-02", reduceText(First, vals))
	assert.Equal(t, "2024-04-09", reduceText(Max, vals))
	assert.Empty(t, reduceText(Sum, vals))
	assert.Empty(t, reduceText(First, []string{"", ""}))
}

func TestGroup_SortedByDate(t *testing.T) {
	late := makeEvent(1, model.HalfTop, "single")
	late.GameDate = "2024-05-10"
	early := makeEvent(2, model.HalfTop, "single")
	early.GameDate = "2024-04-02"

	records, _ := Build([]model.PitchEvent{late, early})
	require.Len(t, records, 2)
	assert.Equal(t, "2024-04-02", records[0].GameDate)
	assert.Equal(t, "2024-05-10", records[1].GameDate)
}

func TestReducers_CoverEveryColumn(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range textColumns {
		names[c.name] = true
		assert.Contains(t, []Reducer{First, Max}, Reducers[c.name], "text column %s", c.name)
	}
	for _, c := range numericColumns {
		names[c.name] = true
		assert.Contains(t, Reducers, c.name, "numeric column %s has no reducer", c.name)
	}
	for _, o := range model.Outcomes {
		names[o.String()] = true
		assert.Equal(t, Count, Reducers[o.String()], "outcome %s", o)
	}
	for name := range Reducers {
		assert.True(t, names[name], "reducer %s has no column", name)
	}
}

// ---- Derived metrics ----

func TestDerive_ZeroDenominatorIsMissing(t *testing.T) {
	records, _ := Build([]model.PitchEvent{
		makeEvent(1, model.HalfTop, "sac_fly"),
		makeEvent(1, model.HalfTop, "caught_stealing_2b"),
	})
	require.Len(t, records, 1)
	r := records[0]
	require.Zero(t, r.Hits+r.Outs)

	assert.True(t, model.IsMissing(r.AVG), "avg")
	assert.True(t, model.IsMissing(r.SLG), "slg")
	assert.True(t, model.IsMissing(r.OBP), "obp")
	assert.True(t, model.IsMissing(r.OPS), "ops")
	assert.Zero(t, r.WHIP)
	assert.Zero(t, r.ERA)
}

func TestDerive_Rates(t *testing.T) {
	ev := func(label string) model.PitchEvent { return makeEvent(1, model.HalfTop, label) }
	last := ev("strikeout")
	last.AwayScore = 1

	records, _ := Build([]model.PitchEvent{
		ev("single"), ev("double"), ev("walk"), ev("hit_by_pitch"),
		ev("grounded_into_double_play"), ev("home_run"), last,
	})
	require.Len(t, records, 1)
	r := records[0]

	require.Equal(t, 3, r.Hits)
	require.Equal(t, 2, r.Outs)
	require.Equal(t, 2, r.Walks)
	require.Equal(t, 2, r.XBH)

	assert.Equal(t, 3.0/5.0, r.AVG)
	assert.Equal(t, 7.0/5.0, r.SLG)
	assert.Equal(t, 5.0/7.0, r.OBP)
	assert.Equal(t, r.SLG+r.OBP, r.OPS)
	assert.Equal(t, 5.0, r.WHIP)
	assert.Equal(t, 9.0, r.ERA)
	assert.Equal(t, 1, r.GamesPlayed)
	assert.Equal(t, 9.0, r.HR9)
}

func TestDerive_StrikeoutOnlyHalfInning(t *testing.T) {
	records, _ := Build([]model.PitchEvent{
		makeEvent(1, model.HalfTop, "strikeout"),
		makeEvent(1, model.HalfTop, "sac_bunt"),
		makeEvent(1, model.HalfTop, "caught_stealing_3b"),
	})
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, 1, r.Outs)
	assert.Zero(t, r.Hits)
	assert.Zero(t, r.Walks)
	assert.Equal(t, 0.0, r.AVG, "one out, no hits")
	assert.Equal(t, 0.0, r.HittingRuns)
}

// ---- Aggregate entry point ----

func TestAggregate_WritesToSinkAndReportsRows(t *testing.T) {
	sink := &sinkRecorder{}
	res, err := Aggregate([]model.PitchEvent{
		makeEvent(1, model.HalfTop, "single"),
		makeEvent(1, model.HalfBottom, "walk"),
	}, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Written)
	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 2)
}

func TestAggregate_SinkErrorIsWrapped(t *testing.T) {
	diskFull := errors.New("disk full")
	_, err := Aggregate([]model.PitchEvent{makeEvent(1, model.HalfTop, "single")}, &sinkRecorder{err: diskFull})
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
}

func TestAggregate_NilSink(t *testing.T) {
	_, err := Aggregate(nil, nil)
	assert.Error(t, err)
}

func TestMultiSink_WritesEverySink(t *testing.T) {
	a, b := &sinkRecorder{}, &sinkRecorder{}
	_, err := Aggregate([]model.PitchEvent{makeEvent(1, model.HalfTop, "single")}, MultiSink{a, b})
	require.NoError(t, err)
	assert.Len(t, a.batches, 1)
	assert.Len(t, b.batches, 1)
}

// Re-running the pipeline on the same input must reproduce the same table.
func TestBuild_Idempotent(t *testing.T) {
	events := []model.PitchEvent{
		batted(makeEvent(3, model.HalfBottom, "double"), 101, 27),
		makeEvent(1, model.HalfTop, "walk"),
		makeEvent(2, model.HalfTop, "strikeout"),
		makeEvent(1, model.HalfBottom, "foo"),
	}
	first, _ := Build(events)
	second, _ := Build(events)
	assert.Equal(t, fmt.Sprintf("%+v", first), fmt.Sprintf("%+v", second))
}
