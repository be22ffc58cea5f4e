package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/nrfi-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "open in-memory db")
	t.Cleanup(func() { db.Close() })
	return db
}

func makeRecord(gamePK int64, half model.Half, date, pitcher string, runs float64) model.HalfInningRecord {
	r := model.HalfInningRecord{
		GamePK:        gamePK,
		Half:          half,
		GameDate:      date,
		PlayerName:    pitcher,
		PitcherID:     605483,
		HomeTeam:      "SF",
		AwayTeam:      "LAD",
		PThrows:       "L",
		FieldingTeam:  "SF",
		HittingTeam:   "LAD",
		LaunchSpeed:   model.Missing,
		EstimatedWOBA: 0.31,
		EstimatedBA:   model.Missing,
		HomeScore:     0,
		AwayScore:     runs,
		HittingRuns:   runs,
		DeltaRunExp:   -0.12,
		Barrel:        model.Missing,
		Hits:          1,
		Outs:          3,
		AVG:           0.25,
		SLG:           0.25,
		OBP:           0.25,
		OPS:           0.5,
		WHIP:          1,
		ERA:           runs * 9,
		GamesPlayed:   1,
		HR9:           0,
	}
	r.Counts.Add(model.Single, 1)
	r.Counts.Add(model.Strikeout, 2)
	r.Counts.Add(model.FieldOut, 1)
	return r
}

func TestWriteAndReadHalfInnings(t *testing.T) {
	db := openMemDB(t)

	in := makeRecord(745001, model.HalfTop, "2024-04-02", "Snell, Blake", 0)
	require.NoError(t, db.WriteHalfInnings([]model.HalfInningRecord{in}))

	got, err := db.HalfInningsForPitcher("Snell, Blake")
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, int64(745001), r.GamePK)
	assert.Equal(t, model.HalfTop, r.Half)
	assert.Equal(t, "LAD", r.HittingTeam)
	assert.Equal(t, 2, r.Count(model.Strikeout))
	assert.Equal(t, 1, r.Count(model.Single))
	assert.Equal(t, 0, r.Count(model.Walk))
	assert.Equal(t, 0.31, r.EstimatedWOBA)
	assert.Equal(t, 0.5, r.OPS)
}

func TestMissingValuesRoundTripAsNull(t *testing.T) {
	db := openMemDB(t)

	in := makeRecord(745001, model.HalfTop, "2024-04-02", "Snell, Blake", 0)
	in.AVG, in.SLG = model.Missing, model.Missing
	require.NoError(t, db.WriteHalfInnings([]model.HalfInningRecord{in}))

	got, err := db.AllHalfInnings()
	require.NoError(t, err)
	require.Len(t, got, 1)
	for name, v := range map[string]float64{
		"launch_speed": got[0].LaunchSpeed,
		"xba":          got[0].EstimatedBA,
		"barrel":       got[0].Barrel,
		"avg":          got[0].AVG,
		"slg":          got[0].SLG,
	} {
		assert.True(t, model.IsMissing(v), "%s: expected missing, got %v", name, v)
	}

	_, rows, err := db.QueryRaw("SELECT COUNT(*) FROM half_innings WHERE avg IS NULL")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}}, rows, "avg stored as NULL")
}

func TestReingestKeepsOneRowPerHalf(t *testing.T) {
	db := openMemDB(t)

	batch := []model.HalfInningRecord{
		makeRecord(745001, model.HalfTop, "2024-04-02", "Snell, Blake", 0),
		makeRecord(745001, model.HalfBottom, "2024-04-02", "Glasnow, Tyler", 1),
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, db.WriteHalfInnings(batch), "pass %d", i)
	}

	all, err := db.AllHalfInnings()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHalfInningsOrderedByDate(t *testing.T) {
	db := openMemDB(t)

	batch := []model.HalfInningRecord{
		makeRecord(745300, model.HalfTop, "2024-05-10", "Snell, Blake", 2),
		makeRecord(745001, model.HalfTop, "2024-04-02", "Snell, Blake", 0),
		makeRecord(745100, model.HalfTop, "2024-04-20", "Snell, Blake", 1),
	}
	require.NoError(t, db.WriteHalfInnings(batch))

	got, err := db.HalfInningsForPitcher("Snell, Blake")
	require.NoError(t, err)
	var dates []string
	for _, r := range got {
		dates = append(dates, r.GameDate)
	}
	assert.Equal(t, []string{"2024-04-02", "2024-04-20", "2024-05-10"}, dates)

	window, err := db.HalfInningsBetween("2024-04-10", "")
	require.NoError(t, err)
	assert.Len(t, window, 2, "records from 2024-04-10 on")
}

func TestUnknownPitcherReturnsNoRows(t *testing.T) {
	db := openMemDB(t)
	got, err := db.HalfInningsForPitcher("Nobody, Here")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListPitchers(t *testing.T) {
	db := openMemDB(t)

	batch := []model.HalfInningRecord{
		makeRecord(1, model.HalfTop, "2024-04-02", "Snell, Blake", 0),
		makeRecord(2, model.HalfTop, "2024-04-08", "Snell, Blake", 0),
		makeRecord(1, model.HalfBottom, "2024-04-02", "Glasnow, Tyler", 1),
	}
	require.NoError(t, db.WriteHalfInnings(batch))

	all, err := db.ListPitchers(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Snell, Blake", all[0].Name)
	assert.Equal(t, 2, all[0].HalfInnings)
	assert.Equal(t, "2024-04-02", all[0].FirstDate)
	assert.Equal(t, "2024-04-08", all[0].LastDate)

	some, err := db.ListPitchers(2)
	require.NoError(t, err)
	assert.Len(t, some, 1, "pitchers with >= 2 games")
}

func TestIngestRuns(t *testing.T) {
	db := openMemDB(t)

	runs := []model.IngestRun{
		{ID: "a", Source: "file:events.csv", EventsRead: 10, EventsKept: 4, HalfInningsWritten: 2,
			CreatedAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)},
		{ID: "b", Source: "savant", StartDate: "2024-04-01", EndDate: "2024-04-03",
			CreatedAt: time.Date(2024, 4, 3, 12, 0, 0, 0, time.UTC)},
	}
	for _, r := range runs {
		require.NoError(t, db.InsertRun(r))
	}

	got, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID, "newest run first")
	assert.Equal(t, 10, got[1].EventsRead)
	assert.Equal(t, 2, got[1].HalfInningsWritten)
	assert.True(t, got[1].CreatedAt.Equal(runs[0].CreatedAt), "created_at %v", got[1].CreatedAt)
}

func TestStats(t *testing.T) {
	db := openMemDB(t)

	s, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, s)

	records := []model.HalfInningRecord{
		makeRecord(1, model.HalfTop, "2024-04-01", "Snell, Blake", 0),
		makeRecord(1, model.HalfBottom, "2024-04-01", "Webb, Logan", 1),
		makeRecord(2, model.HalfTop, "2024-04-07", "Snell, Blake", 0),
	}
	require.NoError(t, db.WriteHalfInnings(records))
	require.NoError(t, db.InsertRun(model.IngestRun{ID: "r1", Source: "test", CreatedAt: time.Now()}))

	s, err = db.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{HalfInnings: 3, Pitchers: 2, Runs: 1}, s)
}
