package statcast

import (
	"bytes"
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/nrfi-metrics/internal/model"
)

const sample = `pitch_type,game_date,release_speed,player_name,batter,pitcher,events,p_throws,home_team,away_team,inning,inning_topbot,launch_speed,launch_angle,game_pk,estimated_ba_using_speedangle,estimated_woba_using_speedangle,home_score,away_score,delta_run_exp
FF,2024-04-01,95.1,"Snell, Blake",660271,605483,single,L,SF,LAD,1,Top,101.3,12,745001,0.61,0.55,0,0,0.42
SL,2024-04-01,86.0,"Snell, Blake",518692,605483,,L,SF,LAD,1,Top,,,745001,,,0,0,-0.03
FF,2024-04-01,94.2,"Snell, Blake",518692,605483,strikeout,L,SF,LAD,1,Top,NA,nan,745001,,,0,0,-0.2
`

func TestDecode_ParsesRows(t *testing.T) {
	events, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, events, 3)

	e := events[0]
	assert.Equal(t, int64(745001), e.GamePK)
	assert.Equal(t, "2024-04-01", e.GameDate)
	assert.Equal(t, 1, e.Inning)
	assert.Equal(t, model.HalfTop, e.Half)
	assert.Equal(t, "Snell, Blake", e.PlayerName)
	assert.Equal(t, int64(605483), e.PitcherID)
	assert.Equal(t, int64(660271), e.BatterID)
	assert.Equal(t, "single", e.Event)
	assert.Equal(t, 101.3, e.LaunchSpeed)
	assert.Equal(t, 0.55, e.EstimatedWOBA)
	assert.Equal(t, 0.42, e.DeltaRunExp)
}

func TestDecode_NullCellsAreMissing(t *testing.T) {
	events, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Empty(t, events[1].Event)
	assert.True(t, math.IsNaN(events[1].LaunchSpeed))
	assert.True(t, math.IsNaN(events[2].LaunchSpeed), "NA must decode as missing")
	assert.True(t, math.IsNaN(events[2].LaunchAngle), "nan must decode as missing")
}

func TestDecode_MissingRequiredColumn(t *testing.T) {
	_, err := Decode(strings.NewReader("game_pk,inning\n1,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestDecode_BadIntegerNamesRowAndColumn(t *testing.T) {
	bad := strings.Replace(sample, ",1,Top,101.3", ",first,Top,101.3", 1)
	_, err := Decode(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2 column inning")
}

func TestDecode_FloatIntegers(t *testing.T) {
	in := "game_pk,game_date,inning,inning_topbot,events,home_team,away_team,player_name,pitcher\n" +
		"745001.0,2024-04-01,1.0,Bot,walk,SF,LAD,\"Snell, Blake\",605483\n"
	events, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(745001), events[0].GamePK)
	assert.True(t, math.IsNaN(events[0].HomeScore), "absent optional column decodes as missing")
}

func TestDecode_Empty(t *testing.T) {
	events, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReadFile_Compressed(t *testing.T) {
	dir := t.TempDir()

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	gzPath := filepath.Join(dir, "events.csv.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0o644))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstPath := filepath.Join(dir, "events.csv.zst")
	require.NoError(t, os.WriteFile(zstPath, enc.EncodeAll([]byte(sample), nil), 0o644))
	require.NoError(t, enc.Close())

	plainPath := filepath.Join(dir, "events.csv")
	require.NoError(t, os.WriteFile(plainPath, []byte(sample), 0o644))

	for _, p := range []string{plainPath, gzPath, zstPath} {
		events, err := ReadFile(p)
		require.NoError(t, err, p)
		assert.Len(t, events, 3, p)
	}
}
