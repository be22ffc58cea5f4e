package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given a fresh metrics set", t, func() {
		m := New()

		Convey("When a run is recorded", func() {
			m.EventsRead.Add(120)
			m.EventsKept.Add(14)
			m.HalfInningsWritten.Add(4)
			m.ObserveFetch(200)
			m.ObserveFetch(200)
			m.ObserveFetch(502)
			m.ObserveFetch(0)
			m.Finish(time.Now().Add(-2 * time.Second))

			path := filepath.Join(t.TempDir(), "nrfi.prom")
			So(m.WriteTextfile(path), ShouldBeNil)
			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			out := string(data)

			Convey("Then the textfile carries every counter", func() {
				So(out, ShouldContainSubstring, "nrfi_events_read_total 120")
				So(out, ShouldContainSubstring, "nrfi_events_kept_total 14")
				So(out, ShouldContainSubstring, "nrfi_half_innings_written_total 4")
				So(out, ShouldContainSubstring, `nrfi_savant_requests_total{code="200"} 2`)
				So(out, ShouldContainSubstring, `nrfi_savant_requests_total{code="502"} 1`)
				So(out, ShouldContainSubstring, `nrfi_savant_requests_total{code="error"} 1`)
				So(out, ShouldContainSubstring, "nrfi_run_duration_seconds")
			})
		})

		Convey("When no textfile path is configured", func() {
			Convey("Then writing is a no-op", func() {
				So(m.WriteTextfile(""), ShouldBeNil)
			})
		})

		Convey("When two sets are created in one process", func() {
			Convey("Then registration does not collide", func() {
				So(func() { New(); New() }, ShouldNotPanic)
			})
		})
	})
}
