package aggregator

import "github.com/pable/nrfi-metrics/internal/model"

// Barrel thresholds: launch speed must exceed barrelMinSpeed and the launch angle must lie
// within [barrelMinAngle, barrelMaxAngle].
const (
	barrelMinSpeed = 98.0
	barrelMinAngle = 25.9
	barrelMaxAngle = 30.1
)

// Filter keeps first-inning events that end a plate appearance and labels each with its
// outcome, barrel indicator and fielding team. Input order is preserved.
func Filter(events []model.PitchEvent) []model.LabeledEvent {
	out := make([]model.LabeledEvent, 0, len(events)/8)
	for _, e := range events {
		if e.Inning != 1 || e.Event == "" {
			continue
		}
		outcome, _ := model.ParseOutcome(e.Event)
		out = append(out, model.LabeledEvent{
			PitchEvent:   e,
			Outcome:      outcome,
			Barrel:       barrel(e.LaunchSpeed, e.LaunchAngle),
			FieldingTeam: fieldingTeam(e.Half, e.HomeTeam, e.AwayTeam),
		})
	}
	return out
}

// barrel returns 1 for a barreled ball, 0 otherwise, and Missing when either input is missing.
func barrel(speed, angle float64) float64 {
	if model.IsMissing(speed) || model.IsMissing(angle) {
		return model.Missing
	}
	if speed > barrelMinSpeed && angle >= barrelMinAngle && angle <= barrelMaxAngle {
		return 1
	}
	return 0
}

// fieldingTeam is the away side in the bottom half and the home side otherwise.
func fieldingTeam(half model.Half, home, away string) string {
	if half == model.HalfBottom {
		return away
	}
	return home
}

// hittingSide returns the team and running score of the side at bat.
func hittingSide(half model.Half, home, away string, homeScore, awayScore float64) (string, float64) {
	if half == model.HalfBottom {
		return home, homeScore
	}
	return away, awayScore
}
