package aggregator

import "github.com/pable/nrfi-metrics/internal/model"

// Derive fills the rate statistics of r from its outcome counts. Ratios with a zero
// denominator are Missing, never 0.
func Derive(r *model.HalfInningRecord) {
	c := &r.Counts
	single, double, triple, hr := c.Get(model.Single), c.Get(model.Double), c.Get(model.Triple), c.Get(model.HomeRun)

	r.Hits = single + double + triple + hr
	r.Outs = c.Get(model.Strikeout) + c.Get(model.GroundedIntoDoublePlay) + c.Get(model.FieldOut) +
		c.Get(model.FieldersChoiceOut) + c.Get(model.FieldError) + c.Get(model.FieldersChoice) +
		c.Get(model.DoublePlay)
	r.Walks = c.Get(model.Walk) + c.Get(model.HitByPitch)
	r.XBH = double + triple + hr

	atBats := r.Hits + r.Outs
	r.AVG = ratio(float64(r.Hits), atBats)
	r.SLG = ratio(float64(single+2*double+3*triple+4*hr), atBats)
	r.OBP = ratio(float64(r.Hits+r.Walks), r.Hits+r.Walks+r.Outs)
	r.OPS = r.SLG + r.OBP
	r.WHIP = float64(r.Hits + r.Walks)
	r.ERA = r.HittingRuns * 9

	// A record is always exactly one first inning.
	r.GamesPlayed = 1
	r.HR9 = float64(hr) / float64(r.GamesPlayed) * 9
}

func ratio(num float64, den int) float64 {
	if den == 0 {
		return model.Missing
	}
	return num / float64(den)
}
