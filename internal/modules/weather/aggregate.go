package weather

// Aggregate reduces a window to its four scalar features. An empty window yields zeros.
func Aggregate(w Window) Aggregates {
	if w.Empty() {
		return Aggregates{}
	}
	agg := Aggregates{WindMax1h: w.Samples[0].WindSpeed}
	var cloud float64
	for _, s := range w.Samples {
		if s.WindSpeed > agg.WindMax1h {
			agg.WindMax1h = s.WindSpeed
		}
		cloud += s.CloudCover
		agg.RainSum1h += s.Rain
		agg.SnowSum1h += s.Snowfall
	}
	agg.CloudMean1h = cloud / float64(len(w.Samples))
	return agg
}
