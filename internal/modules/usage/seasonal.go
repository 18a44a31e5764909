package usage

import (
	"math"

	"github.com/wattadvisor/wattadvisor/pkg/formulas"
)

// seasonOrder fixes the output ordering of per-season patterns
var seasonOrder = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// analyzeSeasons buckets the filled series into the four seasons and
// derives the seasonal shape of consumption. Interpolated months
// participate: they carry the local level between real readings.
func (p *Profiler) analyzeSeasons(filled []observation) SeasonalAnalysis {
	sums := make(map[Season]float64, 4)
	counts := make(map[Season]int, 4)
	all := make([]float64, 0, len(filled))

	for _, o := range filled {
		season := SeasonOf(o.month.Month())
		sums[season] += o.kwh
		counts[season]++
		all = append(all, o.kwh)
	}

	patterns := make([]SeasonPattern, 0, 4)
	averages := make(map[Season]float64, 4)
	for _, season := range seasonOrder {
		avg := 0.0
		if counts[season] > 0 {
			avg = sums[season] / float64(counts[season])
		}
		averages[season] = avg
		patterns = append(patterns, SeasonPattern{
			Season:     season,
			AverageKWh: avg,
			Months:     counts[season],
		})
	}

	ratio := 1.0
	if averages[SeasonWinter] > 0 {
		ratio = averages[SeasonSummer] / averages[SeasonWinter]
	}

	overallAvg := formulas.Mean(all)
	dominant := SeasonWinter
	peakAvg := 0.0
	for _, season := range seasonOrder {
		if averages[season] > peakAvg {
			peakAvg = averages[season]
			dominant = season
		}
	}

	peakToAvg := 1.0
	if overallAvg > 0 {
		peakToAvg = peakAvg / overallAvg
	}

	hasPattern := ratio >= p.cfg.SeasonalRatioThreshold ||
		(ratio > 0 && ratio <= 1/p.cfg.SeasonalRatioThreshold) ||
		peakToAvg >= p.cfg.PeakToAvgThreshold

	// Confidence grows with how far the ratio sits from 1 and with how
	// many months back each season, capped at 1.
	distance := math.Abs(ratio - 1)
	avgMonthsPerSeason := float64(len(filled)) / 4
	confidence := clamp01(distance * math.Min(1, avgMonthsPerSeason/3))

	return SeasonalAnalysis{
		HasSeasonalPattern:  hasPattern,
		DominantSeason:      dominant,
		Patterns:            patterns,
		SummerToWinterRatio: ratio,
		PeakToAvgRatio:      peakToAvg,
		ConfidenceScore:     confidence,
	}
}
