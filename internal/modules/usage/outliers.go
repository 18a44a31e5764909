package usage

import (
	"time"

	"github.com/wattadvisor/wattadvisor/pkg/formulas"
)

const outlierMethodName = "iqr"

// detectOutliers flags months outside the Tukey fences
// [Q1 - k*IQR, Q3 + k*IQR] computed over real readings only.
// Interpolated months are never flagged: they lie on a straight line
// between real readings by construction.
func (p *Profiler) detectOutliers(filled []observation) OutlierDetection {
	values := make([]float64, 0, len(filled))
	for _, o := range filled {
		if !o.interpolated {
			values = append(values, o.kwh)
		}
	}

	result := OutlierDetection{Method: outlierMethodName}

	// Quartiles are meaningless on tiny samples
	if len(values) < 4 {
		return result
	}

	lower, upper := formulas.IQRBounds(values, p.cfg.IQRMultiplier)
	result.LowerBound = lower
	result.UpperBound = upper

	var months []time.Time
	for _, o := range filled {
		if o.interpolated {
			continue
		}
		if o.kwh < lower || o.kwh > upper {
			months = append(months, o.month)
		}
	}
	result.OutlierMonths = months

	return result
}
