package tsm

import (
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// similaritySearch scores every candidate offset j in [0, numCandidateBlocks)
// by energy-normalized cross-correlation between the target block and the
// sub-block of the search block starting at j, and returns the best integer
// offset together with its quadratically interpolated sub-sample refinement.
//
// Ties break to the lower j because the scan keeps the first strictly
// greater score.
func (e *Engine) similaritySearch() (best int, bestFrac float64) {
	w := e.olaWindowSize
	n := e.numCandidateBlocks

	for c := 0; c < e.channels; c++ {
		s := e.searchBlock[c]
		energies := e.energyCandidateBlocks[c]

		energies[0] = vecmath.DotProduct(s[0:w], s[0:w])
		for j := 0; j < n-1; j++ {
			energies[j+1] = energies[j] - s[j]*s[j] + s[j+w]*s[j+w]
		}

		e.targetEnergyScratch[c] = vecmath.DotProduct(e.targetBlock[c], e.targetBlock[c])
	}

	scores := e.scoreScratch
	for j := 0; j < n; j++ {
		var dot, denom float64
		for c := 0; c < e.channels; c++ {
			dot += vecmath.DotProduct(e.targetBlock[c], e.searchBlock[c][j:j+w])
			denom += e.targetEnergyScratch[c] * e.energyCandidateBlocks[c][j]
		}

		sign := 1.0
		if dot < 0 {
			sign = -1.0
		}
		scores[j] = sign * dot * dot / (denom + energyEps)
	}

	best = 0
	for j := 1; j < n; j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}

	bestFrac = float64(best)
	if best > 0 && best < n-1 {
		bestFrac = quadraticVertex(best, scores)
	}
	return best, bestFrac
}

// quadraticVertex fits a parabola through the three scores neighboring j0
// and returns the vertex position, clamped to the valid candidate range.
func quadraticVertex(j0 int, scores []float64) float64 {
	yL, y0, yR := scores[j0-1], scores[j0], scores[j0+1]

	denom := yL - 2*y0 + yR
	if denom == 0 {
		return float64(j0)
	}

	v := float64(j0) + 0.5*(yL-yR)/denom
	return core.Clamp(v, 0, float64(len(scores)-1))
}
