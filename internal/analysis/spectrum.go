package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/stat"
)

// MinSamples is the shortest series DominantPeriod accepts.
const MinSamples = 8

var (
	ErrTooShort        = errors.New("analysis: not enough samples")
	ErrInvalidInterval = errors.New("analysis: sample interval must be finite and positive")
	ErrNoSignal        = errors.New("analysis: series has no periodic component")
)

// PowerSpectrum returns the magnitude of each frequency bin of samples after
// removing the mean and applying a Hann window. The series is zero-padded to
// the next power of two n; the result has n/2+1 bins, bin k corresponding to
// k/(n*interval) cycles per unit time.
func PowerSpectrum(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	x := make([]float64, len(samples))
	mean := stat.Mean(samples, nil)
	for i, v := range samples {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	n := dsputils.NextPowerOf2(len(x))
	spectrum := fft.FFTReal(dsputils.ZeroPadF(x, n))

	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in a
// uniformly sampled series. The peak bin is refined by fitting a parabola
// through it and its neighbours.
func DominantPeriod(samples []float64, interval float64) (float64, error) {
	if len(samples) < MinSamples {
		return 0, fmt.Errorf("%w: %d < %d", ErrTooShort, len(samples), MinSamples)
	}
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return 0, fmt.Errorf("%w: %g", ErrInvalidInterval, interval)
	}

	ps := PowerSpectrum(samples)
	n := 2 * (len(ps) - 1)

	// bin 0 is the removed mean
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] <= 1e-12*maxAbs(samples)*float64(len(samples)) {
		return 0, ErrNoSignal
	}

	bin := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			bin += 0.5 * (a - c) / denom
		}
	}
	return float64(n) * interval / bin, nil
}

func maxAbs(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
