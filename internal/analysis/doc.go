// Package analysis turns recorded trajectories into numbers and pictures.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation content of a series
//   - [Divergence]: growth rate of a small position perturbation
//   - [NewPhasePortrait]: 2D phase space plot of two series
//   - [NewPoincareSection]: points sampled where one series crosses a threshold
//
// A positive divergence rate means nearby starts drift apart:
//
//	rate, err := analysis.Divergence(build, 1e-6, 0.01, 10)
//	if rate > 0 {
//	    // sensitive to initial conditions
//	}
package analysis
