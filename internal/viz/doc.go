// Package viz renders storms in the terminal.
//
//   - [Plot]: asciigraph hyetograph and mass curve
//   - [Summary]: lipgloss panel with the storm's key figures
//   - [Preview]: Bubble Tea browser that regenerates the storm as the
//     distribution, fidelity or smoothing changes
//
// # Key Bindings
//
//	h/l   - Previous/next distribution
//	F     - Toggle precise/fast Beta evaluation
//	S     - Toggle smoothing
//	M     - Toggle standard/custom duration mode
//	T     - Cycle color themes
//	Q     - Quit
package viz
