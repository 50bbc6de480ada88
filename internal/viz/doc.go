// Package viz draws running simulations in the terminal.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulator, stepped on a 60 Hz timer
//   - [Picker]: scenario menu with a parameter editor in front of [Model]
//   - [Canvas]: Braille-based pixel canvas
//   - [Camera] and [Follow]: 3D projection that eases toward the particles
//   - Colour themes that tell particles, trails and the ground grid apart
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scenario
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Time travel (rewind/forward)
//	+/-   - Steps per frame
//
// # Recording
//
// G starts and stops a recording. The GIF is written to the current
// directory, named after the scenario.
package viz
