// Package viz provides terminal-based visualization for sweep runs.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [RunInteractive]: preset picker with parameter editing
//   - [Run]: live view of a single sweep
//   - [Canvas]: Braille-based pixel canvas, one dot per lattice site
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume sweep
//	R     - Restart from the same seed
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]/   - Replay recent lattice states
//
// # Recording
//
// The live view records lattice frames as a GIF animation while the G
// key is toggled on. Recordings are saved to the current directory.
package viz
