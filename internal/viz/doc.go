// Package viz renders joints in the terminal.
//
//   - [AxisTable] and [RowTable]: lipgloss tables of axis states and filled rows
//   - [Plot]: asciigraph line charts of sweep and settle series
//   - [WatchModel]: a Bubble Tea view that steps a joint live
//   - [Canvas] and [Camera]: Braille wireframes of the joint frames
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset bodies to the starting pose
//	T     - Cycle color themes
//	X/Y   - Rotate the camera
//	+/-   - Zoom
//	Q     - Quit
package viz
