// Package draw renders frames into a terminal: a half-block colour canvas,
// a perspective camera, and helpers for ANSI cursor and text output.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ResetColor restores the default terminal colours.
const ResetColor = "\033[0m"

// Text is a string placed at a 1-based terminal position.
type Text struct {
	X     int
	Y     int
	Value string
}

// Centered returns a Text horizontally centred in a width-column area.
func Centered(width, row int, value string) Text {
	n := len([]rune(value))
	return Text{X: (width-n)/2 + 1, Y: row, Value: value}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
