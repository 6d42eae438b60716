package components

import "fmt"

// LampPitch is the distance between lamp centres in SVG units.
const LampPitch = 20

const lampRadius = 8

// LampCenter places a lamp on the page. Lamps go down a column first.
func LampCenter(index, rows int) (int, int) {
	if rows <= 0 {
		return 0, 0
	}

	column, row := index/rows, index%rows

	return column*LampPitch + LampPitch/2, row*LampPitch + LampPitch/2
}

func getTitle(page PageType) string {
	switch page {
	case PageTypeAuthoring:
		return "Glyph authoring"
	case PageTypeBoard:
		return "Timetable"
	default:
		return "Timetable"
	}
}

// getLampAction returns what clicking a lamp does, if anything.
func getLampAction(index int, page PageType) string {
	switch page {
	case PageTypeAuthoring:
		return fmt.Sprintf("toggleLamp(%d)", index)
	case PageTypeBoard:
		return ""
	default:
		return ""
	}
}
