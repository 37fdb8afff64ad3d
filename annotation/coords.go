package annotation

// Bounds is the displayed image element: origin and size in pointer units.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToRelative converts a pointer position to percentages of the element size.
// Nothing is clamped; see CheckPosition.
func ToRelative(pointerX, pointerY float64, b Bounds) (x, y float64) {
	x = (pointerX - b.Left) / b.Width * 100
	y = (pointerY - b.Top) / b.Height * 100
	return
}

// ToAbsolute is the inverse of ToRelative, used for rendering.
func ToAbsolute(x, y float64, b Bounds) (pointerX, pointerY float64) {
	pointerX = b.Left + x/100*b.Width
	pointerY = b.Top + y/100*b.Height
	return
}

// CheckPosition returns ErrOutOfBounds unless both coordinates are within [0, 100].
// NaN and infinities (zero sized bounds) are out of bounds.
func CheckPosition(x, y float64) error {
	if !inRange(x) || !inRange(y) {
		return ErrOutOfBounds
	}
	return nil
}

func inRange(v float64) bool {
	return v >= 0 && v <= 100
}
