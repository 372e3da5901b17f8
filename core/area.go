package core

// Size is a width/height pair in host units (pixels, terminal cells)
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle; X/Y is the top-left corner
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// CenterX returns the horizontal centre
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// Contains reports whether the point lies inside the rectangle (right/bottom edges exclusive)
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp limits v to [lo, hi]; when hi < lo the result is lo
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
