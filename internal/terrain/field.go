package terrain

// HeightField is a row-major grid of unnormalized heights: the value for
// column i of row j lives at Values[j*Width+i].
type HeightField struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

// NewHeightField allocates a zeroed width x height field. Negative sizes are
// treated as zero.
func NewHeightField(width, height int) HeightField {
	width = max(width, 0)
	height = max(height, 0)
	return HeightField{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At returns the height at column x, row y.
func (f HeightField) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// Row returns the slice backing row y.
func (f HeightField) Row(y int) []float64 {
	return f.Values[y*f.Width : (y+1)*f.Width]
}

