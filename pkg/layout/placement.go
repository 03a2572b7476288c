package layout

// Grid constants. Each depth column is CellWidth units wide and each
// height slot CellHeight units tall; vertices are fixed-size squares
// placed with a margin inside their cell.
const (
	CellWidth  = 250
	CellHeight = 150
	VtxWidth   = 120
	VtxHeight  = 120
	XMargin    = 50
	YMargin    = 10

	// Minimum canvas dimensions so small fabrics remain readable.
	MinCanvasWidth  = 1200
	MinCanvasHeight = 1100
)

// Box is the on-canvas geometry of one placed vertex.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the x coordinate of the box's right edge, where exit
// connectors leave.
func (b Box) Right() int { return b.X + b.Width }

// MidY returns the y coordinate of the box's vertical center, where
// connectors attach.
func (b Box) MidY() int { return b.Y + b.Height/2 }

// Placement holds the computed geometry for every placed vertex, keyed by
// FMRI. It is produced after layering and consumed by the renderers, so
// geometry can never be observed before it exists.
//
// A vertex appended to a column more than once is placed once per
// occurrence; the last placement wins in Boxes.
type Placement struct {
	Boxes        map[string]Box
	Layering     Layering
	CanvasWidth  int
	CanvasHeight int
}

// Place computes grid coordinates for every vertex in the layering.
//
// For a vertex at depth d (1-based) and column position h (1-based):
//
//	x = (d-1)*250 + 50
//	y = (h-1)*150*yFactor + 10
//
// where yFactor is 1 for the first slot and floor(maxHeight/columnLen)
// otherwise, spreading sparse columns over the full canvas height.
func Place(l Layering) Placement {
	p := Placement{
		Boxes:        make(map[string]Box),
		Layering:     l,
		CanvasWidth:  max(MinCanvasWidth, l.MaxDepth*CellWidth),
		CanvasHeight: max(MinCanvasHeight, l.MaxHeight*CellHeight),
	}

	for depth := 1; depth <= l.MaxDepth; depth++ {
		column := l.Columns[depth]
		for index, fmri := range column {
			height := index + 1
			x := (depth-1)*CellWidth + XMargin

			yFactor := 1
			if height != 1 {
				yFactor = l.MaxHeight / len(column)
			}
			y := (height-1)*CellHeight*yFactor + YMargin

			p.Boxes[fmri] = Box{X: x, Y: y, Width: VtxWidth, Height: VtxHeight}
		}
	}
	return p
}
