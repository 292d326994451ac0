package topology

// EdgePosition describes where on the mesh boundary a core sits. The zero
// value is Interior.
type EdgePosition int

const (
	Interior EdgePosition = iota
	Top
	TopLeft
	TopRight
	Left
	Right
	Bottom
	BottomLeft
	BottomRight
)

func (p EdgePosition) String() string {
	switch p {
	case Interior:
		return "Interior"
	case Top:
		return "Top"
	case TopLeft:
		return "TopLeft"
	case TopRight:
		return "TopRight"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Bottom:
		return "Bottom"
	case BottomLeft:
		return "BottomLeft"
	case BottomRight:
		return "BottomRight"
	default:
		return "EdgePosition(?)"
	}
}

// IsBoundary tells if the position is on the mesh boundary.
func (p EdgePosition) IsBoundary() bool {
	return p != Interior
}

// BoundarySet returns the directions that face outside the mesh.
func (p EdgePosition) BoundarySet() DirectionSet {
	switch p {
	case Top:
		return NewDirectionSet(North)
	case TopLeft:
		return NewDirectionSet(North, West)
	case TopRight:
		return NewDirectionSet(North, East)
	case Left:
		return NewDirectionSet(West)
	case Right:
		return NewDirectionSet(East)
	case Bottom:
		return NewDirectionSet(South)
	case BottomLeft:
		return NewDirectionSet(South, West)
	case BottomRight:
		return NewDirectionSet(South, East)
	default:
		return 0
	}
}

// Directions lists the directions that face outside the mesh, in canonical
// order. Corners have two, edges one and interior cores none.
func (p EdgePosition) Directions() []Direction {
	return p.BoundarySet().Directions()
}

// Permits tells if a border endpoint can attach to this position from d.
func (p EdgePosition) Permits(d Direction) bool {
	return p.BoundarySet().Has(d)
}

// CalculateEdge classifies a core id on a rows x columns mesh. Ids are row
// major. Left and right columns are checked before top and bottom rows so that
// single-column meshes classify as left edges.
func CalculateEdge(id, columns, rows int) EdgePosition {
	if columns <= 0 || rows <= 0 {
		return Interior
	}

	blBound := (rows - 1) * columns

	switch {
	case id%columns == 0:
		switch id {
		case 0:
			return TopLeft
		case blBound:
			return BottomLeft
		default:
			return Left
		}
	case (id+1)%columns == 0:
		switch id {
		case columns - 1:
			return TopRight
		case rows*columns - 1:
			return BottomRight
		default:
			return Right
		}
	case id < columns:
		return Top
	case id > blBound:
		return Bottom
	}

	return Interior
}
