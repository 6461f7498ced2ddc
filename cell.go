package gridastar

// Attribute is the static walkability of a cell.
type Attribute int

const (
	Normal Attribute = iota
	Wall
)

func (a Attribute) String() string {
	if a == Wall {
		return "wall"
	}
	return "normal"
}

// State is a presentation tag kept for renderers. The engine never reads it.
type State int

const (
	StateNormal State = iota
	StateOpen
	StateClosed
	StateStart
	StateEnd
	StateResult
	StateWall
)

var stateNames = [...]string{"normal", "open", "closed", "start", "end", "result", "wall"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText renders the state name for JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type membership uint8

const (
	untouched membership = iota
	inOpen
	inClosed
)

const noParent = -1

// Cell is one grid position together with its search bookkeeping.
// Parent is stored as an index into the owning grid's dense storage.
type Cell struct {
	pos       Coordinate
	value     int
	attribute Attribute
	state     State

	g, h, f   float64
	parent    int
	parentPos Coordinate
	member    membership
}

func (c Cell) Pos() Coordinate { return c.pos }

// Value is the display serial of the cell: row + col*rows.
func (c Cell) Value() int { return c.value }

func (c Cell) Attribute() Attribute { return c.attribute }
func (c Cell) State() State         { return c.state }
func (c Cell) G() float64           { return c.g }
func (c Cell) H() float64           { return c.h }
func (c Cell) F() float64           { return c.f }

// Parent reports the predecessor on the best known path, if any.
func (c Cell) Parent() (Coordinate, bool) {
	return c.parentPos, c.parent != noParent
}

// clearSearch drops every per-run field.
func (c *Cell) clearSearch() {
	c.g, c.h, c.f = 0, 0, 0
	c.parent = noParent
	c.member = untouched
}
