package entity

// Mark is the content of a single board cell.
type Mark uint8

const (
	Empty Mark = iota
	PlayerMark
	AiMark
)

const BoardSize = 9

// Line is an index triple that wins when uniformly marked.
type Line [3]int

// Lines holds every winning line: rows, columns, then diagonals.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Corners and Center are used by the heuristic strategies.
var Corners = [4]int{0, 2, 6, 8}

const Center = 4

// Board is a 3x3 grid stored row-major. It is a value type, copies never alias.
type Board [BoardSize]Mark

// Opponent returns the other side's mark.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerMark:
		return AiMark
	case AiMark:
		return PlayerMark
	default:
		return Empty
	}
}

func (that Mark) String() string {
	switch that {
	case PlayerMark:
		return "X"
	case AiMark:
		return "O"
	default:
		return ""
	}
}

// MarshalText encodes a mark as "X", "O" or "".
func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*that = PlayerMark
	case "O":
		*that = AiMark
	default:
		*that = Empty
	}

	return nil
}

// Marks counts the non-empty cells.
func (that Board) Marks() int {
	count := 0
	for _, cell := range that {
		if cell != Empty {
			count++
		}
	}

	return count
}
