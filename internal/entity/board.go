package entity

import (
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const BoardSize = 10

// Cell values match what the client renders: "S" ship, "H" hit, "M" miss,
// empty string for water.
const (
	CellEmpty = ""
	CellShip  = "S"
	CellHit   = "H"
	CellMiss  = "M"
)

type Grid [BoardSize][BoardSize]string

// Board holds a single player's grid. It knows nothing about the opponent
// or the transport; ship layout is fixed once the fleet is placed.
type Board struct {
	Grid Grid `json:"grid"`
}

func NewBoard() *Board {
	return &Board{}
}

// ApplyShot resolves a shot at the given cell. A cell already resolved to
// hit or miss is rejected without mutation, so a cell transitions away from
// its initial state at most once.
func (that *Board) ApplyShot(row, col int) (bool, error) {
	if !InBounds(row, col) {
		return false, apperror.ErrInvalidCoordinate
	}

	switch that.Grid[row][col] {
	case CellHit, CellMiss:
		return false, apperror.ErrAlreadyResolved
	case CellShip:
		that.Grid[row][col] = CellHit
		return true, nil
	default:
		that.Grid[row][col] = CellMiss
		return false, nil
	}
}

// AllSunk reports whether every ship cell has been hit.
func (that *Board) AllSunk() bool {
	for row := range that.Grid {
		for col := range that.Grid[row] {
			if that.Grid[row][col] == CellShip {
				return false
			}
		}
	}

	return true
}

// View returns a render-safe copy of the grid. The owner sees ships, hits
// and misses; anyone else sees only hits and misses. Un-hit ship cells are
// never exposed to the opponent.
func (that *Board) View(forOwner bool) Grid {
	view := that.Grid

	if forOwner {
		return view
	}

	for row := range view {
		for col := range view[row] {
			if view[row][col] == CellShip {
				view[row][col] = CellEmpty
			}
		}
	}

	return view
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}
