package battleship

import (
	"errors"
	"math/rand"

	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// FleetSizes is the fixed fleet placed on every board: carrier, battleship,
// cruiser, submarine, destroyer.
var FleetSizes = []int{5, 4, 3, 3, 2}

// FleetCells is the total number of ship cells a full fleet occupies.
const FleetCells = 17

const (
	placementAttempts = 100
	boardAttempts     = 10
)

var ErrPlacementFailed = errors.New("could not place fleet")

// PlaceFleet places the fixed fleet on the board at random, horizontally or
// vertically, in-bounds and non-overlapping. Ships are retried individually;
// if a board gets wedged, the whole board is cleared and retried. With a
// 10x10 grid this always succeeds in practice.
func PlaceFleet(board *entity.Board, rng *rand.Rand) error {
	for attempt := 0; attempt < boardAttempts; attempt++ {
		if placeAll(board, rng) {
			return nil
		}

		board.Grid = entity.Grid{}
	}

	return ErrPlacementFailed
}

func placeAll(board *entity.Board, rng *rand.Rand) bool {
	for _, size := range FleetSizes {
		if !placeShip(board, rng, size) {
			return false
		}
	}

	return true
}

func placeShip(board *entity.Board, rng *rand.Rand, size int) bool {
	for attempt := 0; attempt < placementAttempts; attempt++ {
		horizontal := rng.Intn(2) == 0

		row, col := rng.Intn(entity.BoardSize), rng.Intn(entity.BoardSize)
		if horizontal {
			col = rng.Intn(entity.BoardSize - size + 1)
		} else {
			row = rng.Intn(entity.BoardSize - size + 1)
		}

		if !fits(board, row, col, size, horizontal) {
			continue
		}

		for i := 0; i < size; i++ {
			if horizontal {
				board.Grid[row][col+i] = entity.CellShip
			} else {
				board.Grid[row+i][col] = entity.CellShip
			}
		}

		return true
	}

	return false
}

func fits(board *entity.Board, row, col, size int, horizontal bool) bool {
	for i := 0; i < size; i++ {
		r, c := row, col
		if horizontal {
			c += i
		} else {
			r += i
		}

		if board.Grid[r][c] != entity.CellEmpty {
			return false
		}
	}

	return true
}
