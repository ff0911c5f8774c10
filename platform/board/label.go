package board

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
)

const labelColumns = 10

// PositionFromLabel turns a row/column label such as "B4" into a board index.
func (b *Board) PositionFromLabel(label string) (int, error) {
	return PositionFromLabel(label, b.Len())
}

func PositionFromLabel(label string, spaces int) (int, error) {
	if len(label) != 2 {
		return 0, fmt.Errorf("%w: label %q must be a letter followed by a digit", models.ErrInvalidFormat, label)
	}
	row, col := label[0], label[1]
	switch {
	case row >= 'a' && row <= 'z':
		row -= 'a'
	case row >= 'A' && row <= 'Z':
		row -= 'A'
	default:
		return 0, fmt.Errorf("%w: label %q must start with a letter", models.ErrInvalidFormat, label)
	}
	if col < '0' || col > '9' {
		return 0, fmt.Errorf("%w: label %q must end with a digit", models.ErrInvalidFormat, label)
	}
	pos := int(row)*labelColumns + int(col-'0')
	if pos >= spaces {
		return 0, fmt.Errorf("%w: label %q is past the last space", models.ErrOutOfRange, label)
	}
	return pos, nil
}

func Label(pos int) string {
	return fmt.Sprintf("%c%d", 'A'+pos/labelColumns, pos%labelColumns)
}
