package dataset

import (
	"github.com/sibyl-lab/sibyl-sft/internal/model/record"
)

// Split is an order-preserving partition of a record sequence: Train is the
// prefix, Valid the suffix, their union the original sequence.
type Split struct {
	Train []record.ChatRecord
	Valid []record.ChatRecord
}

// SplitRecords partitions records at max(1, floor(0.9n)). With a single
// record the validation set comes out empty; that is documented behavior, not
// an error. The formula is kept literally even where it leaves small datasets
// lopsided.
func SplitRecords(records []record.ChatRecord) (Split, error) {
	if len(records) == 0 {
		return Split{}, ErrEmptyDataset
	}

	cut := len(records) * 9 / 10
	if cut < 1 {
		cut = 1
	}

	return Split{
		Train: records[:cut],
		Valid: records[cut:],
	}, nil
}
