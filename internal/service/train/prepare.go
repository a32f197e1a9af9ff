package train

import (
	"log"

	"github.com/sibyl-lab/sibyl-sft/internal/service/dataset"
)

// PrepareResult reports where the prepared split landed and how big each half
// is.
type PrepareResult struct {
	TrainPath  string
	ValidPath  string
	TrainCount int
	ValidCount int
	MetaCount  int
}

// Prepare converts the source JSONL into the trainer's data layout: validate
// every record for training, split 90/10, and write train.jsonl/valid.jsonl
// under outDir. The metadata sidecar next to the source is counted
// best-effort; its schema is owned by the external record producer.
func Prepare(dataPath, outDir string) (PrepareResult, error) {
	records, err := dataset.LoadForTraining(dataPath)
	if err != nil {
		return PrepareResult{}, err
	}

	split, err := dataset.SplitRecords(records)
	if err != nil {
		return PrepareResult{}, err
	}

	trainPath, validPath, err := split.Write(outDir)
	if err != nil {
		return PrepareResult{}, err
	}

	meta := dataset.LoadSidecar(dataset.SidecarPath(dataPath))

	log.Printf("[train] prepared %d train / %d valid records under %s", len(split.Train), len(split.Valid), outDir)
	if len(meta) > 0 {
		log.Printf("[train] metadata sidecar: %d entries", len(meta))
	}

	return PrepareResult{
		TrainPath:  trainPath,
		ValidPath:  validPath,
		TrainCount: len(split.Train),
		ValidCount: len(split.Valid),
		MetaCount:  len(meta),
	}, nil
}
