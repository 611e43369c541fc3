package genetic_paths

import (
	"fmt"
	"image/color"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/dustin/go-humanize"
)

type GenerationStats struct {
	DeletionMutations    uint32
	InsertionMutations   uint32
	TranslationMutations uint32
	AverageNodeCount     float32
	AverageFitness       float32
	CrossoverAmount      uint32
	FitnessFactor        float32
	GenerationNumber     uint32
	MaximumFitness       float32
}

// PathSnapshot is the part of a path that survives into history.
type PathSnapshot struct {
	Points    []math32.Vector3
	Color     color.RGBA
	IsFittest bool
}

// GenerationRecord is an immutable snapshot of one finished generation.
type GenerationRecord struct {
	Generation uint32
	Paths      []PathSnapshot
	Stats      GenerationStats
}

func NewGenerationRecord(generation uint32, paths []*Path, stats GenerationStats) *GenerationRecord {
	record := &GenerationRecord{
		Generation: generation,
		Paths:      make([]PathSnapshot, len(paths)),
		Stats:      stats,
	}
	for i, path := range paths {
		points := make([]math32.Vector3, len(path.Points))
		copy(points, path.Points)
		record.Paths[i] = PathSnapshot{
			Points:    points,
			Color:     path.Color,
			IsFittest: path.IsFittest,
		}
	}
	return record
}

// NodeCount is the total number of points over every path in the record.
func (gr *GenerationRecord) NodeCount() int {
	count := 0
	for _, p := range gr.Paths {
		count += len(p.Points)
	}
	return count
}

func (gs GenerationStats) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generation #%s\n", humanize.Comma(int64(gs.GenerationNumber)))
	fmt.Fprintf(&sb, "Average amount of nodes: %.2f\n", gs.AverageNodeCount)
	fmt.Fprintf(&sb, "Fitness factor: %.4f\n", gs.FitnessFactor)
	fmt.Fprintf(&sb, "Maximum fitness: %.2f\n", gs.MaximumFitness)
	fmt.Fprintf(&sb, "Average fitness: %.2f\n", gs.AverageFitness)
	fmt.Fprintf(&sb, "Amount of deletion mutations: %s\n", humanize.Comma(int64(gs.DeletionMutations)))
	fmt.Fprintf(&sb, "Amount of insertion mutations: %s\n", humanize.Comma(int64(gs.InsertionMutations)))
	fmt.Fprintf(&sb, "Amount of translation mutations: %s\n", humanize.Comma(int64(gs.TranslationMutations)))
	fmt.Fprintf(&sb, "Amount of reproducing crossovers: %s\n", humanize.Comma(int64(gs.CrossoverAmount)))
	return sb.String()
}

func (gr *GenerationRecord) Text() string {
	fittest := 0
	for _, p := range gr.Paths {
		if p.IsFittest {
			fittest++
		}
	}
	return fmt.Sprintf("%sPaths: %d (%d fittest, %s nodes)\n",
		gr.Stats.Text(), len(gr.Paths), fittest, humanize.Comma(int64(gr.NodeCount())))
}
