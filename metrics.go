package genetic_paths

import (
	"errors"
	"fmt"

	gorm "gorm.io/gorm"
)

// RunMetrics holds aggregates over every persisted generation of a run.
type RunMetrics struct {
	Generations          uint
	BestAverageFitness   float32
	BestFitnessFactor    float32
	MeanAverageFitness   float64
	MeanNodeCount        float64
	TotalCrossovers      uint64
	TotalTranslations    uint64
	TotalInsertions      uint64
	TotalDeletions       uint64
	FinalFitnessFactor   float32
	FinalGenerationIndex uint32
}

// QueryMetrics aggregates the generation stats of one run in the database.
func (p *Persistence) QueryMetrics(runID uint) (*RunMetrics, error) {
	var row struct {
		Count        int64
		BestAverage  float64
		BestFactor   float64
		MeanAverage  float64
		MeanNodes    float64
		Crossovers   int64
		Translations int64
		Insertions   int64
		Deletions    int64
	}
	err := p.DB.Raw(`SELECT COUNT(*) AS count,
		COALESCE(MAX(average_fitness), 0) AS best_average,
		COALESCE(MAX(fitness_factor), 0) AS best_factor,
		COALESCE(AVG(average_fitness), 0) AS mean_average,
		COALESCE(AVG(average_node_count), 0) AS mean_nodes,
		COALESCE(SUM(crossover_amount), 0) AS crossovers,
		COALESCE(SUM(translation_mutations), 0) AS translations,
		COALESCE(SUM(insertion_mutations), 0) AS insertions,
		COALESCE(SUM(deletion_mutations), 0) AS deletions
		FROM generation_stats WHERE run_id = ?`, runID).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", runID, err)
	}

	m := &RunMetrics{
		Generations:        uint(row.Count),
		BestAverageFitness: float32(row.BestAverage),
		BestFitnessFactor:  float32(row.BestFactor),
		MeanAverageFitness: row.MeanAverage,
		MeanNodeCount:      row.MeanNodes,
		TotalCrossovers:    uint64(row.Crossovers),
		TotalTranslations:  uint64(row.Translations),
		TotalInsertions:    uint64(row.Insertions),
		TotalDeletions:     uint64(row.Deletions),
	}
	if m.Generations == 0 {
		return m, nil
	}

	var last GenerationStat
	if err := p.DB.Where("run_id = ?", runID).Order("generation_number desc").First(&last).Error; err != nil {
		return nil, fmt.Errorf("failed to load final generation of run %d: %w", runID, err)
	}
	m.FinalFitnessFactor = last.FitnessFactor
	m.FinalGenerationIndex = last.GenerationNumber
	return m, nil
}

// QueryStats returns a run's generation stats in generation order.
func (p *Persistence) QueryStats(runID uint) ([]GenerationStat, error) {
	var stats []GenerationStat
	if err := p.DB.Where("run_id = ?", runID).Order("generation_number asc").Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("run %d: %w", runID, err)
	}
	return stats, nil
}

// QueryBestGeneration finds the generation with the highest average
// fitness. Returns nil, nil if the run has no generations.
func (p *Persistence) QueryBestGeneration(runID uint) (*GenerationStat, error) {
	best := &GenerationStat{}
	err := p.DB.Where("run_id = ?", runID).
		Order("average_fitness desc").Order("generation_number asc").
		First(best).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", runID, err)
	}
	return best, nil
}
