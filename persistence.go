package genetic_paths

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	gorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath as PersistenceConfig.Path keeps the database in memory, shared
// by every connection that uses the same Name.
const MemoryPath = ":memory:"

type PersistenceConfig struct {
	Name          string   `toml:"name" yaml:"name"`
	Path          string   `toml:"path" yaml:"path"`
	SQLitePragmas []string `toml:"sqlite_pragmas" yaml:"sqlite_pragmas"`
	SQLiteOptions []string `toml:"sqlite_options" yaml:"sqlite_options"`
}

// Run is one persisted evolution run. History holds the compressed history
// blob; Stats mirrors each generation's numbers so runs can be inspected
// without decoding it.
type Run struct {
	ID              uint
	UUID            string `gorm:"uniqueIndex"`
	CreatedAt       time.Time
	Generations     uint32
	PopulationCount uint32
	History         []byte
	Stats           []GenerationStat
}

type GenerationStat struct {
	ID                   uint
	RunID                uint `gorm:"index"`
	GenerationNumber     uint32
	DeletionMutations    uint32
	InsertionMutations   uint32
	TranslationMutations uint32
	AverageNodeCount     float32
	AverageFitness       float32
	CrossoverAmount      uint32
	FitnessFactor        float32
	MaximumFitness       float32
}

func newGenerationStat(gs GenerationStats) GenerationStat {
	return GenerationStat{
		GenerationNumber:     gs.GenerationNumber,
		DeletionMutations:    gs.DeletionMutations,
		InsertionMutations:   gs.InsertionMutations,
		TranslationMutations: gs.TranslationMutations,
		AverageNodeCount:     gs.AverageNodeCount,
		AverageFitness:       gs.AverageFitness,
		CrossoverAmount:      gs.CrossoverAmount,
		FitnessFactor:        gs.FitnessFactor,
		MaximumFitness:       gs.MaximumFitness,
	}
}

func (s GenerationStat) GenerationStats() GenerationStats {
	return GenerationStats{
		DeletionMutations:    s.DeletionMutations,
		InsertionMutations:   s.InsertionMutations,
		TranslationMutations: s.TranslationMutations,
		AverageNodeCount:     s.AverageNodeCount,
		AverageFitness:       s.AverageFitness,
		CrossoverAmount:      s.CrossoverAmount,
		FitnessFactor:        s.FitnessFactor,
		GenerationNumber:     s.GenerationNumber,
		MaximumFitness:       s.MaximumFitness,
	}
}

type Persistence struct {
	Config *PersistenceConfig
	DB     *gorm.DB
}

func NewPersistence(config *PersistenceConfig) (*Persistence, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if len(config.Path) == 0 {
		return nil, fmt.Errorf("Path to database must be defined")
	}

	if len(config.Name) == 0 {
		return nil, fmt.Errorf("Name of database must be defined")
	}

	db, err := gorm.Open(sqlite.Open(config.dsn()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		return nil, err
	}

	db = db.Session(&gorm.Session{PrepareStmt: true, CreateBatchSize: 1000})

	p := &Persistence{Config: config, DB: db}
	if err = p.initialize(); err != nil {
		return nil, err
	}

	return p, nil
}

func (config *PersistenceConfig) dsn() string {
	params := make([]string, 0, len(config.SQLitePragmas)+len(config.SQLiteOptions)+2)
	for _, prag := range config.SQLitePragmas {
		params = append(params, fmt.Sprintf("_pragma=%s", prag))
	}
	params = append(params, config.SQLiteOptions...)

	var path strings.Builder
	if config.Path == MemoryPath {
		path.WriteString("file:")
		path.WriteString(config.Name)
		params = append(params, "mode=memory", "cache=shared")
	} else {
		path.WriteString(filepath.Join(config.Path, config.Name))
	}
	if len(params) > 0 {
		path.WriteRune('?')
		path.WriteString(strings.Join(params, "&"))
	}
	return path.String()
}

func (p *Persistence) initialize() error {
	if err := p.DB.AutoMigrate(
		&Run{},
		&GenerationStat{},
	); err != nil {
		return err
	}

	return nil
}

func (p *Persistence) Shutdown() {
	if sqldb, err := p.DB.DB(); err != nil {
		log.Fatalf("Failed to retrieve raw DB: %v", err)
	} else {
		sqldb.Close()
	}
}

// SaveHistory stores the history as a new run with a fresh UUID.
func (p *Persistence) SaveHistory(h *HistoryStore) (*Run, error) {
	if h == nil {
		return nil, fmt.Errorf("History cannot be nil")
	}

	blob, err := h.Serialize()
	if err != nil {
		return nil, fmt.Errorf("Failed to serialize history: %w", err)
	}

	run := &Run{
		UUID:        uuid.NewString(),
		Generations: uint32(h.Len()),
		History:     blob,
		Stats:       make([]GenerationStat, 0, h.Len()),
	}
	if latest := h.Latest(); latest != nil {
		run.PopulationCount = uint32(len(latest.Paths))
	}
	for _, record := range h.Records {
		run.Stats = append(run.Stats, newGenerationStat(record.Stats))
	}

	if result := p.DB.Create(run); result.Error != nil {
		return nil, fmt.Errorf("Failed to call gorm.Create(): %w", result.Error)
	}

	return run, nil
}

// LoadLatest returns the most recently saved run, blob included.
func (p *Persistence) LoadLatest() (*Run, error) {
	run := &Run{}
	if err := p.DB.Order("id desc").First(run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRuns
		}
		return nil, fmt.Errorf("Failed to load latest run: %w", err)
	}
	return run, nil
}

// LoadRun finds a run by UUID, or by any unique UUID prefix.
func (p *Persistence) LoadRun(id string) (*Run, error) {
	var runs []Run
	if err := p.DB.Where("uuid LIKE ?", id+"%").Limit(2).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("Failed to load run %s: %w", id, err)
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("run %s: %w", id, ErrNoRuns)
	case 1:
		return &runs[0], nil
	}
	return nil, fmt.Errorf("run id %q is ambiguous", id)
}

// ListRuns returns up to limit runs, newest first, without their blobs.
func (p *Persistence) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	query := p.DB.Omit("history").Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("Failed to list runs: %w", err)
	}
	return runs, nil
}

type PruneResult struct {
	DeletedRuns  int64
	DeletedStats int64
	FreedBytes   uint64
}

// Prune removes every run created before olderThan (when non-zero) and
// every run beyond the newest keepLatest (when positive). With dryRun set
// nothing is deleted and the result describes what would have been.
func (p *Persistence) Prune(olderThan time.Time, keepLatest int, dryRun bool) (*PruneResult, error) {
	var candidates []Run
	if err := p.DB.Select("id", "created_at").Order("id desc").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("Failed to list runs for pruning: %w", err)
	}

	var ids []uint
	for i, run := range candidates {
		tooOld := !olderThan.IsZero() && run.CreatedAt.Before(olderThan)
		beyond := keepLatest > 0 && i >= keepLatest
		if tooOld || beyond {
			ids = append(ids, run.ID)
		}
	}

	result := &PruneResult{}
	if len(ids) == 0 {
		return result, nil
	}

	var freed struct{ Total int64 }
	if err := p.DB.Model(&Run{}).Select("COALESCE(SUM(LENGTH(history)), 0) AS total").
		Where("id IN ?", ids).Scan(&freed).Error; err != nil {
		return nil, fmt.Errorf("Failed to size pruned runs: %w", err)
	}
	result.FreedBytes = uint64(freed.Total)

	if dryRun {
		result.DeletedRuns = int64(len(ids))
		if err := p.DB.Model(&GenerationStat{}).Where("run_id IN ?", ids).Count(&result.DeletedStats).Error; err != nil {
			return nil, fmt.Errorf("Failed to count pruned stats: %w", err)
		}
		return result, nil
	}

	err := p.DB.Transaction(func(tx *gorm.DB) error {
		stats := tx.Where("run_id IN ?", ids).Delete(&GenerationStat{})
		if stats.Error != nil {
			return stats.Error
		}
		runs := tx.Where("id IN ?", ids).Delete(&Run{})
		if runs.Error != nil {
			return runs.Error
		}
		result.DeletedStats = stats.RowsAffected
		result.DeletedRuns = runs.RowsAffected
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to prune runs: %w", err)
	}
	return result, nil
}
