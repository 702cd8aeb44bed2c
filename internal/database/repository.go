package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides data access methods over the planning run schema.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// NewRunID generates a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CreateRun creates a new run record.
func (r *Repository) CreateRun(run *Run) error {
	return r.db.Create(run).Error
}

// GetRun retrieves a run by ID.
func (r *Repository) GetRun(id string) (*Run, error) {
	var run Run
	if err := r.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns lists all runs, most recent first.
func (r *Repository) ListRuns() ([]Run, error) {
	var runs []Run
	err := r.db.Order("created_at DESC").Find(&runs).Error
	return runs, err
}

// FinishRun marks a run completed or failed with its final costs.
func (r *Repository) FinishRun(id string, status string, initialCost, bestCost float64) error {
	now := time.Now()
	return r.db.Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"end_time":     now,
			"status":       status,
			"initial_cost": initialCost,
			"best_cost":    bestCost,
		}).Error
}

// SaveIterationRecord saves one ALNS iteration record.
func (r *Repository) SaveIterationRecord(rec *IterationRecord) error {
	return r.db.Create(rec).Error
}

// BatchSaveIterationRecords saves many iteration records efficiently.
func (r *Repository) BatchSaveIterationRecords(recs []IterationRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.CreateInBatches(recs, 200).Error
}

// GetIterationRecords retrieves a run's iteration history, in order.
func (r *Repository) GetIterationRecords(runID string, limit int) ([]IterationRecord, error) {
	var recs []IterationRecord
	query := r.db.Where("run_id = ?", runID).Order("iteration ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&recs).Error
	return recs, err
}

// SaveRouteRecord saves one order's route record.
func (r *Repository) SaveRouteRecord(rec *RouteRecord) error {
	return r.db.Create(rec).Error
}

// BatchSaveRouteRecords saves many route records efficiently.
func (r *Repository) BatchSaveRouteRecords(recs []RouteRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.CreateInBatches(recs, 200).Error
}

// GetRouteRecords retrieves every route record for a run, optionally
// scoped to one order.
func (r *Repository) GetRouteRecords(runID string, orderID int) ([]RouteRecord, error) {
	var recs []RouteRecord
	query := r.db.Where("run_id = ?", runID)
	if orderID > 0 {
		query = query.Where("order_id = ?", orderID)
	}
	err := query.Order("order_id ASC").Find(&recs).Error
	return recs, err
}

// BatchSaveLegUsageRecords saves many leg-usage records efficiently.
func (r *Repository) BatchSaveLegUsageRecords(recs []LegUsageRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.CreateInBatches(recs, 200).Error
}

// GetLegUsageRecords retrieves every leg-usage record for a run.
func (r *Repository) GetLegUsageRecords(runID string) ([]LegUsageRecord, error) {
	var recs []LegUsageRecord
	err := r.db.Where("run_id = ?", runID).Find(&recs).Error
	return recs, err
}

// GetRunSummary aggregates a run's headline statistics.
func (r *Repository) GetRunSummary(runID string) (map[string]interface{}, error) {
	summary := make(map[string]interface{})

	run, err := r.GetRun(runID)
	if err != nil {
		return nil, err
	}
	summary["run"] = run

	var stats struct {
		IterationCount int64
		BestCount      int64
		RouteCount     int64
	}

	r.db.Model(&IterationRecord{}).Where("run_id = ?", runID).Count(&stats.IterationCount)
	r.db.Model(&IterationRecord{}).Where("run_id = ? AND outcome = ?", runID, "best").Count(&stats.BestCount)
	r.db.Model(&RouteRecord{}).Where("run_id = ?", runID).Count(&stats.RouteCount)

	summary["statistics"] = stats
	return summary, nil
}

// DeleteRun deletes a run and all its related records.
func (r *Repository) DeleteRun(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&IterationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&RouteRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&LegUsageRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Run{}).Error
	})
}

// UpdateRunMetadata updates a run's name and description.
func (r *Repository) UpdateRunMetadata(runID, name, description string) error {
	return r.db.Model(&Run{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
		}).Error
}
