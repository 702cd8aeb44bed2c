package database

import (
	"time"
)

// Run represents a single planning optimisation run.
type Run struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Status      string     `json:"status"` // created, running, completed, failed
	Config      string     `json:"config"` // JSON-encoded alns.Config
	InitialCost float64    `json:"initial_cost"`
	BestCost    float64    `json:"best_cost"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IterationRecord represents one ALNS iteration's operator choice and
// resulting objective value.
type IterationRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RunID     string    `json:"run_id" gorm:"index"`
	Iteration int       `json:"iteration" gorm:"index"`
	Timestamp time.Time `json:"timestamp"`

	DestroyOperator string  `json:"destroy_operator"`
	RepairOperator  string  `json:"repair_operator"`
	Objective       float64 `json:"objective"`
	Outcome         string  `json:"outcome"` // best, better, accepted, rejected

	CreatedAt time.Time `json:"created_at"`
}

// RouteRecord represents one distinct route taken by one or more
// containers of a single order in a run's final planning.
type RouteRecord struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	RunID   string `json:"run_id" gorm:"index"`
	OrderID int    `json:"order_id" gorm:"index"`

	LegCapacityIDs string `json:"leg_capacity_ids"` // comma-joined, travel order
	Aantal         int    `json:"aantal"`
	Prijs          float64 `json:"prijs"`
	Emissie        float64 `json:"emissie"`
	Boete          float64 `json:"boete"`

	CreatedAt time.Time `json:"created_at"`
}

// LegUsageRecord persists one scheduled leg capacity's utilisation at
// the end of a run.
type LegUsageRecord struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	RunID         string `json:"run_id" gorm:"index"`
	LegCapacityID int    `json:"leg_capacity_id"`

	Van           string `json:"van"`
	Naar          string `json:"naar"`
	ContainerType string `json:"containertype"`
	Aantal        int    `json:"aantal"`
	Gebruikt      int    `json:"gebruikt"`

	CreatedAt time.Time `json:"created_at"`
}
