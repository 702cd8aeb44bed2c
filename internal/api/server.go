package api

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vives-ai/synergie-optimalisation-algorithms/internal/database"
	"github.com/vives-ai/synergie-optimalisation-algorithms/internal/ioformat"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/adhoc"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/alns"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/builder"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

// Server represents the planning API server.
type Server struct {
	router *gin.Engine
	repo   *database.Repository
	port   string

	mu map[string]*runState
}

// runState holds the in-memory planning and synthesizer for a run that
// has been submitted but whose ALNS search hasn't necessarily finished.
// Runs and their derived records are persisted through repo; this map
// only keeps what's needed to drive a running or just-finished search.
type runState struct {
	planning *planning.Planning
	synth    *adhoc.Synthesizer
	result   *alns.Result
}

// NewServer creates a new API server.
func NewServer(repo *database.Repository, port string) *Server {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(config))

	server := &Server{
		router: router,
		repo:   repo,
		port:   port,
		mu:     make(map[string]*runState),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Static("/static", "./web")
	s.router.StaticFile("/", "./web/index.html")

	api := s.router.Group("/api/v1")

	api.GET("/health", s.healthCheck)

	api.GET("/runs", s.listRuns)
	api.GET("/runs/:id", s.getRun)
	api.POST("/runs", s.createRun)
	api.DELETE("/runs/:id", s.deleteRun)
	api.POST("/runs/:id/solve", s.solveRun)

	api.GET("/runs/:id/iterations", s.getIterations)
	api.GET("/runs/:id/legs", s.getLegsUse)
	api.GET("/runs/:id/adhoc-legs", s.getAdhocLegs)
	api.GET("/runs/:id/routes", s.getRoutes)
	api.GET("/runs/:id/summary", s.getRunSummary)
}

// Start starts the server.
func (s *Server) Start() error {
	return s.router.Run(":" + s.port)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now(),
	})
}

func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.repo.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	id := c.Param("id")
	run, err := s.repo.GetRun(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// createRun ingests a planning input document, builds its Planning, and
// stores a new run record. Solving is triggered separately via POST
// .../solve so large instances don't block on a single request.
func (s *Server) createRun(c *gin.Context) {
	var req struct {
		Name         string             `json:"name"`
		Description  string             `json:"description"`
		PeriodeStart time.Time          `json:"periode_start"`
		Input        ioformat.JSONInput `json:"input"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, synth, err := req.Input.ToPlanning(req.Name, req.PeriodeStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := database.NewRunID()
	run := &database.Run{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   time.Now(),
		Status:      "created",
	}
	if err := s.repo.CreateRun(run); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.mu[id] = &runState{planning: p, synth: synth}
	c.JSON(http.StatusCreated, run)
}

// solveRun runs the ALNS search against a previously created run's
// planning and persists the resulting iteration history, routes, and
// leg usage.
func (s *Server) solveRun(c *gin.Context) {
	id := c.Param("id")
	state, ok := s.mu[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run has no pending planning; create it first"})
		return
	}

	var req struct {
		Iterations int   `json:"iterations"`
		Seed       int64 `json:"seed"`
	}
	_ = c.ShouldBindJSON(&req)

	cfg := alns.DefaultConfig()
	if req.Iterations > 0 {
		cfg.Iterations = req.Iterations
	}
	cfg.Seed = req.Seed

	rng := rand.New(rand.NewSource(cfg.Seed))
	b := builder.New(state.planning, state.synth, rng)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	result, err := alns.Run(ctx, state.planning, b, cfg)
	if err != nil && err != context.DeadlineExceeded {
		_ = s.repo.FinishRun(id, "failed", 0, 0)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	state.result = result

	if err := s.repo.FinishRun(id, "completed", result.InitialCost, result.BestCost); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	records := make([]database.IterationRecord, 0, len(result.History))
	for _, h := range result.History {
		records = append(records, database.IterationRecord{
			RunID: id, Iteration: h.Iteration, Timestamp: time.Now(),
			DestroyOperator: h.Destroy, RepairOperator: h.Repair,
			Objective: h.Objective, Outcome: h.Outcome.String(),
		})
	}
	if err := s.repo.BatchSaveIterationRecords(records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.persistRoutesAndUsage(id, result.Best); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"initial_cost": result.InitialCost,
		"best_cost":    result.BestCost,
		"iterations":   len(result.History),
	})
}

func (s *Server) persistRoutesAndUsage(runID string, best *planning.Planning) error {
	perOrder := best.UniekeTrajectenPerOrder()
	var routeRecords []database.RouteRecord
	for orderID, routes := range perOrder {
		for _, agg := range routes {
			idStr := ""
			for i, capID := range agg.Traject {
				if i > 0 {
					idStr += ","
				}
				idStr += strconv.Itoa(capID)
			}
			routeRecords = append(routeRecords, database.RouteRecord{
				RunID: runID, OrderID: orderID, LegCapacityIDs: idStr,
				Aantal: agg.Aantal, Prijs: agg.Prijs, Emissie: agg.Emissie, Boete: agg.Boete,
			})
		}
	}
	if err := s.repo.BatchSaveRouteRecords(routeRecords); err != nil {
		return err
	}

	usage := ioformat.LegsUse(best)
	usageRecords := make([]database.LegUsageRecord, 0, len(usage))
	for _, u := range usage {
		usageRecords = append(usageRecords, database.LegUsageRecord{
			RunID: runID, LegCapacityID: u.LegCapacityID,
			Van: u.Van, Naar: u.Naar, ContainerType: u.ContainerType,
			Aantal: u.Aantal, Gebruikt: u.Gebruikt,
		})
	}
	return s.repo.BatchSaveLegUsageRecords(usageRecords)
}

func (s *Server) deleteRun(c *gin.Context) {
	id := c.Param("id")
	if err := s.repo.DeleteRun(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	delete(s.mu, id)
	c.JSON(http.StatusOK, gin.H{"message": "run deleted"})
}

func (s *Server) getIterations(c *gin.Context) {
	id := c.Param("id")
	limit := 0
	if l := c.Query("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}
	recs, err := s.repo.GetIterationRecords(id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *Server) getLegsUse(c *gin.Context) {
	id := c.Param("id")
	recs, err := s.repo.GetLegUsageRecords(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *Server) getAdhocLegs(c *gin.Context) {
	id := c.Param("id")
	state, ok := s.mu[id]
	if !ok || state.result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run has no solved planning"})
		return
	}
	c.JSON(http.StatusOK, ioformat.AdhocLegs(state.result.Best))
}

func (s *Server) getRoutes(c *gin.Context) {
	id := c.Param("id")
	orderID := 0
	if o := c.Query("order_id"); o != "" {
		orderID, _ = strconv.Atoi(o)
	}
	recs, err := s.repo.GetRouteRecords(id, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *Server) getRunSummary(c *gin.Context) {
	id := c.Param("id")
	summary, err := s.repo.GetRunSummary(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
