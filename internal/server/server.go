// Package server exposes the schedule generator, projector, and simulator
// over HTTP.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/rakhadi/utangku/internal/cache"
	"github.com/rakhadi/utangku/internal/config"
	"github.com/rakhadi/utangku/internal/projection"
	"github.com/rakhadi/utangku/internal/schedule"
	"github.com/rakhadi/utangku/internal/simulator"
	"github.com/rakhadi/utangku/internal/store"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// debtSchema validates create/update payloads, including the step-up schedule
// shape. The stepUpSchedule field also accepts a string because synced rows
// may carry the ranges JSON-encoded.
const debtSchema = `{
	"type": "object",
	"required": ["name", "category", "originalPrincipal", "startDate", "endDate"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 200},
		"category": {"type": "string", "enum": ["KPR", "KENDARAAN", "KTA", "KARTU_KREDIT"]},
		"originalPrincipal": {"type": "number", "exclusiveMinimum": 0},
		"remainingPrincipal": {"type": "number", "minimum": 0},
		"interestRate": {"type": "number", "minimum": 0},
		"startDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"endDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"dueDate": {"type": "integer", "minimum": 1, "maximum": 31},
		"monthlyPayment": {"type": "number", "minimum": 0},
		"interestStrategy": {"type": "string"},
		"stepUpSchedule": {
			"oneOf": [
				{"type": "string"},
				{
					"type": "array",
					"items": {
						"type": "object",
						"required": ["startMonth", "endMonth", "amount"],
						"properties": {
							"startMonth": {"type": "integer", "minimum": 1},
							"endMonth": {"type": "integer", "minimum": 1},
							"amount": {"type": "number", "minimum": 0}
						}
					}
				}
			]
		}
	}
}`

// Server wires the computational core to its HTTP surface.
type Server struct {
	logger       *zap.Logger
	conf         *config.Configuration
	debts        store.DebtRepository
	installments store.InstallmentRepository
	cache        cache.Cache
	generator    *schedule.Generator
	projector    *projection.Projector
	simulator    *simulator.Simulator
	debtSchema   *gojsonschema.Schema
}

// New constructs the gin engine serving the API.
func New(logger *zap.Logger, conf *config.Configuration, debts store.DebtRepository, installments store.InstallmentRepository, c cache.Cache) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.NewMockCache()
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(debtSchema))
	if err != nil {
		panic(err)
	}

	s := &Server{
		logger:       logger,
		conf:         conf,
		debts:        debts,
		installments: installments,
		cache:        c,
		generator:    schedule.NewGenerator(logger),
		projector:    projection.NewProjector(logger),
		simulator:    simulator.NewSimulator(logger),
		debtSchema:   schema,
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	v1 := r.Group("/v1")
	v1.Use(requireUser())
	{
		v1.POST("/debts", s.createDebt)
		v1.GET("/debts", s.listDebts)
		v1.GET("/debts/:id", s.getDebt)
		v1.PUT("/debts/:id", s.updateDebt)
		v1.DELETE("/debts/:id", s.deleteDebt)

		v1.GET("/debts/:id/schedule", s.getSchedule)
		v1.POST("/debts/:id/installments", s.upsertInstallment)

		v1.POST("/projection", s.runProjection)
		v1.POST("/projection/compare", s.compareStrategies)
		v1.POST("/simulate", s.runSimulation)
	}

	return r
}

// requireUser extracts the caller identity set by the upstream auth proxy;
// authentication itself is out of scope here.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing user"})
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
