package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/internal/projection"
	"github.com/rakhadi/utangku/internal/simulator"
	"go.uber.org/zap"
)

type projectionRequest struct {
	ExtraMonthlyPayment  float64 `json:"extraMonthlyPayment"`
	Strategy             string  `json:"strategy"`
	Mode                 string  `json:"mode"`
	InvestmentReturnRate float64 `json:"investmentReturnRate"`
}

func (s *Server) projectionInput(req projectionRequest) projection.Input {
	in := projection.Input{
		ExtraMonthlyPayment:  req.ExtraMonthlyPayment,
		Strategy:             req.Strategy,
		Mode:                 req.Mode,
		InvestmentReturnRate: req.InvestmentReturnRate,
	}
	if in.Strategy == "" {
		in.Strategy = s.conf.Projection.Strategy
	}
	if in.Mode == "" {
		in.Mode = s.conf.Projection.Mode
	}
	if in.InvestmentReturnRate == 0 {
		in.InvestmentReturnRate = s.conf.Projection.InvestmentReturnRate
	}
	return in
}

// projectionCacheKey hashes the caller, the request parameters, and the
// debts' update timestamps so any edit invalidates the cached projection.
// Debt entries are sorted so the key does not depend on listing order.
func projectionCacheKey(user string, in projection.Input, debts []domain.DebtItem) string {
	entries := make([]string, 0, len(debts))
	for _, d := range debts {
		entries = append(entries, d.ID+"@"+d.UpdatedAt.Format(time.RFC3339Nano))
	}
	sort.Strings(entries)

	h := sha256.New()
	h.Write([]byte(user))
	payload, _ := json.Marshal(in)
	h.Write(payload)
	for _, e := range entries {
		h.Write([]byte(e))
	}
	return "projection:" + hex.EncodeToString(h.Sum(nil))
}

func (s *Server) runProjection(c *gin.Context) {
	var req projectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	in := s.projectionInput(req)

	debts, err := s.debts.ListByUser(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	key := projectionCacheKey(userID(c), in, debts)
	if cached, ok := s.cache.Get(key); ok {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	result := s.projector.Project(debts, in, time.Now())
	body, err := json.Marshal(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.cache.Set(key, string(body)); err != nil {
		s.logger.Warn("projection cache write failed", zap.Error(err))
	}
	c.Data(http.StatusOK, "application/json", body)
}

type compareRequest struct {
	ExtraMonthlyPayment float64 `json:"extraMonthlyPayment"`
}

func (s *Server) compareStrategies(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	debts, err := s.debts.ListByUser(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.projector.Compare(debts, req.ExtraMonthlyPayment, time.Now()))
}

type simulationRequest struct {
	AssetPrice                 float64 `json:"assetPrice"`
	DownPaymentPercent         float64 `json:"downPaymentPercent"`
	InterestRate               float64 `json:"interestRate"`
	TenorYears                 int     `json:"tenorYears"`
	LoanType                   string  `json:"loanType"`
	MonthlyIncome              float64 `json:"monthlyIncome"`
	ExistingMonthlyObligations float64 `json:"existingMonthlyObligations"`
}

func (s *Server) runSimulation(c *gin.Context) {
	var req simulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	category := domain.LoanCategory(req.LoanType)
	result := s.simulator.Simulate(simulator.Input{
		AssetPrice:         req.AssetPrice,
		DownPaymentPercent: req.DownPaymentPercent,
		InterestRate:       req.InterestRate,
		TenorYears:         req.TenorYears,
		LoanType:           category,
		MonthlyIncome:      req.MonthlyIncome,
	}, s.conf.FeesFor(category), s.conf.Simulator.DSRThreshold, req.ExistingMonthlyObligations)
	c.JSON(http.StatusOK, result)
}
