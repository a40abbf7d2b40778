package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/internal/schedule"
	"github.com/rakhadi/utangku/pkg/constants"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// debtPayload is the wire form of a debt. Dates arrive as YYYY-MM-DD strings
// and the step-up schedule arrives as raw JSON so the tolerant domain parser
// handles both the array and string-encoded forms.
type debtPayload struct {
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	OriginalPrincipal  float64         `json:"originalPrincipal"`
	RemainingPrincipal float64         `json:"remainingPrincipal"`
	InterestRate       float64         `json:"interestRate"`
	StartDate          string          `json:"startDate"`
	EndDate            string          `json:"endDate"`
	DueDay             int             `json:"dueDate"`
	MonthlyPayment     float64         `json:"monthlyPayment"`
	InterestStrategy   string          `json:"interestStrategy"`
	StepUpSchedule     json.RawMessage `json:"stepUpSchedule"`
}

// validateDebtBody runs the JSON schema over the raw body and, on success,
// decodes it. Schema errors are returned to the caller verbatim.
func (s *Server) validateDebtBody(c *gin.Context) (*debtPayload, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return nil, false
	}

	result, err := s.debtSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return nil, false
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": details})
		return nil, false
	}

	var payload debtPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return nil, false
	}
	return &payload, true
}

func (p *debtPayload) toDebt(userID, id string) (*domain.DebtItem, error) {
	startDate, err := time.Parse(constants.DateLayout, p.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(constants.DateLayout, p.EndDate)
	if err != nil {
		return nil, err
	}

	remaining := p.RemainingPrincipal
	if remaining <= 0 {
		remaining = p.OriginalPrincipal
	}

	return &domain.DebtItem{
		ID:                 id,
		UserID:             userID,
		Name:               p.Name,
		Category:           domain.LoanCategory(p.Category),
		OriginalPrincipal:  p.OriginalPrincipal,
		RemainingPrincipal: remaining,
		InterestRate:       p.InterestRate,
		StartDate:          startDate,
		EndDate:            endDate,
		DueDay:             p.DueDay,
		MonthlyPayment:     p.MonthlyPayment,
		InterestStrategy:   p.InterestStrategy,
		StepUpSchedule:     domain.ParseStepUpSchedule(p.StepUpSchedule),
		UpdatedAt:          time.Now(),
	}, nil
}

func (s *Server) createDebt(c *gin.Context) {
	payload, ok := s.validateDebtBody(c)
	if !ok {
		return
	}

	debt, err := payload.toDebt(userID(c), uuid.NewString())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.debts.Create(debt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("debt created",
		zap.String("debtId", debt.ID),
		zap.String("category", string(debt.Category)),
	)
	c.JSON(http.StatusCreated, debt)
}

func (s *Server) listDebts(c *gin.Context) {
	debts, err := s.debts.ListByUser(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, debts)
}

func (s *Server) getDebt(c *gin.Context) {
	debt, err := s.debts.GetByID(userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, debt)
}

func (s *Server) updateDebt(c *gin.Context) {
	existing, err := s.debts.GetByID(userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload, ok := s.validateDebtBody(c)
	if !ok {
		return
	}
	debt, err := payload.toDebt(existing.UserID, existing.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.debts.Update(debt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, debt)
}

func (s *Server) deleteDebt(c *gin.Context) {
	if err := s.debts.SoftDelete(userID(c), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// getSchedule returns the merged amortization schedule for one debt together
// with its summary. ?autoPayHistory=true marks past-due periods as paid
// instead of overdue.
func (s *Server) getSchedule(c *gin.Context) {
	debt, err := s.debts.GetByID(userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	existing, err := s.installments.ListByDebt(debt.UserID, debt.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	autoPayHistory := c.Query("autoPayHistory") == "true"
	installments := s.generator.Generate(debt, existing, autoPayHistory, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"schedule": installments,
		"summary":  schedule.Summarize(installments),
	})
}

type installmentPayload struct {
	Period           int     `json:"period"`
	Status           string  `json:"status"`
	Amount           float64 `json:"amount"`
	PrincipalPart    float64 `json:"principalPart"`
	InterestPart     float64 `json:"interestPart"`
	RemainingBalance float64 `json:"remainingBalance"`
	DueDate          string  `json:"dueDate"`
}

// upsertInstallment records a payment action (or a manual correction) for one
// period. The stored record becomes authoritative in subsequent schedules.
func (s *Server) upsertInstallment(c *gin.Context) {
	debt, err := s.debts.GetByID(userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var payload installmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	dueDate := time.Time{}
	if payload.DueDate != "" {
		dueDate, err = time.Parse(constants.DateLayout, payload.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	status := domain.InstallmentStatus(payload.Status)
	if status == "" {
		status = domain.StatusPaid
	}

	installment := &domain.DebtInstallment{
		ID:               domain.InstallmentID(debt.ID, payload.Period),
		DebtID:           debt.ID,
		UserID:           debt.UserID,
		Period:           payload.Period,
		DueDate:          dueDate,
		Amount:           payload.Amount,
		PrincipalPart:    payload.PrincipalPart,
		InterestPart:     payload.InterestPart,
		RemainingBalance: payload.RemainingBalance,
		Status:           status,
	}
	if err := s.installments.Upsert(installment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, installment)
}
