// Package api exposes the on-cost engine as a JSON HTTP API.
//
// Errors are returned as ErrorResponse with:
//   - 400 for malformed or invalid input
//   - 404 for unknown grades
//   - 413 for bodies over 64 KiB
//   - 422 for well-formed requests the tables cannot answer
//   - 500 for anything else
package api

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/compare"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/config"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Handler holds all dependencies for HTTP handlers. The engine's tables are
// read-only, so handlers share it without locking.
type Handler struct {
	Engine  *calculation.Engine
	Compare *compare.CompareEngine
	Parser  *config.InputParser
	Logger  calculation.Logger
}

// NewHandler creates a handler over engine.
func NewHandler(engine *calculation.Engine, logger calculation.Logger) *Handler {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Handler{
		Engine:  engine,
		Compare: compare.NewCompareEngine(engine),
		Parser:  config.NewInputParser(),
		Logger:  logger,
	}
}

func (h *Handler) today() time.Time {
	if h.Engine.Now != nil {
		return dateutil.Normalize(h.Engine.Now())
	}
	return dateutil.Today()
}

// =============================================================================
// TABLE HANDLERS
// =============================================================================

// Healthz reports that the server is up.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListGrades returns every grade in the salary scales.
func (h *Handler) ListGrades(w http.ResponseWriter, r *http.Request) {
	grades := h.Engine.Scales.Grades()
	dtos := make([]GradeDTO, 0, len(grades))
	for _, g := range grades {
		scale, err := h.Engine.Scales.ScaleForGrade(g)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		start, err := h.Engine.Scales.StartingPointForGrade(g)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		dtos = append(dtos, GradeDTO{Grade: string(g), StartingPoint: start, Points: len(scale)})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetScale returns a grade's scale with the salaries in effect on the date
// query parameter, or today.
func (h *Handler) GetScale(w http.ResponseWriter, r *http.Request) {
	grade, err := domain.ParseGrade(chi.URLParam(r, "grade"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown grade", err)
		return
	}
	scale, err := h.Engine.Scales.ScaleForGrade(grade)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown grade", err)
		return
	}

	date := h.today()
	if q := r.URL.Query().Get("date"); q != "" {
		if date, err = dateutil.Parse(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}
	effective, mapping, err := h.Engine.Scales.MappingForDate(date)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dto := ScaleDTO{
		Grade:            string(grade),
		Date:             dateutil.Format(date),
		MappingTableDate: dateutil.Format(effective),
		Points:           make([]ScalePointDTO, len(scale)),
	}
	for i, sp := range scale {
		dto.Points[i] = ScalePointDTO{Name: sp.Name, Point: sp.Point, IsContribution: sp.IsContribution, Salary: mapping[sp.Point]}
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListSchemes returns every pension scheme with the rates in effect today.
func (h *Handler) ListSchemes(w http.ResponseWriter, r *http.Request) {
	today := h.today()
	schemes := h.Engine.Pensions.Schemes()
	dtos := make([]SchemeDTO, 0, len(schemes))
	for _, s := range schemes {
		schedule, err := h.Engine.Pensions.Schedule(s)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		dto := SchemeDTO{Scheme: string(s), Description: schedule.Description, SalaryExchange: schedule.SalaryExchange}
		if rate, err := schedule.RateOn(today); err == nil {
			dto.EmployerRate = rational.ToDecimal(rate.Employer, 4).String()
			dto.EmployeeRate = rational.ToDecimal(rate.Employee, 4).String()
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Cost costs a single salary for one tax year.
func (h *Handler) Cost(w http.ResponseWriter, r *http.Request) {
	var req CostRequest
	if !decode(w, r, &req) {
		return
	}
	scheme, err := domain.ParseScheme(req.Scheme)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scheme", err)
		return
	}
	if req.Salary < 0 {
		writeError(w, http.StatusBadRequest, "Salary must not be negative", fmt.Errorf("salary %d is negative", req.Salary))
		return
	}

	var employee, employer *big.Rat
	if req.EmployeeContribution != nil {
		employee = rational.FromDecimal(*req.EmployeeContribution)
	}
	if req.EmployerContribution != nil {
		employer = rational.FromDecimal(*req.EmployerContribution)
	}
	cost, err := h.Engine.CalculateCostWithContributions(req.Salary, scheme, req.Year, employee, employer)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}

// Progression returns the salary history of an employment.
func (h *Handler) Progression(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.decodeEmployment(w, r)
	if !ok {
		return
	}
	records, err := h.Engine.EmploymentProgression(emp)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSalaryRecordDTOs(records))
}

// Costs returns the cost of each tax year of an employment.
func (h *Handler) Costs(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.decodeEmployment(w, r)
	if !ok {
		return
	}
	years, err := h.Engine.EmploymentCosts(emp)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	for _, y := range years {
		if y.Substituted() {
			h.Logger.Infof("tax year %d costed with the %d NIC table", y.Year, y.Cost.TaxYear)
		}
	}
	writeJSON(w, http.StatusOK, toYearCostDTOs(years))
}

// Commitments splits the cost of an employment into expenditure and
// commitment at its from date, or today.
func (h *Handler) Commitments(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.decodeEmployment(w, r)
	if !ok {
		return
	}
	if emp.FromDate.IsZero() {
		emp.FromDate = h.today()
	}
	c, err := h.Engine.EmploymentCommitments(emp)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dto := CommitmentsDTO{
		FromDate:         dateutil.Format(emp.FromDate),
		TotalExpenditure: c.TotalExpenditure,
		TotalCommitment:  c.TotalCommitment,
		Explanations:     make([]CommitmentDTO, len(c.Explanations)),
	}
	for i, e := range c.Explanations {
		dto.Explanations[i] = CommitmentDTO{
			TaxYear:      e.TaxYear,
			Salary:       e.Salary,
			SalaryToCome: e.SalaryToCome,
			Expenditure:  e.Expenditure,
			Commitment:   e.Commitment,
			Cost:         e.Cost,
			Salaries:     toSalaryRecordDTOs(e.Salaries),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// CompareSchemes costs an employment under several pension schemes.
func (h *Handler) CompareSchemes(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decode(w, r, &req) {
		return
	}
	emp, ok := h.employment(w, req.Employment)
	if !ok {
		return
	}

	opts := compare.CompareOptions{}
	if req.BaseScheme != "" {
		base, err := domain.ParseScheme(req.BaseScheme)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid base_scheme", err)
			return
		}
		opts.BaseScheme = base
	}
	for _, s := range req.Schemes {
		scheme, err := domain.ParseScheme(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid schemes", err)
			return
		}
		opts.Schemes = append(opts.Schemes, scheme)
	}

	compSet, err := h.Compare.Compare(r.Context(), emp, opts)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compSet)
}

// =============================================================================
// HELPERS
// =============================================================================

// maxBodyBytes bounds request bodies. An employment is well under 1KB.
const maxBodyBytes = 64 << 10

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func (h *Handler) decodeEmployment(w http.ResponseWriter, r *http.Request) (*domain.Employment, bool) {
	var req EmploymentRequest
	if !decode(w, r, &req) {
		return nil, false
	}
	return h.employment(w, req)
}

func (h *Handler) employment(w http.ResponseWriter, req EmploymentRequest) (*domain.Employment, bool) {
	emp, err := req.toEmployment()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return nil, false
	}
	h.Parser.ApplyEmploymentDefaults(emp)
	if err := h.Parser.ValidateEmployment(emp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employment", err)
		return nil, false
	}
	return emp, true
}

var unprocessable = []error{
	domain.ErrUnknownGrade,
	domain.ErrPointNotInGrade,
	domain.ErrDateTooEarly,
	domain.ErrInvalidArgument,
	domain.ErrUnsupportedTaxYear,
	domain.ErrUnknownScheme,
	domain.ErrNoSalary,
}

// writeEngineError answers 422 for errors the caller can fix by asking a
// different question and 500 otherwise.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			writeError(w, http.StatusUnprocessableEntity, "Calculation failed", err)
			return
		}
	}
	h.Logger.Errorf("calculation failed: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal error", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
