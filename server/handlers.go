package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/njchilds90/alevel/analyzer"
	"github.com/njchilds90/alevel/formula"
	"github.com/njchilds90/alevel/history"
	"github.com/njchilds90/alevel/simulation"
)

// ============================================================
// Tool calls
// ============================================================

func toolKind(tool string) (history.Kind, bool) {
	switch tool {
	case "analyze":
		return history.KindAnalysis, true
	case "formula":
		return history.KindFormula, true
	case "diff", "integrate", "evaluate", "limit", "solve":
		return history.KindCalculus, true
	}
	return "", false
}

// handleTool mirrors the agent tool protocol: a malformed envelope is a
// 400, but a failing tool is a 200 carrying an error field.
func (s *Server) handleTool(c *gin.Context) {
	dec := jsonDecoder(c)
	var req ToolRequest
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Code: "BODY_TOO_LARGE"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: trailing data", Code: "INVALID_REQUEST"})
		return
	}

	resp := s.tools.Handle(req)
	outcome := "ok"
	if resp.Error != "" {
		outcome = "error"
	}
	toolCalls.WithLabelValues(req.Tool, outcome).Inc()
	if rep, ok := resp.Result.(*analyzer.Report); ok {
		countFacetErrors(rep)
	}

	if kind, ok := toolKind(req.Tool); ok && resp.Error == "" {
		s.record(c, userOf(c, ""), kind, req.Tool+" "+mustJSON(req.Params), resp.String)
	}
	c.JSON(http.StatusOK, resp)
}

func countFacetErrors(rep *analyzer.Report) {
	for _, ferr := range rep.Errors() {
		facetErrors.WithLabelValues(ferr.Facet).Inc()
	}
}

// ============================================================
// Analysis
// ============================================================

type AnalyzeRequest struct {
	Expression string            `json:"expression" binding:"required"`
	Min        *float64          `json:"min" binding:"required"`
	Max        *float64          `json:"max" binding:"required"`
	Options    *analyzer.Options `json:"options"`
	User       string            `json:"user"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}
	opts := analyzer.AllFacets()
	if req.Options != nil {
		opts = *req.Options
	}
	iv := analyzer.Interval{Min: *req.Min, Max: *req.Max}
	rep, err := s.analyzer.Analyze(req.Expression, iv, opts)
	if err != nil {
		var perr *analyzer.ParseError
		var rerr *analyzer.RangeError
		switch {
		case errors.As(err, &perr):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "PARSE_ERROR"})
		case errors.As(err, &rerr):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_RANGE"})
		default:
			s.logger(c).Error("analysis failed", "expression", req.Expression, "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "ANALYSIS_FAILED"})
		}
		return
	}
	countFacetErrors(rep)
	s.record(c, userOf(c, req.User), history.KindAnalysis,
		fmt.Sprintf("f(%s) = %s on [%g, %g]", s.analyzer.Config().Variable, req.Expression, iv.Min, iv.Max),
		rep.String())
	c.JSON(http.StatusOK, rep)
}

// ============================================================
// Formulas
// ============================================================

func (s *Server) handleListFormulas(c *gin.Context) {
	subject := formula.Subject(c.Query("subject"))
	topic := c.Query("topic")

	var out []formula.Formula
	switch {
	case subject != "" && topic != "":
		out = s.formulas.ByTopic(subject, topic)
	default:
		for _, f := range s.formulas.All() {
			if subject != "" && !strings.EqualFold(string(f.Subject), string(subject)) {
				continue
			}
			if topic != "" && f.Topic != topic {
				continue
			}
			out = append(out, f)
		}
	}
	resp := gin.H{"formulas": out, "count": len(out)}
	if subject != "" && topic == "" {
		resp["topics"] = s.formulas.Topics(subject)
	}
	c.JSON(http.StatusOK, resp)
}

type FormulaRequest struct {
	Inputs map[string]float64 `json:"inputs"`
	User   string             `json:"user"`
}

func (s *Server) handleEvaluateFormula(c *gin.Context) {
	id := formula.ID(c.Param("id"))
	var req FormulaRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := s.formulas.Evaluate(id, req.Inputs)
	if err != nil {
		var ierr *formula.InputError
		var derr *formula.DomainError
		switch {
		case errors.Is(err, formula.ErrUnknownFormula):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "UNKNOWN_FORMULA"})
		case errors.As(err, &ierr):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_INPUT"})
		case errors.As(err, &derr):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "DOMAIN_ERROR"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "FORMULA_FAILED"})
		}
		return
	}
	s.record(c, userOf(c, req.User), history.KindFormula, string(id)+" "+mustJSON(req.Inputs), res.String())
	c.JSON(http.StatusOK, res)
}

// ============================================================
// Simulations
// ============================================================

const defaultFrames = 60

type projectileRequest struct {
	simulation.Projectile
	Frames int    `json:"frames"`
	User   string `json:"user"`
}

type pendulumRequest struct {
	simulation.Pendulum
	Frames   int     `json:"frames"`
	Duration float64 `json:"duration"`
	User     string  `json:"user"`
}

type circuitRequest struct {
	simulation.Circuit
	User string `json:"user"`
}

type waveRequest struct {
	simulation.Wave
	User string `json:"user"`
}

func (s *Server) handleSimulation(c *gin.Context) {
	kind := c.Param("kind")
	var (
		sum   simulation.Summary
		user  string
		input any
		err   error
	)
	switch kind {
	case "projectile":
		req := projectileRequest{Projectile: simulation.Projectile{Gravity: 9.81}, Frames: defaultFrames}
		if !bindJSON(c, &req) {
			return
		}
		user, input = req.User, req.Projectile
		if sum, err = req.Summary(); err == nil {
			sum.Frames, err = req.Projectile.Frames(req.Frames)
		}
	case "pendulum":
		req := pendulumRequest{Pendulum: simulation.Pendulum{Gravity: 9.81}, Frames: defaultFrames}
		if !bindJSON(c, &req) {
			return
		}
		user, input = req.User, req.Pendulum
		if req.Duration == 0 && req.Length > 0 && req.Gravity > 0 {
			req.Duration = 2 * req.Period()
		}
		if sum, err = req.Summary(); err == nil {
			sum.Frames, err = req.Pendulum.Frames(req.Frames, req.Duration)
		}
	case "circuit":
		var req circuitRequest
		if !bindJSON(c, &req) {
			return
		}
		user, input = req.User, req.Circuit
		sum, err = req.Summary()
	case "wave":
		var req waveRequest
		if !bindJSON(c, &req) {
			return
		}
		user, input = req.User, req.Wave
		sum, err = req.Summary()
	default:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown simulation: " + kind, Code: "UNKNOWN_SIMULATION"})
		return
	}

	if err != nil {
		var perr *simulation.ParamError
		if errors.As(err, &perr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_PARAMETER"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "SIMULATION_FAILED"})
		return
	}
	s.record(c, userOf(c, user), history.KindSimulation, kind+" "+mustJSON(input), strings.Join(sum.Lines, "\n"))
	c.JSON(http.StatusOK, sum)
}

// ============================================================
// History
// ============================================================

func (s *Server) storeAvailable(c *gin.Context) bool {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "history is disabled", Code: "HISTORY_DISABLED"})
		return false
	}
	return true
}

func (s *Server) handleListHistory(c *gin.Context) {
	if !s.storeAvailable(c) {
		return
	}
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Code: "INVALID_REQUEST"})
			return
		}
		limit = n
	}
	recs, err := s.history.List(c.Request.Context(), c.Param("user"), limit)
	if err != nil {
		s.logger(c).Error("history list failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "HISTORY_FAILED"})
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"records": recs, "count": len(recs)})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	if !s.storeAvailable(c) {
		return
	}
	n, err := s.history.Clear(c.Request.Context(), c.Param("user"))
	if err != nil {
		s.logger(c).Error("history clear failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "HISTORY_FAILED"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}
