package ui

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gobias/app"
	"gobias/domain/bias"
	"gobias/domain/core"
)

// computeRequest is the JSON API request body. OneSided defaults to true
// when omitted, matching the core call contract.
type computeRequest struct {
	N        int      `json:"n" binding:"required"`
	Expected *float64 `json:"expected" binding:"required"`
	Actual   *float64 `json:"actual" binding:"required"`
	OneSided *bool    `json:"one_sided"`
}

// computeResponse is the JSON API response body
type computeResponse struct {
	Result    *bias.Result `json:"result"`
	Report    string       `json:"report_html"`
	RuntimeMs int64        `json:"runtime_ms"`
}

// formView carries the state the index template renders. On validation
// failure the prior inputs are redisplayed unchanged alongside the message.
type formView struct {
	N        string
	Expected string
	Actual   string
	TwoSided bool
	Error    string
	Result   *bias.Result
	BiasText string
	Report   template.HTML
	Chart    template.HTML
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", formView{N: "10", Expected: "5", Actual: "2"})
}

func (s *Server) handleForm(c *gin.Context) {
	view := formView{
		N:        c.PostForm("n"),
		Expected: c.PostForm("expected"),
		Actual:   c.PostForm("actual"),
		TwoSided: c.PostForm("two_sided") == "on",
	}

	req, err := parseFormRequest(view)
	if err != nil {
		view.Error = err.Error()
		c.HTML(http.StatusOK, "index.html", view)
		return
	}

	resp, err := s.service.ComputeBias(c.Request.Context(), req)
	if err != nil {
		// Leave the submitted values in place so the caller can correct them
		view.Error = err.Error()
		c.HTML(http.StatusOK, "index.html", view)
		return
	}

	view.Result = resp.Result
	view.BiasText = biasText(resp.Result)
	view.Report = template.HTML(resp.ReportHTML)
	view.Chart = template.HTML(resp.ChartSVG)
	c.HTML(http.StatusOK, "index.html", view)
}

func (s *Server) handleComputeAPI(c *gin.Context) {
	var req computeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oneSided := true
	if req.OneSided != nil {
		oneSided = *req.OneSided
	}

	resp, err := s.service.ComputeBias(c.Request.Context(), app.ComputeRequest{
		N:        req.N,
		Expected: *req.Expected,
		Actual:   *req.Actual,
		OneSided: oneSided,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsValidationError(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, computeResponse{
		Result:    resp.Result,
		Report:    string(resp.ReportHTML),
		RuntimeMs: resp.RuntimeMs,
	})
}

// handleChartAPI returns the two-panel SVG chart for query parameters
func (s *Server) handleChartAPI(c *gin.Context) {
	n, err := strconv.Atoi(c.Query("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be an integer"})
		return
	}
	expected, err := strconv.ParseFloat(c.Query("expected"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected must be a number"})
		return
	}
	actual, err := strconv.ParseFloat(c.Query("actual"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actual must be a number"})
		return
	}

	resp, err := s.service.ComputeBias(c.Request.Context(), app.ComputeRequest{
		N:        n,
		Expected: expected,
		Actual:   actual,
		OneSided: c.Query("one_sided") != "false",
	})
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsValidationError(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/svg+xml", resp.ChartSVG)
}

func parseFormRequest(view formView) (app.ComputeRequest, error) {
	n, err := strconv.Atoi(view.N)
	if err != nil {
		return app.ComputeRequest{}, core.NewValidationError("n", "must be an integer")
	}
	expected, err := strconv.ParseFloat(view.Expected, 64)
	if err != nil {
		return app.ComputeRequest{}, core.NewValidationError("expected", "must be a number")
	}
	actual, err := strconv.ParseFloat(view.Actual, 64)
	if err != nil {
		return app.ComputeRequest{}, core.NewValidationError("actual", "must be a number")
	}
	return app.ComputeRequest{
		N:        n,
		Expected: expected,
		Actual:   actual,
		OneSided: !view.TwoSided,
	}, nil
}

func biasText(res *bias.Result) string {
	if res.BiasUnbounded() {
		return "∞"
	}
	return strconv.FormatFloat(float64(res.Bias), 'f', 3, 64)
}
