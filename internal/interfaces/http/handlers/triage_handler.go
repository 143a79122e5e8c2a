package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/application/triage"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// TriageHandler exposes each triage stage as a standalone endpoint for
// previews and back-office tooling; none of them persist anything.
type TriageHandler struct {
	service *triage.Service
	logger  logging.Logger
}

// NewTriageHandler constructs a TriageHandler.
func NewTriageHandler(service *triage.Service, logger logging.Logger) *TriageHandler {
	return &TriageHandler{service: service, logger: logger.Named("triage")}
}

// Register mounts the triage routes.
func (h *TriageHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/triage/resolve", h.Resolve)
	rg.POST("/triage/duplicates", h.CheckDuplicate)
	rg.POST("/triage/severity", h.ScoreSeverity)
	rg.POST("/triage/sla", h.ComputeSLA)
	rg.GET("/jurisdictions/nearby", h.NearbyCandidates)
	rg.POST("/jurisdictions/validate", h.ValidateManualChoice)
}

// ─────────────────────────────────────────────────────────────────────────────
// Stage endpoints
// ─────────────────────────────────────────────────────────────────────────────

type resolveBody struct {
	Location          pointBody `json:"location"`
	MaxDistanceMeters float64   `json:"max_distance_meters"`
}

// Resolve assigns a jurisdiction for a point.
func (h *TriageHandler) Resolve(c *gin.Context) {
	var body resolveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	assignment, err := h.service.ResolveHierarchy(c.Request.Context(), body.Location.toPoint(),
		triage.ResolveOptions{MaxDistanceMeters: body.MaxDistanceMeters})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, assignment)
}

type duplicateCheckBody struct {
	draftBody
	RadiusMeters float64 `json:"radius_meters"`
	WindowDays   int     `json:"window_days"`
}

// CheckDuplicate scores a draft against nearby open complaints.
func (h *TriageHandler) CheckDuplicate(c *gin.Context) {
	var body duplicateCheckBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	draft, err := body.toDraft()
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.service.CheckDuplicate(c.Request.Context(), draft, triage.CandidateOptions{
		RadiusMeters: body.RadiusMeters,
		WindowDays:   body.WindowDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

type severityBody struct {
	draftBody
	Area triage.AreaContext `json:"area"`
}

// ScoreSeverity computes the five-factor severity for a draft.
func (h *TriageHandler) ScoreSeverity(c *gin.Context) {
	var body severityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	draft, err := body.toDraft()
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.service.ScoreSeverity(c.Request.Context(), draft, triage.ScoreOptions{Area: body.Area})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

type slaBody struct {
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// ComputeSLA derives the deadline for a category and evaluates the breach
// predicate at request time.
func (h *TriageHandler) ComputeSLA(c *gin.Context) {
	var body slaBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	if body.CreatedAt.IsZero() {
		respondError(c, errors.InvalidParam("created_at is required"))
		return
	}
	status := complaint.Status(body.Status)
	if body.Status == "" {
		status = complaint.StatusReported
	}
	info := h.service.ComputeSLA(complaint.CategoryName(body.Category), body.CreatedAt, time.Now().UTC(), status)
	respond(c, http.StatusOK, info)
}

// ─────────────────────────────────────────────────────────────────────────────
// Manual jurisdiction selection
// ─────────────────────────────────────────────────────────────────────────────

// NearbyCandidates lists the closest UCs for manual selection.
func (h *TriageHandler) NearbyCandidates(c *gin.Context) {
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		respondError(c, errors.InvalidParam("lon must be a number"))
		return
	}
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respondError(c, errors.InvalidParam("lat must be a number"))
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
			respondError(c, errors.InvalidParam("limit must be a positive integer"))
			return
		}
	}

	candidates, err := h.service.NearbyCandidates(c.Request.Context(),
		pointBody{Lon: lon, Lat: lat}.toPoint(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, candidates)
}

type validateChoiceBody struct {
	UCID     string    `json:"uc_id"`
	Location pointBody `json:"location"`
}

// ValidateManualChoice checks a manually selected UC and returns an advisory
// warning when the choice looks geographically implausible.
func (h *TriageHandler) ValidateManualChoice(c *gin.Context) {
	var body validateChoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	ok, warning, err := h.service.ValidateManualChoice(c.Request.Context(),
		common.ID(body.UCID), body.Location.toPoint())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"valid": ok, "warning": warning})
}
