package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/application/triage"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ComplaintHandler serves the complaint lifecycle endpoints.
type ComplaintHandler struct {
	service *triage.Service
	logger  logging.Logger
}

// NewComplaintHandler constructs a ComplaintHandler.
func NewComplaintHandler(service *triage.Service, logger logging.Logger) *ComplaintHandler {
	return &ComplaintHandler{service: service, logger: logger.Named("complaints")}
}

// Register mounts the complaint routes.
func (h *ComplaintHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/complaints", h.Submit)
	rg.GET("/complaints/:id", h.Get)
	rg.POST("/complaints/:id/status", h.TransitionStatus)
	rg.POST("/complaints/:id/reopen", h.RequestReopen)
	rg.POST("/complaints/:id/link", h.LinkDuplicate)
	rg.GET("/complaints/:id/sla", h.EvaluateSLA)
}

// ─────────────────────────────────────────────────────────────────────────────
// Request bodies
// ─────────────────────────────────────────────────────────────────────────────

type pointBody struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (p pointBody) toPoint() geo.Point {
	return geo.Point{Lon: p.Lon, Lat: p.Lat}
}

type draftBody struct {
	CitizenID   string    `json:"citizen_id"`
	Description string    `json:"description"`
	Location    pointBody `json:"location"`
	Category    string    `json:"category"`
	Urgency     string    `json:"urgency"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b draftBody) toDraft() (*complaint.Draft, error) {
	return complaint.NewDraft(common.CitizenID(b.CitizenID), b.Description,
		b.Location.toPoint(), b.Category, b.Urgency, b.CreatedAt)
}

type submitBody struct {
	draftBody
	Area     triage.AreaContext `json:"area"`
	AutoLink bool               `json:"auto_link"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Endpoints
// ─────────────────────────────────────────────────────────────────────────────

// Submit runs the full triage pipeline on a complaint draft and persists it.
func (h *ComplaintHandler) Submit(c *gin.Context) {
	var body submitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	draft, err := body.toDraft()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.SubmitComplaint(c.Request.Context(), draft, triage.SubmitOptions{
		Area:     body.Area,
		AutoLink: body.AutoLink,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, result)
}

// Get returns one complaint.
func (h *ComplaintHandler) Get(c *gin.Context) {
	result, err := h.service.GetComplaint(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

type transitionBody struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Note   string `json:"note"`
}

// TransitionStatus moves a complaint through the status machine.
func (h *ComplaintHandler) TransitionStatus(c *gin.Context) {
	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := h.service.TransitionStatus(c.Request.Context(),
		common.ID(c.Param("id")), complaint.Status(body.Status), body.Actor, body.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// RequestReopen raises the reopen flag on a citizen_feedback complaint.
func (h *ComplaintHandler) RequestReopen(c *gin.Context) {
	result, err := h.service.RequestReopen(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

type linkBody struct {
	OriginalID string `json:"original_id"`
}

// LinkDuplicate links this complaint as a duplicate of the original.
func (h *ComplaintHandler) LinkDuplicate(c *gin.Context) {
	var body linkBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	err := h.service.LinkDuplicate(c.Request.Context(),
		common.ID(body.OriginalID), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"original_id":  body.OriginalID,
		"duplicate_id": c.Param("id"),
	})
}

// EvaluateSLA re-evaluates the breach predicate at request time.
func (h *ComplaintHandler) EvaluateSLA(c *gin.Context) {
	info, err := h.service.EvaluateSLA(c.Request.Context(), common.ID(c.Param("id")), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, info)
}
