package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vetlab-backend/internal/extraction"
	"vetlab-backend/internal/inference"
	"vetlab-backend/internal/prompts"
	"vetlab-backend/internal/shared/server/middleware"
	"vetlab-backend/internal/shared/server/respond"
	"vetlab-backend/internal/usage"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.submitAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.PUT("/analyses/:id/values", h.saveReview)
	rg.POST("/analyses/:id/interpret", h.confirmAndInterpret)
}

func (h *Handler) submitAnalysis(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "report file is required", nil)
		return
	}
	if fileHeader.Size > extraction.MaxFileSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 10 MB limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, extraction.MaxFileSize+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}

	in := SubmitInput{
		AnalysisType: c.PostForm("analysis_type"),
		Language:     c.PostForm("language"),
		Patient: Patient{
			Name:       c.PostForm("patient_name"),
			Species:    c.PostForm("patient_species"),
			Breed:      c.PostForm("patient_breed"),
			Age:        c.PostForm("patient_age"),
			Sex:        c.PostForm("patient_sex"),
			Weight:     c.PostForm("patient_weight"),
			Identifier: c.PostForm("patient_identifier"),
			Anamnesis:  c.PostForm("anamnesis"),
		},
		FileName: fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}

	rec, err := h.Svc.SubmitAnalysis(c.Request.Context(), ownerID, in)
	if err != nil {
		respondServiceError(c, err, "failed to submit analysis")
		return
	}
	c.Set("recordId", rec.ID)

	respond.JSON(c, http.StatusCreated, toRecordResponse(rec))
}

func (h *Handler) getAnalysis(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	recordID := c.Param("id")
	if recordID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}
	c.Set("recordId", recordID)

	rec, err := h.Svc.Get(c.Request.Context(), ownerID, recordID)
	if err != nil {
		respondServiceError(c, err, "failed to fetch analysis")
		return
	}
	respond.OK(c, toRecordResponse(rec))
}

func (h *Handler) listAnalyses(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	records, err := h.Svc.List(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		respondServiceError(c, err, "failed to list analyses")
		return
	}

	items := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toRecordResponse(rec))
	}
	respond.OK(c, gin.H{"analyses": items})
}

func (h *Handler) saveReview(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	recordID := c.Param("id")
	if recordID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}
	c.Set("recordId", recordID)

	var req saveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := h.Svc.SaveReview(c.Request.Context(), ownerID, recordID, req.Values)
	if err != nil {
		respondServiceError(c, err, "failed to save review")
		return
	}
	respond.OK(c, toRecordResponse(rec))
}

func (h *Handler) confirmAndInterpret(c *gin.Context) {
	ownerID := middleware.UserIDFromContext(c)
	recordID := c.Param("id")
	if recordID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}
	c.Set("recordId", recordID)

	rec, err := h.Svc.ConfirmAndInterpret(c.Request.Context(), ownerID, recordID)
	if err != nil {
		respondServiceError(c, err, "failed to interpret analysis")
		return
	}
	respond.OK(c, toRecordResponse(rec))
}

func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	var validationErr *ValidationError
	var fileErr *extraction.ValidationError
	var stateErr *StateError
	var resolutionErr *prompts.ResolutionError
	var safetyErr *inference.SafetyError
	var parseErr *inference.ParseError
	var serviceErr *inference.ServiceError

	switch {
	case errors.As(err, &validationErr):
		respond.Error(c, http.StatusBadRequest, "validation_error", validationErr.Error(), []map[string]string{
			{"field": validationErr.Field, "issue": validationErr.Reason},
		})
	case errors.As(err, &fileErr):
		respond.Error(c, http.StatusBadRequest, "validation_error", fileErr.Error(), []map[string]string{
			{"field": fileErr.Field, "issue": fileErr.Reason},
		})
	case errors.Is(err, usage.ErrQuotaExceeded):
		respond.Error(c, http.StatusTooManyRequests, "quota_exceeded", "You've reached your analysis limit. Upgrade your plan to continue.", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
	case errors.Is(err, ErrStageInFlight):
		respond.Error(c, http.StatusConflict, "stage_in_flight", "this analysis is already being processed", nil)
	case errors.As(err, &stateErr):
		respond.Error(c, http.StatusConflict, "invalid_state", stateErr.Error(), nil)
	case errors.As(err, &resolutionErr):
		respond.Error(c, http.StatusInternalServerError, "prompt_unresolved", "no usable prompt is configured for this analysis", nil)
	case errors.As(err, &safetyErr):
		respond.Error(c, http.StatusBadGateway, "safety_blocked", "the model declined to process this content", nil)
	case errors.As(err, &parseErr), errors.Is(err, inference.ErrNoJSON):
		respond.Error(c, http.StatusBadGateway, "unparsable_response", "the model response could not be parsed", nil)
	case errors.As(err, &serviceErr), errors.Is(err, inference.ErrEmptyResponse):
		respond.Error(c, http.StatusBadGateway, "inference_unavailable", "the model service did not return a usable response", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallbackMsg, nil)
	}
}
