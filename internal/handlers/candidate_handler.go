package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/devjobs/internal/auth"
	"github.com/justsurfingit/devjobs/internal/dtos"
	"github.com/justsurfingit/devjobs/internal/services"
	"github.com/justsurfingit/devjobs/internal/upload"
)

// multipartOverhead is the room left for the text fields and part headers
// on top of the résumé size limit.
const multipartOverhead = 64 << 10

type CandidateHandler struct {
	VacancyService   *services.VacancyService
	CandidateService *services.CandidateService
	Intake           *upload.Intake
	Logger           *slog.Logger
}

func NewCandidateHandler(v *services.VacancyService, cs *services.CandidateService, intake *upload.Intake, logger *slog.Logger) *CandidateHandler {
	return &CandidateHandler{
		VacancyService:   v,
		CandidateService: cs,
		Intake:           intake,
		Logger:           logger,
	}
}

// LimitBody caps the submission body before gin parses the multipart form.
func (h *CandidateHandler) LimitBody() gin.HandlerFunc {
	policy := h.Intake.Policy()
	limit := policy.MaxBytes + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			h.tooLarge(c)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func (h *CandidateHandler) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error":    h.Intake.Policy().Message(upload.ErrFileTooLarge),
		"redirect": "back",
	})
}

// Submit is POST /vacantes/:url , the public multipart form with the
// résumé in the policy's form field.
func (h *CandidateHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	url := c.Param("url")

	// Check the vacancy before storing any file for it.
	if _, err := h.VacancyService.Get(ctx, url); err != nil {
		respondError(c, err)
		return
	}

	var req dtos.CandidateRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form: " + err.Error()})
		return
	}
	if err := h.CandidateService.Validate(req); err != nil {
		respondError(c, err)
		return
	}

	policy := h.Intake.Policy()
	header, err := c.FormFile(policy.FormField)
	if err != nil {
		respondError(c, &services.ValidationError{Messages: []string{"Sube tu hoja de vida en PDF"}})
		return
	}
	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer file.Close()

	cv, err := h.Intake.Accept(ctx, header.Header.Get("Content-Type"), header.Size, file)
	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		h.tooLarge(c)
		return
	case errors.Is(err, upload.ErrInvalidFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": policy.Message(err), "redirect": "back"})
		return
	case err != nil:
		_ = c.Error(err)
		return
	}

	if err := h.CandidateService.Submit(ctx, url, req, cv); err != nil {
		// The vacancy can disappear between the check above and the append.
		if derr := h.Intake.Discard(context.WithoutCancel(ctx), cv); derr != nil {
			h.Logger.Error("orphaned résumé left in storage",
				slog.String("cv", cv),
				slog.String("url", url),
				slog.String("error", derr.Error()),
			)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Se envió tu hoja de vida", "redirect": "/"})
}

// List is GET /candidatos/:id , only for the vacancy author.
func (h *CandidateHandler) List(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	vacancy, err := h.CandidateService.List(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"nombrePagina": "Candidatos Vacante - " + vacancy.Titulo,
		"nombre":       user.Nombre,
		"imagen":       user.Imagen,
		"candidatos":   vacancy.Candidatos,
	})
}
