package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/devjobs/internal/auth"
	"github.com/justsurfingit/devjobs/internal/dtos"
	"github.com/justsurfingit/devjobs/internal/services"
)

type VacancyHandler struct {
	VacancyService *services.VacancyService
}

func NewVacancyHandler(v *services.VacancyService) *VacancyHandler {
	return &VacancyHandler{VacancyService: v}
}

// List is GET / : every published vacancy, newest first.
func (h *VacancyHandler) List(c *gin.Context) {
	vacancies, err := h.VacancyService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vacantes": vacancies})
}

// Panel is GET /administracion : the vacancies of the signed-in author.
func (h *VacancyHandler) Panel(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	vacancies, err := h.VacancyService.ListByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"nombre":   user.Nombre,
		"imagen":   user.Imagen,
		"vacantes": vacancies,
	})
}

// Create is POST /vacantes/nueva
func (h *VacancyHandler) Create(c *gin.Context) {
	var req dtos.VacancyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form: " + err.Error()})
		return
	}
	user, _ := auth.CurrentUser(c)
	vacancy, err := h.VacancyService.Create(c.Request.Context(), req, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	location := "/vacantes/" + vacancy.URL
	c.Header("Location", location)
	c.JSON(http.StatusCreated, gin.H{"vacante": vacancy, "redirect": location})
}

// Show is GET /vacantes/:url
func (h *VacancyHandler) Show(c *gin.Context) {
	vacancy, err := h.VacancyService.Get(c.Request.Context(), c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vacante": vacancy, "nombrePagina": vacancy.Titulo})
}

// EditForm is GET /vacantes/editar/:url
func (h *VacancyHandler) EditForm(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	vacancy, err := h.VacancyService.GetForEdit(c.Request.Context(), c.Param("url"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vacante": vacancy, "nombrePagina": "Editar - " + vacancy.Titulo})
}

// Edit is POST /vacantes/editar/:url
func (h *VacancyHandler) Edit(c *gin.Context) {
	var req dtos.VacancyUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form: " + err.Error()})
		return
	}
	user, _ := auth.CurrentUser(c)
	vacancy, err := h.VacancyService.Update(c.Request.Context(), c.Param("url"), req, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vacante": vacancy, "redirect": "/vacantes/" + vacancy.URL})
}

// Delete is DELETE /vacantes/eliminar/:id
func (h *VacancyHandler) Delete(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	err := h.VacancyService.Delete(c.Request.Context(), c.Param("id"), user.ID)
	switch {
	case err == nil:
		c.String(http.StatusOK, "Vacante eliminada correctamente")
	case errors.Is(err, services.ErrForbidden):
		c.String(http.StatusForbidden, "Error")
	default:
		respondError(c, err)
	}
}

// Search is POST /buscador
func (h *VacancyHandler) Search(c *gin.Context) {
	var req dtos.SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form: " + err.Error()})
		return
	}
	vacancies, err := h.VacancyService.Search(c.Request.Context(), req.Q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"nombrePagina": "Resultados para la búsqueda : " + req.Q,
		"query":        req.Q,
		"vacantes":     vacancies,
	})
}
