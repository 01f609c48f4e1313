package dtos

// VacancyRequest is the create form. Skills arrives as the raw
// comma-delimited string built by the skills picker.
type VacancyRequest struct {
	Titulo      string `form:"titulo" json:"titulo" validate:"required"`
	Empresa     string `form:"empresa" json:"empresa" validate:"required"`
	Ubicacion   string `form:"ubicacion" json:"ubicacion" validate:"required"`
	Salario     string `form:"salario" json:"salario"`
	Contrato    string `form:"contrato" json:"contrato" validate:"required"`
	Descripcion string `form:"descripcion" json:"descripcion"`
	Skills      string `form:"skills" json:"skills" validate:"required"`
}

// VacancyUpdateRequest is the edit form. A nil field was not sent and keeps
// its stored value.
type VacancyUpdateRequest struct {
	Titulo      *string `form:"titulo" json:"titulo"`
	Empresa     *string `form:"empresa" json:"empresa"`
	Ubicacion   *string `form:"ubicacion" json:"ubicacion"`
	Salario     *string `form:"salario" json:"salario"`
	Contrato    *string `form:"contrato" json:"contrato"`
	Descripcion *string `form:"descripcion" json:"descripcion"`
	Skills      *string `form:"skills" json:"skills"`
}

// CandidateRequest holds the text fields of the public submission form; the
// résumé travels as the multipart file.
type CandidateRequest struct {
	Nombre string `form:"nombre" json:"nombre" validate:"required"`
	Email  string `form:"email" json:"email" validate:"required,email"`
}

type SearchRequest struct {
	Q string `form:"q" json:"q"`
}
