package models

import (
	"time"

	"github.com/lib/pq"
)

// Vacancy is a job posting. The same struct is persisted by gorm (Postgres)
// and by the mongo driver, so it carries both tag sets.
type Vacancy struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	Titulo      string `gorm:"not null" json:"titulo" bson:"titulo"`
	Empresa     string `json:"empresa" bson:"empresa"`
	Ubicacion   string `json:"ubicacion" bson:"ubicacion"`
	Salario     string `json:"salario" bson:"salario"`
	Contrato    string `json:"contrato" bson:"contrato"`
	Descripcion string `gorm:"type:text" json:"descripcion" bson:"descripcion"`

	// URL is the public lookup key. It never changes after creation.
	URL    string         `gorm:"uniqueIndex;not null" json:"url" bson:"url"`
	Skills pq.StringArray `gorm:"type:text[]" json:"skills" bson:"skills"`

	// Autor is the id of the user who published the vacancy.
	Autor string `gorm:"index;not null" json:"autor" bson:"autor"`

	// Candidates live in their own table in Postgres; deleting the vacancy
	// removes them through the foreign key.
	Candidatos []Candidate `gorm:"foreignKey:VacancyID;constraint:OnDelete:CASCADE" json:"candidatos,omitempty" bson:"candidatos"`
}

type Candidate struct {
	ID        uint      `gorm:"primaryKey" json:"-" bson:"-"`
	VacancyID string    `gorm:"type:uuid;index;not null" json:"-" bson:"-"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Nombre string `gorm:"not null" json:"nombre" bson:"nombre"`
	Email  string `gorm:"not null" json:"email" bson:"email"`
	// CV is the generated filename of the stored résumé.
	CV string `gorm:"not null" json:"cv" bson:"cv"`
}

// VacancyFields are the columns an edit is allowed to overwrite.
type VacancyFields struct {
	Titulo      string
	Empresa     string
	Ubicacion   string
	Salario     string
	Contrato    string
	Descripcion string
	Skills      []string
}

// Apply copies the editable fields onto the vacancy.
func (v *Vacancy) Apply(f VacancyFields) {
	v.Titulo = f.Titulo
	v.Empresa = f.Empresa
	v.Ubicacion = f.Ubicacion
	v.Salario = f.Salario
	v.Contrato = f.Contrato
	v.Descripcion = f.Descripcion
	v.Skills = pq.StringArray(append([]string(nil), f.Skills...))
}
