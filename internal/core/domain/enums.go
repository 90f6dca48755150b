// internal/core/domain/enums.go
package domain

// SourceRole define el papel de una fuente en la resolución de identidad.
type SourceRole string

const (
	// SourceRolePrimary fuente con URLs autoritativas: sus registros
	// pueden crear identidades canónicas nuevas
	SourceRolePrimary SourceRole = "primary"

	// SourceRoleSecondary fuente name-only: sus registros solo pueden
	// resolverse contra identidades ya conocidas, nunca crear nuevas
	SourceRoleSecondary SourceRole = "secondary"
)

// IsValid verifica si el rol es válido.
func (r SourceRole) IsValid() bool {
	switch r {
	case SourceRolePrimary, SourceRoleSecondary:
		return true
	default:
		return false
	}
}

// String retorna la representación string del rol.
func (r SourceRole) String() string {
	return string(r)
}

// SourceType clasifica fuentes por su tipo de implementación.
type SourceType string

const (
	// SourceTypeHTML fuentes que scrapean páginas HTML
	SourceTypeHTML SourceType = "html"

	// SourceTypeAPI fuentes que consumen APIs HTTP/JSON
	SourceTypeAPI SourceType = "api"

	// SourceTypeFile fuentes que leen de archivos locales
	SourceTypeFile SourceType = "file"
)

// IsValid verifica si el tipo de fuente es válido.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeHTML, SourceTypeAPI, SourceTypeFile:
		return true
	default:
		return false
	}
}

// String retorna la representación string del tipo.
func (t SourceType) String() string {
	return string(t)
}
