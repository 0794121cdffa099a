package entity

import "time"

// Software entrada del catálogo de software licenciable.
type Software struct {
	ID                    string
	Nombre                string
	Version               *string
	Fabricante            *string
	Categoria             *string
	TipoLicencia          *string
	MetricaLicenciamiento *string
	CreatedAt             time.Time
}
