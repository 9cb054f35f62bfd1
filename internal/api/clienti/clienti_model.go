package clienti

// ClientRequest is the create/update body. Update is a full replacement:
// every editable column is rewritten, so omitted optional fields are cleared.
type ClientRequest struct {
	Nume            string  `json:"nume" validate:"required"`
	TipClient       string  `json:"tip_client,omitempty" validate:"omitempty,oneof=persoana_fizica firma"`
	CuiCnp          *string `json:"cui_cnp,omitempty"`
	Adresa          *string `json:"adresa,omitempty"`
	Localitate      *string `json:"localitate,omitempty"`
	Judet           *string `json:"judet,omitempty"`
	CodPostal       *string `json:"cod_postal,omitempty"`
	Telefon         *string `json:"telefon,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	PersoanaContact *string `json:"persoana_contact,omitempty"`
	Observatii      *string `json:"observatii,omitempty"`
}

// ListParams are the normalized query parameters for listing.
type ListParams struct {
	Search string
	Page   int
	Limit  int
}

const DefaultLimit = 50

// Normalize clamps page and limit to the documented defaults.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
}

// Offset is (page-1)*limit.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// cuiCnp reports the tax id when present and non-empty.
func (r ClientRequest) cuiCnp() (string, bool) {
	if r.CuiCnp == nil || *r.CuiCnp == "" {
		return "", false
	}
	return *r.CuiCnp, true
}
