package types

import "time"

const (
	TipClientPersoanaFizica = "persoana_fizica"
	TipClientFirma          = "firma"
)

// Client is a customer row. Soft deletion flips Activ to false; the row is
// never removed and inactive rows are excluded from reads and uniqueness
// checks.
type Client struct {
	ID              int64     `json:"id"`
	Nume            string    `json:"nume"`
	TipClient       string    `json:"tip_client"`
	CuiCnp          *string   `json:"cui_cnp"`
	Adresa          *string   `json:"adresa"`
	Localitate      *string   `json:"localitate"`
	Judet           *string   `json:"judet"`
	CodPostal       *string   `json:"cod_postal"`
	Telefon         *string   `json:"telefon"`
	Email           *string   `json:"email"`
	PersoanaContact *string   `json:"persoana_contact"`
	Observatii      *string   `json:"observatii"`
	CreatDe         *int64    `json:"creat_de"`
	CreatDeUsername *string   `json:"creat_de_username,omitempty"`
	Activ           bool      `json:"activ"`
	CreatLa         time.Time `json:"creat_la"`
	ActualizatLa    time.Time `json:"actualizat_la"`
}

// Pagination is the block returned next to every list result.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
