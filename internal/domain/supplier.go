package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Supplier representa um fornecedor de peças de uma marca.
type Supplier struct {
	ID             string         `json:"id"`
	BrandID        string         `json:"brand_id"`
	Name           string         `json:"name"`
	ContactEmail   string         `json:"contact_email"`
	Phone          string         `json:"phone"`
	Certifications Certifications `json:"certifications"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Certifications é a lista de certificações do fornecedor. Persistida e exportada
// como uma única string separada por vírgulas.
type Certifications []string

// SplitCertifications quebra a string separada por vírgulas, aparando espaços
// e descartando itens vazios.
func SplitCertifications(joined string) Certifications {
	out := Certifications{}
	for _, item := range strings.Split(joined, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Join serializa a lista no formato persistido ("ISO9001,RoHS").
func (c Certifications) Join() string {
	items := make([]string, 0, len(c))
	for _, item := range c {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return strings.Join(items, ",")
}

// UnmarshalJSON aceita tanto uma lista JSON quanto uma string separada por vírgulas.
func (c *Certifications) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*c = SplitCertifications(strings.Join(list, ","))
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*c = SplitCertifications(joined)
	return nil
}
