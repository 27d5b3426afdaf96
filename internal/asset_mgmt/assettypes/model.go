package assettypes

// Type is an asset category. Prefix, when set, fixes the code format of its
// assets to Prefix followed by CodeDigits digits.
type Type struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"nombre"`
	Prefix *string `json:"codificacion"`
}

func (t *Type) HasPrefix() bool { return t.Prefix != nil && *t.Prefix != "" }
