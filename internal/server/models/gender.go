package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// GenderKind tags the Gender variant.
type GenderKind uint8

// Stored codes. These values are persisted in user.gender_code; do not
// renumber.
const (
	GenderUnknown GenderKind = 0
	GenderMale    GenderKind = 1
	GenderFemale  GenderKind = 2
	GenderOther   GenderKind = 3
)

var genderNames = map[GenderKind]string{
	GenderUnknown: "unknown",
	GenderMale:    "male",
	GenderFemale:  "female",
	GenderOther:   "other",
}

func (k GenderKind) String() string {
	if s, ok := genderNames[k]; ok {
		return s
	}
	return fmt.Sprintf("GenderKind(%d)", uint8(k))
}

// Gender is Unknown | Male | Female | Other(text). Other is the only variant
// that carries Text.
type Gender struct {
	Kind GenderKind
	Text string
}

func Unknown() Gender          { return Gender{Kind: GenderUnknown} }
func Male() Gender             { return Gender{Kind: GenderMale} }
func Female() Gender           { return Gender{Kind: GenderFemale} }
func Other(text string) Gender { return Gender{Kind: GenderOther, Text: text} }

// Encode maps g to its (gender_code, gender_other) columns.
func (g Gender) Encode() (int64, sql.NullString) {
	switch g.Kind {
	case GenderMale, GenderFemale:
		return int64(g.Kind), sql.NullString{}
	case GenderOther:
		return int64(GenderOther), sql.NullString{String: g.Text, Valid: true}
	default:
		return int64(GenderUnknown), sql.NullString{}
	}
}

// DecodeGender is the inverse of Encode. Unknown codes, and Other without
// text, decode to Unknown.
func DecodeGender(code int64, other sql.NullString) Gender {
	switch code {
	case int64(GenderMale):
		return Male()
	case int64(GenderFemale):
		return Female()
	case int64(GenderOther):
		if other.Valid {
			return Other(other.String)
		}
	}
	return Unknown()
}

type genderJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

func (g Gender) MarshalJSON() ([]byte, error) {
	v := genderJSON{Kind: g.Kind.String()}
	if g.Kind == GenderOther {
		v.Text = g.Text
	}
	return json.Marshal(v)
}

func (g *Gender) UnmarshalJSON(b []byte) error {
	var v genderJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseGender(v.Kind, v.Text)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGender builds a Gender from its kind name as used in JSON and forms.
// An empty kind is Unknown.
func ParseGender(kind, text string) (Gender, error) {
	switch kind {
	case "", "unknown":
		return Unknown(), nil
	case "male":
		return Male(), nil
	case "female":
		return Female(), nil
	case "other":
		return Other(text), nil
	default:
		return Gender{}, fmt.Errorf("unknown gender kind %q", kind)
	}
}
