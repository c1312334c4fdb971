// Package payload decodes the serialized document collection the engine
// loads once at startup, and fetches it from its source.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/entity"
)

// Indexed text fields.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldBody        = "body"
	FieldAliases     = "aliases"
	FieldTags        = "tags"
	FieldFacetText   = "facetText"
	FieldRelated     = "related"
)

// DefaultFields is the field list used when the payload does not declare one.
var DefaultFields = []string{
	FieldName, FieldDescription, FieldBody, FieldAliases, FieldTags, FieldFacetText, FieldRelated,
}

// Payload is the decoded document collection with its index metadata.
type Payload struct {
	Version   int        `json:"version"`
	Fields    []string   `json:"fields"`
	Documents []Document `json:"documents"`
}

// Document is one stored document as it appears in the payload.
type Document struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Body        Strings            `json:"body"`
	Aliases     Strings            `json:"aliases"`
	Tags        Strings            `json:"tags"`
	FacetText   Strings            `json:"facetText"`
	Related     Strings            `json:"related"`
	TagsArray   Strings            `json:"tagsArray"`
	Facets      map[string]Strings `json:"facets"`
	Links       []entity.Link      `json:"links"`
}

// Field returns the text of an indexed field.
func (d *Document) Field(name string) []string {
	switch name {
	case FieldName:
		return nonEmpty(d.Name)
	case FieldDescription:
		return nonEmpty(d.Description)
	case FieldBody:
		return d.Body
	case FieldAliases:
		return d.Aliases
	case FieldTags:
		return d.Tags
	case FieldFacetText:
		return d.FacetText
	case FieldRelated:
		return d.Related
	default:
		return nil
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// Strings decodes either a JSON string or an array, keeping only string
// elements. Numbers, booleans and objects decode to nothing.
type Strings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Strings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*s = nil
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode string: %w", err)
		}
		*s = Strings{v}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode array: %w", err)
		}
		out := make(Strings, 0, len(raw))
		for _, el := range raw {
			el = bytes.TrimSpace(el)
			if len(el) == 0 || el[0] != '"' {
				continue
			}
			var v string
			if json.Unmarshal(el, &v) == nil {
				out = append(out, v)
			}
		}
		*s = out
	default:
		*s = nil
	}
	return nil
}

// Decode reads a payload from r.
func Decode(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPayloadMalformed, err)
	}
	if len(p.Fields) == 0 {
		p.Fields = DefaultFields
	}
	return &p, nil
}

// DecodeBytes decodes a payload held in memory.
func DecodeBytes(data []byte) (*Payload, error) {
	return Decode(bytes.NewReader(data))
}

// Stats summarizes entity materialization.
type Stats struct {
	Documents  int
	Entities   int
	MissingID  int
	Duplicates int
}

// Entities materializes the stored documents. Documents without an id are
// skipped; for duplicate ids the first occurrence wins. Documents are
// returned in payload order, aligned with the returned entities.
func (p *Payload) Entities() ([]entity.Entity, []*Document, Stats) {
	st := Stats{Documents: len(p.Documents)}
	seen := make(map[string]struct{}, len(p.Documents))
	ents := make([]entity.Entity, 0, len(p.Documents))
	docs := make([]*Document, 0, len(p.Documents))
	for i := range p.Documents {
		d := &p.Documents[i]
		if d.ID == "" {
			st.MissingID++
			continue
		}
		if _, dup := seen[d.ID]; dup {
			st.Duplicates++
			continue
		}
		seen[d.ID] = struct{}{}

		var facets map[string][]string
		if len(d.Facets) > 0 {
			facets = make(map[string][]string, len(d.Facets))
			for k, v := range d.Facets {
				facets[k] = v
			}
		}
		e, err := entity.New(d.ID, d.Type, d.Name, d.Description, d.TagsArray, facets, d.Links)
		if err != nil {
			st.MissingID++
			continue
		}
		ents = append(ents, e)
		docs = append(docs, d)
	}
	st.Entities = len(ents)
	return ents, docs, st
}
