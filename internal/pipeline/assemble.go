package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ppiankov/capevent/internal/model"
	"github.com/ppiankov/capevent/internal/validate"
)

// eventNamespace scopes event ids so they never collide with other
// name-based UUIDs derived from the same URLs
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("capevent:capital_event"))

// EventID derives the stable identifier for a headline source.
// The title is deliberately excluded: headlines get edited, URLs do not.
func EventID(publisher, rawURL string) string {
	return uuid.NewSHA1(eventNamespace, []byte(publisher+"|"+rawURL)).String()
}

// resolved holds the entities produced from frame slots
type resolved struct {
	entities []model.Entity
	subject  *string
	object   *string
	tertiary *string
	notes    []string
}

// resolveSlots validates each slot and turns the survivors into entities.
// Rejected slots leave a note naming the rule; the person slot is recorded
// as a note only.
func resolveSlots(frame model.Frame, v *validate.EntityValidator) resolved {
	var r resolved

	add := func(slot *string, role model.EntityRole, label string) *string {
		if slot == nil {
			return nil
		}
		name := strings.TrimSpace(*slot)
		if name == "" {
			return nil
		}
		ok, rule := v.Check(name)
		if !ok {
			r.notes = append(r.notes, fmt.Sprintf("rejected_%s:%s:%s", label, name, rule))
			return nil
		}
		for _, e := range r.entities {
			if e.Name == name {
				r.notes = append(r.notes, fmt.Sprintf("duplicate_%s:%s", label, name))
				return nil
			}
		}
		r.entities = append(r.entities, model.Entity{
			Name:          name,
			Role:          role,
			Provenance:    model.ProvenanceFrame,
			Confidence:    frame.Confidence,
			OntologyKnown: v.IsKnown(name),
		})
		return &name
	}

	r.subject = add(frame.Slots.Subject, model.RoleSubject, "subject")
	r.object = add(frame.Slots.Object, model.RoleObject, "object")

	tertiaryRole := frame.TertiaryRole
	if tertiaryRole == "" {
		tertiaryRole = model.RoleCounterparty
	}
	r.tertiary = add(frame.Slots.Tertiary, tertiaryRole, "tertiary")

	if frame.Slots.Person != nil && *frame.Slots.Person != "" {
		r.notes = append(r.notes, "person="+*frame.Slots.Person)
	}
	return r
}

// markKnown flags heuristic entities the ontology already knows
func markKnown(entities []model.Entity, v *validate.EntityValidator) []model.Entity {
	for i := range entities {
		entities[i].OntologyKnown = v.IsKnown(entities[i].Name)
	}
	return entities
}

// afterVerb returns the text following the matched verb span. With no
// matched verb there is no span to cut, so the miner sees the whole title
// and still runs for unmatched headlines.
func afterVerb(title string, frame model.Frame) string {
	if !frame.Matched() || frame.VerbEnd < 0 || frame.VerbEnd > len(title) {
		return title
	}
	return title[frame.VerbEnd:]
}
