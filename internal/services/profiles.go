package services

import (
	"fmt"
	"sort"
	"strings"

	"alfredoptarigan/hr-validator/internal/models"
)

const (
	DefaultProfileVersion = "tags-v2"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// Profile is one version of the evaluation contract: the instruction sent as
// the system message, the JSON schema the answer is expected to follow and
// the sampling parameters the version was tuned with.
type Profile struct {
	Version       string
	Description   string
	SystemMessage string
	OutputSchema  string
	DefaultModel  string
	Temperature   *float64
	TopP          *float64
	TagFields     []string
}

// ProfileRegistry holds the known profiles. It is read-only after construction.
type ProfileRegistry struct {
	profiles       map[string]*Profile
	defaultVersion string
}

func NewProfileRegistry(defaultVersion string, profiles ...*Profile) (*ProfileRegistry, error) {
	if len(profiles) == 0 {
		profiles = BuiltinProfiles()
	}

	registry := &ProfileRegistry{
		profiles: make(map[string]*Profile, len(profiles)),
	}
	for _, p := range profiles {
		if p.Version == "" {
			return nil, fmt.Errorf("profile without version")
		}
		if _, exists := registry.profiles[p.Version]; exists {
			return nil, fmt.Errorf("duplicate profile version: %s", p.Version)
		}
		registry.profiles[p.Version] = p
	}

	if defaultVersion == "" {
		defaultVersion = DefaultProfileVersion
	}
	if _, ok := registry.profiles[defaultVersion]; !ok {
		return nil, NewUnknownProfileError(defaultVersion)
	}
	registry.defaultVersion = defaultVersion

	return registry, nil
}

// Get returns the profile for version; an empty version selects the default.
func (r *ProfileRegistry) Get(version string) (*Profile, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		version = r.defaultVersion
	}
	p, ok := r.profiles[version]
	if !ok {
		return nil, NewUnknownProfileError(version)
	}
	return p, nil
}

func (r *ProfileRegistry) DefaultVersion() string {
	return r.defaultVersion
}

// List returns all profiles ordered by version.
func (r *ProfileRegistry) List() []*Profile {
	list := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Version < list[j].Version
	})
	return list
}

// Summaries describes every profile for listing, ordered by version.
func (r *ProfileRegistry) Summaries() []models.ProfileResponse {
	list := r.List()
	out := make([]models.ProfileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, models.ProfileResponse{
			Version:      p.Version,
			Description:  p.Description,
			DefaultModel: p.DefaultModel,
			TagFields:    p.TagFields,
			Temperature:  p.Temperature,
			TopP:         p.TopP,
			Default:      p.Version == r.defaultVersion,
		})
	}
	return out
}

func BuiltinProfiles() []*Profile {
	return []*Profile{
		{
			Version:       "tags-v1",
			Description:   "Single tags list, provider default sampling",
			SystemMessage: buildSystemMessage(tagsInstruction),
			OutputSchema:  buildOutputSchema([]string{"tags"}),
			DefaultModel:  "gpt-4o-mini",
			TagFields:     []string{"tags"},
		},
		{
			Version:       "tags-v2",
			Description:   "Single tags list, temperature 0.65 and top_p 0.9",
			SystemMessage: buildSystemMessage(tagsInstruction),
			OutputSchema:  buildOutputSchema([]string{"tags"}),
			DefaultModel:  "gpt-4.1",
			Temperature:   floatPtr(0.65),
			TopP:          floatPtr(0.9),
			TagFields:     []string{"tags"},
		},
		{
			Version:       "split-tags-v1",
			Description:   "Separate skill_tags and role_tags, provider default sampling",
			SystemMessage: buildSystemMessage(splitTagsInstruction),
			OutputSchema:  buildOutputSchema([]string{"skill_tags", "role_tags"}),
			DefaultModel:  "gpt-4o-mini",
			TagFields:     []string{"skill_tags", "role_tags"},
		},
		{
			Version:       "split-tags-v2",
			Description:   "Separate skill_tags and role_tags, temperature 0.65 and top_p 0.9",
			SystemMessage: buildSystemMessage(splitTagsInstruction),
			OutputSchema:  buildOutputSchema([]string{"skill_tags", "role_tags"}),
			DefaultModel:  "gpt-4.1",
			Temperature:   floatPtr(0.65),
			TopP:          floatPtr(0.9),
			TagFields:     []string{"skill_tags", "role_tags"},
		},
	}
}

const systemMessageBase = `Jsi zkušený personalista a tvým úkolem je předběžně posoudit, zda se kandidát na základě svého životopisu hodí na danou pracovní pozici napříč obory (např. technické profese, IT, účetnictví, stavebnictví, energetika, výroba, administrativa aj.). Soustřeď se zejména na:
• klíčové odborné požadavky a dovednosti (technické, soft-skills, legislativní či jazykové),
• typ práce a pracovní prostředí (kancelář, terén, výroba, projekční činnost, zákaznická podpora …),
• požadovanou úroveň praxe, vzdělání, certifikací nebo oprávnění (např. vyhláška 50/1978, ACCA, CAD licence, řidičské oprávnění atd.).
Pokud kandidát působil převážně v jiném oboru, zohledni to negativně, ledaže je patrná logická motivace ke změně či přenositelné dovednosti. Chybějí-li v CV zásadní údaje (např. konkrétní technologie, nástroje, projekty, objem zakázek, odpovědnost za rozpočet, certifikace), vygeneruj doplňující otázky, které by personalista měl položit.
Pásma skóre: 0–40 kandidát pozici nevyhovuje nebo pochází z jiného oboru, 41–69 částečná shoda s podstatnými mezerami, 70–100 silná shoda s požadavky pozice.
Odpověz výhradně česky. Vrať JSON objekt s těmito klíči v tomto pořadí:
- score: celé číslo 0–100 vyjadřující vhodnost kandidáta vůči pozici.
- explanation: stručné odůvodnění uděleného skóre.
- motivation: případný důvod, proč by pozice mohla kandidáta oslovit – uveď jen pokud dává smysl.
- questions: pole doplňujících otázek; pokud nejsou potřeba, vrať prázdné pole.
`

const tagsInstruction = `- tags: pole klíčových (dovedností/technologií/obdobné názvy pozic) pro danou pracovní pozici (MAX 10 tagů). Nepřidávej dovednosti kandidáta – tagy musí vycházet pouze z požadavků pozice.
Příklady:
  • Java Developer → ["JAVA", "SPRING", "GIT", "SOFTWARE ENGINEER", "BACK-END DEVELOPER"]
  • Účetní → ["IFRS", "SAP", "MS EXCEL", "ACCOUNTANT", "FINANČNÍ ÚČETNÍ"]
  • Architekt → ["AUTOCAD", "REVIT", "BIM", "PROJEKTANT", "STAVEBNÍ ARCHITEKT"]
  • Elektrikář (slaboproud) → ["VYHLÁŠKA_50", "SCHÉMATA", "MULTIMETR", "ELEKTROTECHNIK", "TECHNIK SLABOPROUD"]
`

const splitTagsInstruction = `- skill_tags: pole klíčových dovedností, technologií a certifikací požadovaných pozicí (MAX 10 tagů, velkými písmeny).
- role_tags: pole názvů pozice a jejích obvyklých synonym (MAX 5 tagů, velkými písmeny).
Nepřidávej dovednosti kandidáta – tagy musí vycházet pouze z požadavků pozice.
Příklady:
  • Java Developer → skill_tags ["JAVA", "SPRING", "GIT"], role_tags ["SOFTWARE ENGINEER", "BACK-END DEVELOPER"]
  • Účetní → skill_tags ["IFRS", "SAP", "MS EXCEL"], role_tags ["ACCOUNTANT", "FINANČNÍ ÚČETNÍ"]
  • Architekt → skill_tags ["AUTOCAD", "REVIT", "BIM"], role_tags ["PROJEKTANT", "STAVEBNÍ ARCHITEKT"]
`

func buildSystemMessage(tagSection string) string {
	return systemMessageBase + tagSection
}

// buildOutputSchema describes the answer for gojsonschema. No property is
// required: absent keys are defaulted by the evaluator.
func buildOutputSchema(tagFields []string) string {
	var tagProps strings.Builder
	for _, field := range tagFields {
		fmt.Fprintf(&tagProps, `,
    %q: {"type": "array", "items": {"type": "string"}}`, field)
	}

	return fmt.Sprintf(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "explanation": {"type": "string"},
    "motivation": {"type": "string"},
    "questions": {"type": "array", "items": {"type": "string"}}%s
  }
}`, tagProps.String())
}

func floatPtr(v float64) *float64 {
	return &v
}
