// Package recipe defines the infusion recipe record, the user preferences
// that drive generation, the prompt builder, and the parser that turns raw
// model output into a validated recipe.
package recipe

import (
	"fmt"
	"strings"
)

// DefaultDisclaimer is the fixed legal/safety disclaimer. The parser always
// overwrites the recipe's disclaimer field with this constant so that the
// language is never AI-controlled.
const DefaultDisclaimer = "This recipe is for informational purposes only and not a substitute for professional medical advice. Consult with a healthcare provider before using herbal remedies, especially if you have pre-existing conditions, are taking medications, or are pregnant/nursing."

// InfusionType is one of the fixed set of infusion categories.
type InfusionType string

const (
	InfusionBalm       InfusionType = "Balm"
	InfusionTincture   InfusionType = "Tincture"
	InfusionEdible     InfusionType = "Edible"
	InfusionDrinkMix   InfusionType = "Drink Mix/Tea"
	InfusionInfusedOil InfusionType = "Infused Oil"
	InfusionSyrup      InfusionType = "Syrup"
	InfusionSalve      InfusionType = "Salve"
	InfusionLotion     InfusionType = "Lotion"
	InfusionGummy      InfusionType = "Gummy"
	InfusionCapsule    InfusionType = "Capsule"
	InfusionOther      InfusionType = "Other (Specify in Desired Effects)"
)

// InfusionTypeOptions lists every selectable infusion type, in display order.
var InfusionTypeOptions = []InfusionType{
	InfusionBalm,
	InfusionTincture,
	InfusionEdible,
	InfusionDrinkMix,
	InfusionInfusedOil,
	InfusionSyrup,
	InfusionSalve,
	InfusionLotion,
	InfusionGummy,
	InfusionCapsule,
	InfusionOther,
}

// Preferences is the user-supplied input for a single generation request.
// It is constructed fresh per submission and not mutated afterwards.
type Preferences struct {
	InfusionType   InfusionType
	MainHerbs      string
	DesiredEffects string
	Allergies      string
	UseALTA1       bool
}

// Validate checks the preferences before prompt construction. Desired effects
// is the only required free-text field; the infusion type must come from the
// fixed option set.
func (p Preferences) Validate() error {
	if strings.TrimSpace(p.DesiredEffects) == "" {
		return fmt.Errorf("desired effects field is required")
	}
	for _, opt := range InfusionTypeOptions {
		if p.InfusionType == opt {
			return nil
		}
	}
	return fmt.Errorf("unknown infusion type %q", p.InfusionType)
}

// Ingredient is a single recipe ingredient.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Notes    string `json:"notes,omitempty"`
}

// EquipmentItem is a tool needed for the recipe.
type EquipmentItem struct {
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

// Step is a numbered instruction step.
type Step struct {
	StepNumber  int    `json:"stepNumber"`
	Description string `json:"description"`
}

// Soluble is a recommended carrier substance with the reason for suggesting it.
type Soluble struct {
	Name      string `json:"name"`
	Rationale string `json:"rationale"`
}

// StorageInfo holds storage guidance and the expected shelf life.
type StorageInfo struct {
	Guidance  string `json:"guidance"`
	ShelfLife string `json:"shelfLife"`
}

// SafetySeverity grades a safety note.
type SafetySeverity string

const (
	SeverityInfo     SafetySeverity = "info"
	SeverityWarning  SafetySeverity = "warning"
	SeverityCritical SafetySeverity = "critical"
)

// SafetyNote is a single safety consideration.
type SafetyNote struct {
	Severity SafetySeverity `json:"severity"`
	Message  string         `json:"message"`
}

// Recipe is the normalized, disclaimer-overridden recipe record ready for
// rendering. Field names mirror the JSON shape the model is instructed to
// produce.
type Recipe struct {
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	InfusionType         string          `json:"infusionType"`
	InfusionMethodNotes  string          `json:"infusionMethodNotes"`
	ProTipsForALTA1      []string        `json:"proTipsForALTA1,omitempty"`
	TargetAudienceNotes  string          `json:"targetAudienceNotes,omitempty"`
	PreparationTime      string          `json:"preparationTime"`
	Yield                string          `json:"yield"`
	Ingredients          []Ingredient    `json:"ingredients"`
	Equipment            []EquipmentItem `json:"equipment"`
	Instructions         []Step          `json:"instructions"`
	RecommendedSolubles  []Soluble       `json:"recommendedSolubles"`
	StorageInstructions  StorageInfo     `json:"storageInstructions"`
	SafetyConsiderations []SafetyNote    `json:"safetyConsiderations"`
	PotentialBenefits    []string        `json:"potentialBenefits"`
	Disclaimer           string          `json:"disclaimer"`
}
