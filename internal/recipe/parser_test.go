package recipe

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"herbal-infusion-ai/internal/shared"
)

const minimalPayload = `{"title":"Calm Tea","ingredients":[],"instructions":[],"safetyConsiderations":[]}`

func TestParse(t *testing.T) {
	t.Run("FencedPayload", func(t *testing.T) {
		raw := "```json\n" + minimalPayload + "\n```"
		rec, err := Parse(raw)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Title != "Calm Tea" {
			t.Errorf("Expected title 'Calm Tea', got '%s'", rec.Title)
		}
		if rec.Disclaimer != DefaultDisclaimer {
			t.Errorf("Expected the fixed disclaimer, got '%s'", rec.Disclaimer)
		}
	})

	t.Run("FenceWithoutLanguageTag", func(t *testing.T) {
		raw := "```\n" + minimalPayload + "\n```"
		if _, err := Parse(raw); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})

	t.Run("UppercaseFenceTag", func(t *testing.T) {
		raw := "```JSON\n" + minimalPayload + "\n```"
		if _, err := Parse(raw); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})

	t.Run("SurroundingProse", func(t *testing.T) {
		raw := `Sure! {"title":"X"} Hope this helps!`
		_, err := Parse(raw)
		if err == nil {
			t.Fatal("Expected a shape failure, got nil")
		}
		if kind := shared.KindOf(err); kind != shared.FailureResponseShape {
			t.Errorf("Expected kind %q, got %q", shared.FailureResponseShape, kind)
		}
		msg := shared.UserMessage(err)
		for _, field := range []string{"ingredients", "instructions", "safetyConsiderations"} {
			if !strings.Contains(msg, field) {
				t.Errorf("Expected message to name missing field %q, got %q", field, msg)
			}
		}
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := Parse("not json at all")
		if err == nil {
			t.Fatal("Expected a format failure, got nil")
		}
		if kind := shared.KindOf(err); kind != shared.FailureResponseFormat {
			t.Errorf("Expected kind %q, got %q", shared.FailureResponseFormat, kind)
		}
	})

	t.Run("IdempotentOnCleanJSON", func(t *testing.T) {
		first, err := Parse(minimalPayload)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		reserialized, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("Failed to marshal parsed recipe: %v", err)
		}
		second, err := Parse(string(reserialized))
		if err != nil {
			t.Fatalf("Expected no error on reparse, got %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Expected identical recipes, got %+v and %+v", first, second)
		}
	})

	t.Run("RoundTripThroughFence", func(t *testing.T) {
		original := Recipe{
			Title:               "Lavender Dream Balm",
			Description:         "A soothing balm.",
			InfusionType:        "Balm",
			InfusionMethodNotes: "Low and slow.",
			PreparationTime:     "Approx. 2 hours",
			Yield:               "Approx. 1 cup",
			Ingredients: []Ingredient{
				{Name: "Dried Lavender", Quantity: "2", Unit: "tbsp", Notes: "organic if possible"},
			},
			Equipment:    []EquipmentItem{{Name: "Double boiler"}},
			Instructions: []Step{{StepNumber: 1, Description: "Melt the base."}},
			RecommendedSolubles: []Soluble{
				{Name: "Beeswax", Rationale: "Firms the balm."},
			},
			StorageInstructions:  StorageInfo{Guidance: "Cool, dark place.", ShelfLife: "6 months"},
			SafetyConsiderations: []SafetyNote{{Severity: SeverityInfo, Message: "Patch test first."}},
			PotentialBenefits:    []string{"May promote relaxation"},
			Disclaimer:           "model-supplied disclaimer that must be discarded",
		}
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("Failed to marshal fixture: %v", err)
		}

		parsed, err := Parse("```json\n" + string(data) + "\n```")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		expected := original
		expected.Disclaimer = DefaultDisclaimer
		if !reflect.DeepEqual(&expected, parsed) {
			t.Errorf("Round-trip mismatch.\nExpected: %+v\nGot: %+v", expected, parsed)
		}
	})

	t.Run("DisclaimerAlwaysOverridden", func(t *testing.T) {
		raw := `{"title":"T","ingredients":[],"instructions":[],"safetyConsiderations":[],"disclaimer":"trust me, I'm an AI"}`
		rec, err := Parse(raw)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Disclaimer != DefaultDisclaimer {
			t.Errorf("Expected the fixed disclaimer, got '%s'", rec.Disclaimer)
		}
	})

	t.Run("NonSequenceFieldNamed", func(t *testing.T) {
		raw := `{"title":"T","ingredients":"two cups of things","instructions":[],"safetyConsiderations":[]}`
		_, err := Parse(raw)
		if err == nil {
			t.Fatal("Expected a shape failure, got nil")
		}
		if kind := shared.KindOf(err); kind != shared.FailureResponseShape {
			t.Errorf("Expected kind %q, got %q", shared.FailureResponseShape, kind)
		}
		if msg := shared.UserMessage(err); !strings.Contains(msg, "ingredients") {
			t.Errorf("Expected message to name the offending field, got %q", msg)
		}
	})

	t.Run("NullRequiredFieldIsMissing", func(t *testing.T) {
		raw := `{"title":"T","ingredients":null,"instructions":[],"safetyConsiderations":[]}`
		_, err := Parse(raw)
		if err == nil {
			t.Fatal("Expected a shape failure, got nil")
		}
		if msg := shared.UserMessage(err); !strings.Contains(msg, "ingredients") {
			t.Errorf("Expected message to name the missing field, got %q", msg)
		}
	})

	t.Run("EmptyTitle", func(t *testing.T) {
		raw := `{"title":"","ingredients":[],"instructions":[],"safetyConsiderations":[]}`
		_, err := Parse(raw)
		if err == nil {
			t.Fatal("Expected a shape failure for an empty title, got nil")
		}
		if kind := shared.KindOf(err); kind != shared.FailureResponseShape {
			t.Errorf("Expected kind %q, got %q", shared.FailureResponseShape, kind)
		}
	})

	t.Run("MistypedNestedField", func(t *testing.T) {
		raw := `{"title":"T","ingredients":[],"instructions":[{"stepNumber":"one","description":"Do it"}],"safetyConsiderations":[]}`
		_, err := Parse(raw)
		if err == nil {
			t.Fatal("Expected a shape failure, got nil")
		}
		if kind := shared.KindOf(err); kind != shared.FailureResponseShape {
			t.Errorf("Expected kind %q, got %q", shared.FailureResponseShape, kind)
		}
	})

	t.Run("ProseBeforeFencedPayloadStillExtracted", func(t *testing.T) {
		// The fence pattern only matches when the fence wraps the whole
		// string; brace extraction handles this case instead.
		raw := "Here you go:\n" + minimalPayload + "\nEnjoy!"
		rec, err := Parse(raw)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Title != "Calm Tea" {
			t.Errorf("Expected title 'Calm Tea', got '%s'", rec.Title)
		}
	})
}
