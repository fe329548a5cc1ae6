// Package export renders a recipe as plain text and writes it to disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"herbal-infusion-ai/internal/recipe"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Format renders the recipe as a plain-text document.
func Format(rec *recipe.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Herbal Infusion Recipe: %s\n\n", rec.Title)
	fmt.Fprintf(&b, "Description: %s\n\n", rec.Description)
	fmt.Fprintf(&b, "Infusion Type: %s\n", rec.InfusionType)
	if rec.InfusionMethodNotes != "" {
		fmt.Fprintf(&b, "Method Notes: %s\n", rec.InfusionMethodNotes)
	}
	if len(rec.ProTipsForALTA1) > 0 {
		b.WriteString("\nPro-Tips for ALTA1 Users:\n")
		for _, tip := range rec.ProTipsForALTA1 {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}
	if rec.TargetAudienceNotes != "" {
		fmt.Fprintf(&b, "\nTarget Audience: %s\n", rec.TargetAudienceNotes)
	}
	fmt.Fprintf(&b, "\nPreparation Time: %s\n", rec.PreparationTime)
	fmt.Fprintf(&b, "Yield: %s\n\n", rec.Yield)

	b.WriteString("Ingredients:\n")
	for _, ing := range rec.Ingredients {
		fmt.Fprintf(&b, "- %s %s %s", ing.Quantity, ing.Unit, ing.Name)
		if ing.Notes != "" {
			fmt.Fprintf(&b, " (%s)", ing.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nEquipment Needed:\n")
	for _, item := range rec.Equipment {
		fmt.Fprintf(&b, "- %s", item.Name)
		if item.Notes != "" {
			fmt.Fprintf(&b, " (%s)", item.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nInstructions:\n")
	for _, step := range rec.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", step.StepNumber, step.Description)
	}

	if len(rec.RecommendedSolubles) > 0 {
		b.WriteString("\nRecommended Solubles:\n")
		for _, sol := range rec.RecommendedSolubles {
			fmt.Fprintf(&b, "- %s: %s\n", sol.Name, sol.Rationale)
		}
	}

	b.WriteString("\nStorage Instructions:\n")
	fmt.Fprintf(&b, "Guidance: %s\n", rec.StorageInstructions.Guidance)
	fmt.Fprintf(&b, "Shelf Life: %s\n", rec.StorageInstructions.ShelfLife)

	b.WriteString("\nSafety Considerations:\n")
	for _, note := range rec.SafetyConsiderations {
		fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(string(note.Severity)), note.Message)
	}

	if len(rec.PotentialBenefits) > 0 {
		b.WriteString("\nPotential Benefits (Non-Medical):\n")
		for _, benefit := range rec.PotentialBenefits {
			fmt.Fprintf(&b, "- %s\n", benefit)
		}
	}

	fmt.Fprintf(&b, "\nDisclaimer: %s\n", rec.Disclaimer)

	return b.String()
}

// FileName derives the export file name from the recipe title.
func FileName(title string) string {
	return whitespacePattern.ReplaceAllString(strings.ToLower(title), "_") + "_recipe.txt"
}

// WriteFile writes the formatted recipe into dir, creating the directory if
// needed, and returns the written path.
func WriteFile(dir string, rec *recipe.Recipe) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(rec.Title))
	if err := os.WriteFile(path, []byte(Format(rec)), 0644); err != nil {
		return "", fmt.Errorf("failed to write recipe file: %w", err)
	}
	return path, nil
}
