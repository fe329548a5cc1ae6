package recipe

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed generate_prompt.md
var generatePrompt string

type promptData struct {
	Preferences
	Disclaimer string
}

// BuildPrompt renders the generation instructions for the given preferences.
// The output is deterministic for identical input and embeds the literal
// disclaimer constant so the model knows what text to echo (the parser
// overrides the field regardless).
func BuildPrompt(prefs Preferences) (string, error) {
	tmpl, err := template.New("generate").Parse(generatePrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Preferences: prefs, Disclaimer: DefaultDisclaimer}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
