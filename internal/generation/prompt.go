package generation

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/sprout/internal/domain/catalog"
)

// MaxTips bounds how many tips the prompt asks for.
const MaxTips = 4

// MaxWordsPerTip bounds the length of each requested tip.
const MaxWordsPerTip = 15

const promptTemplate = `You are a plant germination specialist.

Generate exactly {{.MaxTips}} short, actionable tips of at most {{.MaxWords}} words each,
for the germination stage only, not general plant care.

Use this data:
Name: {{.Name}}
Germination time: {{.Germination}}
Temperature: {{.Temperature}}
Soil: {{.Soil}}
Watering during germination: {{.Watering}}
Lighting: {{.Lighting}}
{{- if .SpecialConditions}}
Special conditions: {{.SpecialConditions}}
{{- end}}

Output only the tips, one per line. Do not number them or add any other text.
`

var promptTmpl = template.Must(template.New("tips").Parse(promptTemplate))

type promptData struct {
	catalog.Species
	MaxTips  int
	MaxWords int
}

// BuildPrompt composes the tip request for a species. The output depends only
// on the catalog entry, so identical species always yield identical prompts.
func BuildPrompt(species catalog.Species) (string, error) {
	if strings.TrimSpace(species.Name) == "" {
		return "", fmt.Errorf("%w: species name cannot be empty", ErrInvalidConfig)
	}

	data := promptData{
		Species:  species,
		MaxTips:  MaxTips,
		MaxWords: MaxWordsPerTip,
	}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}
