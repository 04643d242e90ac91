package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"docvault-backend/internal/llm"
)

const systemPrompt = `You are a precise document data extraction engine.
You receive the text of a document and a list of fields to extract.
Respond with a single JSON object of the form:
{"results":[{"fieldId":"<id>","value":"<extracted value or null>","confidence":<0..1 or null>}]}
Rules:
- Return exactly one entry per requested field, in the given order.
- Set "value" to null when the field is not present in the document.
- Dates must be formatted as YYYY-MM-DD.
- Booleans must be the string "true" or "false".
- Numbers must be plain digits without thousands separators.
- "confidence" is your own estimate between 0 and 1, or null.`

// BuildPrompt renders the chat messages for an extraction call.
func BuildPrompt(input llm.ExtractInput) []chatMessage {
	var b strings.Builder
	b.WriteString("Document: ")
	b.WriteString(input.DocumentName)
	b.WriteString("\n\nFields to extract:\n")
	for _, f := range input.Fields {
		fmt.Fprintf(&b, "- id=%s name=%q type=%s", f.ID, f.Name, f.DataType)
		if f.Description != "" {
			fmt.Fprintf(&b, " description=%q", f.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nDocument text:\n")
	b.WriteString(input.DocumentText)

	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

func buildFixPrompt(raw json.RawMessage) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: "Repair the following into valid JSON matching {\"results\":[{\"fieldId\",\"value\",\"confidence\"}]}. Return only JSON."},
		{Role: "user", Content: string(raw)},
	}
}
