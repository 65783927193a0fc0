package scanning

import (
	"encoding/json"
	"strings"
)

type transcription struct {
	Lines []string `json:"lines"`
	Text  string   `json:"text"`
}

// parseTranscription pulls the document text out of a model response. The
// models are asked for {"lines": [...]}, but some answer with {"text": "..."}
// or with the bare transcription; both are accepted.
func parseTranscription(response string) string {
	text := stripCodeFences(response)

	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx == 0 && endIdx > startIdx {
		var t transcription
		if err := json.Unmarshal([]byte(text[startIdx:endIdx+1]), &t); err == nil {
			if len(t.Lines) > 0 {
				lines := make([]string, 0, len(t.Lines))
				for _, l := range t.Lines {
					lines = append(lines, strings.TrimRight(l, " \t\r"))
				}
				return strings.Join(lines, "\n")
			}
			return strings.TrimSpace(t.Text)
		}
	}

	return text
}

// stripCodeFences removes a surrounding markdown code block
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// drop an info string such as "json" on the opening fence
	if nl := strings.Index(text, "\n"); nl >= 0 && !strings.ContainsAny(text[:nl], "{ ") {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
