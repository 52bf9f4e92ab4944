package fetch

import "strings"

const (
	noContentNotes = "No content available for quick notes."
	noNotes        = "• Key information not available in this format"
)

// QuickNotes turns article text into up to three bullet points: the first
// three sentences, keeping those longer than ten characters.
func QuickNotes(text string) string {
	if text == "" {
		return noContentNotes
	}

	sentences := strings.SplitN(text, ".", 4)
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}

	var notes []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len([]rune(s)) > 10 {
			notes = append(notes, "• "+s)
		}
	}
	if len(notes) == 0 {
		return noNotes
	}
	return strings.Join(notes, "\n")
}
