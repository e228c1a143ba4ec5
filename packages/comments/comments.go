package comments

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder fragments the model sometimes echoes back from the prompt
// instead of leaving them out.
var echoedMarkers = []string{
	"(link sera inserido pelo bot)",
	"(link will be inserted by the bot)",
	"#PR_corrigido",
	"<FIX_PR_URL>",
}

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// DisplayModelName maps a raw model identifier to a human-friendly name by
// case-insensitive substring match.
func DisplayModelName(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "gpt"), strings.Contains(m, "openai"):
		return "OpenAI GPT"
	case strings.Contains(m, "gemini"), strings.Contains(m, "google"):
		return "Google Gemini"
	case strings.Contains(m, "claude"), strings.Contains(m, "anthropic"),
		strings.Contains(m, "sonnet"), strings.Contains(m, "opus"), strings.Contains(m, "haiku"):
		return "Anthropic Claude"
	default:
		return "unknown model"
	}
}

// Clean strips echoed placeholder markers and collapses excess blank lines
func Clean(text string) string {
	for _, marker := range echoedMarkers {
		text = strings.ReplaceAll(text, marker, "")
	}
	text = excessBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// NoFindings is posted on the original PR when analysis found nothing
func NoFindings(model string) string {
	return fmt.Sprintf("No vulnerabilities found in this pull request.\n\n_Analyzed by %s._", DisplayModelName(model))
}

// FixOpened is posted on the original PR after the fix PR was created
func FixOpened(fixPRURL, explanation, model string) string {
	body := fmt.Sprintf("Opened fix PR %s with security corrections.", fixPRURL)
	if cleaned := Clean(explanation); cleaned != "" {
		body += "\n\n" + cleaned
	}
	return body + fmt.Sprintf("\n\n_Analyzed by %s._", DisplayModelName(model))
}

// FixExplanation is posted on the fix PR itself, repeating the explanation
func FixExplanation(originalPRURL, explanation string) string {
	return fmt.Sprintf("Automated security fix for %s.\n\n%s", originalPRURL, Clean(explanation))
}

// FixFailed is posted on the original PR when analysis found
// vulnerabilities but committing the fix did not go through
func FixFailed(model string) string {
	return fmt.Sprintf("Vulnerabilities were found, but the fix pull request could not be created. Please review the changes manually.\n\n_Analyzed by %s._", DisplayModelName(model))
}

// AnalysisFailed is posted on the original PR when no model produced a result
func AnalysisFailed() string {
	return "The security review could not analyze this pull request. It will be retried on the next update."
}

// Summary describes a patch set when the model gave no explanation
func Summary(fileCount int) string {
	return fmt.Sprintf("Automated security fix adjusting %d file(s).", fileCount)
}
