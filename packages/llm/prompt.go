package llm

import (
	"fmt"
	"strings"

	"autofix-agent/packages/analysis"
)

// BuildPrompt renders the analysis input into the review prompt. The header
// fixes the output contract: JSON only, with title, comment and patches[],
// each patch carrying the entire corrected file.
func BuildPrompt(input *analysis.Input, sentinelTitle string) string {
	header := strings.Join([]string{
		"You are a code security reviewer. Analyze the pull request and produce fixes for every vulnerability found (injection, XSS, broken authentication, authorization flaws, RCE, leaked secrets, etc.).",
		"Respond ONLY with JSON using the fields: title, comment, patches[].",
		fmt.Sprintf("Use the title '%s'.", sentinelTitle),
		"comment must explain the vulnerabilities found.",
		"patches[].patchedContent must contain the ENTIRE corrected file, never a fragment.",
		"If there are no vulnerabilities, return patches: [] and a short comment.",
		"At least one entry in patches[] is required whenever a vulnerability is reported.",
		"Return valid JSON and nothing else.",
	}, "\n")

	sections := make([]string, 0, len(input.Files))
	for _, file := range input.Files {
		var section strings.Builder
		section.WriteString(fmt.Sprintf("# %s (%s) additions:%d deletions:%d",
			file.Filename, file.Status, file.Additions, file.Deletions))
		if file.Patch != "" {
			section.WriteString("\nPATCH:\n" + file.Patch)
		}
		if file.Content != nil {
			section.WriteString("\nCONTENT:\n" + *file.Content)
		} else {
			section.WriteString("\nCONTENT: <not fetched>")
		}
		sections = append(sections, section.String())
	}

	return strings.Join([]string{
		header,
		"Repo: " + input.Repo,
		"Base: " + input.BaseRef,
		"Head: " + input.HeadRef,
		fmt.Sprintf("PR: #%d - %s", input.Number, input.Title),
		strings.Join(sections, "\n\n"),
	}, "\n\n")
}
