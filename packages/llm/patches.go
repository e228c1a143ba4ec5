package llm

import (
	"strings"

	"autofix-agent/packages/analysis"
)

// RawPatch is one entry of the model's patches array before validation.
// Models do not always honor the requested schema, so the filename may
// arrive under an alternate key.
type RawPatch struct {
	Filename       string `json:"filename"`
	FilePath       string `json:"filePath"`
	Path           string `json:"path"`
	PatchedContent string `json:"patchedContent"`
	Rationale      string `json:"rationale"`
}

// NormalizePatches repairs and filters the raw patch list. The filename is
// resolved from alternate keys; if still missing and exactly one file was
// analyzed, it defaults to that file's name. Entries without a filename or
// with blank content are dropped. Never fails.
func NormalizePatches(raw []RawPatch, input *analysis.Input) []Patch {
	var patches []Patch
	for _, entry := range raw {
		filename := entry.Filename
		if filename == "" {
			filename = entry.FilePath
		}
		if filename == "" {
			filename = entry.Path
		}
		if filename == "" && input != nil && len(input.Files) == 1 {
			filename = input.Files[0].Filename
		}

		if filename == "" || strings.TrimSpace(entry.PatchedContent) == "" {
			continue
		}

		patches = append(patches, Patch{
			Filename:       filename,
			PatchedContent: entry.PatchedContent,
			Rationale:      entry.Rationale,
		})
	}
	return patches
}
