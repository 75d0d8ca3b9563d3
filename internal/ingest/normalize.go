package ingest

import (
	"path/filepath"
	"strings"
)

// storedExtension is the canonical container extension every uploaded file is
// stored and indexed under, regardless of its original extension.
const storedExtension = ".jpg"

// NormalizeFilename derives the stored filename from a client-supplied
// original name: any directory components are dropped, the original extension
// is stripped and the canonical extension appended.
func NormalizeFilename(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "." {
		stem = "file"
	}
	return stem + storedExtension
}

// normalizeBatch maps every upload to its stored name. When two files in the
// same request normalize to the same name the later one wins; the stored name
// appears once, at its first position, holding the last writer's content.
func normalizeBatch(files []Upload, logger Logger) []Upload {
	out := make([]Upload, 0, len(files))
	seen := make(map[string]int, len(files))

	for _, f := range files {
		name := NormalizeFilename(f.OriginalName)
		if i, ok := seen[name]; ok {
			logger.Warn("filename collision within one upload batch, last write wins", nil, map[string]interface{}{
				"stored_name":   name,
				"original_name": f.OriginalName,
			})
			out[i].Content = f.Content
			out[i].OriginalName = f.OriginalName
			continue
		}
		seen[name] = len(out)
		out = append(out, Upload{OriginalName: f.OriginalName, StoredName: name, Content: f.Content})
	}

	return out
}
