package docs

import (
	"strings"

	"github.com/mykushyn/prismiq/internal/model"
)

// chunkSeparator joins the collected chunks in the assembled context.
const chunkSeparator = "\n\n---\n\n"

// Assembler combines the chunk library with keyword ranking to produce the
// context text for a query.
type Assembler struct {
	library   *Library
	hintTopK  int
	broadTopK int
}

func NewAssembler(library *Library, hintTopK, broadTopK int) *Assembler {
	return &Assembler{library: library, hintTopK: hintTopK, broadTopK: broadTopK}
}

// AssembleContext returns the retrieved context for a query, possibly empty.
//
// Retrieval runs in two phases. If bookName names a loaded document (substring
// match on the identifier, case-insensitive), that document is ranked first
// for up to hintTopK chunks. If fewer than two chunks were collected, the
// remaining documents are scanned in load order for up to broadTopK chunks
// each, stopping once three chunks have been collected in total. The hinted
// document therefore always contributes before any other.
func (a *Assembler) AssembleContext(query, bookName string) string {
	var collected []model.DocumentChunk
	hinted := ""

	if bookName != "" {
		for _, id := range a.library.Documents() {
			if strings.Contains(strings.ToLower(id), strings.ToLower(bookName)) {
				hinted = id
				collected = append(collected, Rank(a.library.Chunks(id), query, a.hintTopK)...)
				break
			}
		}
	}

	if len(collected) < 2 {
		for _, id := range a.library.Documents() {
			if id == hinted {
				continue
			}
			collected = append(collected, Rank(a.library.Chunks(id), query, a.broadTopK)...)
			if len(collected) >= 3 {
				break
			}
		}
	}

	if len(collected) == 0 {
		return ""
	}

	texts := make([]string, 0, len(collected))
	for _, chunk := range collected {
		texts = append(texts, chunk.Text)
	}
	return strings.Join(texts, chunkSeparator)
}
