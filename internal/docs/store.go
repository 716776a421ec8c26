package docs

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mykushyn/prismiq/internal/model"
)

// Library holds the chunked reference documents. It is built once at startup
// and read-only afterwards, so it may be shared across goroutines without
// synchronization.
type Library struct {
	order  []string
	chunks map[string][]model.DocumentChunk
}

// Load enumerates the plain-text files in dir and splits each into chunks of
// at most chunkSize characters. A missing directory is created and yields an
// empty library; a file that cannot be read is logged and skipped. Neither
// case is fatal.
func Load(dir string, chunkSize int) (*Library, error) {
	lib := &Library{chunks: make(map[string][]model.DocumentChunk)}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return lib, nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable document", "path", path, "error", err)
			continue
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		var chunks []model.DocumentChunk
		for _, text := range splitIntoChunks(string(content), chunkSize) {
			chunks = append(chunks, model.DocumentChunk{Source: id, Text: text})
		}
		lib.order = append(lib.order, id)
		lib.chunks[id] = chunks
	}

	return lib, nil
}

// Documents returns the document identifiers in load order.
func (l *Library) Documents() []string {
	return l.order
}

// Chunks returns the chunks of one document, nil if the id is unknown.
func (l *Library) Chunks(id string) []model.DocumentChunk {
	return l.chunks[id]
}

// splitIntoChunks splits text on sentence-terminal punctuation and greedily
// packs sentences into chunks of at most chunkSize characters. A chunk is
// flushed once appending the next sentence would exceed the bound; the
// trailing partial chunk is always emitted. Deterministic for a given input.
func splitIntoChunks(text string, chunkSize int) []string {
	var chunks []string
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	current := ""
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if len(current)+len(sentence) > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.TrimSpace(current))
			current = ""
		}
		current += sentence + ". "
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}
