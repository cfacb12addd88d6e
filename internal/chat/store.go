// Package chat answers questions about a completed batch run. It loads
// the extraction artifacts back into memory and holds a bounded
// conversation with an OpenAI chat model grounded on that text.
package chat

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"docverify/internal/extract"
	"docverify/internal/logger"
	"docverify/pkg/models"
)

// Store holds the extracted text of every document in a batch, keyed by
// artifact base name.
type Store struct {
	documents map[string][]models.PageText
	names     []string
	log       zerolog.Logger
}

// LoadStore reads every extraction artifact under dir. A malformed
// artifact is logged and skipped; an empty directory is an error since
// there is nothing to chat about.
func LoadStore(dir string) (*Store, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_extracted.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for artifacts: %w", dir, err)
	}
	sort.Strings(paths)

	store := &Store{
		documents: make(map[string][]models.PageText),
		log:       logger.WithComponent("chat-store"),
	}
	for _, path := range paths {
		pages, err := extract.ReadArtifact(path)
		if err != nil {
			store.log.Warn().Str("artifact", path).Err(err).Msg("artifact unreadable, skipped")
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), "_extracted.json")
		store.documents[name] = pages
		store.names = append(store.names, name)
	}

	if len(store.names) == 0 {
		return nil, fmt.Errorf("no readable extraction artifacts in %s", dir)
	}

	store.log.Info().Int("documents", len(store.names)).Msg("loaded batch text")
	return store, nil
}

// Names lists the loaded documents in artifact order.
func (s *Store) Names() []string {
	return s.names
}

// Document returns one document's pages.
func (s *Store) Document(name string) ([]models.PageText, bool) {
	pages, ok := s.documents[name]
	return pages, ok
}

// ContextText renders the whole batch as prompt context, one titled
// section per document, truncated to at most maxBytes on a rune boundary.
func (s *Store) ContextText(maxBytes int) string {
	var sb strings.Builder
	for _, name := range s.names {
		sb.WriteString("# Document: " + name + "\n\n")
		for _, page := range s.documents[name] {
			fmt.Fprintf(&sb, "## Page %d\n\n%s\n\n", page.Number, page.Text)
		}
		if sb.Len() > maxBytes {
			break
		}
	}

	text := sb.String()
	if len(text) > maxBytes {
		cut := maxBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
