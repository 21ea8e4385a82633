package parse

import (
	"crypto/md5" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"strings"
	"time"
)

// DescriptionLimit caps article descriptions at 200 characters.
const DescriptionLimit = 200

// Article is the normalized output unit shared by all parsers.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceName  string    `json:"sourceName"`
	ImageURL    string    `json:"imageUrl"`
}

// MakeID derives a stable content fingerprint from the canonical link,
// optionally combined with the title when the link alone is not unique.
func MakeID(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|"))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Parser converts raw feed bytes into normalized articles. Malformed or
// empty input yields an empty slice, never an error.
type Parser interface {
	Parse(content []byte, sourceURL, sourceName string) []Article
}

// ForType selects the parser for a declared source type. Unknown or empty
// types fall back to the XML (RSS/Atom) parser.
func ForType(sourceType string) Parser {
	switch sourceType {
	case "json":
		return NewJSONParser()
	case "html":
		return NewHTMLParser()
	default:
		return NewXMLParser()
	}
}
