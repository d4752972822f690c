package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// SpeciesFile is one chemical species' LAPW basis definition, stored
// content-addressed: the MD5 of the file bytes is its identity key and no
// two records may share it. Records are immutable once stored and are never
// deleted by this subsystem.
type SpeciesFile struct {
	// ID is the record identifier assigned at creation (UUID)
	ID string `json:"id"`

	// MD5 is the hex digest of Content, the dedup identity key
	MD5 string `json:"md5"`

	// ChemicalSymbol is the element this file describes (e.g. "Fe")
	ChemicalSymbol string `json:"chemical_symbol"`

	// Filename is the basename the file was uploaded under
	Filename string `json:"filename"`

	// Content is the opaque file payload, passed through unchanged
	Content []byte `json:"-"`

	// CreatedAt is when the record was first stored
	CreatedAt time.Time `json:"created_at"`
}

// speciesHeaderLen is how many leading bytes of a species file are read
// when extracting the chemical symbol.
const speciesHeaderLen = 10

// ExtractChemicalSymbol reads the element symbol from species file content:
// the first 10 bytes as text, with single quotes and surrounding whitespace
// stripped. A file starting with `'Fe'` yields "Fe".
func ExtractChemicalSymbol(content []byte) string {
	header := content
	if len(header) > speciesHeaderLen {
		header = header[:speciesHeaderLen]
	}
	s := strings.ReplaceAll(string(header), "'", "")
	return strings.TrimSpace(s)
}

// NewSpeciesFile builds an unstored SpeciesFile from raw file content,
// computing its hash and parsing its chemical symbol. The symbol must be
// non-empty after stripping.
func NewSpeciesFile(filename string, content []byte) (*SpeciesFile, error) {
	symbol := ExtractChemicalSymbol(content)
	if symbol == "" {
		return nil, fmt.Errorf("%w: no chemical symbol in header of %s", ErrValidation, filename)
	}

	return &SpeciesFile{
		MD5:            HashContent(content),
		ChemicalSymbol: symbol,
		Filename:       filename,
		Content:        content,
	}, nil
}

// HashContent returns the hex MD5 digest used as a species file's identity.
func HashContent(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

// NormalizeSymbol canonicalizes an element symbol's capitalization:
// "fe" and "FE" both become "Fe". Empty input stays empty.
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ""
	}
	runes := []rune(strings.ToLower(symbol))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
