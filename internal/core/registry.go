package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParseFunc turns the raw bytes of one upload into a Dataset. Errors should
// wrap ErrParse or ErrNoTableFound.
type ParseFunc func(ctx context.Context, data []byte) (*Dataset, error)

// FormatDefinition describes one accepted upload format.
type FormatDefinition struct {
	Key        string   // Stable identifier, e.g. "csv"
	Label      string   // Display name for the upload form
	Extensions []string // Lowercase, without the leading dot
	Parse      ParseFunc
}

var (
	formats    = make(map[string]FormatDefinition)
	extensions = make(map[string]string) // extension -> format key
	formatsMu  sync.RWMutex
)

// RegisterFormat adds a format to the registry.
// Panics if the key or any extension is already registered.
func RegisterFormat(def FormatDefinition) {
	formatsMu.Lock()
	defer formatsMu.Unlock()

	if _, exists := formats[def.Key]; exists {
		panic(fmt.Sprintf("format already registered: %s", def.Key))
	}
	for _, ext := range def.Extensions {
		ext = normalizeExtension(ext)
		if owner, exists := extensions[ext]; exists {
			panic(fmt.Sprintf("extension %q already registered by %s", ext, owner))
		}
	}

	for _, ext := range def.Extensions {
		extensions[normalizeExtension(ext)] = def.Key
	}
	formats[def.Key] = def
}

// FormatByExtension returns the format handling ext. The lookup ignores case
// and a leading dot.
func FormatByExtension(ext string) (FormatDefinition, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	key, ok := extensions[normalizeExtension(ext)]
	if !ok {
		return FormatDefinition{}, false
	}
	def, ok := formats[key]
	return def, ok
}

// Formats returns all registered formats sorted by key.
func Formats() []FormatDefinition {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	result := make([]FormatDefinition, 0, len(formats))
	for _, def := range formats {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// SupportedExtensions returns every registered extension, sorted.
func SupportedExtensions() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
