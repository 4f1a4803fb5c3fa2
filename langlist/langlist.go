package langlist

import (
	"path/filepath"
	"strings"
)

// SubmLang describes a submission language the judge accepts.
type SubmLang struct {
	ID       string // language key sent to the judge
	FullName string
	FileExts []string
}

// getHardcodedLanguageList returns the list of known submission languages.
func getHardcodedLanguageList() []SubmLang {
	return []SubmLang{
		{
			ID:       "cpp17",
			FullName: "C++17",
			FileExts: []string{".cpp", ".cc", ".cxx"},
		},
		{
			ID:       "cpp20",
			FullName: "C++20",
			FileExts: []string{},
		},
		{
			ID:       "C++26",
			FullName: "C++26",
			FileExts: []string{},
		},
		{
			ID:       "python3",
			FullName: "Python 3",
			FileExts: []string{".py"},
		},
		{
			ID:       "java21",
			FullName: "Java 21",
			FileExts: []string{".java"},
		},
		{
			ID:       "rust",
			FullName: "Rust",
			FileExts: []string{".rs"},
		},
		{
			ID:       "pascal",
			FullName: "Pascal",
			FileExts: []string{".pas"},
		},
	}
}

func Languages() []SubmLang {
	return getHardcodedLanguageList()
}

func ByID(id string) (SubmLang, bool) {
	for _, lang := range getHardcodedLanguageList() {
		if lang.ID == id {
			return lang, true
		}
	}
	return SubmLang{}, false
}

// ByFilename infers the language from the file extension. The list powers
// CLI heuristics and display only; the bridge relays unknown keys as-is.
func ByFilename(filename string) (SubmLang, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return SubmLang{}, false
	}
	for _, lang := range getHardcodedLanguageList() {
		for _, e := range lang.FileExts {
			if e == ext {
				return lang, true
			}
		}
	}
	return SubmLang{}, false
}
