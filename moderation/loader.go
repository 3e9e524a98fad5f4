package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"chat-sim/errors"
)

//go:embed censored/*
var censoredFolder embed.FS

// CensoredData carries the result of the loading process including metadata for logging.
type CensoredData struct {
	Words     []string
	Languages []string
}

// LoadCensoredWords parses the embedded dictionaries, one .txt file per
// language, into a unique word list.
func LoadCensoredWords() (*CensoredData, error) {
	return loadAll(censoredFolder, "censored")
}

func loadAll(f embed.FS, path string) (*CensoredData, error) {
	entries, err := fs.ReadDir(f, path)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Track the language based on the filename (e.g., "fr.txt" -> "fr")
		lang := strings.TrimSuffix(entry.Name(), ".txt")
		languages = append(languages, lang)

		data, err := f.ReadFile(path + "/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// Use a scanner to handle different line endings (\n vs \r\n) correctly
		// ⚠️Don't use strings.Split
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				uniqueWords[line] = struct{}{}
			}
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(uniqueWords))
	for w := range uniqueWords {
		words = append(words, w)
	}

	return &CensoredData{
		Words:     words,
		Languages: languages,
	}, nil
}
