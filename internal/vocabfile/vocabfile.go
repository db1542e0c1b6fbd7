// Package vocabfile loads vocabulary records from text, JSON or YAML files.
package vocabfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// Record is the on-disk shape of a vocabulary entry.
type Record struct {
	Word    string `json:"word" yaml:"word"`
	Meaning string `json:"meaning" yaml:"meaning"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Load reads vocabs from path, choosing a decoder by file extension.
func Load(path string) ([]model.Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err = decodeJSON(data)
	case ".yaml", ".yml":
		records, err = decodeYAML(data)
	case ".txt", ".tsv", "":
		records, err = decodeText(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported vocab file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return toVocabs(records)
}

func decodeJSON(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeYAML(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// decodeText reads one record per line: word TAB meaning [TAB status].
func decodeText(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected word and meaning separated by a tab", lineNo)
		}
		rec := Record{Word: fields[0], Meaning: fields[1]}
		if len(fields) > 2 {
			rec.Status = fields[2]
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
