package clips

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encoding is a dataset file format.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingFor picks the format from a dataset path's extension.
func EncodingFor(path string) (Encoding, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return EncodingJSON, nil
	case ".yaml", ".yml":
		return EncodingYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Decode parses a dataset document: a top-level array of clips.
func Decode(enc Encoding, data []byte) (*Dataset, error) {
	var list []Clip
	switch enc {
	case EncodingJSON:
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode json dataset: %w", err)
		}
	case EncodingYAML:
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode yaml dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown dataset encoding %q", enc)
	}
	return NewDataset(list)
}

// Encode renders the dataset in file order.
func Encode(enc Encoding, ds *Dataset) ([]byte, error) {
	list := ds.Clips()
	switch enc {
	case EncodingJSON:
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json dataset: %w", err)
		}
		return append(data, '\n'), nil
	case EncodingYAML:
		var buf bytes.Buffer
		e := yaml.NewEncoder(&buf)
		e.SetIndent(2)
		if err := e.Encode(list); err != nil {
			return nil, fmt.Errorf("encode yaml dataset: %w", err)
		}
		if err := e.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml dataset: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown dataset encoding %q", enc)
	}
}
