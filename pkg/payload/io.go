package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Marshal encodes a payload as indented JSON.
func Marshal(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a payload as indented JSON to w.
func Write(p Payload, w io.Writer) error {
	if p.Nodes == nil {
		p.Nodes = []Node{}
	}
	if p.Edges == nil {
		p.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return nil
}

// WriteFile writes a payload to a JSON file.
func WriteFile(p Payload, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(p, f)
}

// Unmarshal decodes a JSON payload.
func Unmarshal(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// ReadFile reads a JSON payload file.
func ReadFile(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
