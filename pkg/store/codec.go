package store

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/gridwire/pkg/hdl"
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Encode serializes m as zstd-compressed JSON.
func Encode(m *hdl.Module) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal module: %w", err)
	}
	return encoder.EncodeAll(data, nil), nil
}

// Decode parses a blob written by Encode.
func Decode(blob []byte) (*hdl.Module, error) {
	data, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress module: %w", err)
	}
	var m hdl.Module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal module: %w", err)
	}
	return &m, nil
}
