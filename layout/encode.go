// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects a manifest encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatMsgpack
)

// String returns the format name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return f.String()
}

// ParseFormat parses a format name. "yml" and "mp" are accepted as
// aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("layout: unknown manifest format %q", name)
	}
}

// EncodeJSON encodes the manifest as indented JSON.
func EncodeJSON(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("layout: encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeJSON decodes a manifest written by EncodeJSON.
func DecodeJSON(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("layout: decode json: %w", err)
	}
	return &m, nil
}

// EncodeYAML encodes the manifest as YAML.
func EncodeYAML(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("layout: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("layout: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML decodes a manifest written by EncodeYAML.
func DecodeYAML(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("layout: decode yaml: %w", err)
	}
	return &m, nil
}

// EncodeMsgpack encodes the manifest as MessagePack.
func EncodeMsgpack(m *Manifest) ([]byte, error) {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("layout: encode msgpack: %w", err)
	}
	return data, nil
}

// DecodeMsgpack decodes a manifest written by EncodeMsgpack.
func DecodeMsgpack(data []byte) (*Manifest, error) {
	var m Manifest
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("layout: decode msgpack: %w", err)
	}
	return &m, nil
}

// Encode encodes the manifest in the given format.
func Encode(m *Manifest, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return EncodeJSON(m)
	case FormatYAML:
		return EncodeYAML(m)
	case FormatMsgpack:
		return EncodeMsgpack(m)
	default:
		return nil, fmt.Errorf("layout: unknown manifest format %d", f)
	}
}

// Decode decodes a manifest in the given format.
func Decode(data []byte, f Format) (*Manifest, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	case FormatMsgpack:
		return DecodeMsgpack(data)
	default:
		return nil, fmt.Errorf("layout: unknown manifest format %d", f)
	}
}

// Write encodes the manifest to w.
func Write(w io.Writer, m *Manifest, f Format) error {
	data, err := Encode(m, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
