package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/pa/internal/constants"
	apperrors "github.com/julianstephens/pa/internal/errors"
	"github.com/julianstephens/pa/internal/models"
)

// ImportError rejects a document whose envelope is not a current snapshot.
type ImportError struct {
	Reason error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("Invalid backup file format (expected version %d).", constants.SchemaVersion)
}

func (e *ImportError) Unwrap() error {
	return apperrors.ErrInvalidBackup
}

// Encoder writes a snapshot document.
type Encoder interface {
	Encode(w io.Writer, data models.AppData) error
	Extension() string
}

type JSONEncoder struct{}

func (JSONEncoder) Encode(w io.Writer, data models.AppData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (JSONEncoder) Extension() string { return constants.FormatJSON }

// YAMLEncoder writes the same field names as the JSON form.
type YAMLEncoder struct{}

func (YAMLEncoder) Encode(w io.Writer, data models.AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(generic)
}

func (YAMLEncoder) Extension() string { return constants.FormatYAML }

// EncoderFor maps a format name to its encoder.
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", constants.FormatJSON:
		return JSONEncoder{}, nil
	case constants.FormatYAML, "yml":
		return YAMLEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q: %w", format, apperrors.ErrInvalidInput)
	}
}

// Artifact is an exported document ready to be written out.
type Artifact struct {
	Filename string
	Data     []byte
	Snapshot models.AppData
}

// Filename returns the export file name for now in local time.
func Filename(now time.Time, ext string) string {
	return constants.ExportFilePrefix + now.Local().Format(constants.ExportStampFormat) + "." + ext
}

// Export serializes a normalized copy of data stamped at now. data itself is
// left untouched.
func Export(data models.AppData, now time.Time, format string) (Artifact, error) {
	enc, err := EncoderFor(format)
	if err != nil {
		return Artifact{}, err
	}
	snap := data.Clone()
	snap.Version = constants.SchemaVersion
	snap.UpdatedAt = models.At(now)
	snap.Payload = Normalize(snap.Payload)

	var buf bytes.Buffer
	if err := enc.Encode(&buf, snap); err != nil {
		return Artifact{}, fmt.Errorf("failed to encode export: %w", err)
	}
	return Artifact{
		Filename: Filename(now, enc.Extension()),
		Data:     buf.Bytes(),
		Snapshot: snap,
	}, nil
}

// Import parses a JSON or YAML snapshot document. Only the envelope is
// checked strictly; the payload is normalized like Load does. Nothing is
// persisted.
func Import(doc []byte) (models.AppData, error) {
	raw, err := toJSON(doc)
	if err != nil {
		return models.AppData{}, &ImportError{Reason: err}
	}
	data, err := decodeSnapshot(raw)
	if err != nil {
		return models.AppData{}, &ImportError{Reason: err}
	}
	return data, nil
}

// toJSON passes JSON through and converts anything else via YAML.
func toJSON(doc []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(doc)
	if json.Valid(trimmed) {
		return trimmed, nil
	}
	var generic interface{}
	if err := yaml.Unmarshal(trimmed, &generic); err != nil {
		return nil, fmt.Errorf("document is neither JSON nor YAML: %w", err)
	}
	return json.Marshal(generic)
}
