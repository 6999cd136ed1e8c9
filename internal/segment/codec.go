package segment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// ErrUnknownCode is returned when a class code has no entry in the codec.
// It signals version skew between the model and label artifacts.
var ErrUnknownCode = errors.New("unknown segment code")

// LabelCodec is the bidirectional mapping between classifier output codes
// and human-readable segment names. It is built once at load time from the
// label artifact's native class ordering (index = code) and never mutated.
type LabelCodec struct {
	classes []string
	byLabel map[string]int
}

type labelArtifact struct {
	Classes []string `json:"classes"`
}

// LoadLabelCodec reads the label encoder artifact from disk.
func LoadLabelCodec(path string) (*LabelCodec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label artifact %s: %w", path, err)
	}
	return ParseLabelCodec(data)
}

// ParseLabelCodec decodes a label artifact from raw JSON.
func ParseLabelCodec(data []byte) (*LabelCodec, error) {
	var art labelArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode label artifact: %w", err)
	}
	return NewLabelCodec(art.Classes)
}

// NewLabelCodec builds a codec from an ordered class name list.
func NewLabelCodec(classes []string) (*LabelCodec, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label artifact has no classes")
	}
	byLabel := make(map[string]int, len(classes))
	for code, label := range classes {
		if label == "" {
			return nil, fmt.Errorf("label artifact class %d is empty", code)
		}
		if _, dup := byLabel[label]; dup {
			return nil, fmt.Errorf("label artifact class %q appears twice", label)
		}
		byLabel[label] = code
	}
	log.Printf("LabelCodec: %d classes: %v", len(classes), classes)
	return &LabelCodec{classes: append([]string(nil), classes...), byLabel: byLabel}, nil
}

// Decode maps a class code to its segment name.
func (c *LabelCodec) Decode(code int) (string, error) {
	if code < 0 || code >= len(c.classes) {
		return "", fmt.Errorf("code %d: %w", code, ErrUnknownCode)
	}
	return c.classes[code], nil
}

// Encode maps a segment name back to its class code.
func (c *LabelCodec) Encode(label string) (int, error) {
	code, ok := c.byLabel[label]
	if !ok {
		return 0, fmt.Errorf("label %q: %w", label, ErrUnknownCode)
	}
	return code, nil
}

// Codes returns every known class code in order.
func (c *LabelCodec) Codes() []int {
	codes := make([]int, len(c.classes))
	for i := range c.classes {
		codes[i] = i
	}
	return codes
}

// Classes returns the segment names in code order.
func (c *LabelCodec) Classes() []string {
	return append([]string(nil), c.classes...)
}
