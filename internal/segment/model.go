package segment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
)

// ErrFeatureMismatch indicates the feature vector does not match the schema
// the model was trained on. This is a configuration error (wrong source file
// for the artifact), not a per-request condition.
var ErrFeatureMismatch = errors.New("feature schema mismatch")

// FeatureSpec describes one input the model was trained on. Categorical
// features carry the level encoding captured at training time.
type FeatureSpec struct {
	Name   string             `json:"name"`
	Kind   string             `json:"kind"` // "numeric" or "categorical"
	Levels map[string]float64 `json:"levels,omitempty"`
}

// treeNode is one node of an exported decision tree. Internal nodes route on
// feature <= threshold; leaves carry an additive score.
type treeNode struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

type tree struct {
	Class int        `json:"class"`
	Nodes []treeNode `json:"nodes"`
}

type modelArtifact struct {
	Version    string        `json:"version"`
	NumClasses int           `json:"num_classes"`
	Features   []FeatureSpec `json:"features"`
	Trees      []tree        `json:"trees"`
}

// Model is the trained segment classifier, loaded from an exported boosted
// tree ensemble. It is stateless at request time: the same feature vector
// always yields the same class code.
type Model struct {
	version    string
	numClasses int
	features   []FeatureSpec
	trees      []tree
}

// LoadModel reads the exported model artifact from disk. The artifact is an
// opaque, already-trained dependency; no training happens here.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}
	return ParseModel(data)
}

// ParseModel decodes a model artifact from raw JSON.
func ParseModel(data []byte) (*Model, error) {
	var art modelArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if art.NumClasses < 2 {
		return nil, fmt.Errorf("model artifact declares %d classes", art.NumClasses)
	}
	if len(art.Features) == 0 {
		return nil, fmt.Errorf("model artifact has no feature schema")
	}
	for _, t := range art.Trees {
		if t.Class < 0 || t.Class >= art.NumClasses {
			return nil, fmt.Errorf("tree references class %d outside [0,%d)", t.Class, art.NumClasses)
		}
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("tree for class %d has no nodes", t.Class)
		}
	}

	m := &Model{
		version:    art.Version,
		numClasses: art.NumClasses,
		features:   art.Features,
		trees:      art.Trees,
	}
	log.Printf("SegmentModel: loaded %q (%d classes, %d features, %d trees)",
		m.version, m.numClasses, len(m.features), len(m.trees))
	return m, nil
}

// Version returns the artifact's version string.
func (m *Model) Version() string { return m.version }

// NumClasses returns the size of the model's output space. Codes are
// 0..NumClasses-1; the startup self-check verifies each decodes in the codec.
func (m *Model) NumClasses() int { return m.numClasses }

// Predict maps a feature vector to a class code by summing each class's tree
// scores and taking the argmax. Ties resolve to the lowest code so output is
// fully deterministic.
func (m *Model) Predict(fv FeatureVector) (int, error) {
	x, err := m.vectorize(fv)
	if err != nil {
		return 0, err
	}

	scores := make([]float64, m.numClasses)
	for _, t := range m.trees {
		scores[t.Class] += evalTree(t.Nodes, x)
	}

	best := 0
	for c := 1; c < m.numClasses; c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return best, nil
}

// vectorize converts the projected attributes into the numeric layout the
// trees index into, using the training-time feature schema. Categorical
// levels unseen at training time encode as -1, which every tree was trained
// to route like a missing value.
func (m *Model) vectorize(fv FeatureVector) ([]float64, error) {
	x := make([]float64, len(m.features))
	for i, spec := range m.features {
		attr, ok := fv.Values[spec.Name]
		if !ok {
			// Source headers may differ in case from the training dump.
			for col, a := range fv.Values {
				if strings.EqualFold(col, spec.Name) {
					attr, ok = a, true
					break
				}
			}
		}
		if !ok {
			return nil, fmt.Errorf("feature %q missing from input: %w", spec.Name, ErrFeatureMismatch)
		}

		switch spec.Kind {
		case "categorical":
			level, found := spec.Levels[attr.String()]
			if !found {
				level = -1
			}
			x[i] = level
		default:
			f, numeric := attr.Float()
			if !numeric {
				return nil, fmt.Errorf("feature %q is %q, expected numeric: %w", spec.Name, attr.String(), ErrFeatureMismatch)
			}
			x[i] = f
		}
	}
	return x, nil
}

func evalTree(nodes []treeNode, x []float64) float64 {
	i := 0
	for {
		n := nodes[i]
		if n.Leaf {
			return n.Value
		}
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
		if i < 0 || i >= len(nodes) {
			return 0
		}
	}
}
