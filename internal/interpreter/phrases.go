package interpreter

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/assets"
)

var ErrNoPhrases = errors.New("phrase set is empty")

// Phrases are the trigger phrases per intent.
type Phrases struct {
	Status  []string `yaml:"status"`
	Confirm []string `yaml:"confirm"`
}

// ParsePhrases decodes a YAML phrase document. Phrases are lower-cased and
// blanks dropped; both sets must end up non-empty.
func ParsePhrases(data []byte) (Phrases, error) {
	var p Phrases
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Phrases{}, fmt.Errorf("decode phrases: %w", err)
	}
	p.Status = normalize(p.Status)
	p.Confirm = normalize(p.Confirm)
	if len(p.Status) == 0 {
		return Phrases{}, fmt.Errorf("status: %w", ErrNoPhrases)
	}
	if len(p.Confirm) == 0 {
		return Phrases{}, fmt.Errorf("confirm: %w", ErrNoPhrases)
	}
	return p, nil
}

// DefaultPhrases returns the built-in phrase sets.
func DefaultPhrases() Phrases {
	p, err := ParsePhrases(assets.PhrasesYAML)
	if err != nil {
		panic("embedded phrases: " + err.Error())
	}
	return p
}

// LoadPhrases reads phrases from path, or the built-in sets when path is empty.
func LoadPhrases(path string) (Phrases, error) {
	if path == "" {
		return DefaultPhrases(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Phrases{}, fmt.Errorf("read phrases file: %w", err)
	}
	return ParsePhrases(data)
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
