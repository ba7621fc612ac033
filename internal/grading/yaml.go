package grading

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// yamlStandard mirrors the on-disk standard layout. Levels are written as
// [threshold, grade, description] triples; the threshold string "inf" (or an
// omitted last threshold) means +Inf.
type yamlStandard struct {
	ID          string                   `yaml:"id"`
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description"`
	Attributes  map[string]yamlAttribute `yaml:"attributes"`
}

type yamlAttribute struct {
	Name           string     `yaml:"name"`
	Unit           string     `yaml:"unit"`
	ReverseDisplay bool       `yaml:"reverse_display"`
	LandFilter     LandFilter `yaml:"land_filter"`
	Levels         [][]string `yaml:"levels"`
}

// LoadFile parses a single YAML standard file and validates it.
func LoadFile(path string) (*Standard, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "grading: read %s", path)
	}
	var ys yamlStandard
	if err := yaml.Unmarshal(raw, &ys); err != nil {
		return nil, eris.Wrapf(err, "grading: parse %s", path)
	}

	std := &Standard{
		ID:          ys.ID,
		Name:        ys.Name,
		Description: ys.Description,
		Attributes:  make(map[string]*AttrConfig, len(ys.Attributes)),
	}
	for key, ya := range ys.Attributes {
		cfg := &AttrConfig{
			Key:            key,
			Name:           ya.Name,
			Unit:           ya.Unit,
			ReverseDisplay: ya.ReverseDisplay,
			LandFilter:     ya.LandFilter,
		}
		for _, triple := range ya.Levels {
			if len(triple) < 2 {
				return nil, eris.Errorf("grading: %s attribute %s: level needs [threshold, grade, description]", path, key)
			}
			th, err := parseThreshold(triple[0])
			if err != nil {
				return nil, eris.Wrapf(err, "grading: %s attribute %s", path, key)
			}
			lvl := Level{Threshold: th, Grade: triple[1]}
			if len(triple) > 2 {
				lvl.Description = triple[2]
			}
			cfg.Levels = append(cfg.Levels, lvl)
		}
		std.Attributes[key] = cfg
	}

	if err := std.Validate(); err != nil {
		return nil, eris.Wrapf(err, "grading: %s", path)
	}
	return std, nil
}

// LoadDir registers every *.yaml/*.yml standard found in dir. A missing dir
// is not an error; individual bad files are logged and skipped.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "grading: read dir %s", dir)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		std, err := LoadFile(path)
		if err != nil {
			zap.L().Warn("grading: skipping standard file",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		if err := r.Register(std); err != nil {
			zap.L().Warn("grading: skipping invalid standard",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("grading: registered standard",
			zap.String("id", std.ID),
			zap.String("path", path),
		)
	}
	return nil
}

func parseThreshold(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "inf") || s == "+inf" {
		return math.Inf(1), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Errorf("bad threshold %q", s)
	}
	return v, nil
}
