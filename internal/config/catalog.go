package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ModelOption is a model selectable from the forms.
type ModelOption struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Catalog holds the enumerated subjects, grades and lesson phases.
type Catalog struct {
	Subjects  []string      `yaml:"subjects" json:"subjects"`
	Grades    []string      `yaml:"grades" json:"grades"`
	Phases    []string      `yaml:"phases" json:"phases"`
	Durations []string      `yaml:"durations" json:"durations"`
	Models    []ModelOption `yaml:"models" json:"models"`
}

// LoadCatalog reads the catalog from path, or the embedded default when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Subjects) == 0 || len(c.Grades) == 0 {
		return nil, errors.New("catalog must list at least one subject and one grade")
	}
	return &c, nil
}

// MustDefaultCatalog returns the embedded catalog.
func MustDefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) HasSubject(s string) bool { return contains(c.Subjects, s) }

func (c *Catalog) HasGrade(g string) bool { return contains(c.Grades, g) }

func contains(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
