package store

import (
	"fmt"
	"os"
	"slices"

	"memo-notes/src/domain"

	"gopkg.in/yaml.v3"
)

// Seed is the initial content of the category and tag collections
type Seed struct {
	Categories []domain.Category `yaml:"categories"`
	Tags       []domain.Tag      `yaml:"tags"`
}

// DefaultSeed returns the built-in categories and tags
func DefaultSeed() *Seed {
	return &Seed{
		Categories: []domain.Category{
			{ID: "1", Name: "Personal", Slug: "personal", Color: "#3B82F6", Icon: "👤"},
			{ID: "2", Name: "Work", Slug: "work", Color: "#10B981", Icon: "💼"},
			{ID: "3", Name: "Ideas", Slug: "ideas", Color: "#F59E0B", Icon: "💡"},
			{ID: "4", Name: "Study", Slug: "study", Color: "#8B5CF6", Icon: "📚"},
			{ID: "5", Name: "Shopping", Slug: "shopping", Color: "#EF4444", Icon: "🛒"},
			{ID: "6", Name: "Travel", Slug: "travel", Color: "#06B6D4", Icon: "✈️"},
		},
		Tags: []domain.Tag{
			{ID: "1", Name: "Important", Color: "#EF4444"},
			{ID: "2", Name: "Urgent", Color: "#F59E0B"},
			{ID: "3", Name: "Project", Color: "#10B981"},
			{ID: "4", Name: "Meeting", Color: "#3B82F6"},
			{ID: "5", Name: "Todo", Color: "#8B5CF6"},
			{ID: "6", Name: "Reference", Color: "#6B7280"},
		},
	}
}

// LoadSeedFile reads a YAML seed file. A section missing from the file
// keeps the built-in default.
func LoadSeedFile(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	defaults := DefaultSeed()
	if seed.Categories == nil {
		seed.Categories = defaults.Categories
	}
	if seed.Tags == nil {
		seed.Tags = defaults.Tags
	}
	return &seed, nil
}

func (s *Seed) categories() []domain.Category {
	return slices.Clone(s.Categories)
}

func (s *Seed) tags() []domain.Tag {
	return slices.Clone(s.Tags)
}
