// Package catalog holds the static exercise reference data. It is loaded
// once at process start and is read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const DefaultDurationSeconds = 30

var (
	ErrDuplicateID = errors.New("duplicate exercise id")
	ErrEmptyID     = errors.New("exercise id is empty")

	firstNumberRegex = regexp.MustCompile(`\d+`)
)

type Catalog struct {
	exercises  []Exercise
	byID       map[string]int
	categories []string
}

func New(exercises []Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]Exercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}

	seenCategory := map[string]bool{}
	for _, e := range exercises {
		if e.ID == "" {
			return nil, ErrEmptyID
		}
		if _, ok := c.byID[e.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		c.byID[e.ID] = len(c.exercises)
		c.exercises = append(c.exercises, e)
		if !seenCategory[e.Category] {
			seenCategory[e.Category] = true
			c.categories = append(c.categories, e.Category)
		}
	}

	return c, nil
}

// All returns the exercises in catalog order.
func (c *Catalog) All() []Exercise {
	all := make([]Exercise, len(c.exercises))
	copy(all, c.exercises)
	return all
}

func (c *Catalog) ByID(id string) (Exercise, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[idx], true
}

// Categories returns the categories in first-seen order.
func (c *Catalog) Categories() []string {
	categories := make([]string, len(c.categories))
	copy(categories, c.categories)
	return categories
}

func (c *Catalog) InCategory(category string) []Exercise {
	var exercises []Exercise
	for _, e := range c.exercises {
		if strings.EqualFold(e.Category, category) {
			exercises = append(exercises, e)
		}
	}
	return exercises
}

func (c *Catalog) Len() int {
	return len(c.exercises)
}

type yamlCatalog struct {
	Exercises []yamlExercise `yaml:"exercises"`
}

// yamlExercise keeps the hand-written file format: durations like "45s"
// and reps that are either a number or "-".
type yamlExercise struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category"`
	Duration   string `yaml:"duration"`
	Difficulty string `yaml:"difficulty"`
	Sets       string `yaml:"sets"`
	Reps       string `yaml:"reps"`
	Calories   string `yaml:"calories"`
	Icon       string `yaml:"icon"`
}

// LoadYAML reads a catalog file. Malformed numeric fields do not fail the
// load, they are left for the planner to normalize.
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*Catalog, error) {
	var raw yamlCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	exercises := make([]Exercise, 0, len(raw.Exercises))
	for _, re := range raw.Exercises {
		exercises = append(exercises, Exercise{
			ID:              strings.TrimSpace(re.ID),
			Name:            re.Name,
			Category:        re.Category,
			DurationSeconds: ParseDurationSeconds(re.Duration),
			Difficulty:      re.Difficulty,
			TargetSets:      atoiOrZero(re.ID, "sets", re.Sets),
			TargetReps:      atoiOrZero(re.ID, "reps", re.Reps),
			CaloriesHint:    atoiOrZero(re.ID, "calories", re.Calories),
			Icon:            re.Icon,
		})
	}

	return New(exercises)
}

// ParseDurationSeconds takes the first integer found in a duration label
// such as "45s" or "1 min", falling back to DefaultDurationSeconds.
func ParseDurationSeconds(duration string) int {
	match := firstNumberRegex.FindString(duration)
	if match == "" {
		return DefaultDurationSeconds
	}
	seconds, err := strconv.Atoi(match)
	if err != nil {
		return DefaultDurationSeconds
	}
	return seconds
}

func atoiOrZero(id, field, value string) int {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("catalog: exercise %s has invalid %s [%s]", id, field, value)
		return 0
	}
	return n
}
