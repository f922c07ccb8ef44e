// Package seed loads survey definitions from YAML and upserts them. It stands
// in for the admin dashboard that normally creates surveys.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// File is one survey definition.
type File struct {
	Path string `yaml:"-"`

	Name           string `yaml:"name"`
	PrettyName     string `yaml:"pretty_name"`
	Language       string `yaml:"language"`
	AboutText      string `yaml:"about_text"`
	TermsOfService string `yaml:"terms_of_service"`
	ContactEmail   string `yaml:"contact_email"`
	AvatarURI      string `yaml:"avatar_uri"`

	MaxSurveyDays              int   `yaml:"max_survey_days"`
	MaxPrompts                 int   `yaml:"max_prompts"`
	GPSAccuracyThreshold       int   `yaml:"gps_accuracy_threshold"`
	TripBreakInterval          int   `yaml:"trip_break_interval"`
	TripBreakColdStartDistance int   `yaml:"trip_break_cold_start_distance"`
	TripSubwayBuffer           int   `yaml:"trip_subway_buffer"`
	RecordAcceleration         *bool `yaml:"record_acceleration"`
	RecordMode                 *bool `yaml:"record_mode"`

	Questions []Question `yaml:"questions"`
	Prompts   []Question `yaml:"prompts"`
}

type Question struct {
	Label    string   `yaml:"label"`
	Type     int      `yaml:"type"`
	Prompt   string   `yaml:"prompt"`
	Required bool     `yaml:"required"`
	Choices  []string `yaml:"choices"`
}

// Parse decodes one survey definition.
func Parse(raw []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse survey: %w", err)
	}
	if strings.TrimSpace(f.Name) == "" {
		return File{}, fmt.Errorf("parse survey: name is required")
	}
	return f, nil
}

// LoadFiles reads and parses every path concurrently. Results keep the order
// of paths.
func LoadFiles(ctx context.Context, paths []string) ([]File, error) {
	out := make([]File, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			f, err := Parse(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			f.Path = path
			out[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
