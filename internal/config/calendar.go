package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CalendarConfig overrides the holiday set and peak window used by the feature builder.
type CalendarConfig struct {
	Holidays  []string `yaml:"holidays"`
	PeakStart *int     `yaml:"peak_start_hour"`
	PeakEnd   *int     `yaml:"peak_end_hour"`
}

// LoadCalendar reads the optional YAML calendar file. An empty path yields a zero config,
// meaning the builder keeps its defaults.
func LoadCalendar(path string) (CalendarConfig, error) {
	var cc CalendarConfig
	if path == "" {
		return cc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cc, fmt.Errorf("failed to read calendar file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cc); err != nil {
		return cc, fmt.Errorf("failed to parse calendar file %s: %w", path, err)
	}
	if err := cc.validate(); err != nil {
		return cc, fmt.Errorf("calendar file %s: %w", path, err)
	}
	return cc, nil
}

// validate requires zero-padded "MM-DD" holidays and a peak window inside [0,24].
func (cc CalendarConfig) validate() error {
	for _, h := range cc.Holidays {
		if len(h) != len("01-02") {
			return fmt.Errorf("holiday %q must be MM-DD", h)
		}
		if _, err := time.Parse("01-02", h); err != nil {
			return fmt.Errorf("holiday %q must be MM-DD", h)
		}
	}
	if cc.PeakStart != nil && (*cc.PeakStart < 0 || *cc.PeakStart > 23) {
		return fmt.Errorf("peak_start_hour %d out of range 0..23", *cc.PeakStart)
	}
	if cc.PeakEnd != nil && (*cc.PeakEnd < 1 || *cc.PeakEnd > 24) {
		return fmt.Errorf("peak_end_hour %d out of range 1..24", *cc.PeakEnd)
	}
	if cc.PeakStart != nil && cc.PeakEnd != nil && *cc.PeakStart >= *cc.PeakEnd {
		return fmt.Errorf("peak_start_hour must be before peak_end_hour")
	}
	return nil
}
