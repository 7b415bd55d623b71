// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the deployment configuration loaded from cedar.yaml.
type Config struct {
	// Data locations for the raw tables.
	Data struct {
		EnrollmentCSV string `yaml:"enrollment_csv"`
		SectionsCSV   string `yaml:"sections_csv"`
	} `yaml:"data"`

	// Cache policy for the anomaly result cache.
	Cache struct {
		Dir      string `yaml:"dir"`
		TTLHours int    `yaml:"ttl_hours"`
		Retain   int    `yaml:"retain"`
	} `yaml:"cache"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`
}

// defaultConfig is used when no cedar.yaml is present.
func defaultConfig() Config {
	var c Config
	c.Data.EnrollmentCSV = "data/enrollment.csv"
	c.Data.SectionsCSV = "data/sections.csv"
	c.Cache.Dir = "cache/anomaly"
	c.Cache.TTLHours = 24
	c.Cache.Retain = 20
	c.Logging.Level = "info"
	return c
}

// loadConfig reads cedar.yaml from the working directory, falling back
// to defaults when the file does not exist.
func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) cacheTTL() time.Duration {
	if c.Cache.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Cache.TTLHours) * time.Hour
}
