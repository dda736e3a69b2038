// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// configName is the config file looked up in the project root.
const configName = ".bump.yaml"

// Config holds the settings read from a .bump.yaml file.
// Command-line flags override every field.
type Config struct {
	Disable       []string `yaml:"disable" validate:"dive,required"`
	Exclude       []string `yaml:"exclude" validate:"dive,required"`
	Jobs          int      `yaml:"jobs" validate:"gte=0"`
	TargetVersion string   `yaml:"target-version" validate:"omitempty,release"`
	LogFile       string   `yaml:"log-file"`

	// KnownNonModels names classes, by fully-qualified name, that must
	// never be treated as models even if they inherit from one.
	KnownNonModels []string `yaml:"known-non-models" validate:"dive,required"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("release", func(fl validator.FieldLevel) bool {
		_, ok := canonicalVersion(fl.Field().String())
		return ok
	})
}

// canonicalVersion returns the semantic version v with a "v" prefix,
// so "2.0.4" and "v2.0.4" are the same, and reports whether it is valid.
func canonicalVersion(v string) (string, bool) {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v, semver.IsValid(v)
}

// loadConfig reads the config file at path. A missing file yields
// nil unless required is set. Unknown keys and malformed values are
// errors.
func loadConfig(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if err := configValidate.Struct(&c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}
