// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

const jobsKey = "jobs"

// ErrConfiguration is wrapped by every error caused by a malformed configuration.
var ErrConfiguration = errors.New("configuration error")

// Config is the parsed batch configuration.
type Config struct {
	Jobs List
}

// Parse decodes the YAML document and expands its jobs.
// Any malformed entry fails the whole parse.
func Parse(data []byte) (*Config, error) {
	var doc any

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap(), yaml.AllowDuplicateMapKey()); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %w", ErrConfiguration, err)
	}

	root, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: document must be a mapping", ErrConfiguration)
	}

	var (
		jobsNode any
		found    bool
	)

	for _, item := range root {
		if k, ok := item.Key.(string); ok && k == jobsKey {
			jobsNode, found = item.Value, true
			break
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: missing %q key", ErrConfiguration, jobsKey)
	}

	list, err := expand(jobsNode)
	if err != nil {
		return nil, err
	}

	return &Config{Jobs: list}, nil
}

// expand walks base -> distribution -> variants in document order.
func expand(node any) (List, error) {
	bases, ok := node.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a mapping of bases, got %s", ErrConfiguration, jobsKey, kind(node))
	}

	list := make(List, 0)

	for _, b := range bases {
		base, err := identifier(b.Key, jobsKey)
		if err != nil {
			return nil, err
		}

		dists, ok := b.Value.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("%w: base %q must be a mapping of distributions, got %s",
				ErrConfiguration, base, kind(b.Value))
		}

		for _, d := range dists {
			dist, err := identifier(d.Key, base)
			if err != nil {
				return nil, err
			}

			variants, ok := d.Value.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s/%s must be a list of variants, got %s",
					ErrConfiguration, base, dist, kind(d.Value))
			}

			for _, v := range variants {
				variant, err := identifier(v, base+"/"+dist)
				if err != nil {
					return nil, err
				}

				list = append(list, Job{Base: base, Distribution: dist, Variant: variant})
			}
		}
	}

	return list, nil
}

// identifier renders a scalar as a string. Collections, null and empty strings are rejected.
func identifier(v any, parent string) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", fmt.Errorf("%w: empty identifier under %s", ErrConfiguration, parent)
	case yaml.MapSlice, []any, map[string]any:
		return "", fmt.Errorf("%w: identifier under %s must be a scalar, got %s", ErrConfiguration, parent, kind(v))
	case string:
		if x == "" {
			return "", fmt.Errorf("%w: empty identifier under %s", ErrConfiguration, parent)
		}

		return x, nil
	default:
		return fmt.Sprint(x), nil
	}
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case yaml.MapSlice, map[string]any:
		return "a mapping"
	case []any:
		return "a list"
	default:
		return fmt.Sprintf("scalar %v", v)
	}
}
