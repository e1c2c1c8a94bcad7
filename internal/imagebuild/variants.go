// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package imagebuild

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownVariant is returned for a variant that has no recipe.
var ErrUnknownVariant = errors.New("unknown variant")

var (
	// Bases are the Debian releases images are built on.
	Bases = []string{"bullseye", "bookworm", "trixie"}
	// Distributions are the YunoHost distributions.
	Distributions = []string{"stable", "testing", "unstable"}
	// Variants are the buildable variants, each one a recipe.
	Variants = []string{"build-and-lint", "before-install", "appci-only", "all", "demo"}
)

// step runs a script of the recipes file then publishes the container.
type step struct {
	script  string
	publish string
}

type recipe struct {
	from         string // Short name of the image to start from, empty for the Debian image
	gitlabRunner bool   // Whether to push the gitlab runner package first
	steps        []step
}

var recipes = map[string]recipe{
	"build-and-lint": {
		gitlabRunner: true,
		steps:        []step{{script: "build_and_lint", publish: "build-and-lint"}},
	},
	"before-install": {
		gitlabRunner: true,
		steps:        []step{{script: "before_install", publish: "before-install"}},
	},
	"all": {
		gitlabRunner: true,
		steps: []step{
			{script: "dev", publish: "dev"},
			{script: "appci", publish: "appci"},
			{script: "core_tests", publish: "core-tests"},
		},
	},
	"appci-only": {
		from:  "dev",
		steps: []step{{script: "appci", publish: "appci"}},
	},
	"demo": {
		from:  "before-install",
		steps: []step{{script: "demo", publish: "demo"}},
	},
}

func recipeFor(variant string) (recipe, error) {
	r, ok := recipes[variant]
	if !ok {
		return recipe{}, fmt.Errorf("%w: %q, expected one of %v", ErrUnknownVariant, variant, Variants)
	}

	return r, nil
}

// ValidBase reports whether base is one of Bases.
func ValidBase(base string) bool {
	return slices.Contains(Bases, base)
}

// ValidDistribution reports whether distribution is one of Distributions.
func ValidDistribution(distribution string) bool {
	return slices.Contains(Distributions, distribution)
}

// ValidVariant reports whether variant is one of Variants.
func ValidVariant(variant string) bool {
	return slices.Contains(Variants, variant)
}
