// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package incus

import (
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
)

// Property is one key=value image property given to Publish.
type Property struct {
	Key   string
	Value string
}

func (p Property) String() string {
	return p.Key + "=" + p.Value
}

type image struct {
	Aliases []struct {
		Name string `yaml:"name"`
	} `yaml:"aliases"`
}

// Publish creates an image from the stopped instance, with the alias and properties in the order given.
func (c *Client) Publish(ctx context.Context, name, alias string, props ...Property) error {
	args := []string{"publish", name, "--alias", alias}
	for _, p := range props {
		args = append(args, p.String())
	}

	_, err := c.run(ctx, "", nil, args...)

	return err
}

// ImageExport writes the image to target in dir, incus adds the file extension.
func (c *Client) ImageExport(ctx context.Context, alias, target, dir string) error {
	_, err := c.run(ctx, dir, nil, "image", "export", alias, target)
	return err
}

// ImageExists reports whether a local image has this alias.
func (c *Client) ImageExists(ctx context.Context, alias string) (bool, error) {
	out, err := c.run(ctx, "", nil, "image", "list", "-f", "yaml")
	if err != nil {
		return false, err
	}

	aliases, err := parseImageAliases(out)
	if err != nil {
		return false, err
	}

	return slices.Contains(aliases, alias), nil
}

// ImageDelete deletes the local image with this alias.
func (c *Client) ImageDelete(ctx context.Context, alias string) error {
	_, err := c.run(ctx, "", nil, "image", "delete", alias)
	return err
}

// ImageDownload copies a remote image, e.g. images:debian/bookworm, to the local store.
func (c *Client) ImageDownload(ctx context.Context, alias string) error {
	_, err := c.run(ctx, "", nil, "image", "copy", alias, "local:")
	return err
}

func parseImageAliases(out []byte) ([]string, error) {
	var list []image

	if err := yaml.Unmarshal(out, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseOutput, err)
	}

	var aliases []string

	for _, img := range list {
		for _, a := range img.Aliases {
			aliases = append(aliases, a.Name)
		}
	}

	return aliases, nil
}
