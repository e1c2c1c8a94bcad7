// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package incus

import (
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
)

const statusStopped = "STOPPED"

type instance struct {
	Name string `yaml:"name"`
}

type instanceInfo struct {
	Status string `yaml:"Status"`
}

// InstanceExists reports whether an instance with this name exists.
func (c *Client) InstanceExists(ctx context.Context, name string) (bool, error) {
	out, err := c.run(ctx, "", nil, "list", "-f", "yaml")
	if err != nil {
		return false, err
	}

	names, err := parseInstanceNames(out)
	if err != nil {
		return false, err
	}

	return slices.Contains(names, name), nil
}

// InstanceStopped reports whether the instance is stopped.
// The instance must exist.
func (c *Client) InstanceStopped(ctx context.Context, name string) (bool, error) {
	exists, err := c.InstanceExists(ctx, name)
	if err != nil {
		return false, err
	}

	if !exists {
		return false, fmt.Errorf("%w: %s", ErrInstanceNotFound, name)
	}

	out, err := c.run(ctx, "", nil, "info", name)
	if err != nil {
		return false, err
	}

	status, err := parseInstanceStatus(out)
	if err != nil {
		return false, err
	}

	return status == statusStopped, nil
}

// InstanceStart starts the instance.
func (c *Client) InstanceStart(ctx context.Context, name string) error {
	_, err := c.run(ctx, "", nil, "start", name)
	return err
}

// InstanceStop stops the instance.
func (c *Client) InstanceStop(ctx context.Context, name string) error {
	_, err := c.run(ctx, "", nil, "stop", name)
	return err
}

// InstanceDelete deletes the instance, which must be stopped.
func (c *Client) InstanceDelete(ctx context.Context, name string) error {
	_, err := c.run(ctx, "", nil, "delete", name)
	return err
}

// Launch creates and starts an instance from an image.
func (c *Client) Launch(ctx context.Context, image, name string) error {
	_, err := c.run(ctx, "", nil, "launch", image, name)
	return err
}

// PushFile copies a local file to target, an absolute path inside the instance,
// and flushes the filesystem buffers.
func (c *Client) PushFile(ctx context.Context, name, file, target string) error {
	if _, err := c.run(ctx, "", nil, "file", "push", file, name+target); err != nil {
		return err
	}

	syncFilesystems()

	return nil
}

// Exec runs a command in the instance.
// Its output is logged at debug level, one record per line.
func (c *Client) Exec(ctx context.Context, name string, args ...string) error {
	return c.runLogged(ctx, ExecPrefix, append([]string{"exec", name, "--"}, args...)...)
}

func parseInstanceNames(out []byte) ([]string, error) {
	var list []instance

	if err := yaml.Unmarshal(out, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseOutput, err)
	}

	names := make([]string, 0, len(list))
	for _, i := range list {
		names = append(names, i.Name)
	}

	return names, nil
}

func parseInstanceStatus(out []byte) (string, error) {
	var info instanceInfo

	if err := yaml.Unmarshal(out, &info); err != nil {
		return "", fmt.Errorf("%w: %w", ErrParseOutput, err)
	}

	return info.Status, nil
}
