// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package imagebuild

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/incusbake/internal/ctxlog"
	"github.com/matt-FFFFFF/incusbake/internal/incus"
	"github.com/matt-FFFFFF/incusbake/internal/simplestreams"
)

const (
	containerRecipes      = "/root/recipes"
	containerGitlabRunner = "/root/gitlab-runner-light.deb"
	imageOS               = "yunohost"
	devBranchBase         = "bookworm"
)

// container is the build container of one base and distribution.
type container struct {
	b            *Builder
	base         string
	distribution string
	name         string
	output       string // simplestreams repository, empty for none
}

// build runs the recipe and removes the container, whatever the outcome.
func (c *container) build(ctx context.Context, r recipe) error {
	err := c.runRecipe(ctx, r)

	return errors.Join(err, c.clear(ctx))
}

func (c *container) runRecipe(ctx context.Context, r recipe) error {
	from := ""
	if r.from != "" {
		from = c.imageAlias(r.from)
	}

	if err := c.start(ctx, from); err != nil {
		return err
	}

	if r.gitlabRunner {
		if err := c.putFile(ctx, c.b.resource(gitlabRunnerFile), containerGitlabRunner); err != nil {
			return err
		}
	}

	for _, s := range r.steps {
		if err := c.runScript(ctx, s.script); err != nil {
			return err
		}

		if err := c.publish(ctx, s.publish); err != nil {
			return err
		}
	}

	return nil
}

func (c *container) imageAlias(short string) string {
	return fmt.Sprintf("yunohost/%s-%s/%s", c.base, c.distribution, short)
}

// start launches a fresh container from image, or from the Debian image of the base when empty.
func (c *container) start(ctx context.Context, image string) error {
	if image == "" {
		image = "images:debian/" + c.base
		if err := c.b.Incus.ImageDownload(ctx, image); err != nil {
			return err
		}
	}

	if err := c.clear(ctx); err != nil {
		return err
	}

	ctxlog.Info(ctx, fmt.Sprintf("Launching %s from %s...", c.name, image))

	if err := c.b.Incus.Launch(ctx, image, c.name); err != nil {
		return err
	}

	return c.dhclient(ctx)
}

// dhclient asks for an address, the container does not always get one on boot.
func (c *container) dhclient(ctx context.Context) error {
	return c.b.Incus.Exec(ctx, c.name, "dhclient", "eth0")
}

// clear stops and deletes the container if it exists.
func (c *container) clear(ctx context.Context) error {
	exists, err := c.b.Incus.InstanceExists(ctx, c.name)
	if err != nil || !exists {
		return err
	}

	ctxlog.Info(ctx, "Deleting existing container...")

	stopped, err := c.b.Incus.InstanceStopped(ctx, c.name)
	if err != nil {
		return err
	}

	if !stopped {
		if err := c.b.Incus.InstanceStop(ctx, c.name); err != nil {
			return err
		}
	}

	return c.b.Incus.InstanceDelete(ctx, c.name)
}

func (c *container) putFile(ctx context.Context, file, dest string) error {
	ctxlog.Info(ctx, fmt.Sprintf("Pushing %s to %s...", file, dest))
	return c.b.Incus.PushFile(ctx, c.name, file, dest)
}

// gitBranch is the YunoHost branch the recipes install from.
func (c *container) gitBranch() string {
	if c.base == devBranchBase {
		return "dev"
	}

	return c.base
}

// runScript runs one step of the recipes script in the container.
func (c *container) runScript(ctx context.Context, name string) error {
	if err := c.putFile(ctx, c.b.resource(recipesFile), containerRecipes); err != nil {
		return err
	}

	command := []string{
		"env",
		"RELEASE=" + c.distribution,
		"DEBIAN_VERSION=" + c.base,
		"gitbranch=" + c.gitBranch(),
		containerRecipes,
		name,
	}

	ctxlog.Info(ctx, fmt.Sprintf("Running: %s...", strings.Join(command, " ")))

	if err := c.b.Incus.Exec(ctx, c.name, command...); err != nil {
		return err
	}

	return c.b.Incus.Exec(ctx, c.name, "rm", containerRecipes)
}

// publish slims the container and publishes it as yunohost/<base>-<distribution>/<short>,
// replacing any image with that alias. A running container is restarted afterwards.
func (c *container) publish(ctx context.Context, short string) error {
	if err := c.runScript(ctx, "slimify"); err != nil {
		return err
	}

	alias := c.imageAlias(short)

	arch, err := c.b.Incus.Arch()
	if err != nil {
		return err
	}

	description := fmt.Sprintf("YunoHost %s %s ynh-%s %s (%s)",
		c.base, c.distribution, short, arch, c.b.timeNow().Format("20060102"))

	exists, err := c.b.Incus.ImageExists(ctx, alias)
	if err != nil {
		return err
	}

	if exists {
		ctxlog.Info(ctx, fmt.Sprintf("Deleting already existing image %s", alias))

		if err := c.b.Incus.ImageDelete(ctx, alias); err != nil {
			return err
		}
	}

	stopped, err := c.b.Incus.InstanceStopped(ctx, c.name)
	if err != nil {
		return err
	}

	if !stopped {
		if err := c.b.Incus.InstanceStop(ctx, c.name); err != nil {
			return err
		}
	}

	ctxlog.Info(ctx, fmt.Sprintf("Publishing %s...", alias))

	if err := c.b.Incus.Publish(ctx, c.name, alias,
		incus.Property{Key: "description", Value: description},
		incus.Property{Key: "os", Value: imageOS},
		incus.Property{Key: "release", Value: c.base + "-" + c.distribution},
		incus.Property{Key: "variant", Value: short},
		incus.Property{Key: "architecture", Value: arch},
	); err != nil {
		return err
	}

	if c.output != "" {
		repo, err := simplestreams.New(c.b.Incus, c.output, c.b.resource(imageCacheDir))
		if err != nil {
			return err
		}

		if c.b.SimplestreamsBinary != "" {
			repo.Binary = c.b.SimplestreamsBinary
		}

		if err := repo.ImportFromIncus(ctx, alias, alias); err != nil {
			return err
		}
	}

	if stopped {
		return nil
	}

	if err := c.b.Incus.InstanceStart(ctx, c.name); err != nil {
		return err
	}

	return c.dhclient(ctx)
}
