// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package simplestreams

import (
	"encoding/json"
	"errors"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
)

// ErrReadIndex is returned when the repository index cannot be read or decoded.
var ErrReadIndex = errors.New("could not read simplestreams index")

// Index is the content of streams/v1/images.json.
type Index struct {
	Products map[string]Product `json:"products"`
}

// Product is one image, e.g. yunohost:bookworm-stable:amd64:dev, with all its published versions.
type Product struct {
	Versions map[string]Version `json:"versions"`
}

// Version is one build of a product, keyed by its date.
type Version struct {
	Items map[string]Item `json:"items"`
}

// Item is one file of a version.
type Item struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	FType  string `json:"ftype,omitempty"`
	Size   int64  `json:"size,omitempty"`
}

// ProductNames returns the product names in lexical order.
func (i *Index) ProductNames() []string {
	return slices.Sorted(maps.Keys(i.Products))
}

// VersionNames returns the version names in lexical order, oldest first.
func (p Product) VersionNames() []string {
	return slices.Sorted(maps.Keys(p.Versions))
}

// ItemNames returns the item names in lexical order.
func (v Version) ItemNames() []string {
	return slices.Sorted(maps.Keys(v.Items))
}

func indexPath(repo string) string {
	return filepath.Join(repo, "streams", "v1", "images.json")
}

func readIndex(fs afero.Fs, repo string) (*Index, error) {
	b, err := afero.ReadFile(fs, indexPath(repo))
	if err != nil {
		return nil, errors.Join(ErrReadIndex, err)
	}

	var idx Index

	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, errors.Join(ErrReadIndex, err)
	}

	return &idx, nil
}
