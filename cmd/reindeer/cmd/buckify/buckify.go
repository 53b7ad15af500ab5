// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package buckify

import (
	"fmt"
	"strings"

	"github.com/fnichol/reindeer/pkg/buck"
	"github.com/fnichol/reindeer/pkg/cargo"
	"github.com/fnichol/reindeer/pkg/index"
	"github.com/fnichol/reindeer/pkg/schema"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

const (
	Kind       = "ThirdPartyIndex"
	APIVersion = schema.APIGroup + "/v1"
)

// document is the YAML summary handed to the rule-emission stage.
type document struct {
	schema.ManifestMeta `yaml:",inline"`
	Root                string      `yaml:"root"`
	Packages            []*pkgEntry `yaml:"packages"`
}

type pkgEntry struct {
	Rule     buck.Name   `yaml:"rule"`
	Package  string      `yaml:"package"`
	Public   bool        `yaml:"public,omitempty"`
	Oncall   string      `yaml:"oncall,omitempty"`
	Features []string    `yaml:"features,omitempty"`
	Deps     []*depEntry `yaml:"deps,omitempty"`
}

type depEntry struct {
	Rule     buck.Name `yaml:"rule"`
	Name     string    `yaml:"name"`
	Platform string    `yaml:"platform,omitempty"`
}

func Cmd() *cobra.Command {
	var metadataPath string
	var rootIsReal bool

	cmd := &cobra.Command{
		Use:   "buckify",
		Short: "index a cargo metadata snapshot and print the rule summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := buildSummary(metadataPath, rootIsReal)
			if err != nil {
				return err
			}
			cmd.Println(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to the cargo metadata snapshot (JSON)")
	cmd.Flags().BoolVar(&rootIsReal, "root-is-real", false, "treat the top-level package as a real public package")
	_ = cmd.MarkFlagRequired("metadata")
	return cmd
}

func buildSummary(metadataPath string, rootIsReal bool) (string, error) {
	meta, err := cargo.LoadMetadata(metadataPath)
	if err != nil {
		return "", err
	}

	idx, err := index.New(meta, index.Options{RootIsReal: rootIsReal})
	if err != nil {
		return "", err
	}

	extra, unknown, err := idx.ExtraMetadata()
	if err != nil {
		return "", err
	}
	if len(unknown) > 0 {
		return "", fmt.Errorf("third-party metadata for unknown package(s): %s", strings.Join(unknown, ", "))
	}

	doc := &document{
		ManifestMeta: schema.ManifestMeta{
			APIVersion: APIVersion,
			Kind:       Kind,
		},
		Root: idx.RootPackage().String(),
	}

	for _, pkg := range idx.AllPackages() {
		if idx.IsRootPackage(pkg.ID) {
			continue
		}

		entry := &pkgEntry{
			Rule:     ruleName(idx, pkg.ID),
			Package:  pkg.String(),
			Public:   idx.IsPublicPackage(pkg.ID),
			Oncall:   extra[pkg.Name].Oncall,
			Features: idx.ResolvedFeatures(pkg.ID),
		}

		if lib, ok := pkg.LibTarget(); ok {
			deps, err := idx.ResolvedDepsForTarget(pkg.ID, lib)
			if err != nil {
				return "", err
			}
			for _, dep := range deps {
				e := &depEntry{
					Rule: ruleName(idx, dep.Package.ID),
					Name: dep.Rename,
				}
				if dep.Platform != nil {
					e.Platform = dep.Platform.String()
				}
				entry.Deps = append(entry.Deps, e)
			}
		}

		doc.Packages = append(doc.Packages, entry)
	}

	contents, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(contents), nil
}

func ruleName(idx *index.Index, id cargo.PkgID) buck.Name {
	if idx.IsPublicPackage(id) {
		return idx.PublicRuleName(id)
	}
	return idx.PrivateRuleName(id)
}
