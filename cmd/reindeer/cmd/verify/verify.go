// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/fnichol/reindeer/pkg/cargo"
	"github.com/fnichol/reindeer/pkg/lockfile"
	"github.com/fnichol/reindeer/pkg/reindeerconfig"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	var metadataPath string

	cmd := &cobra.Command{
		Use:   "verify <Cargo.lock | third-party-dir>",
		Short: "check lockfile entries, optionally against a metadata snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lockPath, err := resolveLockfilePath(args[0])
			if err != nil {
				return err
			}
			lock, err := lockfile.Load(lockPath)
			if err != nil {
				return err
			}

			if metadataPath == "" {
				cmd.Println(entriesTable(lock))
				return nil
			}

			meta, err := cargo.LoadMetadata(metadataPath)
			if err != nil {
				return err
			}
			output, missing := matchTable(lock, meta)
			cmd.Println(output)
			if missing > 0 {
				return fmt.Errorf("%d package(s) missing from lockfile", missing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to a cargo metadata snapshot (JSON) to cross-check")
	return cmd
}

// resolveLockfilePath accepts either a lockfile path or a third-party
// directory containing one.
func resolveLockfilePath(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return arg, nil
	}
	paths, err := reindeerconfig.NewPaths(arg)
	if err != nil {
		return "", err
	}
	return paths.LockfilePath, nil
}

func entriesTable(lock *lockfile.Lockfile) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(lo.Map(lock.Packages, func(pkg *lockfile.Package, _ int) []string {
			checksum := ""
			if pkg.Checksum != nil {
				checksum = *pkg.Checksum
			}
			return []string{pkg.Name, pkg.Version.String(), checksum}
		})...).
		String()
}

func matchTable(lock *lockfile.Lockfile, meta *cargo.Metadata) (string, int) {
	missing := 0

	rows := lo.Map(meta.Packages, func(m *cargo.Manifest, _ int) []string {
		entry := lock.Find(m)
		if entry == nil {
			missing++
			return []string{m.Name, m.Version.String(), color.RedString("missing")}
		}
		checksum := color.YellowString("no checksum")
		if entry.Checksum != nil {
			checksum = *entry.Checksum
		}
		return []string{m.Name, m.Version.String(), checksum}
	})

	output := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(rows...).
		String()
	return output, missing
}
