// Copyright (c) 2017-2025 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/fnichol/reindeer/cmd/reindeer/cmd/buckify"
	"github.com/fnichol/reindeer/cmd/reindeer/cmd/verify"
	"github.com/fnichol/reindeer/pkg/logging"
	"github.com/spf13/cobra"
)

func RootCmd() (*cobra.Command, error) {
	if err := logging.InitLogging(); err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:           "reindeer",
		Short:         "index cargo metadata for third-party build rule generation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		buckify.Cmd(),
		verify.Cmd(),
	)
	return root, nil
}
