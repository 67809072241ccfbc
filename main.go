// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/platform-engineering-labs/formae/pkg/plugin/sdk"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/logging"
)

func main() {
	logging.Setup(os.Getenv("CONTRAIL_LOG_LEVEL"), true)
	sdk.RunWithManifest(&Plugin{}, sdk.RunConfig{})
}
