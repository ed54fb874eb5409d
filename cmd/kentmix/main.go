// SPDX-License-Identifier: MIT

// Command kentmix fits Kent distributions and mixtures of them to directional
// data, simulates from them and measures the estimators.
package main

import (
	"os"

	"github.com/katalvlaran/kentmix/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.New(version, os.Stdout, os.Stderr).Run(); err != nil {
		os.Exit(1)
	}
}
