// Package main implements the ecstasks CLI tool.
// It replays lifecycle events against a real cluster and inspects task runner state.
package main

import "github.com/runvoy/ecstasks/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
