// Package main is the entry point for the nrfi CLI, which aggregates statcast pitch logs
// into first-inning records and rates pitchers on keeping the first inning scoreless.
package main

import "github.com/pable/nrfi-metrics/cmd"

func main() {
	cmd.Execute()
}
