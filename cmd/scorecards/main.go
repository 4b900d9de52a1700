// Package main is the entry point of the scorecards CLI.
package main

import (
	"github.com/BrandRap-LLC/scorecards-sub002/cmd"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
