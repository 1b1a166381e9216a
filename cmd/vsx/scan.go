package main

import (
	"fmt"

	"github.com/fwojciec/vsx"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	root := c.Root
	if root == "" {
		preset, err := deps.Directories.ActiveDirectory(deps.Ctx)
		if err != nil {
			if vsx.ErrorCode(err) == vsx.ENOTFOUND {
				fmt.Fprintln(deps.Stderr, "No scan root given and no active directory preset. Use 'vsx dir add' and 'vsx dir activate' first.")
			}
			return err
		}
		root = preset.Path
	}

	fmt.Fprintf(deps.Stdout, "Scanning %s\n", root)

	status, err := deps.Scans.Scan(deps.Ctx, root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scanned %d files: %d ingested, %d unchanged, %d failed, %d pruned\n",
		status.FilesSeen, status.Ingested, status.Skipped, status.Failed, status.Pruned)
	return nil
}
