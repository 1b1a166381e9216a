package main

import (
	"fmt"

	"github.com/fwojciec/vsx"
)

// Run executes the dir add command.
func (c *DirAddCmd) Run(deps *Dependencies) error {
	preset := &vsx.DirectoryPreset{Path: c.Path, Name: c.Name}
	if err := deps.Directories.CreateDirectory(deps.Ctx, preset); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved directory %q (%d)\n", preset.Name, preset.ID)
	return nil
}

// Run executes the dir list command.
func (c *DirListCmd) Run(deps *Dependencies) error {
	presets, err := deps.Directories.FindDirectories(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	if len(presets) == 0 {
		fmt.Fprintln(deps.Stdout, "No directory presets. Use 'vsx dir add' to create one.")
		return nil
	}

	for _, p := range presets {
		marker := " "
		if p.IsActive {
			marker = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %d  %s  %s\n", marker, p.ID, p.Name, p.Path)
	}

	return nil
}

// Run executes the dir activate command.
func (c *DirActivateCmd) Run(deps *Dependencies) error {
	if err := deps.Directories.ActivateDirectory(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Activated directory %d\n", c.ID)
	return nil
}

// Run executes the dir delete command.
func (c *DirDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintln(deps.Stderr, "Deleting a preset removes its cataloged stencils. Re-run with --force to confirm.")
		return vsx.Errorf(vsx.EINVALID, "deletion not confirmed")
	}

	if err := deps.Directories.DeleteDirectory(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vsx.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted directory %d\n", c.ID)
	return nil
}
