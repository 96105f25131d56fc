package main

import (
	"fmt"
	"path/filepath"

	"github.com/gatvcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newWriteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree [dir]",
		Short: "Hash a directory into tree and blob objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			dir := r.RootDir
			if len(args) == 1 {
				dir, err = filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("write-tree: resolve dir: %w", err)
				}
			}

			ignore, err := r.LoadIgnoreSet()
			if err != nil {
				return err
			}
			h, err := r.BuildTree(dir, ignore)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
