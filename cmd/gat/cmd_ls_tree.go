package main

import (
	"fmt"

	"github.com/gatvcs/gat/pkg/object"
	"github.com/gatvcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls-tree <digest>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			h, err := object.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("ls-tree: %w", err)
			}

			tr, err := r.Store.ReadTree(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range tr.Entries {
				fmt.Fprintf(out, "%s %s %s\t%s\n", e.Mode, entryKindWord(e), e.Hash, e.Name)
			}
			return nil
		},
	}
}

func entryKindWord(e object.TreeEntry) object.Kind {
	if e.IsDir() {
		return object.KindTree
	}
	return object.KindBlob
}
