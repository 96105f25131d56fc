package main

import (
	"fmt"

	"github.com/gatvcs/gat/pkg/object"
	"github.com/gatvcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitTreeCmd() *cobra.Command {
	var message string
	var parent string
	var author string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree-digest>",
		Short: "Create a commit object from an existing tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			tree, err := object.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("commit-tree: %w", err)
			}
			var parentHash object.Hash
			if parent != "" {
				parentHash, err = object.ParseHash(parent)
				if err != nil {
					return fmt.Errorf("commit-tree: %w", err)
				}
			}

			if author == "" {
				author = resolveAuthor(r)
			}

			h, err := r.BuildCommit(tree, parentHash, author, message)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent commit digest")
	cmd.Flags().StringVar(&author, "author", "", "override author (default: config, then $USER)")
	return cmd
}
