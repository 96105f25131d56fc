package main

import (
	"fmt"

	"github.com/gatvcs/gat/pkg/object"
	"github.com/gatvcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var prettyPrint bool
	var showKind bool

	cmd := &cobra.Command{
		Use:   "cat-file <digest>",
		Short: "Print a stored object's payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !showKind && !prettyPrint {
				return fmt.Errorf("cat-file: one of -p or -t is required")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			h, err := object.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("cat-file: %w", err)
			}

			kind, payload, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if showKind {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
				return nil
			}

			// Payload bytes go out verbatim; blobs may be binary.
			if _, err := cmd.OutOrStdout().Write(payload); err != nil {
				return fmt.Errorf("cat-file: write payload: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&prettyPrint, "print", "p", false, "print the object payload")
	cmd.Flags().BoolVarP(&showKind, "type", "t", false, "print the object kind instead of the payload")
	return cmd
}
