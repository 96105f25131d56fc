package main

import (
	"fmt"

	"github.com/gatvcs/gat/pkg/object"
	"github.com/gatvcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var annotate bool
	var sign bool
	var force bool
	var message string
	var keyPath string

	cmd := &cobra.Command{
		Use:   "tag <name> [target]",
		Short: "Create a lightweight or annotated tag",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			name := args[0]
			target, err := resolveTagTarget(r, args)
			if err != nil {
				return err
			}

			if !annotate && !sign {
				if message != "" {
					return fmt.Errorf("tag: -m requires -a")
				}
				if err := r.CreateTag(name, target, force); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tag %s -> %s\n", name, target)
				return nil
			}

			var signer repo.TagSigner
			if sign {
				cfg, err := r.ReadConfig()
				if err != nil {
					return err
				}
				if keyPath == "" {
					keyPath = cfg.Tag.SigningKey
				}
				s, resolvedKey, err := newSSHTagSigner(keyPath)
				if err != nil {
					return err
				}
				signer = s
				fmt.Fprintf(cmd.ErrOrStderr(), "signing with %s\n", resolvedKey)
			}

			h, err := r.CreateAnnotatedTag(name, target, resolveAuthor(r), message, signer, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tag %s -> %s (tag object %s)\n", name, target, h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "create an annotated tag object")
	cmd.Flags().BoolVarP(&sign, "sign", "s", false, "sign the tag with an SSH key (implies -a)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing tag")
	cmd.Flags().StringVarP(&message, "message", "m", "", "tag message (annotated tags)")
	cmd.Flags().StringVar(&keyPath, "key", "", "SSH private key path (default: tag.signingkey, then ~/.ssh)")
	return cmd
}

func resolveTagTarget(r *repo.Repo, args []string) (object.Hash, error) {
	if len(args) == 2 {
		if h, err := object.ParseHash(args[1]); err == nil {
			return h, nil
		}
		h, err := r.ResolveRef(args[1])
		if err != nil {
			return "", fmt.Errorf("tag: resolve target %q: %w", args[1], err)
		}
		return h, nil
	}
	h, err := r.ResolveRef("HEAD")
	if err != nil || h == "" {
		return "", fmt.Errorf("tag: no target given and HEAD is unborn")
	}
	return h, nil
}
