package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noelruault/lazylinode/internal/linode"
	uiImages "github.com/noelruault/lazylinode/internal/ui/images"
)

// parseVisibility maps the --visibility flag onto a filter; "" and "all" disable it.
func parseVisibility(s string) (linode.Visibility, error) {
	switch s {
	case "", "all":
		return "", nil
	case string(linode.VisibilityPublic), string(linode.VisibilityPrivate):
		return linode.Visibility(s), nil
	default:
		return "", fmt.Errorf("unsupported visibility %q (want public, private or all)", s)
	}
}

func newImagesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Browse images",
	}

	var visibility string
	var hideKube bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List images, ordered by ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVisibility(visibility)
			if err != nil {
				return err
			}
			all, err := uiImages.LoadImages(cmd.Context(), opts.client, opts.cfg.PageSize)
			if err != nil {
				return err
			}
			visible := uiImages.Visible(linode.ImagesByID(all), v, hideKube)
			return printList(cmd.OutOrStdout(), opts.output, titles(uiImages.Columns()),
				rowsOf(visible, nil, uiImages.Row), visible)
		},
	}
	list.Flags().StringVar(&visibility, "visibility", "all", "public, private or all")
	list.Flags().BoolVar(&hideKube, "hide-kube", false, "hide the system Kubernetes images")

	cmd.AddCommand(list)
	return cmd
}
