package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/wolfeidau/traba/internal/rpc"
)

// ReferenceCmd prints the breeds, appearances, ancestor roles and the
// consanguinity table. It does not need a session.
type ReferenceCmd struct{}

func (c *ReferenceCmd) Run(ctx context.Context, globals *Globals) error {
	clients, _, err := globals.anonymousClients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.ListReferenceData(ctx, connect.NewRequest(&rpc.ListReferenceDataRequest{}))
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	ref := resp.Msg
	return render(globals.stdout(), globals.Output, ref, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Breeds\t%s\n", strings.Join(ref.Breeds, ", "))
		fmt.Fprintf(tw, "Appearances\t%s\n", strings.Join(ref.Appearances, ", "))
		fmt.Fprintf(tw, "Photo types\t%s\n", strings.Join(ref.PhotoExtensions, ", "))
		fmt.Fprintf(tw, "Ancestor roles\t%s\n", strings.Join(ref.AncestorRoles, ", "))
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "GENERATION\tCONSANGUINITY")
		for _, level := range ref.Consanguinity {
			fmt.Fprintf(tw, "%d\t%.1f%%\n", level.Generation, level.Percentage)
		}
	})
}
