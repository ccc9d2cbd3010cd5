package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/wolfeidau/traba/internal/rpc"
	"gopkg.in/yaml.v3"
)

// ImportCmd registers an individual and its known ancestors from a lineage
// file in one call.
//
// Example lineage.yaml:
//
//	subject:
//	  tag: "A-102"
//	  breed: Kelso
//	  color: Red
//	  appearance: Pava
//	mother:
//	  tag: "H-17"
//	  breed: Hatch
//	  color: Grey
//	  appearance: Crestarosa
//	paternal_grandfather:
//	  tag: "R-3"
//	  breed: Sweater
//	  color: Red
//	  appearance: Moton
type ImportCmd struct {
	File string `short:"f" help:"Lineage YAML file, - for stdin" required:""`
}

func (c *ImportCmd) Run(ctx context.Context, globals *Globals) error {
	var r io.Reader = os.Stdin
	if c.File != "-" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("failed to read lineage file: %w", err)
		}
		r = bytes.NewReader(data)
	}

	lineage, err := decodeLineage(r)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.RegisterLineage(ctx, connect.NewRequest(lineage))
	if err != nil {
		return fmt.Errorf("failed to import lineage: %w", err)
	}

	msg := resp.Msg
	return render(globals.stdout(), globals.Output, msg, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ROLE\tTAG\tCODE\tID")
		fmt.Fprintf(tw, "subject\t%s\t%s\t%s\n", msg.Subject.Tag, msg.Subject.SyntheticCode, msg.Subject.IndividualID)
		for _, role := range []string{"mother", "father", "maternalGrandmother", "maternalGrandfather", "paternalGrandmother", "paternalGrandfather"} {
			if ind, ok := msg.Ancestors[role]; ok {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", role, ind.Tag, ind.SyntheticCode, ind.IndividualID)
			}
		}
		for _, p := range msg.Placeholders {
			fmt.Fprintf(tw, "placeholder\t%s\t%s\t%s\n", p.Tag, p.SyntheticCode, p.IndividualID)
		}
	})
}

// decodeLineage parses a lineage file, rejecting unknown keys so that a
// misspelt ancestor role is not silently dropped.
func decodeLineage(r io.Reader) (*rpc.RegisterLineageRequest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var lineage rpc.RegisterLineageRequest
	if err := dec.Decode(&lineage); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("lineage file is empty")
		}
		return nil, fmt.Errorf("failed to parse lineage file: %w", err)
	}
	if lineage.Subject.Tag == "" {
		return nil, errors.New("lineage file must describe a subject with a tag")
	}

	return &lineage, nil
}
