package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/wolfeidau/traba/internal/rpc"
)

// IndividualFlags are the attributes accepted by add and edit.
type IndividualFlags struct {
	Tag          string `help:"Primary tag" required:""`
	SecondaryTag string `help:"Regional tag" name:"secondary-tag"`
	Name         string `help:"Name"`
	Breed        string `help:"Breed, see 'traba reference'" required:""`
	Color        string `help:"Plumage color" required:""`
	Appearance   string `help:"Appearance category, see 'traba reference'" required:""`
	FightRecord  string `help:"Fight record" name:"fight-record"`
	Photo        string `help:"Photo reference (png, jpg, jpeg or gif)"`
}

func (f IndividualFlags) attributes() rpc.IndividualAttributes {
	return rpc.IndividualAttributes{
		Tag:          f.Tag,
		SecondaryTag: f.SecondaryTag,
		Name:         f.Name,
		Breed:        f.Breed,
		Color:        f.Color,
		Appearance:   f.Appearance,
		FightRecord:  f.FightRecord,
		PhotoRef:     f.Photo,
	}
}

// IndividualCmd manages individuals.
type IndividualCmd struct {
	Add    IndividualAddCmd    `cmd:"" help:"Register an individual"`
	List   IndividualListCmd   `cmd:"" help:"List or search individuals"`
	Show   IndividualShowCmd   `cmd:"" help:"Show an individual"`
	Edit   IndividualEditCmd   `cmd:"" help:"Edit an individual's attributes"`
	Delete IndividualDeleteCmd `cmd:"" help:"Delete an individual and its parentage links"`
}

type IndividualAddCmd struct {
	IndividualFlags `embed:""`
}

func (c *IndividualAddCmd) Run(ctx context.Context, globals *Globals) error {
	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.CreateIndividual(ctx, connect.NewRequest(&rpc.CreateIndividualRequest{
		Individual: c.attributes(),
	}))
	if err != nil {
		return fmt.Errorf("failed to register individual: %w", err)
	}

	return printIndividuals(globals, resp.Msg.Individual)
}

type IndividualListCmd struct {
	Query string `arg:"" optional:"" help:"Match tag, secondary tag, name or synthetic code"`
}

func (c *IndividualListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.ListIndividuals(ctx, connect.NewRequest(&rpc.ListIndividualsRequest{Query: c.Query}))
	if err != nil {
		return fmt.Errorf("failed to list individuals: %w", err)
	}

	if len(resp.Msg.Individuals) == 0 && globals.Output == "table" {
		fmt.Fprintln(globals.stdout(), "No individuals found.")
		return nil
	}

	return printIndividuals(globals, resp.Msg.Individuals...)
}

type IndividualShowCmd struct {
	ID string `arg:"" help:"Individual ID"`
}

func (c *IndividualShowCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.GetIndividual(ctx, connect.NewRequest(&rpc.GetIndividualRequest{IndividualID: id}))
	if err != nil {
		return fmt.Errorf("failed to get individual: %w", err)
	}

	ind := resp.Msg.Individual
	return render(globals.stdout(), globals.Output, ind, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "ID\t%s\n", ind.IndividualID)
		fmt.Fprintf(tw, "Code\t%s\n", ind.SyntheticCode)
		fmt.Fprintf(tw, "Tag\t%s\n", ind.Tag)
		fmt.Fprintf(tw, "Secondary tag\t%s\n", orDash(ind.SecondaryTag))
		fmt.Fprintf(tw, "Name\t%s\n", orDash(ind.Name))
		fmt.Fprintf(tw, "Breed\t%s\n", ind.Breed)
		fmt.Fprintf(tw, "Color\t%s\n", ind.Color)
		fmt.Fprintf(tw, "Appearance\t%s\n", ind.Appearance)
		fmt.Fprintf(tw, "Fight record\t%s\n", orDash(ind.FightRecord))
		fmt.Fprintf(tw, "Photo\t%s\n", orDash(ind.PhotoRef))
		fmt.Fprintf(tw, "Placeholder\t%t\n", ind.Placeholder)
		fmt.Fprintf(tw, "Updated\t%s\n", ind.UpdatedAt.Local().Format("2006-01-02 15:04"))
	})
}

type IndividualEditCmd struct {
	ID              string `arg:"" help:"Individual ID"`
	IndividualFlags `embed:""`
}

func (c *IndividualEditCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.UpdateIndividual(ctx, connect.NewRequest(&rpc.UpdateIndividualRequest{
		IndividualID: id,
		Individual:   c.attributes(),
	}))
	if err != nil {
		return fmt.Errorf("failed to edit individual: %w", err)
	}

	return printIndividuals(globals, resp.Msg.Individual)
}

type IndividualDeleteCmd struct {
	ID string `arg:"" help:"Individual ID"`
}

func (c *IndividualDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	if _, err := clients.Pedigree.DeleteIndividual(ctx, connect.NewRequest(&rpc.DeleteIndividualRequest{IndividualID: id})); err != nil {
		return fmt.Errorf("failed to delete individual: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "Deleted %s\n", id)
	return nil
}

func printIndividuals(globals *Globals, individuals ...*rpc.Individual) error {
	var v any = individuals
	if len(individuals) == 1 {
		v = individuals[0]
	}

	return render(globals.stdout(), globals.Output, v, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tCODE\tTAG\tNAME\tBREED\tCOLOR\tAPPEARANCE")
		for _, ind := range individuals {
			tag := ind.Tag
			if ind.Placeholder {
				tag += " (placeholder)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				ind.IndividualID, ind.SyntheticCode, tag, orDash(ind.Name), ind.Breed, ind.Color, ind.Appearance)
		}
	})
}
