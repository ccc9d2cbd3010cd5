package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/wolfeidau/traba/internal/rpc"
)

// ParentCmd manages direct parentage links.
type ParentCmd struct {
	Set  ParentSetCmd  `cmd:"" help:"Link an existing individual as mother or father"`
	Show ParentShowCmd `cmd:"" help:"Show the recorded mother and father"`
}

type ParentSetCmd struct {
	Subject string `arg:"" help:"Subject individual ID"`
	Role    string `arg:"" enum:"mother,father" help:"mother or father"`
	Parent  string `arg:"" help:"Parent individual ID"`
}

func (c *ParentSetCmd) Run(ctx context.Context, globals *Globals) error {
	subjectID, err := parseID(c.Subject)
	if err != nil {
		return err
	}
	parentID, err := parseID(c.Parent)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	_, err = clients.Pedigree.SetParent(ctx, connect.NewRequest(&rpc.SetParentRequest{
		SubjectID: subjectID,
		Role:      c.Role,
		ParentID:  parentID,
	}))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", c.Role, err)
	}

	fmt.Fprintf(globals.stdout(), "Recorded %s as %s of %s\n", parentID, c.Role, subjectID)
	return nil
}

type ParentShowCmd struct {
	Subject string `arg:"" help:"Subject individual ID"`
}

func (c *ParentShowCmd) Run(ctx context.Context, globals *Globals) error {
	subjectID, err := parseID(c.Subject)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.GetParents(ctx, connect.NewRequest(&rpc.GetParentsRequest{SubjectID: subjectID}))
	if err != nil {
		return fmt.Errorf("failed to get parents: %w", err)
	}

	return render(globals.stdout(), globals.Output, resp.Msg, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ROLE\tINDIVIDUAL ID")
		fmt.Fprintf(tw, "mother\t%s\n", optionalID(resp.Msg.MotherID))
		fmt.Fprintf(tw, "father\t%s\n", optionalID(resp.Msg.FatherID))
	})
}

// TreeCmd prints the three generation ancestry of an individual.
type TreeCmd struct {
	ID string `arg:"" help:"Individual ID"`
}

func (c *TreeCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.BuildTree(ctx, connect.NewRequest(&rpc.BuildTreeRequest{IndividualID: id}))
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}

	tree := resp.Msg.Tree
	return render(globals.stdout(), globals.Output, tree, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "POSITION\tTAG\tCODE\tBREED\tID")
		for _, slot := range []struct {
			label string
			ind   *rpc.Individual
		}{
			{"self", tree.Self},
			{"  mother", tree.Mother},
			{"    maternal grandmother", tree.MaternalGrandmother},
			{"    maternal grandfather", tree.MaternalGrandfather},
			{"  father", tree.Father},
			{"    paternal grandmother", tree.PaternalGrandmother},
			{"    paternal grandfather", tree.PaternalGrandfather},
		} {
			if slot.ind == nil {
				fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", slot.label)
				continue
			}
			tag := slot.ind.Tag
			if slot.ind.Placeholder {
				tag += " (placeholder)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", slot.label, tag, slot.ind.SyntheticCode, slot.ind.Breed, slot.ind.IndividualID)
		}
	})
}

// ChildrenCmd lists the offspring of an individual.
type ChildrenCmd struct {
	ID string `arg:"" help:"Individual ID"`
}

func (c *ChildrenCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.FindChildren(ctx, connect.NewRequest(&rpc.FindChildrenRequest{IndividualID: id}))
	if err != nil {
		return fmt.Errorf("failed to find children: %w", err)
	}

	children := resp.Msg.Children
	if len(children) == 0 && globals.Output == "table" {
		fmt.Fprintln(globals.stdout(), "No children found.")
		return nil
	}

	return render(globals.stdout(), globals.Output, children, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tCODE\tTAG\tNAME\tBREED")
		for _, child := range children {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", child.IndividualID, child.SyntheticCode, child.Tag, orDash(child.Name), child.Breed)
		}
	})
}

// ProgenitorCmd registers ancestors.
type ProgenitorCmd struct {
	Add ProgenitorAddCmd `cmd:"" help:"Register a new ancestor of an individual"`
}

type ProgenitorAddCmd struct {
	Target          string `arg:"" help:"Individual the ancestor belongs to"`
	Role            string `arg:"" help:"mother, father, maternal-grandmother, maternal-grandfather, paternal-grandmother or paternal-grandfather"`
	IndividualFlags `embed:""`
}

func (c *ProgenitorAddCmd) Run(ctx context.Context, globals *Globals) error {
	targetID, err := parseID(c.Target)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.RegisterProgenitor(ctx, connect.NewRequest(&rpc.RegisterProgenitorRequest{
		TargetID:   targetID,
		Role:       c.Role,
		Individual: c.attributes(),
	}))
	if err != nil {
		return fmt.Errorf("failed to register progenitor: %w", err)
	}

	if globals.Output != "table" {
		return render(globals.stdout(), globals.Output, resp.Msg, nil)
	}

	out := globals.stdout()
	fmt.Fprintf(out, "Registered %s %s (%s)\n", c.Role, resp.Msg.Individual.Tag, resp.Msg.Individual.IndividualID)
	if p := resp.Msg.Placeholder; p != nil {
		fmt.Fprintf(out, "Created placeholder %s (%s) to carry it\n", p.Tag, p.IndividualID)
	}
	return nil
}

// CrossCmd manages recorded inbreeding pairings.
type CrossCmd struct {
	Add  CrossAddCmd  `cmd:"" help:"Record a cross between two individuals"`
	List CrossListCmd `cmd:"" help:"List recorded crosses"`
}

type CrossAddCmd struct {
	Individual1 string `arg:"" help:"First individual ID"`
	Individual2 string `arg:"" help:"Second individual ID"`
	Generation  int    `help:"Declared inbreeding generation (1-6)" required:""`
	Type        string `help:"Kind of pairing, e.g. father-daughter"`
	Notes       string `help:"Free text notes"`
	Photo       string `help:"Photo reference (png, jpg, jpeg or gif)"`
}

func (c *CrossAddCmd) Run(ctx context.Context, globals *Globals) error {
	id1, err := parseID(c.Individual1)
	if err != nil {
		return err
	}
	id2, err := parseID(c.Individual2)
	if err != nil {
		return err
	}

	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Pedigree.RegisterCross(ctx, connect.NewRequest(&rpc.RegisterCrossRequest{
		Type:          c.Type,
		Individual1ID: id1,
		Individual2ID: id2,
		Generation:    c.Generation,
		Notes:         c.Notes,
		PhotoRef:      c.Photo,
	}))
	if err != nil {
		return fmt.Errorf("failed to register cross: %w", err)
	}

	return printCrosses(globals, resp.Msg.Cross)
}

type CrossListCmd struct {
	Generation int `help:"Only crosses of this generation (1-6)"`
}

func (c *CrossListCmd) Run(ctx context.Context, globals *Globals) error {
	clients, err := globals.clients()
	if err != nil {
		return err
	}

	req := &rpc.ListCrossesRequest{}
	if c.Generation != 0 {
		req.Generation = &c.Generation
	}

	resp, err := clients.Pedigree.ListCrosses(ctx, connect.NewRequest(req))
	if err != nil {
		return fmt.Errorf("failed to list crosses: %w", err)
	}

	if len(resp.Msg.Crosses) == 0 && globals.Output == "table" {
		fmt.Fprintln(globals.stdout(), "No crosses found.")
		return nil
	}

	return printCrosses(globals, resp.Msg.Crosses...)
}

func printCrosses(globals *Globals, crosses ...*rpc.Cross) error {
	var v any = crosses
	if len(crosses) == 1 {
		v = crosses[0]
	}

	return render(globals.stdout(), globals.Output, v, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "CROSS ID\tTYPE\tINDIVIDUAL 1\tINDIVIDUAL 2\tGEN\tPERCENT\tCREATED")
		for _, c := range crosses {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.1f%%\t%s\n",
				c.CrossID, orDash(c.Type), c.Individual1ID, c.Individual2ID, c.Generation, c.Percentage,
				c.CreatedAt.Local().Format("2006-01-02"))
		}
	})
}
