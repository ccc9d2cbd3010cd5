package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/wolfeidau/traba/cmd/cli/internal/credentials"
	"github.com/wolfeidau/traba/internal/rpc"
)

// SignupCmd registers a new tenant.
type SignupCmd struct {
	Name        string `arg:"" help:"Tenant sign-in name"`
	DisplayName string `help:"Name shown for the breeding operation"`
	Password    string `help:"Tenant password" required:"" env:"TRABA_PASSWORD"`
	Login       bool   `help:"Sign in after registering" default:"true" negatable:""`
}

func (c *SignupCmd) Run(ctx context.Context, globals *Globals) error {
	clients, _, err := globals.anonymousClients()
	if err != nil {
		return err
	}

	resp, err := clients.Tenants.Register(ctx, connect.NewRequest(&rpc.RegisterTenantRequest{
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Password:    c.Password,
	}))
	if err != nil {
		return fmt.Errorf("failed to register tenant: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "Registered tenant %s (%s)\n", resp.Msg.Tenant.Name, resp.Msg.Tenant.TenantID)

	if !c.Login {
		return nil
	}
	return (&LoginCmd{Name: c.Name, Password: c.Password}).Run(ctx, globals)
}

// LoginCmd signs in and stores the session as a profile.
type LoginCmd struct {
	Name     string `arg:"" help:"Tenant sign-in name"`
	Password string `help:"Tenant password" required:"" env:"TRABA_PASSWORD"`
	Default  bool   `help:"Make this profile the default"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	clients, serverURL, err := globals.anonymousClients()
	if err != nil {
		return err
	}

	resp, err := clients.Tenants.Authenticate(ctx, connect.NewRequest(&rpc.AuthenticateRequest{
		Name:     c.Name,
		Password: c.Password,
	}))
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	store, err := globals.store()
	if err != nil {
		return err
	}

	profileName := globals.Profile
	if profileName == "" {
		profileName = resp.Msg.Tenant.Name
	}

	err = store.Save(credentials.Profile{
		Name:       profileName,
		ServerURL:  serverURL,
		TenantID:   resp.Msg.Tenant.TenantID,
		TenantName: resp.Msg.Tenant.Name,
		Token:      resp.Msg.Token,
		ExpiresAt:  resp.Msg.ExpiresAt,
	})
	if err != nil {
		return err
	}
	if c.Default {
		if err := store.SetDefault(profileName); err != nil {
			return err
		}
	}

	fmt.Fprintf(globals.stdout(), "Signed in as %s (profile %s, expires %s)\n",
		resp.Msg.Tenant.Name, profileName, resp.Msg.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// LogoutCmd forgets a stored profile.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(globals *Globals) error {
	store, err := globals.store()
	if err != nil {
		return err
	}

	profile, err := store.Resolve(globals.Profile)
	if err != nil {
		return err
	}
	if err := store.Delete(profile.Name); err != nil {
		return err
	}

	fmt.Fprintf(globals.stdout(), "Signed out of profile %s\n", profile.Name)
	return nil
}

// WhoamiCmd shows the signed in tenant.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	clients, err := globals.clients()
	if err != nil {
		return err
	}

	resp, err := clients.Tenants.GetTenant(ctx, connect.NewRequest(&rpc.GetTenantRequest{}))
	if err != nil {
		return fmt.Errorf("failed to get tenant: %w", err)
	}

	t := resp.Msg.Tenant
	return render(globals.stdout(), globals.Output, t, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "TENANT ID\tNAME\tDISPLAY NAME\tCREATED")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.TenantID, t.Name, orDash(t.DisplayName), t.CreatedAt.Format("2006-01-02"))
	})
}

// PasswdCmd rotates the tenant password.
type PasswdCmd struct {
	Current string `help:"Current password" required:"" env:"TRABA_PASSWORD"`
	New     string `help:"New password" required:"" env:"TRABA_NEW_PASSWORD"`
}

func (c *PasswdCmd) Run(ctx context.Context, globals *Globals) error {
	clients, err := globals.clients()
	if err != nil {
		return err
	}

	_, err = clients.Tenants.RotateCredential(ctx, connect.NewRequest(&rpc.RotateCredentialRequest{
		CurrentPassword: c.Current,
		NewPassword:     c.New,
	}))
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	fmt.Fprintln(globals.stdout(), "Password changed")
	return nil
}

// ProfilesCmd lists stored profiles.
type ProfilesCmd struct{}

func (c *ProfilesCmd) Run(globals *Globals) error {
	store, err := globals.store()
	if err != nil {
		return err
	}

	profiles, err := store.List()
	if err != nil {
		return err
	}

	defaultName := ""
	if def, err := store.GetDefault(); err == nil {
		defaultName = def.Name
	}

	return render(globals.stdout(), globals.Output, profiles, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "PROFILE\tTENANT\tSERVER\tEXPIRES\tDEFAULT")
		for _, p := range profiles {
			def := ""
			if p.Name == defaultName {
				def = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.TenantName, p.ServerURL, p.ExpiresAt.Local().Format("2006-01-02 15:04"), def)
		}
	})
}
