// Package cli implements templectl, the operator tool for lifecycle moves,
// featuring, role grants and ledger reconciliation.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/accounts"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/campaigns"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/ledger"
)

// operator is the actor recorded for administrative changes made from the
// command line.
var operator = domain.Actor{UserID: "templectl", Role: domain.UserRoleSuperAdmin}

// Environment provides the store and output streams to the commands.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger
	// OpenStore is called once per command that touches data.
	OpenStore func(ctx context.Context) (domain.Store, func(), error)
	// Migrate applies the schema migrations.
	Migrate func() error
}

func (env *Environment) withStore(ctx context.Context, fn func(domain.Store) error) error {
	store, closeFn, err := env.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(store)
}

type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(env *Environment) error {
	if err := env.Migrate(); err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, "migrations applied")
	return nil
}

// transition moves a campaign to status on behalf of the operator.
func transition(ctx context.Context, env *Environment, id string, to domain.CampaignStatus) error {
	return env.withStore(ctx, func(store domain.Store) error {
		svc := campaigns.NewService(store, env.Logger)
		if err := svc.Transition(ctx, operator, id, to); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "campaign %s is now %s\n", id, to)
		return nil
	})
}

type ApproveCmd struct {
	ID string `arg help:"pending campaign id."`
}

func (cmd *ApproveCmd) Run(ctx context.Context, env *Environment) error {
	return transition(ctx, env, cmd.ID, domain.CampaignStatusActive)
}

type CompleteCmd struct {
	ID string `arg help:"active campaign id."`
}

func (cmd *CompleteCmd) Run(ctx context.Context, env *Environment) error {
	return transition(ctx, env, cmd.ID, domain.CampaignStatusCompleted)
}

type CancelCmd struct {
	ID string `arg help:"pending or active campaign id."`
}

func (cmd *CancelCmd) Run(ctx context.Context, env *Environment) error {
	return transition(ctx, env, cmd.ID, domain.CampaignStatusCancelled)
}

type FeatureCmd struct {
	ID  string `arg help:"campaign id."`
	Off bool   `help:"remove the featured flag instead of setting it."`
}

func (cmd *FeatureCmd) Run(ctx context.Context, env *Environment) error {
	return env.withStore(ctx, func(store domain.Store) error {
		svc := campaigns.NewService(store, env.Logger)
		if err := svc.SetFeatured(ctx, operator, cmd.ID, !cmd.Off); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "campaign %s featured=%t\n", cmd.ID, !cmd.Off)
		return nil
	})
}

type PromoteCmd struct {
	Email string `arg help:"email of the account."`
	Role  string `default:"super_admin" enum:"donor,temple_admin,super_admin" help:"role to grant (${enum})."`
}

func (cmd *PromoteCmd) Run(ctx context.Context, env *Environment) error {
	return env.withStore(ctx, func(store domain.Store) error {
		svc := accounts.NewService(store, nil, env.Logger)
		user, err := svc.Promote(ctx, cmd.Email, domain.UserRole(cmd.Role))
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s (%s) is now %s\n", user.Email, user.ID, user.Role)
		return nil
	})
}

type ReconcileCmd struct {
	Campaign string `help:"only check this campaign id."`
	Apply    bool   `help:"overwrite drifted aggregates with the recomputed totals."`
}

func (cmd *ReconcileCmd) Run(ctx context.Context, env *Environment) error {
	return env.withStore(ctx, func(store domain.Store) error {
		rec := ledger.NewReconciler(store, env.Logger)
		var drifts []ledger.Drift
		if cmd.Campaign != "" {
			d, err := rec.Check(ctx, cmd.Campaign)
			if err != nil {
				return err
			}
			drifts = []ledger.Drift{d}
		} else {
			all, err := rec.CheckAll(ctx)
			if err != nil {
				return err
			}
			drifts = all
		}

		drifted := 0
		for _, d := range drifts {
			if d.Consistent() {
				continue
			}
			drifted++
			fmt.Fprintf(env.Stdout, "%s %q stored=%s/%d ledger=%s/%d\n",
				d.CampaignID, d.Title, d.StoredRaised, d.StoredCount, d.LedgerRaised, d.LedgerCount)
			if cmd.Apply {
				if err := rec.Apply(ctx, d); err != nil {
					return err
				}
			}
		}
		switch {
		case drifted == 0:
			fmt.Fprintf(env.Stdout, "%d campaigns consistent\n", len(drifts))
		case cmd.Apply:
			fmt.Fprintf(env.Stdout, "%d campaigns repaired\n", drifted)
		default:
			fmt.Fprintf(env.Stdout, "%d campaigns drifted, rerun with --apply to repair\n", drifted)
		}
		return nil
	})
}

type CLI struct {
	Migrate   MigrateCmd   `cmd help:"Apply pending database migrations."`
	Approve   ApproveCmd   `cmd help:"Approve a pending campaign."`
	Complete  CompleteCmd  `cmd help:"Mark an active campaign completed."`
	Cancel    CancelCmd    `cmd help:"Cancel a pending or active campaign."`
	Feature   FeatureCmd   `cmd help:"Feature or unfeature a campaign."`
	Promote   PromoteCmd   `cmd help:"Grant a role to an account."`
	Reconcile ReconcileCmd `cmd help:"Compare campaign aggregates with their completed donations."`
}

// Run parses args and executes the selected command. It returns the process
// exit code.
func Run(ctx context.Context, env Environment, args []string) int {
	app := CLI{}
	parser, err := kong.New(&app,
		kong.Name("templectl"),
		kong.Description("temple crowdfunding operator tool"),
		kong.UsageOnError(),
		kong.Writers(env.Stdout, env.Stderr),
		kong.Exit(func(int) {}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 2
	}
	cntx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}
	if err := cntx.Run(&env); err != nil {
		fmt.Fprintf(env.Stderr, "templectl: %v\n", err)
		return 1
	}
	return 0
}
