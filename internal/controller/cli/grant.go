package cli

import (
	"fmt"
	"io"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/service"
	"github.com/spf13/cobra"
)

func newGrantCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Manage access grants",
		Long: `Access grants give a user access to a whole program or a single
subcourse for a time window. A revoked grant never gives access,
an expired one stops at its valid_until.`,
	}

	cmd.AddCommand(
		newGrantCreateCmd(rt),
		newGrantListCmd(rt),
		newGrantStatusCmd(rt, "activate", model.GrantActive),
		newGrantStatusCmd(rt, "revoke", model.GrantRevoked),
		newGrantSetStatusCmd(rt),
		newGrantExtendCmd(rt),
		newGrantShowCmd(rt),
		newGrantFindCmd(rt),
		newGrantDeleteCmd(rt),
		newGrantSweepCmd(rt),
	)
	return cmd
}

func newGrantCreateCmd(rt *Runtime) *cobra.Command {
	var (
		userID      int64
		programID   int64
		subcourseID int64
		grantedBy   int64
		from        string
		until       string
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Grant a user access to a program or a subcourse",
		Example: `  lmsctl grant create --user 12 --program 3 --until 2025-09-01
  lmsctl grant create --user 12 --subcourse 7 --notes "trial"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(programID, subcourseID)
			if err != nil {
				return err
			}

			in := service.CreateGrantInput{
				PrincipalID: userID,
				Scope:       scope,
				Notes:       notes,
			}
			if from != "" {
				validFrom, err := parseTime(from)
				if err != nil {
					return err
				}
				in.ValidFrom = validFrom
			}
			if in.ValidUntil, err = parseOptionalTime(until); err != nil {
				return err
			}
			if grantedBy > 0 {
				in.GrantedBy = &grantedBy
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			grant, err := svc.Grants.CreateGrant(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created grant %s\n", grant.ID)
			printGrant(cmd.OutOrStdout(), grant)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "principal user id (required)")
	cmd.Flags().Int64Var(&programID, "program", 0, "program id")
	cmd.Flags().Int64Var(&subcourseID, "subcourse", 0, "subcourse id")
	cmd.Flags().Int64Var(&grantedBy, "by", 0, "id of the user issuing the grant")
	cmd.Flags().StringVar(&from, "from", "", "start of the window (YYYY-MM-DD or RFC3339), default now")
	cmd.Flags().StringVar(&until, "until", "", "end of the window (YYYY-MM-DD or RFC3339), default unbounded")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("user")
	cmd.MarkFlagsMutuallyExclusive("program", "subcourse")

	return cmd
}

func newGrantListCmd(rt *Runtime) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grants of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.services()
			if err != nil {
				return err
			}

			grants, err := svc.Grants.ListGrants(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(grants) == 0 {
				fmt.Fprintln(out, "No grants")
				return nil
			}

			now := svc.Clock()
			for _, g := range grants {
				effective := "no"
				if g.IsEffective(now) {
					effective = "yes"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s .. %s\teffective=%s\n",
					g.ID, formatScope(g), g.Status,
					formatTime(g.ValidFrom), formatUntil(g.ValidUntil),
					effective,
				)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "principal user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newGrantStatusCmd(rt *Runtime, use string, status model.GrantStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <grant-id> [<grant-id> ...]",
		Short: fmt.Sprintf("Set status %s on grants, unknown ids are skipped", status),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseGrantIDs(args)
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			updated, err := svc.Grants.BulkSetStatus(cmd.Context(), ids, status)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d of %d grants\n", updated, len(ids))
			return nil
		},
	}
}

func newGrantSetStatusCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status <grant-id> <active|expired|revoked>",
		Short: "Set the status of one grant",
		Long: `Any transition is allowed. An active grant whose valid_until has
already passed is stored as expired.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseGrantIDs(args[:1])
			if err != nil {
				return err
			}
			status, err := parseGrantStatus(args[1])
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			grant, err := svc.Grants.UpdateStatus(cmd.Context(), ids[0], status)
			if err != nil {
				return err
			}

			printGrant(cmd.OutOrStdout(), grant)
			return nil
		},
	}
}

func newGrantExtendCmd(rt *Runtime) *cobra.Command {
	var until string

	cmd := &cobra.Command{
		Use:   "extend <grant-id>",
		Short: "Move the end of a grant window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseGrantIDs(args)
			if err != nil {
				return err
			}
			validUntil, err := parseUntil(until)
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			grant, err := svc.Grants.ExtendGrant(cmd.Context(), ids[0], validUntil)
			if err != nil {
				return err
			}

			printGrant(cmd.OutOrStdout(), grant)
			return nil
		},
	}

	cmd.Flags().StringVar(&until, "until", "", `new end of the window, "never" for unbounded (required)`)
	_ = cmd.MarkFlagRequired("until")

	return cmd
}

func newGrantShowCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <grant-id>",
		Short: "Show one grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseGrantIDs(args)
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			grant, err := svc.Grants.GetGrant(cmd.Context(), ids[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Grant %s\n", grant.ID)
			printGrant(cmd.OutOrStdout(), grant)
			return nil
		},
	}
}

func newGrantFindCmd(rt *Runtime) *cobra.Command {
	var (
		userID      int64
		programID   int64
		subcourseID int64
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find grants of a user with exactly this scope",
		Long: `Matches the scope exactly: --program does not return grants issued
on single subcourses of that program.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(programID, subcourseID)
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			grants, err := svc.Grants.FindGrants(cmd.Context(), userID, scope)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(grants) == 0 {
				fmt.Fprintln(out, "No grants")
				return nil
			}
			for _, g := range grants {
				fmt.Fprintf(out, "%s\t%s\t%s .. %s\n", g.ID, g.Status, formatTime(g.ValidFrom), formatUntil(g.ValidUntil))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "principal user id (required)")
	cmd.Flags().Int64Var(&programID, "program", 0, "program id")
	cmd.Flags().Int64Var(&subcourseID, "subcourse", 0, "subcourse id")
	_ = cmd.MarkFlagRequired("user")
	cmd.MarkFlagsMutuallyExclusive("program", "subcourse")

	return cmd
}

func newGrantDeleteCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <grant-id>",
		Short: "Delete a grant permanently (prefer revoke to keep history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseGrantIDs(args)
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			if err := svc.Grants.DeleteGrant(cmd.Context(), ids[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted grant %s\n", ids[0])
			return nil
		},
	}
}

func newGrantSweepCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark active grants past their valid_until as expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.services()
			if err != nil {
				return err
			}

			swept, err := svc.Grants.SweepExpired(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Expired %d grants\n", swept)
			return nil
		},
	}
}

func printGrant(out io.Writer, g *model.AccessGrant) {
	fmt.Fprintf(out, "  principal: %d\n", g.PrincipalID)
	fmt.Fprintf(out, "  scope:     %s\n", formatScope(g))
	fmt.Fprintf(out, "  status:    %s\n", g.Status)
	fmt.Fprintf(out, "  from:      %s\n", formatTime(g.ValidFrom))
	fmt.Fprintf(out, "  until:     %s\n", formatUntil(g.ValidUntil))
	if g.Notes != "" {
		fmt.Fprintf(out, "  notes:     %s\n", g.Notes)
	}
}
