package cli

import (
	"fmt"
	"strconv"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/spf13/cobra"
)

func newAccessCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Inspect effective access",
	}

	var (
		userID      int64
		subcourseID int64
		at          string
	)
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a user can open a subcourse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.services()
			if err != nil {
				return err
			}

			now := svc.Clock()
			if at != "" {
				if now, err = parseTime(at); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			principal, err := svc.Users.GetByID(ctx, userID)
			if err != nil {
				return err
			}

			decision, err := svc.Resolver.Resolve(ctx, principal, subcourseID, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case decision.Override:
				fmt.Fprintln(out, "granted (admin)")
			case decision.Granted:
				fmt.Fprintf(out, "granted by %s (%s)\n", decision.Grant.ID, formatScope(decision.Grant))
			default:
				fmt.Fprintf(out, "denied: %s\n", decision.Reason)
			}
			return nil
		},
	}
	checkCmd.Flags().Int64Var(&userID, "user", 0, "principal user id (required)")
	checkCmd.Flags().Int64Var(&subcourseID, "subcourse", 0, "subcourse id (required)")
	checkCmd.Flags().StringVar(&at, "at", "", "instant to check at (YYYY-MM-DD or RFC3339), default now")
	_ = checkCmd.MarkFlagRequired("user")
	_ = checkCmd.MarkFlagRequired("subcourse")

	var programsUser int64
	programsCmd := &cobra.Command{
		Use:   "programs",
		Short: "List programs a user can open at least partly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.services()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			principal, err := svc.Users.GetByID(ctx, programsUser)
			if err != nil {
				return err
			}

			ids, err := svc.Resolver.AccessibleProgramIDs(ctx, principal)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No accessible programs")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
	programsCmd.Flags().Int64Var(&programsUser, "user", 0, "principal user id (required)")
	_ = programsCmd.MarkFlagRequired("user")

	cmd.AddCommand(checkCmd, programsCmd)
	return cmd
}

func newUserCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	roleCmd := &cobra.Command{
		Use:   "role <telegram-id> <student|teacher|admin>",
		Short: "Change the role of a registered user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			telegramID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid telegram id %q", args[0])
			}
			role := model.Role(args[1])
			if !role.IsValid() {
				return fmt.Errorf("role %q: %w", args[1], model.ErrInvalidStatus)
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			user, err := svc.Users.SetRole(cmd.Context(), telegramID, role)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %d (telegram %d) is now %s\n", user.ID, user.TelegramID, user.Role)
			return nil
		},
	}

	cmd.AddCommand(roleCmd)
	return cmd
}
