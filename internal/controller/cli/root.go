package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/lms_bot/internal/app"
	"github.com/spf13/cobra"
)

var errNotInitialized = errors.New("services are not initialized: database connection required")

// Bootstrap поднимает зависимости перед выполнением команды
type Bootstrap func(ctx context.Context, rt *Runtime) error

// Runtime - зависимости команд lmsctl
type Runtime struct {
	Services *app.Services
	Migrate  func(ctx context.Context) error

	closers []func()
}

// OnClose регистрирует освобождение ресурса
func (rt *Runtime) OnClose(fn func()) {
	rt.closers = append(rt.closers, fn)
}

// Close освобождает ресурсы в обратном порядке
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

func (rt *Runtime) services() (*app.Services, error) {
	if rt.Services == nil {
		return nil, errNotInitialized
	}
	return rt.Services, nil
}

// NewRootCmd собирает дерево команд lmsctl
func NewRootCmd(rt *Runtime, bootstrap Bootstrap) *cobra.Command {
	root := &cobra.Command{
		Use:   "lmsctl",
		Short: "lmsctl - administration of the LMS catalog and access grants",
		Long: `lmsctl manages programs, subcourses and lessons,
issues and revokes access grants and checks effective access.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if bootstrap == nil || rt.Services != nil {
				return nil
			}
			return bootstrap(cmd.Context(), rt)
		},
	}

	root.AddCommand(
		newProgramCmd(rt),
		newSubcourseCmd(rt),
		newLessonCmd(rt),
		newContentCmd(rt),
		newGrantCmd(rt),
		newAccessCmd(rt),
		newUserCmd(rt),
		newMigrateCmd(rt),
	)

	return root
}

func newMigrateCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.Migrate == nil {
				return errNotInitialized
			}
			if err := rt.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}
