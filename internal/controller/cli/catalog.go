package cli

import (
	"fmt"

	"github.com/Freeeeeet/lms_bot/internal/model"
	"github.com/Freeeeeet/lms_bot/internal/service"
	"github.com/spf13/cobra"
)

func newProgramCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Manage programs",
	}

	var in service.CreateProgramInput
	addCmd := &cobra.Command{
		Use:   "add <slug> <title>",
		Short: "Create a draft program",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.services()
			if err != nil {
				return err
			}

			in.Slug, in.Title = args[0], args[1]
			program, err := svc.Catalog.CreateProgram(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created program %d (%s), status %s\n", program.ID, program.Slug, program.Status)
			return nil
		},
	}
	addCmd.Flags().StringVar(&in.Description, "description", "", "program description")
	addCmd.Flags().StringVar(&in.KitType, "kit", "", "hardware kit type")
	addCmd.Flags().IntVar(&in.SortOrder, "order", 1, "sort order")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.services()
			if err != nil {
				return err
			}

			programs, err := svc.Catalog.ListPrograms(cmd.Context(), false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(programs) == 0 {
				fmt.Fprintln(out, "No programs")
				return nil
			}
			for _, p := range programs {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", p.ID, p.Slug, p.Status, p.Title)
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

func newSubcourseCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subcourse",
		Short: "Manage subcourses",
	}

	var in service.CreateSubcourseInput
	addCmd := &cobra.Command{
		Use:   "add <program-id> <slug> <title>",
		Short: "Create a draft subcourse inside a program",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			in.ProgramID, in.Slug, in.Title = programID, args[1], args[2]
			subcourse, err := svc.Catalog.CreateSubcourse(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created subcourse %d (%s) in program %d, status %s\n",
				subcourse.ID, subcourse.Slug, subcourse.ProgramID, subcourse.Status)
			return nil
		},
	}
	addCmd.Flags().StringVar(&in.Subtitle, "subtitle", "", "subtitle")
	addCmd.Flags().StringVar(&in.Description, "description", "", "description")
	addCmd.Flags().StringVar(&in.CodingLanguage, "language", "", "coding language")
	addCmd.Flags().IntVar(&in.SortOrder, "order", 1, "sort order")
	addCmd.Flags().Int64Var(&in.Price, "price", 0, "price in minor units, 0 = free")

	listCmd := &cobra.Command{
		Use:   "list <program-id>",
		Short: "List subcourses of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			subcourses, err := svc.Catalog.ListSubcourses(cmd.Context(), programID, false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(subcourses) == 0 {
				fmt.Fprintln(out, "No subcourses")
				return nil
			}
			for _, sc := range subcourses {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", sc.ID, sc.Slug, sc.Status, sc.Title)
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

func newLessonCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Manage lessons",
	}

	var (
		in      service.CreateLessonInput
		minutes int
	)
	addCmd := &cobra.Command{
		Use:   "add <subcourse-id> <slug> <title>",
		Short: "Create a draft lesson inside a subcourse",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			subcourseID, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, err := rt.services()
			if err != nil {
				return err
			}

			in.SubcourseID, in.Slug, in.Title = subcourseID, args[1], args[2]
			if minutes > 0 {
				in.EstimatedMinutes = &minutes
			}

			lesson, err := svc.Catalog.CreateLesson(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created lesson %d (%s) in subcourse %d, status %s\n",
				lesson.ID, lesson.Slug, lesson.SubcourseID, lesson.Status)
			return nil
		},
	}
	addCmd.Flags().StringVar(&in.Objective, "objective", "", "learning objective")
	addCmd.Flags().StringVar(&in.ContentText, "content", "", "lesson text")
	addCmd.Flags().StringVar(&in.VideoURL, "video", "", "video URL")
	addCmd.Flags().IntVar(&in.SortOrder, "order", 1, "sort order")
	addCmd.Flags().IntVar(&minutes, "minutes", 0, "estimated minutes")

	cmd.AddCommand(addCmd)
	return cmd
}

func newContentCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Change publication status of catalog items",
	}

	statusCmd := func(use string, status model.ContentStatus) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <program|subcourse|lesson> <id>",
			Short: fmt.Sprintf("Set status %s", status),
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := parseKind(args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}

				svc, err := rt.services()
				if err != nil {
					return err
				}

				if err := svc.Catalog.SetStatus(cmd.Context(), kind, id, status); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s %d is now %s\n", kind, id, status)
				return nil
			},
		}
	}

	cmd.AddCommand(
		statusCmd("publish", model.ContentPublished),
		statusCmd("archive", model.ContentArchived),
		statusCmd("draft", model.ContentDraft),
	)
	return cmd
}
