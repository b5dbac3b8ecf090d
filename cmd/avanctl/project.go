package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avan-studio/avan-backend/internal/i18n"
	"github.com/avan-studio/avan-backend/internal/projects/domain"
)

func attach(text, path string) (string, error) {
	if path == "" {
		return text, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}
	return domain.WithAttachment(text, filepath.Base(path), string(b)), nil
}

func newNewCommand() *cobra.Command {
	var attachPath string

	cmd := &cobra.Command{
		Use:   "new <description>",
		Short: "Start a project from a description and generate the first page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			chat, err := withChat(ctx)
			if err != nil {
				return err
			}

			input, err := attach(strings.Join(args, " "), attachPath)
			if err != nil {
				return err
			}

			p, err := chat.CreateProject(ctx, userID, input)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", faint("project"), boldCyan(p.ID))
			printMessage(out, p.Messages[0])

			res, err := chat.Start(ctx, userID, p.ID, language)
			if err != nil {
				return err
			}
			printTurn(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&attachPath, "attach", "", "text file to include with the description")
	return cmd
}

func newChatCommand() *cobra.Command {
	var attachPath string

	cmd := &cobra.Command{
		Use:   "chat <project-id>",
		Short: "Continue a project interactively",
		Long: `Each line is sent as a message. Commands:
  /save [name]  save the project
  /code         print the current page
  exit          leave`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			chat, err := withChat(ctx)
			if err != nil {
				return err
			}
			id := args[0]
			out := cmd.OutOrStdout()

			p, err := chat.Get(ctx, userID, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s (%s)\n", faint("project"), boldCyan(p.Name), i18n.Name(language))
			for _, m := range p.Messages {
				printMessage(out, m)
			}

			if p.NeedsFirstGeneration() {
				res, err := chat.Start(ctx, userID, id, language)
				if err != nil {
					return err
				}
				printTurn(out, res)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 64*1024), 1<<20)
			for {
				fmt.Fprint(out, boldGreen("You: "))
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := scanner.Text()
				trimmed := strings.TrimSpace(line)

				switch {
				case trimmed == "exit":
					return nil
				case trimmed == "":
					continue
				case trimmed == "/code":
					code, err := chat.Code(ctx, userID, id)
					if err != nil {
						fmt.Fprintln(out, yellow(err.Error()))
						continue
					}
					fmt.Fprintln(out, code)
					continue
				case trimmed == "/save" || strings.HasPrefix(trimmed, "/save "):
					var name *string
					if rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "/save")); rest != "" {
						name = &rest
					}
					saved, err := chat.Save(ctx, userID, id, name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s (%s)\n", boldGreen(i18n.ProjectSaved(language)), saved.Name)
					continue
				}

				text, err := attach(line, attachPath)
				if err != nil {
					return err
				}
				attachPath = ""

				res, err := chat.Submit(ctx, userID, id, text, language)
				if errors.Is(err, domain.ErrGenerationInProgress) {
					fmt.Fprintln(out, yellow(err.Error()))
					continue
				}
				if err != nil {
					return err
				}
				printTurn(out, res)
			}
		},
	}

	cmd.Flags().StringVar(&attachPath, "attach", "", "text file to include with the first message")
	return cmd
}

func newSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <project-id> [name]",
		Short: "Save a project under a display name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name *string
			if len(args) == 2 {
				name = &args[1]
			}
			p, err := offlineChat().Save(cmd.Context(), userID, args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", boldGreen(i18n.ProjectSaved(language)), p.Name)
			return nil
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved projects, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := offlineChat().ListSaved(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), faint("no saved projects"))
				return nil
			}
			for _, p := range items {
				printProjectLine(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newCodeCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "code <project-id>",
		Short: "Write the current page to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := offlineChat().Code(cmd.Context(), userID, args[0])
			if err != nil {
				return err
			}
			if outPath == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), code)
				return err
			}
			if err := os.WriteFile(outPath, []byte(code), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", faint("wrote"), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "index.html", `output file, "-" for stdout`)
	return cmd
}
