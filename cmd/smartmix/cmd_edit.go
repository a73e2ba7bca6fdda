package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/smartmix/internal/editor"
	"github.com/five82/smartmix/internal/mix"
)

var (
	deleteName string
	deleteYes  bool
	saveName   string
	saveBody   string
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved Smart Mix",
	Long: `Delete a saved Smart Mix by id. The id is the first column of "smartmix mixes".

Examples:
  # Prompt before deleting
  smartmix delete 3 --name Chill

  # Delete without asking
  smartmix delete 3 --yes
`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a Smart Mix from a JSON definition",
	Long: `Create or update a Smart Mix. Without --name a new mix is created.

Examples:
  smartmix save --body '{"minbpm":90,"maxbpm":120,"genre":["Jazz"]}'
  smartmix save --name Chill --body '{"happy":"y","sad":"n"}'
`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteName, "name", "", "mix name shown in the prompt (defaults to the id)")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	saveCmd.Flags().StringVar(&saveName, "name", "", "name of the mix to update")
	saveCmd.Flags().StringVar(&saveBody, "body", "", "mix definition as a JSON object")
	_ = saveCmd.MarkFlagRequired("body")
	rootCmd.AddCommand(deleteCmd, saveCmd)
}

func runDelete(cmd *cobra.Command, args []string) (err error) {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, env.Close()) }()

	id := args[0]
	name := deleteName
	if name == "" {
		name = id
	}

	var confirm editor.Confirmer = editor.ConfirmFunc(func(context.Context, string, string) (bool, error) {
		return true, nil
	})
	if !deleteYes {
		confirm = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), env.Translator.T("Cancel"))
	}

	removed, err := env.Editor.Remove(cmd.Context(), id, name, confirm)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintln(cmd.OutOrStdout(), env.Translator.T("Deleted '%1'", name))
	}
	return nil
}

// promptConfirmer asks on the terminal. Only an explicit yes confirms.
func promptConfirmer(in io.Reader, out io.Writer, cancel string) editor.Confirmer {
	return editor.ConfirmFunc(func(_ context.Context, prompt, action string) (bool, error) {
		fmt.Fprintf(out, "%s [%s/%s] (y/N): ", prompt, action, cancel)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

func runSave(cmd *cobra.Command, _ []string) (err error) {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, env.Close()) }()

	def, err := mix.ParseDefinition(saveBody)
	if err != nil {
		return fmt.Errorf("parse --body: %w", err)
	}

	ctx := cmd.Context()
	if err := env.Editor.Open(ctx, saveName); err != nil {
		// A missing genre list still leaves the dialog usable.
		env.Logger.Warn().Err(err).Msg("editor opened with errors")
	}
	// Replaces the stored criteria rather than merging into them.
	env.Editor.Decode(def)
	if err := env.Editor.Save(ctx); err != nil {
		return err
	}

	snap := env.Store.Snapshot()
	out := cmd.OutOrStdout()
	if !snap.HasListing {
		return nil
	}
	fmt.Fprintf(out, "%s (%d)\n", snap.Listing.Title, snap.Listing.Payload.Count)
	for _, it := range snap.Listing.Payload.Items {
		if it.Subtitle != "" {
			fmt.Fprintf(out, "  %s - %s\n", it.Title, it.Subtitle)
			continue
		}
		fmt.Fprintf(out, "  %s\n", it.Title)
	}
	return nil
}
