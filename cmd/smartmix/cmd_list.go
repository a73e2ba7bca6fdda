package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/smartmix/internal/mix"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres known to the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, env.Close()) }()

		genres, err := env.Client.FetchGenres(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, g := range genres {
			fmt.Fprintln(out, g)
		}
		return nil
	},
}

var mixesCmd = &cobra.Command{
	Use:   "mixes",
	Short: "List saved Smart Mixes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, env.Close()) }()

		mixes, err := env.Client.FetchMixes(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range mixes {
			fmt.Fprintf(out, "%s\t%s\n", m.ID, m.Name())
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the stored definition of a Smart Mix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, env.Close()) }()

		body, err := env.Client.ReadMix(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if _, err := mix.ParseDefinition(body); err != nil {
			env.Logger.Warn().Err(err).Str("mix", args[0]).Msg("stored definition is not valid")
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genresCmd, mixesCmd, showCmd)
}
