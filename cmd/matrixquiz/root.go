package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &playOptions{}
	root := &cobra.Command{
		Use:   "matrixquiz",
		Short: "Guess the matrix behind a transformed unit square",
		Long: `matrixquiz draws a random 2×2 integer matrix as the image of the unit
square on a Cartesian plane. Type the four entries of your guess; it is drawn
next to the secret, and "Enviar Resposta" checks it for an exact match.

Running matrixquiz without a subcommand is the same as "matrixquiz play".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	addPlayFlags(root, opts)

	root.AddCommand(
		playCmd(stdout, stderr),
		snapshotCmd(stdout, stderr),
		sampleCmd(stdout),
		versionCmd(stdout),
	)
	return root
}
