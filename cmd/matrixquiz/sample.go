package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-matrixquiz/internal/linalg"
)

func sampleCmd(stdout io.Writer) *cobra.Command {
	var count int
	var seed int64
	var showDet bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print random secret matrices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			s := linalg.NewSampler(nil)
			if seed != 0 {
				s = linalg.NewSeededSampler(uint64(seed))
			}
			for i := 0; i < count; i++ {
				m := s.Sample()
				if showDet {
					fmt.Fprintf(stdout, "%s det=%s\n", m, linalg.FormatEntry(m.Determinant()))
				} else {
					fmt.Fprintln(stdout, m)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of matrices")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible sequence (0 = random)")
	cmd.Flags().BoolVar(&showDet, "det", false, "print the determinant of each matrix")
	return cmd
}
