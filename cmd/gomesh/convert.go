package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/philipparndt/gomesh/internal/logger"
	"github.com/philipparndt/gomesh/pkg/stl"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var convertASCII bool

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output.stl]",
	Short: "Convert an STL or OBJ file to STL",
	Long:  "Decode a mesh and write it as binary STL, or as ASCII STL with --ascii. OBJ polygons are written as their fan triangulation.",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&convertASCII, "ascii", false, "Write ASCII STL instead of binary")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	input, output := args[0], args[1]

	_, soup, err := readMesh(cmd.Context(), input)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", output, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if convertASCII {
		err = stl.WriteASCII(w, soup)
	} else {
		err = stl.WriteBinary(w, soup)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	logger.Info("converted mesh",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("triangles", soup.TriangleCount()),
		zap.Bool("ascii", convertASCII))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d triangles to %s\n", soup.TriangleCount(), output)
	return nil
}
