package main

import (
	"fmt"

	"github.com/philipparndt/gomesh/internal/app"
	"github.com/philipparndt/gomesh/pkg/stl"
	"github.com/spf13/cobra"
)

var sniffCmd = &cobra.Command{
	Use:               "sniff [file]",
	Short:             "Report how a mesh file would be decoded",
	Long:              "Show the decoder chosen for a file: the extension kind, and for STL whether the data is read as binary or ASCII.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: meshFileCompletion,
	RunE:              runSniff,
}

func init() {
	rootCmd.AddCommand(sniffCmd)
}

func runSniff(cmd *cobra.Command, args []string) error {
	filename := args[0]

	data, soup, err := readMesh(cmd.Context(), filename)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	kind := app.KindFromPath(filename)
	fmt.Fprintf(w, "File: %s\n", filename)
	fmt.Fprintf(w, "Kind: %s\n", kind)
	fmt.Fprintf(w, "Size: %d bytes\n", len(data))
	if kind == app.KindSTL {
		format, count := stl.Sniff(data)
		fmt.Fprintf(w, "Encoding: %s\n", format)
		if format == stl.FormatBinary {
			fmt.Fprintf(w, "Declared triangles: %d\n", count)
		}
	}
	fmt.Fprintf(w, "Decoded triangles: %d\n", soup.TriangleCount())
	fmt.Fprintf(w, "Decoded vertices: %d\n", soup.VertexCount())
	if soup.VertexCount()%3 != 0 {
		fmt.Fprintf(w, "Warning: %d trailing vertices do not form a triangle\n", soup.VertexCount()%3)
	}
	return nil
}
