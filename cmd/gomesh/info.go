package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:               "info [file]",
	Short:             "Display general information about a mesh file",
	Long:              "Show comprehensive information including dimensions, triangle count, surface area, edge statistics and the normalized view distance.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: meshFileCompletion,
	RunE:              runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	_, soup, err := readMesh(cmd.Context(), filename)
	if err != nil {
		return err
	}

	printInfo(cmd.OutOrStdout(), filename, soup)
	return nil
}

func printInfo(w io.Writer, filename string, soup *mesh.Soup) {
	result := analysis.AnalyzeSoup(soup)

	fmt.Fprintln(w, "Mesh File Information")
	fmt.Fprintln(w, "=====================")
	if soup.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", soup.Name)
	}
	fmt.Fprintf(w, "File: %s\n\n", filename)

	fmt.Fprintln(w, "Model Statistics:")
	fmt.Fprintf(w, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(w, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(w, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(w, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(w, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(w, "  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n\n", result.Volume)

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(w, "  Average: %.6f units\n\n", result.AvgEdgeLength)

	// Normalize translates in place, so work on the measured soup last
	g := mesh.Normalize(soup)
	fmt.Fprintln(w, "Viewer:")
	fmt.Fprintf(w, "  View Distance: %.6f units\n", g.ViewDistance)
}
