package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/JonMunkholm/hcl/internal/core"
	"github.com/spf13/cobra"
)

var (
	flagSearch   string
	flagTargetOS string
	flagJSON     bool
	flagName     string
	flagModels   []string
	flagOutput   string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List aggregated products",
	Long: `List every product in the catalog, or those whose model or brand
contains --search (case-insensitive). With --os the driver status for that
operating system is shown.`,
	Args: cobra.NoArgs,
	RunE: runProducts,
}

var osCmd = &cobra.Command{
	Use:   "os",
	Short: "List the operating systems found in the sheets",
	Args:  cobra.NoArgs,
	RunE:  runOS,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a group of products as CSV",
	Long: `Build a group from the given models and write its CSV export, with
driver versions for --os and the firmware update command for each product.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	productsCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Filter by model or brand substring")
	productsCmd.Flags().StringVar(&flagTargetOS, "os", "", "Show driver status for this OS")
	productsCmd.Flags().BoolVar(&flagJSON, "json", false, "Print JSON instead of a table")

	osCmd.Flags().BoolVar(&flagJSON, "json", false, "Print JSON instead of a table")

	exportCmd.Flags().StringVar(&flagTargetOS, "os", "", "Target OS (default: first OS label)")
	exportCmd.Flags().StringVar(&flagName, "name", "CLI Export", "Group name used in the file name")
	exportCmd.Flags().StringArrayVarP(&flagModels, "model", "m", nil, "Product model to include (repeatable)")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default: HCL_<name>_<os>.csv, '-' for stdout)")
	_ = exportCmd.MarkFlagRequired("model")
}

func runProducts(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}
	products := snap.Catalog.Search(flagSearch)
	out := cmd.OutOrStdout()

	if flagJSON {
		return writeJSON(out, products)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if flagTargetOS != "" {
		fmt.Fprintf(tw, "MODEL\tBRAND\tTYPE\tFW\tID\tDRIVER (%s)\n", flagTargetOS)
	} else {
		fmt.Fprintln(tw, "MODEL\tBRAND\tTYPE\tFW\tID\tDRIVERS")
	}
	for _, p := range products {
		last := fmt.Sprint(len(p.Drivers))
		if flagTargetOS != "" {
			last = core.StatusFor(p, flagTargetOS).Display
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Model, p.Brand, p.Type, p.FW, p.ID, last)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d products\n", len(products), snap.Catalog.Len())
	return nil
}

func runOS(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if flagJSON {
		return writeJSON(out, snap.OSLabels)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tFAMILY\tVERSION")
	for _, label := range snap.OSLabels {
		c := core.Classify(label)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", label, c.Family, c.VersionTag)
	}
	return tw.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	set := core.DefaultGroupSet().Normalize(snap.OSLabels)
	id := set.Active().ID
	if set, err = set.Rename(id, flagName); err != nil {
		return err
	}
	if flagTargetOS != "" {
		if set, err = set.SetOS(id, flagTargetOS); err != nil {
			return err
		}
	}
	for _, m := range flagModels {
		if set, err = set.AddItem(id, m, snap.Catalog); err != nil {
			return err
		}
	}
	group := set.Active()

	path := flagOutput
	if path == "" {
		path = core.ExportFileName(group)
	}
	if path == "-" {
		return core.WriteGroupCSV(cmd.OutOrStdout(), group, snap.Catalog)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := core.WriteGroupCSV(f, group, snap.Catalog); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d products to %s\n", len(group.Items), path)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
