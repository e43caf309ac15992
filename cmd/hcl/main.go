// Command hcl queries the hardware compatibility list from the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/hcl/internal/config"
	"github.com/JonMunkholm/hcl/internal/core"
	"github.com/JonMunkholm/hcl/internal/logging"
	"github.com/JonMunkholm/hcl/internal/source"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagWorkbook     string
	flagSpreadsheet  string
	flagSheets       string
	flagContinuation string
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "hcl",
	Short: "Firmware & driver hardware compatibility list",
	Long: `hcl loads the HCL spreadsheet (one sheet per operating system plus a
firmware sheet), aggregates it into one record per product model and
prints or exports the result.

Settings come from the environment (and .env) as for the server; the
flags below override them.

Examples:
  hcl products --search x710
  hcl os --workbook hcl.xlsx
  hcl export --os "RHEL 9" --name Rack01 --model "X710-DA2" -o rack01.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagWorkbook, "workbook", "", "Read sheets from a local .xlsx file")
	pf.StringVar(&flagSpreadsheet, "spreadsheet", "", "Remote spreadsheet ID")
	pf.StringVar(&flagSheets, "sheets", "", "Comma-separated sheet names in processing order")
	pf.StringVar(&flagContinuation, "continuation", "", "Blank-model row policy: skip or attach")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log loading details to stderr")

	rootCmd.AddCommand(productsCmd, osCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		stop()
		os.Exit(1)
	}
}

// flagLookup layers command-line flags over the process environment.
func flagLookup() config.LookupFunc {
	overrides := map[string]string{}
	if flagWorkbook != "" {
		overrides["SOURCE_WORKBOOK_PATH"] = flagWorkbook
		overrides["SOURCE_SPREADSHEET_ID"] = ""
		overrides["SPREADSHEET_ID"] = ""
	}
	if flagSpreadsheet != "" {
		overrides["SOURCE_SPREADSHEET_ID"] = flagSpreadsheet
		overrides["SOURCE_WORKBOOK_PATH"] = ""
	}
	if flagSheets != "" {
		overrides["SOURCE_SHEETS"] = flagSheets
	}
	if flagContinuation != "" {
		overrides["CATALOG_CONTINUATION"] = flagContinuation
	}
	return func(name string) (string, bool) {
		if v, ok := overrides[name]; ok {
			return v, v != ""
		}
		return os.LookupEnv(name)
	}
}

// loadSnapshot reads configuration and performs one full load.
func loadSnapshot(ctx context.Context) (*core.Snapshot, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadWith(flagLookup())
	if err != nil {
		return nil, err
	}

	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	slog.SetDefault(logging.New(os.Stderr, level, cfg.Logging.Format))

	service, err := source.NewService(cfg, nil)
	if err != nil {
		return nil, err
	}
	_, desc := source.New(cfg.Source)
	slog.Debug("loading catalog", "source", desc, "sheets", strings.Join(cfg.Source.Sheets, ","))

	return service.Refresh(ctx)
}
