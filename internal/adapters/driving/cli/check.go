package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/tabular"
	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/leadscreen-cli/internal/core/services"
	"github.com/custodia-labs/leadscreen-cli/internal/logger"
	"github.com/custodia-labs/leadscreen-cli/internal/permute"
)

var (
	checkLeadFile     string
	checkDeliveryFile string
	checkMappingFile  string
	checkOutputFile   string
	checkCPCLimit     int
	checkSelection    string
	checkNoHistory    bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Screen a lead file",
	Long: `Screens a lead file and writes an annotated copy. With --delivery the
leads are checked against the delivered records first (external mode);
without it only the lead file itself is checked (internal mode, for a
first delivery).`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkLeadFile, "lead", "l", "", "lead file to screen (csv or xlsx)")
	checkCmd.Flags().StringVarP(&checkDeliveryFile, "delivery", "d", "", "previously delivered file to screen against")
	checkCmd.Flags().StringVarP(&checkMappingFile, "mapping", "m", "", "TOML column mapping file")
	checkCmd.Flags().StringVarP(&checkOutputFile, "output", "o", "", "annotated output path (default <lead>_screened.<ext>)")
	checkCmd.Flags().IntVar(&checkCPCLimit, "cpc-limit", 0, "contacts-per-company limit (default from config, else 3)")
	checkCmd.Flags().StringVar(&checkSelection, "checks", "all", "comma-separated checks to run: cpc,dup,phone or all")
	checkCmd.Flags().BoolVar(&checkNoHistory, "no-history", false, "skip recording the run in history")
	_ = checkCmd.MarkFlagRequired("lead")
	_ = checkCmd.MarkFlagRequired("mapping")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	checks, err := parseChecks(checkSelection)
	if err != nil {
		return err
	}

	mapping, err := file.LoadMapping(checkMappingFile)
	if err != nil {
		return err
	}

	output := checkOutputFile
	if output == "" {
		output = defaultOutputPath(checkLeadFile)
	}

	stats, err := screenFile(cmd.Context(), screenConfig{
		LeadFile:     checkLeadFile,
		DeliveryFile: checkDeliveryFile,
		OutputFile:   output,
		Mapping:      mapping,
		Checks:       checks,
		CPCLimit:     resolveCPCLimit(checkCPCLimit),
		Permutations: resolvePermuteOptions(),
		History:      !checkNoHistory,
	})
	if err != nil {
		return err
	}

	printStats(cmd, stats, output)
	return nil
}

// screenConfig carries everything one screening invocation needs. The
// watch command reuses it for each file it picks up.
type screenConfig struct {
	LeadFile     string
	DeliveryFile string
	OutputFile   string
	Mapping      domain.FieldMapping
	Checks       domain.CheckSelection
	CPCLimit     int
	Permutations permute.Options
	History      bool
}

// screenFile loads the tables, runs the screening service, and writes
// the annotated lead table to the output path.
func screenFile(ctx context.Context, cfg screenConfig) (*domain.RunStats, error) {
	leadTable, err := tabular.Load(cfg.LeadFile)
	if err != nil {
		return nil, err
	}
	if len(leadTable.Records) == 0 {
		return nil, domain.ErrNoLeadRecords
	}

	var deliveryRecords []domain.Record
	if cfg.DeliveryFile != "" {
		deliveryTable, err := tabular.Load(cfg.DeliveryFile)
		if err != nil {
			return nil, err
		}
		deliveryRecords = deliveryTable.Records
	}

	sink := tabular.NewTableSink(leadTable, sinkColumnsFromConfig())

	var store *sqlite.Store
	if cfg.History {
		store, err = openHistoryStore()
		if err != nil {
			// A broken history database must not block screening.
			logger.Warn("Run history unavailable: %v", err)
		} else {
			defer store.Close()
		}
	}

	svc := services.NewScreeningService(sink, runStoreOrNil(store))
	stats, err := svc.Screen(ctx, driving.ScreenRequest{
		Delivery:     deliveryRecords,
		Leads:        leadTable.Records,
		Mapping:      cfg.Mapping,
		Checks:       cfg.Checks,
		CPCLimit:     cfg.CPCLimit,
		Permutations: cfg.Permutations,
		LeadFile:     cfg.LeadFile,
		DeliveryFile: cfg.DeliveryFile,
	})
	if err != nil {
		return nil, err
	}

	if err := tabular.Save(cfg.OutputFile, leadTable); err != nil {
		return nil, err
	}
	return stats, nil
}

// runStoreOrNil converts a possibly-nil concrete store into the
// interface the service takes. A plain conversion would wrap the nil
// pointer in a non-nil interface.
func runStoreOrNil(store *sqlite.Store) driven.RunStore {
	if store == nil {
		return nil
	}
	return store
}

func openHistoryStore() (*sqlite.Store, error) {
	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	return sqlite.NewStore(dataDir)
}

// parseChecks interprets the --checks flag.
func parseChecks(value string) (domain.CheckSelection, error) {
	var checks domain.CheckSelection
	for _, part := range strings.Split(value, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "all", "":
			checks = domain.AllChecks()
		case "cpc":
			checks.CPC = true
		case "dup", "duplicates":
			checks.Duplicates = true
		case "phone":
			checks.Phone = true
		default:
			return checks, fmt.Errorf("%w: unknown check %q", domain.ErrInvalidInput, part)
		}
	}
	if !checks.Any() {
		return checks, domain.ErrNoChecksSelected
	}
	return checks, nil
}

// resolveCPCLimit picks the limit: flag first, then config, then the
// service default.
func resolveCPCLimit(flag int) int {
	if flag > 0 {
		return flag
	}
	if configStore != nil {
		if limit := configStore.GetInt(file.KeyCPCLimit); limit > 0 {
			return limit
		}
	}
	return 0
}

// resolvePermuteOptions reads the permutation knobs from config,
// starting from the suppression preset. Each key overrides its field
// independently; token_mode is checked for presence so an explicit
// false in the file is honoured.
func resolvePermuteOptions() permute.Options {
	opts := permute.Suppression()
	if configStore == nil {
		return opts
	}
	if minLen := configStore.GetInt(file.KeyTokenMinLen); minLen > 0 {
		opts.TokenMinLen = minLen
	}
	if budget := configStore.GetInt(file.KeyTokenBudget); budget > 0 {
		opts.Budget = budget
	}
	if raw, ok := configStore.Get(file.KeyTokenMode); ok {
		if mode, ok := raw.(bool); ok {
			opts.TokenMode = mode
		}
	}
	return opts
}

// sinkColumnsFromConfig reads configured output column names, falling
// back to the defaults for anything unset.
func sinkColumnsFromConfig() tabular.SinkColumns {
	columns := tabular.SinkColumns{}
	if configStore != nil {
		columns.Status = configStore.GetString(file.KeyStatusColumn)
		columns.Reason = configStore.GetString(file.KeyReasonColumn)
		columns.Comment = configStore.GetString(file.KeyCommentColumn)
	}
	return columns
}

// defaultOutputPath derives the annotated file name next to the input.
func defaultOutputPath(lead string) string {
	ext := filepath.Ext(lead)
	return strings.TrimSuffix(lead, ext) + "_screened" + ext
}

func printStats(cmd *cobra.Command, stats *domain.RunStats, output string) {
	cmd.Printf("Run %s (%s)\n", stats.RunID, stats.Mode)
	cmd.Printf("  Leads screened:  %d\n", stats.TotalLeads)
	cmd.Printf("  Passed:          %d\n", stats.Passed)
	cmd.Printf("  Violations:      %d\n", stats.ViolationCount())
	if stats.CPC != nil {
		cmd.Printf("    CPC:                 %d\n", stats.CPC.Violations)
	}
	if stats.InternalCPC != nil {
		cmd.Printf("    Internal CPC:        %d\n", stats.InternalCPC.Violations)
	}
	if stats.Duplicates != nil {
		cmd.Printf("    Duplicates:          %d external, %d internal\n",
			stats.Duplicates.External, stats.Duplicates.Internal)
	}
	if stats.InternalDuplicates != nil {
		cmd.Printf("    Internal duplicates: %d\n", stats.InternalDuplicates.Internal)
	}
	if stats.Phone != nil {
		cmd.Printf("    Phone conflicts:     %d\n", stats.Phone.Conflicts)
	}
	if stats.InternalPhone != nil {
		cmd.Printf("    Internal phone:      %d\n", stats.InternalPhone.Conflicts)
	}
	cmd.Printf("  Time:            %s\n", stats.ProcessingTime.Round(time.Millisecond))
	cmd.Printf("  Output:          %s\n", output)
}
