package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadscreen-cli/internal/logger"
)

var (
	watchDeliveryFile string
	watchMappingFile  string
	watchCPCLimit     int
	watchSelection    string
)

// settleDelay gives the producing process time to finish writing a file
// before we read it. Spreadsheet exports are not atomic.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Screen lead files as they appear in a directory",
	Long: `Watches a directory and screens every csv or xlsx file created in it,
using a saved mapping. Annotated copies are written next to the
originals. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDeliveryFile, "delivery", "d", "", "delivery file to screen against")
	watchCmd.Flags().StringVarP(&watchMappingFile, "mapping", "m", "", "TOML column mapping file")
	watchCmd.Flags().IntVar(&watchCPCLimit, "cpc-limit", 0, "contacts-per-company limit")
	watchCmd.Flags().StringVar(&watchSelection, "checks", "all", "comma-separated checks to run")
	_ = watchCmd.MarkFlagRequired("mapping")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	checks, err := parseChecks(watchSelection)
	if err != nil {
		return err
	}

	mapping, err := file.LoadMapping(watchMappingFile)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !screenable(event.Name) {
				continue
			}
			time.Sleep(settleDelay)

			output := defaultOutputPath(event.Name)
			stats, err := screenFile(cmd.Context(), screenConfig{
				LeadFile:     event.Name,
				DeliveryFile: watchDeliveryFile,
				OutputFile:   output,
				Mapping:      mapping,
				Checks:       checks,
				CPCLimit:     resolveCPCLimit(watchCPCLimit),
				Permutations: resolvePermuteOptions(),
				History:      true,
			})
			if err != nil {
				logger.Warn("Screening %s failed: %v", event.Name, err)
				continue
			}
			printStats(cmd, stats, output)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-stop:
			cmd.Println("Stopping.")
			return nil
		}
	}
}

// screenable reports whether a path looks like a lead file we can read,
// skipping our own annotated outputs.
func screenable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return false
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return !strings.HasSuffix(base, "_screened")
}
