package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/tabular"
	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driving/tui/mapping"
	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/services"
)

var (
	mappingLeadFile     string
	mappingDeliveryFile string
	mappingOutFile      string
	mappingInFile       string
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Create and edit column mappings",
	Long: `A mapping assigns lead and delivery file columns to screening roles
(company, domain, email, names, phone). Mappings are TOML files passed
to check and watch via --mapping.`,
}

var mappingSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a mapping from the file headers",
	Long: `Matches header names against known keywords per role and writes the
suggested mapping. Review the result before using it.`,
	RunE: runMappingSuggest,
}

var mappingEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a mapping interactively",
	RunE:  runMappingEdit,
}

func init() {
	for _, cmd := range []*cobra.Command{mappingSuggestCmd, mappingEditCmd} {
		cmd.Flags().StringVarP(&mappingLeadFile, "lead", "l", "", "lead file to read headers from")
		cmd.Flags().StringVarP(&mappingDeliveryFile, "delivery", "d", "", "delivery file to read headers from")
		cmd.Flags().StringVarP(&mappingOutFile, "out", "o", "", "mapping file to write")
		_ = cmd.MarkFlagRequired("lead")
		_ = cmd.MarkFlagRequired("out")
	}
	mappingEditCmd.Flags().StringVarP(&mappingInFile, "mapping", "m", "", "existing mapping file to start from")

	mappingCmd.AddCommand(mappingSuggestCmd)
	mappingCmd.AddCommand(mappingEditCmd)
	rootCmd.AddCommand(mappingCmd)
}

func runMappingSuggest(cmd *cobra.Command, _ []string) error {
	suggested, leadHeaders, deliveryHeaders, err := suggestFromFiles()
	if err != nil {
		return err
	}

	printSuggestions(cmd, suggested, leadHeaders, deliveryHeaders)

	if err := file.SaveMapping(mappingOutFile, suggested); err != nil {
		return err
	}
	cmd.Printf("Mapping written to %s\n", mappingOutFile)
	return nil
}

func runMappingEdit(cmd *cobra.Command, _ []string) error {
	initial, leadHeaders, deliveryHeaders, err := suggestFromFiles()
	if err != nil {
		return err
	}

	// An existing mapping file beats the suggestions.
	if mappingInFile != "" {
		loaded, err := file.LoadMapping(mappingInFile)
		if err != nil {
			return err
		}
		initial = loaded
	}

	model := mapping.New(leadHeaders, deliveryHeaders, initial)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running mapping editor: %w", err)
	}

	result, ok := final.(*mapping.Model)
	if !ok {
		return errors.New("unexpected model type from mapping editor")
	}
	if !result.Saved() {
		cmd.Println("Cancelled, nothing written.")
		return nil
	}

	if err := file.SaveMapping(mappingOutFile, result.Mapping()); err != nil {
		return err
	}
	cmd.Printf("Mapping written to %s\n", mappingOutFile)
	return nil
}

// suggestFromFiles reads the headers of the given files and builds a
// keyword-suggested mapping for the roles those files cover.
func suggestFromFiles() (domain.FieldMapping, []string, []string, error) {
	leadTable, err := tabular.Load(mappingLeadFile)
	if err != nil {
		return nil, nil, nil, err
	}

	suggested := services.SuggestMapping(leadTable.Headers, domain.LeadRoles)

	var deliveryHeaders []string
	if mappingDeliveryFile != "" {
		deliveryTable, err := tabular.Load(mappingDeliveryFile)
		if err != nil {
			return nil, nil, nil, err
		}
		deliveryHeaders = deliveryTable.Headers
		for role, col := range services.SuggestMapping(deliveryHeaders, domain.DeliveryRoles) {
			suggested[role] = col
		}
	}

	return suggested, leadTable.Headers, deliveryHeaders, nil
}

func printSuggestions(cmd *cobra.Command, mapping domain.FieldMapping, leadHeaders, deliveryHeaders []string) {
	cmd.Printf("Lead columns: %d, delivery columns: %d\n", len(leadHeaders), len(deliveryHeaders))
	for _, roles := range [][]domain.Role{domain.LeadRoles, domain.DeliveryRoles} {
		for _, role := range roles {
			if column, ok := mapping.Column(role); ok {
				cmd.Printf("  %-18s -> %s\n", role, column)
			}
		}
	}
}
