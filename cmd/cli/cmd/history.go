package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/runvoy/ecstasks/internal/client/output"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/database"
	"github.com/runvoy/ecstasks/internal/identity"
	awsApp "github.com/runvoy/ecstasks/internal/providers/aws/app"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <stack-id> <logical-resource-id>",
	Short: "List recorded lifecycle invocations of a custom resource",
	Args:  cobra.ExactArgs(2),
	Run:   historyRun,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of invocations to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func historyRun(cmd *cobra.Command, args []string) {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		output.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.LedgerEnabled() {
		output.Fatalf("no invocations table configured (set %s_INVOCATIONS_TABLE)", constants.EnvPrefix)
	}

	deps, err := awsApp.Initialize(cmd.Context(), cfg, slog.Default())
	if err != nil {
		output.Fatalf("failed to initialize AWS clients: %v", err)
	}

	service := NewHistoryService(deps.Ledger, NewOutputWrapper())
	if err = service.Show(cmd.Context(), args[0], args[1], historyLimit); err != nil {
		output.Fatalf("%v", err)
	}
}

// HistoryService lists ledger records.
type HistoryService struct {
	repo   database.InvocationRepository
	output OutputInterface
}

// NewHistoryService creates a new HistoryService with the provided dependencies.
func NewHistoryService(repo database.InvocationRepository, outputter OutputInterface) *HistoryService {
	return &HistoryService{
		repo:   repo,
		output: outputter,
	}
}

// Show prints the invocations of one resource, newest first.
func (s *HistoryService) Show(ctx context.Context, stackID, logicalResourceID string, limit int) error {
	if s.repo == nil {
		return errors.New("invocation ledger is not configured")
	}

	id := identity.Derive(stackID, logicalResourceID)
	records, err := s.repo.ListInvocations(ctx, id, limit)
	if err != nil {
		return fmt.Errorf("failed to list invocations: %w", err)
	}

	if len(records) == 0 {
		s.output.Warningf("No invocations recorded for %s", s.output.Bold(logicalResourceID))
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.InvokedAt.UTC().Format(time.DateTime),
			r.RequestType,
			output.StatusBadge(r.Status),
			output.Duration(time.Duration(r.DurationMillis) * time.Millisecond),
			r.PhysicalResourceID,
			output.Truncate(r.Reason, constants.ReasonPreviewLength),
		})
	}

	s.output.Table([]string{"Invoked At", "Request", "Status", "Duration", "Physical ID", "Reason"}, rows)
	s.output.Blank()
	s.output.Successf("%d invocation(s) of %s", len(records), s.output.Bold(logicalResourceID))
	return nil
}
