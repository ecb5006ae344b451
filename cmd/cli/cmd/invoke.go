package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/client/output"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/lifecycle"
	"github.com/runvoy/ecstasks/internal/logger"
	awsApp "github.com/runvoy/ecstasks/internal/providers/aws/app"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	invokeDeadline time.Duration
	invokeJSON     bool
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <event-file>",
	Short: "Run a custom resource event against the configured cluster",
	Long: `Reads a CloudFormation custom resource event (JSON or YAML) and runs it through the
task runner locally, using the AWS credentials of the current shell.
The verdict is printed but never sent to the event's ResponseURL.`,
	Example: fmt.Sprintf(`  - %[1]s invoke create.yaml
  - %[1]s invoke delete.json --deadline 2m
  - %[1]s invoke create.yaml --json`, constants.ProjectName),
	Args: cobra.ExactArgs(1),
	Run:  invokeRun,
}

func init() {
	invokeCmd.Flags().DurationVar(&invokeDeadline, "deadline", constants.DefaultLocalDeadline,
		"Execution budget, as the Lambda timeout would impose it")
	invokeCmd.Flags().BoolVar(&invokeJSON, "json", false, "Print the verdict as JSON on stdout")
	rootCmd.AddCommand(invokeCmd)
}

func invokeRun(cmd *cobra.Command, args []string) {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		output.Fatalf("failed to load configuration: %v", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		output.Fatalf("failed to read event file: %v", err)
	}
	event, err := api.DecodeLifecycleEvent(data)
	if err != nil {
		output.Fatalf("%v", err)
	}

	deps, err := awsApp.Initialize(cmd.Context(), cfg, slog.Default())
	if err != nil {
		output.Fatalf("failed to initialize AWS clients: %v", err)
	}

	service := NewInvokeService(awsApp.NewOrchestrator(deps, cfg, slog.Default()), NewOutputWrapper())
	verdict := service.Invoke(cmd.Context(), event, invokeDeadline, invokeJSON)
	if !verdict.Succeeded() {
		os.Exit(1)
	}
}

// VerdictHandler runs one lifecycle event to its verdict.
type VerdictHandler interface {
	Handle(ctx context.Context, event *api.LifecycleEvent, remaining lifecycle.RemainingTimeFunc) *api.Verdict
}

// InvokeService runs events through the orchestrator and displays the verdict.
type InvokeService struct {
	orch   VerdictHandler
	output OutputInterface
	now    func() time.Time
}

// NewInvokeService creates a new InvokeService with the provided dependencies.
func NewInvokeService(orch VerdictHandler, outputter OutputInterface) *InvokeService {
	return &InvokeService{
		orch:   orch,
		output: outputter,
		now:    time.Now,
	}
}

// Invoke handles event within budget and displays the verdict.
// The budget is cut short by the context deadline when that comes first.
func (s *InvokeService) Invoke(
	ctx context.Context, event *api.LifecycleEvent, budget time.Duration, asJSON bool,
) *api.Verdict {
	if event.RequestID == "" {
		event.RequestID = uuid.New().String()
	}
	ctx = logger.WithRequestID(ctx, event.RequestID)

	s.output.Infof("Running %s for %s (budget %s)",
		s.output.Bold(string(event.RequestType)), s.output.Bold(event.LogicalResourceID), budget)

	verdict := s.orch.Handle(ctx, event, lifecycle.BudgetRemaining(ctx, s.now, budget))

	if asJSON {
		s.printJSON(verdict)
	} else {
		s.display(verdict)
	}
	return verdict
}

func (s *InvokeService) display(verdict *api.Verdict) {
	s.output.Blank()
	s.output.KeyValue("Status", output.StatusBadge(string(verdict.Status)))
	if verdict.PhysicalResourceID != "" {
		s.output.KeyValue("Physical ID", verdict.PhysicalResourceID)
	}
	if verdict.Kind != "" {
		s.output.KeyValue("Kind", verdict.Kind)
	}
	if verdict.Reason != "" {
		s.output.KeyValue("Reason", verdict.Reason)
	}
	if len(verdict.TaskARNs) > 0 {
		s.output.KeyValue("Tasks", fmt.Sprintf("%d", len(verdict.TaskARNs)))
		s.output.List(verdict.TaskARNs)
	}
	s.output.Blank()

	if verdict.Succeeded() {
		s.output.Successf("Lifecycle event succeeded")
	} else {
		s.output.Errorf("Lifecycle event failed")
	}
}

func (s *InvokeService) printJSON(verdict *api.Verdict) {
	data, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		s.output.Errorf("failed to encode verdict: %v", err)
		return
	}
	s.output.Println(string(data))
}
