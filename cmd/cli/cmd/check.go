package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/runvoy/ecstasks/internal/client/output"
	awsApp "github.com/runvoy/ecstasks/internal/providers/aws/app"
	awsClient "github.com/runvoy/ecstasks/internal/providers/aws/client"
	"github.com/runvoy/ecstasks/internal/providers/aws/ecstasks"
	awsIdentity "github.com/runvoy/ecstasks/internal/providers/aws/identity"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var checkCluster string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify AWS credentials and that a cluster can accept tasks",
	Run:   checkRun,
}

func init() {
	checkCmd.Flags().StringVar(&checkCluster, "cluster", "", "Name or ARN of the ECS cluster")
	_ = checkCmd.MarkFlagRequired("cluster")
	rootCmd.AddCommand(checkCmd)
}

func checkRun(cmd *cobra.Command, _ []string) {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		output.Fatalf("failed to load configuration: %v", err)
	}

	deps, err := awsApp.Initialize(cmd.Context(), cfg, slog.Default())
	if err != nil {
		output.Fatalf("failed to initialize AWS clients: %v", err)
	}

	service := NewCheckService(deps.STS, deps.Cluster, NewOutputWrapper(), slog.Default())
	if err = service.Check(cmd.Context(), checkCluster); err != nil {
		output.Fatalf("%v", err)
	}
}

// ClusterDescriber looks up a cluster.
type ClusterDescriber interface {
	DescribeCluster(ctx context.Context, cluster string) (*ecstasks.ClusterInfo, error)
}

// CheckService runs the preflight checks.
type CheckService struct {
	sts     awsClient.STSClient
	cluster ClusterDescriber
	output  OutputInterface
	logger  *slog.Logger
}

// NewCheckService creates a new CheckService with the provided dependencies.
func NewCheckService(
	sts awsClient.STSClient, cluster ClusterDescriber, outputter OutputInterface, log *slog.Logger,
) *CheckService {
	return &CheckService{
		sts:     sts,
		cluster: cluster,
		output:  outputter,
		logger:  log,
	}
}

// Check resolves the caller identity and describes the cluster concurrently.
// It fails when either check fails or the cluster is not ACTIVE.
func (s *CheckService) Check(ctx context.Context, cluster string) error {
	if cluster == "" {
		return errors.New("cluster is required")
	}

	var (
		caller *awsIdentity.CallerIdentity
		info   *ecstasks.ClusterInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		caller, err = awsIdentity.GetCallerIdentity(gctx, s.sts, s.logger)
		if err != nil {
			return fmt.Errorf("credentials check failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		info, err = s.cluster.DescribeCluster(gctx, cluster)
		if err != nil {
			return fmt.Errorf("cluster check failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.output.KeyValue("Account", caller.Account)
	s.output.KeyValue("Principal", caller.ARN)
	s.output.KeyValue("Cluster", info.ARN)
	s.output.KeyValue("Status", output.StatusBadge(info.Status))
	s.output.KeyValue("Container instances", fmt.Sprintf("%d", info.ContainerInstances))
	s.output.KeyValue("Running tasks", fmt.Sprintf("%d", info.RunningTasks))
	s.output.KeyValue("Pending tasks", fmt.Sprintf("%d", info.PendingTasks))
	s.output.Blank()

	if !info.Active() {
		return fmt.Errorf("cluster %s is %s", info.Name, info.Status)
	}

	s.output.Successf("Cluster %s is ready to run tasks", s.output.Bold(info.Name))
	return nil
}
