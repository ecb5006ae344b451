package ecstasks

import (
	"context"
	"fmt"

	appErrors "github.com/runvoy/ecstasks/internal/errors"
	"github.com/runvoy/ecstasks/internal/logger"
	awsConstants "github.com/runvoy/ecstasks/internal/providers/aws/constants"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

// ClusterInfo summarizes a cluster for preflight checks.
type ClusterInfo struct {
	Name                string
	ARN                 string
	Status              string
	RunningTasks        int32
	PendingTasks        int32
	ContainerInstances  int32
	ActiveServicesCount int32
}

// Active reports whether the cluster can accept tasks.
func (i *ClusterInfo) Active() bool {
	return i.Status == awsConstants.ClusterStatusActive
}

// DescribeCluster looks up a single cluster by name or ARN.
func (c *Client) DescribeCluster(ctx context.Context, cluster string) (*ClusterInfo, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, c.logger)
	logArgs := []any{
		"operation", "ECS.DescribeClusters",
		"cluster", cluster,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := c.ecsClient.DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{cluster},
	})
	if err != nil {
		return nil, wrapCallError("ECS.DescribeClusters", err)
	}

	if len(out.Clusters) == 0 {
		reason := "MISSING"
		if len(out.Failures) > 0 {
			reason = awsStd.ToString(out.Failures[0].Reason)
		}
		return nil, appErrors.ErrTransport("ECS.DescribeClusters",
			fmt.Errorf("cluster %s: %s", cluster, reason))
	}

	cl := out.Clusters[0]
	return &ClusterInfo{
		Name:                awsStd.ToString(cl.ClusterName),
		ARN:                 awsStd.ToString(cl.ClusterArn),
		Status:              awsStd.ToString(cl.Status),
		RunningTasks:        cl.RunningTasksCount,
		PendingTasks:        cl.PendingTasksCount,
		ContainerInstances:  cl.RegisteredContainerInstancesCount,
		ActiveServicesCount: cl.ActiveServicesCount,
	}, nil
}
