package lifecycle

import (
	"context"
	"sync"

	"github.com/runvoy/ecstasks/internal/api"
)

type mockClusterClient struct {
	mu sync.Mutex

	startTaskFunc     func(ctx context.Context, req *api.TaskRequest) (*api.TaskResult, error)
	describeTasksFunc func(ctx context.Context, cluster string, taskARNs []string) (*api.TaskResult, error)
	listTasksFunc     func(ctx context.Context, cluster, startedBy string) ([]string, error)
	stopTaskFunc      func(ctx context.Context, cluster, taskARN, reason string) error

	startCalls    []*api.TaskRequest
	describeCalls [][]string
	listCalls     []string
	stopCalls     []string
}

func (m *mockClusterClient) StartTask(ctx context.Context, req *api.TaskRequest) (*api.TaskResult, error) {
	m.mu.Lock()
	m.startCalls = append(m.startCalls, req)
	m.mu.Unlock()
	if m.startTaskFunc != nil {
		return m.startTaskFunc(ctx, req)
	}
	return &api.TaskResult{}, nil
}

func (m *mockClusterClient) DescribeTasks(
	ctx context.Context, cluster string, taskARNs []string,
) (*api.TaskResult, error) {
	m.mu.Lock()
	m.describeCalls = append(m.describeCalls, taskARNs)
	m.mu.Unlock()
	if m.describeTasksFunc != nil {
		return m.describeTasksFunc(ctx, cluster, taskARNs)
	}
	return &api.TaskResult{}, nil
}

func (m *mockClusterClient) ListTasks(ctx context.Context, cluster, startedBy string) ([]string, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, startedBy)
	m.mu.Unlock()
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, cluster, startedBy)
	}
	return nil, nil
}

func (m *mockClusterClient) StopTask(ctx context.Context, cluster, taskARN, reason string) error {
	m.mu.Lock()
	m.stopCalls = append(m.stopCalls, taskARN)
	m.mu.Unlock()
	if m.stopTaskFunc != nil {
		return m.stopTaskFunc(ctx, cluster, taskARN, reason)
	}
	return nil
}

type mockLogTailer struct {
	calls []string
	lines []string
	err   error
}

func (m *mockLogTailer) FetchLogTail(_ context.Context, task *api.Task, container string, _ int) ([]string, error) {
	m.calls = append(m.calls, task.ARN+"/"+container)
	return m.lines, m.err
}

type mockLedger struct {
	records []*api.InvocationRecord
	err     error
}

func (m *mockLedger) PutInvocation(_ context.Context, record *api.InvocationRecord) error {
	m.records = append(m.records, record)
	return m.err
}

func (m *mockLedger) ListInvocations(_ context.Context, identity string, _ int) ([]*api.InvocationRecord, error) {
	var out []*api.InvocationRecord
	for _, r := range m.records {
		if r.Identity == identity {
			out = append(out, r)
		}
	}
	return out, m.err
}
