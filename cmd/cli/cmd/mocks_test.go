package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/lifecycle"
	"github.com/runvoy/ecstasks/internal/providers/aws/ecstasks"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// mockOutputInterface records every output call
type mockOutputInterface struct {
	calls []call
}

type call struct {
	method string
	args   []any
}

func (m *mockOutputInterface) Infof(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Infof", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Errorf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Errorf", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Successf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Successf", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Warningf(format string, a ...any) {
	m.calls = append(m.calls, call{method: "Warningf", args: []any{fmt.Sprintf(format, a...)}})
}
func (m *mockOutputInterface) Table(headers []string, rows [][]string) {
	m.calls = append(m.calls, call{method: "Table", args: []any{headers, rows}})
}
func (m *mockOutputInterface) List(items []string) {
	m.calls = append(m.calls, call{method: "List", args: []any{items}})
}
func (m *mockOutputInterface) Blank() {
	m.calls = append(m.calls, call{method: "Blank"})
}
func (m *mockOutputInterface) Bold(text string) string {
	return text
}
func (m *mockOutputInterface) KeyValue(key, value string) {
	m.calls = append(m.calls, call{method: "KeyValue", args: []any{key, value}})
}
func (m *mockOutputInterface) Println(a ...any) {
	m.calls = append(m.calls, call{method: "Println", args: a})
}

// byMethod returns the calls of one method.
func (m *mockOutputInterface) byMethod(method string) []call {
	var out []call
	for _, c := range m.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// keyValue returns the value printed for key, if any.
func (m *mockOutputInterface) keyValue(key string) (string, bool) {
	for _, c := range m.byMethod("KeyValue") {
		if c.args[0] == key {
			return c.args[1].(string), true
		}
	}
	return "", false
}

// contains reports whether any message of method contains substr.
func (m *mockOutputInterface) contains(method, substr string) bool {
	for _, c := range m.byMethod(method) {
		if len(c.args) > 0 {
			if s, ok := c.args[0].(string); ok && strings.Contains(s, substr) {
				return true
			}
		}
	}
	return false
}

type mockVerdictHandler struct {
	handleFunc func(ctx context.Context, event *api.LifecycleEvent, remaining lifecycle.RemainingTimeFunc) *api.Verdict
}

func (m *mockVerdictHandler) Handle(
	ctx context.Context, event *api.LifecycleEvent, remaining lifecycle.RemainingTimeFunc,
) *api.Verdict {
	return m.handleFunc(ctx, event, remaining)
}

type mockInvocationRepository struct {
	listFunc func(ctx context.Context, identity string, limit int) ([]*api.InvocationRecord, error)
}

func (m *mockInvocationRepository) PutInvocation(_ context.Context, _ *api.InvocationRecord) error {
	return nil
}

func (m *mockInvocationRepository) ListInvocations(
	ctx context.Context, identity string, limit int,
) ([]*api.InvocationRecord, error) {
	return m.listFunc(ctx, identity, limit)
}

type mockSTSClient struct {
	getCallerIdentityFunc func(ctx context.Context, params *sts.GetCallerIdentityInput) (*sts.GetCallerIdentityOutput, error)
}

func (m *mockSTSClient) GetCallerIdentity(
	ctx context.Context, params *sts.GetCallerIdentityInput, _ ...func(*sts.Options),
) (*sts.GetCallerIdentityOutput, error) {
	return m.getCallerIdentityFunc(ctx, params)
}

type mockClusterDescriber struct {
	describeFunc func(ctx context.Context, cluster string) (*ecstasks.ClusterInfo, error)
}

func (m *mockClusterDescriber) DescribeCluster(ctx context.Context, cluster string) (*ecstasks.ClusterInfo, error) {
	return m.describeFunc(ctx, cluster)
}
