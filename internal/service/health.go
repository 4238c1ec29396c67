package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/remediarr/remediarr/internal/brain"
)

// Pinger is one downstream dependency that can be health checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DependencyStatus is the readiness result for one collaborator.
type DependencyStatus struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HealthService pings the configured collaborators for the readiness probe
// and the startup notification.
type HealthService struct {
	dependencies map[string]Pinger
	notifier     brain.Notifier
}

func NewHealthService(dependencies map[string]Pinger, notifier brain.Notifier) *HealthService {
	return &HealthService{
		dependencies: dependencies,
		notifier:     notifier,
	}
}

// CheckDependencies pings every collaborator and returns per-dependency
// results, sorted by name for stable output.
func (s *HealthService) CheckDependencies(ctx context.Context) []DependencyStatus {
	statuses := make([]DependencyStatus, 0, len(s.dependencies))
	for name, dep := range s.dependencies {
		status := DependencyStatus{Name: name, OK: true}
		if err := dep.Ping(ctx); err != nil {
			status.OK = false
			status.Error = err.Error()
		}
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	return statuses
}

// Ready reports overall readiness: every configured collaborator answers.
func (s *HealthService) Ready(ctx context.Context) ([]DependencyStatus, bool) {
	statuses := s.CheckDependencies(ctx)
	for _, status := range statuses {
		if !status.OK {
			return statuses, false
		}
	}
	return statuses, true
}

// AnnounceStartup pings the collaborators and notifies operators with the
// result. Called once at boot; a failed ping does not block startup.
func (s *HealthService) AnnounceStartup(ctx context.Context, version string) {
	statuses := s.CheckDependencies(ctx)

	parts := make([]string, 0, len(statuses))
	healthy := true
	for _, status := range statuses {
		if status.OK {
			parts = append(parts, status.Name+" OK")
			continue
		}
		healthy = false
		parts = append(parts, fmt.Sprintf("%s FAILED (%s)", status.Name, status.Error))
		slog.WarnContext(ctx, "dependency unreachable at startup", "dependency", status.Name, "error", status.Error)
	}

	title := "Remediarr up"
	if !healthy {
		title = "Remediarr up (degraded)"
	}

	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("v%s ready. %s", version, strings.Join(parts, "; "))
	if err := s.notifier.Notify(ctx, title, message); err != nil {
		slog.WarnContext(ctx, "startup notification failed", "error", err)
	}
}
