package access

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/model"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
)

// Gate answers and explains authorization questions.
type Gate struct {
	resolver *Resolver
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

// Option configures a Gate.
type Option func(*Gate)

func WithLogger(logger *logrus.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

func NewGate(resolver *Resolver, opts ...Option) *Gate {
	g := &Gate{resolver: resolver}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logrus.New()
	}
	return g
}

// UserSummary identifies the user a decision was made for.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Decision explains the outcome of a simulated check.
type Decision struct {
	Allowed            bool               `json:"allowed"`
	User               UserSummary        `json:"user"`
	RequiredPermission string             `json:"requiredPermission"`
	UserPermissions    []model.Permission `json:"userPermissions"`
}

func (g *Gate) resolve(ctx context.Context, userID uint) (*model.User, []model.Permission, error) {
	start := time.Now()
	user, permissions, err := g.resolver.ResolveUser(ctx, userID)
	if g.metrics != nil {
		g.metrics.AccessResolveDuration.Observe(time.Since(start).Seconds())
	}
	return user, permissions, err
}

func permits(permissions []model.Permission, module, action string) bool {
	for _, p := range permissions {
		if p.Matches(module, action) {
			return true
		}
	}
	return false
}

// Permissions returns the user's resolved permission set.
func (g *Gate) Permissions(ctx context.Context, userID uint) ([]model.Permission, error) {
	_, permissions, err := g.resolve(ctx, userID)
	return permissions, err
}

// IsAllowed reports whether the user holds action on module. Names are
// compared case-insensitively; unknown modules or actions are simply not
// allowed.
func (g *Gate) IsAllowed(ctx context.Context, userID uint, module, action string) (bool, error) {
	_, permissions, err := g.resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return permits(permissions, module, action), nil
}

// Simulate makes the same decision as IsAllowed and returns the full
// resolved set alongside it.
func (g *Gate) Simulate(ctx context.Context, userID uint, module, action string) (*Decision, error) {
	user, permissions, err := g.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Decision{
		Allowed:            permits(permissions, module, action),
		User:               UserSummary{ID: user.ID, Username: user.Username},
		RequiredPermission: fmt.Sprintf("%s on %s", action, module),
		UserPermissions:    permissions,
	}, nil
}

// Authorize returns nil when the user may perform action on module, an
// rbac.ErrForbidden error when it may not, and any other error when the
// decision could not be made.
func (g *Gate) Authorize(ctx context.Context, userID uint, module, action string) error {
	allowed, err := g.IsAllowed(ctx, userID, module, action)

	result := "denied"
	switch {
	case err != nil:
		result = "error"
	case allowed:
		result = "allowed"
	}
	if g.metrics != nil {
		g.metrics.AccessDecisionsTotal.WithLabelValues(module, action, result).Inc()
	}
	g.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"module":  module,
		"action":  action,
		"result":  result,
	}).Debug("access decision")

	if err != nil {
		return fmt.Errorf("permission check failed: %w", err)
	}
	if !allowed {
		return rbac.Forbiddenf("Insufficient permissions")
	}
	return nil
}

// Guard runs op only if the user may perform action on module. op never
// runs when the decision fails.
func (g *Gate) Guard(ctx context.Context, userID uint, module, action string, op func(context.Context) error) error {
	if err := g.Authorize(ctx, userID, module, action); err != nil {
		return err
	}
	return op(ctx)
}
