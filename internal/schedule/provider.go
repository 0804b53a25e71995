package schedule

import "context"

// PolicyProvider resolves the working-hours policy for a provider.
type PolicyProvider interface {
	PolicyFor(ctx context.Context, providerID string) (Policy, error)
}

// StaticPolicyProvider serves one policy for every provider, the
// deployment-wide configuration default.
type StaticPolicyProvider struct {
	pol Policy
}

func NewStaticPolicyProvider(pol Policy) *StaticPolicyProvider {
	return &StaticPolicyProvider{pol: pol}
}

func (p *StaticPolicyProvider) PolicyFor(_ context.Context, _ string) (Policy, error) {
	return p.pol, nil
}
