package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/nyattihq/nyatti/internal/client/api"
	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
	"github.com/nyattihq/nyatti/pkg/logger"
)

// SiteService is the slice of the API the persister needs.
type SiteService interface {
	CheckSubdomain(ctx context.Context, name string) (bool, error)
	CreateSite(ctx context.Context, req api.CreateSiteRequest) (*api.Site, error)
}

// Outcome classifies one submission attempt.
type Outcome int

const (
	// OutcomeCreated means the site exists; leave the wizard.
	OutcomeCreated Outcome = iota
	// OutcomeSubdomainTaken means the claim was lost to a race; the draft
	// stays on the final step for correction.
	OutcomeSubdomainTaken
	// OutcomeFailed is a transport or server failure; the draft stays
	// intact for retry.
	OutcomeFailed
)

// Persister submits the completed draft. The in-flight flag is the only
// mutual exclusion in the wizard: a second Submit while one is running
// returns ErrSubmitInProgress without touching the network.
type Persister struct {
	service SiteService

	mu       sync.Mutex
	inFlight bool
}

// NewPersister creates a draft persister.
func NewPersister(service SiteService) *Persister {
	return &Persister{service: service}
}

// InFlight reports whether a submission is currently running.
func (p *Persister) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Submit re-checks the subdomain and creates the site. The client-side
// availability status may be minutes old by the time the user pays, so the
// claim is verified again here and authoritatively once more server-side.
// The draft is never mutated; on any non-created outcome it remains valid
// for correction and retry.
func (p *Persister) Submit(ctx context.Context, draft *Draft) (Outcome, *api.Site, error) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return OutcomeFailed, nil, pkgerrors.ErrSubmitInProgress
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	if draft.DomainMode == ModeSubdomain {
		available, err := p.service.CheckSubdomain(ctx, draft.NormalizedSubdomain())
		if err != nil {
			return OutcomeFailed, nil, pkgerrors.Wrap(err, "failed to re-check subdomain")
		}
		if !available {
			return OutcomeSubdomainTaken, nil, pkgerrors.ErrSubdomainTaken
		}
	}

	site, err := p.service.CreateSite(ctx, draft.ToCreateRequest())
	if err != nil {
		if errors.Is(err, pkgerrors.ErrSubdomainTaken) {
			return OutcomeSubdomainTaken, nil, err
		}
		return OutcomeFailed, nil, pkgerrors.Wrap(err, "failed to create site")
	}

	logger.InfoEvent().
		Str("site_id", site.ID).
		Str("subdomain", site.Subdomain).
		Msg("Site created")

	return OutcomeCreated, site, nil
}
