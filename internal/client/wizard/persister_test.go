package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/client/api"
	"github.com/nyattihq/nyatti/internal/plans"
	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
)

type fakeSiteService struct {
	available bool
	checkErr  error
	createErr error

	checks  int32
	creates int32
	lastReq api.CreateSiteRequest
	block   chan struct{} // when set, CreateSite waits here
	mu      sync.Mutex
}

func (f *fakeSiteService) CheckSubdomain(ctx context.Context, name string) (bool, error) {
	atomic.AddInt32(&f.checks, 1)
	return f.available, f.checkErr
}

func (f *fakeSiteService) CreateSite(ctx context.Context, req api.CreateSiteRequest) (*api.Site, error) {
	atomic.AddInt32(&f.creates, 1)
	f.mu.Lock()
	f.lastReq = req
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &api.Site{ID: "site-1", Subdomain: req.Subdomain, URL: "https://" + req.Subdomain + ".nyatti.co"}, nil
}

func completedDraft() *Draft {
	d := NewDraft(catalog.KindShop)
	templateID := "general-store"
	d.TemplateID = &templateID
	d.Name = "My Duka"
	d.Subdomain = "MyDuka"
	d.PlanType = plans.Premium
	return d
}

func TestSubmitCreates(t *testing.T) {
	service := &fakeSiteService{available: true}
	p := NewPersister(service)

	outcome, site, err := p.Submit(context.Background(), completedDraft())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, "https://myduka.nyatti.co", site.URL)

	// The submitted draft carries the full configuration, normalized
	assert.Equal(t, "myduka", service.lastReq.Subdomain)
	assert.Equal(t, "premium", service.lastReq.PlanType)
	assert.Equal(t, "shop", service.lastReq.Kind)
	assert.Equal(t, catalog.DefaultPages(catalog.KindShop), service.lastReq.Pages)
	assert.False(t, p.InFlight())
}

func TestSubmitAbortsWhenClaimLost(t *testing.T) {
	service := &fakeSiteService{available: false}
	p := NewPersister(service)
	draft := completedDraft()

	outcome, site, err := p.Submit(context.Background(), draft)
	assert.Equal(t, OutcomeSubdomainTaken, outcome)
	assert.Nil(t, site)
	assert.ErrorIs(t, err, pkgerrors.ErrSubdomainTaken)

	// No creation call, draft untouched and retryable
	assert.Zero(t, atomic.LoadInt32(&service.creates))
	assert.Equal(t, "MyDuka", draft.Subdomain)
	assert.False(t, p.InFlight())
}

func TestSubmitMapsServerDuplicate(t *testing.T) {
	service := &fakeSiteService{
		available: true,
		createErr: pkgerrors.NewAppError("API", "taken", pkgerrors.ErrSubdomainTaken),
	}
	p := NewPersister(service)

	outcome, _, err := p.Submit(context.Background(), completedDraft())
	assert.Equal(t, OutcomeSubdomainTaken, outcome)
	assert.ErrorIs(t, err, pkgerrors.ErrSubdomainTaken)
}

func TestSubmitTransportFailure(t *testing.T) {
	t.Run("during re-check", func(t *testing.T) {
		service := &fakeSiteService{checkErr: assert.AnError}
		p := NewPersister(service)

		outcome, _, err := p.Submit(context.Background(), completedDraft())
		assert.Equal(t, OutcomeFailed, outcome)
		assert.Error(t, err)
		assert.Zero(t, atomic.LoadInt32(&service.creates))
	})

	t.Run("during creation", func(t *testing.T) {
		service := &fakeSiteService{available: true, createErr: assert.AnError}
		p := NewPersister(service)

		outcome, _, err := p.Submit(context.Background(), completedDraft())
		assert.Equal(t, OutcomeFailed, outcome)
		assert.Error(t, err)
		assert.False(t, p.InFlight())
	})
}

func TestSubmitCustomDomainSkipsRecheck(t *testing.T) {
	service := &fakeSiteService{available: true}
	p := NewPersister(service)

	draft := completedDraft()
	draft.DomainMode = ModeUseExisting
	draft.CustomDomain = "duka.example.com"

	outcome, _, err := p.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Zero(t, atomic.LoadInt32(&service.checks))
}

func TestDoubleSubmitBlocked(t *testing.T) {
	block := make(chan struct{})
	service := &fakeSiteService{available: true, block: block}
	p := NewPersister(service)
	draft := completedDraft()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := p.Submit(context.Background(), draft)
		assert.NoError(t, err)
	}()

	// Wait for the first submission to get in flight
	for atomic.LoadInt32(&service.creates) == 0 {
		time.Sleep(time.Millisecond)
	}
	require.True(t, p.InFlight())

	// The double-click: refused without a network call
	_, _, err := p.Submit(context.Background(), draft)
	assert.ErrorIs(t, err, pkgerrors.ErrSubmitInProgress)

	close(block)
	<-done

	assert.Equal(t, int32(1), atomic.LoadInt32(&service.creates))

	// Once resolved, submission is possible again
	_, _, err = p.Submit(context.Background(), draft)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&service.creates))
}
