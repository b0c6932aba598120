// Package provision ensures the task list and its columns exist on the site.
//
// The routine is meant to be run once, out of band, before the task CLI is
// used. It does not diff or migrate an existing list.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vatask/internal/schema"
	"vatask/internal/sharepoint"
)

// ErrListNotFound is returned by Store.GetList when the list does not exist.
var ErrListNotFound = errors.New("list not found")

// ListInfo identifies a list on the site.
type ListInfo struct {
	ID    string
	Title string
}

// Store is the subset of site operations provisioning needs.
type Store interface {
	// GetList returns ErrListNotFound (possibly wrapped) when the list is absent.
	GetList(ctx context.Context, title string) (ListInfo, error)
	CreateList(ctx context.Context, title, description string, template int) (ListInfo, error)
	AddField(ctx context.Context, listTitle string, field schema.Field) error
}

// SchemaWarning is a field that could not be added. It does not fail the run.
type SchemaWarning struct {
	Field schema.Field
	Err   error
}

func (w SchemaWarning) Error() string {
	return fmt.Sprintf("field %s (%s): %v", w.Field.Name, w.Field.Kind, w.Err)
}

func (w SchemaWarning) Unwrap() error { return w.Err }

// Result describes a provisioning run.
type Result struct {
	List     ListInfo
	Created  bool
	Warnings []SchemaWarning
}

// Provisioner creates the list and its fields.
type Provisioner struct {
	store  Store
	title  string
	fields []schema.Field
	log    zerolog.Logger
	now    func() time.Time
}

// New creates a Provisioner for the list title with the standard field set.
func New(store Store, listTitle string, logger zerolog.Logger) *Provisioner {
	return &Provisioner{
		store:  store,
		title:  listTitle,
		fields: schema.Fields,
		log:    logger,
		now:    time.Now,
	}
}

// SetClock overrides the clock used for the list description (for testing).
func (p *Provisioner) SetClock(now func() time.Time) {
	p.now = now
}

// Run ensures the list exists. An existing list is left untouched. For a new
// list every field is attempted in order; field failures become warnings.
// Any other failure aborts the run.
func (p *Provisioner) Run(ctx context.Context) (Result, error) {
	list, err := p.store.GetList(ctx, p.title)
	switch {
	case err == nil:
		p.log.Info().Str("list", p.title).Msgf("%s already exists.", p.title)
		return Result{List: list}, nil
	case !errors.Is(err, ErrListNotFound):
		return Result{}, fmt.Errorf("check list %s: %w", p.title, err)
	}

	p.log.Info().Str("list", p.title).Msgf("%s not found, creating...", p.title)

	desc := "Provisioned by vatask: " + p.now().UTC().Format(time.RFC3339)
	list, err = p.store.CreateList(ctx, p.title, desc, schema.GenericListTemplate)
	if err != nil {
		return Result{}, fmt.Errorf("create list %s: %w", p.title, err)
	}
	p.log.Info().Str("list", p.title).Str("id", list.ID).Msg("list created")

	res := Result{List: list, Created: true}
	for _, f := range p.fields {
		if err := p.store.AddField(ctx, p.title, f); err != nil {
			w := SchemaWarning{Field: f, Err: err}
			p.log.Warn().Err(err).Str("field", f.Name).Msg("error adding field (it may already exist)")
			res.Warnings = append(res.Warnings, w)
			continue
		}
		p.log.Debug().Str("field", f.Name).Str("kind", f.Kind.String()).Msg("field added")
	}

	if len(res.Warnings) == 0 {
		p.log.Info().Str("list", p.title).Msgf("fields added to %s", p.title)
	}
	return res, nil
}

// SiteStore adapts a sharepoint.Service to Store.
type SiteStore struct {
	svc *sharepoint.Service
}

// NewSiteStore wraps svc.
func NewSiteStore(svc *sharepoint.Service) *SiteStore {
	return &SiteStore{svc: svc}
}

// GetList maps an HTTP 404 to ErrListNotFound. Every other failure is returned as is.
func (s *SiteStore) GetList(ctx context.Context, title string) (ListInfo, error) {
	l, err := s.svc.Lists.GetByTitle(title).Context(ctx).Do()
	if err != nil {
		if sharepoint.IsNotFound(err) {
			return ListInfo{}, fmt.Errorf("%w: %v", ErrListNotFound, err)
		}
		return ListInfo{}, err
	}
	return ListInfo{ID: l.ID, Title: l.Title}, nil
}

func (s *SiteStore) CreateList(ctx context.Context, title, description string, template int) (ListInfo, error) {
	l, err := s.svc.Lists.Add(&sharepoint.List{
		Title:        title,
		Description:  description,
		BaseTemplate: template,
	}).Context(ctx).Do()
	if err != nil {
		return ListInfo{}, err
	}
	return ListInfo{ID: l.ID, Title: l.Title}, nil
}

func (s *SiteStore) AddField(ctx context.Context, listTitle string, field schema.Field) error {
	_, err := s.svc.Fields.Add(listTitle, &sharepoint.Field{
		Title:         field.Name,
		FieldTypeKind: int(field.Kind),
	}).Context(ctx).Do()
	return err
}
