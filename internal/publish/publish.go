// Package publish turns authored artifacts into a new immutable funnel
// version. Both artifacts are validated in strict mode first; nothing is
// written unless both pass.
package publish

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carecompass/funnelkit/internal/resolver"
	"github.com/carecompass/funnelkit/internal/validation"
)

var (
	// ErrRejected matches any RejectedError.
	ErrRejected = errors.New("candidate version rejected")
	// ErrInvalidSemver is returned when SemanticVersion does not parse.
	ErrInvalidSemver = errors.New("invalid semantic version")
	// ErrDuplicateSemver is returned when the funnel already has a version
	// with an equal semantic version.
	ErrDuplicateSemver = errors.New("semantic version already published")
)

// Store is the subset of the funnel store publishing needs.
type Store interface {
	GetFunnelBySlug(ctx context.Context, slug string) (*resolver.FunnelCatalogEntry, error)
	ListVersions(ctx context.Context, slug string) ([]resolver.FunnelVersionRow, error)
	// InsertVersion stores v and, when v.IsDefault is set, makes it the
	// catalog default in one write.
	InsertVersion(ctx context.Context, v resolver.FunnelVersionRow) error
}

// Candidate is an authored version awaiting publication. Questionnaire and
// Content are decoded documents (JSON or YAML), not yet validated.
type Candidate struct {
	Slug                   string `validate:"required"`
	SemanticVersion        string `validate:"required"`
	Questionnaire          any    `validate:"required"`
	Content                any    `validate:"required"`
	AlgorithmBundleVersion string
	PromptVersion          string
	RolloutPercent         int `validate:"min=0,max=100"`
	MakeDefault            bool
}

// Published describes a stored version.
type Published struct {
	VersionID       string                       `json:"versionId"`
	FunnelID        string                       `json:"funnelId"`
	Slug            string                       `json:"slug"`
	SemanticVersion string                       `json:"semanticVersion"`
	MadeDefault     bool                         `json:"madeDefault"`
	Questionnaire   *validation.ValidationResult `json:"questionnaire"`
	Content         *validation.ValidationResult `json:"content"`
}

// RejectedError carries both validation reports of a rejected candidate.
type RejectedError struct {
	Questionnaire *validation.ValidationResult
	Content       *validation.ValidationResult
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("candidate rejected: questionnaire has %d errors, content manifest has %d errors",
		len(e.Questionnaire.Errors), len(e.Content.Errors))
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

// Publisher validates and stores candidate versions.
type Publisher struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
	newID    func() string
	now      func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithIDGenerator replaces the uuid version id generator.
func WithIDGenerator(fn func() string) Option {
	return func(p *Publisher) { p.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(p *Publisher) { p.now = fn }
}

// New creates a Publisher.
func New(store Store, logger *zap.Logger, opts ...Option) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Publisher{
		store:    store,
		validate: validator.New(),
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish validates c and stores it as a new version of its funnel.
func (p *Publisher) Publish(ctx context.Context, c Candidate) (*Published, error) {
	if err := p.validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid candidate: %w", err)
	}
	sv, err := semver.NewVersion(c.SemanticVersion)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSemver, c.SemanticVersion, err)
	}

	qResult := validation.ValidateQuestionnaireConfig(c.Questionnaire)
	cResult := validation.ValidateContentManifest(c.Content)
	if !qResult.Valid || !cResult.Valid {
		p.logger.Info("Rejected candidate version",
			zap.String("slug", c.Slug),
			zap.String("semver", c.SemanticVersion),
			zap.Int("questionnaire_errors", len(qResult.Errors)),
			zap.Int("content_errors", len(cResult.Errors)))
		return nil, &RejectedError{Questionnaire: qResult, Content: cResult}
	}

	funnel, err := p.store.GetFunnelBySlug(ctx, c.Slug)
	if err != nil {
		return nil, fmt.Errorf("looking up funnel %q: %w", c.Slug, err)
	}
	if funnel == nil {
		return nil, &resolver.FunnelNotFoundError{Slug: c.Slug}
	}

	existing, err := p.store.ListVersions(ctx, c.Slug)
	if err != nil {
		return nil, fmt.Errorf("listing versions of %q: %w", c.Slug, err)
	}
	for _, row := range existing {
		if other, err := semver.NewVersion(row.SemanticVersion); err == nil && other.Equal(sv) {
			return nil, fmt.Errorf("%w: %s is version %s", ErrDuplicateSemver, c.SemanticVersion, row.ID)
		}
	}

	questionnaire, err := validation.EncodeJSON(c.Questionnaire)
	if err != nil {
		return nil, err
	}
	content, err := validation.EncodeJSON(c.Content)
	if err != nil {
		return nil, err
	}

	row := resolver.FunnelVersionRow{
		ID:                     p.newID(),
		FunnelID:               funnel.ID,
		SemanticVersion:        c.SemanticVersion,
		QuestionnaireConfig:    questionnaire,
		ContentManifest:        content,
		AlgorithmBundleVersion: c.AlgorithmBundleVersion,
		PromptVersion:          c.PromptVersion,
		IsDefault:              c.MakeDefault,
		RolloutPercent:         c.RolloutPercent,
		CreatedAt:              p.now(),
	}
	if err := p.store.InsertVersion(ctx, row); err != nil {
		return nil, fmt.Errorf("storing version: %w", err)
	}

	p.logger.Info("Published funnel version",
		zap.String("slug", c.Slug),
		zap.String("version_id", row.ID),
		zap.String("semver", c.SemanticVersion),
		zap.Bool("default", c.MakeDefault))

	return &Published{
		VersionID:       row.ID,
		FunnelID:        funnel.ID,
		Slug:            c.Slug,
		SemanticVersion: c.SemanticVersion,
		MadeDefault:     c.MakeDefault,
		Questionnaire:   qResult,
		Content:         cResult,
	}, nil
}

// SortBySemver orders rows by ascending semantic version. Rows whose version
// does not parse sort last, by id.
func SortBySemver(rows []resolver.FunnelVersionRow) {
	parsed := make(map[string]*semver.Version, len(rows))
	for _, r := range rows {
		if v, err := semver.NewVersion(r.SemanticVersion); err == nil {
			parsed[r.ID] = v
		}
	}
	slices.SortStableFunc(rows, func(a, b resolver.FunnelVersionRow) int {
		va, vb := parsed[a.ID], parsed[b.ID]
		switch {
		case va != nil && vb != nil:
			if c := va.Compare(vb); c != 0 {
				return c
			}
		case va != nil:
			return -1
		case vb != nil:
			return 1
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
