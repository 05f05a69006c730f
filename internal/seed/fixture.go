// Package seed loads demo workspace data for dev environments from an
// embedded YAML fixture.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"scribe/internal/domain"
	models "scribe/internal/domain/models/workspace"
	wsRepo "scribe/internal/domain/repositories/workspace"
)

//go:embed fixtures.yaml
var fixtureYAML []byte

// FolderFixture is one folder row in the fixture file. IDs are fixed so
// re-seeding is idempotent (duplicate inserts are skipped).
type FolderFixture struct {
	ID          string   `yaml:"id"`
	Kind        string   `yaml:"kind"`
	Owner       string   `yaml:"owner"`
	OrgID       string   `yaml:"org_id"`
	ParentID    *string  `yaml:"parent_id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Visibility  string   `yaml:"visibility"`
	SharedWith  []string `yaml:"shared_with"`
	AccessType  string   `yaml:"access_type"`
}

// ResourceFixture is one resource row in the fixture file.
type ResourceFixture struct {
	ID         string                 `yaml:"id"`
	Kind       string                 `yaml:"kind"`
	Owner      string                 `yaml:"owner"`
	OrgID      string                 `yaml:"org_id"`
	FolderID   *string                `yaml:"folder_id"`
	Title      string                 `yaml:"title"`
	Visibility string                 `yaml:"visibility"`
	Payload    map[string]interface{} `yaml:"payload"`
}

// Fixture is the parsed fixture file.
type Fixture struct {
	Folders   []FolderFixture   `yaml:"folders"`
	Resources []ResourceFixture `yaml:"resources"`
}

// Load parses the embedded fixture file.
func Load() (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(fixtureYAML, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// KindRepos bundles the repositories of one kind for seeding.
type KindRepos struct {
	Folders   wsRepo.FolderRepository
	Resources wsRepo.ResourceRepository
}

// Apply inserts the fixture rows. Rows whose id already exists are skipped,
// so running the seeder twice leaves the data unchanged. Existence is
// checked before inserting rather than by catching unique violations, which
// keeps Apply usable inside a single transaction.
func Apply(ctx context.Context, repos map[string]KindRepos, fixture *Fixture, logger *slog.Logger) error {
	now := time.Now().UTC()

	var created, skipped int
	for _, ff := range fixture.Folders {
		kr, ok := repos[ff.Kind]
		if !ok {
			return fmt.Errorf("fixture folder %s references unknown kind %q", ff.ID, ff.Kind)
		}

		if _, err := kr.Folders.GetByID(ctx, ff.ID); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check folder %s: %w", ff.ID, err)
		}

		visibility := models.Visibility(ff.Visibility)
		if visibility == "" {
			visibility = models.VisibilityPrivate
		}
		accessType := models.AccessType(ff.AccessType)
		if accessType == "" {
			accessType = models.AccessReadonly
		}
		sharedWith := ff.SharedWith
		if sharedWith == nil {
			sharedWith = []string{}
		}

		folder := &models.Folder{
			ID:          ff.ID,
			OwnerID:     ff.Owner,
			ParentID:    ff.ParentID,
			Name:        ff.Name,
			Description: ff.Description,
			Visibility:  visibility,
			SharedWith:  sharedWith,
			AccessType:  accessType,
			OrgID:       ff.OrgID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := kr.Folders.Create(ctx, folder); err != nil {
			return fmt.Errorf("seed folder %s: %w", ff.ID, err)
		}
		created++
	}

	for _, rf := range fixture.Resources {
		kr, ok := repos[rf.Kind]
		if !ok {
			return fmt.Errorf("fixture resource %s references unknown kind %q", rf.ID, rf.Kind)
		}

		if _, err := kr.Resources.GetByID(ctx, rf.ID); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check resource %s: %w", rf.ID, err)
		}

		visibility := models.Visibility(rf.Visibility)
		if visibility == "" {
			visibility = models.VisibilityPrivate
		}

		resource := &models.Resource{
			ID:         rf.ID,
			OwnerID:    rf.Owner,
			FolderID:   rf.FolderID,
			Title:      rf.Title,
			Visibility: visibility,
			OrgID:      rf.OrgID,
			Payload:    rf.Payload,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := kr.Resources.Create(ctx, resource); err != nil {
			return fmt.Errorf("seed resource %s: %w", rf.ID, err)
		}
		created++
	}

	logger.Info("fixture applied", "created", created, "skipped", skipped)
	return nil
}
