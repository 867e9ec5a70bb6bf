package migration

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"text/tabwriter"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/shared/logger"
)

//go:embed scripts/*.sql
var embeddedScripts embed.FS

const embeddedDir = "scripts"

// Strategy applies the schema to a database.
type Strategy interface {
	Migrate(db *gorm.DB) error
	GetName() string
}

// GooseStrategy runs the versioned SQL scripts compiled into the binary.
// scriptsPath is where Create writes new files; it is not read at runtime.
type GooseStrategy struct {
	scriptsPath string
	timeout     time.Duration
	logger      logger.Interface
}

func NewGooseStrategy(scriptsPath string, log logger.Interface) *GooseStrategy {
	return &GooseStrategy{
		scriptsPath: scriptsPath,
		timeout:     5 * time.Minute,
		logger:      log.With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

// provider must not be closed: it would close the shared pool.
func (s *GooseStrategy) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	scripts, err := fs.Sub(embeddedScripts, embeddedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded scripts: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectMySQL, sqlDB, scripts)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

func (s *GooseStrategy) Migrate(db *gorm.DB) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	results, err := p.Up(ctx)
	for _, r := range results {
		s.logger.Infow("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(results) == 0 {
		s.logger.Infow("schema already up to date")
	}
	return nil
}

// MigrateDown rolls back up to steps migrations and stops early at version 0.
func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	for i := range steps {
		version, err := p.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		if version == 0 {
			s.logger.Infow("nothing left to roll back", "rolled_back", i)
			return nil
		}
		r, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("failed to roll back version %d: %w", version, err)
		}
		s.logger.Infow("migration rolled back", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

func (s *GooseStrategy) GetVersion(db *gorm.DB) (int64, error) {
	p, err := s.provider(db)
	if err != nil {
		return 0, err
	}
	version, err := p.GetDBVersion(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Status writes one line per known migration to w.
func (s *GooseStrategy) Status(db *gorm.DB, w io.Writer) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}
	statuses, err := p.Status(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, st := range statuses {
		applied := "-"
		if !st.AppliedAt.IsZero() {
			applied = st.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", st.Source.Version, st.State, applied, st.Source.Path)
	}
	return tw.Flush()
}

// Create writes a new, empty SQL migration into scriptsPath.
func (s *GooseStrategy) Create(name string) error {
	if err := goose.SetDialect(string(goose.DialectMySQL)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Create(nil, s.scriptsPath, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	s.logger.Infow("migration created", "name", name, "dir", s.scriptsPath)
	return nil
}
