package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// CodeMinter allocates a clinic's default referral code. Uniqueness is left
// to the database: every candidate is inserted and a unique violation moves
// on to the next candidate.
type CodeMinter struct {
	codes     clinic.ReferralCodeRepository
	generator *clinic.CodeGenerator
	settings  Settings
	logger    logger.Interface
}

func NewCodeMinter(
	codes clinic.ReferralCodeRepository,
	generator *clinic.CodeGenerator,
	settings Settings,
	logger logger.Interface,
) *CodeMinter {
	return &CodeMinter{
		codes:     codes,
		generator: generator,
		settings:  settings,
		logger:    logger,
	}
}

// CreateDefaultForClinic tries the slug-derived code first, then random ones.
func (m *CodeMinter) CreateDefaultForClinic(ctx context.Context, c *clinic.Clinic) (*clinic.ReferralCode, error) {
	attempts := m.settings.maxAttempts()
	for attempt := 0; attempt < attempts; attempt++ {
		candidate, err := m.generator.Candidate(c.Slug(), attempt)
		if err != nil {
			return nil, fmt.Errorf("failed to generate referral code: %w", err)
		}

		code, err := clinic.NewReferralCode(c.ID(), candidate)
		if err != nil {
			m.logger.Warnw("discarding malformed referral code candidate", "candidate", candidate, "clinic_id", c.ID())
			continue
		}

		if err := m.codes.Create(ctx, code); err != nil {
			if errors.IsDuplicateError(err) {
				m.logger.Debugw("referral code taken, retrying", "candidate", candidate, "attempt", attempt)
				continue
			}
			m.logger.Errorw("failed to create referral code", "error", err, "clinic_id", c.ID())
			return nil, fmt.Errorf("failed to create referral code: %w", err)
		}

		metrics.RecordReferralCodeIssued()
		m.logger.Infow("referral code created", "clinic_id", c.ID(), "code", code.Code())
		return code, nil
	}

	m.logger.Errorw("referral code attempts exhausted", "clinic_id", c.ID(), "attempts", attempts)
	return nil, clinic.ErrReferralCodeExhausted
}
