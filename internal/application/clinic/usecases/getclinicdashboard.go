package usecases

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fammo-app/fammo/internal/application/clinic/dto"
	refdto "github.com/fammo-app/fammo/internal/application/referral/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const recentReferralsLimit = 10

type GetClinicDashboardQuery struct {
	OwnerUserID uint
}

type GetClinicDashboardUseCase struct {
	clinics   clinic.ClinicRepository
	codes     clinic.ReferralCodeRepository
	referrals clinic.ReferredUserRepository
	siteURL   string
	now       func() time.Time
	logger    logger.Interface
}

func NewGetClinicDashboardUseCase(
	clinics clinic.ClinicRepository,
	codes clinic.ReferralCodeRepository,
	referrals clinic.ReferredUserRepository,
	siteURL string,
	logger logger.Interface,
) *GetClinicDashboardUseCase {
	return &GetClinicDashboardUseCase{
		clinics:   clinics,
		codes:     codes,
		referrals: referrals,
		siteURL:   siteURL,
		now:       biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *GetClinicDashboardUseCase) Execute(ctx context.Context, query GetClinicDashboardQuery) (*dto.DashboardDTO, error) {
	c, err := uc.clinics.GetByOwner(ctx, query.OwnerUserID)
	if err != nil {
		uc.logger.Errorw("failed to load clinic by owner", "error", err, "user_id", query.OwnerUserID)
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("no clinic registered for this account")
	}

	stats, err := uc.referrals.Stats(ctx, c.ID(), uc.now())
	if err != nil {
		uc.logger.Errorw("failed to load referral stats", "error", err, "clinic_id", c.ID())
		return nil, fmt.Errorf("failed to load referral stats: %w", err)
	}

	recent, err := uc.referrals.ListByClinic(ctx, c.ID(), recentReferralsLimit)
	if err != nil {
		uc.logger.Errorw("failed to list recent referrals", "error", err, "clinic_id", c.ID())
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}

	dashboard := &dto.DashboardDTO{
		Clinic:             dto.ToClinicDetailDTO(c),
		VerificationStatus: dto.VerificationStatus(c),
		IsPublic:           c.IsVerified(),
		Stats: dto.ReferralSummaryDTO{
			Total:          stats.Total,
			New:            stats.New,
			Active:         stats.Active,
			Inactive:       stats.Inactive,
			Last30Days:     stats.Last30Days,
			Last7Days:      stats.Last7Days,
			ConversionRate: ConversionRate(stats.Active, stats.Total),
		},
		CodeStats:       []*dto.CodeStatDTO{},
		RecentReferrals: make([]*dto.RecentReferralDTO, 0, len(recent)),
	}
	for _, r := range recent {
		dashboard.RecentReferrals = append(dashboard.RecentReferrals, &dto.RecentReferralDTO{
			ID:        r.ID(),
			Email:     r.EmailCapture(),
			Status:    r.Status().String(),
			CreatedAt: r.CreatedAt(),
		})
	}

	if dashboard.IsPublic {
		codes, err := uc.codes.ListByClinic(ctx, c.ID())
		if err != nil {
			uc.logger.Errorw("failed to list referral codes", "error", err, "clinic_id", c.ID())
			return nil, fmt.Errorf("failed to list referral codes: %w", err)
		}
		for _, code := range codes {
			dashboard.CodeStats = append(dashboard.CodeStats, &dto.CodeStatDTO{
				ID:        code.ID(),
				Code:      code.Code(),
				Referrals: stats.CountsByCode[code.ID()],
				IsActive:  code.IsActive(),
				SignupURL: refdto.SignupURL(uc.siteURL, code.Code()),
			})
		}
		sort.SliceStable(dashboard.CodeStats, func(i, j int) bool {
			return dashboard.CodeStats[i].Referrals > dashboard.CodeStats[j].Referrals
		})
	}

	return dashboard, nil
}

// ConversionRate is the share of ACTIVE referrals in percent, rounded to
// one decimal; zero when there are no referrals.
func ConversionRate(active, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(active)/float64(total)*1000) / 10
}
