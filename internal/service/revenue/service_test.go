package revenue

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/repository"
	"github.com/courtside/payments-engine/internal/testutil"
)

func TestOrganizerSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewPaymentRepository(db)
	svc := NewService(repo)

	organizer := uuid.New()

	// Registrations: 50000 + 30000 success, 9000 pending (excluded).
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(50000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithPayerType(domain.PayerTypePlayer),
		testutil.WithPayerRef(uuid.New()),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(30000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusPending),
		testutil.WithAmount(9000),
	)
	// Platform fee paid by the organizer.
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithPayerType(domain.PayerTypeOrganizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(2000),
	)
	// Another organizer's business is invisible here.
	testutil.SeedPaymentRecord(t, db,
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(77777),
	)

	summary, err := svc.OrganizerSummary(ctx, organizer, domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, int64(80000), summary.RegistrationRevenue)
	assert.Equal(t, int64(2000), summary.PlatformFees)
	assert.Equal(t, int64(78000), summary.NetRevenue)
	assert.Equal(t, 4, summary.TransactionCount)
}

func TestOrganizerSummaryMatchesDirectResummation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewPaymentRepository(db)
	svc := NewService(repo)

	organizer := uuid.New()
	amounts := []int64{12000, 34000, 5600}
	for _, amount := range amounts {
		testutil.SeedPaymentRecord(t, db,
			testutil.WithOrganizerRef(organizer),
			testutil.WithStatus(domain.PaymentStatusSuccess),
			testutil.WithAmount(amount),
		)
	}
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusFailed),
		testutil.WithAmount(99999),
	)

	summary, err := svc.OrganizerSummary(ctx, organizer, domain.Filter{})
	require.NoError(t, err)

	// The component sums must equal a direct re-summation over the queried
	// success records.
	records, _, err := repo.Query(ctx, domain.Filter{
		OrganizerRef: &organizer,
		Status:       domain.PaymentStatusSuccess,
	}, domain.Page{})
	require.NoError(t, err)

	var direct int64
	for _, rec := range records {
		if rec.PayerType.IsRegistration() {
			direct += rec.Amount
		}
	}
	assert.Equal(t, direct, summary.RegistrationRevenue)
	assert.Equal(t, summary.RegistrationRevenue-summary.PlatformFees, summary.NetRevenue)

	// Pure function of the record set: a second run returns the same figures.
	again, err := svc.OrganizerSummary(ctx, organizer, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, summary, again)
}

func TestAdminSummaryExcludesFailedFees(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(repository.NewPaymentRepository(db))

	testutil.SeedPaymentRecord(t, db,
		testutil.WithPayerType(domain.PayerTypeOrganizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(3000),
	)
	// Failed fee must not count toward platform revenue.
	testutil.SeedPaymentRecord(t, db,
		testutil.WithPayerType(domain.PayerTypeOrganizer),
		testutil.WithStatus(domain.PaymentStatusFailed),
		testutil.WithAmount(2000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(40000),
	)

	summary, err := svc.AdminSummary(ctx, domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), summary.PlatformFeeRevenue)
	assert.Equal(t, int64(40000), summary.RegistrationVolume)
	assert.Equal(t, 3, summary.TransactionCount)
}

func TestPayerSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(repository.NewPaymentRepository(db))

	payer := uuid.New()
	testutil.SeedPaymentRecord(t, db,
		testutil.WithPayerRef(payer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(15000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithPayerRef(payer),
		testutil.WithStatus(domain.PaymentStatusPending),
		testutil.WithAmount(5000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithPayerRef(payer),
		testutil.WithStatus(domain.PaymentStatusFailed),
		testutil.WithAmount(8000),
	)

	summary, err := svc.PayerSummary(ctx, payer, domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, int64(15000), summary.TotalPaid)
	assert.Equal(t, int64(5000), summary.PendingAmount)
	assert.Equal(t, 3, summary.TransactionCount)
}

func TestWidenedFilterNeverShrinksSums(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(repository.NewPaymentRepository(db))

	organizer := uuid.New()
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(20000),
		testutil.WithTournamentName("Autumn Clash"),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(30000),
		testutil.WithTournamentName("Spring Rally"),
	)

	narrow, err := svc.OrganizerSummary(ctx, organizer, domain.Filter{Search: "Autumn"})
	require.NoError(t, err)

	wide, err := svc.OrganizerSummary(ctx, organizer, domain.Filter{})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, wide.RegistrationRevenue, narrow.RegistrationRevenue)
	assert.GreaterOrEqual(t, wide.TransactionCount, narrow.TransactionCount)
}
