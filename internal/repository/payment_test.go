package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/testutil"
)

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payerRef := uuid.New()
	payerName := "Thunderbolts"
	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := &domain.PaymentRecord{
		ID:              uuid.New(),
		TournamentRef:   uuid.New(),
		OrganizerRef:    uuid.New(),
		TournamentName:  "City Open",
		PayerType:       domain.PayerTypeTeam,
		PayerRef:        &payerRef,
		PayerName:       &payerName,
		Amount:          50000,
		Currency:        domain.CurrencyINR,
		Status:          domain.PaymentStatusPending,
		ProviderOrderID: "order_abc",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, int64(50000), got.Amount)
	assert.Equal(t, domain.PaymentStatusPending, got.Status)
	assert.Equal(t, "order_abc", got.ProviderOrderID)
	assert.Nil(t, got.ProviderPaymentID)
	assert.Equal(t, payerRef, *got.PayerRef)
}

func TestPaymentRepository_CreateRejectsBadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	payerRef := uuid.New()
	base := domain.PaymentRecord{
		ID:              uuid.New(),
		TournamentRef:   uuid.New(),
		OrganizerRef:    uuid.New(),
		PayerType:       domain.PayerTypeTeam,
		PayerRef:        &payerRef,
		Amount:          1000,
		Currency:        domain.CurrencyINR,
		Status:          domain.PaymentStatusPending,
		ProviderOrderID: "order_valid",
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	zeroAmount := base
	zeroAmount.ID = uuid.New()
	zeroAmount.Amount = 0
	err := repo.Create(ctx, &zeroAmount)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	noTournament := base
	noTournament.ID = uuid.New()
	noTournament.TournamentRef = uuid.Nil
	err = repo.Create(ctx, &noTournament)
	assert.ErrorIs(t, err, domain.ErrValidation)

	badPayerType := base
	badPayerType.ID = uuid.New()
	badPayerType.PayerType = "sponsor"
	err = repo.Create(ctx, &badPayerType)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPaymentRepository_CreateRejectsDuplicateOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	first := testutil.SeedPaymentRecord(t, db)

	payerRef := uuid.New()
	dup := &domain.PaymentRecord{
		ID:              uuid.New(),
		TournamentRef:   uuid.New(),
		OrganizerRef:    uuid.New(),
		PayerType:       domain.PayerTypeTeam,
		PayerRef:        &payerRef,
		Amount:          1000,
		Currency:        domain.CurrencyINR,
		Status:          domain.PaymentStatusPending,
		ProviderOrderID: first.ProviderOrderID,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPaymentRepository_UpdateStatusCAS(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	rec := testutil.SeedPaymentRecord(t, db)
	paymentID := "pay_123"
	sig := "sig_456"

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, tx, rec.ID, domain.PaymentStatusPending, domain.PaymentStatusSuccess, &paymentID, &sig, nil))
	require.NoError(t, tx.Commit())

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, got.Status)
	require.NotNil(t, got.ProviderPaymentID)
	assert.Equal(t, "pay_123", *got.ProviderPaymentID)

	// Amount and currency survive transitions untouched.
	assert.Equal(t, rec.Amount, got.Amount)
	assert.Equal(t, rec.Currency, got.Currency)

	// A second delivery expecting pending loses the CAS.
	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = repo.UpdateStatus(ctx, tx, rec.ID, domain.PaymentStatusPending, domain.PaymentStatusFailed, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	tx.Rollback()
}

func TestPaymentRepository_UpdateStatusRejectsIllegalTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	rec := testutil.SeedPaymentRecord(t, db, testutil.WithStatus(domain.PaymentStatusFailed))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.UpdateStatus(ctx, tx, rec.ID, domain.PaymentStatusFailed, domain.PaymentStatusSuccess, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPaymentRepository_UpdateStatusMissingRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.UpdateStatus(ctx, tx, uuid.New(), domain.PaymentStatusPending, domain.PaymentStatusSuccess, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentRepository_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	organizer := uuid.New()
	team := uuid.New()

	older := time.Now().UTC().Add(-48 * time.Hour)
	newer := time.Now().UTC()

	a := testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithPayerRef(team),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithTournamentName("Summer Smash"),
		testutil.WithCreatedAt(older),
	)
	b := testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithPayerType(domain.PayerTypeOrganizer),
		testutil.WithStatus(domain.PaymentStatusPending),
		testutil.WithTournamentName("Winter Cup"),
		testutil.WithCreatedAt(newer),
	)
	testutil.SeedPaymentRecord(t, db, testutil.WithStatus(domain.PaymentStatusFailed))

	t.Run("by organizer newest first", func(t *testing.T) {
		records, total, err := repo.Query(ctx, domain.Filter{OrganizerRef: &organizer}, domain.Page{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, records, 2)
		assert.Equal(t, b.ID, records[0].ID)
		assert.Equal(t, a.ID, records[1].ID)
	})

	t.Run("by status and payer type", func(t *testing.T) {
		records, total, err := repo.Query(ctx, domain.Filter{
			Status:    domain.PaymentStatusSuccess,
			PayerType: domain.PayerTypeTeam,
		}, domain.Page{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, records, 1)
		assert.Equal(t, a.ID, records[0].ID)
	})

	t.Run("free text match", func(t *testing.T) {
		records, _, err := repo.Query(ctx, domain.Filter{Search: "summer"}, domain.Page{})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, a.ID, records[0].ID)
	})

	t.Run("inclusive date range", func(t *testing.T) {
		from := older.Add(-time.Hour)
		to := older.Add(time.Hour)
		records, _, err := repo.Query(ctx, domain.Filter{From: &from, To: &to}, domain.Page{})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, a.ID, records[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		records, total, err := repo.Query(ctx, domain.Filter{OrganizerRef: &organizer}, domain.Page{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, records, 1)
		assert.Equal(t, a.ID, records[0].ID)
	})
}

func TestPaymentRepository_Aggregate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	organizer := uuid.New()
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(30000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(20000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithPayerType(domain.PayerTypeOrganizer),
		testutil.WithStatus(domain.PaymentStatusSuccess),
		testutil.WithAmount(5000),
	)
	testutil.SeedPaymentRecord(t, db,
		testutil.WithOrganizerRef(organizer),
		testutil.WithStatus(domain.PaymentStatusPending),
		testutil.WithAmount(7000),
	)

	rows, err := repo.AggregateByStatusAndPayerType(ctx, domain.Filter{OrganizerRef: &organizer})
	require.NoError(t, err)

	byKey := map[string]AggregateRow{}
	for _, row := range rows {
		byKey[string(row.Status)+"/"+string(row.PayerType)] = row
	}

	assert.Equal(t, int64(50000), byKey["success/team"].Total)
	assert.Equal(t, 2, byKey["success/team"].Count)
	assert.Equal(t, int64(5000), byKey["success/organizer"].Total)
	assert.Equal(t, int64(7000), byKey["pending/team"].Total)
}
