package requests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/procurement-backend/internal/classification"
	"github.com/angelmondragon/procurement-backend/pkg/db"
	"github.com/angelmondragon/procurement-backend/pkg/db/models"
	"github.com/angelmondragon/procurement-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/procurement-backend/pkg/errors"
)

type stubClassifier struct {
	result classification.Result
	calls  int
	title  string
	lines  []string
}

func (s *stubClassifier) Classify(_ context.Context, title string, lines []string) classification.Result {
	s.calls++
	s.title = title
	s.lines = lines
	return s.result
}

func strPtr(s string) *string { return &s }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(models.AllModels()...))
	return conn
}

type testClock struct {
	current time.Time
}

func (c *testClock) now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newTestService(t *testing.T, classifier classification.Classifier) (*service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromGorm(conn), classifier)
	require.NoError(t, err)
	impl := svc.(*service)
	clock := &testClock{current: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	impl.now = clock.now
	return impl, conn
}

func softwarePurchase() CreateInput {
	return CreateInput{
		RequestorName: "John Doe",
		Title:         "Software Purchase",
		VendorName:    "Global Tech Solutions",
		VATID:         "DE987654321",
		TotalCost:     dec("159.90"),
		Department:    "IT",
		OrderLines: []OrderLineInput{{
			PositionDescription: "Office 365",
			UnitPrice:           dec("15.99"),
			Amount:              dec("10"),
			Unit:                "licenses",
			TotalPrice:          dec("159.90"),
		}},
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	client := db.NewFromGorm(conn)
	classifier := &stubClassifier{}

	_, err := NewService(nil, client, classifier)
	assert.Error(t, err)
	_, err = NewService(repo, nil, classifier)
	assert.Error(t, err)
	_, err = NewService(repo, client, nil)
	assert.Error(t, err)
}

func TestCreateSoftwarePurchaseEndToEnd(t *testing.T) {
	classifier := &stubClassifier{result: classification.Result{
		CommodityGroupID: strPtr("031"),
		CommodityGroup:   strPtr("Software"),
		Confidence:       enums.ConfidenceHigh,
	}}
	svc, _ := newTestService(t, classifier)

	req, err := svc.Create(context.Background(), softwarePurchase())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.Equal(t, enums.RequestStatusOpen, req.Status)
	require.NotNil(t, req.CommodityGroupID)
	assert.Equal(t, "031", *req.CommodityGroupID)
	require.NotNil(t, req.CommodityGroup)
	assert.Equal(t, "Software", *req.CommodityGroup)
	assert.True(t, req.TotalCost.Equal(decimal.RequireFromString("159.90")))

	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, "Software Purchase", classifier.title)
	assert.Equal(t, []string{"Office 365"}, classifier.lines)

	require.Len(t, req.OrderLines, 1)
	line := req.OrderLines[0]
	assert.Equal(t, "Office 365", line.PositionDescription)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("15.99")))
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "licenses", line.Unit)
	assert.Equal(t, req.ID, line.RequestID)

	require.Len(t, req.StatusHistory, 1)
	first := req.StatusHistory[0]
	assert.Nil(t, first.OldStatus)
	assert.Equal(t, enums.RequestStatusOpen, first.NewStatus)
	require.NotNil(t, first.Notes)
	assert.Equal(t, CreationNote, *first.Notes)
}

func TestCreateStoresDegradedClassification(t *testing.T) {
	classifier := &stubClassifier{result: classification.Degraded()}
	svc, _ := newTestService(t, classifier)

	req, err := svc.Create(context.Background(), softwarePurchase())
	require.NoError(t, err)
	assert.Equal(t, 1, classifier.calls)
	assert.Nil(t, req.CommodityGroupID)
	assert.Nil(t, req.CommodityGroup)
}

func TestCreateWithSuppliedGroupSkipsClassifier(t *testing.T) {
	classifier := &stubClassifier{}
	svc, _ := newTestService(t, classifier)

	input := softwarePurchase()
	input.CommodityGroupID = strPtr("029")

	req, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 0, classifier.calls)
	require.NotNil(t, req.CommodityGroupID)
	assert.Equal(t, "029", *req.CommodityGroupID)
	require.NotNil(t, req.CommodityGroup)
	assert.Equal(t, "Hardware", *req.CommodityGroup)
}

func TestCreateBlankGroupIDStillClassifies(t *testing.T) {
	classifier := &stubClassifier{result: classification.Degraded()}
	svc, _ := newTestService(t, classifier)

	input := softwarePurchase()
	input.CommodityGroupID = strPtr("  ")
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, classifier.calls)
}

func TestCreateRejectsNegativeTotal(t *testing.T) {
	svc, conn := newTestService(t, &stubClassifier{})

	input := softwarePurchase()
	input.TotalCost = dec("-1")
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnprocessable))

	var count int64
	require.NoError(t, conn.Model(&models.ProcurementRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsNegativeLineAmounts(t *testing.T) {
	svc, conn := newTestService(t, &stubClassifier{})

	input := softwarePurchase()
	input.OrderLines[0].UnitPrice = dec("-15.99")
	input.OrderLines[0].TotalPrice = dec("-159.90")
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnprocessable))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"order_lines[0].unit_price":  "must be non-negative",
		"order_lines[0].total_price": "must be non-negative",
	}, details)

	var count int64
	require.NoError(t, conn.Model(&models.OrderLine{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateKeepsTotalCostIndependentOfLines(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})

	input := softwarePurchase()
	input.TotalCost = dec("190.28")
	req, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, req.TotalCost.Equal(decimal.RequireFromString("190.28")))
}

func TestGetUnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})

	req, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})
	ctx := context.Background()

	var ids []uuid.UUID
	for _, title := range []string{"first", "second", "third"} {
		input := softwarePurchase()
		input.Title = title
		req, err := svc.Create(ctx, input)
		require.NoError(t, err)
		ids = append(ids, req.ID)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)
	assert.Equal(t, ids[0], list[2].ID)
	for _, req := range list {
		assert.Len(t, req.OrderLines, 1)
		assert.Len(t, req.StatusHistory, 1)
	}
}

func TestUpdateStatusAppendsOneHistoryRow(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, softwarePurchase())
	require.NoError(t, err)

	steps := []enums.RequestStatus{
		enums.RequestStatusInProgress,
		enums.RequestStatusClosed,
		enums.RequestStatusOpen,
		enums.RequestStatusOpen,
	}
	prevLen := len(created.StatusHistory)
	prevUpdated := created.UpdatedAt
	prevStatus := created.Status
	for _, step := range steps {
		updated, err := svc.UpdateStatus(ctx, created.ID, step.String(), strPtr("moving on"))
		require.NoError(t, err)

		require.Len(t, updated.StatusHistory, prevLen+1)
		latest := updated.StatusHistory[len(updated.StatusHistory)-1]
		assert.Equal(t, updated.Status, latest.NewStatus)
		assert.Equal(t, step, updated.Status)
		require.NotNil(t, latest.OldStatus)
		assert.Equal(t, prevStatus, *latest.OldStatus)
		assert.True(t, updated.UpdatedAt.After(prevUpdated))

		prevLen = len(updated.StatusHistory)
		prevUpdated = updated.UpdatedAt
		prevStatus = updated.Status
	}
}

func TestUpdateStatusInvalidLeavesRecordUntouched(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, softwarePurchase())
	require.NoError(t, err)

	for _, bad := range []string{"Done", "open", "", "In progress"} {
		_, err := svc.UpdateStatus(ctx, created.ID, bad, nil)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "status %q", bad)
	}

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusOpen, after.Status)
	assert.Len(t, after.StatusHistory, 1)
	assert.True(t, after.UpdatedAt.Equal(created.UpdatedAt))
}

func TestUpdateStatusUnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "Closed", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), "bogus", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestStatisticsInvariants(t *testing.T) {
	classifier := &stubClassifier{}
	svc, _ := newTestService(t, classifier)
	ctx := context.Background()

	create := func(group *string, total string) uuid.UUID {
		classifier.result = classification.Result{CommodityGroupID: nil, CommodityGroup: group, Confidence: enums.ConfidenceLow}
		if group != nil {
			classifier.result.CommodityGroupID = strPtr("x")
		}
		input := softwarePurchase()
		input.TotalCost = dec(total)
		req, err := svc.Create(ctx, input)
		require.NoError(t, err)
		return req.ID
	}

	a := create(strPtr("Software"), "100.00")
	create(strPtr("Software"), "50.50")
	create(strPtr("Hardware"), "1000")
	create(nil, "10")

	_, err := svc.UpdateStatus(ctx, a, enums.RequestStatusClosed.String(), nil)
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 4, stats.TotalRequests)

	var statusSum int64
	for _, c := range stats.StatusDistribution {
		statusSum += c
	}
	assert.Equal(t, stats.TotalRequests, statusSum)
	assert.EqualValues(t, 3, stats.StatusDistribution[enums.RequestStatusOpen])
	assert.EqualValues(t, 1, stats.StatusDistribution[enums.RequestStatusClosed])

	var groupSum int64
	byName := map[string]CommodityStat{}
	for _, c := range stats.CommodityBreakdown {
		groupSum += c.Count
		byName[c.CommodityGroup] = c
	}
	assert.Equal(t, stats.TotalRequests, groupSum)
	assert.EqualValues(t, 2, byName["Software"].Count)
	assert.True(t, byName["Software"].TotalValue.Equal(decimal.RequireFromString("150.5")))
	assert.EqualValues(t, 1, byName[UnclassifiedGroup].Count)

	assert.True(t, stats.TotalCost.Equal(decimal.RequireFromString("1160.5")), stats.TotalCost.String())
	assert.True(t, stats.AverageCost.Equal(decimal.RequireFromString("290.13")), stats.AverageCost.String())
}

func TestStatisticsEmptyStore(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRequests)
	assert.True(t, stats.TotalCost.IsZero())
	assert.True(t, stats.AverageCost.IsZero())
	assert.Empty(t, stats.CommodityBreakdown)

	dto := NewStatisticsDTO(*stats)
	assert.Len(t, dto.StatusDistribution, 3)
	assert.Zero(t, dto.PriceStats.AverageCost)
}

func TestRepositoryDeleteRemovesOwnedRows(t *testing.T) {
	svc, conn := newTestService(t, &stubClassifier{})
	ctx := context.Background()

	keep, err := svc.Create(ctx, softwarePurchase())
	require.NoError(t, err)
	drop, err := svc.Create(ctx, softwarePurchase())
	require.NoError(t, err)

	repo := NewRepository(conn)
	require.NoError(t, repo.Delete(ctx, drop.ID))

	_, err = repo.FindByID(ctx, drop.ID)
	assert.True(t, db.IsNotFound(err))

	var lines, history int64
	require.NoError(t, conn.Model(&models.OrderLine{}).Where("request_id = ?", drop.ID).Count(&lines).Error)
	require.NoError(t, conn.Model(&models.StatusHistory{}).Where("request_id = ?", drop.ID).Count(&history).Error)
	assert.Zero(t, lines)
	assert.Zero(t, history)

	kept, err := repo.FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept.OrderLines, 1)

	removed, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}
