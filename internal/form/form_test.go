package form

import (
	"context"
	"testing"
	"time"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/common/logger"
	"credit-console/internal/dataclient"
	"credit-console/internal/models"
	"credit-console/internal/scheduler"
	"credit-console/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = &models.OptionSet{
	BusinessFields: []string{"Perdagangan", "Pertanian"},
	Scales:         []string{"Mikro", "Kecil", "Menengah"},
	UsageTypes:     []string{"Modal Kerja", "Investasi"},
}

type fixture struct {
	loop   *scheduler.Loop
	mem    *surface.Memory
	client *dataclient.Fake
	form   *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loop := scheduler.NewVirtual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	mem := surface.NewMemory()
	client := &dataclient.Fake{Result: &models.EvaluationResult{Score: 72, Category: "Disetujui"}}
	return &fixture{
		loop:   loop,
		mem:    mem,
		client: client,
		form:   New(mem, client, loop, logger.NewTestLogger(t)),
	}
}

func (f *fixture) fill(t *testing.T) {
	t.Helper()
	require.NoError(t, f.form.Select(models.FieldBusinessField, "Perdagangan"))
	require.NoError(t, f.form.Select(models.FieldScale, "Kecil"))
	require.NoError(t, f.form.Select(models.FieldUsageType, "Modal Kerja"))
}

func TestSelect_BeforeOptionsIsRejected(t *testing.T) {
	f := newFixture(t)

	err := f.form.Select(models.FieldScale, "Mikro")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotInteractive, apperrors.CodeOf(err))
	assert.Equal(t, Unfilled, f.form.State())
	assert.False(t, f.mem.Snapshot().FormInteractive)
}

func TestLoadOptions_PopulatesListsAndEnablesForm(t *testing.T) {
	f := newFixture(t)
	f.form.LoadOptions(testOptions)

	doc := f.mem.Snapshot()
	assert.True(t, doc.FormInteractive)
	assert.Equal(t, testOptions.Scales, doc.Options[models.FieldScale])
	assert.Equal(t, testOptions.UsageTypes, doc.Options[models.FieldUsageType])
	assert.True(t, f.form.Interactive())
}

func TestSelect_StateTransitions(t *testing.T) {
	f := newFixture(t)
	f.form.LoadOptions(testOptions)

	assert.Equal(t, Unfilled, f.form.State())
	require.NoError(t, f.form.Select(models.FieldScale, "Mikro"))
	assert.Equal(t, PartiallyFilled, f.form.State())

	f.fill(t)
	assert.Equal(t, Filled, f.form.State())

	f.form.Clear(models.FieldUsageType)
	assert.Equal(t, PartiallyFilled, f.form.State())

	f.form.Reset()
	assert.Equal(t, Unfilled, f.form.State())
	assert.Empty(t, f.mem.Snapshot().Selections)
}

func TestSelect_RejectsUnknownOption(t *testing.T) {
	f := newFixture(t)
	f.form.LoadOptions(testOptions)

	err := f.form.Select(models.FieldScale, "Raksasa")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeOptionNotAllowed, apperrors.CodeOf(err))
	assert.Equal(t, Unfilled, f.form.State())
}

func TestValidate_ListsMissingFieldsInOrder(t *testing.T) {
	f := newFixture(t)
	f.form.LoadOptions(testOptions)
	require.NoError(t, f.form.Select(models.FieldScale, "Mikro"))

	err := f.form.Validate()
	require.Error(t, err)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"business_field", "usage_type"}, vErr.Missing)
	assert.Equal(t, "Silakan lengkapi semua field", apperrors.UserMessage(err))
}

func TestSubmit_InvalidNeverCallsNetwork(t *testing.T) {
	f := newFixture(t)
	f.form.LoadOptions(testOptions)

	err := f.form.Submit(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	f.loop.Settle()
	assert.Equal(t, 0, f.client.Calls("Evaluate"))
	assert.False(t, f.form.Busy())
}

func TestSubmit_SuccessReleasesBusyBeforeCallback(t *testing.T) {
	f := newFixture(t)
	f.form.LoadOptions(testOptions)
	f.fill(t)

	var (
		gotReq    models.EvaluationRequest
		gotResult *models.EvaluationResult
		busyAtCb  bool
	)
	err := f.form.Submit(context.Background(), func(req models.EvaluationRequest, res *models.EvaluationResult, err error) {
		require.NoError(t, err)
		gotReq = req
		gotResult = res
		busyAtCb = f.form.Busy() || f.mem.Snapshot().SubmitBusy
	})
	require.NoError(t, err)
	assert.True(t, f.form.Busy())
	assert.True(t, f.mem.Snapshot().SubmitBusy)

	f.loop.Settle()
	require.NotNil(t, gotResult)
	assert.Equal(t, 72.0, gotResult.Score)
	assert.Equal(t, models.EvaluationRequest{BusinessField: "Perdagangan", Scale: "Kecil", UsageType: "Modal Kerja"}, gotReq)
	assert.False(t, busyAtCb)
	assert.False(t, f.form.Busy())
}

func TestSubmit_SingleFlight(t *testing.T) {
	f := newFixture(t)
	f.client.Gate = make(chan struct{})
	f.form.LoadOptions(testOptions)
	f.fill(t)

	done := 0
	onDone := func(models.EvaluationRequest, *models.EvaluationResult, error) { done++ }

	require.NoError(t, f.form.Submit(context.Background(), onDone))
	for i := 0; i < 3; i++ {
		err := f.form.Submit(context.Background(), onDone)
		require.Error(t, err)
		assert.True(t, apperrors.IsSubmissionBusy(err))
	}

	close(f.client.Gate)
	f.loop.Settle()

	assert.Equal(t, 1, f.client.Calls("Evaluate"))
	assert.Equal(t, 1, done)
	assert.False(t, f.form.Busy())

	require.NoError(t, f.form.Submit(context.Background(), onDone))
	f.loop.Settle()
	assert.Equal(t, 2, f.client.Calls("Evaluate"))
}

func TestSubmit_FailureReleasesBusy(t *testing.T) {
	f := newFixture(t)
	f.client.EvaluateErr = apperrors.NewServiceError("calculate", 500, "Data tidak lengkap")
	f.form.LoadOptions(testOptions)
	f.fill(t)

	var got error
	require.NoError(t, f.form.Submit(context.Background(), func(_ models.EvaluationRequest, _ *models.EvaluationResult, err error) {
		got = err
	}))
	f.loop.Settle()

	require.Error(t, got)
	assert.True(t, apperrors.IsServiceError(got))
	assert.Equal(t, "Data tidak lengkap", apperrors.UserMessage(got))
	assert.False(t, f.form.Busy())
	assert.False(t, f.mem.Snapshot().SubmitBusy)
}

type panickingClient struct{ dataclient.Fake }

func (p *panickingClient) Evaluate(context.Context, models.EvaluationRequest) (*models.EvaluationResult, error) {
	panic("boom")
}

func TestSubmit_PanicInClientStillReleasesBusy(t *testing.T) {
	f := newFixture(t)
	f.form = New(f.mem, &panickingClient{}, f.loop, nil)
	f.form.LoadOptions(testOptions)
	f.fill(t)

	var got error
	require.NoError(t, f.form.Submit(context.Background(), func(_ models.EvaluationRequest, _ *models.EvaluationResult, err error) {
		got = err
	}))
	f.loop.Settle()

	assert.True(t, apperrors.IsNetworkError(got))
	assert.False(t, f.form.Busy())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "partially_filled", PartiallyFilled.String())
	assert.Equal(t, "State(9)", State(9).String())
}
