package run_retention_sweep

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	sweepRetention "github.com/m04kA/SMC-DayBooking/internal/usecase/sweep_retention"
	"github.com/m04kA/SMC-DayBooking/pkg/logger"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

type stubUseCase struct {
	resp *sweepRetention.Response
	err  error
}

func (s stubUseCase) Execute(context.Context) (*sweepRetention.Response, error) {
	return s.resp, s.err
}

func TestHandle(t *testing.T) {
	uc := stubUseCase{resp: &sweepRetention.Response{
		Policy:   domain.RetentionExpire,
		Cutoff:   types.MustParseDate("2026-10-19"),
		Affected: 4,
	}}

	w := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/retention/sweep", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body SweepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, SweepResponse{Policy: "expire", Cutoff: "2026-10-19", Affected: 4}, body)
}

func TestHandle_Error(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(stubUseCase{err: errors.New("down")}, logger.Nop()).
		Handle(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
