package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sync/internal/application/dto"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	apphttp "github.com/jhoicas/inventario-sync/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-sync/pkg/jwt"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

type fakeSnapshotRunner struct {
	report *entity.SnapshotReport
	err    error
	calls  int
}

func (f *fakeSnapshotRunner) Run(context.Context) (*entity.SnapshotReport, error) {
	f.calls++
	return f.report, f.err
}

type fakeSummaryRunner struct {
	report *entity.SummaryReport
	err    error
}

func (f *fakeSummaryRunner) Run(context.Context) (*entity.SummaryReport, error) {
	return f.report, f.err
}

type fakeRefresher struct {
	n   int
	err error
}

func (f *fakeRefresher) Refresh(context.Context) (int, error) { return f.n, f.err }

func newRouterApp(snap *fakeSnapshotRunner, sum *fakeSummaryRunner, ref *fakeRefresher) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Runs:      apphttp.NewRunHandler(snap, sum, ref, logger.Nop()),
		Reports:   apphttp.NewReportHandler(&fakeSummaries{}, &fakeArchive{}, logger.Nop()),
		JWTSecret: testJWTSecret,
		AppName:   "inventario-sync",
	})
	return app
}

func TestRouter_Health_SinToken(t *testing.T) {
	app := newRouterApp(&fakeSnapshotRunner{}, &fakeSummaryRunner{}, &fakeRefresher{})
	resp := doRequest(t, app, http.MethodGet, "/health", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Snapshot_RequiereOperator(t *testing.T) {
	snap := &fakeSnapshotRunner{report: &entity.SnapshotReport{RunID: "r1", Outcome: entity.OutcomeCompleted}}
	app := newRouterApp(snap, &fakeSummaryRunner{}, &fakeRefresher{})

	resp := doRequest(t, app, http.MethodPost, "/api/runs/snapshot", tokenForRole(t, pkgjwt.RoleViewer))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, snap.calls, "un viewer no debe disparar la ejecución")

	resp = doRequest(t, app, http.MethodPost, "/api/runs/snapshot", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Snapshot_OKYUltimoReporte(t *testing.T) {
	snap := &fakeSnapshotRunner{report: &entity.SnapshotReport{RunID: "r1", Outcome: entity.OutcomeCompleted, RowsUpserted: 3}}
	app := newRouterApp(snap, &fakeSummaryRunner{}, &fakeRefresher{})

	resp := doRequest(t, app, http.MethodPost, "/api/runs/snapshot", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got entity.SnapshotReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, 3, got.RowsUpserted)

	last := doRequest(t, app, http.MethodGet, "/api/runs/last", tokenForRole(t, pkgjwt.RoleViewer))
	defer last.Body.Close()
	require.Equal(t, http.StatusOK, last.StatusCode)

	var runs dto.LastRunsResponse
	require.NoError(t, json.NewDecoder(last.Body).Decode(&runs))
	require.NotNil(t, runs.Snapshot)
	assert.Equal(t, "r1", runs.Snapshot.RunID)
	assert.Nil(t, runs.Summary)
}

func TestRouter_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"nada que procesar", domain.ErrNothingToProcess, http.StatusOK, ""},
		{"lock tomado", domain.ErrRunInProgress, http.StatusConflict, "RUN_IN_PROGRESS"},
		{"configuración", domain.ErrConfiguration, http.StatusUnprocessableEntity, "CONFIGURATION"},
		{"storage", errors.New("conexión perdida"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sum := &fakeSummaryRunner{
				report: &entity.SummaryReport{RunID: "s1", Outcome: entity.OutcomeFailed},
				err:    tc.err,
			}
			app := newRouterApp(&fakeSnapshotRunner{}, sum, &fakeRefresher{})

			resp := doRequest(t, app, http.MethodPost, "/api/runs/summary", tokenForRole(t, pkgjwt.RoleOperator))
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.code != "" {
				var body dto.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tc.code, body.Code)
			}
		})
	}
}

func TestRouter_RefreshUOM(t *testing.T) {
	app := newRouterApp(&fakeSnapshotRunner{}, &fakeSummaryRunner{}, &fakeRefresher{n: 42})

	resp := doRequest(t, app, http.MethodPost, "/api/uom/refresh", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.UOMRefreshResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 42, body.Entries)
}

func TestRouter_RefreshUOM_ArchivoFaltante(t *testing.T) {
	ref := &fakeRefresher{err: errors.Join(domain.ErrConfiguration, errors.New("no existe Produktliste.xlsx"))}
	app := newRouterApp(&fakeSnapshotRunner{}, &fakeSummaryRunner{}, ref)

	resp := doRequest(t, app, http.MethodPost, "/api/uom/refresh", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
