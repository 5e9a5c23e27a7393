package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yalshehri/tripsplit/internal/expense"
	"github.com/yalshehri/tripsplit/pkg/middleware"
)

func newTestHandler(t *testing.T) (http.Handler, int64) {
	t.Helper()

	svc, _ := newTestService([]*expense.ExpenseWithShares{
		makeExpense(1, 1, 2000, "SAR", "", map[int64]int64{1: 1000, 2: 1000}),
	})

	summary, err := svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summary.Pending, 1)

	return middleware.ActorMiddleware(NewHandler(svc).Routes()), summary.Pending[0].ID
}

func payRequest(id int64, actorID string, body io.Reader) *http.Request {
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/%d/pay", id), body)
	req.Header.Set("X-Participant-ID", actorID)
	return req
}

func TestHandler_MarkAsPaid_NoBody(t *testing.T) {
	h, id := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, payRequest(id, "2", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    *SettlementResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, StatusSettled, resp.Data.Status)
	assert.Nil(t, resp.Data.Note)
}

func TestHandler_MarkAsPaid_ChunkedBodyNote(t *testing.T) {
	h, id := newTestHandler(t)

	// io.MultiReader hides the reader's length, so httptest leaves
	// ContentLength at -1, the same as a chunked request.
	body := io.MultiReader(strings.NewReader(`{"note":"bank transfer"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, payRequest(id, "2", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data *SettlementResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Note)
	assert.Equal(t, "bank transfer", *resp.Data.Note)
}

func TestHandler_MarkAsPaid_InvalidNoteRejected(t *testing.T) {
	h, id := newTestHandler(t)

	// Tag validation failures map to 400 like every other bad input.
	body := strings.NewReader(`{"note":"` + strings.Repeat("x", 501) + `"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, payRequest(id, "2", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestHandler_MarkAsPaid_MalformedBody(t *testing.T) {
	h, id := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, payRequest(id, "2", strings.NewReader(`{"note":`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_MarkAsPaid_NonPartyForbidden(t *testing.T) {
	h, id := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, payRequest(id, "9", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)
}
