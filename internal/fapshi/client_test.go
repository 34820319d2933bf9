package fapshi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/nkengderick/biotec-api/internal/errors"
)

func TestClient_InitiatePaySendsCredentials(t *testing.T) {
	var gotUser, gotKey, gotContentType string
	var gotBody InitiateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("apiuser")
		gotKey = r.Header.Get("apikey")
		gotContentType = r.Header.Get("Content-Type")
		assert.Equal(t, "/initiate-pay", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(InitiateResponse{
			Link:    "https://checkout.fapshi.com/pay/abc",
			TransID: "TX123",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "user-1", "key-1")
	resp, err := client.InitiatePay(context.Background(), InitiateRequest{
		Amount:     3000,
		ExternalID: "EXT1",
		Email:      "applicant@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "TX123", resp.TransID)
	assert.Equal(t, "https://checkout.fapshi.com/pay/abc", resp.Link)
	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, int64(3000), gotBody.Amount)
	assert.Equal(t, "EXT1", gotBody.ExternalID)
}

func TestClient_ErrorBodyPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid amount"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user-1", "key-1")
	_, err := client.InitiatePay(context.Background(), InitiateRequest{Amount: -1})

	gwErr, ok := err.(*apperrors.GatewayError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, `{"message":"invalid amount"}`, gwErr.Body)
}

func TestClient_PaymentStatusRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment-status/TX123", r.URL.Path)
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(StatusResponse{TransID: "TX123", Status: "SUCCESSFUL"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "user-1", "key-1")
	resp, err := client.PaymentStatus(context.Background(), "TX123")

	assert.NoError(t, err)
	assert.Equal(t, "SUCCESSFUL", resp.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_PaymentStatusDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"transaction not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user-1", "key-1")
	_, err := client.PaymentStatus(context.Background(), "TXMISSING")

	gwErr, ok := err.(*apperrors.GatewayError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx answers must not be retried")
}

func TestClient_PaymentStatusGivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user-1", "key-1")
	_, err := client.PaymentStatus(context.Background(), "TX123")

	assert.Error(t, err)
	assert.Equal(t, int32(statusRetryAttempts), atomic.LoadInt32(&calls))
}

func TestParseTime(t *testing.T) {
	assert.Nil(t, ParseTime(""))
	assert.Nil(t, ParseTime("not-a-time"))

	parsed := ParseTime("2025-03-10T12:05:00Z")
	assert.NotNil(t, parsed)
	assert.Equal(t, 2025, parsed.Year())

	parsed = ParseTime("2025-03-10 12:05:00")
	assert.NotNil(t, parsed)
}
