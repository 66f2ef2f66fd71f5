package provider

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fetchFunc adapts a function to the Fetcher interface.
type fetchFunc func(ctx context.Context, url string) ([]byte, error)

func (f fetchFunc) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFrankfurter_FetchRate(t *testing.T) {
	var requested string
	f := NewFrankfurter("https://rates.test", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		requested = url
		return []byte(`{"base":"EUR","date":"2024-01-15","rates":{"USD":1.0945}}`), nil
	}), zap.NewNop())

	rate, err := f.FetchRate(context.Background(), "EUR", "USD", day("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate == nil {
		t.Fatal("expected a rate")
	}
	if rate.Rate != 1.0945 {
		t.Errorf("expected rate 1.0945, got %f", rate.Rate)
	}
	if !rate.ActualDate.Equal(day("2024-01-15")) {
		t.Errorf("unexpected actual date: %v", rate.ActualDate)
	}

	want := "https://rates.test/2024-01-15?from=EUR&to=USD"
	if requested != want {
		t.Errorf("expected URL %s, got %s", want, requested)
	}
}

func TestFrankfurter_ReportsEarlierPublicationDate(t *testing.T) {
	f := NewFrankfurter("https://rates.test", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`{"base":"EUR","date":"2020-01-31","rates":{"USD":1.1085}}`), nil
	}), zap.NewNop())

	rate, err := f.FetchRate(context.Background(), "EUR", "USD", day("2020-02-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate == nil {
		t.Fatal("expected a rate")
	}
	if !rate.ActualDate.Equal(day("2020-01-31")) {
		t.Errorf("expected actual date 2020-01-31, got %v", rate.ActualDate)
	}
}

func TestFrankfurter_NoData(t *testing.T) {
	f := NewFrankfurter("https://rates.test", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return nil, nil
	}), zap.NewNop())

	rate, err := f.FetchRate(context.Background(), "EUR", "USD", day("2024-01-13"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != nil {
		t.Errorf("expected no rate, got %+v", rate)
	}
}

func TestFrankfurter_MissingTargetRate(t *testing.T) {
	f := NewFrankfurter("https://rates.test", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`{"base":"EUR","date":"2024-01-15","rates":{}}`), nil
	}), zap.NewNop())

	rate, err := f.FetchRate(context.Background(), "EUR", "USD", day("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != nil {
		t.Errorf("expected no rate for missing target key, got %+v", rate)
	}
}

func TestFrankfurter_MalformedResponse(t *testing.T) {
	f := NewFrankfurter("https://rates.test", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`not json`), nil
	}), zap.NewNop())

	if _, err := f.FetchRate(context.Background(), "EUR", "USD", day("2024-01-15")); err == nil {
		t.Error("expected error for malformed response")
	}
}

func TestNBU_FetchRate(t *testing.T) {
	var requested string
	n := NewNBU("https://nbu.test/exchange", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		requested = url
		return []byte(`[{"rate":27.5,"cc":"USD","exchangedate":"01.03.2024"}]`), nil
	}), zap.NewNop())

	rate, err := n.FetchRate(context.Background(), "UAH", "USD", day("2024-03-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate == nil {
		t.Fatal("expected a rate")
	}
	if rate.Rate != 27.5 {
		t.Errorf("expected raw UAH-per-USD rate 27.5, got %f", rate.Rate)
	}
	if !rate.ActualDate.Equal(day("2024-03-01")) {
		t.Errorf("expected actual date 2024-03-01 from exchangedate, got %v", rate.ActualDate)
	}

	want := "https://nbu.test/exchange?valcode=USD&date=20240301&json"
	if requested != want {
		t.Errorf("expected URL %s, got %s", want, requested)
	}
}

func TestNBU_ExchangeDateDiffersFromRequested(t *testing.T) {
	n := NewNBU("https://nbu.test/exchange", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`[{"rate":27.5,"cc":"USD","exchangedate":"01.03.2024"}]`), nil
	}), zap.NewNop())

	rate, err := n.FetchRate(context.Background(), "UAH", "USD", day("2024-03-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate == nil {
		t.Fatal("expected a rate")
	}
	if !rate.ActualDate.Equal(day("2024-03-01")) {
		t.Errorf("expected settlement date 2024-03-01, got %v", rate.ActualDate)
	}
}

func TestNBU_NonPositiveRateRejected(t *testing.T) {
	n := NewNBU("https://nbu.test/exchange", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`[{"rate":0,"cc":"USD","exchangedate":"01.03.2024"}]`), nil
	}), zap.NewNop())

	rate, err := n.FetchRate(context.Background(), "UAH", "USD", day("2024-03-01"))
	if err != nil {
		t.Fatalf("invalid data should converge to absence, got error: %v", err)
	}
	if rate != nil {
		t.Errorf("expected non-positive rate to be rejected, got %+v", rate)
	}
}

func TestNBU_EmptyResponse(t *testing.T) {
	n := NewNBU("https://nbu.test/exchange", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`[]`), nil
	}), zap.NewNop())

	rate, err := n.FetchRate(context.Background(), "UAH", "USD", day("2024-03-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != nil {
		t.Errorf("expected no rate for empty array, got %+v", rate)
	}
}

func TestExchangeRateAPI_OnlyAnswersToday(t *testing.T) {
	fetched := false
	e := NewExchangeRateAPI("https://backup.test/latest", fetchFunc(func(ctx context.Context, url string) ([]byte, error) {
		fetched = true
		return []byte(`{"base":"EUR","date":"2024-01-15","rates":{"USD":1.0945}}`), nil
	}), zap.NewNop())
	e.now = func() time.Time { return day("2024-01-15") }

	// Historical date: no capability, no network call.
	rate, err := e.FetchRate(context.Background(), "EUR", "USD", day("2024-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != nil {
		t.Errorf("expected no rate for a historical date, got %+v", rate)
	}
	if fetched {
		t.Error("expected no network call for a historical date")
	}

	// Today: answers.
	rate, err = e.FetchRate(context.Background(), "EUR", "USD", day("2024-01-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate == nil {
		t.Fatal("expected a rate for today")
	}
	if rate.Rate != 1.0945 {
		t.Errorf("expected rate 1.0945, got %f", rate.Rate)
	}
}
