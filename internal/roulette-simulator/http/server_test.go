package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/radieske/roulette-client/internal/roulette-client/api"
	"github.com/radieske/roulette-client/internal/roulette-simulator/repo"
	"github.com/radieske/roulette-client/internal/roulette-simulator/wheel"
	"github.com/radieske/roulette-client/pkg/contracts/game"
)

type recordPublisher struct {
	spins    []game.GameResult
	balances []game.User
	err      error
}

func (p *recordPublisher) PublishSpin(_ context.Context, r game.GameResult) error {
	p.spins = append(p.spins, r)
	return p.err
}

func (p *recordPublisher) PublishBalance(_ context.Context, u game.User) error {
	p.balances = append(p.balances, u)
	return p.err
}

// stuckPublisher simula um broker fora do ar: só retorna quando o contexto expira.
type stuckPublisher struct {
	mu          sync.Mutex
	sawDeadline bool
}

func (p *stuckPublisher) wait(ctx context.Context) error {
	_, ok := ctx.Deadline()
	p.mu.Lock()
	p.sawDeadline = ok
	p.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (p *stuckPublisher) PublishSpin(ctx context.Context, _ game.GameResult) error {
	return p.wait(ctx)
}

func (p *stuckPublisher) PublishBalance(ctx context.Context, _ game.User) error {
	return p.wait(ctx)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (game.User, error) {
	return game.User{}, errors.New("db down")
}

func (failingStore) Save(context.Context, string, float64) (game.User, error) {
	return game.User{}, errors.New("db down")
}

type fixture struct {
	url     string
	client  *api.Client
	store   *repo.Memory
	publ    *recordPublisher
	metrics *Metrics
}

// newFixture sobe o simulador com a roda travada em n e um client apontando para ele
func newFixture(t *testing.T, n int64) *fixture {
	t.Helper()
	store := repo.NewMemory()
	publ := &recordPublisher{}
	m := NewMetrics(prometheus.NewRegistry())
	w := wheel.New(func(int64) (int64, error) { return n, nil })

	srv := httptest.NewServer(NewServer(zap.NewNop(), w, store, publ, m).Router())
	t.Cleanup(srv.Close)

	return &fixture{
		url:     srv.URL,
		client:  api.New(srv.URL + "/api"),
		store:   store,
		publ:    publ,
		metrics: m,
	}
}

func TestSpin(t *testing.T) {
	f := newFixture(t, 14)

	res, err := f.client.GetRouletteResult(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := game.GameResult{Number: 14, Color: game.ColorRed, Parity: game.ParityEven}
	if *res != want {
		t.Errorf("Expected %+v, got %+v", want, *res)
	}
	if len(f.publ.spins) != 1 || f.publ.spins[0] != want {
		t.Errorf("Expected spin published, got %+v", f.publ.spins)
	}
	if got := testutil.ToFloat64(f.metrics.spins.WithLabelValues("red")); got != 1 {
		t.Errorf("Expected 1 red spin counted, got %v", got)
	}
}

func TestSpin_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, 0)
	f.publ.err = errors.New("broker down")

	res, err := f.client.GetRouletteResult(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Color != game.ColorGreen || res.Parity != game.ParityNone {
		t.Errorf("Unexpected zero result %+v", *res)
	}
}

func TestPublish_BoundedByTimeout(t *testing.T) {
	publ := &stuckPublisher{}
	s := NewServer(zap.NewNop(), wheel.New(func(int64) (int64, error) { return 3, nil }), repo.NewMemory(), publ, nil)
	s.publishTimeout = 50 * time.Millisecond

	srv := httptest.NewServer(s.Router())
	defer srv.Close()
	c := api.New(srv.URL+"/api", api.WithHTTPClient(&http.Client{Timeout: 2 * time.Second}))
	ctx := context.Background()

	start := time.Now()
	res, err := c.GetRouletteResult(ctx)
	if err != nil {
		t.Fatalf("Expected spin despite stuck broker, got %v", err)
	}
	if res.Number != 3 {
		t.Errorf("Expected 3, got %d", res.Number)
	}
	if _, err := c.SaveUserBalance(ctx, "alice", 10); err != nil {
		t.Fatalf("Expected save despite stuck broker, got %v", err)
	}
	if took := time.Since(start); took > time.Second {
		t.Errorf("Expected publish bounded by timeout, requests took %v", took)
	}

	publ.mu.Lock()
	defer publ.mu.Unlock()
	if !publ.sawDeadline {
		t.Error("Expected publish context to carry a deadline")
	}
}

func TestPrize(t *testing.T) {
	f := newFixture(t, 7)
	ctx := context.Background()

	spin, err := f.client.GetRouletteResult(ctx)
	if err != nil {
		t.Fatalf("spin: %v", err)
	}

	red := game.ColorRed
	won, err := f.client.CalculatePrize(ctx, game.Bet{Type: game.BetNumberColor, Amount: 2, Value: game.NumberValue(7), Color: &red}.Request(spin))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !won.Won || won.Prize != 72 {
		t.Errorf("Expected win of 72, got %+v", *won)
	}

	lost, err := f.client.CalculatePrize(ctx, game.Bet{Type: game.BetColor, Amount: 2, Value: game.TextValue("black")}.Request(spin))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if lost.Won || lost.Prize != 0 {
		t.Errorf("Expected loss, got %+v", *lost)
	}

	if got := testutil.ToFloat64(f.metrics.prizes); got != 72 {
		t.Errorf("Expected 72 paid, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.bets.WithLabelValues("color", "lost")); got != 1 {
		t.Errorf("Expected 1 lost color bet, got %v", got)
	}
}

func TestPrize_InvalidBet(t *testing.T) {
	f := newFixture(t, 7)

	_, err := f.client.CalculatePrize(context.Background(), game.Bet{Type: game.BetColor, Amount: 2, Value: game.TextValue("red")}.Request(nil))

	var se *api.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %v", err)
	}
	if !strings.Contains(se.Body, "invalid bet") {
		t.Errorf("Expected validation message, got %q", se.Body)
	}
}

func TestPrize_BadJSON(t *testing.T) {
	f := newFixture(t, 7)

	resp, err := http.Post(f.url+"/api/roulette/prize", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestUsers_SaveThenGet(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{name: "SpaceAndSlash", username: "ana maria/2"},
		{name: "LiteralPercentEscape", username: "a%41"},
		{name: "LiteralEscapedSlash", username: "x%2Fy"},
		{name: "TrailingPercent", username: "100%"},
		{name: "Plain", username: "alice"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, 1)
			ctx := context.Background()

			_, found, err := f.client.GetUserBalance(ctx, tc.username)
			if err != nil || found {
				t.Fatalf("Expected absent user, got found=%v err=%v", found, err)
			}

			raw, err := f.client.SaveUserBalance(ctx, tc.username, 1000)
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			var saved game.User
			if err := json.Unmarshal(raw, &saved); err != nil {
				t.Fatalf("decode save response: %v", err)
			}
			if saved != (game.User{Username: tc.username, Balance: 1000}) {
				t.Errorf("Unexpected save response %+v", saved)
			}

			user, found, err := f.client.GetUserBalance(ctx, tc.username)
			if err != nil || !found {
				t.Fatalf("Expected user %q, got found=%v err=%v", tc.username, found, err)
			}
			if user.Username != tc.username || user.Balance != 1000 {
				t.Errorf("Expected %q with 1000, got %+v", tc.username, user)
			}
			if len(f.publ.balances) != 1 || f.publ.balances[0].Username != tc.username {
				t.Errorf("Expected balance event, got %+v", f.publ.balances)
			}
		})
	}
}

func TestUsers_SaveRequiresUsername(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.client.SaveUserBalance(context.Background(), "", 10)

	var se *api.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %v", err)
	}
}

func TestUsers_StoreFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(NewServer(zap.NewNop(), wheel.New(nil), failingStore{}, nil, nil).Router())
	defer srv.Close()
	c := api.New(srv.URL + "/api")

	_, found, err := c.GetUserBalance(context.Background(), "alice")
	if err == nil || found {
		t.Fatalf("Expected error, got found=%v err=%v", found, err)
	}
	var se *api.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %v", err)
	}

	if _, err := c.SaveUserBalance(context.Background(), "alice", 1); err == nil {
		t.Error("Expected save error")
	}
}
