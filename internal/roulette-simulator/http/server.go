package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/roulette-client/internal/roulette-simulator/producer"
	"github.com/radieske/roulette-client/internal/roulette-simulator/repo"
	"github.com/radieske/roulette-client/internal/roulette-simulator/wheel"
	"github.com/radieske/roulette-client/pkg/contracts/game"
)

// DefaultPublishTimeout limita quanto a resposta espera pela publicação de um evento.
const DefaultPublishTimeout = 2 * time.Second

// Server expõe a API da roleta simulada no mesmo formato do serviço real
type Server struct {
	log     *zap.Logger
	wheel   *wheel.Wheel
	store   repo.Store
	publ    producer.Publisher
	metrics *Metrics

	publishTimeout time.Duration
}

// NewServer instancia o servidor HTTP do simulador
func NewServer(log *zap.Logger, w *wheel.Wheel, store repo.Store, publ producer.Publisher, m *Metrics) *Server {
	if publ == nil {
		publ = producer.Nop{}
	}
	return &Server{log: log, wheel: w, store: store, publ: publ, metrics: m, publishTimeout: DefaultPublishTimeout}
}

// Router retorna o router com as rotas da API sob /api
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/roulette/spin", s.spin)       // GET
		r.Post("/roulette/prize", s.prize)    // POST
		r.Post("/users/save", s.saveUser)     // POST
		r.Get("/users/{username}", s.getUser) // GET /users/{username}
	})
	return r
}

// spin sorteia um número e publica o giro
func (s *Server) spin(w http.ResponseWriter, r *http.Request) {
	res, err := s.wheel.Spin()
	if err != nil {
		s.log.Error("spin failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "spin failed")
		return
	}
	s.metrics.observeSpin(res)

	s.publish(r.Context(), "spin", func(ctx context.Context) error {
		return s.publ.PublishSpin(ctx, res)
	}, zap.Int("number", res.Number))
	writeJSON(w, http.StatusOK, res)
}

// prize avalia a aposta contra o resultado informado no pedido
func (s *Server) prize(w http.ResponseWriter, r *http.Request) {
	var req game.BetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	res, err := s.wheel.Evaluate(req)
	if err != nil {
		if errors.Is(err, game.ErrInvalidBet) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.observeBet(req.Type, res)

	writeJSON(w, http.StatusOK, res)
}

// saveUser grava o saldo informado e devolve o usuário atualizado
func (s *Server) saveUser(w http.ResponseWriter, r *http.Request) {
	var req game.SaveBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username required")
		return
	}

	u, err := s.store.Save(r.Context(), req.Username, req.Amount)
	if err != nil {
		s.log.Error("save user", zap.String("username", req.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}

	s.publish(r.Context(), "balance", func(ctx context.Context) error {
		return s.publ.PublishBalance(ctx, u)
	}, zap.String("username", u.Username))
	writeJSON(w, http.StatusOK, u)
}

// getUser retorna o saldo do usuário ou 404 se ele não existir
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	// chi casa a rota por RawPath quando ele existe; sem RawPath o parâmetro já vem decodificado
	if r.URL.RawPath != "" {
		if v, err := url.PathUnescape(username); err == nil {
			username = v
		}
	}

	u, err := s.store.Get(r.Context(), username)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.log.Error("get user", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// publish envia o evento sem deixar a resposta esperar além de publishTimeout.
// Falha na publicação não derruba o pedido; só é registrada aqui.
func (s *Server) publish(ctx context.Context, event string, fn func(context.Context) error, fields ...zap.Field) {
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		s.log.Warn("publish "+event+" failed", append(fields, zap.Error(err))...)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()
		next.ServeHTTP(ww, r)
	})
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
