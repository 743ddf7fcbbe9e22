package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dekarrin/presburger/internal/presburger"
	"github.com/dekarrin/presburger/internal/worker"
	"github.com/dekarrin/presburger/server/cache"
)

// buildTimeout bounds how long a single formula build (parse, macro expand,
// normalize, compile to automaton) is allowed to take before the worker
// reports a timeout.
const buildTimeout = 5 * time.Second

// AutomatonRequest is the POST body for both /automaton/dot and
// /automaton/update.
type AutomatonRequest struct {
	// Formula is the (possibly macro-prefixed) formula source text. Required
	// for /automaton/dot; ignored for /automaton/update, which reuses the
	// cached build instead.
	Formula string `json:"formula"`

	// Order is the free variables in the order they should be displayed
	// (and, for /automaton/dot, the order they are aligned to before
	// solving). If empty, the automaton's own order, as built by
	// presburger.BuildFromText, is used.
	Order []string `json:"order"`

	// SolutionCap bounds how many sample solutions are returned. 0 means
	// use the server's configured default.
	SolutionCap int `json:"solution_cap"`
}

// AutomatonResponse is returned by both /automaton/dot and
// /automaton/update.
type AutomatonResponse struct {
	Dot       string        `json:"dot"`
	Order     []string      `json:"order"`
	Solutions []interface{} `json:"solutions"`
}

func (s *AutomatonServer) handlePostAutomatonDot(w http.ResponseWriter, req *http.Request) {
	var body AutomatonRequest
	if err := parseJSON(req, &body); err != nil {
		jsonBadRequest(err.Error(), err.Error()).writeResponse(w, req)
		return
	}
	if body.Formula == "" {
		jsonBadRequest("formula must not be empty", "missing formula").writeResponse(w, req)
		return
	}

	ctx, cancel := requestContext(req.Context())
	defer cancel()

	key := cache.Key{FormulaText: body.Formula, Order: body.Order}

	var lab presburger.Labeled
	if encoded, err := s.cache.Get(ctx, key); err == nil {
		lab, err = presburger.DecodeCache(encoded)
		if err != nil {
			jsonInternalServerError("corrupt cache entry: %s", err.Error()).writeResponse(w, req)
			return
		}
	} else if !errors.Is(err, cache.ErrNotFound) {
		jsonInternalServerError("cache lookup failed: %s", err.Error()).writeResponse(w, req)
		return
	} else {
		res := worker.Run(ctx, "build", buildTimeout, func(ctx context.Context) (interface{}, error) {
			built, buildErr := presburger.BuildFromText(body.Formula)
			if buildErr != nil {
				return presburger.Labeled{}, buildErr
			}
			if len(body.Order) > 0 {
				built = presburger.Expand(built, presburger.VarOrder(body.Order))
			}
			return built, nil
		})

		switch res.Status {
		case worker.StatusTimeout:
			jsonRequestTimeout(res.Err.Error()).writeResponse(w, req)
			return
		case worker.StatusPanic, worker.StatusError:
			jsonBadRequest(res.Err.Error(), res.Err.Error()).writeResponse(w, req)
			return
		}

		lab = res.Value.(presburger.Labeled)
		if err := s.cache.Put(ctx, key, presburger.EncodeCache(lab)); err != nil {
			jsonInternalServerError("cache write failed: %s", err.Error()).writeResponse(w, req)
			return
		}
	}

	s.respondWithAutomaton(w, req, lab, body)
}

func (s *AutomatonServer) handlePostAutomatonUpdate(w http.ResponseWriter, req *http.Request) {
	var body AutomatonRequest
	if err := parseJSON(req, &body); err != nil {
		jsonBadRequest(err.Error(), err.Error()).writeResponse(w, req)
		return
	}

	ctx, cancel := requestContext(req.Context())
	defer cancel()

	// A formula/order pair must already have been built via
	// /automaton/dot; this endpoint only re-renders the cached result.
	key := cache.Key{FormulaText: body.Formula, Order: body.Order}
	encoded, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		jsonNotFound("no cached automaton for this formula/order; POST /automaton/dot first").writeResponse(w, req)
		return
	} else if err != nil {
		jsonInternalServerError("cache lookup failed: %s", err.Error()).writeResponse(w, req)
		return
	}

	lab, err := presburger.DecodeCache(encoded)
	if err != nil {
		jsonInternalServerError("corrupt cache entry: %s", err.Error()).writeResponse(w, req)
		return
	}

	s.respondWithAutomaton(w, req, lab, body)
}

func (s *AutomatonServer) handleGetInfo(w http.ResponseWriter, req *http.Request) {
	jsonOK(map[string]interface{}{
		"listen_address":       s.cfg.ListenAddress,
		"default_solution_cap": s.cfg.DefaultSolutionCap,
		"cache_type":           s.cfg.Cache.Type.String(),
	}).writeResponse(w, req)
}

func (s *AutomatonServer) respondWithAutomaton(w http.ResponseWriter, req *http.Request, lab presburger.Labeled, body AutomatonRequest) {
	solutionCap := body.SolutionCap
	if solutionCap == 0 {
		solutionCap = s.cfg.DefaultSolutionCap
	}

	sols := presburger.EnumerateSolutions(lab, solutionCap, presburger.VarOrder(body.Order))
	solOut := make([]interface{}, len(sols))
	for i, sol := range sols {
		solOut[i] = sol.VarInts
	}

	jsonOK(AutomatonResponse{
		Dot:       presburger.ToDot(lab, presburger.VarOrder(body.Order)),
		Order:     []string(lab.Order),
		Solutions: solOut,
	}).writeResponse(w, req)
}

func parseJSON(req *http.Request, target interface{}) error {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("malformed JSON in request body: %w", err)
	}
	return nil
}
