package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrygrande/dynasty-dna/controller"
	"github.com/jrygrande/dynasty-dna/db"
	"github.com/jrygrande/dynasty-dna/model"
	"github.com/jrygrande/dynasty-dna/sleeper"
	"github.com/unrolled/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

type timelineResponse struct {
	Asset   model.AssetID             `json:"asset"`
	Events  []model.AssetEvent        `json:"events"`
	Periods []model.PerformancePeriod `json:"periods"`
}

func listLeaguesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagues, err := ctrl.ListLeagues(r.Context())
		if err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		render.JSON(w, http.StatusOK, leagues)
	}
}

func familyHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")
		family, err := ctrl.ResolveFamily(r.Context(), leagueID)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]any{"leagueIds": family})
	}
}

func playerTimelineHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")
		asset := model.PlayerAsset(chi.URLParam(r, "playerID"))
		serveTimeline(ctrl, render, w, r, leagueID, asset)
	}
}

func pickTimelineHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")
		round, err := strconv.Atoi(chi.URLParam(r, "round"))
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "round must be a number"})
			return
		}
		orig, err := strconv.Atoi(chi.URLParam(r, "originalRosterID"))
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "originalRosterID must be a number"})
			return
		}

		asset := model.PickAsset(chi.URLParam(r, "season"), round, orig)
		serveTimeline(ctrl, render, w, r, leagueID, asset)
	}
}

func serveTimeline(ctrl controller.C, render *render.Render, w http.ResponseWriter, r *http.Request, leagueID string, asset model.AssetID) {
	events, periods, err := ctrl.GetTimeline(r.Context(), leagueID, asset)
	if err != nil {
		renderError(render, w, err)
		return
	}
	render.JSON(w, http.StatusOK, timelineResponse{Asset: asset, Events: events, Periods: periods})
}

func topAssetsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")

		kind := model.AssetKind(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = model.AssetPlayer
		}
		if kind != model.AssetPlayer && kind != model.AssetPick {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "kind must be player or pick"})
			return
		}

		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			var err error
			if limit, err = strconv.Atoi(l); err != nil || limit <= 0 {
				render.JSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive number"})
				return
			}
		}

		counts, err := ctrl.TopAssets(r.Context(), leagueID, kind, limit)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, counts)
	}
}

func benchmarksHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")

		pos := model.ParsePosition(r.URL.Query().Get("pos"))
		if pos == model.POS_UNKNOWN {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "pos parameter is required"})
			return
		}

		season := r.URL.Query().Get("season")
		if season == "" {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "season parameter is required"})
			return
		}

		weeks, err := parseWeeks(r.URL.Query().Get("weeks"))
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		benchmarks, err := ctrl.GetBenchmarks(r.Context(), leagueID, pos, season, weeks)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, benchmarks)
	}
}

// parseWeeks accepts "1,2,3" or a "1-17" range; empty means every week.
func parseWeeks(q string) ([]int, error) {
	if q == "" {
		weeks := make([]int, 18)
		for i := range weeks {
			weeks[i] = i + 1
		}
		return weeks, nil
	}

	if lo, hi, found := strings.Cut(q, "-"); found {
		start, err1 := strconv.Atoi(lo)
		end, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil || start > end || start < 1 {
			return nil, errors.New("weeks range must look like 1-17")
		}
		weeks := make([]int, 0, end-start+1)
		for w := start; w <= end; w++ {
			weeks = append(weeks, w)
		}
		return weeks, nil
	}

	parts := strings.Split(q, ",")
	weeks := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || w < 1 {
			return nil, errors.New("weeks must be a comma separated list of week numbers")
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}

type graphRequest struct {
	Assets []string `json:"assets"`
}

func graphHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")

		var req graphRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if len(req.Assets) == 0 {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "at least one asset is required"})
			return
		}

		assets := make([]model.AssetID, 0, len(req.Assets))
		for _, s := range req.Assets {
			a, err := model.ParseAssetID(s)
			if err != nil {
				render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			assets = append(assets, a)
		}

		graph, err := ctrl.GetGraph(r.Context(), leagueID, assets)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, graph)
	}
}

func triggerSyncHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")

		mode := model.SyncMode(r.URL.Query().Get("mode"))
		if mode == "" {
			mode = model.SyncIncremental
		}

		job, err := ctrl.TriggerSync(r.Context(), leagueID, mode)
		if err != nil {
			if errors.Is(err, controller.ErrSyncInProgress) {
				render.JSON(w, http.StatusConflict, job)
				return
			}
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusAccepted, job)
	}
}

func syncStatusHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leagueID := chi.URLParam(r, "leagueID")
		job, err := ctrl.GetSyncStatus(r.Context(), leagueID)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, job)
	}
}

func renderError(render *render.Render, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrLeagueNotFound),
		errors.Is(err, db.ErrPlayerNotFound),
		errors.Is(err, db.ErrJobNotFound),
		errors.Is(err, sleeper.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidAsset):
		status = http.StatusBadRequest
	}
	render.JSON(w, status, errorResponse{Error: err.Error()})
}
