package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrygrande/dynasty-dna/controller"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/leagues", listLeaguesHandler(ctrl, render))
	r.Get("/leagues/{leagueID}/family", familyHandler(ctrl, render))

	r.Route("/leagues/{leagueID}/assets", func(r chi.Router) {
		r.Get("/players/{playerID}/timeline", playerTimelineHandler(ctrl, render))
		r.Get("/picks/{season}/{round:\\d+}/{originalRosterID:\\d+}/timeline", pickTimelineHandler(ctrl, render))
		r.Get("/top", topAssetsHandler(ctrl, render))
	})

	r.Get("/leagues/{leagueID}/benchmarks", benchmarksHandler(ctrl, render))
	r.Post("/leagues/{leagueID}/graph", graphHandler(ctrl, render))

	r.Route("/sync/{leagueID}", func(r chi.Router) {
		r.Post("/", triggerSyncHandler(ctrl, render))
		r.Get("/", syncStatusHandler(ctrl, render))
	})

	return r
}
