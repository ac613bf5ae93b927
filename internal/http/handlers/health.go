package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := a.ctx(r)
	defer cancel()
	if err := a.Store.Ping(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("health: store ping failed")
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": "unavailable"})
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"store":   "ok",
		"gateway": a.Ledger.Gateway().Name(),
	})
}
