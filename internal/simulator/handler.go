package simulator

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/logging"
	"github.com/muurk/ewcportal/internal/urls"
)

// NewHandler serves the device's HTTP/JSON API backed by d.
func NewHandler(d *Device) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+urls.Menu, func(w http.ResponseWriter, r *http.Request) {
		d.writeJSON(w, r, d.Menu())
	})
	mux.HandleFunc("GET "+urls.LegacyMenu, func(w http.ResponseWriter, r *http.Request) {
		d.writeJSON(w, r, d.Menu())
	})
	mux.HandleFunc("GET "+urls.Languages, func(w http.ResponseWriter, r *http.Request) {
		d.writeJSON(w, r, d.Languages())
	})
	mux.HandleFunc("GET "+urls.WiFiStations, func(w http.ResponseWriter, r *http.Request) {
		d.writeJSON(w, r, d.Scan())
	})
	mux.HandleFunc("GET "+urls.WiFiState, func(w http.ResponseWriter, r *http.Request) {
		d.writeJSON(w, r, d.State())
	})
	mux.HandleFunc("GET "+urls.Info, func(w http.ResponseWriter, r *http.Request) {
		d.writeJSON(w, r, d.Info())
	})

	mux.HandleFunc("POST "+urls.WiFiSave, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		creds := device.Credentials{
			SSID:       r.PostFormValue("ssid"),
			Passphrase: r.PostFormValue("passphrase"),
			StationIP:  r.PostFormValue("stationIP"),
		}
		if err := d.Save(creds); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logging.Info("Credentials saved", zap.String("ssid", creds.SSID))
		http.Redirect(w, r, "/wifi/state.html", http.StatusFound)
	})
	mux.HandleFunc("GET "+urls.WiFiDisconnect, func(w http.ResponseWriter, r *http.Request) {
		d.Disconnect()
		logging.Info("Station disconnected")
		http.Redirect(w, r, urls.SetupPage, http.StatusFound)
	})
	mux.HandleFunc("GET "+urls.Restart, func(w http.ResponseWriter, r *http.Request) {
		d.Restart()
		logging.Info("Device restarted")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("restarting"))
	})

	return d.withAuth(mux)
}

func (d *Device) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Debug("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		if d.cfg.Username != "" {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(d.cfg.Username)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(d.cfg.Password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="EWC"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (d *Device) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	if d.cfg.TrailingJunk {
		body = append(body, 0, 0, 0)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(body)
}
