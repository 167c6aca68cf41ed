package api

import (
	"net/http"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// ListPresets возвращает список встроенных примеров.
// GET /api/v1/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	names := fsa.PresetNames()

	result := make([]PresetResponse, 0, len(names))
	for _, name := range names {
		snap, err := fsa.Preset(name)
		if HandleError(w, h.logger, err, "preset not found") {
			return
		}
		result = append(result, PresetResponse{
			Name:     name,
			States:   len(snap.FSA.States),
			Alphabet: snap.FSA.Alphabet,
		})
	}

	List(w, result, len(result))
}

// GetPreset возвращает снимок встроенного примера.
// С ?format=yaml|hcl отдаёт файл в этом формате.
// GET /api/v1/presets/{name}
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	snap, err := fsa.Preset(name)
	if HandleError(w, h.logger, err, "preset not found") {
		return
	}

	if raw := r.URL.Query().Get("format"); raw != "" {
		format, err := fsa.ParseFormat(raw)
		if HandleError(w, h.logger, err, "") {
			return
		}
		if format != fsa.FormatJSON {
			body, err := encodeSnapshot(snap, format)
			if err != nil {
				InternalError(w, h.logger, err)
				return
			}
			w.Header().Set("Content-Type", contentType(format))
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	Success(w, PresetResponse{
		Name:     name,
		States:   len(snap.FSA.States),
		Alphabet: snap.FSA.Alphabet,
		Snapshot: snap,
	})
}

func contentType(format fsa.Format) string {
	switch format {
	case fsa.FormatYAML:
		return "application/yaml"
	case fsa.FormatHCL:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}
