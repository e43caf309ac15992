package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/JonMunkholm/hcl/internal/core"
)

// maxGroupBody bounds the group state a client may post.
const maxGroupBody = 1 << 20

// GroupCommand is one edit applied to client-held group state.
type GroupCommand struct {
	Op    string          `json:"op"`
	State json.RawMessage `json:"state"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	OS    string          `json:"os,omitempty"`
	Color string          `json:"color,omitempty"`
	Model string          `json:"model,omitempty"`
}

// GroupCommandResponse is the updated state after a command.
// CreatedID is set by the create op.
type GroupCommandResponse struct {
	State     core.GroupSet `json:"state"`
	CreatedID string        `json:"createdId,omitempty"`
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxGroupBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if len(body) > maxGroupBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", errBadRequest, maxGroupBody)
	}
	return body, nil
}

// handleNormalizeGroups repairs posted group state against the current OS list.
// An empty or malformed body yields the default group set.
func (s *Server) handleNormalizeGroups(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	set := core.ParseGroupSet(body).Normalize(s.catalog.Current().OSLabels)
	writeJSON(w, http.StatusOK, set)
}

// handleApplyGroupCommand applies one GroupCommand and returns the new state.
func (s *Server) handleApplyGroupCommand(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	var cmd GroupCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", errBadRequest, err), http.StatusBadRequest)
		return
	}

	snap := s.catalog.Current()
	resp, err := applyGroupCommand(cmd, snap)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func applyGroupCommand(cmd GroupCommand, snap *core.Snapshot) (GroupCommandResponse, error) {
	set := core.ParseGroupSet(cmd.State).Normalize(snap.OSLabels)

	var err error
	resp := GroupCommandResponse{}
	switch cmd.Op {
	case "create":
		set, resp.CreatedID = set.Create(cmd.Name, snap.OSLabels)
	case "delete":
		set, err = set.Delete(cmd.ID)
	case "activate":
		set, err = set.Activate(cmd.ID)
	case "rename":
		set, err = set.Rename(cmd.ID, cmd.Name)
	case "set_os":
		set, err = set.SetOS(cmd.ID, cmd.OS)
	case "set_color":
		set, err = set.SetColor(cmd.ID, cmd.Color)
	case "add_item":
		set, err = set.AddItem(cmd.ID, cmd.Model, snap.Catalog)
	case "remove_item":
		set, err = set.RemoveItem(cmd.ID, cmd.Model)
	default:
		err = fmt.Errorf("%w: unknown op %q", errBadRequest, cmd.Op)
	}
	if err != nil {
		return GroupCommandResponse{}, err
	}
	resp.State = set
	return resp, nil
}

// handleExportGroup streams the CSV export of group ?id= (the active group
// when id is empty) from the posted group state.
func (s *Server) handleExportGroup(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	snap := s.catalog.Current()
	set := core.ParseGroupSet(body).Normalize(snap.OSLabels)

	g := set.Active()
	if id := r.URL.Query().Get("id"); id != "" {
		var ok bool
		if g, ok = set.Find(id); !ok {
			s.respondError(w, r, fmt.Errorf("export %s: %w", id, core.ErrGroupNotFound), http.StatusNotFound)
			return
		}
	}

	// Buffer so an empty group can still be reported as an error.
	var buf bytes.Buffer
	if err := core.WriteGroupCSV(&buf, g, snap.Catalog); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": core.ExportFileName(g),
	}))
	_, _ = buf.WriteTo(w)
}
