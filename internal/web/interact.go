package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/interact"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/scene"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// the editor is served from the same process; any origin on the LAN is accepted
		return true
	},
}

// PointerMsg is a pointer event from the editor. X and Y are pointer
// coordinates. A down event picks the handle under the pointer unless
// Camera and Role name one.
type PointerMsg struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Camera string  `json:"camera,omitempty"`
	Role   string  `json:"role,omitempty"`
}

// Pointer event types.
const (
	PointerDownMsg = "down"
	PointerMoveMsg = "move"
	PointerUpMsg   = "up"
)

// InteractReply answers every pointer event.
type InteractReply struct {
	Type   string  `json:"type"`
	State  string  `json:"state,omitempty"`
	Camera string  `json:"camera,omitempty"`
	Start  float64 `json:"start_angle,omitempty"`
	End    float64 `json:"end_angle,omitempty"`
	Range  float64 `json:"max_range,omitempty"`
	Error  string  `json:"error,omitempty"`
}

func stateReply(c *interact.Controller, cam *plan.Camera) InteractReply {
	rep := InteractReply{Type: "state", State: c.State().String()}
	if cam != nil && cam.Coverage != nil {
		rep.Camera = cam.ID
		rep.Start = cam.Coverage.StartAngle
		rep.End = cam.Coverage.EndAngle
		rep.Range = cam.Coverage.MaxRange
	}
	return rep
}

// pickHandle finds the handle a down event targets. The caller holds the
// workspace lock.
func (ws *Workspace) pickHandle(msg PointerMsg) (*plan.Camera, *scene.Handle, error) {
	if msg.Camera == "" {
		p := ws.Scene.ToScene(geometry.Point{X: msg.X, Y: msg.Y})
		cam, h := ws.Controller.HitHandle(p, ws.hitRadius)
		if h == nil {
			return nil, nil, interact.ErrNoHandle
		}
		return cam, h, nil
	}
	cam, err := ws.Plan.Camera(msg.Camera)
	if err != nil {
		return nil, nil, err
	}
	ws.Engine.RefreshHandles(cam)
	for _, h := range cam.Handles {
		if h.Role.String() == msg.Role {
			if !h.Visible {
				return nil, nil, fmt.Errorf("%w: camera %s is not selected", interact.ErrNoHandle, cam.ID)
			}
			return cam, h, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: role %q", interact.ErrNoHandle, msg.Role)
}

// HandleInteract handles GET /interact, the websocket carrying handle
// drags. A drag left open when the socket drops is released so the walls
// are unlocked again.
func (h *Handlers) HandleInteract(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Error(fmt.Errorf("interact: upgrade: %w", err))
		return
	}
	defer conn.Close()

	ws := h.Workspace
	// own is the camera this connection is dragging.
	var own *plan.Camera
	owns := func() bool { return own != nil && ws.Controller.Camera() == own }
	defer ws.Do(func() error {
		if owns() {
			ws.Controller.PointerUp()
		}
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			debug.Verbose("interact: client disconnected: %v", err)
			return
		}
		var msg PointerMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.WriteJSON(InteractReply{Type: "error", Error: "invalid JSON"})
			continue
		}

		var (
			rep     InteractReply
			changed string
		)
		ws.Do(func() error {
			c := ws.Controller
			switch msg.Type {
			case PointerDownMsg:
				cam, hd, err := ws.pickHandle(msg)
				if err == nil {
					err = c.PointerDown(cam, hd, geometry.Point{X: msg.X, Y: msg.Y})
				}
				if err != nil {
					rep = InteractReply{Type: "error", State: c.State().String(), Error: err.Error()}
					return nil
				}
				own = cam
				rep = stateReply(c, cam)
			case PointerMoveMsg:
				cam := c.Camera()
				if owns() && c.PointerMove(geometry.Point{X: msg.X, Y: msg.Y}) {
					changed = cam.ID
				}
				rep = stateReply(c, cam)
			case PointerUpMsg:
				cam := c.Camera()
				if owns() {
					c.PointerUp()
				}
				own = nil
				rep = stateReply(c, cam)
			default:
				rep = InteractReply{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)}
			}
			return nil
		})

		if changed != "" {
			h.Broadcaster.CoverageChanged(changed)
		}
		if err := conn.WriteJSON(rep); err != nil {
			debug.Verbose("interact: write: %v", err)
			return
		}
	}
}
