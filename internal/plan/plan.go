package plan

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

// Room is a placed volume in the 3D preview.
type Room struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
	Scale float64 `json:"scale"`
	Color string  `json:"color"`
}

// Wall is a placed wall segment. Rotation is in radians.
type Wall struct {
	X         float64 `json:"x"`
	Z         float64 `json:"z"`
	Rotation  float64 `json:"rotation"`
	Length    float64 `json:"length"`
	Thickness float64 `json:"thickness"`
	Height    float64 `json:"height"`
}

// Plan is the assembled 3D scene for a design.
type Plan struct {
	Rooms []Room `json:"rooms"`
	Walls []Wall `json:"walls"`
}

// attributes is the raw JSON shape designs carry in layout_json.
type attributes struct {
	Rooms []struct {
		Name  string  `json:"name"`
		X     float64 `json:"x"`
		Z     float64 `json:"z"`
		Width float64 `json:"width"`
		Depth float64 `json:"depth"`
		Scale float64 `json:"scale"`
		Color string  `json:"color"`
	} `json:"rooms"`
	Walls []struct {
		X         float64 `json:"x"`
		Z         float64 `json:"z"`
		Rotation  float64 `json:"rotation"`
		Length    float64 `json:"length"`
		Thickness float64 `json:"thickness"`
		Height    float64 `json:"height"`
	} `json:"walls"`
}

// FromDesign derives a 3D plan for a design. It prefers the structured
// layout_json payload, then a JSON-looking description, then guesses rooms
// from attachment filenames. An unrecognizable design yields an empty plan.
func FromDesign(d models.Design) Plan {
	if p, ok := fromAttributes(d.LayoutJSON); ok {
		return p
	}
	if looksLikeJSON(d.Description) {
		if p, ok := fromAttributes(d.Description); ok {
			return p
		}
	}
	if p, ok := fromFilenames(d.Files); ok {
		return p
	}
	return Plan{Rooms: []Room{}, Walls: []Wall{}}
}

func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// fromAttributes maps raw plan attributes onto the scene. Wall rotation
// arrives in degrees and is converted to radians.
func fromAttributes(raw string) (Plan, bool) {
	var attrs attributes
	if raw == "" || json.Unmarshal([]byte(raw), &attrs) != nil {
		return Plan{}, false
	}
	if len(attrs.Rooms) == 0 && len(attrs.Walls) == 0 {
		return Plan{}, false
	}

	p := Plan{Rooms: []Room{}, Walls: []Wall{}}
	for _, r := range attrs.Rooms {
		scale := r.Scale
		if scale == 0 {
			scale = 1
		}
		p.Rooms = append(p.Rooms, Room{
			Name:  r.Name,
			X:     r.X,
			Z:     r.Z,
			Width: r.Width,
			Depth: r.Depth,
			Scale: scale,
			Color: r.Color,
		})
	}
	for _, w := range attrs.Walls {
		p.Walls = append(p.Walls, Wall{
			X:         w.X,
			Z:         w.Z,
			Rotation:  w.Rotation * math.Pi / 180,
			Length:    w.Length,
			Thickness: w.Thickness,
			Height:    w.Height,
		})
	}
	return p, true
}

type filenameRoom struct {
	keywords []string
	room     Room
}

var filenameRooms = []filenameRoom{
	{[]string{"living"}, Room{Name: "Living Room", X: -3, Z: -2, Width: 5, Depth: 4, Scale: 1, Color: "#d9c8a9"}},
	{[]string{"kitchen"}, Room{Name: "Kitchen", X: 3, Z: -2, Width: 3.5, Depth: 3, Scale: 1, Color: "#c9d7e0"}},
	{[]string{"bed", "master"}, Room{Name: "Bedroom", X: -3, Z: 3, Width: 4, Depth: 3.5, Scale: 1, Color: "#e0d2c9"}},
	{[]string{"bath", "toilet", "wc"}, Room{Name: "Bath", X: 3, Z: 3, Width: 2.5, Depth: 2, Scale: 1, Color: "#cfe0dc"}},
	{[]string{"hall", "corridor", "foyer"}, Room{Name: "Hallway", X: 0, Z: 0.5, Width: 2, Depth: 5, Scale: 1, Color: "#ddd8cf"}},
}

// fromFilenames guesses a sketch plan from attachment names.
func fromFilenames(files []models.DesignFile) (Plan, bool) {
	p := Plan{Rooms: []Room{}, Walls: []Wall{}}
	seen := map[string]bool{}

	for _, f := range files {
		name := strings.ToLower(f.Original)
		for _, fr := range filenameRooms {
			if seen[fr.room.Name] {
				continue
			}
			for _, kw := range fr.keywords {
				if strings.Contains(name, kw) {
					p.Rooms = append(p.Rooms, fr.room)
					seen[fr.room.Name] = true
					break
				}
			}
		}
	}

	return p, len(p.Rooms) > 0
}
