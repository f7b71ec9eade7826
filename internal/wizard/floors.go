package wizard

import "fmt"

// RoomPlacement is one room entry assigned to a floor.
type RoomPlacement struct {
	Room  string `json:"room"`
	Count int    `json:"count"`
}

// floorRule returns the floors a room type may occupy, in preference order,
// for a house with the given floor count.
func floorRule(room string, numFloors int) []int {
	switch room {
	case "garage", "master_bedroom", "kitchen", "dining_room", "living_room", "store_room":
		return []int{1}
	case "bedrooms", "bathrooms", "attached_bathroom":
		return []int{1, 2}
	case "balcony":
		if numFloors > 1 {
			return []int{2}
		}
		return []int{1}
	case "terrace":
		return []int{numFloors}
	case "study_room", "prayer_room", "guest_room":
		if numFloors > 1 {
			return []int{2}
		}
		return []int{1}
	default:
		return []int{1}
	}
}

// AssignRoomsToFloors distributes the selected room types across floors. The
// result fully replaces any previous assignment, including manual edits.
// Each room lands on the first of its allowed floors that exists in the
// house, with a count of one.
func AssignRoomsToFloors(rooms []string, numFloors int) map[string][]RoomPlacement {
	if numFloors < 1 {
		numFloors = 1
	}

	out := map[string][]RoomPlacement{}
	for i := 1; i <= numFloors; i++ {
		out[floorKey(i)] = []RoomPlacement{}
	}

	for _, room := range rooms {
		floor := 1
		for _, f := range floorRule(room, numFloors) {
			if f >= 1 && f <= numFloors {
				floor = f
				break
			}
		}
		key := floorKey(floor)
		out[key] = append(out[key], RoomPlacement{Room: room, Count: 1})
	}

	return out
}

func floorKey(floor int) string {
	return fmt.Sprintf("floor%d", floor)
}
