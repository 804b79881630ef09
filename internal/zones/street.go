package zones

import "fmt"

const SpawnRoom = "spawn"

// StreetRoom names the i-th room of the generated street.
func StreetRoom(i int) string {
	return fmt.Sprintf("street%d", i)
}

// Street generates a linear layout: spawn followed by length street rooms, all
// width by height. Every interior column of a room's top wall leads to the
// next room's bottom interior row, and every interior column of its bottom
// wall leads back to the previous room's top interior row. Spawn has no
// bottom exits and the last street room has no top exits.
func Street(length, width, height int) map[string]*RoomDef {
	chain := make([]string, 0, length+1)
	chain = append(chain, SpawnRoom)
	for i := range length {
		chain = append(chain, StreetRoom(i))
	}

	defs := make(map[string]*RoomDef, len(chain))
	for i, name := range chain {
		def := &RoomDef{Width: width, Height: height}

		for x := 1; x < width-1; x++ {
			if i+1 < len(chain) {
				def.Entrances = append(def.Entrances, EntranceDef{
					X:  x,
					Y:  0,
					To: Target{Room: chain[i+1], X: x, Y: height - 2},
				})
			}
			if i > 0 {
				def.Entrances = append(def.Entrances, EntranceDef{
					X:  x,
					Y:  height - 1,
					To: Target{Room: chain[i-1], X: x, Y: 1},
				})
			}
		}

		defs[name] = def
	}

	return defs
}
